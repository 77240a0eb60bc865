package repository

import (
	"gorm.io/gorm"
)

// AutoMigrate creates the schema and, on postgres, the exclusion constraints
// that make "at most one non-cancelled booking per slot" a database
// guarantee instead of a check-then-act hope.
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&storeModel{},
		&staffModel{},
		&roomModel{},
		&roomVariantModel{},
		&bookingModel{},
		&bookingProductModel{},
		&roomDepositModel{},
		&roomDayStatusModel{},
		&customerModel{},
		&bookingRequestModel{},
		&uploadModel{},
	)
	if err != nil {
		return err
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS no_slot_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT no_slot_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				date WITH =,
				int4range(slot_start_min, slot_end_min) WITH &&
			)
			WHERE (mode = 'time' AND status <> 'BATAL')`,
		`ALTER TABLE bookings DROP CONSTRAINT IF EXISTS no_stay_overlap`,
		`ALTER TABLE bookings ADD CONSTRAINT no_stay_overlap
			EXCLUDE USING gist (
				room_id WITH =,
				daterange(check_in_date, check_out_date) WITH &&
			)
			WHERE (mode = 'night' AND status <> 'BATAL')`,
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			return err
		}
	}
	return nil
}
