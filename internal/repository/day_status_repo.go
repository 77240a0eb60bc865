package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomdesk/internal/domain"
)

type DayStatusRepository struct {
	db *gorm.DB
}

func NewDayStatusRepository(db *gorm.DB) *DayStatusRepository {
	return &DayStatusRepository{db: db}
}

type roomDayStatusModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	RoomID    int64     `gorm:"column:room_id;uniqueIndex:idx_room_day"`
	Date      time.Time `gorm:"column:date;type:date;uniqueIndex:idx_room_day"`
	Status    string    `gorm:"column:status"`
	UpdatedBy string    `gorm:"column:updated_by"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (roomDayStatusModel) TableName() string { return "room_day_statuses" }

func toDomainDayStatus(m roomDayStatusModel) domain.RoomDayStatus {
	d := m.Date
	return domain.RoomDayStatus{
		ID:        m.ID,
		RoomID:    m.RoomID,
		Date:      formatDate(&d),
		Status:    domain.HousekeepingStatus(m.Status),
		UpdatedBy: m.UpdatedBy,
		UpdatedAt: m.UpdatedAt,
	}
}

// Set upserts the housekeeping status of a room for a calendar date.
func (r *DayStatusRepository) Set(ctx context.Context, roomID int64, date string, status domain.HousekeepingStatus, actor string) error {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return ErrBadDate
	}

	now := time.Now()
	m := roomDayStatusModel{
		RoomID:    roomID,
		Date:      *d,
		Status:    string(status),
		UpdatedBy: actor,
		UpdatedAt: now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "room_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     string(status),
			"updated_by": actor,
			"updated_at": now,
		}),
	}).Create(&m).Error
}

// ListByStoreDate returns the housekeeping flags of a store's rooms for one
// calendar date.
func (r *DayStatusRepository) ListByStoreDate(ctx context.Context, storeID int64, date string) ([]domain.RoomDayStatus, error) {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return nil, ErrBadDate
	}

	var models []roomDayStatusModel
	err = r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = room_day_statuses.room_id").
		Where("rooms.store_id = ? AND room_day_statuses.date = ?", storeID, *d).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.RoomDayStatus, 0, len(models))
	for _, m := range models {
		out = append(out, toDomainDayStatus(m))
	}
	return out, nil
}
