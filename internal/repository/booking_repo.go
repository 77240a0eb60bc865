package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
)

var (
	// ErrStaleVersion means the booking was edited by someone else since it
	// was loaded; the caller should refetch and retry.
	ErrStaleVersion = errors.New("booking version is stale")
	// ErrStatusConflict means the guarded status update matched no row: the
	// booking moved to another status concurrently or the edge is illegal.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	StoreID   int64  `gorm:"column:store_id;index"`
	RoomID    int64  `gorm:"column:room_id;index"`
	VariantID *int64 `gorm:"column:variant_id"`
	Mode      string `gorm:"column:mode"`

	CustomerName  string `gorm:"column:customer_name"`
	CustomerPhone string `gorm:"column:customer_phone"`

	Date      *time.Time `gorm:"column:date;type:date"`
	StartHour string     `gorm:"column:start_hour"`
	EndHour   string     `gorm:"column:end_hour"`

	// Normalized service-day minute offsets, kept in sync with the hour
	// columns so the postgres exclusion constraint can range over them.
	SlotStartMin int `gorm:"column:slot_start_min"`
	SlotEndMin   int `gorm:"column:slot_end_min"`

	CheckInDate  *time.Time `gorm:"column:check_in_date;type:date"`
	CheckOutDate *time.Time `gorm:"column:check_out_date;type:date"`
	Nights       int        `gorm:"column:nights"`

	Status string `gorm:"column:status;index"`

	PaymentMethod  string `gorm:"column:payment_method"`
	PaymentAmount  int64  `gorm:"column:payment_amount"`
	DualPayment    bool   `gorm:"column:dual_payment"`
	PaymentMethod2 string `gorm:"column:payment_method_2"`
	PaymentAmount2 int64  `gorm:"column:payment_amount_2"`

	DiscountType   string `gorm:"column:discount_type"`
	DiscountTarget string `gorm:"column:discount_target"`
	DiscountValue  int64  `gorm:"column:discount_value"`

	GrandTotal int64   `gorm:"column:grand_total"`
	Note       *string `gorm:"column:note"`

	CreatedBy    string     `gorm:"column:created_by"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	ConfirmedBy  string     `gorm:"column:confirmed_by"`
	ConfirmedAt  *time.Time `gorm:"column:confirmed_at"`
	CheckedInBy  string     `gorm:"column:checked_in_by"`
	CheckedInAt  *time.Time `gorm:"column:checked_in_at"`
	CheckedOutBy string     `gorm:"column:checked_out_by"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at"`

	Version int64 `gorm:"column:version"`
}

func (bookingModel) TableName() string { return "bookings" }

type bookingProductModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	BookingID int64  `gorm:"column:booking_id;index"`
	Name      string `gorm:"column:name"`
	UnitPrice int64  `gorm:"column:unit_price"`
	Qty       int    `gorm:"column:qty"`
	Subtotal  int64  `gorm:"column:subtotal"`
}

func (bookingProductModel) TableName() string { return "booking_products" }

func toDomainBooking(m bookingModel) *domain.Booking {
	var note string
	if m.Note != nil {
		note = *m.Note
	}

	return &domain.Booking{
		ID:             m.ID,
		StoreID:        m.StoreID,
		RoomID:         m.RoomID,
		VariantID:      m.VariantID,
		Mode:           domain.BookingMode(m.Mode),
		CustomerName:   m.CustomerName,
		CustomerPhone:  m.CustomerPhone,
		Date:           formatDate(m.Date),
		StartHour:      m.StartHour,
		EndHour:        m.EndHour,
		CheckInDate:    formatDate(m.CheckInDate),
		CheckOutDate:   formatDate(m.CheckOutDate),
		Nights:         m.Nights,
		Status:         domain.BookingStatus(m.Status),
		PaymentMethod:  m.PaymentMethod,
		PaymentAmount:  m.PaymentAmount,
		DualPayment:    m.DualPayment,
		PaymentMethod2: m.PaymentMethod2,
		PaymentAmount2: m.PaymentAmount2,
		DiscountType:   domain.DiscountType(m.DiscountType),
		DiscountTarget: domain.DiscountTarget(m.DiscountTarget),
		DiscountValue:  m.DiscountValue,
		GrandTotal:     m.GrandTotal,
		Note:           note,
		CreatedBy:      m.CreatedBy,
		CreatedAt:      m.CreatedAt,
		ConfirmedBy:    m.ConfirmedBy,
		ConfirmedAt:    m.ConfirmedAt,
		CheckedInBy:    m.CheckedInBy,
		CheckedInAt:    m.CheckedInAt,
		CheckedOutBy:   m.CheckedOutBy,
		CheckedOutAt:   m.CheckedOutAt,
		UpdatedAt:      m.UpdatedAt,
		Version:        m.Version,
	}
}

func toBookingModel(b *domain.Booking) (bookingModel, error) {
	var note *string
	if b.Note != "" {
		v := b.Note
		note = &v
	}

	date, err := parseDate(b.Date)
	if err != nil {
		return bookingModel{}, err
	}
	checkIn, err := parseDate(b.CheckInDate)
	if err != nil {
		return bookingModel{}, err
	}
	checkOut, err := parseDate(b.CheckOutDate)
	if err != nil {
		return bookingModel{}, err
	}

	m := bookingModel{
		ID:             b.ID,
		StoreID:        b.StoreID,
		RoomID:         b.RoomID,
		VariantID:      b.VariantID,
		Mode:           string(b.Mode),
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		Date:           date,
		StartHour:      b.StartHour,
		EndHour:        b.EndHour,
		CheckInDate:    checkIn,
		CheckOutDate:   checkOut,
		Nights:         b.Nights,
		Status:         string(b.Status),
		PaymentMethod:  b.PaymentMethod,
		PaymentAmount:  b.PaymentAmount,
		DualPayment:    b.DualPayment,
		PaymentMethod2: b.PaymentMethod2,
		PaymentAmount2: b.PaymentAmount2,
		DiscountType:   string(b.DiscountType),
		DiscountTarget: string(b.DiscountTarget),
		DiscountValue:  b.DiscountValue,
		GrandTotal:     b.GrandTotal,
		Note:           note,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
		ConfirmedBy:    b.ConfirmedBy,
		ConfirmedAt:    b.ConfirmedAt,
		CheckedInBy:    b.CheckedInBy,
		CheckedInAt:    b.CheckedInAt,
		CheckedOutBy:   b.CheckedOutBy,
		CheckedOutAt:   b.CheckedOutAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
	}

	if b.Mode == domain.ModeTime && b.StartHour != "" && b.EndHour != "" {
		w, err := slot.ParseWindow(b.StartHour, b.EndHour)
		if err != nil {
			return bookingModel{}, err
		}
		m.SlotStartMin = w.Start
		m.SlotEndMin = w.End
	}

	return m, nil
}

func toProductModels(bookingID int64, products []domain.BookingProduct) []bookingProductModel {
	out := make([]bookingProductModel, 0, len(products))
	for _, p := range products {
		out = append(out, bookingProductModel{
			BookingID: bookingID,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Qty:       p.Qty,
			Subtotal:  p.Subtotal,
		})
	}
	return out
}

func toDomainProducts(models []bookingProductModel) []domain.BookingProduct {
	out := make([]domain.BookingProduct, 0, len(models))
	for _, m := range models {
		out = append(out, domain.BookingProduct{
			ID:        m.ID,
			BookingID: m.BookingID,
			Name:      m.Name,
			UnitPrice: m.UnitPrice,
			Qty:       m.Qty,
			Subtotal:  m.Subtotal,
		})
	}
	return out
}

// Create inserts the booking and its product lines in one transaction.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		if len(b.Products) > 0 {
			rows := toProductModels(m.ID, b.Products)
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	products := b.Products
	*b = *toDomainBooking(m)
	b.Products = products
	for i := range b.Products {
		b.Products[i].BookingID = m.ID
	}
	return nil
}

// Update rewrites the booking row behind a version guard and replaces its
// product lines wholesale. Returns ErrStaleVersion when someone else edited
// the booking in between.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	m, err := toBookingModel(b)
	if err != nil {
		return err
	}
	m.Version = b.Version + 1
	m.UpdatedAt = time.Now()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND version = ?", b.ID, b.Version).
			Select("*").
			Omit("id", "created_at", "created_by", "status").
			Updates(m)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStaleVersion
		}

		if err := tx.Where("booking_id = ?", b.ID).Delete(&bookingProductModel{}).Error; err != nil {
			return err
		}
		if len(b.Products) > 0 {
			rows := toProductModels(b.ID, b.Products)
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		b.Version = m.Version
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}

	var products []bookingProductModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", id).Find(&products).Error; err != nil {
		return nil, err
	}

	b := toDomainBooking(m)
	b.Products = toDomainProducts(products)
	return b, nil
}

// ListByStoreDate returns the store's bookings touching the given service
// date: time-mode rows dated that day plus night-mode stays spanning it.
func (r *BookingRepository) ListByStoreDate(ctx context.Context, storeID int64, date string) ([]domain.Booking, error) {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return nil, ErrBadDate
	}

	var models []bookingModel
	err = r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Where("(mode = ? AND date = ?) OR (mode = ? AND check_in_date <= ? AND check_out_date > ?)",
			string(domain.ModeTime), *d, string(domain.ModeNight), *d, *d).
		Order("slot_start_min, id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	byBooking := map[int64][]domain.BookingProduct{}
	if len(ids) > 0 {
		var products []bookingProductModel
		if err := r.db.WithContext(ctx).Where("booking_id IN ?", ids).Find(&products).Error; err != nil {
			return nil, err
		}
		for _, p := range toDomainProducts(products) {
			byBooking[p.BookingID] = append(byBooking[p.BookingID], p)
		}
	}

	out := make([]domain.Booking, 0, len(models))
	for _, m := range models {
		b := toDomainBooking(m)
		b.Products = byBooking[m.ID]
		out = append(out, *b)
	}
	return out, nil
}

// ListWindowsForRoomDate returns the normalized occupied windows of a room on
// a service date, excluding cancelled rows and optionally one booking (the
// one being edited).
func (r *BookingRepository) ListWindowsForRoomDate(ctx context.Context, roomID int64, date string, excludeID int64) ([]slot.Window, error) {
	d, err := parseDate(date)
	if err != nil || d == nil {
		return nil, ErrBadDate
	}

	var models []bookingModel
	q := r.db.WithContext(ctx).
		Where("room_id = ? AND mode = ? AND date = ? AND status <> ?",
			roomID, string(domain.ModeTime), *d, string(domain.BookingCancelled))
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]slot.Window, 0, len(models))
	for _, m := range models {
		out = append(out, slot.Window{Start: m.SlotStartMin, End: m.SlotEndMin})
	}
	return out, nil
}

// HasNightConflict reports whether any non-cancelled night-mode stay of the
// room overlaps [checkIn, checkOut).
func (r *BookingRepository) HasNightConflict(ctx context.Context, roomID int64, checkIn, checkOut string, excludeID int64) (bool, error) {
	in, err := parseDate(checkIn)
	if err != nil || in == nil {
		return false, ErrBadDate
	}
	out, err := parseDate(checkOut)
	if err != nil || out == nil {
		return false, ErrBadDate
	}

	var cnt int64
	q := `
SELECT COUNT(1)
FROM bookings
WHERE room_id = ?
  AND mode = 'night'
  AND status <> 'BATAL'
  AND check_in_date < ?
  AND check_out_date > ?
  AND id <> ?
`
	tx := r.db.WithContext(ctx).Raw(q, roomID, *out, *in, excludeID).Scan(&cnt)
	if tx.Error != nil {
		return false, tx.Error
	}
	return cnt > 0, nil
}

// HasTimeConflict reports whether any non-cancelled time-mode booking of the
// room falls on a service date in [from, to). A night stay occupies its whole
// service days, so it conflicts with any hourly booking inside that range.
func (r *BookingRepository) HasTimeConflict(ctx context.Context, roomID int64, from, to string, excludeID int64) (bool, error) {
	f, err := parseDate(from)
	if err != nil || f == nil {
		return false, ErrBadDate
	}
	t, err := parseDate(to)
	if err != nil || t == nil {
		return false, ErrBadDate
	}

	var cnt int64
	q := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("room_id = ? AND mode = ? AND status <> ? AND date >= ? AND date < ?",
			roomID, string(domain.ModeTime), string(domain.BookingCancelled), *f, *t)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// TransitionParams carries a status change plus the side effects that must
// commit atomically with it.
type TransitionParams struct {
	BookingID int64
	From      domain.BookingStatus
	To        domain.BookingStatus
	Actor     string
	Now       time.Time

	// Deposit, when set on a check-in, is opened in the same transaction.
	Deposit *domain.RoomDeposit
	// ReturnDeposit closes the room's active deposit on check-out.
	ReturnDeposit bool
	// DirtyDate is today's date; check-out marks the room dirty for it.
	DirtyDate string
}

// Transition performs the status write and every side effect in a single
// transaction. Any failure rolls the whole status change back.
func (r *BookingRepository) Transition(ctx context.Context, p TransitionParams) (*domain.Booking, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     string(p.To),
			"updated_at": p.Now,
		}
		switch p.To {
		case domain.BookingReserved:
			updates["confirmed_by"] = p.Actor
			updates["confirmed_at"] = p.Now
		case domain.BookingCheckedIn:
			updates["checked_in_by"] = p.Actor
			updates["checked_in_at"] = p.Now
		case domain.BookingCheckedOut:
			updates["checked_out_by"] = p.Actor
			updates["checked_out_at"] = p.Now
		}

		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", p.BookingID, string(p.From)).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if p.To == domain.BookingCheckedIn && p.Deposit != nil {
			dep := toDepositModel(p.Deposit)
			dep.BookingID = p.BookingID
			dep.Status = string(domain.DepositActive)
			dep.ReceivedBy = p.Actor
			dep.ReceivedAt = p.Now
			if err := tx.Create(&dep).Error; err != nil {
				return err
			}
			p.Deposit.ID = dep.ID
		}

		if p.To == domain.BookingCheckedOut {
			var m bookingModel
			if err := tx.First(&m, p.BookingID).Error; err != nil {
				return err
			}

			dirty, err := parseDate(p.DirtyDate)
			if err != nil || dirty == nil {
				return ErrBadDate
			}
			day := roomDayStatusModel{
				RoomID:    m.RoomID,
				Date:      *dirty,
				Status:    string(domain.RoomDirty),
				UpdatedBy: p.Actor,
				UpdatedAt: p.Now,
			}
			err = tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "room_id"}, {Name: "date"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"status":     string(domain.RoomDirty),
					"updated_by": p.Actor,
					"updated_at": p.Now,
				}),
			}).Create(&day).Error
			if err != nil {
				return err
			}

			if p.ReturnDeposit {
				res := tx.Model(&roomDepositModel{}).
					Where("room_id = ? AND status = ?", m.RoomID, string(domain.DepositActive)).
					Updates(map[string]interface{}{
						"status":      string(domain.DepositReturned),
						"returned_by": p.Actor,
						"returned_at": p.Now,
					})
				if res.Error != nil {
					return res.Error
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, p.BookingID)
}

// DeleteHard removes the booking and its lines. Admin-only escape hatch;
// cancelling is the normal path.
func (r *BookingRepository) DeleteHard(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", id).Delete(&bookingProductModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&bookingModel{}, id).Error
	})
}
