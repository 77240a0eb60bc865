package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

type bookingRequestModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	StoreID   int64  `gorm:"column:store_id;index"`
	RoomID    int64  `gorm:"column:room_id"`
	VariantID *int64 `gorm:"column:variant_id"`

	CustomerName  string `gorm:"column:customer_name"`
	CustomerPhone string `gorm:"column:customer_phone"`

	Date      *time.Time `gorm:"column:date;type:date"`
	StartHour string     `gorm:"column:start_hour"`
	EndHour   string     `gorm:"column:end_hour"`
	Note      string     `gorm:"column:note"`

	Status    string `gorm:"column:status;index"`
	BookingID *int64 `gorm:"column:booking_id"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (bookingRequestModel) TableName() string { return "booking_requests" }

func toDomainRequest(m bookingRequestModel) *domain.BookingRequest {
	return &domain.BookingRequest{
		ID:            m.ID,
		StoreID:       m.StoreID,
		RoomID:        m.RoomID,
		VariantID:     m.VariantID,
		CustomerName:  m.CustomerName,
		CustomerPhone: m.CustomerPhone,
		Date:          formatDate(m.Date),
		StartHour:     m.StartHour,
		EndHour:       m.EndHour,
		Note:          m.Note,
		Status:        domain.RequestStatus(m.Status),
		BookingID:     m.BookingID,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *RequestRepository) Create(ctx context.Context, req *domain.BookingRequest) error {
	date, err := parseDate(req.Date)
	if err != nil || date == nil {
		return ErrBadDate
	}

	m := bookingRequestModel{
		StoreID:       req.StoreID,
		RoomID:        req.RoomID,
		VariantID:     req.VariantID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          date,
		StartHour:     req.StartHour,
		EndHour:       req.EndHour,
		Note:          req.Note,
		Status:        string(domain.RequestPending),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*req = *toDomainRequest(m)
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	var m bookingRequestModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRequest(m), nil
}

func (r *RequestRepository) ListByStore(ctx context.Context, storeID int64, status domain.RequestStatus) ([]domain.BookingRequest, error) {
	var models []bookingRequestModel
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if status != "" {
		q = q.Where("status = ?", string(status))
	}
	if err := q.Order("id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.BookingRequest, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainRequest(m))
	}
	return out, nil
}

// UpdateStatus advances the request behind a status guard; RowsAffected 0
// means the request moved concurrently.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	res := r.db.WithContext(ctx).Model(&bookingRequestModel{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStatusConflict
	}
	return nil
}

// Materialize converts a request into a booking atomically: the booking row
// is created and the request advanced in one transaction, so a failure on
// either side leaves the request untouched.
func (r *RequestRepository) Materialize(ctx context.Context, requestID int64, from, to domain.RequestStatus, booking *domain.Booking) error {
	m, err := toBookingModel(booking)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		res := tx.Model(&bookingRequestModel{}).
			Where("id = ? AND status = ?", requestID, string(from)).
			Updates(map[string]interface{}{
				"status":     string(to),
				"booking_id": m.ID,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}
		return nil
	})
	if err != nil {
		return err
	}

	products := booking.Products
	*booking = *toDomainBooking(m)
	booking.Products = products
	return nil
}
