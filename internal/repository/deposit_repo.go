package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type DepositRepository struct {
	db *gorm.DB
}

func NewDepositRepository(db *gorm.DB) *DepositRepository {
	return &DepositRepository{db: db}
}

type roomDepositModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	RoomID    int64  `gorm:"column:room_id;index"`
	BookingID int64  `gorm:"column:booking_id;index"`
	Type      string `gorm:"column:type"`
	Amount    int64  `gorm:"column:amount"`
	Document  string `gorm:"column:document"`
	PhotoPath string `gorm:"column:photo_path"`

	Status     string     `gorm:"column:status;index"`
	ReceivedBy string     `gorm:"column:received_by"`
	ReceivedAt time.Time  `gorm:"column:received_at"`
	ReturnedBy string     `gorm:"column:returned_by"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
}

func (roomDepositModel) TableName() string { return "room_deposits" }

func toDomainDeposit(m roomDepositModel) *domain.RoomDeposit {
	return &domain.RoomDeposit{
		ID:         m.ID,
		RoomID:     m.RoomID,
		BookingID:  m.BookingID,
		Type:       domain.DepositType(m.Type),
		Amount:     m.Amount,
		Document:   m.Document,
		PhotoPath:  m.PhotoPath,
		Status:     domain.DepositStatus(m.Status),
		ReceivedBy: m.ReceivedBy,
		ReceivedAt: m.ReceivedAt,
		ReturnedBy: m.ReturnedBy,
		ReturnedAt: m.ReturnedAt,
	}
}

func toDepositModel(d *domain.RoomDeposit) roomDepositModel {
	return roomDepositModel{
		ID:         d.ID,
		RoomID:     d.RoomID,
		BookingID:  d.BookingID,
		Type:       string(d.Type),
		Amount:     d.Amount,
		Document:   d.Document,
		PhotoPath:  d.PhotoPath,
		Status:     string(d.Status),
		ReceivedBy: d.ReceivedBy,
		ReceivedAt: d.ReceivedAt,
		ReturnedBy: d.ReturnedBy,
		ReturnedAt: d.ReturnedAt,
	}
}

func (r *DepositRepository) Create(ctx context.Context, d *domain.RoomDeposit) error {
	m := toDepositModel(d)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*d = *toDomainDeposit(m)
	return nil
}

func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*domain.RoomDeposit, error) {
	var m roomDepositModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainDeposit(m), nil
}

// GetActiveForRoom returns the room's open deposit, or nil if there is none.
func (r *DepositRepository) GetActiveForRoom(ctx context.Context, roomID int64) (*domain.RoomDeposit, error) {
	var m roomDepositModel
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, string(domain.DepositActive)).
		Order("id DESC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toDomainDeposit(m), nil
}

// Return closes a deposit, stamping actor and time.
func (r *DepositRepository) Return(ctx context.Context, id int64, actor string) (*domain.RoomDeposit, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&roomDepositModel{}).
		Where("id = ? AND status = ?", id, string(domain.DepositActive)).
		Updates(map[string]interface{}{
			"status":      string(domain.DepositReturned),
			"returned_by": actor,
			"returned_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var m roomDepositModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainDeposit(m), nil
}

func (r *DepositRepository) ListByStore(ctx context.Context, storeID int64, onlyActive bool) ([]domain.RoomDeposit, error) {
	var models []roomDepositModel
	q := r.db.WithContext(ctx).
		Joins("JOIN rooms ON rooms.id = room_deposits.room_id").
		Where("rooms.store_id = ?", storeID)
	if onlyActive {
		q = q.Where("room_deposits.status = ?", string(domain.DepositActive))
	}
	if err := q.Order("room_deposits.id DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.RoomDeposit, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainDeposit(m))
	}
	return out, nil
}
