package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

type customerModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StoreID   int64     `gorm:"column:store_id;uniqueIndex:idx_store_phone"`
	Name      string    `gorm:"column:name"`
	Phone     string    `gorm:"column:phone;uniqueIndex:idx_store_phone"`
	Note      string    `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (customerModel) TableName() string { return "customers" }

func toDomainCustomer(m customerModel) *domain.Customer {
	return &domain.Customer{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Phone:     m.Phone,
		Note:      m.Note,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// GetOrCreateByPhone returns the store's customer with the given phone,
// creating the record on first contact. Two sessions racing on the same new
// phone both succeed: the loser's unique-constraint violation is benign and
// resolved by re-reading.
func (r *CustomerRepository) GetOrCreateByPhone(ctx context.Context, storeID int64, name, phone string) (*domain.Customer, error) {
	var m customerModel
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND phone = ?", storeID, phone).
		First(&m).Error
	if err == nil {
		return toDomainCustomer(m), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	m = customerModel{StoreID: storeID, Name: name, Phone: phone}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isUniqueViolation(err) {
			err = r.db.WithContext(ctx).
				Where("store_id = ? AND phone = ?", storeID, phone).
				First(&m).Error
			if err != nil {
				return nil, err
			}
			return toDomainCustomer(m), nil
		}
		return nil, err
	}
	return toDomainCustomer(m), nil
}

func (r *CustomerRepository) Search(ctx context.Context, storeID int64, query string, limit int) ([]domain.Customer, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var models []customerModel
	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("name LIKE ? OR phone LIKE ?", like, like)
	}
	if err := q.Order("name").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Customer, 0, len(models))
	for _, m := range models {
		out = append(out, *toDomainCustomer(m))
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// sqlite's driver reports constraint failures as plain strings.
	return err != nil && (containsFold(err.Error(), "UNIQUE constraint failed") ||
		containsFold(err.Error(), "constraint failed"))
}
