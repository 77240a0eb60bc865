package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type StaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

type storeModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Name      string    `gorm:"column:name"`
	Slug      string    `gorm:"column:slug;uniqueIndex"`
	ImagePath string    `gorm:"column:image_path"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (storeModel) TableName() string { return "stores" }

type staffModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	StoreID      int64     `gorm:"column:store_id;index"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	DisplayName  string    `gorm:"column:display_name"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (staffModel) TableName() string { return "staff" }

func toDomainStaff(m staffModel) *domain.Staff {
	return &domain.Staff{
		ID:           m.ID,
		StoreID:      m.StoreID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		DisplayName:  m.DisplayName,
		Role:         domain.StaffRole(m.Role),
		CreatedAt:    m.CreatedAt,
	}
}

func (r *StaffRepository) GetByUsername(ctx context.Context, username string) (*domain.Staff, error) {
	var m staffModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainStaff(m), nil
}

func (r *StaffRepository) Create(ctx context.Context, s *domain.Staff) error {
	m := staffModel{
		StoreID:      s.StoreID,
		Username:     s.Username,
		PasswordHash: s.PasswordHash,
		DisplayName:  s.DisplayName,
		Role:         string(s.Role),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = *toDomainStaff(m)
	return nil
}

func (r *StaffRepository) CreateStore(ctx context.Context, s *domain.Store) error {
	m := storeModel{
		Name:      s.Name,
		Slug:      s.Slug,
		ImagePath: s.ImagePath,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	return nil
}

func (r *StaffRepository) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	var m storeModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &domain.Store{
		ID:        m.ID,
		Name:      m.Name,
		Slug:      m.Slug,
		ImagePath: m.ImagePath,
		CreatedAt: m.CreatedAt,
	}, nil
}
