package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type UploadRepository struct {
	db *gorm.DB
}

func NewUploadRepository(db *gorm.DB) *UploadRepository {
	return &UploadRepository{db: db}
}

type uploadModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	StoreID      int64     `gorm:"column:store_id;index"`
	UploadedBy   int64     `gorm:"column:uploaded_by"`
	Kind         string    `gorm:"column:kind"`
	OriginalName string    `gorm:"column:original_name"`
	Path         string    `gorm:"column:path;uniqueIndex"`
	MimeType     string    `gorm:"column:mime_type"`
	Size         int64     `gorm:"column:size"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (uploadModel) TableName() string { return "uploads" }

func toDomainUpload(m uploadModel) *domain.Upload {
	return &domain.Upload{
		ID:           m.ID,
		StoreID:      m.StoreID,
		UploadedBy:   m.UploadedBy,
		Kind:         domain.UploadKind(m.Kind),
		OriginalName: m.OriginalName,
		Path:         m.Path,
		MimeType:     m.MimeType,
		Size:         m.Size,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *UploadRepository) Create(ctx context.Context, u *domain.Upload) error {
	m := uploadModel{
		StoreID:      u.StoreID,
		UploadedBy:   u.UploadedBy,
		Kind:         string(u.Kind),
		OriginalName: u.OriginalName,
		Path:         u.Path,
		MimeType:     u.MimeType,
		Size:         u.Size,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*u = *toDomainUpload(m)
	return nil
}

func (r *UploadRepository) GetByPath(ctx context.Context, path string) (*domain.Upload, error) {
	var m uploadModel
	if err := r.db.WithContext(ctx).Where("path = ?", path).First(&m).Error; err != nil {
		return nil, err
	}
	return toDomainUpload(m), nil
}
