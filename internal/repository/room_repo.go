package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"roomdesk/internal/domain"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

type roomModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	StoreID   int64     `gorm:"column:store_id;index"`
	Name      string    `gorm:"column:name"`
	Status    string    `gorm:"column:status"`
	SortOrder int       `gorm:"column:sort_order"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (roomModel) TableName() string { return "rooms" }

type roomVariantModel struct {
	ID          int64          `gorm:"column:id;primaryKey"`
	RoomID      int64          `gorm:"column:room_id;index"`
	Label       string         `gorm:"column:label"`
	Price       int64          `gorm:"column:price"`
	Duration    int            `gorm:"column:duration"`
	Unit        string         `gorm:"column:unit"`
	VisibleDays datatypes.JSON `gorm:"column:visible_days"`
	Active      bool           `gorm:"column:active"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
}

func (roomVariantModel) TableName() string { return "room_variants" }

func toDomainRoom(m roomModel) *domain.Room {
	return &domain.Room{
		ID:        m.ID,
		StoreID:   m.StoreID,
		Name:      m.Name,
		Status:    domain.RoomStatus(m.Status),
		SortOrder: m.SortOrder,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainVariant(m roomVariantModel) domain.RoomVariant {
	var days []int
	if len(m.VisibleDays) > 0 {
		_ = json.Unmarshal(m.VisibleDays, &days)
	}
	return domain.RoomVariant{
		ID:          m.ID,
		RoomID:      m.RoomID,
		Label:       m.Label,
		Price:       m.Price,
		Duration:    m.Duration,
		Unit:        domain.DurationUnit(m.Unit),
		VisibleDays: days,
		Active:      m.Active,
		CreatedAt:   m.CreatedAt,
	}
}

func toVariantModel(v *domain.RoomVariant) roomVariantModel {
	var days datatypes.JSON
	if len(v.VisibleDays) > 0 {
		raw, _ := json.Marshal(v.VisibleDays)
		days = datatypes.JSON(raw)
	}
	return roomVariantModel{
		ID:          v.ID,
		RoomID:      v.RoomID,
		Label:       v.Label,
		Price:       v.Price,
		Duration:    v.Duration,
		Unit:        string(v.Unit),
		VisibleDays: days,
		Active:      v.Active,
		CreatedAt:   v.CreatedAt,
	}
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	m := roomModel{
		StoreID:   room.StoreID,
		Name:      room.Name,
		Status:    string(room.Status),
		SortOrder: room.SortOrder,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*room = *toDomainRoom(m)
	return nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Model(&roomModel{}).
		Where("id = ?", room.ID).
		Updates(map[string]interface{}{
			"name":       room.Name,
			"status":     string(room.Status),
			"sort_order": room.SortOrder,
			"updated_at": time.Now(),
		}).Error
}

func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", id).Delete(&roomVariantModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&roomModel{}, id).Error
	})
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var m roomModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	room := toDomainRoom(m)

	var variants []roomVariantModel
	if err := r.db.WithContext(ctx).Where("room_id = ?", id).Order("id").Find(&variants).Error; err != nil {
		return nil, err
	}
	for _, v := range variants {
		room.Variants = append(room.Variants, toDomainVariant(v))
	}
	return room, nil
}

func (r *RoomRepository) ListByStore(ctx context.Context, storeID int64) ([]domain.Room, error) {
	var models []roomModel
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("sort_order, id").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	byRoom := map[int64][]domain.RoomVariant{}
	if len(ids) > 0 {
		var variants []roomVariantModel
		if err := r.db.WithContext(ctx).Where("room_id IN ?", ids).Order("id").Find(&variants).Error; err != nil {
			return nil, err
		}
		for _, v := range variants {
			byRoom[v.RoomID] = append(byRoom[v.RoomID], toDomainVariant(v))
		}
	}

	out := make([]domain.Room, 0, len(models))
	for _, m := range models {
		room := toDomainRoom(m)
		room.Variants = byRoom[m.ID]
		out = append(out, *room)
	}
	return out, nil
}

func (r *RoomRepository) CreateVariant(ctx context.Context, v *domain.RoomVariant) error {
	m := toVariantModel(v)
	m.ID = 0
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*v = toDomainVariant(m)
	return nil
}

func (r *RoomRepository) UpdateVariant(ctx context.Context, v *domain.RoomVariant) error {
	m := toVariantModel(v)
	return r.db.WithContext(ctx).Model(&roomVariantModel{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"label":        m.Label,
			"price":        m.Price,
			"duration":     m.Duration,
			"unit":         m.Unit,
			"visible_days": m.VisibleDays,
			"active":       m.Active,
		}).Error
}

func (r *RoomRepository) DeleteVariant(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&roomVariantModel{}, id).Error
}

func (r *RoomRepository) GetVariant(ctx context.Context, id int64) (*domain.RoomVariant, error) {
	var m roomVariantModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	v := toDomainVariant(m)
	return &v, nil
}
