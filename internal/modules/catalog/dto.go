package catalog

import "roomdesk/internal/domain"

type CreateRoomRequest struct {
	Name      string            `json:"name" validate:"required"`
	Status    domain.RoomStatus `json:"status"`
	SortOrder int               `json:"sort_order"`
}

type UpdateRoomRequest struct {
	Name      string            `json:"name" validate:"required"`
	Status    domain.RoomStatus `json:"status"`
	SortOrder int               `json:"sort_order"`
}

type VariantRequest struct {
	Label       string              `json:"label" validate:"required"`
	Price       int64               `json:"price" validate:"gte=0"`
	Duration    int                 `json:"duration" validate:"gt=0"`
	Unit        domain.DurationUnit `json:"unit"`
	VisibleDays []int               `json:"visible_days"`
	Active      *bool               `json:"active"`
}

type DayStatusRequest struct {
	Date   string                    `json:"date" validate:"required"`
	Status domain.HousekeepingStatus `json:"status" validate:"required"`
}
