package domain

import "time"

type RoomStatus string

const (
	RoomActive      RoomStatus = "Aktif"
	RoomInactive    RoomStatus = "Nonaktif"
	RoomMaintenance RoomStatus = "Perbaikan"
)

type Room struct {
	ID        int64      `json:"id"`
	StoreID   int64      `json:"store_id"`
	Name      string     `json:"name" validate:"required"`
	Status    RoomStatus `json:"status"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	Variants []RoomVariant `json:"variants,omitempty"`
}

type DurationUnit string

const (
	UnitHour  DurationUnit = "hour"
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
)

type RoomVariant struct {
	ID       int64        `json:"id"`
	RoomID   int64        `json:"room_id"`
	Label    string       `json:"label" validate:"required"`
	Price    int64        `json:"price" validate:"gte=0"`
	Duration int          `json:"duration" validate:"gt=0"`
	Unit     DurationUnit `json:"unit"`
	// VisibleDays lists time.Weekday numbers the variant is offered on.
	// Empty means every day.
	VisibleDays []int     `json:"visible_days,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// VisibleOn reports whether the variant is offered on the given weekday.
func (v RoomVariant) VisibleOn(day time.Weekday) bool {
	if len(v.VisibleDays) == 0 {
		return true
	}
	for _, d := range v.VisibleDays {
		if d == int(day) {
			return true
		}
	}
	return false
}

// HousekeepingStatus is the per-day cleanliness flag of a room.
type HousekeepingStatus string

const (
	RoomClean HousekeepingStatus = "clean"
	RoomDirty HousekeepingStatus = "dirty"
)

type RoomDayStatus struct {
	ID        int64              `json:"id"`
	RoomID    int64              `json:"room_id"`
	Date      string             `json:"date"`
	Status    HousekeepingStatus `json:"status"`
	UpdatedBy string             `json:"updated_by,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}
