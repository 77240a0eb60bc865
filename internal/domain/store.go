package domain

import "time"

type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Slug      string    `json:"slug" validate:"required"`
	ImagePath string    `json:"image_path,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type StaffRole string

const (
	RoleAdmin     StaffRole = "admin"
	RoleFrontdesk StaffRole = "frontdesk"
)

type Staff struct {
	ID           int64     `json:"id"`
	StoreID      int64     `json:"store_id"`
	Username     string    `json:"username" validate:"required"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         StaffRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
