package domain

import "time"

// Customer is deduplicated by phone number within a store; the first booking
// for an unknown phone creates the record.
type Customer struct {
	ID        int64     `json:"id"`
	StoreID   int64     `json:"store_id"`
	Name      string    `json:"name" validate:"required"`
	Phone     string    `json:"phone" validate:"required"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
