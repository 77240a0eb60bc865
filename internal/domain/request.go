package domain

import "time"

type RequestStatus string

const (
	RequestPending    RequestStatus = "pending"
	RequestConfirmed  RequestStatus = "confirmed"
	RequestCheckedIn  RequestStatus = "check-in"
	RequestCheckedOut RequestStatus = "check-out"
	RequestCancelled  RequestStatus = "cancelled"
)

// CanTransition reports whether the request lifecycle allows s -> to.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	switch s {
	case RequestPending:
		return to == RequestConfirmed || to == RequestCheckedIn || to == RequestCancelled
	case RequestConfirmed:
		return to == RequestCheckedIn || to == RequestCancelled
	case RequestCheckedIn:
		return to == RequestCheckedOut
	default:
		return false
	}
}

// BookingRequest is a customer-submitted pre-booking awaiting front-desk
// triage. Confirming it materializes a real Booking.
type BookingRequest struct {
	ID        int64  `json:"id"`
	StoreID   int64  `json:"store_id"`
	RoomID    int64  `json:"room_id" validate:"required"`
	VariantID *int64 `json:"variant_id,omitempty"`

	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`

	Date      string `json:"date" validate:"required"`
	StartHour string `json:"start_hour"`
	EndHour   string `json:"end_hour"`
	Note      string `json:"note,omitempty"`

	Status    RequestStatus `json:"status"`
	BookingID *int64        `json:"booking_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
