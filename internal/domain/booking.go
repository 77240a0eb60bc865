package domain

import "time"

type BookingStatus string

const (
	BookingReserved   BookingStatus = "BO"
	BookingCheckedIn  BookingStatus = "CI"
	BookingCheckedOut BookingStatus = "CO"
	BookingCancelled  BookingStatus = "BATAL"
)

type BookingMode string

const (
	ModeTime  BookingMode = "time"
	ModeNight BookingMode = "night"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type DiscountTarget string

const (
	DiscountOnRoom     DiscountTarget = "room"
	DiscountOnProducts DiscountTarget = "products"
)

// CanTransition reports whether the lifecycle allows moving from s to `to`.
// CO and BATAL are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingReserved:
		return to == BookingCheckedIn || to == BookingCancelled
	case BookingCheckedIn:
		return to == BookingCheckedOut || to == BookingCancelled
	default:
		return false
	}
}

type Booking struct {
	ID        int64       `json:"id"`
	StoreID   int64       `json:"store_id" validate:"required"`
	RoomID    int64       `json:"room_id" validate:"required"`
	VariantID *int64      `json:"variant_id,omitempty"`
	Mode      BookingMode `json:"mode"`

	CustomerName  string `json:"customer_name" validate:"required"`
	CustomerPhone string `json:"customer_phone" validate:"required"`

	// Time mode: Date is the service date, StartHour/EndHour are "HH:MM".
	Date      string `json:"date"`
	StartHour string `json:"start_hour,omitempty"`
	EndHour   string `json:"end_hour,omitempty"`

	// Night mode: stay spans [CheckInDate, CheckOutDate).
	CheckInDate  string `json:"check_in_date,omitempty"`
	CheckOutDate string `json:"check_out_date,omitempty"`
	Nights       int    `json:"nights,omitempty"`

	Status BookingStatus `json:"status"`

	PaymentMethod  string `json:"payment_method,omitempty"`
	PaymentAmount  int64  `json:"payment_amount"`
	DualPayment    bool   `json:"dual_payment"`
	PaymentMethod2 string `json:"payment_method_2,omitempty"`
	PaymentAmount2 int64  `json:"payment_amount_2,omitempty"`

	DiscountType   DiscountType   `json:"discount_type,omitempty"`
	DiscountTarget DiscountTarget `json:"discount_target,omitempty"`
	DiscountValue  int64          `json:"discount_value,omitempty"`

	GrandTotal int64  `json:"grand_total"`
	Note       string `json:"note,omitempty"`

	CreatedBy    string     `json:"created_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	ConfirmedBy  string     `json:"confirmed_by,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CheckedInBy  string     `json:"checked_in_by,omitempty"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutBy string     `json:"checked_out_by,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Version guards concurrent edits; stale writes are rejected.
	Version int64 `json:"version"`

	Products []BookingProduct `json:"products,omitempty"`
	Room     *Room            `json:"room,omitempty"`
	Variant  *RoomVariant     `json:"variant,omitempty"`
}

type BookingProduct struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"booking_id"`
	Name      string `json:"name" validate:"required"`
	UnitPrice int64  `json:"unit_price" validate:"gte=0"`
	Qty       int    `json:"qty" validate:"gt=0"`
	Subtotal  int64  `json:"subtotal"`
}
