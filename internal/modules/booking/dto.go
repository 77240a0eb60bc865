package booking

import "roomdesk/internal/domain"

type ProductInput struct {
	Name      string `json:"name" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
	Qty       int    `json:"qty" binding:"gt=0"`
}

type DepositInput struct {
	Type     domain.DepositType `json:"type" binding:"required,oneof=cash document"`
	Amount   int64              `json:"amount"`
	Document string             `json:"document"`
	Photo    string             `json:"photo"`
}

type CreateBookingRequest struct {
	RoomID    int64  `json:"room_id" binding:"required"`
	VariantID *int64 `json:"variant_id"`
	Mode      string `json:"mode" binding:"required,oneof=time night"`

	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`

	Date      string `json:"date"`
	StartHour string `json:"start_hour"`
	EndHour   string `json:"end_hour"`

	CheckInDate  string `json:"check_in_date"`
	CheckOutDate string `json:"check_out_date"`

	PaymentMethod  string `json:"payment_method"`
	PaymentAmount  int64  `json:"payment_amount"`
	DualPayment    bool   `json:"dual_payment"`
	PaymentMethod2 string `json:"payment_method_2"`
	PaymentAmount2 *int64 `json:"payment_amount_2"`

	DiscountType   string `json:"discount_type"`
	DiscountTarget string `json:"discount_target"`
	DiscountValue  int64  `json:"discount_value"`

	Note     string         `json:"note"`
	Products []ProductInput `json:"products"`

	// Optional deposit collected together with the booking. Attach failure
	// does not roll the booking back.
	Deposit *DepositInput `json:"deposit"`
}

type UpdateBookingRequest struct {
	CreateBookingRequest
	Version int64 `json:"version"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`

	// Deposit may accompany a check-in; skippable.
	Deposit *DepositInput `json:"deposit"`
	// ReturnDeposit releases the room's active deposit on check-out.
	ReturnDeposit bool `json:"return_deposit"`
}
