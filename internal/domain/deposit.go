package domain

import "time"

type DepositType string

const (
	DepositCash     DepositType = "cash"
	DepositDocument DepositType = "document"
)

type DepositStatus string

const (
	DepositActive   DepositStatus = "active"
	DepositReturned DepositStatus = "returned"
)

// RoomDeposit is a security hold taken at check-in and released at check-out:
// either a cash amount or a pledged identity document.
type RoomDeposit struct {
	ID        int64       `json:"id"`
	RoomID    int64       `json:"room_id"`
	BookingID int64       `json:"booking_id"`
	Type      DepositType `json:"type"`
	Amount    int64       `json:"amount,omitempty"`
	Document  string      `json:"document,omitempty"`
	PhotoPath string      `json:"photo_path,omitempty"`

	Status     DepositStatus `json:"status"`
	ReceivedBy string        `json:"received_by,omitempty"`
	ReceivedAt time.Time     `json:"received_at"`
	ReturnedBy string        `json:"returned_by,omitempty"`
	ReturnedAt *time.Time    `json:"returned_at,omitempty"`
}
