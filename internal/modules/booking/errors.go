package booking

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking not found")
	ErrSlotTaken         = errors.New("room slot is already booked")
	ErrIllegalTransition = errors.New("status transition not allowed")
	ErrStaleEdit         = errors.New("booking was modified by someone else")
)
