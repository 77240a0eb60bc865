package request

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("booking request not found")
	ErrIllegalTransition = errors.New("request status transition not allowed")
	ErrRoomConflict      = errors.New("room is no longer available for the requested window")
)
