package request

import (
	"context"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
)

type RequestRepository interface {
	Create(ctx context.Context, req *domain.BookingRequest) error
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	ListByStore(ctx context.Context, storeID int64, status domain.RequestStatus) ([]domain.BookingRequest, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error
	Materialize(ctx context.Context, requestID int64, from, to domain.RequestStatus, booking *domain.Booking) error
}

type BookingRepository interface {
	ListWindowsForRoomDate(ctx context.Context, roomID int64, date string, excludeID int64) ([]slot.Window, error)
	HasNightConflict(ctx context.Context, roomID int64, checkIn, checkOut string, excludeID int64) (bool, error)
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetVariant(ctx context.Context, id int64) (*domain.RoomVariant, error)
}

type CustomerRepository interface {
	GetOrCreateByPhone(ctx context.Context, storeID int64, name, phone string) (*domain.Customer, error)
}
