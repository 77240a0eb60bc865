package booking

import (
	"context"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
	"roomdesk/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	Update(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByStoreDate(ctx context.Context, storeID int64, date string) ([]domain.Booking, error)
	ListWindowsForRoomDate(ctx context.Context, roomID int64, date string, excludeID int64) ([]slot.Window, error)
	HasNightConflict(ctx context.Context, roomID int64, checkIn, checkOut string, excludeID int64) (bool, error)
	HasTimeConflict(ctx context.Context, roomID int64, from, to string, excludeID int64) (bool, error)
	Transition(ctx context.Context, p repository.TransitionParams) (*domain.Booking, error)
	DeleteHard(ctx context.Context, id int64) error
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	GetVariant(ctx context.Context, id int64) (*domain.RoomVariant, error)
}

type CustomerRepository interface {
	GetOrCreateByPhone(ctx context.Context, storeID int64, name, phone string) (*domain.Customer, error)
}

type DepositRepository interface {
	Create(ctx context.Context, d *domain.RoomDeposit) error
	GetActiveForRoom(ctx context.Context, roomID int64) (*domain.RoomDeposit, error)
}
