package deposit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrAlreadyOpen   = errors.New("room already holds an active deposit")
	ErrAlreadyClosed = errors.New("deposit already returned")
)

type OpenDepositRequest struct {
	RoomID    int64              `json:"room_id"`
	BookingID int64              `json:"booking_id"`
	Type      domain.DepositType `json:"type"`
	Amount    int64              `json:"amount"`
	Document  string             `json:"document"`
	PhotoPath string             `json:"photo_path"`
}

type Service struct {
	deposits *repository.DepositRepository
	rooms    *repository.RoomRepository
	events   realtime.Publisher
}

func NewService(deposits *repository.DepositRepository, rooms *repository.RoomRepository, events realtime.Publisher) *Service {
	return &Service{deposits: deposits, rooms: rooms, events: events}
}

// Open takes a deposit for a room outside the check-in flow, for walk-ins
// and corrections. Check-in attaches deposits through the booking transition.
func (s *Service) Open(ctx context.Context, storeID int64, actor string, req OpenDepositRequest) (*domain.RoomDeposit, error) {
	switch req.Type {
	case domain.DepositCash:
		if req.Amount <= 0 {
			return nil, ErrValidation
		}
	case domain.DepositDocument:
		if req.Document == "" {
			return nil, ErrValidation
		}
	default:
		return nil, ErrValidation
	}

	if err := s.ownRoom(ctx, storeID, req.RoomID); err != nil {
		return nil, err
	}

	active, err := s.deposits.GetActiveForRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrAlreadyOpen
	}

	d := &domain.RoomDeposit{
		RoomID:     req.RoomID,
		BookingID:  req.BookingID,
		Type:       req.Type,
		Amount:     req.Amount,
		Document:   req.Document,
		PhotoPath:  req.PhotoPath,
		Status:     domain.DepositActive,
		ReceivedBy: actor,
		ReceivedAt: time.Now(),
	}
	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionCreated, d.ID)
	return d, nil
}

func (s *Service) Return(ctx context.Context, storeID int64, actor string, id int64) (*domain.RoomDeposit, error) {
	d, err := s.deposits.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := s.ownRoom(ctx, storeID, d.RoomID); err != nil {
		return nil, err
	}

	returned, err := s.deposits.Return(ctx, id, actor)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAlreadyClosed
		}
		return nil, err
	}

	s.publish(storeID, realtime.ActionUpdated, id)
	return returned, nil
}

func (s *Service) List(ctx context.Context, storeID int64, onlyActive bool) ([]domain.RoomDeposit, error) {
	return s.deposits.ListByStore(ctx, storeID, onlyActive)
}

func (s *Service) ownRoom(ctx context.Context, storeID, roomID int64) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if room.StoreID != storeID {
		return ErrNotFound
	}
	return nil
}

func (s *Service) publish(storeID int64, action string, id int64) {
	if s.events != nil {
		s.events.Publish(storeID, realtime.Event{Entity: realtime.EntityDeposit, Action: action, ID: id})
	}
}
