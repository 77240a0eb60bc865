package catalog

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/validator"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	rooms     *repository.RoomRepository
	dayStatus *repository.DayStatusRepository
	events    realtime.Publisher
}

func NewService(rooms *repository.RoomRepository, dayStatus *repository.DayStatusRepository, events realtime.Publisher) *Service {
	return &Service{rooms: rooms, dayStatus: dayStatus, events: events}
}

/* ---------- ROOMS ---------- */

func (s *Service) CreateRoom(ctx context.Context, storeID int64, req CreateRoomRequest) (*domain.Room, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	status := req.Status
	if status == "" {
		status = domain.RoomActive
	}
	if !validRoomStatus(status) {
		return nil, ErrValidation
	}

	room := &domain.Room{
		StoreID:   storeID,
		Name:      req.Name,
		Status:    status,
		SortOrder: req.SortOrder,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionCreated, room.ID)
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context, storeID int64) ([]domain.Room, error) {
	return s.rooms.ListByStore(ctx, storeID)
}

func (s *Service) GetRoom(ctx context.Context, storeID, id int64) (*domain.Room, error) {
	return s.getOwned(ctx, storeID, id)
}

func (s *Service) UpdateRoom(ctx context.Context, storeID, id int64, req UpdateRoomRequest) (*domain.Room, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !validRoomStatus(req.Status) {
		return nil, ErrValidation
	}

	room, err := s.getOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	room.Name = req.Name
	room.Status = req.Status
	room.SortOrder = req.SortOrder
	if err := s.rooms.Update(ctx, room); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionUpdated, id)
	return s.getOwned(ctx, storeID, id)
}

func (s *Service) DeleteRoom(ctx context.Context, storeID, id int64) error {
	if _, err := s.getOwned(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(storeID, realtime.ActionDeleted, id)
	return nil
}

/* ---------- VARIANTS ---------- */

func (s *Service) CreateVariant(ctx context.Context, storeID, roomID int64, req VariantRequest) (*domain.RoomVariant, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !validUnit(req.Unit) || !validWeekdays(req.VisibleDays) {
		return nil, ErrValidation
	}
	if _, err := s.getOwned(ctx, storeID, roomID); err != nil {
		return nil, err
	}

	v := &domain.RoomVariant{
		RoomID:      roomID,
		Label:       req.Label,
		Price:       req.Price,
		Duration:    req.Duration,
		Unit:        req.Unit,
		VisibleDays: req.VisibleDays,
		Active:      true,
	}
	if req.Active != nil {
		v.Active = *req.Active
	}
	if err := s.rooms.CreateVariant(ctx, v); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionUpdated, roomID)
	return v, nil
}

func (s *Service) UpdateVariant(ctx context.Context, storeID, id int64, req VariantRequest) (*domain.RoomVariant, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, ErrValidation
	}
	if !validUnit(req.Unit) || !validWeekdays(req.VisibleDays) {
		return nil, ErrValidation
	}

	v, err := s.getOwnedVariant(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	v.Label = req.Label
	v.Price = req.Price
	v.Duration = req.Duration
	v.Unit = req.Unit
	v.VisibleDays = req.VisibleDays
	if req.Active != nil {
		v.Active = *req.Active
	}
	if err := s.rooms.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionUpdated, v.RoomID)
	return v, nil
}

func (s *Service) DeleteVariant(ctx context.Context, storeID, id int64) error {
	v, err := s.getOwnedVariant(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.rooms.DeleteVariant(ctx, id); err != nil {
		return err
	}
	s.publish(storeID, realtime.ActionUpdated, v.RoomID)
	return nil
}

/* ---------- HOUSEKEEPING ---------- */

func (s *Service) ListDayStatus(ctx context.Context, storeID int64, date string) ([]domain.RoomDayStatus, error) {
	if date == "" {
		date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrValidation
	}
	return s.dayStatus.ListByStoreDate(ctx, storeID, date)
}

func (s *Service) SetDayStatus(ctx context.Context, storeID int64, actor string, roomID int64, req DayStatusRequest) error {
	if errs := validator.Validate(req); errs != nil {
		return ErrValidation
	}
	if req.Status != domain.RoomClean && req.Status != domain.RoomDirty {
		return ErrValidation
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return ErrValidation
	}
	if _, err := s.getOwned(ctx, storeID, roomID); err != nil {
		return err
	}
	if err := s.dayStatus.Set(ctx, roomID, req.Date, req.Status, actor); err != nil {
		return err
	}
	s.publish(storeID, realtime.ActionUpdated, roomID)
	return nil
}

func (s *Service) getOwned(ctx context.Context, storeID, id int64) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if room.StoreID != storeID {
		return nil, ErrNotFound
	}
	return room, nil
}

func (s *Service) getOwnedVariant(ctx context.Context, storeID, id int64) (*domain.RoomVariant, error) {
	v, err := s.rooms.GetVariant(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.getOwned(ctx, storeID, v.RoomID); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Service) publish(storeID int64, action string, id int64) {
	if s.events != nil {
		s.events.Publish(storeID, realtime.Event{Entity: realtime.EntityRoom, Action: action, ID: id})
	}
}

func validRoomStatus(st domain.RoomStatus) bool {
	switch st {
	case domain.RoomActive, domain.RoomInactive, domain.RoomMaintenance:
		return true
	}
	return false
}

func validUnit(u domain.DurationUnit) bool {
	switch u {
	case domain.UnitHour, domain.UnitDay, domain.UnitWeek, domain.UnitMonth:
		return true
	}
	return false
}

func validWeekdays(days []int) bool {
	for _, d := range days {
		if d < 0 || d > 6 {
			return false
		}
	}
	return true
}
