package request

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
	"roomdesk/internal/modules/booking"
	"roomdesk/internal/pkg/slot"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	requests  RequestRepository
	bookings  BookingRepository
	rooms     RoomRepository
	customers CustomerRepository
	events    realtime.Publisher
}

func NewService(
	requests RequestRepository,
	bookings BookingRepository,
	rooms RoomRepository,
	customers CustomerRepository,
	events realtime.Publisher,
) *Service {
	return &Service{
		requests:  requests,
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		events:    events,
	}
}

// Submit records a customer's pre-booking for front-desk triage.
func (s *Service) Submit(ctx context.Context, storeID int64, req CreateRequestRequest) (*domain.BookingRequest, error) {
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if room.StoreID != storeID || room.Status != domain.RoomActive {
		return nil, ErrValidation
	}
	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		return nil, ErrValidation
	}
	if _, err := slot.ParseWindow(req.StartHour, req.EndHour); err != nil {
		return nil, ErrValidation
	}
	if _, err := s.variantFor(ctx, req.RoomID, req.Date, req.VariantID); err != nil {
		return nil, err
	}

	r := &domain.BookingRequest{
		StoreID:       storeID,
		RoomID:        req.RoomID,
		VariantID:     req.VariantID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          req.Date,
		StartHour:     req.StartHour,
		EndHour:       req.EndHour,
		Note:          req.Note,
	}
	if err := s.requests.Create(ctx, r); err != nil {
		return nil, err
	}

	s.publish(storeID, realtime.ActionCreated, r.ID)
	return r, nil
}

func (s *Service) List(ctx context.Context, storeID int64, status domain.RequestStatus) ([]domain.BookingRequest, error) {
	return s.requests.ListByStore(ctx, storeID, status)
}

// Triage advances a request. Moving a pending request to confirmed or
// check-in materializes a real Booking in the same transaction: the room is
// re-verified, the booking created and the request advanced all-or-nothing.
// On any failure the request stays where it was and the operator learns why.
func (s *Service) Triage(ctx context.Context, storeID int64, actor string, id int64, to domain.RequestStatus) (*domain.BookingRequest, error) {
	switch to {
	case domain.RequestConfirmed, domain.RequestCheckedIn, domain.RequestCheckedOut, domain.RequestCancelled:
	default:
		return nil, ErrValidation
	}

	r, err := s.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !r.Status.CanTransition(to) {
		return nil, ErrIllegalTransition
	}

	materialize := r.Status == domain.RequestPending &&
		(to == domain.RequestConfirmed || to == domain.RequestCheckedIn)

	if materialize {
		if err := s.materialize(ctx, storeID, actor, r, to); err != nil {
			return nil, err
		}
	} else {
		if err := s.requests.UpdateStatus(ctx, id, r.Status, to); err != nil {
			if errors.Is(err, repository.ErrStatusConflict) {
				return nil, ErrIllegalTransition
			}
			return nil, err
		}
	}

	s.publish(storeID, realtime.ActionUpdated, id)
	return s.get(ctx, storeID, id)
}

func (s *Service) materialize(ctx context.Context, storeID int64, actor string, r *domain.BookingRequest, to domain.RequestStatus) error {
	// Re-verify the slot right before the write; the DB constraint is the
	// last line of defense if someone slips in between.
	existing, err := s.bookings.ListWindowsForRoomDate(ctx, r.RoomID, r.Date, 0)
	if err != nil {
		return err
	}
	w, err := slot.ParseWindow(r.StartHour, r.EndHour)
	if err != nil {
		return ErrValidation
	}
	if slot.ConflictsAny(w, existing) {
		return ErrRoomConflict
	}
	d, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return ErrValidation
	}
	stay, err := s.bookings.HasNightConflict(ctx, r.RoomID, r.Date, d.AddDate(0, 0, 1).Format(dateLayout), 0)
	if err != nil {
		return err
	}
	if stay {
		return ErrRoomConflict
	}

	// The variant was checked at submission but may have been moved or
	// deactivated since; a booking must not be priced with a stale one.
	variant, err := s.variantFor(ctx, r.RoomID, r.Date, r.VariantID)
	if err != nil {
		return err
	}

	quote, err := booking.ComputeQuote(booking.PricingInput{
		Mode:      domain.ModeTime,
		Variant:   variant,
		StartHour: r.StartHour,
		EndHour:   r.EndHour,
	})
	if err != nil {
		return err
	}

	if _, err := s.customers.GetOrCreateByPhone(ctx, storeID, r.CustomerName, r.CustomerPhone); err != nil {
		return err
	}

	now := time.Now()
	b := &domain.Booking{
		StoreID:       storeID,
		RoomID:        r.RoomID,
		VariantID:     r.VariantID,
		Mode:          domain.ModeTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Date:          r.Date,
		StartHour:     r.StartHour,
		EndHour:       r.EndHour,
		Status:        domain.BookingReserved,
		GrandTotal:    quote.GrandTotal,
		Note:          r.Note,
		CreatedBy:     actor,
		ConfirmedBy:   actor,
		ConfirmedAt:   &now,
		Version:       1,
	}
	if to == domain.RequestCheckedIn {
		b.Status = domain.BookingCheckedIn
		b.CheckedInBy = actor
		b.CheckedInAt = &now
	}

	err = s.requests.Materialize(ctx, r.ID, r.Status, to, b)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStatusConflict):
			return ErrIllegalTransition
		case repository.IsSlotConstraintViolation(err):
			return ErrRoomConflict
		default:
			return err
		}
	}

	if s.events != nil {
		s.events.Publish(storeID, realtime.Event{Entity: realtime.EntityBooking, Action: realtime.ActionCreated, ID: b.ID})
	}
	return nil
}

// variantFor loads the requested variant and checks it actually belongs to
// the room, is active and is offered on the request's weekday. Without this a
// caller could price a room with another room's cheaper variant.
func (s *Service) variantFor(ctx context.Context, roomID int64, date string, variantID *int64) (*domain.RoomVariant, error) {
	if variantID == nil {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, ErrValidation
	}
	variant, err := s.rooms.GetVariant(ctx, *variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrValidation
		}
		return nil, err
	}
	if variant.RoomID != roomID || !variant.Active || !variant.VisibleOn(d.Weekday()) {
		return nil, ErrValidation
	}
	return variant, nil
}

func (s *Service) get(ctx context.Context, storeID, id int64) (*domain.BookingRequest, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if r.StoreID != storeID {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *Service) publish(storeID int64, action string, id int64) {
	if s.events != nil {
		s.events.Publish(storeID, realtime.Event{Entity: realtime.EntityRequest, Action: action, ID: id})
	}
}
