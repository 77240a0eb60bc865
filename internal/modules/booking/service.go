package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

const dateLayout = "2006-01-02"

type Service struct {
	bookings  BookingRepository
	rooms     RoomRepository
	customers CustomerRepository
	deposits  DepositRepository
	events    realtime.Publisher
}

func NewService(
	bookings BookingRepository,
	rooms RoomRepository,
	customers CustomerRepository,
	deposits DepositRepository,
	events realtime.Publisher,
) *Service {
	return &Service{
		bookings:  bookings,
		rooms:     rooms,
		customers: customers,
		deposits:  deposits,
		events:    events,
	}
}

// Create validates, checks the slot, prices the booking server-side and
// writes it. The returned warning is non-empty when a requested deposit
// could not be attached; the booking itself still committed.
func (s *Service) Create(ctx context.Context, storeID int64, actor string, req CreateBookingRequest) (*domain.Booking, string, error) {
	b, variant, err := s.prepare(ctx, storeID, req)
	if err != nil {
		return nil, "", err
	}

	if err := s.checkSlot(ctx, b, 0); err != nil {
		return nil, "", err
	}

	if err := s.applyPricing(b, variant, req); err != nil {
		return nil, "", err
	}

	if _, err := s.customers.GetOrCreateByPhone(ctx, storeID, b.CustomerName, b.CustomerPhone); err != nil {
		return nil, "", err
	}

	b.Status = domain.BookingReserved
	b.CreatedBy = actor
	b.Version = 1

	if err := s.bookings.Create(ctx, b); err != nil {
		if repository.IsSlotConstraintViolation(err) {
			return nil, "", ErrSlotTaken
		}
		return nil, "", err
	}

	// Deposit attach is deliberately outside the booking write: its failure
	// is reported, not rolled back.
	warning := ""
	if req.Deposit != nil {
		dep := depositFromInput(req.Deposit, b.RoomID, b.ID, actor)
		if err := s.deposits.Create(ctx, dep); err != nil {
			log.Printf("booking %d created but deposit attach failed: %v", b.ID, err)
			warning = "booking saved, but the deposit could not be recorded"
		}
	}

	s.publish(storeID, realtime.ActionCreated, b.ID)
	return b, warning, nil
}

// Update rewrites an editable booking. The slot check is skipped when the
// room and window are untouched; otherwise the edited booking is excluded
// from its own candidate set.
func (s *Service) Update(ctx context.Context, storeID int64, actor string, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	existing, err := s.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.BookingCheckedOut || existing.Status == domain.BookingCancelled {
		return nil, ErrValidation
	}

	b, variant, err := s.prepare(ctx, storeID, req.CreateBookingRequest)
	if err != nil {
		return nil, err
	}

	if windowChanged(existing, b) {
		if err := s.checkSlot(ctx, b, id); err != nil {
			return nil, err
		}
	}

	if err := s.applyPricing(b, variant, req.CreateBookingRequest); err != nil {
		return nil, err
	}

	b.ID = id
	b.Status = existing.Status
	b.Version = req.Version

	if err := s.bookings.Update(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleVersion):
			return nil, ErrStaleEdit
		case repository.IsSlotConstraintViolation(err):
			return nil, ErrSlotTaken
		default:
			return nil, err
		}
	}

	s.publish(storeID, realtime.ActionUpdated, id)
	return s.get(ctx, storeID, id)
}

// Transition moves a booking along the lifecycle. All side effects (deposit
// open on check-in, dirty-room and deposit return on check-out) commit
// atomically with the status write.
func (s *Service) Transition(ctx context.Context, storeID int64, actor string, id int64, req TransitionRequest) (*domain.Booking, error) {
	to := domain.BookingStatus(req.Status)
	switch to {
	case domain.BookingReserved, domain.BookingCheckedIn, domain.BookingCheckedOut, domain.BookingCancelled:
	default:
		return nil, ErrValidation
	}

	b, err := s.get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransition(to) {
		return nil, ErrIllegalTransition
	}

	now := time.Now()
	params := repository.TransitionParams{
		BookingID: id,
		From:      b.Status,
		To:        to,
		Actor:     actor,
		Now:       now,
	}

	if to == domain.BookingCheckedIn && req.Deposit != nil {
		params.Deposit = depositFromInput(req.Deposit, b.RoomID, id, actor)
	}
	if to == domain.BookingCheckedOut {
		// Housekeeping is flagged for today's calendar date, not the
		// booking's service date; late checkouts land on the right day.
		params.DirtyDate = now.Format(dateLayout)
		params.ReturnDeposit = req.ReturnDeposit
	}

	updated, err := s.bookings.Transition(ctx, params)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrIllegalTransition
		}
		return nil, err
	}

	s.publish(storeID, realtime.ActionUpdated, id)
	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, storeID, id int64) (*domain.Booking, error) {
	return s.get(ctx, storeID, id)
}

// ListSchedule returns the store's bookings touching a service date.
func (s *Service) ListSchedule(ctx context.Context, storeID int64, date string) ([]domain.Booking, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrValidation
	}
	return s.bookings.ListByStoreDate(ctx, storeID, date)
}

// ActiveDeposit tells the front desk whether a check-in should prompt for a
// deposit (none active) or a check-out should prompt to return one.
func (s *Service) ActiveDeposit(ctx context.Context, storeID, bookingID int64) (*domain.RoomDeposit, error) {
	b, err := s.get(ctx, storeID, bookingID)
	if err != nil {
		return nil, err
	}
	return s.deposits.GetActiveForRoom(ctx, b.RoomID)
}

// Delete hard-removes a booking. BATAL is the preferred path; this is the
// admin escape hatch.
func (s *Service) Delete(ctx context.Context, storeID, id int64) error {
	if _, err := s.get(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.bookings.DeleteHard(ctx, id); err != nil {
		return err
	}
	s.publish(storeID, realtime.ActionDeleted, id)
	return nil
}

func (s *Service) get(ctx context.Context, storeID, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.StoreID != storeID {
		return nil, ErrNotFound
	}
	return b, nil
}

// prepare validates the request and assembles the unsaved booking plus its
// variant.
func (s *Service) prepare(ctx context.Context, storeID int64, req CreateBookingRequest) (*domain.Booking, *domain.RoomVariant, error) {
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if room.StoreID != storeID {
		return nil, nil, ErrNotFound
	}
	if room.Status != domain.RoomActive {
		return nil, nil, ErrValidation
	}

	b := &domain.Booking{
		StoreID:        storeID,
		RoomID:         req.RoomID,
		VariantID:      req.VariantID,
		Mode:           domain.BookingMode(req.Mode),
		CustomerName:   req.CustomerName,
		CustomerPhone:  req.CustomerPhone,
		Note:           req.Note,
		PaymentMethod:  req.PaymentMethod,
		PaymentAmount:  req.PaymentAmount,
		DualPayment:    req.DualPayment,
		PaymentMethod2: req.PaymentMethod2,
		DiscountType:   domain.DiscountType(req.DiscountType),
		DiscountTarget: domain.DiscountTarget(req.DiscountTarget),
		DiscountValue:  req.DiscountValue,
	}

	var anchor time.Time
	switch b.Mode {
	case domain.ModeTime:
		d, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			return nil, nil, ErrValidation
		}
		if _, err := slot.ParseWindow(req.StartHour, req.EndHour); err != nil {
			return nil, nil, ErrValidation
		}
		b.Date = req.Date
		b.StartHour = req.StartHour
		b.EndHour = req.EndHour
		anchor = d

	case domain.ModeNight:
		in, err := time.Parse(dateLayout, req.CheckInDate)
		if err != nil {
			return nil, nil, ErrValidation
		}
		out, err := time.Parse(dateLayout, req.CheckOutDate)
		if err != nil {
			return nil, nil, ErrValidation
		}
		if !out.After(in) {
			return nil, nil, ErrValidation
		}
		b.CheckInDate = req.CheckInDate
		b.CheckOutDate = req.CheckOutDate
		b.Date = req.CheckInDate
		b.Nights = int(out.Sub(in).Hours() / 24)
		anchor = in

	default:
		return nil, nil, ErrValidation
	}

	var variant *domain.RoomVariant
	if req.VariantID != nil {
		variant, err = s.rooms.GetVariant(ctx, *req.VariantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, ErrValidation
			}
			return nil, nil, err
		}
		if variant.RoomID != req.RoomID || !variant.Active || !variant.VisibleOn(anchor.Weekday()) {
			return nil, nil, ErrValidation
		}
	}

	for _, p := range req.Products {
		if p.Name == "" || p.Qty <= 0 || p.UnitPrice < 0 {
			return nil, nil, ErrValidation
		}
		b.Products = append(b.Products, domain.BookingProduct{
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Qty:       p.Qty,
			Subtotal:  p.UnitPrice * int64(p.Qty),
		})
	}

	return b, variant, nil
}

// checkSlot rejects the booking before any write when its interval overlaps
// an existing non-cancelled booking of the same room. A night stay occupies
// its whole service days, so the two modes conflict with each other too.
func (s *Service) checkSlot(ctx context.Context, b *domain.Booking, excludeID int64) error {
	switch b.Mode {
	case domain.ModeTime:
		existing, err := s.bookings.ListWindowsForRoomDate(ctx, b.RoomID, b.Date, excludeID)
		if err != nil {
			return err
		}
		w, err := slot.ParseWindow(b.StartHour, b.EndHour)
		if err != nil {
			return ErrValidation
		}
		if slot.ConflictsAny(w, existing) {
			return ErrSlotTaken
		}

		d, err := time.Parse(dateLayout, b.Date)
		if err != nil {
			return ErrValidation
		}
		stay, err := s.bookings.HasNightConflict(ctx, b.RoomID, b.Date, d.AddDate(0, 0, 1).Format(dateLayout), excludeID)
		if err != nil {
			return err
		}
		if stay {
			return ErrSlotTaken
		}

	case domain.ModeNight:
		conflict, err := s.bookings.HasNightConflict(ctx, b.RoomID, b.CheckInDate, b.CheckOutDate, excludeID)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotTaken
		}

		hourly, err := s.bookings.HasTimeConflict(ctx, b.RoomID, b.CheckInDate, b.CheckOutDate, excludeID)
		if err != nil {
			return err
		}
		if hourly {
			return ErrSlotTaken
		}
	}
	return nil
}

func (s *Service) applyPricing(b *domain.Booking, variant *domain.RoomVariant, req CreateBookingRequest) error {
	in := PricingInput{
		Mode:           b.Mode,
		Variant:        variant,
		StartHour:      b.StartHour,
		EndHour:        b.EndHour,
		Nights:         b.Nights,
		Products:       b.Products,
		DiscountType:   b.DiscountType,
		DiscountTarget: b.DiscountTarget,
		DiscountValue:  b.DiscountValue,
		DualPayment:    req.DualPayment,
		Price1:         req.PaymentAmount,
	}
	if req.PaymentAmount2 != nil {
		in.Price2 = *req.PaymentAmount2
		in.Price2Set = true
	}

	q, err := ComputeQuote(in)
	if err != nil {
		return err
	}

	b.GrandTotal = q.GrandTotal
	if b.DualPayment {
		b.PaymentAmount2 = q.Price2
	}
	return nil
}

func windowChanged(old, next *domain.Booking) bool {
	if old.RoomID != next.RoomID || old.Mode != next.Mode {
		return true
	}
	if next.Mode == domain.ModeNight {
		return old.CheckInDate != next.CheckInDate || old.CheckOutDate != next.CheckOutDate
	}
	return old.Date != next.Date || old.StartHour != next.StartHour || old.EndHour != next.EndHour
}

func depositFromInput(in *DepositInput, roomID, bookingID int64, actor string) *domain.RoomDeposit {
	return &domain.RoomDeposit{
		RoomID:     roomID,
		BookingID:  bookingID,
		Type:       in.Type,
		Amount:     in.Amount,
		Document:   in.Document,
		PhotoPath:  in.Photo,
		Status:     domain.DepositActive,
		ReceivedBy: actor,
		ReceivedAt: time.Now(),
	}
}

func (s *Service) publish(storeID int64, action string, id int64) {
	if s.events != nil {
		s.events.Publish(storeID, realtime.Event{Entity: realtime.EntityBooking, Action: action, ID: id})
	}
}
