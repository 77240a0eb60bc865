package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"roomdesk/internal/domain"
	"roomdesk/internal/modules/booking"
	"roomdesk/internal/pkg/money"
	"roomdesk/internal/repository"
)

var ErrBadDate = errors.New("invalid date")

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"date", "customer", "phone", "room", "window", "status",
	"room_subtotal", "products_subtotal", "discount", "grand_total",
	"payment_method", "payment_amount", "payment_method_2", "payment_amount_2",
}

type Service struct {
	bookings *repository.BookingRepository
	rooms    *repository.RoomRepository
}

func NewService(bookings *repository.BookingRepository, rooms *repository.RoomRepository) *Service {
	return &Service{bookings: bookings, rooms: rooms}
}

// WriteDayCSV streams the day's booking report for a store. Money columns
// use the same dotted format the front desk sees on screen.
func (s *Service) WriteDayCSV(ctx context.Context, w io.Writer, storeID int64, date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrBadDate
	}

	bookings, err := s.bookings.ListByStoreDate(ctx, storeID, date)
	if err != nil {
		return err
	}

	rooms, err := s.rooms.ListByStore(ctx, storeID)
	if err != nil {
		return err
	}
	roomNames := make(map[int64]string, len(rooms))
	variants := make(map[int64]domain.RoomVariant)
	for _, r := range rooms {
		roomNames[r.ID] = r.Name
		for _, v := range r.Variants {
			variants[v.ID] = v
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range bookings {
		if err := cw.Write(s.row(b, roomNames, variants)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *Service) row(b domain.Booking, roomNames map[int64]string, variants map[int64]domain.RoomVariant) []string {
	quote := requote(b, variants)

	return []string{
		serviceDate(b),
		b.CustomerName,
		b.CustomerPhone,
		roomNames[b.RoomID],
		window(b),
		string(b.Status),
		money.Format(quote.RoomSubtotal),
		money.Format(quote.ProductsSubtotal),
		money.Format(quote.Discount),
		money.Format(b.GrandTotal),
		b.PaymentMethod,
		money.Format(b.PaymentAmount),
		b.PaymentMethod2,
		money.Format(b.PaymentAmount2),
	}
}

// requote recomputes the subtotal breakdown from the stored booking so the
// report matches what create/edit computed.
func requote(b domain.Booking, variants map[int64]domain.RoomVariant) booking.Quote {
	in := booking.PricingInput{
		Mode:           b.Mode,
		StartHour:      b.StartHour,
		EndHour:        b.EndHour,
		Nights:         b.Nights,
		Products:       b.Products,
		DiscountType:   b.DiscountType,
		DiscountTarget: b.DiscountTarget,
		DiscountValue:  b.DiscountValue,
	}
	if b.VariantID != nil {
		if v, ok := variants[*b.VariantID]; ok {
			in.Variant = &v
		}
	}

	q, err := booking.ComputeQuote(in)
	if err != nil {
		// A stored booking that no longer prices (variant deleted, say)
		// still exports; the total column carries the stored value.
		return booking.Quote{GrandTotal: b.GrandTotal}
	}
	return q
}

func serviceDate(b domain.Booking) string {
	if b.Mode == domain.ModeNight {
		return b.CheckInDate
	}
	return b.Date
}

func window(b domain.Booking) string {
	if b.Mode == domain.ModeNight {
		return fmt.Sprintf("%s / %s (%d night)", b.CheckInDate, b.CheckOutDate, b.Nights)
	}
	return fmt.Sprintf("%s-%s", b.StartHour, b.EndHour)
}
