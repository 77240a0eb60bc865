package booking

import (
	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
)

// PricingInput is everything the quote depends on. Pure data in, pure data
// out; the same computation backs creation, edit and export.
type PricingInput struct {
	Mode    domain.BookingMode
	Variant *domain.RoomVariant

	// Time mode.
	StartHour string
	EndHour   string

	// Night mode.
	Nights int

	Products []domain.BookingProduct

	DiscountType   domain.DiscountType
	DiscountTarget domain.DiscountTarget
	DiscountValue  int64

	DualPayment bool
	Price1      int64
	// Price2Set distinguishes "left unset, auto-fill it" from an explicit 0.
	Price2    int64
	Price2Set bool
}

type Quote struct {
	RoomSubtotal     int64
	ProductsSubtotal int64
	Discount         int64
	GrandTotal       int64

	// Price2 is the effective second payment after auto-fill.
	Price2 int64
	// PaymentDiff is (paid − grand total) under dual payment: positive is
	// overpayment, negative underpayment. Advisory, never blocking.
	PaymentDiff int64
}

// ComputeQuote derives all money fields of a booking.
func ComputeQuote(in PricingInput) (Quote, error) {
	var q Quote

	room, err := roomSubtotal(in)
	if err != nil {
		return q, err
	}
	q.RoomSubtotal = room

	for _, p := range in.Products {
		q.ProductsSubtotal += p.UnitPrice * int64(p.Qty)
	}

	q.Discount = discountAmount(in, q.RoomSubtotal, q.ProductsSubtotal)

	q.GrandTotal = q.RoomSubtotal + q.ProductsSubtotal - q.Discount
	if q.GrandTotal < 0 {
		q.GrandTotal = 0
	}

	if in.DualPayment {
		q.Price2 = in.Price2
		if !in.Price2Set {
			q.Price2 = q.GrandTotal - in.Price1
			if q.Price2 < 0 {
				q.Price2 = 0
			}
		}
		q.PaymentDiff = in.Price1 + q.Price2 - q.GrandTotal
	}

	return q, nil
}

// roomSubtotal bills whole variant periods, rounded up — except monthly
// variants, which are a flat period charge no matter how many nights.
func roomSubtotal(in PricingInput) (int64, error) {
	v := in.Variant
	if v == nil {
		return 0, nil
	}
	if v.Duration <= 0 {
		return 0, ErrValidation
	}

	if v.Unit == domain.UnitMonth {
		return v.Price, nil
	}

	switch in.Mode {
	case domain.ModeTime:
		w, err := slot.ParseWindow(in.StartHour, in.EndHour)
		if err != nil {
			return 0, ErrValidation
		}
		elapsedMin := w.End - w.Start
		periodMin := v.Duration * 60
		if v.Unit != domain.UnitHour {
			return 0, ErrValidation
		}
		return v.Price * int64(ceilDiv(elapsedMin, periodMin)), nil

	case domain.ModeNight:
		if in.Nights <= 0 {
			return 0, ErrValidation
		}
		periodNights := v.Duration
		switch v.Unit {
		case domain.UnitDay:
		case domain.UnitWeek:
			periodNights = v.Duration * 7
		default:
			return 0, ErrValidation
		}
		return v.Price * int64(ceilDiv(in.Nights, periodNights)), nil
	}

	return 0, ErrValidation
}

// discountAmount applies the discount to exactly one target and never lets
// it exceed the target's own value.
func discountAmount(in PricingInput, roomSubtotal, productsSubtotal int64) int64 {
	if in.DiscountValue <= 0 {
		return 0
	}

	target := roomSubtotal
	if in.DiscountTarget == domain.DiscountOnProducts {
		target = productsSubtotal
	}

	var d int64
	switch in.DiscountType {
	case domain.DiscountPercent:
		d = target * in.DiscountValue / 100
	case domain.DiscountFixed:
		d = in.DiscountValue
	default:
		return 0
	}

	if d > target {
		d = target
	}
	if d < 0 {
		d = 0
	}
	return d
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
