package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"roomdesk/internal/domain"
)

func TestRow_TimeBookingWithVariant(t *testing.T) {
	variantID := int64(9)
	b := domain.Booking{
		RoomID:        1,
		VariantID:     &variantID,
		Mode:          domain.ModeTime,
		CustomerName:  "Budi",
		CustomerPhone: "0812345",
		Date:          "2024-01-01",
		StartHour:     "13:00",
		EndHour:       "16:00",
		Status:        domain.BookingCheckedOut,
		GrandTotal:    150000,
		PaymentMethod: "cash",
		PaymentAmount: 150000,
	}
	roomNames := map[int64]string{1: "Ruang A"}
	variants := map[int64]domain.RoomVariant{
		9: {ID: 9, Price: 50000, Duration: 1, Unit: domain.UnitHour},
	}

	s := &Service{}
	row := s.row(b, roomNames, variants)

	assert.Equal(t, "2024-01-01", row[0])
	assert.Equal(t, "Budi", row[1])
	assert.Equal(t, "Ruang A", row[3])
	assert.Equal(t, "13:00-16:00", row[4])
	assert.Equal(t, "CO", row[5])
	assert.Equal(t, "150.000", row[6])
	assert.Equal(t, "150.000", row[9])
}

func TestRow_NightBookingWindow(t *testing.T) {
	b := domain.Booking{
		RoomID:       2,
		Mode:         domain.ModeNight,
		CheckInDate:  "2024-01-01",
		CheckOutDate: "2024-01-03",
		Nights:       2,
		GrandTotal:   400000,
	}

	s := &Service{}
	row := s.row(b, map[int64]string{2: "Kamar 2"}, nil)

	assert.Equal(t, "2024-01-01", row[0])
	assert.Equal(t, "2024-01-01 / 2024-01-03 (2 night)", row[4])
	assert.Equal(t, "400.000", row[9])
}

func TestRow_MissingVariantFallsBackToStoredTotal(t *testing.T) {
	gone := int64(404)
	b := domain.Booking{
		RoomID:     1,
		VariantID:  &gone,
		Mode:       domain.ModeTime,
		StartHour:  "10:00",
		EndHour:    "12:00",
		GrandTotal: 120000,
	}

	s := &Service{}
	row := s.row(b, map[int64]string{}, map[int64]domain.RoomVariant{})

	assert.Equal(t, "0", row[6])
	assert.Equal(t, "120.000", row[9])
}

func TestWriteDayCSV_RejectsBadDate(t *testing.T) {
	s := &Service{}
	var buf bytes.Buffer
	err := s.WriteDayCSV(context.Background(), &buf, 1, "01-01-2024")
	assert.ErrorIs(t, err, ErrBadDate)
	assert.Zero(t, buf.Len())
}
