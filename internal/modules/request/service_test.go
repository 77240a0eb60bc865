package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"roomdesk/internal/domain"
	"roomdesk/internal/pkg/slot"
	"roomdesk/internal/realtime"
)

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) Create(ctx context.Context, r *domain.BookingRequest) error {
	args := m.Called(ctx, r)
	if r != nil {
		r.ID = 77
		r.Status = domain.RequestPending
	}
	return args.Error(0)
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingRequest), args.Error(1)
}

func (m *MockRequestRepository) ListByStore(ctx context.Context, storeID int64, status domain.RequestStatus) ([]domain.BookingRequest, error) {
	args := m.Called(ctx, storeID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingRequest), args.Error(1)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.RequestStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockRequestRepository) Materialize(ctx context.Context, requestID int64, from, to domain.RequestStatus, b *domain.Booking) error {
	args := m.Called(ctx, requestID, from, to, b)
	if b != nil {
		b.ID = 500
	}
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListWindowsForRoomDate(ctx context.Context, roomID int64, date string, excludeID int64) ([]slot.Window, error) {
	args := m.Called(ctx, roomID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]slot.Window), args.Error(1)
}

func (m *MockBookingRepository) HasNightConflict(ctx context.Context, roomID int64, checkIn, checkOut string, excludeID int64) (bool, error) {
	args := m.Called(ctx, roomID, checkIn, checkOut, excludeID)
	return args.Bool(0), args.Error(1)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) GetVariant(ctx context.Context, id int64) (*domain.RoomVariant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RoomVariant), args.Error(1)
}

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) GetOrCreateByPhone(ctx context.Context, storeID int64, name, phone string) (*domain.Customer, error) {
	args := m.Called(ctx, storeID, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(storeID int64, ev realtime.Event) {
	m.Called(storeID, ev)
}

func newTestService(requests *MockRequestRepository, bookings *MockBookingRepository, rooms *MockRoomRepository, customers *MockCustomerRepository) *Service {
	pub := new(MockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Maybe()
	return NewService(requests, bookings, rooms, customers, pub)
}

func pendingRequest() *domain.BookingRequest {
	return &domain.BookingRequest{
		ID: 77, StoreID: 5, RoomID: 1,
		CustomerName: "Sari", CustomerPhone: "0813999888",
		Date: "2024-01-01", StartHour: "14:00", EndHour: "16:00",
		Status: domain.RequestPending,
	}
}

func TestTriage_ConfirmMaterializesBooking(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	confirmed := pendingRequest()
	confirmed.Status = domain.RequestConfirmed

	// First read sees the pending request, the re-read after the
	// transition sees it confirmed.
	requests.On("GetByID", mock.Anything, int64(77)).Return(pendingRequest(), nil).Once()
	requests.On("GetByID", mock.Anything, int64(77)).Return(confirmed, nil)
	bookings.On("ListWindowsForRoomDate", mock.Anything, int64(1), "2024-01-01", int64(0)).Return([]slot.Window{}, nil)
	bookings.On("HasNightConflict", mock.Anything, int64(1), "2024-01-01", "2024-01-02", int64(0)).Return(false, nil)
	customers.On("GetOrCreateByPhone", mock.Anything, int64(5), "Sari", "0813999888").Return(&domain.Customer{ID: 2}, nil)
	requests.On("Materialize", mock.Anything, int64(77), domain.RequestPending, domain.RequestConfirmed,
		mock.MatchedBy(func(b *domain.Booking) bool {
			return b.Status == domain.BookingReserved && b.ConfirmedBy == "ani" && b.ConfirmedAt != nil
		})).Return(nil)

	service := newTestService(requests, bookings, rooms, customers)

	r, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestConfirmed, r.Status)
	requests.AssertExpectations(t)
}

func TestTriage_RoomConflictLeavesRequestPending(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	taken, _ := slot.ParseWindow("14:00", "16:00")
	requests.On("GetByID", mock.Anything, int64(77)).Return(pendingRequest(), nil)
	bookings.On("ListWindowsForRoomDate", mock.Anything, int64(1), "2024-01-01", int64(0)).Return([]slot.Window{taken}, nil)

	service := newTestService(requests, bookings, rooms, customers)

	_, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestConfirmed)

	assert.ErrorIs(t, err, ErrRoomConflict)
	// No Materialize or UpdateStatus expectation: the request must not move.
	requests.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	requests.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTriage_IllegalTransition(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	done := pendingRequest()
	done.Status = domain.RequestCheckedOut
	requests.On("GetByID", mock.Anything, int64(77)).Return(done, nil)

	service := newTestService(requests, bookings, rooms, customers)

	_, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestCancelled)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTriage_CancelDoesNotMaterialize(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	cancelled := pendingRequest()
	cancelled.Status = domain.RequestCancelled
	requests.On("GetByID", mock.Anything, int64(77)).Return(pendingRequest(), nil).Once()
	requests.On("UpdateStatus", mock.Anything, int64(77), domain.RequestPending, domain.RequestCancelled).Return(nil)
	requests.On("GetByID", mock.Anything, int64(77)).Return(cancelled, nil)

	service := newTestService(requests, bookings, rooms, customers)

	r, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestCancelled)

	assert.NoError(t, err)
	assert.Equal(t, domain.RequestCancelled, r.Status)
	requests.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_RejectsForeignRoom(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.Room{ID: 1, StoreID: 42, Status: domain.RoomActive}, nil)

	service := newTestService(requests, bookings, rooms, customers)

	_, err := service.Submit(context.Background(), 5, CreateRequestRequest{
		RoomID: 1, CustomerName: "Sari", CustomerPhone: "0813999888",
		Date: "2024-01-01", StartHour: "14:00", EndHour: "16:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmit_RejectsForeignVariant(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	rooms.On("GetByID", mock.Anything, int64(1)).Return(&domain.Room{ID: 1, StoreID: 5, Status: domain.RoomActive}, nil)
	// The variant belongs to another room; pricing with it would charge
	// that room's rate.
	rooms.On("GetVariant", mock.Anything, int64(9)).Return(&domain.RoomVariant{ID: 9, RoomID: 2, Active: true}, nil)

	service := newTestService(requests, bookings, rooms, customers)

	variantID := int64(9)
	_, err := service.Submit(context.Background(), 5, CreateRequestRequest{
		RoomID: 1, VariantID: &variantID,
		CustomerName: "Sari", CustomerPhone: "0813999888",
		Date: "2024-01-01", StartHour: "14:00", EndHour: "16:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
	requests.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTriage_StaleVariantBlocksMaterialize(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	variantID := int64(9)
	r := pendingRequest()
	r.VariantID = &variantID
	requests.On("GetByID", mock.Anything, int64(77)).Return(r, nil)
	bookings.On("ListWindowsForRoomDate", mock.Anything, int64(1), "2024-01-01", int64(0)).Return([]slot.Window{}, nil)
	bookings.On("HasNightConflict", mock.Anything, int64(1), "2024-01-01", "2024-01-02", int64(0)).Return(false, nil)
	// Deactivated between submission and triage.
	rooms.On("GetVariant", mock.Anything, int64(9)).Return(&domain.RoomVariant{ID: 9, RoomID: 1, Active: false}, nil)

	service := newTestService(requests, bookings, rooms, customers)

	_, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestConfirmed)
	assert.ErrorIs(t, err, ErrValidation)
	requests.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTriage_NightStayBlocksMaterialize(t *testing.T) {
	requests := new(MockRequestRepository)
	bookings := new(MockBookingRepository)
	rooms := new(MockRoomRepository)
	customers := new(MockCustomerRepository)

	requests.On("GetByID", mock.Anything, int64(77)).Return(pendingRequest(), nil)
	bookings.On("ListWindowsForRoomDate", mock.Anything, int64(1), "2024-01-01", int64(0)).Return([]slot.Window{}, nil)
	bookings.On("HasNightConflict", mock.Anything, int64(1), "2024-01-01", "2024-01-02", int64(0)).Return(true, nil)

	service := newTestService(requests, bookings, rooms, customers)

	_, err := service.Triage(context.Background(), 5, "ani", 77, domain.RequestConfirmed)
	assert.ErrorIs(t, err, ErrRoomConflict)
	requests.AssertNotCalled(t, "Materialize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
