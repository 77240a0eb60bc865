package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roomdesk/internal/database"
	"roomdesk/internal/domain"
	"roomdesk/internal/middleware"
	"roomdesk/internal/modules/auth"
	"roomdesk/internal/modules/booking"
	"roomdesk/internal/modules/catalog"
	"roomdesk/internal/modules/customer"
	"roomdesk/internal/modules/deposit"
	"roomdesk/internal/modules/export"
	"roomdesk/internal/modules/request"
	jwtsvc "roomdesk/internal/pkg/jwt"
	"roomdesk/internal/realtime"
	"roomdesk/internal/repository"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB

	storeID      int64
	hourlyRoomID int64
	hourlyVarID  int64
	nightRoomID  int64

	adminToken     string
	frontdeskToken string
}

type testResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Warning string          `json:"warning,omitempty"`
	Error   *errorDetail    `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *testSuite {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, repository.AutoMigrate(db), "Failed to migrate")

	staffRepo := repository.NewStaffRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	depositRepo := repository.NewDepositRepository(db)
	dayStatusRepo := repository.NewDayStatusRepository(db)

	jwtService := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	hub := realtime.NewHub()
	t.Cleanup(hub.Close)

	authHandler := auth.NewHandler(auth.NewService(staffRepo, jwtService))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, roomRepo, customerRepo, depositRepo, hub))
	requestHandler := request.NewHandler(request.NewService(requestRepo, bookingRepo, roomRepo, customerRepo, hub))
	catalogHandler := catalog.NewHandler(catalog.NewService(roomRepo, dayStatusRepo, hub))
	customerHandler := customer.NewHandler(customer.NewService(customerRepo))
	depositHandler := deposit.NewHandler(deposit.NewService(depositRepo, roomRepo, hub))
	exportHandler := export.NewHandler(export.NewService(bookingRepo, roomRepo))

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	requestHandler.RegisterPublicRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(jwtService))
	{
		bookingHandler.RegisterRoutes(protected)
		requestHandler.RegisterRoutes(protected)
		catalogHandler.RegisterRoutes(protected)
		customerHandler.RegisterRoutes(protected)
		depositHandler.RegisterRoutes(protected)
		exportHandler.RegisterRoutes(protected)

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			bookingHandler.RegisterAdminRoutes(admin)
			catalogHandler.RegisterAdminRoutes(admin)
		}
	}

	// Seed one store with an admin, a frontdesk operator and two rooms.
	ctx := context.Background()
	store := domain.Store{Name: "Kos Melati", Slug: "kos-melati"}
	require.NoError(t, staffRepo.CreateStore(ctx, &store))

	adminHash, err := auth.HashPassword("admin123")
	require.NoError(t, err)
	adminStaff := domain.Staff{StoreID: store.ID, Username: "admin", PasswordHash: adminHash, DisplayName: "Admin", Role: domain.RoleAdmin}
	require.NoError(t, staffRepo.Create(ctx, &adminStaff))

	fdHash, err := auth.HashPassword("rahasia123")
	require.NoError(t, err)
	fdStaff := domain.Staff{StoreID: store.ID, Username: "ani", PasswordHash: fdHash, DisplayName: "Ani", Role: domain.RoleFrontdesk}
	require.NoError(t, staffRepo.Create(ctx, &fdStaff))

	hourly := domain.Room{StoreID: store.ID, Name: "Ruang A", Status: domain.RoomActive}
	require.NoError(t, roomRepo.Create(ctx, &hourly))
	hourlyVariant := domain.RoomVariant{RoomID: hourly.ID, Label: "Per jam", Price: 50000, Duration: 1, Unit: domain.UnitHour, Active: true}
	require.NoError(t, roomRepo.CreateVariant(ctx, &hourlyVariant))

	night := domain.Room{StoreID: store.ID, Name: "Kamar 1", Status: domain.RoomActive}
	require.NoError(t, roomRepo.Create(ctx, &night))
	nightVariant := domain.RoomVariant{RoomID: night.ID, Label: "Per malam", Price: 200000, Duration: 1, Unit: domain.UnitDay, Active: true}
	require.NoError(t, roomRepo.CreateVariant(ctx, &nightVariant))

	adminToken, err := jwtService.GenerateToken(adminStaff.ID, store.ID, "admin", "admin")
	require.NoError(t, err)
	fdToken, err := jwtService.GenerateToken(fdStaff.ID, store.ID, "ani", "frontdesk")
	require.NoError(t, err)

	return &testSuite{
		router:         r,
		db:             db,
		storeID:        store.ID,
		hourlyRoomID:   hourly.ID,
		hourlyVarID:    hourlyVariant.ID,
		nightRoomID:    night.ID,
		adminToken:     adminToken,
		frontdeskToken: fdToken,
	}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *testResponse {
	t.Helper()
	var resp testResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return &resp
}

func dataField(t *testing.T, resp *testResponse, key string) interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &m))
	return m[key]
}

func TestAuthFlow(t *testing.T) {
	s := setupSuite(t)

	t.Run("login success", func(t *testing.T) {
		w := s.request(t, "POST", "/api/v1/auth/login", gin.H{"username": "ani", "password": "rahasia123"}, "")
		assert.Equal(t, http.StatusOK, w.Code)

		resp := parse(t, w)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, dataField(t, resp, "token"))
	})

	t.Run("login wrong password", func(t *testing.T) {
		w := s.request(t, "POST", "/api/v1/auth/login", gin.H{"username": "ani", "password": "salah"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", parse(t, w).Error.Code)
	})

	t.Run("protected route without token", func(t *testing.T) {
		w := s.request(t, "GET", "/api/v1/bookings?date=2030-05-20", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("admin route as frontdesk", func(t *testing.T) {
		w := s.request(t, "DELETE", fmt.Sprintf("/api/v1/rooms/%d", s.hourlyRoomID), nil, s.frontdeskToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestBookingLifecycleFlow(t *testing.T) {
	s := setupSuite(t)

	createBody := gin.H{
		"room_id":        s.hourlyRoomID,
		"variant_id":     s.hourlyVarID,
		"mode":           "time",
		"customer_name":  "Budi",
		"customer_phone": "0812345678",
		"date":           "2030-05-20",
		"start_hour":     "13:00",
		"end_hour":       "15:00",
		"payment_method": "cash",
		"payment_amount": 100000,
	}

	var bookingID float64

	t.Run("create booking", func(t *testing.T) {
		w := s.request(t, "POST", "/api/v1/bookings", createBody, s.frontdeskToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parse(t, w)
		assert.True(t, resp.Success)
		assert.Equal(t, "BO", dataField(t, resp, "status"))
		assert.Equal(t, float64(100000), dataField(t, resp, "grand_total"))
		bookingID = dataField(t, resp, "id").(float64)
	})

	t.Run("overlapping slot rejected", func(t *testing.T) {
		conflict := gin.H{}
		for k, v := range createBody {
			conflict[k] = v
		}
		conflict["start_hour"] = "14:00"
		conflict["end_hour"] = "16:00"

		w := s.request(t, "POST", "/api/v1/bookings", conflict, s.frontdeskToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "BOOKING_CONFLICT", parse(t, w).Error.Code)
	})

	t.Run("touching slot accepted", func(t *testing.T) {
		touch := gin.H{}
		for k, v := range createBody {
			touch[k] = v
		}
		touch["start_hour"] = "15:00"
		touch["end_hour"] = "17:00"
		touch["customer_phone"] = "0899999999"

		w := s.request(t, "POST", "/api/v1/bookings", touch, s.frontdeskToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("check-in with deposit", func(t *testing.T) {
		body := gin.H{
			"status":  "CI",
			"deposit": gin.H{"type": "cash", "amount": 50000},
		}
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%v/status", bookingID), body, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := parse(t, w)
		assert.Equal(t, "CI", dataField(t, resp, "status"))
		assert.NotNil(t, dataField(t, resp, "checked_in_at"))
	})

	t.Run("active deposit visible", func(t *testing.T) {
		w := s.request(t, "GET", fmt.Sprintf("/api/v1/bookings/%v/deposit", bookingID), nil, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code)

		var data struct {
			Deposit *domain.RoomDeposit `json:"deposit"`
		}
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &data))
		require.NotNil(t, data.Deposit)
		assert.Equal(t, domain.DepositActive, data.Deposit.Status)
		assert.Equal(t, int64(50000), data.Deposit.Amount)
	})

	t.Run("check-out marks room dirty today and returns deposit", func(t *testing.T) {
		body := gin.H{"status": "CO", "return_deposit": true}
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%v/status", bookingID), body, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "CO", dataField(t, parse(t, w), "status"))

		today := time.Now().Format("2006-01-02")
		w = s.request(t, "GET", "/api/v1/rooms/day-status?date="+today, nil, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code)

		var statuses []domain.RoomDayStatus
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &statuses))
		require.Len(t, statuses, 1)
		assert.Equal(t, domain.RoomDirty, statuses[0].Status)

		w = s.request(t, "GET", "/api/v1/deposits?status=active", nil, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code)
		var deposits []domain.RoomDeposit
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &deposits))
		assert.Empty(t, deposits)
	})

	t.Run("terminal state is sealed", func(t *testing.T) {
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%v/status", bookingID), gin.H{"status": "CI"}, s.frontdeskToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ILLEGAL_TRANSITION", parse(t, w).Error.Code)
	})

	t.Run("hard delete requires admin", func(t *testing.T) {
		w := s.request(t, "DELETE", fmt.Sprintf("/api/v1/bookings/%v", bookingID), nil, s.frontdeskToken)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = s.request(t, "DELETE", fmt.Sprintf("/api/v1/bookings/%v", bookingID), nil, s.adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRequestMaterializationFlow(t *testing.T) {
	s := setupSuite(t)

	var requestID float64

	t.Run("public submit", func(t *testing.T) {
		body := gin.H{
			"room_id":        s.hourlyRoomID,
			"variant_id":     s.hourlyVarID,
			"customer_name":  "Sari",
			"customer_phone": "0813999888",
			"date":           "2030-05-21",
			"start_hour":     "10:00",
			"end_hour":       "12:00",
		}
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/stores/%d/requests", s.storeID), body, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		resp := parse(t, w)
		assert.Equal(t, "pending", dataField(t, resp, "status"))
		requestID = dataField(t, resp, "id").(float64)
	})

	t.Run("confirm materializes booking", func(t *testing.T) {
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/requests/%v/status", requestID), gin.H{"status": "confirmed"}, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "confirmed", dataField(t, parse(t, w), "status"))

		w = s.request(t, "GET", "/api/v1/bookings?date=2030-05-21", nil, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code)

		var bookings []domain.Booking
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &bookings))
		require.Len(t, bookings, 1)
		assert.Equal(t, domain.BookingReserved, bookings[0].Status)
		assert.Equal(t, "Sari", bookings[0].CustomerName)
		assert.NotEmpty(t, bookings[0].ConfirmedBy)
	})

	t.Run("confirming a taken slot conflicts", func(t *testing.T) {
		body := gin.H{
			"room_id":        s.hourlyRoomID,
			"customer_name":  "Tono",
			"customer_phone": "0856000111",
			"date":           "2030-05-21",
			"start_hour":     "11:00",
			"end_hour":       "13:00",
		}
		w := s.request(t, "POST", fmt.Sprintf("/api/v1/stores/%d/requests", s.storeID), body, "")
		require.Equal(t, http.StatusCreated, w.Code)
		id := dataField(t, parse(t, w), "id")

		w = s.request(t, "POST", fmt.Sprintf("/api/v1/requests/%v/status", id), gin.H{"status": "confirmed"}, s.frontdeskToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ROOM_CONFLICT", parse(t, w).Error.Code)

		// The request must still be pending after the failed confirm.
		w = s.request(t, "GET", "/api/v1/requests?status=pending", nil, s.frontdeskToken)
		require.Equal(t, http.StatusOK, w.Code)
		var pending []domain.BookingRequest
		require.NoError(t, json.Unmarshal(parse(t, w).Data, &pending))
		assert.Len(t, pending, 1)
	})
}

func TestCustomerDedupeFlow(t *testing.T) {
	s := setupSuite(t)

	create := func(start, end string) {
		body := gin.H{
			"room_id":        s.hourlyRoomID,
			"variant_id":     s.hourlyVarID,
			"mode":           "time",
			"customer_name":  "Budi",
			"customer_phone": "0812345678",
			"date":           "2030-05-20",
			"start_hour":     start,
			"end_hour":       end,
		}
		w := s.request(t, "POST", "/api/v1/bookings", body, s.frontdeskToken)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	create("09:00", "10:00")
	create("10:00", "11:00")

	w := s.request(t, "GET", "/api/v1/customers?q=0812345678", nil, s.frontdeskToken)
	require.Equal(t, http.StatusOK, w.Code)

	var customers []domain.Customer
	require.NoError(t, json.Unmarshal(parse(t, w).Data, &customers))
	require.Len(t, customers, 1, "same phone must map to one customer")
	assert.Equal(t, "Budi", customers[0].Name)
}

func TestNightBookingFlow(t *testing.T) {
	s := setupSuite(t)

	body := gin.H{
		"room_id":        s.nightRoomID,
		"mode":           "night",
		"customer_name":  "Rina",
		"customer_phone": "0877111222",
		"check_in_date":  "2030-06-01",
		"check_out_date": "2030-06-04",
	}
	// Use the room's nightly variant.
	w := s.request(t, "GET", fmt.Sprintf("/api/v1/rooms/%d", s.nightRoomID), nil, s.frontdeskToken)
	require.Equal(t, http.StatusOK, w.Code)
	var room domain.Room
	require.NoError(t, json.Unmarshal(parse(t, w).Data, &room))
	require.NotEmpty(t, room.Variants)
	body["variant_id"] = room.Variants[0].ID

	w = s.request(t, "POST", "/api/v1/bookings", body, s.frontdeskToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := parse(t, w)
	assert.Equal(t, float64(3), dataField(t, resp, "nights"))
	assert.Equal(t, float64(600000), dataField(t, resp, "grand_total"))

	t.Run("overlapping stay rejected", func(t *testing.T) {
		overlap := gin.H{}
		for k, v := range body {
			overlap[k] = v
		}
		overlap["check_in_date"] = "2030-06-03"
		overlap["check_out_date"] = "2030-06-05"

		w := s.request(t, "POST", "/api/v1/bookings", overlap, s.frontdeskToken)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("back to back stay accepted", func(t *testing.T) {
		next := gin.H{}
		for k, v := range body {
			next[k] = v
		}
		next["check_in_date"] = "2030-06-04"
		next["check_out_date"] = "2030-06-06"
		next["customer_phone"] = "0877333444"

		w := s.request(t, "POST", "/api/v1/bookings", next, s.frontdeskToken)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("hourly booking inside stay rejected", func(t *testing.T) {
		hourly := gin.H{
			"room_id":        s.nightRoomID,
			"mode":           "time",
			"customer_name":  "Tono",
			"customer_phone": "0877555666",
			"date":           "2030-06-02",
			"start_hour":     "10:00",
			"end_hour":       "12:00",
		}

		w := s.request(t, "POST", "/api/v1/bookings", hourly, s.frontdeskToken)
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
		assert.Equal(t, "BOOKING_CONFLICT", parse(t, w).Error.Code)
	})
}

func TestExportFlow(t *testing.T) {
	s := setupSuite(t)

	body := gin.H{
		"room_id":        s.hourlyRoomID,
		"variant_id":     s.hourlyVarID,
		"mode":           "time",
		"customer_name":  "Budi",
		"customer_phone": "0812345678",
		"date":           "2030-05-20",
		"start_hour":     "13:00",
		"end_hour":       "16:00",
	}
	w := s.request(t, "POST", "/api/v1/bookings", body, s.frontdeskToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.request(t, "GET", "/api/v1/export/bookings.csv?date=2030-05-20", nil, s.frontdeskToken)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "grand_total")
	assert.Contains(t, lines[1], "Budi")
	assert.Contains(t, lines[1], "13:00-16:00")
	assert.Contains(t, lines[1], "150.000")
}

func TestStaleEditRejected(t *testing.T) {
	s := setupSuite(t)

	body := gin.H{
		"room_id":        s.hourlyRoomID,
		"variant_id":     s.hourlyVarID,
		"mode":           "time",
		"customer_name":  "Budi",
		"customer_phone": "0812345678",
		"date":           "2030-05-20",
		"start_hour":     "13:00",
		"end_hour":       "15:00",
	}
	w := s.request(t, "POST", "/api/v1/bookings", body, s.frontdeskToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parse(t, w)
	id := dataField(t, resp, "id")
	version := dataField(t, resp, "version").(float64)

	update := gin.H{}
	for k, v := range body {
		update[k] = v
	}
	update["note"] = "first edit"
	update["version"] = version

	w = s.request(t, "PUT", fmt.Sprintf("/api/v1/bookings/%v", id), update, s.frontdeskToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Replaying the same version must fail now that the row moved on.
	update["note"] = "second edit"
	w = s.request(t, "PUT", fmt.Sprintf("/api/v1/bookings/%v", id), update, s.frontdeskToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "STALE_EDIT", parse(t, w).Error.Code)
}
