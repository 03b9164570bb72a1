package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"

	"shuttle/internal/reservations/validator"
	apperrors "shuttle/pkg/errors"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/logger"
	"shuttle/pkg/middleware"
	"shuttle/pkg/model"
)

// Mock service for testing
type mockBookingService struct {
	bookSlotFunc  func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error)
	cancelFunc    func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error)
	statusFunc    func(ctx context.Context, employeeID, scheduleID, date string) (string, error)
	listFunc      func(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error)
	occupancyFunc func(ctx context.Context, scheduleID, date string) (*model.Occupancy, error)
}

func (m *mockBookingService) BookSlot(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error) {
	if m.bookSlotFunc != nil {
		return m.bookSlotFunc(ctx, employeeID, scheduleID, date)
	}
	return &model.Reservation{Status: model.ReservationActive}, "Booking confirmed", nil
}

func (m *mockBookingService) CancelBooking(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, employeeID, scheduleID, date)
	}
	return &model.Reservation{Status: model.ReservationCancelled}, nil
}

func (m *mockBookingService) GetUserBookingStatus(ctx context.Context, employeeID, scheduleID, date string) (string, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx, employeeID, scheduleID, date)
	}
	return "none", nil
}

func (m *mockBookingService) ListEmployeeBookings(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, employeeID, limit, offset)
	}
	return []*model.Reservation{}, 0, nil
}

func (m *mockBookingService) Occupancy(ctx context.Context, scheduleID, date string) (*model.Occupancy, error) {
	if m.occupancyFunc != nil {
		return m.occupancyFunc(ctx, scheduleID, date)
	}
	return &model.Occupancy{}, nil
}

func newTestHandler(service *mockBookingService) *BookingHandler {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	return &BookingHandler{
		service:   service,
		validator: validator.NewReservationValidator(log),
		log:       log,
	}
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	claims := &model.TokenClaims{
		TokenID:    "jti-1",
		EmployeeID: "64b2f0a1c9e77a0001a11111",
		Role:       model.RoleEmployee,
	}
	ctx := context.WithValue(req.Context(), middleware.IdentityKey, claims)
	return req.WithContext(ctx)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestBook_Success(t *testing.T) {
	var gotEmployee, gotSchedule, gotDate string
	service := &mockBookingService{
		bookSlotFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error) {
			gotEmployee, gotSchedule, gotDate = employeeID, scheduleID, date
			return &model.Reservation{
				ID:         "res-1",
				EmployeeID: employeeID,
				ScheduleID: scheduleID,
				Date:       date,
				Status:     model.ReservationActive,
			}, "Booking confirmed", nil
		},
	}
	handler := newTestHandler(service)

	body := `{"schedule_id":"64b2f0a1c9e77a0001b22222","date":"2026-09-01"}`
	req := authedRequest(http.MethodPost, "/api/v1/bookings", body)
	w := httptest.NewRecorder()

	handler.Book(w, req, httprouter.Params{})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if gotEmployee != "64b2f0a1c9e77a0001a11111" {
		t.Errorf("employee ID not taken from token, got %q", gotEmployee)
	}
	if gotSchedule != "64b2f0a1c9e77a0001b22222" || gotDate != "2026-09-01" {
		t.Errorf("unexpected arguments: schedule=%q date=%q", gotSchedule, gotDate)
	}

	var resp httputil.SuccessResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Message != "Booking confirmed" {
		t.Errorf("expected confirmation message, got %q", resp.Message)
	}
}

func TestBook_MissingIdentity(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	handler.Book(w, req, httprouter.Params{})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestBook_MalformedBody(t *testing.T) {
	handler := newTestHandler(&mockBookingService{})

	req := authedRequest(http.MethodPost, "/api/v1/bookings", `{not json`)
	w := httptest.NewRecorder()

	handler.Book(w, req, httprouter.Params{})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestBook_InvalidPayload(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		bookSlotFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error) {
			t.Fatal("service should not be called for invalid payload")
			return nil, "", nil
		},
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing schedule", `{"date":"2026-09-01"}`},
		{"missing date", `{"schedule_id":"64b2f0a1c9e77a0001b22222"}`},
		{"bad date format", `{"schedule_id":"64b2f0a1c9e77a0001b22222","date":"01/09/2026"}`},
		{"bad schedule id", `{"schedule_id":"not-an-id","date":"2026-09-01"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodPost, "/api/v1/bookings", tt.body)
			w := httptest.NewRecorder()

			handler.Book(w, req, httprouter.Params{})

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected status 422, got %d: %s", w.Code, w.Body.String())
			}
			resp := decodeError(t, w)
			if resp.Code != apperrors.CodeValidation {
				t.Errorf("expected code %s, got %s", apperrors.CodeValidation, resp.Code)
			}
		})
	}
}

func TestBook_ServiceErrorPassesThrough(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		bookSlotFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, string, error) {
			return nil, "", apperrors.CapacityExceeded("No seats available for this schedule and date")
		},
	})

	body := `{"schedule_id":"64b2f0a1c9e77a0001b22222","date":"2026-09-01"}`
	req := authedRequest(http.MethodPost, "/api/v1/bookings", body)
	w := httptest.NewRecorder()

	handler.Book(w, req, httprouter.Params{})

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	resp := decodeError(t, w)
	if resp.Code != apperrors.CodeCapacityExceeded {
		t.Errorf("expected code %s, got %s", apperrors.CodeCapacityExceeded, resp.Code)
	}
}

func TestCancel_Success(t *testing.T) {
	var gotSchedule, gotDate string
	handler := newTestHandler(&mockBookingService{
		cancelFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
			gotSchedule, gotDate = scheduleID, date
			return &model.Reservation{Status: model.ReservationCancelled}, nil
		},
	})

	req := authedRequest(http.MethodDelete, "/api/v1/bookings/schedule/64b2f0a1c9e77a0001b22222?date=2026-09-01", "")
	w := httptest.NewRecorder()

	handler.Cancel(w, req, httprouter.Params{{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotSchedule != "64b2f0a1c9e77a0001b22222" || gotDate != "2026-09-01" {
		t.Errorf("unexpected arguments: schedule=%q date=%q", gotSchedule, gotDate)
	}
}

func TestCancel_MissingDateParameter(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		cancelFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
			t.Fatal("service should not be called without a date")
			return nil, nil
		},
	})

	req := authedRequest(http.MethodDelete, "/api/v1/bookings/schedule/64b2f0a1c9e77a0001b22222", "")
	w := httptest.NewRecorder()

	handler.Cancel(w, req, httprouter.Params{{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"}})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestAdminCancel_TargetsEmployeeFromPath(t *testing.T) {
	var gotEmployee, gotSchedule, gotDate string
	handler := newTestHandler(&mockBookingService{
		cancelFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
			gotEmployee, gotSchedule, gotDate = employeeID, scheduleID, date
			return &model.Reservation{EmployeeID: employeeID, Status: model.ReservationCancelled}, nil
		},
	})

	// Caller is an admin; the cancellation target comes from the path, not
	// the caller's token.
	req := httptest.NewRequest(http.MethodDelete,
		"/api/v1/admin/bookings/64b2f0a1c9e77a0001c33333/schedule/64b2f0a1c9e77a0001b22222?date=2026-09-01", nil)
	claims := &model.TokenClaims{TokenID: "jti-2", EmployeeID: "64b2f0a1c9e77a0001a11111", Role: model.RoleAdmin}
	req = req.WithContext(context.WithValue(req.Context(), middleware.IdentityKey, claims))
	w := httptest.NewRecorder()

	handler.AdminCancel(w, req, httprouter.Params{
		{Key: "employee_id", Value: "64b2f0a1c9e77a0001c33333"},
		{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotEmployee != "64b2f0a1c9e77a0001c33333" {
		t.Errorf("expected target employee from path, got %q", gotEmployee)
	}
	if gotSchedule != "64b2f0a1c9e77a0001b22222" || gotDate != "2026-09-01" {
		t.Errorf("unexpected arguments: schedule=%q date=%q", gotSchedule, gotDate)
	}
}

func TestAdminCancel_MissingDateParameter(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		cancelFunc: func(ctx context.Context, employeeID, scheduleID, date string) (*model.Reservation, error) {
			t.Fatal("service should not be called without a date")
			return nil, nil
		},
	})

	req := authedRequest(http.MethodDelete, "/api/v1/admin/bookings/64b2f0a1c9e77a0001c33333/schedule/64b2f0a1c9e77a0001b22222", "")
	w := httptest.NewRecorder()

	handler.AdminCancel(w, req, httprouter.Params{
		{Key: "employee_id", Value: "64b2f0a1c9e77a0001c33333"},
		{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"},
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestStatus_ReturnsNoneForUnbookedSlot(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		statusFunc: func(ctx context.Context, employeeID, scheduleID, date string) (string, error) {
			return "none", nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/bookings/status/64b2f0a1c9e77a0001b22222?date=2026-09-01", "")
	w := httptest.NewRecorder()

	handler.Status(w, req, httprouter.Params{{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data["status"] != "none" {
		t.Errorf("expected status none, got %q", resp.Data["status"])
	}
}

func TestListMine_Paginates(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	handler := newTestHandler(&mockBookingService{
		listFunc: func(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.Reservation, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.Reservation{{ID: "res-1"}}, 7, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/bookings/me?limit=5&offset=2", "")
	w := httptest.NewRecorder()

	handler.ListMine(w, req, httprouter.Params{})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if gotLimit != 5 || gotOffset != 2 {
		t.Errorf("expected limit=5 offset=2, got limit=%d offset=%d", gotLimit, gotOffset)
	}

	var resp httputil.PaginatedResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalCount != 7 {
		t.Errorf("expected total 7, got %d", resp.TotalCount)
	}
}

func TestOccupancy_Success(t *testing.T) {
	handler := newTestHandler(&mockBookingService{
		occupancyFunc: func(ctx context.Context, scheduleID, date string) (*model.Occupancy, error) {
			return &model.Occupancy{ScheduleID: scheduleID, Date: date, Reserved: 3, Capacity: 12}, nil
		},
	})

	req := authedRequest(http.MethodGet, "/api/v1/bookings/occupancy/64b2f0a1c9e77a0001b22222?date=2026-09-01", "")
	w := httptest.NewRecorder()

	handler.Occupancy(w, req, httprouter.Params{{Key: "schedule_id", Value: "64b2f0a1c9e77a0001b22222"}})

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Data model.Occupancy `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Reserved != 3 || resp.Data.Capacity != 12 {
		t.Errorf("unexpected occupancy: %+v", resp.Data)
	}
}
