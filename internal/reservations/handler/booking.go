package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"shuttle/internal/reservations/service"
	"shuttle/internal/reservations/validator"
	apperrors "shuttle/pkg/errors"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/logger"
	"shuttle/pkg/middleware"
	"shuttle/pkg/model"
)

type BookingHandler struct {
	service   service.BookingService
	validator *validator.ReservationValidator
	auth      *middleware.Authenticator
	log       *logger.Logger
}

func NewBookingHandler(
	service service.BookingService,
	validator *validator.ReservationValidator,
	auth *middleware.Authenticator,
	log *logger.Logger,
) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: validator,
		auth:      auth,
		log:       log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.auth.RequireAuth(h.Book))
	router.DELETE("/api/v1/bookings/schedule/:schedule_id", h.auth.RequireAuth(h.Cancel))
	router.GET("/api/v1/bookings/status/:schedule_id", h.auth.RequireAuth(h.Status))
	router.GET("/api/v1/bookings/me", h.auth.RequireAuth(h.ListMine))
	router.GET("/api/v1/bookings/occupancy/:schedule_id", h.auth.RequireAuth(h.Occupancy))
	router.DELETE("/api/v1/admin/bookings/:employee_id/schedule/:schedule_id", h.auth.RequireRole(model.RoleAdmin, h.AdminCancel))
}

func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Book", apperrors.Unauthorized("Authentication required"))
		return
	}

	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Book", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}
	if err := h.validator.ValidateRequest(&req); err != nil {
		h.writeError(w, "Book", apperrors.Validation("Invalid booking input", map[string]any{"error": err.Error()}))
		return
	}

	reservation, message, err := h.service.BookSlot(r.Context(), claims.EmployeeID, req.ScheduleID, req.Date)
	if err != nil {
		h.writeError(w, "Book", err)
		return
	}

	if err := httputil.WriteCreatedMessage(w, reservation, message); err != nil {
		h.log.Error("failed to write created response", "handler", "Book", "operation", "WriteCreatedMessage", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Cancel", apperrors.Unauthorized("Authentication required"))
		return
	}

	scheduleID := ps.ByName("schedule_id")
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	reservation, err := h.service.CancelBooking(r.Context(), claims.EmployeeID, scheduleID, date)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccessMessage(w, reservation, "Booking cancelled"); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "operation", "WriteSuccessMessage", "error", err)
	}
}

// AdminCancel cancels a booking on behalf of the employee named in the path.
func (h *BookingHandler) AdminCancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	employeeID := ps.ByName("employee_id")
	scheduleID := ps.ByName("schedule_id")
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "AdminCancel", err)
		return
	}

	reservation, err := h.service.CancelBooking(r.Context(), employeeID, scheduleID, date)
	if err != nil {
		h.writeError(w, "AdminCancel", err)
		return
	}

	if err := httputil.WriteSuccessMessage(w, reservation, "Booking cancelled"); err != nil {
		h.log.Error("failed to write success response", "handler", "AdminCancel", "operation", "WriteSuccessMessage", "error", err)
	}
}

func (h *BookingHandler) Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Status", apperrors.Unauthorized("Authentication required"))
		return
	}

	scheduleID := ps.ByName("schedule_id")
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "Status", err)
		return
	}

	status, err := h.service.GetUserBookingStatus(r.Context(), claims.EmployeeID, scheduleID, date)
	if err != nil {
		h.writeError(w, "Status", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"status": status}); err != nil {
		h.log.Error("failed to write success response", "handler", "Status", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "ListMine", apperrors.Unauthorized("Authentication required"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	reservations, total, err := h.service.ListEmployeeBookings(r.Context(), claims.EmployeeID, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) Occupancy(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	scheduleID := ps.ByName("schedule_id")
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "Occupancy", err)
		return
	}

	occupancy, err := h.service.Occupancy(r.Context(), scheduleID, date)
	if err != nil {
		h.writeError(w, "Occupancy", err)
		return
	}

	if err := httputil.WriteSuccess(w, occupancy); err != nil {
		h.log.Error("failed to write success response", "handler", "Occupancy", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
