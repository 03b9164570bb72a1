package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"shuttle/internal/schedules/service"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/logger"
	"shuttle/pkg/middleware"
	"shuttle/pkg/model"
)

type ScheduleHandler struct {
	service service.ScheduleService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewScheduleHandler(service service.ScheduleService, auth *middleware.Authenticator, log *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *ScheduleHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/schedules", h.auth.RequireRole(model.RoleAdmin, h.Create))
	router.GET("/api/v1/schedules", h.auth.RequireAuth(h.GetAll))
	router.GET("/api/v1/schedules/:id", h.auth.RequireAuth(h.GetByID))
	router.PUT("/api/v1/schedules/:id", h.auth.RequireRole(model.RoleAdmin, h.Update))
	router.DELETE("/api/v1/schedules/:id", h.auth.RequireRole(model.RoleAdmin, h.Delete))
	router.GET("/api/v1/buses/:id/schedules", h.auth.RequireAuth(h.GetByBus))
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var schedule model.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	if err := h.service.Create(r.Context(), &schedule); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, schedule); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedule, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, schedule); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetByBus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	schedules, err := h.service.GetByBus(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByBus", err)
		return
	}

	if err := httputil.WriteSuccess(w, schedules); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByBus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ScheduleHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	schedules, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, schedules, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *ScheduleHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ScheduleUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.writeBadBody(w, "Update")
		return
	}

	if err := h.service.Update(r.Context(), ps.ByName("id"), &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ScheduleHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *ScheduleHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
