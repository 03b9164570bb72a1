package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"shuttle/internal/employees/service"
	apperrors "shuttle/pkg/errors"
	httputil "shuttle/pkg/http"
	"shuttle/pkg/logger"
	"shuttle/pkg/middleware"
	"shuttle/pkg/model"
)

type EmployeeHandler struct {
	service service.EmployeeService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewEmployeeHandler(service service.EmployeeService, auth *middleware.Authenticator, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: service,
		auth:    auth,
		log:     log,
	}
}

func (h *EmployeeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/auth/login", h.Login)
	router.POST("/api/v1/auth/logout", h.auth.RequireAuth(h.Logout))
	router.POST("/api/v1/auth/refresh", h.Refresh)

	router.GET("/api/v1/employees/me", h.auth.RequireAuth(h.Me))

	router.POST("/api/v1/employees", h.auth.RequireRole(model.RoleAdmin, h.Create))
	router.GET("/api/v1/employees", h.auth.RequireRole(model.RoleAdmin, h.GetAll))
	router.GET("/api/v1/employees/:id", h.auth.RequireRole(model.RoleAdmin, h.GetByID))
	router.PUT("/api/v1/employees/:id", h.auth.RequireRole(model.RoleAdmin, h.Update))
	router.DELETE("/api/v1/employees/:id", h.auth.RequireRole(model.RoleAdmin, h.Delete))
}

func (h *EmployeeHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Login")
		return
	}

	token, employee, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"token":    token,
		"employee": employee,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EmployeeHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.writeError(w, "Logout", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EmployeeHandler) Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	token, err := middleware.BearerToken(r)
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}

	fresh, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		h.writeError(w, "Refresh", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]string{"token": fresh}); err != nil {
		h.log.Error("failed to write success response", "handler", "Refresh", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EmployeeHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		h.writeError(w, "Me", apperrors.Unauthorized("Authentication required"))
		return
	}

	employee, err := h.service.GetByID(r.Context(), claims.EmployeeID)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, employee); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.EmployeeCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Create")
		return
	}

	employee, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, employee); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	employee, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, employee); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *EmployeeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	employees, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, employees, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.EmployeeUpdate
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

func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *EmployeeHandler) writeBadBody(w http.ResponseWriter, handlerName string) {
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *EmployeeHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "operation", "WriteError", "error", writeErr)
	}
}
