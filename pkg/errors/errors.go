package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"

	CodeInvalidDate      = "INVALID_DATE"
	CodeCutoffPassed     = "CUTOFF_PASSED"
	CodeDuplicateBooking = "DUPLICATE_BOOKING"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"

	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeTokenInvalid   = "TOKEN_INVALID"
	CodeTokenMalformed = "TOKEN_MALFORMED"

	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// InvalidDate rejects a booking date outside the allowed window or on a day
// the schedule does not operate.
func InvalidDate(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidDate,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// CutoffPassed rejects a booking attempted inside the cutoff window before
// departure.
func CutoffPassed(message string) *AppError {
	return &AppError{
		Code:       CodeCutoffPassed,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// DuplicateBooking rejects a second active reservation for the same
// employee, schedule and date.
func DuplicateBooking(message string) *AppError {
	return &AppError{
		Code:       CodeDuplicateBooking,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// CapacityExceeded rejects a reservation on a full schedule-date.
func CapacityExceeded(message string) *AppError {
	return &AppError{
		Code:       CodeCapacityExceeded,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func TokenExpired(message string) *AppError {
	return &AppError{
		Code:       CodeTokenExpired,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func TokenInvalid(message string) *AppError {
	return &AppError{
		Code:       CodeTokenInvalid,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func TokenMalformed(message string) *AppError {
	return &AppError{
		Code:       CodeTokenMalformed,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// StoreUnavailable marks a transient store failure. Callers may retry;
// every other code in this package is terminal for the request.
func StoreUnavailable(message string, err error) *AppError {
	return &AppError{
		Code:       CodeStoreUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// IsTransient reports whether the error is a retryable store failure.
func IsTransient(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == CodeStoreUnavailable
}
