package errors

import "errors"

var (
	ErrNotFound       = errors.New("employee not found")
	ErrInvalidID      = errors.New("invalid employee ID")
	ErrDuplicateEmail = errors.New("email already registered")
)
