package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrNoWaitlisted = errors.New("no waitlisted reservation to promote")
)
