package notifications

import (
	"time"

	"shuttle/pkg/model"
)

const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
)

// Event describes a booking outcome for downstream delivery (email
// confirmations). Events are advisory: losing one never affects the
// reservation itself.
type Event struct {
	Type        string             `json:"type"`
	Reservation *model.Reservation `json:"reservation"`
	Employee    *model.Employee    `json:"employee"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Key groups events for one schedule-date onto one partition so a
// cancellation is never delivered before the confirmation it follows.
func (e *Event) Key() string {
	if e.Reservation == nil {
		return e.Type
	}
	return e.Reservation.ScheduleID + ":" + e.Reservation.Date
}
