package model

import "time"

const (
	ReservationActive     = "active"
	ReservationCancelled  = "cancelled"
	ReservationWaitlisted = "waitlisted"
)

// Reservation is one employee's seat hold on a schedule-date. Reservations
// are never physically deleted; cancellation flips the status and stamps
// cancelled_at. The date is stored alongside the schedule reference so
// history survives schedule changes and (schedule, date) queries stay cheap.
type Reservation struct {
	ID          string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EmployeeID  string     `json:"employee_id" bson:"employee_id" validate:"required,mongodb"`
	ScheduleID  string     `json:"schedule_id" bson:"schedule_id" validate:"required,mongodb"`
	Date        string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	Status      string     `json:"status" bson:"status" validate:"required,oneof=active cancelled waitlisted"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty" validate:"omitempty"`
}

// BookingRequest is the employee-facing booking payload. The employee comes
// from the verified token, never from the body.
type BookingRequest struct {
	ScheduleID string `json:"schedule_id" validate:"required,mongodb"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Occupancy is a read-only snapshot of active seats versus capacity for one
// schedule-date.
type Occupancy struct {
	ScheduleID string `json:"schedule_id"`
	Date       string `json:"date"`
	Reserved   int64  `json:"reserved"`
	Capacity   int    `json:"capacity"`
}
