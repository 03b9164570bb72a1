package model

import "time"

const (
	SlotMorning = "morning"
	SlotEvening = "evening"
	SlotNight   = "night"
)

// Schedule is one bus's recurring departure: a fixed time of day, a slot tag
// and the weekdays it operates. Capacity defaults to the bus capacity when
// zero; a positive value overrides it.
type Schedule struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	BusID         string    `json:"bus_id" bson:"bus_id" validate:"required,mongodb"`
	DepartureTime string    `json:"departure_time" bson:"departure_time" validate:"required,departure_time"`
	Slot          string    `json:"slot" bson:"slot" validate:"required,oneof=morning evening night"`
	Days          []string  `json:"days" bson:"days" validate:"required,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Capacity      int       `json:"capacity,omitempty" bson:"capacity" validate:"omitempty,min=1,max=100"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ScheduleUpdate struct {
	BusID         string   `json:"bus_id,omitempty" validate:"omitempty,mongodb"`
	DepartureTime string   `json:"departure_time,omitempty" validate:"omitempty,departure_time"`
	Slot          string   `json:"slot,omitempty" validate:"omitempty,oneof=morning evening night"`
	Days          []string `json:"days,omitempty" validate:"omitempty,min=1,max=7,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
	Capacity      *int     `json:"capacity,omitempty" validate:"omitempty,min=1,max=100"`
}

// OperatesOn reports whether the schedule runs on the given weekday.
func (s *Schedule) OperatesOn(day time.Weekday) bool {
	for _, d := range s.Days {
		if d == day.String() {
			return true
		}
	}
	return false
}
