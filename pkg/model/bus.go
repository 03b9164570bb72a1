package model

import "time"

type Bus struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Registration string    `json:"registration" bson:"registration" validate:"required,min=2,max=20"`
	Capacity     int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=100"`
	Route        string    `json:"route" bson:"route" validate:"required,min=2,max=200"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BusUpdate struct {
	Registration string `json:"registration,omitempty" validate:"omitempty,min=2,max=20"`
	Capacity     *int   `json:"capacity,omitempty" validate:"omitempty,min=1,max=100"`
	Route        string `json:"route,omitempty" validate:"omitempty,min=2,max=200"`
}
