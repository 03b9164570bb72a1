package model

import "time"

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

type Employee struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	WorkforceID  string    `json:"workforce_id" bson:"workforce_id" validate:"required,min=2,max=50"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email        string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=employee admin"`
	PasswordHash string    `json:"-" bson:"password_hash" validate:"required"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// EmployeeCreate is the admin-facing registration payload. The plaintext
// password never reaches storage; the service hashes it first.
type EmployeeCreate struct {
	WorkforceID string `json:"workforce_id" validate:"required,min=2,max=50"`
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Role        string `json:"role,omitempty" validate:"omitempty,oneof=employee admin"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	WorkforceID string `json:"workforce_id" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type EmployeeUpdate struct {
	Name     string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=employee admin"`
	Password string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}
