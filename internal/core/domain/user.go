package domain

import "time"

// MinPasswordLength is enforced on registration and password changes.
const MinPasswordLength = 8

// User models an account. PasswordHash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"  validate:"required,max=50"`
	Email        string    `json:"email" validate:"required,email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"  validate:"required,role"`
	CreatedAt    time.Time `json:"createdAt"`
}
