package domain

import "time"

// User is the domain model for principals, keyed by email.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	Active       bool
	RoleID       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
