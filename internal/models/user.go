package models

import (
	"time"
)

// User represents an authenticated user. The ID is the opaque subject
// assigned by the identity provider; this service never mints its own.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
