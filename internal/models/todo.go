package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a todo item
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryShopping Category = "shopping"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryShopping:
		return true
	default:
		return false
	}
}

// Todo represents one to-do item owned by a user.
// Description, DueDate and DueTime are independent optionals: a blank value
// is stored as absent, never as an empty string. DueDate is YYYY-MM-DD and
// DueTime is HH:MM (24h).
type Todo struct {
	ID          uuid.UUID `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	DueTime     *string   `json:"due_time,omitempty"`
	Category    Category  `json:"category"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}
