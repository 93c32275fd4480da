package database

import (
	"context"

	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/todo"
)

// UserStore defines the user repository operations the auth middleware
// needs. Kept as an interface so tests can inject a fake.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// Ensure concrete types implement the interfaces
var (
	_ todo.Store = (*TodoRepository)(nil)
	_ UserStore  = (*UserRepository)(nil)
)
