package todo

import (
	"context"

	"github.com/google/uuid"
	"github.com/pocketlist/pocket-todo/internal/models"
)

// Store is the remote persistence contract. Every operation is scoped to
// one user; implementations must never return or mutate another user's
// rows. Failures surface as *StoreError.
type Store interface {
	// List returns all records owned by userID, newest first.
	List(ctx context.Context, userID string) ([]*models.Todo, error)

	// GetByID returns the record if it exists and belongs to userID.
	GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Todo, error)

	// Create inserts t and fills in the store-assigned ID and CreatedAt.
	Create(ctx context.Context, t *models.Todo) error

	// Update writes every mutable field of t. Zero rows affected is a
	// not-found StoreError.
	Update(ctx context.Context, t *models.Todo) error

	// SetCompleted flips only the completed flag and returns the stored row.
	SetCompleted(ctx context.Context, userID string, id uuid.UUID, completed bool) (*models.Todo, error)

	// Delete removes the record. A second delete of the same id fails with
	// a not-found StoreError.
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
