package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/todo"
)

// TodoRepository handles todo database operations. It implements
// todo.Store: every query is scoped by user_id and failures come back as
// *todo.StoreError.
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

const todoColumns = `id, user_id, title, description, due_date, due_time, category, completed, created_at`

// List retrieves all todos for a user, most recent first
func (r *TodoRepository) List(ctx context.Context, userID string) ([]*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, todo.NewStoreError("list", "failed to query todos", err)
	}
	defer rows.Close()

	var todos []*models.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, todo.NewStoreError("list", "failed to scan todo", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		return nil, todo.NewStoreError("list", "error iterating todos", err)
	}

	return todos, nil
}

// GetByID retrieves a single todo owned by the user
func (r *TodoRepository) GetByID(ctx context.Context, userID string, id uuid.UUID) (*models.Todo, error) {
	query := `
		SELECT ` + todoColumns + `
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, todo.NewNotFoundError("get")
	}
	if err != nil {
		return nil, todo.NewStoreError("get", "failed to get todo", err)
	}

	return t, nil
}

// Create inserts a new todo. The id and created_at come back from the
// store; the client never supplies them.
func (r *TodoRepository) Create(ctx context.Context, t *models.Todo) error {
	query := `
		INSERT INTO todos (user_id, title, description, due_date, due_time, category, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		t.UserID,
		t.Title,
		t.Description,
		t.DueDate,
		t.DueTime,
		t.Category,
		t.Completed,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return todo.NewStoreError("create", "failed to create todo", err)
	}

	return nil
}

// Update writes every mutable field of t. An unknown id, or one owned by
// another user, affects zero rows and is reported as not found.
func (r *TodoRepository) Update(ctx context.Context, t *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $3, description = $4, due_date = $5, due_time = $6, category = $7, completed = $8
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.DueDate,
		t.DueTime,
		t.Category,
		t.Completed,
	)
	if err != nil {
		return todo.NewStoreError("update", "failed to update todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return todo.NewStoreError("update", "failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return todo.NewNotFoundError("update")
	}

	return nil
}

// SetCompleted flips only the completed flag and returns the stored row
func (r *TodoRepository) SetCompleted(ctx context.Context, userID string, id uuid.UUID, completed bool) (*models.Todo, error) {
	query := `
		UPDATE todos
		SET completed = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + todoColumns + `
	`

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, id, userID, completed))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, todo.NewNotFoundError("toggle")
	}
	if err != nil {
		return nil, todo.NewStoreError("toggle", "failed to update completed flag", err)
	}

	return t, nil
}

// Delete removes a todo owned by the user
func (r *TodoRepository) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	query := `DELETE FROM todos WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return todo.NewStoreError("delete", "failed to delete todo", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return todo.NewStoreError("delete", "failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return todo.NewNotFoundError("delete")
	}

	return nil
}

// PurgeCompleted deletes every completed todo for the user and reports
// how many rows went away. Used by the ops CLI, not the API surface.
func (r *TodoRepository) PurgeCompleted(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM todos WHERE user_id = $1 AND completed = TRUE`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, todo.NewStoreError("purge", "failed to purge completed todos", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, todo.NewStoreError("purge", "failed to get rows affected", err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	t := &models.Todo{}
	var description, dueDate, dueTime sql.NullString

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&description,
		&dueDate,
		&dueTime,
		&t.Category,
		&t.Completed,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.String
	}
	if dueTime.Valid {
		t.DueTime = &dueTime.String
	}

	return t, nil
}
