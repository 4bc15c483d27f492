package storage

import (
	"context"
	"time"

	"github.com/iudanet/gophtodo/internal/access"
	"github.com/iudanet/gophtodo/internal/models"
)

// TodoQuery describes a todo listing.
type TodoQuery struct {
	// Filter is the ownership predicate; always applied
	Filter access.Filter
	// TagID restricts the listing to one tag when non-empty
	TagID string
	Sort  models.TodoSort
}

// TodoStorage defines interface for todo persistence.
// Ownership checks are the caller's job: storage only applies the filters it is given.
type TodoStorage interface {
	// CreateTodo inserts a todo. ID and CreatedAt must be set.
	CreateTodo(ctx context.Context, todo *models.Todo) error

	// GetTodo retrieves a single todo with its tag name
	// Returns ErrTodoNotFound if todo doesn't exist
	GetTodo(ctx context.Context, id string) (*models.Todo, error)

	// ListTodos returns todos matching the query
	// Returns empty slice if nothing matches
	ListTodos(ctx context.Context, q TodoQuery) ([]*models.Todo, error)

	// UpdateTodo overwrites text, tag, due date and updated_at. Owner is never changed.
	// Returns ErrTodoNotFound if todo doesn't exist
	UpdateTodo(ctx context.Context, todo *models.Todo) error

	// SetTodoDone updates the completion flag
	// Returns ErrTodoNotFound if todo doesn't exist
	SetTodoDone(ctx context.Context, id string, isDone bool, updatedAt time.Time) error

	// DeleteTodo deletes a todo by ID
	// Returns ErrTodoNotFound if todo doesn't exist
	DeleteTodo(ctx context.Context, id string) error

	// DeleteTodos deletes every todo matching filter
	// Returns number of deleted todos
	DeleteTodos(ctx context.Context, filter access.Filter) (int, error)
}
