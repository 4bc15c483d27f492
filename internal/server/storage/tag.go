package storage

import (
	"context"

	"github.com/iudanet/gophtodo/internal/models"
)

// TagStorage defines interface for tag persistence
type TagStorage interface {
	// CreateTag inserts a tag
	// Returns ErrTagAlreadyExists if name is taken
	CreateTag(ctx context.Context, tag *models.Tag) error

	// GetTag retrieves tag by ID
	// Returns ErrTagNotFound if tag doesn't exist
	GetTag(ctx context.Context, id string) (*models.Tag, error)

	// ListTags returns all tags ordered by name
	ListTags(ctx context.Context) ([]*models.Tag, error)

	// CountTodosWithTag returns how many todos (of any owner) reference the tag
	CountTodosWithTag(ctx context.Context, id string) (int, error)

	// DeleteTag deletes tag by ID
	// Returns ErrTagNotFound if tag doesn't exist
	DeleteTag(ctx context.Context, id string) error

	// DeleteUnusedTags deletes tags no todo references
	// Returns number of deleted tags
	DeleteUnusedTags(ctx context.Context) (int, error)
}
