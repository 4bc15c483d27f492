package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/internal/access"
	"github.com/iudanet/gophtodo/internal/apperr"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
)

// dateOnlyLayout формат срока без времени
const dateOnlyLayout = "2006-01-02"

// TodoInput is the editable part of a todo.
// Nil or empty TagID and DueDate mean "none".
type TodoInput struct {
	TagID   *string
	DueDate *string
	Text    string
}

// TodoService applies the visibility policy to todo operations.
type TodoService struct {
	logger *slog.Logger
	todos  storage.TodoStorage
	tags   storage.TagStorage
	now    func() time.Time
}

// NewTodoService creates a TodoService.
func NewTodoService(logger *slog.Logger, todos storage.TodoStorage, tags storage.TagStorage) *TodoService {
	return &TodoService{
		logger: logger,
		todos:  todos,
		tags:   tags,
		now:    time.Now,
	}
}

// List returns the todos visible to caller, optionally restricted to one tag.
func (s *TodoService) List(ctx context.Context, caller access.Owner, tagID string, sort models.TodoSort) ([]*models.Todo, error) {
	if tagID != "" && !isUUID(tagID) {
		// Такого тега не может существовать
		return []*models.Todo{}, nil
	}

	todos, err := s.todos.ListTodos(ctx, storage.TodoQuery{
		Filter: access.ListFilter(caller),
		TagID:  tagID,
		Sort:   sort,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list todos", err)
	}

	return todos, nil
}

// Create stores a new todo owned by caller.
func (s *TodoService) Create(ctx context.Context, caller access.Owner, in TodoInput) (*models.Todo, error) {
	if err := validation.ValidateTodoText(in.Text); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	tagID, err := s.resolveTag(ctx, in.TagID)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	todo := &models.Todo{
		ID:        uuid.New().String(),
		TodoText:  in.Text,
		TagID:     tagID,
		DueDate:   dueDate,
		OwnerID:   access.AssignOwnerOnCreate(caller).Ptr(),
		CreatedAt: s.now().UTC(),
	}

	if err := s.todos.CreateTodo(ctx, todo); err != nil {
		return nil, s.storageError(err, "failed to create todo")
	}

	s.logger.InfoContext(ctx, "todo created",
		slog.String("todo_id", todo.ID),
		slog.Bool("owned", !caller.IsNone()))

	return s.get(ctx, todo.ID)
}

// Update replaces text, tag and due date of a todo caller may mutate.
func (s *TodoService) Update(ctx context.Context, caller access.Owner, id string, in TodoInput) (*models.Todo, error) {
	if id == "" {
		return nil, apperr.New(apperr.Validation, "id is required")
	}
	if err := validation.ValidateTodoText(in.Text); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	todo, err := s.authorized(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	tagID, err := s.resolveTag(ctx, in.TagID)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, err
	}

	updatedAt := s.now().UTC()
	todo.TodoText = in.Text
	todo.TagID = tagID
	todo.DueDate = dueDate
	todo.UpdatedAt = &updatedAt

	if err := s.todos.UpdateTodo(ctx, todo); err != nil {
		return nil, s.storageError(err, "failed to update todo")
	}

	return s.get(ctx, id)
}

// SetStatus marks a todo done or not done.
func (s *TodoService) SetStatus(ctx context.Context, caller access.Owner, id string, isDone *bool) (*models.Todo, error) {
	if id == "" || isDone == nil {
		return nil, apperr.New(apperr.Validation, "id and isDone are required")
	}

	if _, err := s.authorized(ctx, caller, id); err != nil {
		return nil, err
	}

	if err := s.todos.SetTodoDone(ctx, id, *isDone, s.now().UTC()); err != nil {
		return nil, s.storageError(err, "failed to update todo status")
	}

	return s.get(ctx, id)
}

// Delete removes a todo caller may mutate.
func (s *TodoService) Delete(ctx context.Context, caller access.Owner, id string) error {
	if id == "" {
		return apperr.New(apperr.Validation, "id is required")
	}

	if _, err := s.authorized(ctx, caller, id); err != nil {
		return err
	}

	if err := s.todos.DeleteTodo(ctx, id); err != nil {
		return s.storageError(err, "failed to delete todo")
	}

	s.logger.InfoContext(ctx, "todo deleted", slog.String("todo_id", id))
	return nil
}

// DeleteAll removes every todo visible to caller and nothing else.
func (s *TodoService) DeleteAll(ctx context.Context, caller access.Owner) (int, error) {
	deleted, err := s.todos.DeleteTodos(ctx, access.ListFilter(caller))
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "failed to delete todos", err)
	}

	s.logger.InfoContext(ctx, "todos deleted", slog.Int("count", deleted))
	return deleted, nil
}

// authorized загружает задачу и проверяет право на изменение.
// Существование проверяется раньше владения
func (s *TodoService) authorized(ctx context.Context, caller access.Owner, id string) (*models.Todo, error) {
	todo, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := access.Authorize(caller, access.OwnerFromPtr(todo.OwnerID)); err != nil {
		s.logger.WarnContext(ctx, "todo mutation denied", slog.String("todo_id", id))
		return nil, err
	}

	return todo, nil
}

func (s *TodoService) get(ctx context.Context, id string) (*models.Todo, error) {
	if !isUUID(id) {
		return nil, apperr.New(apperr.NotFound, "todo not found")
	}

	todo, err := s.todos.GetTodo(ctx, id)
	if err != nil {
		return nil, s.storageError(err, "failed to get todo")
	}

	return todo, nil
}

// resolveTag проверяет, что указанный тег существует
func (s *TodoService) resolveTag(ctx context.Context, tagID *string) (*string, error) {
	if tagID == nil || *tagID == "" {
		return nil, nil
	}

	if !isUUID(*tagID) {
		return nil, apperr.New(apperr.Validation, "tag not found")
	}

	tag, err := s.tags.GetTag(ctx, *tagID)
	if err != nil {
		if errors.Is(err, storage.ErrTagNotFound) {
			return nil, apperr.Wrap(apperr.Validation, "tag not found", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to get tag", err)
	}

	return &tag.ID, nil
}

func (s *TodoService) storageError(err error, message string) error {
	if errors.Is(err, storage.ErrTodoNotFound) {
		return apperr.Wrap(apperr.NotFound, "todo not found", err)
	}
	// тег удалили между resolveTag и записью
	if errors.Is(err, storage.ErrTagNotFound) {
		return apperr.Wrap(apperr.Validation, "tag not found", err)
	}
	return apperr.Wrap(apperr.Internal, message, err)
}

// parseDueDate принимает RFC 3339 или YYYY-MM-DD
func parseDueDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, *value); err == nil {
		return &t, nil
	}

	return nil, apperr.Newf(apperr.Validation, "invalid dueDate %q: expected RFC 3339 or YYYY-MM-DD", *value)
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
