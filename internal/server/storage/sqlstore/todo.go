package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/gophtodo/internal/access"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

const todoSelect = `
	SELECT t.id, t.todo_text, t.is_done, t.tag_id, g.name, t.owner_id,
	       t.created_at, t.updated_at, t.due_date
	FROM todo t
	LEFT JOIN tag g ON g.id = t.tag_id
`

// CreateTodo inserts a todo
func (s *Storage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	query := s.rebind(`
		INSERT INTO todo (id, todo_text, is_done, tag_id, owner_id, created_at, updated_at, due_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := s.db.ExecContext(ctx, query,
		todo.ID,
		todo.TodoText,
		todo.IsDone,
		todo.TagID,
		todo.OwnerID,
		todo.CreatedAt.UTC(),
		utcPtr(todo.UpdatedAt),
		utcPtr(todo.DueDate),
	)
	if err != nil {
		// владелец всегда существует, поэтому FK нарушает только tag_id
		if isForeignKeyViolation(err) {
			return storage.ErrTagNotFound
		}
		return fmt.Errorf("failed to insert todo: %w", err)
	}

	return nil
}

// GetTodo retrieves a single todo by ID
func (s *Storage) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	query := s.rebind(todoSelect + ` WHERE t.id = ?`)

	todo, err := scanTodo(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// ListTodos returns todos matching the query
func (s *Storage) ListTodos(ctx context.Context, q storage.TodoQuery) ([]*models.Todo, error) {
	where, args := ownerClause("t.owner_id", q.Filter)
	conditions := []string{where}

	if q.TagID != "" {
		conditions = append(conditions, "t.tag_id = ?")
		args = append(args, q.TagID)
	}

	order := "t.created_at DESC"
	if q.Sort == models.SortByDueDateAsc {
		// Задачи без срока в конце, одинаково для SQLite и Postgres
		order = "t.due_date IS NULL, t.due_date ASC, t.created_at DESC"
	}

	query := s.rebind(todoSelect + ` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY ` + order)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return todos, nil
}

// UpdateTodo overwrites text, tag, due date and updated_at
func (s *Storage) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	query := s.rebind(`
		UPDATE todo
		SET todo_text = ?, tag_id = ?, due_date = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := s.db.ExecContext(ctx, query,
		todo.TodoText,
		todo.TagID,
		utcPtr(todo.DueDate),
		utcPtr(todo.UpdatedAt),
		todo.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return storage.ErrTagNotFound
		}
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return rowsAffected(result, storage.ErrTodoNotFound)
}

// SetTodoDone updates the completion flag
func (s *Storage) SetTodoDone(ctx context.Context, id string, isDone bool, updatedAt time.Time) error {
	query := s.rebind(`UPDATE todo SET is_done = ?, updated_at = ? WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, isDone, updatedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update todo status: %w", err)
	}

	return rowsAffected(result, storage.ErrTodoNotFound)
}

// DeleteTodo deletes a todo by ID
func (s *Storage) DeleteTodo(ctx context.Context, id string) error {
	query := s.rebind(`DELETE FROM todo WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	return rowsAffected(result, storage.ErrTodoNotFound)
}

// DeleteTodos deletes every todo matching filter
func (s *Storage) DeleteTodos(ctx context.Context, filter access.Filter) (int, error) {
	where, args := ownerClause("owner_id", filter)
	query := s.rebind(`DELETE FROM todo WHERE ` + where)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}

// ownerClause переводит фильтр видимости в SQL
func ownerClause(column string, filter access.Filter) (string, []any) {
	if filter.Owner.IsNone() {
		return column + " IS NULL", nil
	}
	return column + " = ?", []any{string(filter.Owner)}
}

// rowScanner общий интерфейс *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var (
		tagID     sql.NullString
		tagName   sql.NullString
		ownerID   sql.NullString
		updatedAt sql.NullTime
		dueDate   sql.NullTime
	)

	if err := row.Scan(
		&todo.ID,
		&todo.TodoText,
		&todo.IsDone,
		&tagID,
		&tagName,
		&ownerID,
		&todo.CreatedAt,
		&updatedAt,
		&dueDate,
	); err != nil {
		return nil, err
	}

	todo.TagID = nullString(tagID)
	todo.TagName = nullString(tagName)
	todo.OwnerID = nullString(ownerID)
	todo.UpdatedAt = nullTime(updatedAt)
	todo.DueDate = nullTime(dueDate)

	return todo, nil
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	return &v.Time
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
