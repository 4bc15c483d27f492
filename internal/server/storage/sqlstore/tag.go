package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

// CreateTag inserts a tag
func (s *Storage) CreateTag(ctx context.Context, tag *models.Tag) error {
	query := s.rebind(`INSERT INTO tag (id, name) VALUES (?, ?)`)

	if _, err := s.db.ExecContext(ctx, query, tag.ID, tag.Name); err != nil {
		if isUniqueViolation(err) {
			return storage.ErrTagAlreadyExists
		}
		return fmt.Errorf("failed to insert tag: %w", err)
	}

	return nil
}

// GetTag retrieves tag by ID
func (s *Storage) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	query := s.rebind(`SELECT id, name FROM tag WHERE id = ?`)

	tag := &models.Tag{}
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&tag.ID, &tag.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTagNotFound
		}
		return nil, fmt.Errorf("failed to get tag: %w", err)
	}

	return tag, nil
}

// ListTags returns all tags ordered by name
func (s *Storage) ListTags(ctx context.Context) ([]*models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tag ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return tags, nil
}

// CountTodosWithTag returns how many todos reference the tag
func (s *Storage) CountTodosWithTag(ctx context.Context, id string) (int, error) {
	query := s.rebind(`SELECT COUNT(*) FROM todo WHERE tag_id = ?`)

	var count int
	if err := s.db.QueryRowContext(ctx, query, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count todos with tag: %w", err)
	}

	return count, nil
}

// DeleteTag deletes tag by ID
func (s *Storage) DeleteTag(ctx context.Context, id string) error {
	query := s.rebind(`DELETE FROM tag WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		// задача с этим тегом появилась после проверки в сервисе
		if isForeignKeyViolation(err) {
			return storage.ErrTagInUse
		}
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	return rowsAffected(result, storage.ErrTagNotFound)
}

// DeleteUnusedTags deletes tags no todo references
func (s *Storage) DeleteUnusedTags(ctx context.Context) (int, error) {
	query := `DELETE FROM tag WHERE id NOT IN (SELECT tag_id FROM todo WHERE tag_id IS NOT NULL)`

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete unused tags: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
