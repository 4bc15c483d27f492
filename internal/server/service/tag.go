package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/gophtodo/internal/apperr"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
	"github.com/iudanet/gophtodo/internal/validation"
)

const tagInUseMessage = "cannot delete tag because it is used by some todos"

// TagService manages the shared tag list. Tags have no owner.
type TagService struct {
	logger *slog.Logger
	tags   storage.TagStorage
}

// NewTagService creates a TagService.
func NewTagService(logger *slog.Logger, tags storage.TagStorage) *TagService {
	return &TagService{logger: logger, tags: tags}
}

// List returns all tags sorted by name.
func (s *TagService) List(ctx context.Context) ([]*models.Tag, error) {
	tags, err := s.tags.ListTags(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list tags", err)
	}
	return tags, nil
}

// Create adds a tag with a trimmed, unique name.
func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)

	if err := validation.ValidateTagName(name); err != nil {
		return nil, apperr.Wrap(apperr.Validation, err.Error(), err)
	}

	tag := &models.Tag{ID: uuid.New().String(), Name: name}

	if err := s.tags.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, storage.ErrTagAlreadyExists) {
			return nil, apperr.Wrap(apperr.Conflict, "tag name already exists", err)
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to create tag", err)
	}

	s.logger.InfoContext(ctx, "tag created", slog.String("tag_id", tag.ID), slog.String("name", name))
	return tag, nil
}

// Delete removes a tag no todo references.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.New(apperr.Validation, "tag id is required")
	}
	if !isUUID(id) {
		return apperr.New(apperr.NotFound, "tag not found")
	}

	if _, err := s.tags.GetTag(ctx, id); err != nil {
		if errors.Is(err, storage.ErrTagNotFound) {
			return apperr.Wrap(apperr.NotFound, "tag not found", err)
		}
		return apperr.Wrap(apperr.Internal, "failed to get tag", err)
	}

	// Учитываются задачи всех владельцев, а не только видимые вызывающему
	used, err := s.tags.CountTodosWithTag(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to count todos with tag", err)
	}
	if used > 0 {
		return apperr.New(apperr.Validation, tagInUseMessage)
	}

	if err := s.tags.DeleteTag(ctx, id); err != nil {
		if errors.Is(err, storage.ErrTagNotFound) {
			return apperr.Wrap(apperr.NotFound, "tag not found", err)
		}
		if errors.Is(err, storage.ErrTagInUse) {
			return apperr.Wrap(apperr.Validation, tagInUseMessage, err)
		}
		return apperr.Wrap(apperr.Internal, "failed to delete tag", err)
	}

	s.logger.InfoContext(ctx, "tag deleted", slog.String("tag_id", id))
	return nil
}

// DeleteUnused removes every tag no todo references and returns how many.
func (s *TagService) DeleteUnused(ctx context.Context) (int, error) {
	deleted, err := s.tags.DeleteUnusedTags(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.Internal, "failed to delete unused tags", err)
	}

	s.logger.InfoContext(ctx, "unused tags deleted", slog.Int("count", deleted))
	return deleted, nil
}
