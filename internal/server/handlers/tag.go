package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

// TagService операции над тегами, нужные handler'у
type TagService interface {
	List(ctx context.Context) ([]*models.Tag, error)
	Create(ctx context.Context, name string) (*models.Tag, error)
	Delete(ctx context.Context, id string) error
	DeleteUnused(ctx context.Context) (int, error)
}

// TagHandler обрабатывает запросы к тегам. Теги общие для всех пользователей
type TagHandler struct {
	responder
	tags TagService
}

// NewTagHandler создает новый handler для тегов
func NewTagHandler(logger *slog.Logger, tags TagService) *TagHandler {
	return &TagHandler{
		responder: responder{logger: logger},
		tags:      tags,
	}
}

// List обрабатывает GET /tags
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, tags, http.StatusOK)
}

// Create обрабатывает POST /tags
func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.TagCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	tag, err := h.tags.Create(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{Msg: "Tag added", Data: tag}, http.StatusOK)
}

// Delete обрабатывает DELETE /tags/{id}
func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	// Извлекаем id из path parameter (Go 1.22+)
	id := r.PathValue("id")

	if err := h.tags.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Msg:  "Delete tag successfully",
		Data: api.IDResponse{ID: id},
	}, http.StatusOK)
}

// DeleteUnused обрабатывает POST /tags/unused
func (h *TagHandler) DeleteUnused(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.tags.DeleteUnused(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Msg:          "Deleted unused tags successfully",
		DeletedCount: &deleted,
	}, http.StatusOK)
}
