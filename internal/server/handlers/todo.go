package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/access"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/service"
	"github.com/iudanet/gophtodo/pkg/api"
)

// sortByDueDate значение query-параметра sortBy для сортировки по сроку
const sortByDueDate = "dueDate"

// TodoService операции над задачами, нужные handler'у
type TodoService interface {
	List(ctx context.Context, caller access.Owner, tagID string, sort models.TodoSort) ([]*models.Todo, error)
	Create(ctx context.Context, caller access.Owner, in service.TodoInput) (*models.Todo, error)
	Update(ctx context.Context, caller access.Owner, id string, in service.TodoInput) (*models.Todo, error)
	SetStatus(ctx context.Context, caller access.Owner, id string, isDone *bool) (*models.Todo, error)
	Delete(ctx context.Context, caller access.Owner, id string) error
	DeleteAll(ctx context.Context, caller access.Owner) (int, error)
}

// TodoHandler обрабатывает запросы к задачам.
// Вызывающий берется из контекста, заполненного middleware Identify
type TodoHandler struct {
	responder
	todos TodoService
}

// NewTodoHandler создает новый handler для задач
func NewTodoHandler(logger *slog.Logger, todos TodoService) *TodoHandler {
	return &TodoHandler{
		responder: responder{logger: logger},
		todos:     todos,
	}
}

// List обрабатывает GET /todo?tagId=&sortBy=dueDate
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sort := models.SortByCreatedDesc
	if query.Get("sortBy") == sortByDueDate {
		sort = models.SortByDueDateAsc
	}

	todos, err := h.todos.List(r.Context(), callerFrom(r.Context()), query.Get("tagId"), sort)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, todos, http.StatusOK)
}

// Create обрабатывает PUT /todo
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.TodoCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	todo, err := h.todos.Create(r.Context(), callerFrom(r.Context()), service.TodoInput{
		Text:    req.TodoText,
		TagID:   req.TagID,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{Msg: "Insert successfully", Data: todo}, http.StatusOK)
}

// Update обрабатывает PATCH /todo
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.TodoUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	todo, err := h.todos.Update(r.Context(), callerFrom(r.Context()), req.ID, service.TodoInput{
		Text:    req.TodoText,
		TagID:   req.TagID,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{Msg: "Update successfully", Data: todo}, http.StatusOK)
}

// UpdateStatus обрабатывает PATCH /todo/status
func (h *TodoHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req api.TodoStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	todo, err := h.todos.SetStatus(r.Context(), callerFrom(r.Context()), req.ID, req.IsDone)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Msg:  "Updated status",
		Data: api.TodoStatusResponse{ID: todo.ID, IsDone: todo.IsDone},
	}, http.StatusOK)
}

// Delete обрабатывает DELETE /todo
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req api.TodoDeleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.todos.Delete(r.Context(), callerFrom(r.Context()), req.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Msg:  "Delete successfully",
		Data: api.IDResponse{ID: req.ID},
	}, http.StatusOK)
}

// DeleteAll обрабатывает POST /todo/all
// Удаляет только задачи, видимые вызывающему
func (h *TodoHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.todos.DeleteAll(r.Context(), callerFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.sendJSON(w, api.MessageResponse{
		Msg:  "Delete all rows successfully",
		Data: api.DeletedCountResponse{DeletedCount: deleted},
	}, http.StatusOK)
}
