package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

// AuthService операции аутентификации, нужные handler'у
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	Logout(sessionID string)
	CurrentUser(ctx context.Context, userID string) (*models.User, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	responder
	auth    AuthService
	cookies CookieConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, auth AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		responder: responder{logger: logger},
		auth:      auth,
		cookies:   cookies,
	}
}

// Register обрабатывает POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	createdAt := user.CreatedAt
	h.sendJSON(w, api.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: &createdAt,
	}, http.StatusOK)
}

// Login обрабатывает POST /auth/login
// При успехе выставляет session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	user, sessionID, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	SetSessionCookie(w, h.cookies, sessionID)

	h.sendJSON(w, api.UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}, http.StatusOK)
}

// Logout обрабатывает POST /auth/logout
// Всегда успешен и всегда сбрасывает cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(SessionIDFromRequest(r))

	// Identify уже мог продлить cookie в этом ответе
	w.Header().Del("Set-Cookie")
	ClearSessionCookie(w, h.cookies)

	h.sendJSON(w, api.MessageResponse{Msg: "Logged out"}, http.StatusOK)
}

// Me обрабатывает GET /auth/me
// Для анонимного запроса возвращает {"user": null}
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	resp := api.MeResponse{}

	if userID, ok := UserIDFromContext(r.Context()); ok {
		user, err := h.auth.CurrentUser(r.Context(), userID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		if user != nil {
			resp.User = &api.UserResponse{ID: user.ID, Username: user.Username}
		}
	}

	h.sendJSON(w, resp, http.StatusOK)
}
