package api

import "time"

// RegisterRequest представляет запрос на регистрацию нового пользователя
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse публичное представление пользователя.
// CreatedAt заполняется только в ответе на регистрацию
type UserResponse struct {
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	ID        string     `json:"id"`
	Username  string     `json:"username"`
}

// MeResponse ответ GET /auth/me; User == nil для анонимного клиента
type MeResponse struct {
	User *UserResponse `json:"user"`
}

// MessageResponse общий ответ на изменяющие запросы
type MessageResponse struct {
	Data         any    `json:"data,omitempty"`
	DeletedCount *int   `json:"deletedCount,omitempty"`
	Msg          string `json:"msg"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // вид ошибки (ValidationError, NotFound, ...)
	Message string `json:"message,omitempty"` // сообщение для пользователя
}

// HealthResponse ответ GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
