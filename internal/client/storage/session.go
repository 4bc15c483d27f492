// Package storage defines the client-side persistence contracts.
package storage

import (
	"context"
	"time"
)

// SessionStorage хранит cookie сессии между запусками CLI.
// Сессии привязаны к адресу сервера
type SessionStorage interface {
	// SaveSession сохраняет или перезаписывает сессию для data.ServerURL
	SaveSession(ctx context.Context, data *SessionData) error

	// GetSession returns ErrSessionNotFound if nothing is stored for serverURL
	GetSession(ctx context.Context, serverURL string) (*SessionData, error)

	// DeleteSession удаляет сессию (logout); отсутствие сессии не ошибка
	DeleteSession(ctx context.Context, serverURL string) error
}

// SessionData сохраненная сессия
type SessionData struct {
	SavedAt   time.Time `json:"saved_at"`
	ServerURL string    `json:"server_url"`
	Username  string    `json:"username"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"` // значение cookie sid
}
