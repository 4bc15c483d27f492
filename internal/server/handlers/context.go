package handlers

import (
	"context"

	"github.com/iudanet/gophtodo/internal/access"
)

// contextKey тип для ключей контекста
type contextKey string

// userIDKey ключ для хранения user_id в контексте
const userIDKey contextKey = "user_id"

// WithUserID возвращает контекст с id аутентифицированного пользователя
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext извлекает user_id из контекста запроса.
// ok == false для анонимного запроса
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// callerFrom возвращает вызывающего для политики видимости
func callerFrom(ctx context.Context) access.Owner {
	userID, _ := UserIDFromContext(ctx)
	return access.Owner(userID)
}

// SessionState итог разбора session cookie
type SessionState string

const (
	SessionNone  SessionState = "none"
	SessionValid SessionState = "valid"
	SessionStale SessionState = "stale"
)

// RequestInfo факты о запросе, которые заполняют middleware и handler'ы
// и читает access log после ответа
type RequestInfo struct {
	UserID    string
	Session   SessionState
	ErrorKind string
}

const requestInfoKey contextKey = "request_info"

// WithRequestInfo кладет в контекст пустой RequestInfo
func WithRequestInfo(ctx context.Context) (context.Context, *RequestInfo) {
	info := &RequestInfo{Session: SessionNone}
	return context.WithValue(ctx, requestInfoKey, info), info
}

// RequestInfoFrom возвращает RequestInfo запроса или nil, если access log не подключен
func RequestInfoFrom(ctx context.Context) *RequestInfo {
	info, _ := ctx.Value(requestInfoKey).(*RequestInfo)
	return info
}
