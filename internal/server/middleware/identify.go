package middleware

import (
	"log/slog"
	"net/http"

	"github.com/iudanet/gophtodo/internal/server/handlers"
)

// Identifier разрешает id сессии в id пользователя
type Identifier interface {
	Identify(sessionID string) (userID string, ok bool)
}

// Identify создает middleware, определяющий вызывающего по session cookie.
// Никогда не отклоняет запрос: без валидной сессии запрос идет дальше анонимным.
// При успешном разрешении cookie выставляется заново, чтобы Max-Age у клиента
// совпадал со сдвинутым сроком жизни сессии на сервере
func Identify(logger *slog.Logger, ids Identifier, cookies handlers.CookieConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := handlers.SessionIDFromRequest(r)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			info := handlers.RequestInfoFrom(r.Context())

			userID, ok := ids.Identify(sessionID)
			if !ok {
				if info != nil {
					info.Session = handlers.SessionStale
				}
				// id сессии не логируем
				logger.DebugContext(r.Context(), "unknown or expired session")
				next.ServeHTTP(w, r)
				return
			}

			handlers.SetSessionCookie(w, cookies, sessionID)
			if info != nil {
				info.Session = handlers.SessionValid
				info.UserID = userID
			}

			ctx := handlers.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
