package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/session"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// storeIdentifier адаптирует session.Store к Identifier
type storeIdentifier struct {
	*session.Store
}

func (s storeIdentifier) Identify(sessionID string) (string, bool) {
	return s.Resolve(sessionID)
}

// captureCaller handler, запоминающий вызывающего из контекста
func captureCaller(userID *string, identified *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*userID, *identified = handlers.UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}
}

func TestIdentify(t *testing.T) {
	store := session.NewStore(time.Hour)
	defer store.Stop()

	validID, err := store.Issue("user-1")
	require.NoError(t, err)

	cookies := handlers.CookieConfig{TTL: time.Hour}

	tests := []struct {
		name           string
		cookie         string
		wantUserID     string
		wantIdentified bool
		wantSetCookie  bool
	}{
		{name: "no cookie", cookie: ""},
		{name: "unknown session", cookie: "0123456789abcdef"},
		{name: "valid session", cookie: validID, wantUserID: "user-1", wantIdentified: true, wantSetCookie: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var userID string
			var identified bool

			handler := Identify(setupTestLogger(), storeIdentifier{store}, cookies)(captureCaller(&userID, &identified))

			req := httptest.NewRequest(http.MethodGet, "/todo", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			// Запрос никогда не отклоняется
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantIdentified, identified)
			assert.Equal(t, tt.wantUserID, userID)

			if tt.wantSetCookie {
				assert.Contains(t, w.Header().Get("Set-Cookie"), handlers.SessionCookieName+"="+tt.cookie)
				assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=3600")
			} else {
				assert.Empty(t, w.Header().Get("Set-Cookie"))
			}
		})
	}
}

func TestIdentify_ExpiredSessionIsAnonymous(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := session.NewStore(time.Minute, session.WithClock(func() time.Time { return now }))
	defer store.Stop()

	sessionID, err := store.Issue("user-1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)

	var userID string
	var identified bool
	handler := Identify(setupTestLogger(), storeIdentifier{store}, handlers.CookieConfig{TTL: time.Minute})(captureCaller(&userID, &identified))

	req := httptest.NewRequest(http.MethodGet, "/todo", nil)
	req.AddCookie(&http.Cookie{Name: handlers.SessionCookieName, Value: sessionID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.False(t, identified)
	assert.Empty(t, userID)
	assert.Equal(t, 0, store.Len())
}
