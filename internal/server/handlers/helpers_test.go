package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/server/service"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlstore"
	"github.com/iudanet/gophtodo/internal/session"
	"github.com/iudanet/gophtodo/pkg/api"
)

const testSessionTTL = time.Hour

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testEnv реальные сервисы поверх in-memory SQLite
type testEnv struct {
	storage  *sqlstore.Storage
	sessions *session.Store
	auth     *AuthHandler
	todos    *TodoHandler
	tags     *TagHandler
	authSvc  *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := setupTestLogger()

	st, err := sqlstore.New(context.Background(), sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	sessions := session.NewStore(testSessionTTL)
	t.Cleanup(sessions.Stop)

	authSvc := service.NewAuthService(logger, st, sessions, crypto.NewHasher(1000))
	todoSvc := service.NewTodoService(logger, st, st)
	tagSvc := service.NewTagService(logger, st)

	return &testEnv{
		storage:  st,
		sessions: sessions,
		authSvc:  authSvc,
		auth:     NewAuthHandler(logger, authSvc, CookieConfig{TTL: testSessionTTL}),
		todos:    NewTodoHandler(logger, todoSvc),
		tags:     NewTagHandler(logger, tagSvc),
	}
}

// registerUser регистрирует пользователя и возвращает его id
func (e *testEnv) registerUser(t *testing.T, username string) string {
	t.Helper()
	user, err := e.authSvc.Register(context.Background(), username, "password")
	require.NoError(t, err)
	return user.ID
}

// doRequest вызывает handler напрямую; userID != "" имитирует Identify
func doRequest(t *testing.T, h http.HandlerFunc, method, target string, body any, userID string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		req = req.WithContext(WithUserID(req.Context(), userID))
	}

	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
