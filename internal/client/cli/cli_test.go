package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/iocli"
	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/client/storage/boltdb"
	"github.com/iudanet/gophtodo/internal/crypto"
	"github.com/iudanet/gophtodo/internal/server"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/service"
	"github.com/iudanet/gophtodo/internal/server/storage/sqlstore"
	"github.com/iudanet/gophtodo/internal/session"
)

// startServer поднимает настоящий API на in-memory SQLite
func startServer(t *testing.T) string {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlstore.New(context.Background(), sqlstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	sessions := session.NewStore(time.Hour)
	t.Cleanup(sessions.Stop)

	router := server.NewRouter(server.Deps{
		Logger:  logger,
		Auth:    service.NewAuthService(logger, st, sessions, crypto.NewHasher(1000)),
		Todos:   service.NewTodoService(logger, st, st),
		Tags:    service.NewTagService(logger, st),
		DB:      st,
		Version: "test",
		Cookies: handlers.CookieConfig{TTL: sessions.TTL()},
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

// testUser отдельный клиент со своим локальным файлом BoltDB
type testUser struct {
	t   *testing.T
	cfg Config
}

func newTestUser(t *testing.T, serverURL string) *testUser {
	return &testUser{
		t: t,
		cfg: Config{
			ServerURL: serverURL,
			DBPath:    filepath.Join(t.TempDir(), "client.db"),
			Version:   "test",
		},
	}
}

// run выполняет команду как отдельный запуск процесса
func (u *testUser) run(stdin string, args ...string) (string, error) {
	u.t.Helper()
	var out bytes.Buffer
	err := Execute(context.Background(), u.cfg, iocli.New(strings.NewReader(stdin), &out), args)
	return out.String(), err
}

func (u *testUser) mustRun(stdin string, args ...string) string {
	u.t.Helper()
	out, err := u.run(stdin, args...)
	require.NoError(u.t, err, out)
	return out
}

func (u *testUser) signUp(username string) {
	u.t.Helper()
	password := "pw-" + username
	u.mustRun(password+"\n"+password+"\n", "register", username)
	u.mustRun(password+"\n", "login", username)
}

func (u *testUser) storedSession() (*storage.SessionData, error) {
	u.t.Helper()
	store, err := boltdb.New(context.Background(), u.cfg.DBPath)
	require.NoError(u.t, err)
	defer func() {
		_ = store.Close()
	}()
	return store.GetSession(context.Background(), u.cfg.ServerURL)
}

func (u *testUser) saveSession(sessionID string) {
	u.t.Helper()
	store, err := boltdb.New(context.Background(), u.cfg.DBPath)
	require.NoError(u.t, err)
	defer func() {
		_ = store.Close()
	}()
	require.NoError(u.t, store.SaveSession(context.Background(), &storage.SessionData{
		ServerURL: u.cfg.ServerURL,
		SessionID: sessionID,
	}))
}

// lastField возвращает последнее слово вывода, обычно id
func lastField(out string) string {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func TestCLI_SessionLifecycle(t *testing.T) {
	alice := newTestUser(t, startServer(t))

	out := alice.mustRun("secret\nsecret\n", "register", "alice")
	assert.Contains(t, out, "✓ User alice registered")

	out = alice.mustRun("", "whoami")
	assert.Contains(t, out, "Not logged in.")

	// Имя пользователя можно ввести интерактивно
	out = alice.mustRun("alice\nsecret\n", "login")
	assert.Contains(t, out, "✓ Logged in as alice")

	stored, err := alice.storedSession()
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.NotEmpty(t, stored.SessionID)

	// Сессия переживает перезапуск клиента
	out = alice.mustRun("", "whoami")
	assert.Contains(t, out, "alice (id "+stored.UserID+")")

	out = alice.mustRun("", "status")
	assert.Contains(t, out, "Status: Authenticated")
	assert.Contains(t, out, "version test")

	out = alice.mustRun("", "logout")
	assert.Contains(t, out, "✓ Logout successful!")
	assert.NotContains(t, out, "Warning")

	_, err = alice.storedSession()
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)

	out = alice.mustRun("", "whoami")
	assert.Contains(t, out, "Not logged in.")
}

func TestCLI_RegisterErrors(t *testing.T) {
	user := newTestUser(t, startServer(t))

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantErr string
	}{
		{name: "passwords differ", stdin: "one\ntwo\n", args: []string{"register", "bob"}, wantErr: "passwords do not match"},
		{name: "empty password", stdin: "\n", args: []string{"register", "bob"}, wantErr: "password cannot be empty"},
		{name: "blank username", stdin: "pw\npw\n", args: []string{"register", "   "}, wantErr: "username cannot be empty"},
		{name: "too many args", args: []string{"register", "a", "b"}, wantErr: "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := user.run(tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	user.mustRun("pw\npw\n", "register", "bob")
	_, err := user.run("pw\npw\n", "register", "bob")
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))
}

func TestCLI_LoginWrongPassword(t *testing.T) {
	user := newTestUser(t, startServer(t))
	user.mustRun("right\nright\n", "register", "carol")

	_, err := user.run("wrong\n", "login", "carol")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))

	_, err = user.run("right\n", "login", "nobody")
	assert.Equal(t, http.StatusUnauthorized, api.StatusCode(err))

	_, err = user.storedSession()
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestCLI_TodoWorkflow(t *testing.T) {
	alice := newTestUser(t, startServer(t))
	alice.signUp("alice")

	tagID := lastField(alice.mustRun("", "tag", "add", "work"))
	require.NotEmpty(t, tagID)

	out := alice.mustRun("", "todo", "add", "write", "report", "--tag", tagID, "--due", "2025-03-14")
	todoID := lastField(out)
	require.NotEmpty(t, todoID)

	out = alice.mustRun("", "todo", "list")
	assert.Contains(t, out, "write report")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "2025-03-14")
	assert.Contains(t, out, "[ ]")

	out = alice.mustRun("", "todo", "done", todoID)
	assert.Contains(t, out, "done")
	out = alice.mustRun("", "todo", "list")
	assert.Contains(t, out, "[x]")

	// Без флагов тег и срок сохраняются
	alice.mustRun("", "todo", "edit", todoID, "final", "report")
	out = alice.mustRun("", "todo", "list", "--tag", tagID)
	assert.Contains(t, out, "final report")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "2025-03-14")

	// Пустой --tag сбрасывает тег
	alice.mustRun("", "todo", "edit", todoID, "untagged", "--tag", "")
	out = alice.mustRun("", "todo", "list", "--tag", tagID)
	assert.Contains(t, out, "No todos found.")

	out = alice.mustRun("", "tag", "list")
	assert.Contains(t, out, "work")

	out = alice.mustRun("", "tag", "prune")
	assert.Contains(t, out, "Deleted 1 unused tag(s)")

	out = alice.mustRun("", "todo", "undone", todoID)
	assert.Contains(t, out, "not done")

	out = alice.mustRun("", "todo", "rm", todoID)
	assert.Contains(t, out, "deleted")

	out = alice.mustRun("", "todo", "list")
	assert.Contains(t, out, "No todos found.")
}

func TestCLI_Visibility(t *testing.T) {
	serverURL := startServer(t)
	alice := newTestUser(t, serverURL)
	bob := newTestUser(t, serverURL)
	anon := newTestUser(t, serverURL)

	alice.signUp("alice")
	bob.signUp("bob")

	aliceTodo := lastField(alice.mustRun("", "todo", "add", "A1"))
	bob.mustRun("", "todo", "add", "B1")
	anon.mustRun("", "todo", "add", "Pub")

	out := alice.mustRun("", "todo", "list")
	assert.Contains(t, out, "A1")
	assert.NotContains(t, out, "B1")
	assert.NotContains(t, out, "Pub")

	out = anon.mustRun("", "todo", "list")
	assert.Contains(t, out, "Pub")
	assert.NotContains(t, out, "A1")

	_, err := bob.run("", "todo", "edit", aliceTodo, "hijacked")
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	_, err = anon.run("", "todo", "rm", aliceTodo)
	assert.Equal(t, http.StatusForbidden, api.StatusCode(err))

	// clear трогает только свои задачи
	out = bob.mustRun("", "todo", "clear", "--yes")
	assert.Contains(t, out, "Deleted 1 todo(s)")

	out = alice.mustRun("", "todo", "list")
	assert.Contains(t, out, "A1")
	out = anon.mustRun("", "todo", "list")
	assert.Contains(t, out, "Pub")
}

func TestCLI_TodoClearConfirmation(t *testing.T) {
	user := newTestUser(t, startServer(t))
	user.mustRun("", "todo", "add", "keep", "me")

	out := user.mustRun("n\n", "todo", "clear")
	assert.Contains(t, out, "Aborted.")

	out = user.mustRun("", "todo", "list")
	assert.Contains(t, out, "keep me")

	out = user.mustRun("y\n", "todo", "clear")
	assert.Contains(t, out, "Deleted 1 todo(s)")
}

func TestCLI_TagInUse(t *testing.T) {
	user := newTestUser(t, startServer(t))

	tagID := lastField(user.mustRun("", "tag", "add", "home"))
	user.mustRun("", "todo", "add", "dishes", "--tag", tagID)

	_, err := user.run("", "tag", "rm", tagID)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
	assert.Contains(t, err.Error(), "used by some todos")

	_, err = user.run("", "tag", "add", "home")
	assert.Equal(t, http.StatusConflict, api.StatusCode(err))
}

func TestCLI_StaleSessionRemoved(t *testing.T) {
	user := newTestUser(t, startServer(t))
	user.saveSession("deadbeef")

	out := user.mustRun("", "whoami")
	assert.Contains(t, out, "Not logged in.")
	assert.Contains(t, out, "Stored session has expired and was removed.")

	_, err := user.storedSession()
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestCLI_LogoutWithUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	serverURL := srv.URL
	srv.Close()

	user := newTestUser(t, serverURL)
	user.saveSession("cafebabe")

	out := user.mustRun("", "logout")
	assert.Contains(t, out, "Warning: server logout failed")
	assert.Contains(t, out, "✓ Logout successful!")

	_, err := user.storedSession()
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestCLI_ArgumentErrors(t *testing.T) {
	user := newTestUser(t, startServer(t))

	tests := []struct {
		name    string
		wantErr string
		args    []string
	}{
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: "unknown command"},
		{name: "bad sort", args: []string{"todo", "list", "--sort", "name"}, wantErr: "unknown sort"},
		{name: "add without text", args: []string{"todo", "add"}, wantErr: "requires at least 1 arg"},
		{name: "done without id", args: []string{"todo", "done"}, wantErr: "accepts 1 arg"},
		{name: "blank tag name", args: []string{"tag", "add", " "}, wantErr: "tag name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := user.run("", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCLI_InvalidServerURL(t *testing.T) {
	user := newTestUser(t, "not a url")

	_, err := user.run("", "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server url")
}
