// Package cli implements the gophtodo command-line client.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/gophtodo/internal/client/api"
	"github.com/iudanet/gophtodo/internal/client/iocli"
	"github.com/iudanet/gophtodo/internal/client/storage"
	"github.com/iudanet/gophtodo/internal/client/storage/boltdb"
	"github.com/iudanet/gophtodo/internal/models"
	apitypes "github.com/iudanet/gophtodo/pkg/api"
)

const (
	// DefaultServerURL адрес сервера по умолчанию
	DefaultServerURL = "http://localhost:3000"
	// DefaultDBPath локальный файл BoltDB по умолчанию
	DefaultDBPath = "gophtodo-client.db"
)

// API операции сервера, которые использует CLI
type API interface {
	SessionID() string
	SetSessionID(sessionID string)

	Register(ctx context.Context, username, password string) (*apitypes.UserResponse, error)
	Login(ctx context.Context, username, password string) (*apitypes.UserResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*apitypes.UserResponse, error)
	Health(ctx context.Context) (*apitypes.HealthResponse, error)

	ListTodos(ctx context.Context, opts api.ListOptions) ([]*models.Todo, error)
	CreateTodo(ctx context.Context, req apitypes.TodoCreateRequest) (*models.Todo, error)
	UpdateTodo(ctx context.Context, req apitypes.TodoUpdateRequest) (*models.Todo, error)
	SetTodoStatus(ctx context.Context, id string, done bool) (*apitypes.TodoStatusResponse, error)
	DeleteTodo(ctx context.Context, id string) error
	DeleteAllTodos(ctx context.Context) (int, error)

	ListTags(ctx context.Context) ([]*models.Tag, error)
	CreateTag(ctx context.Context, name string) (*models.Tag, error)
	DeleteTag(ctx context.Context, id string) error
	DeleteUnusedTags(ctx context.Context) (int, error)
}

// Config параметры запуска клиента
type Config struct {
	ServerURL string
	DBPath    string
	Version   string
}

// Cli состояние одного запуска клиента
type Cli struct {
	io       iocli.IO
	api      API
	sessions storage.SessionStorage
	closeFn  func() error
	cfg      Config
}

// open создает API клиент, открывает локальное хранилище
// и восстанавливает сохраненную сессию
func (c *Cli) open(ctx context.Context) error {
	client, err := api.NewClient(c.cfg.ServerURL)
	if err != nil {
		return err
	}

	store, err := boltdb.New(ctx, c.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open local database: %w", err)
	}

	c.api = client
	c.sessions = store
	c.closeFn = store.Close

	data, err := store.GetSession(ctx, c.cfg.ServerURL)
	switch {
	case err == nil:
		client.SetSessionID(data.SessionID)
	case errors.Is(err, storage.ErrSessionNotFound):
		// анонимный клиент
	default:
		return fmt.Errorf("failed to load session: %w", err)
	}

	return nil
}

// Close освобождает локальное хранилище
func (c *Cli) Close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}

// Execute разбирает args и выполняет команду
func Execute(ctx context.Context, cfg Config, io iocli.IO, args []string) (err error) {
	c := &Cli{io: io, cfg: cfg}
	defer func() {
		err = errors.Join(err, c.Close())
	}()

	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(io)
	root.SetErr(io)

	return root.ExecuteContext(ctx)
}
