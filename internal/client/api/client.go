// Package api implements the HTTP client for the gophtodo REST API.
// The session cookie lives in a cookie jar; callers persist it between runs
// with SessionID and SetSessionID.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/pkg/api"
)

// SessionCookieName имя cookie сессии, выдаваемой сервером
const SessionCookieName = "sid"

// ServerError ответ сервера с кодом не 2xx
type ServerError struct {
	Kind       string // ValidationError, NotFound, ...
	Message    string
	StatusCode int
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	if e.Kind != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Kind)
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// StatusCode возвращает HTTP статус из ошибки сервера, 0 если это не ServerError
func StatusCode(err error) int {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// ListOptions параметры GET /todo
type ListOptions struct {
	TagID     string
	SortByDue bool
}

// envelope общий ответ на изменяющие запросы
type envelope struct {
	Data         json.RawMessage `json:"data"`
	DeletedCount *int            `json:"deletedCount"`
	Msg          string          `json:"msg"`
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	jar        http.CookieJar
	base       *url.URL
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(baseURL, "/")
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host required", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		base:    base,
		jar:     jar,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// SessionID возвращает текущий идентификатор сессии из cookie jar
func (c *Client) SessionID() string {
	for _, cookie := range c.jar.Cookies(c.base) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionID восстанавливает сохраненную сессию
func (c *Client) SetSessionID(sessionID string) {
	if sessionID == "" {
		return
	}
	c.jar.SetCookies(c.base, []*http.Cookie{{
		Name:  SessionCookieName,
		Value: sessionID,
		Path:  "/",
	}})
}

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, username, password string) (*api.UserResponse, error) {
	var resp api.UserResponse
	req := api.RegisterRequest{Username: username, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет аутентификацию; cookie сессии попадает в jar
func (c *Client) Login(ctx context.Context, username, password string) (*api.UserResponse, error) {
	var resp api.UserResponse
	req := api.LoginRequest{Username: username, Password: password}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout завершает сессию на сервере
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Me возвращает текущего пользователя или nil для анонимного клиента
func (c *Client) Me(ctx context.Context) (*api.UserResponse, error) {
	var resp api.MeResponse
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return resp.User, nil
}

// ListTodos возвращает задачи, видимые текущему клиенту
func (c *Client) ListTodos(ctx context.Context, opts ListOptions) ([]*models.Todo, error) {
	query := url.Values{}
	if opts.TagID != "" {
		query.Set("tagId", opts.TagID)
	}
	if opts.SortByDue {
		query.Set("sortBy", "dueDate")
	}

	path := "/todo"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	todos := make([]*models.Todo, 0)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &todos); err != nil {
		return nil, fmt.Errorf("list todos request failed: %w", err)
	}
	return todos, nil
}

// CreateTodo создает задачу
func (c *Client) CreateTodo(ctx context.Context, req api.TodoCreateRequest) (*models.Todo, error) {
	var todo models.Todo
	if err := c.doEnvelope(ctx, http.MethodPut, "/todo", req, &todo); err != nil {
		return nil, fmt.Errorf("create todo request failed: %w", err)
	}
	return &todo, nil
}

// UpdateTodo изменяет текст, тег и срок задачи
func (c *Client) UpdateTodo(ctx context.Context, req api.TodoUpdateRequest) (*models.Todo, error) {
	var todo models.Todo
	if err := c.doEnvelope(ctx, http.MethodPatch, "/todo", req, &todo); err != nil {
		return nil, fmt.Errorf("update todo request failed: %w", err)
	}
	return &todo, nil
}

// SetTodoStatus отмечает задачу выполненной или невыполненной
func (c *Client) SetTodoStatus(ctx context.Context, id string, done bool) (*api.TodoStatusResponse, error) {
	var resp api.TodoStatusResponse
	req := api.TodoStatusRequest{ID: id, IsDone: &done}
	if err := c.doEnvelope(ctx, http.MethodPatch, "/todo/status", req, &resp); err != nil {
		return nil, fmt.Errorf("update status request failed: %w", err)
	}
	return &resp, nil
}

// DeleteTodo удаляет задачу
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	if err := c.doEnvelope(ctx, http.MethodDelete, "/todo", api.TodoDeleteRequest{ID: id}, nil); err != nil {
		return fmt.Errorf("delete todo request failed: %w", err)
	}
	return nil
}

// DeleteAllTodos удаляет все задачи, видимые текущему клиенту
func (c *Client) DeleteAllTodos(ctx context.Context) (int, error) {
	var resp api.DeletedCountResponse
	if err := c.doEnvelope(ctx, http.MethodPost, "/todo/all", nil, &resp); err != nil {
		return 0, fmt.Errorf("delete all todos request failed: %w", err)
	}
	return resp.DeletedCount, nil
}

// ListTags возвращает все теги
func (c *Client) ListTags(ctx context.Context) ([]*models.Tag, error) {
	tags := make([]*models.Tag, 0)
	if err := c.doRequest(ctx, http.MethodGet, "/tags", nil, &tags); err != nil {
		return nil, fmt.Errorf("list tags request failed: %w", err)
	}
	return tags, nil
}

// CreateTag создает тег
func (c *Client) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := c.doEnvelope(ctx, http.MethodPost, "/tags", api.TagCreateRequest{Name: name}, &tag); err != nil {
		return nil, fmt.Errorf("create tag request failed: %w", err)
	}
	return &tag, nil
}

// DeleteTag удаляет неиспользуемый тег
func (c *Client) DeleteTag(ctx context.Context, id string) error {
	path := "/tags/" + url.PathEscape(id)
	if err := c.doEnvelope(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete tag request failed: %w", err)
	}
	return nil
}

// DeleteUnusedTags удаляет теги без задач и возвращает их количество
func (c *Client) DeleteUnusedTags(ctx context.Context) (int, error) {
	var env envelope
	if err := c.doRequest(ctx, http.MethodPost, "/tags/unused", nil, &env); err != nil {
		return 0, fmt.Errorf("delete unused tags request failed: %w", err)
	}
	if env.DeletedCount == nil {
		return 0, nil
	}
	return *env.DeletedCount, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// doEnvelope выполняет запрос и декодирует поле data ответа в result
func (c *Client) doEnvelope(ctx context.Context, method, path string, body, result any) error {
	var env envelope
	if err := c.doRequest(ctx, method, path, body, &env); err != nil {
		return err
	}

	if result == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverErr := &ServerError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			serverErr.Kind = errResp.Error
			serverErr.Message = errResp.Message
		}
		return serverErr
	}

	// Декодируем успешный ответ
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
