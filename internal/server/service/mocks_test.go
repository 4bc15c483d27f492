package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/gophtodo/internal/access"
	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memUserStorage in-memory реализация UserStorage для тестов
type memUserStorage struct {
	byID        map[string]*models.User
	byUsername  map[string]*models.User
	createError error
	getError    error
	mu          sync.Mutex
}

func newMemUserStorage() *memUserStorage {
	return &memUserStorage{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]*models.User),
	}
}

func (m *memUserStorage) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	if _, exists := m.byUsername[user.Username]; exists {
		return storage.ErrUserAlreadyExists
	}
	m.byID[user.ID] = user
	m.byUsername[user.Username] = user
	return nil
}

func (m *memUserStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.byUsername[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (m *memUserStorage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

// memSessionStore простая реализация SessionStore
type memSessionStore struct {
	sessions   map[string]string
	issueError error
	next       int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: make(map[string]string)}
}

func (m *memSessionStore) Issue(userID string) (string, error) {
	if m.issueError != nil {
		return "", m.issueError
	}
	m.next++
	id := fmt.Sprintf("session-%d", m.next)
	m.sessions[id] = userID
	return id, nil
}

func (m *memSessionStore) Resolve(id string) (string, bool) {
	userID, ok := m.sessions[id]
	return userID, ok
}

func (m *memSessionStore) Revoke(id string) {
	delete(m.sessions, id)
}

func (m *memSessionStore) TTL() time.Duration {
	return time.Hour
}

// memTodoStorage хранит задачи и теги в памяти и применяет фильтр владельца
type memTodoStorage struct {
	todos     map[string]*models.Todo
	tags      map[string]*models.Tag
	listError error
	mu        sync.Mutex
}

func newMemTodoStorage() *memTodoStorage {
	return &memTodoStorage{
		todos: make(map[string]*models.Todo),
		tags:  make(map[string]*models.Tag),
	}
}

func (m *memTodoStorage) withTagName(todo *models.Todo) *models.Todo {
	cp := *todo
	cp.TagName = nil
	if cp.TagID != nil {
		if tag, ok := m.tags[*cp.TagID]; ok {
			name := tag.Name
			cp.TagName = &name
		}
	}
	return &cp
}

func (m *memTodoStorage) CreateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *todo
	m.todos[todo.ID] = &cp
	return nil
}

func (m *memTodoStorage) GetTodo(ctx context.Context, id string) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	todo, ok := m.todos[id]
	if !ok {
		return nil, storage.ErrTodoNotFound
	}
	return m.withTagName(todo), nil
}

func (m *memTodoStorage) ListTodos(ctx context.Context, q storage.TodoQuery) ([]*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listError != nil {
		return nil, m.listError
	}
	result := make([]*models.Todo, 0)
	for _, todo := range m.todos {
		if !q.Filter.Allows(todo.OwnerID) {
			continue
		}
		if q.TagID != "" && (todo.TagID == nil || *todo.TagID != q.TagID) {
			continue
		}
		result = append(result, m.withTagName(todo))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memTodoStorage) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.todos[todo.ID]
	if !ok {
		return storage.ErrTodoNotFound
	}
	existing.TodoText = todo.TodoText
	existing.TagID = todo.TagID
	existing.DueDate = todo.DueDate
	existing.UpdatedAt = todo.UpdatedAt
	return nil
}

func (m *memTodoStorage) SetTodoDone(ctx context.Context, id string, isDone bool, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.todos[id]
	if !ok {
		return storage.ErrTodoNotFound
	}
	existing.IsDone = isDone
	existing.UpdatedAt = &updatedAt
	return nil
}

func (m *memTodoStorage) DeleteTodo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.todos[id]; !ok {
		return storage.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}

func (m *memTodoStorage) DeleteTodos(ctx context.Context, filter access.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, todo := range m.todos {
		if filter.Allows(todo.OwnerID) {
			delete(m.todos, id)
			n++
		}
	}
	return n, nil
}

func (m *memTodoStorage) CreateTag(ctx context.Context, tag *models.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.tags {
		if existing.Name == tag.Name {
			return storage.ErrTagAlreadyExists
		}
	}
	cp := *tag
	m.tags[tag.ID] = &cp
	return nil
}

func (m *memTodoStorage) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tag, ok := m.tags[id]
	if !ok {
		return nil, storage.ErrTagNotFound
	}
	cp := *tag
	return &cp, nil
}

func (m *memTodoStorage) ListTags(ctx context.Context) ([]*models.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*models.Tag, 0, len(m.tags))
	for _, tag := range m.tags {
		cp := *tag
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *memTodoStorage) countLocked(id string) int {
	n := 0
	for _, todo := range m.todos {
		if todo.TagID != nil && *todo.TagID == id {
			n++
		}
	}
	return n
}

func (m *memTodoStorage) CountTodosWithTag(ctx context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(id), nil
}

func (m *memTodoStorage) DeleteTag(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tags[id]; !ok {
		return storage.ErrTagNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *memTodoStorage) DeleteUnusedTags(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id := range m.tags {
		if m.countLocked(id) == 0 {
			delete(m.tags, id)
			n++
		}
	}
	return n, nil
}
