// Package session keeps server-side login sessions in process memory.
//
// A session binds a random opaque id to a user id until it expires. Every
// successful Resolve slides the expiry forward by the TTL. Nothing is
// persisted: a restart invalidates all sessions.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultTTL время жизни сессии без активности
	DefaultTTL = 7 * 24 * time.Hour
	// IDSize размер session id в байтах (до hex-кодирования)
	IDSize = 32

	shardCount = 32
)

// entry одна запись сессии
type entry struct {
	expiresAt time.Time
	userID    string
}

// shard часть общей таблицы со своим мьютексом
type shard struct {
	entries map[string]*entry
	mu      sync.Mutex
}

// Store is a concurrency-safe session table split into shards.
// Operations on the same id are serialized; ids in different shards never
// contend for the same lock.
type Store struct {
	now      func() time.Time
	logger   *slog.Logger
	stopC    chan struct{}
	shards   [shardCount]*shard
	ttl      time.Duration
	sweep    time.Duration
	stopOnce sync.Once
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithSweepInterval sets how often expired sessions are purged.
// Zero disables the background sweeper.
func WithSweepInterval(d time.Duration) Option {
	return func(s *Store) {
		s.sweep = d
	}
}

// WithLogger sets the logger used by the sweeper.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore создает пустое хранилище сессий.
// ttl <= 0 означает DefaultTTL.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	s := &Store{
		ttl:    ttl,
		now:    time.Now,
		logger: slog.Default(),
		stopC:  make(chan struct{}),
	}
	for i := range s.shards {
		s.shards[i] = &shard{entries: make(map[string]*entry)}
	}
	for _, opt := range opts {
		opt(s)
	}

	// Запускаем периодическую очистку истекших сессий
	if s.sweep > 0 {
		go s.cleanup()
	}

	return s
}

// TTL returns the sliding lifetime of a session.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Issue creates a session for userID and returns its id.
func (s *Store) Issue(userID string) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", err
	}

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.entries[id] = &entry{
		userID:    userID,
		expiresAt: s.now().Add(s.ttl),
	}

	return id, nil
}

// Resolve returns the user bound to sessionID and extends its expiry.
// Missing or expired sessions yield ok == false; expired ones are deleted.
func (s *Store) Resolve(sessionID string) (userID string, ok bool) {
	if sessionID == "" {
		return "", false
	}

	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, exists := sh.entries[sessionID]
	if !exists {
		return "", false
	}

	now := s.now()
	if now.After(e.expiresAt) {
		delete(sh.entries, sessionID)
		return "", false
	}

	e.expiresAt = now.Add(s.ttl)
	return e.userID, true
}

// Revoke deletes sessionID. Unknown ids are ignored.
func (s *Store) Revoke(sessionID string) {
	if sessionID == "" {
		return
	}

	sh := s.shardFor(sessionID)
	sh.mu.Lock()
	delete(sh.entries, sessionID)
	sh.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *Store) Len() int {
	n := 0
	for _, sh := range s.shards {
		sh.mu.Lock()
		n += len(sh.entries)
		sh.mu.Unlock()
	}
	return n
}

// Stop останавливает cleanup goroutine. Повторные вызовы безопасны.
func (s *Store) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopC)
	})
}

// cleanup периодически удаляет истекшие сессии
func (s *Store) cleanup() {
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.purgeExpired(); n > 0 {
				s.logger.Debug("expired sessions purged", slog.Int("count", n))
			}
		case <-s.stopC:
			return
		}
	}
}

// purgeExpired удаляет все истекшие записи и возвращает их количество
func (s *Store) purgeExpired() int {
	now := s.now()
	purged := 0

	for _, sh := range s.shards {
		sh.mu.Lock()
		for id, e := range sh.entries {
			if now.After(e.expiresAt) {
				delete(sh.entries, id)
				purged++
			}
		}
		sh.mu.Unlock()
	}

	return purged
}

func (s *Store) shardFor(sessionID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	return s.shards[h.Sum32()%shardCount]
}

// generateID генерирует случайный session id (hex, 64 символа)
func generateID() (string, error) {
	buf := make([]byte, IDSize)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
