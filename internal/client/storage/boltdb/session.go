package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/iudanet/gophtodo/internal/client/storage"
)

// sessionKey нормализует адрес сервера, чтобы http://host/ и http://host совпадали
func sessionKey(serverURL string) []byte {
	return []byte(strings.TrimRight(strings.TrimSpace(serverURL), "/"))
}

// SaveSession stores session data for data.ServerURL
func (s *Storage) SaveSession(ctx context.Context, data *storage.SessionData) error {
	if data == nil || data.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}

	// Сериализуем данные в JSON
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	return s.update(func(bucket *bbolt.Bucket) error {
		if err := bucket.Put(sessionKey(data.ServerURL), raw); err != nil {
			return fmt.Errorf("failed to save session data: %w", err)
		}
		return nil
	})
}

// GetSession retrieves stored session data for serverURL
func (s *Storage) GetSession(ctx context.Context, serverURL string) (*storage.SessionData, error) {
	var data *storage.SessionData

	err := s.view(func(bucket *bbolt.Bucket) error {
		raw := bucket.Get(sessionKey(serverURL))
		if raw == nil {
			return storage.ErrSessionNotFound
		}

		// Десериализуем
		data = &storage.SessionData{}
		if err := json.Unmarshal(raw, data); err != nil {
			return fmt.Errorf("failed to unmarshal session data: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return data, nil
}

// DeleteSession removes stored session data (logout)
func (s *Storage) DeleteSession(ctx context.Context, serverURL string) error {
	return s.update(func(bucket *bbolt.Bucket) error {
		if err := bucket.Delete(sessionKey(serverURL)); err != nil {
			return fmt.Errorf("failed to delete session data: %w", err)
		}
		return nil
	})
}
