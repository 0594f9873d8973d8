package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/99minutos/ims-console/internal/core/ports"
)

const defaultNamespace = "default"

// SessionStorage keeps session keys in Redis.
// Key format: ims:session:<namespace>:<key>
type SessionStorage struct {
	client    *redis.Client
	namespace string
}

var _ ports.DurableStore = (*SessionStorage)(nil)

// NewSessionStorage wraps client. namespace separates console instances
// sharing one Redis; blank uses "default".
func NewSessionStorage(client *redis.Client, namespace string) *SessionStorage {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &SessionStorage{client: client, namespace: namespace}
}

func (s *SessionStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

// SetAll writes every entry in one MULTI/EXEC transaction.
func (s *SessionStorage) SetAll(ctx context.Context, entries map[string]string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// Ping reports whether Redis is reachable.
func (s *SessionStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *SessionStorage) key(k string) string {
	return fmt.Sprintf("ims:session:%s:%s", s.namespace, k)
}
