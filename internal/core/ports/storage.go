package ports

import "context"

// DurableStore persists string entries that survive process restarts.
// SetAll must write every entry or none of them.
type DurableStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	SetAll(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
}
