package session

import "context"

// KV is the persistence backend behind Store. SetMany and Delete apply all
// of their keys as one group.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}
