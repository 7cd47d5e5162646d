package ports

import "context"

// DiagramCache stores rendered markup.
type DiagramCache interface {
	// Get returns domain.ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, markup []byte) error
	Delete(ctx context.Context, key string) error
}
