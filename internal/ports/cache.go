package ports

import (
	"context"
	"time"
)

// Cache is a best-effort read cache. A miss is ("", nil).
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
