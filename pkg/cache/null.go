package cache

import (
	"context"
	"time"
)

// NullCache is the backend of a server started without --cache-dir. Every
// lookup misses and every store is dropped; cancellation is still reported
// so both backends fail a cancelled request the same way.
type NullCache struct{}

var _ Cache = (*NullCache)(nil)

// NewNullCache returns a cache that keeps nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, ctx.Err()
}

func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return ctx.Err()
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return ctx.Err()
}

func (c *NullCache) Close() error { return nil }

// Enabled reports whether c keeps entries. Callers use it to skip encoding
// responses that would be dropped.
func Enabled(c Cache) bool {
	if c == nil {
		return false
	}
	_, null := c.(*NullCache)
	return !null
}
