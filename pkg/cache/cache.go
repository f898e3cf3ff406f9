// Package cache stores finished API responses keyed by their inputs.
//
// Symmetry detection is deterministic for a fixed model and option set, so
// a response can be replayed for a repeated request. Two backends exist:
//
//   - [FileCache]: entries as JSON files under a directory, with expiry
//   - [NullCache]: stores nothing
//
// Keys come from [Key], which hashes the request kind, the raw model bytes
// and the options.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry time to live.
type Cache interface {
	// Get returns the value stored under key. A missing or expired entry is
	// a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
