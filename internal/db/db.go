// Package db defines the storage contract the repositories consume. The
// redis subpackage implements it via rueidis; repositories depend on narrow
// consumer interfaces carved from Store.
package db

import (
	"context"
	"time"
)

// ZMember is a sorted set member with its score.
type ZMember struct {
	Member string
	Score  float64
}

// Store is the full storage surface. Implementations must be safe for
// concurrent use.
type Store interface {
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// WaitForReady polls Ping until the store responds or timeout expires.
	WaitForReady(ctx context.Context, timeout time.Duration) error
	// Close shuts down the client.
	Close()

	// JSONSet stores a JSON document at the given key and path.
	JSONSet(ctx context.Context, key, path string, data []byte) error
	// JSONGet retrieves a JSON document by key and optional paths.
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)

	// Del removes a key.
	Del(ctx context.Context, key string) error
	// Exists reports whether a key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// ZAdd adds or updates a sorted set member.
	ZAdd(ctx context.Context, key, member string, score float64) error
	// ZRem removes a sorted set member.
	ZRem(ctx context.Context, key, member string) error
	// ZRevRange returns members by descending score, start/stop inclusive
	// (stop -1 = end of set).
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	// ZCard returns the sorted set cardinality.
	ZCard(ctx context.Context, key string) (int64, error)

	// SAdd adds a set member.
	SAdd(ctx context.Context, key, member string) error
	// SRem removes a set member.
	SRem(ctx context.Context, key, member string) error
	// SMembers returns all set members.
	SMembers(ctx context.Context, key string) ([]string, error)
}
