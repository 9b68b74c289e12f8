// Package redis implements catalog.Store on Redis. Records are JSON values,
// lookups go through hash indexes, and tag counters are maintained with
// server-side atomic increments so concurrent attach/detach never loses
// updates.
package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/nsommier/hoard/internal/catalog"
)

// Store handles Redis operations for the bookmark catalog.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis-backed catalog store.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

var _ catalog.Store = (*Store)(nil)
