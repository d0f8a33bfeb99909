package cache

import (
	"context"
	"time"
)

// Cache is the contract of the read-through cache used for dashboard data.
// Implementations serialize values as JSON.
type Cache interface {
	// Get reports a miss with found == false and leaves dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
}
