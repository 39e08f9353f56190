package redis

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// SingleFlightCache provides cache with singleflight pattern to prevent cache stampede.
type SingleFlightCache struct {
	client *Client
	sf     singleflight.Group
}

// NewSingleFlightCache creates a new singleflight cache.
func NewSingleFlightCache(client *Client) *SingleFlightCache {
	return &SingleFlightCache{
		client: client,
	}
}

// GetBytes retrieves a value from cache. If not found, calls the loader function.
// Multiple concurrent calls for the same key will result in only one loader call.
func (c *SingleFlightCache) GetBytes(ctx context.Context, key string, loader func() ([]byte, error), ttl time.Duration) ([]byte, error) {
	// Try to get from cache first
	val, err := c.client.Get(ctx, key)
	if err == nil {
		return []byte(val), nil
	}

	if err != ErrKeyNotFound {
		// Real error, not just cache miss
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	// Cache miss - use singleflight to load
	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		data, err := loader()
		if err != nil {
			return nil, fmt.Errorf("loader error: %w", err)
		}

		if err := c.client.Set(ctx, key, data, ttl); err != nil {
			// Return the data even when caching fails
			fmt.Printf("Warning: failed to cache data for key %s: %v\n", key, err)
		}

		return data, nil
	})

	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

// SetBytes stores a value in cache unconditionally, replacing any existing entry.
func (c *SingleFlightCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl)
}
