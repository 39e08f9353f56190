// Package redis provides Redis client utilities with support for single instance and cluster modes.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds Redis client configuration.
type Config struct {
	// Single instance mode
	Host     string
	Port     int
	Password string
	DB       int

	// Cluster mode
	Cluster      bool
	ClusterAddrs []string

	// Connection pool
	PoolSize     int
	MinIdleConns int

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolTimeout  time.Duration

	// Retry
	MaxRetries int
}

// Client wraps a Redis client (single instance or cluster).
type Client struct {
	universal redis.UniversalClient
	config    *Config
}

// ErrKeyNotFound is returned when a key doesn't exist.
var ErrKeyNotFound = fmt.Errorf("key not found")

// NewClient creates a new Redis client.
func NewClient(cfg *Config) (*Client, error) {
	if cfg.Cluster {
		return newClusterClient(cfg)
	}
	return newSingleClient(cfg)
}

// newSingleClient creates a single instance Redis client.
func newSingleClient(cfg *Config) (*Client, error) {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Client{
		universal: rdb,
		config:    cfg,
	}, nil
}

// newClusterClient creates a Redis cluster client.
func newClusterClient(cfg *Config) (*Client, error) {
	opts := &redis.ClusterOptions{
		Addrs:        cfg.ClusterAddrs,
		Password:     cfg.Password,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
		MaxRetries:   cfg.MaxRetries,
	}

	rdb := redis.NewClusterClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis cluster: %w", err)
	}

	return &Client{
		universal: rdb,
		config:    cfg,
	}, nil
}

// Get retrieves a value from Redis.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.universal.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get key: %w", err)
	}
	return val, nil
}

// Set stores a value in Redis with an optional expiration.
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := c.universal.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// SetNX sets a value only if the key does not exist.
func (c *Client) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ok, err := c.universal.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, fmt.Errorf("failed to setnx: %w", err)
	}
	return ok, nil
}

// Delete deletes one or more keys.
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if err := c.universal.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}
	return nil
}

// AcquireLock takes a best-effort distributed lock on resource.
// Returns true when this owner holds the lock; the TTL bounds how long a
// crashed owner can block others.
func (c *Client) AcquireLock(ctx context.Context, resource, owner string, ttl time.Duration) (bool, error) {
	return c.SetNX(ctx, LockKey(resource), owner, ttl)
}

// ReleaseLock releases a lock taken with AcquireLock.
func (c *Client) ReleaseLock(ctx context.Context, resource string) error {
	return c.Delete(ctx, LockKey(resource))
}

// Close closes the Redis client.
func (c *Client) Close() error {
	if err := c.universal.Close(); err != nil {
		return fmt.Errorf("failed to close client: %w", err)
	}
	return nil
}
