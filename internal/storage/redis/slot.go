// Package redis stores slot values as Redis strings so several processes can
// share one task document.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis slot.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key.
	Prefix  string
	Timeout time.Duration
}

// Slot implements storage.Slot on a Redis client.
type Slot struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

// New creates a slot with its own client.
func New(opts Options) *Slot {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.Timeout,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	})
	return NewWithClient(client, opts.Prefix, opts.Timeout)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string, timeout time.Duration) *Slot {
	return &Slot{
		client:  client,
		prefix:  prefix,
		timeout: timeout,
	}
}

// Name returns the backend name.
func (s *Slot) Name() string {
	return "redis"
}

// Ping checks the connection.
func (s *Slot) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

// Get returns the value stored under key.
func (s *Slot) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key without expiry.
func (s *Slot) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (s *Slot) Remove(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Close closes the client.
func (s *Slot) Close() error {
	return s.client.Close()
}

func (s *Slot) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
