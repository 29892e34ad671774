// Package redis keeps draft slots in Redis so every replica of the service
// sees the same draft for an owner.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/orangecat/campaignsync/pkg/store"
)

// DraftStore implements store.DraftStore on a Redis client.
type DraftStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.DraftStore = (*DraftStore)(nil)

// Option configures a DraftStore.
type Option func(*DraftStore)

// WithPrefix namespaces every key, for Redis instances shared with other
// applications.
func WithPrefix(prefix string) Option {
	return func(s *DraftStore) { s.prefix = prefix }
}

// WithTTL expires untouched drafts. Each save resets the expiry. Zero keeps
// drafts forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *DraftStore) { s.ttl = ttl }
}

// New wraps an existing client. Close closes the client.
func New(client *redis.Client, opts ...Option) *DraftStore {
	s := &DraftStore{client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial parses a redis:// URL, connects and verifies the server answers.
func Dial(ctx context.Context, url string, opts ...Option) (*DraftStore, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, opts...), nil
}

func (s *DraftStore) key(key string) string {
	return s.prefix + key
}

func (s *DraftStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *DraftStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func (s *DraftStore) Close() error {
	return s.client.Close()
}
