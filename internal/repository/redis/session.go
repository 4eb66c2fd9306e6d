package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

// SessionStore implements repository.SessionStore using Redis.
type SessionStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

var _ repository.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a Redis-backed session store. Every write refreshes
// the key's TTL; a zero ttl stores keys without expiry.
func NewSessionStore(client redis.Cmdable, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the blob stored under key.
func (s *SessionStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

// Set persists data under key with the configured TTL.
func (s *SessionStore) Set(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
