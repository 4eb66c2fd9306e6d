package memory

import (
	"context"
	"sync"

	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

// SessionStore keeps session blobs in a map. Entries never expire.
type SessionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ repository.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{data: make(map[string][]byte)}
}

func (s *SessionStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *SessionStore) Set(_ context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = append([]byte(nil), data...)
	return nil
}
