package tokenstore

import (
	"context"
	"time"

	"DuoChat/pkg/cache"
)

// Store remembers revoked token ids until the token would have expired
// anyway.
type Store interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryStore keeps revocations in process. Entries never get evicted
// early, only expired, so a revoked token cannot come back to life.
type MemoryStore struct {
	c   *cache.Cache
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: cache.New(0, time.Minute), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, until time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := until.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	s.c.Set(jti, struct{}{}, ttl)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, ok := s.c.Get(jti)
	return ok, nil
}

func (s *MemoryStore) Close() {
	s.c.Close()
}
