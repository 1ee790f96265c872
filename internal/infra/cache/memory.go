package cache

import (
	"context"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore keeps responses in process for as long as the store lives.
// Entries never expire; only Clear drops them.
type MemoryStore struct {
	c *gocache.Cache
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, 0)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.c.Set(key, value, gocache.NoExpiration)
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.c.Flush()
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

// Len is the number of cached responses.
func (s *MemoryStore) Len() int { return s.c.ItemCount() }
