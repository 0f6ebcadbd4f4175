package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedStore wraps a primary Store with a Redis read-through cache.
// Writes go to the primary store and populate the cache; reads check Redis
// first then fall back to the primary. Redis failures are never fatal.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

func (s *CachedStore) Save(ctx context.Context, run *Run) error {
	if err := s.primary.Save(ctx, run); err != nil {
		return err
	}
	s.cacheRun(ctx, run)
	return nil
}

func (s *CachedStore) Get(ctx context.Context, id string) (*Run, error) {
	data, err := s.rdb.Get(ctx, runKey(id)).Bytes()
	if err == nil {
		var r Run
		if json.Unmarshal(data, &r) == nil {
			return &r, nil
		}
	}

	run, err := s.primary.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheRun(ctx, run)
	return run, nil
}

func (s *CachedStore) cacheRun(ctx context.Context, run *Run) {
	if data, err := json.Marshal(run); err == nil {
		s.rdb.Set(ctx, runKey(run.ID), data, s.ttl)
	}
}

func runKey(id string) string { return fmt.Sprintf("ticket-ledger:run:%s", id) }
