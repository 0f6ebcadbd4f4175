package store

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	run       *Run
	expiresAt time.Time
}

// MemoryStore keeps runs in process memory for a fixed TTL.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]memoryEntry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore returns an empty store. A ttl <= 0 keeps runs forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]memoryEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exp time.Time
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.runs[run.ID] = memoryEntry{run: run, expiresAt: exp}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.runs[id]
	if !ok || s.expired(e, s.now()) {
		return nil, ErrNotFound
	}
	return e.run, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}

// StartCleanup removes expired runs every interval until ctx is done.
func (s *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.removeExpired()
			}
		}
	}()
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.runs {
		if s.expired(e, now) {
			delete(s.runs, id)
		}
	}
}

func (s *MemoryStore) expired(e memoryEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}
