package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

type memoryEntry struct {
	sess      *Session
	expiresAt time.Time
}

// MemoryStore implements Store with an in-process map. Sessions expire after
// the configured TTL and are evicted lazily on Get plus by a background sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	nowFunc func() time.Time // injectable clock for testing
	done    chan struct{}
}

// NewMemoryStore creates an in-memory session store with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		nowFunc: time.Now,
		done:    make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

// Get retrieves a session by ID, returning a not-found error for missing or
// expired sessions.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.nowFunc().After(entry.expiresAt) {
		return nil, apperrors.NotFound("session", id)
	}

	// Return a copy so callers cannot mutate the stored session.
	sess := *entry.sess
	return &sess, nil
}

// Set persists a session with a fresh TTL.
func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	cp := *sess

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = memoryEntry{
		sess:      &cp,
		expiresAt: s.nowFunc().Add(s.ttl),
	}
	return nil
}

// Clear removes a session. Missing sessions are ignored.
func (s *MemoryStore) Clear(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Close stops the background sweep goroutine.
func (s *MemoryStore) Close() {
	close(s.done)
}

func (s *MemoryStore) sweepLoop() {
	interval := s.ttl
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *MemoryStore) sweep() {
	now := s.nowFunc()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
