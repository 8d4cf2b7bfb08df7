package checkout

import (
	"sync"
	"time"

	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

type attemptEntry struct {
	attempt   *Attempt
	expiresAt time.Time
}

// Attempts keeps each session's active checkout attempt between the begin
// and submit requests. One attempt per session; starting a new checkout
// replaces the old one. Stale attempts are evicted lazily and by a sweep.
type Attempts struct {
	mu      sync.RWMutex
	entries map[string]attemptEntry
	ttl     time.Duration
	nowFunc func() time.Time
	done    chan struct{}
}

// NewAttempts creates an attempt store with the given TTL.
func NewAttempts(ttl time.Duration) *Attempts {
	a := &Attempts{
		entries: make(map[string]attemptEntry),
		ttl:     ttl,
		nowFunc: time.Now,
		done:    make(chan struct{}),
	}
	go a.sweepLoop()
	return a
}

// Get returns the session's active attempt.
func (a *Attempts) Get(sessionID string) (*Attempt, error) {
	a.mu.RLock()
	entry, ok := a.entries[sessionID]
	a.mu.RUnlock()

	if !ok || a.nowFunc().After(entry.expiresAt) {
		return nil, apperrors.NotFound("checkout attempt", sessionID)
	}
	return entry.attempt, nil
}

// Put stores the session's active attempt with a fresh TTL.
func (a *Attempts) Put(sessionID string, attempt *Attempt) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries[sessionID] = attemptEntry{
		attempt:   attempt,
		expiresAt: a.nowFunc().Add(a.ttl),
	}
}

// Drop removes the session's active attempt.
func (a *Attempts) Drop(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.entries, sessionID)
}

// Close stops the background sweep goroutine.
func (a *Attempts) Close() {
	close(a.done)
}

func (a *Attempts) sweepLoop() {
	interval := a.ttl
	if interval > time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			a.sweep()
		}
	}
}

func (a *Attempts) sweep() {
	now := a.nowFunc()

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, entry := range a.entries {
		if now.After(entry.expiresAt) {
			delete(a.entries, id)
		}
	}
}
