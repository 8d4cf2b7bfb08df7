package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/Ahmed-Mansy/shoe-zone-online/pkg/errors"
)

// Store persists cart mirrors per session.
type Store interface {
	// Get retrieves the mirror for a session.
	Get(ctx context.Context, sessionID string) (*Mirror, error)

	// Save persists the mirror for a session.
	Save(ctx context.Context, sessionID string, m *Mirror) error

	// Delete removes the mirror for a session.
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore implements Store with an in-process map.
type MemoryStore struct {
	mu      sync.RWMutex
	mirrors map[string]*Mirror
}

// NewMemoryStore creates an in-memory mirror store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mirrors: make(map[string]*Mirror)}
}

// Get retrieves the mirror for a session.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*Mirror, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.mirrors[sessionID]
	if !ok {
		return nil, apperrors.NotFound("cart mirror", sessionID)
	}

	cp := *m
	cp.Items = append([]LineItem(nil), m.Items...)
	return &cp, nil
}

// Save persists the mirror for a session.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, m *Mirror) error {
	cp := *m
	cp.Items = append([]LineItem(nil), m.Items...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirrors[sessionID] = &cp
	return nil
}

// Delete removes the mirror for a session.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mirrors, sessionID)
	return nil
}

const redisKeyPrefix = "cart-mirror:"

// RedisStore implements Store using Redis, sharing the deployment story of
// the Redis session store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed mirror store.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get retrieves the mirror for a session from Redis.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Mirror, error) {
	data, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, apperrors.NotFound("cart mirror", sessionID)
		}
		return nil, fmt.Errorf("redis get cart mirror: %w", err)
	}

	var m Mirror
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal cart mirror: %w", err)
	}
	return &m, nil
}

// Save persists the mirror for a session to Redis.
func (s *RedisStore) Save(ctx context.Context, sessionID string, m *Mirror) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal cart mirror: %w", err)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart mirror: %w", err)
	}
	return nil
}

// Delete removes the mirror for a session from Redis.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart mirror: %w", err)
	}
	return nil
}
