package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// Storage is the narrow persistence surface for cart snapshots. Load returns
// (nil, nil) when no snapshot exists for the session.
type Storage interface {
	Load(ctx context.Context, sessionID string) (*Cart, error)
	Save(ctx context.Context, sessionID string, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
}

type snapshotStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// RedisStorage persists cart snapshots as JSON under a fixed namespaced key
// per session.
type RedisStorage struct {
	client snapshotStore
	ttl    time.Duration
}

// NewRedisStorage builds the redis-backed snapshot storage.
func NewRedisStorage(client *redis.Client, ttl time.Duration) (*RedisStorage, error) {
	if client == nil {
		return nil, errors.New("redis client required")
	}
	return &RedisStorage{client: client, ttl: ttl}, nil
}

func (s *RedisStorage) Load(ctx context.Context, sessionID string) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cart snapshot: %w", err)
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("parse cart snapshot: %w", err)
	}
	return &Cart{Items: items}, nil
}

func (s *RedisStorage) Save(ctx context.Context, sessionID string, cart *Cart) error {
	if cart == nil {
		cart = &Cart{}
	}
	items := cart.Items
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serialize cart snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(sessionID), string(payload), s.ttl); err != nil {
		return fmt.Errorf("write cart snapshot: %w", err)
	}
	return nil
}

func (s *RedisStorage) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID)); err != nil {
		return fmt.Errorf("delete cart snapshot: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage used by tests and local runs
// without Redis.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]LineItem
}

// NewMemoryStorage builds an empty in-memory snapshot store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]LineItem)}
}

func (s *MemoryStorage) Load(_ context.Context, sessionID string) (*Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.carts[sessionID]
	if !ok {
		return nil, nil
	}
	copied := make([]LineItem, len(items))
	copy(copied, items)
	return &Cart{Items: copied}, nil
}

func (s *MemoryStorage) Save(_ context.Context, sessionID string, cart *Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart == nil {
		s.carts[sessionID] = nil
		return nil
	}
	copied := make([]LineItem, len(cart.Items))
	copy(copied, cart.Items)
	s.carts[sessionID] = copied
	return nil
}

func (s *MemoryStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}
