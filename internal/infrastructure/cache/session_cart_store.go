package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

const sessionCartPrefix = "storefront:cart:"

// RedisSessionCartStore keeps anonymous carts as JSON values with a sliding TTL
type RedisSessionCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionCartStore creates a session cart store on a Redis client
func NewRedisSessionCartStore(client *redis.Client, ttl time.Duration) *RedisSessionCartStore {
	return &RedisSessionCartStore{client: client, ttl: ttl}
}

// Load returns the session cart, empty when none exists
func (s *RedisSessionCartStore) Load(ctx context.Context, sessionID string) (cart.SessionCart, error) {
	raw, err := s.client.Get(ctx, sessionCartPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return cart.SessionCart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session cart: %w", err)
	}
	sc := cart.SessionCart{}
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, fmt.Errorf("failed to decode session cart: %w", err)
	}
	return sc, nil
}

// Save replaces the session cart; an empty cart deletes the key
func (s *RedisSessionCartStore) Save(ctx context.Context, sessionID string, sc cart.SessionCart) error {
	if len(sc) == 0 {
		return s.Delete(ctx, sessionID)
	}
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode session cart: %w", err)
	}
	if err := s.client.Set(ctx, sessionCartPrefix+sessionID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session cart: %w", err)
	}
	return nil
}

// Delete removes the session cart
func (s *RedisSessionCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionCartPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete session cart: %w", err)
	}
	return nil
}

var _ cart.SessionStore = (*RedisSessionCartStore)(nil)

type sessionCartEntry struct {
	cart      cart.SessionCart
	expiresAt time.Time
}

// InMemorySessionCartStore keeps anonymous carts in process memory
type InMemorySessionCartStore struct {
	mu    sync.Mutex
	carts map[string]sessionCartEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewInMemorySessionCartStore creates an in-memory session cart store
func NewInMemorySessionCartStore(ttl time.Duration) *InMemorySessionCartStore {
	return &InMemorySessionCartStore{
		carts: make(map[string]sessionCartEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns a copy of the session cart, empty when none exists or expired
func (s *InMemorySessionCartStore) Load(_ context.Context, sessionID string) (cart.SessionCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.carts[sessionID]
	if !ok {
		return cart.SessionCart{}, nil
	}
	if s.ttl > 0 && !s.now().Before(e.expiresAt) {
		delete(s.carts, sessionID)
		return cart.SessionCart{}, nil
	}
	out := make(cart.SessionCart, len(e.cart))
	for k, v := range e.cart {
		out[k] = v
	}
	return out, nil
}

// Save replaces the session cart; an empty cart deletes it
func (s *InMemorySessionCartStore) Save(_ context.Context, sessionID string, sc cart.SessionCart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(sc) == 0 {
		delete(s.carts, sessionID)
		return nil
	}
	stored := make(cart.SessionCart, len(sc))
	for k, v := range sc {
		stored[k] = v
	}
	s.carts[sessionID] = sessionCartEntry{cart: stored, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Delete removes the session cart
func (s *InMemorySessionCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

var _ cart.SessionStore = (*InMemorySessionCartStore)(nil)
