package cache

import (
	"fmt"

	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the key-value backed stores of the service
type Stores struct {
	SessionCarts cart.SessionStore
	Idempotency  shared.IdempotencyStore
	// Client is nil when running on in-memory stores
	Client *redis.Client
}

// Close releases the idempotency store and the Redis client
func (s *Stores) Close() error {
	_ = s.Idempotency.Close()
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// FactoryOption is a functional option for NewStores
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory stores. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewStores builds Redis-backed stores when Redis is enabled and reachable,
// in-memory stores otherwise
func NewStores(redisCfg config.RedisConfig, sessionCfg config.SessionConfig, opts ...FactoryOption) (*Stores, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if redisCfg.Enabled {
		client, err := NewRedisClient(redisCfg)
		if err == nil {
			f.logger.Info("Using Redis session and idempotency stores", zap.String("addr", redisCfg.Addr()))
			return &Stores{
				SessionCarts: NewRedisSessionCartStore(client, sessionCfg.CartTTL),
				Idempotency:  NewRedisIdempotencyStore(client, ""),
				Client:       client,
			}, nil
		}
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory stores; carts and webhook de-duplication are per instance",
			zap.Error(err))
	}

	return &Stores{
		SessionCarts: NewInMemorySessionCartStore(sessionCfg.CartTTL),
		Idempotency:  NewInMemoryIdempotencyStore(),
	}, nil
}
