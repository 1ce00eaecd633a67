package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

const revokedKeyPrefix = "token:revoked:"

// TokenBlacklist revokes access tokens before they expire (logout)
type TokenBlacklist interface {
	// AddToBlacklist revokes a token's JTI for ttl (its remaining lifetime)
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// StoreBlacklist keeps revoked JTIs in the TTL key store that also
// de-duplicates webhooks, so revocations live in Redis when it is enabled
type StoreBlacklist struct {
	keys shared.IdempotencyStore
}

// NewTokenBlacklist creates a blacklist on keys
func NewTokenBlacklist(keys shared.IdempotencyStore) *StoreBlacklist {
	return &StoreBlacklist{keys: keys}
}

// AddToBlacklist revokes jti. Tokens that already expired need no entry.
func (b *StoreBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if _, err := b.keys.MarkProcessed(ctx, revokedKeyPrefix+jti, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsBlacklisted reports whether jti was revoked and the entry is still live
func (b *StoreBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	revoked, err := b.keys.IsProcessed(ctx, revokedKeyPrefix+jti)
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return revoked, nil
}

var _ TokenBlacklist = (*StoreBlacklist)(nil)
