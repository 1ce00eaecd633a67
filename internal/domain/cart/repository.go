package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists authenticated carts. All quantity arithmetic happens in
// the database so concurrent requests for the same user cannot lose updates.
type Repository interface {
	// GetOrCreate returns the user's cart, creating it on first use
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// FindItems returns the user's lines with variant and product loaded.
	// Lines whose variant was deleted are returned with a nil Variant.
	FindItems(ctx context.Context, userID uuid.UUID) ([]Item, error)
	// FindItem returns a single line or shared.ErrNotFound
	FindItem(ctx context.Context, userID, variantID uuid.UUID) (*Item, error)
	// Increment adds delta to a line, creating it if needed, and caps the
	// stored value at max. Returns the stored quantity and whether the cap applied.
	Increment(ctx context.Context, userID, variantID uuid.UUID, delta, max int) (int, bool, error)
	// SetQuantity stores an exact quantity, creating the line if needed
	SetQuantity(ctx context.Context, userID, variantID uuid.UUID, qty int) error
	// RemoveItem deletes a line and reports whether it existed
	RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (bool, error)
	// Clear deletes every line of the user's cart
	Clear(ctx context.Context, userID uuid.UUID) error
}

// SessionStore keeps anonymous carts keyed by session id
type SessionStore interface {
	// Load returns the session cart, empty when none exists
	Load(ctx context.Context, sessionID string) (SessionCart, error)
	Save(ctx context.Context, sessionID string, cart SessionCart) error
	Delete(ctx context.Context, sessionID string) error
}
