// Package wishlist keeps the products a customer saved for later.
package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

// ErrItemNotFound is returned when removing a product that is not saved
var ErrItemNotFound = shared.NewDomainError(shared.CodeNotFound, "Product is not in your wishlist")

// Wishlist belongs to exactly one user
type Wishlist struct {
	shared.BaseEntity
	UserID uuid.UUID
}

// Item is one saved product, unique per wishlist
type Item struct {
	ID         uuid.UUID
	WishlistID uuid.UUID
	ProductID  uuid.UUID
	Product    *catalog.Product
	CreatedAt  time.Time
}

// ToggleResult reports which way a toggle went
type ToggleResult string

const (
	Added   ToggleResult = "added"
	Removed ToggleResult = "removed"
)

// Repository persists wishlists
type Repository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*Wishlist, error)
	Items(ctx context.Context, wishlistID uuid.UUID) ([]Item, error)
	// Add is a no-op when the product is already saved
	Add(ctx context.Context, wishlistID, productID uuid.UUID) error
	// Remove reports whether a row was deleted
	Remove(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
	Contains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error)
}
