// Package cart models the shopping cart in its two storage shapes: the
// persisted per-user cart and the anonymous session map.
package cart

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Cart is the persisted cart of an authenticated user (one per user)
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID
	Items  []Item
}

// NewCart creates an empty cart for a user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
}

// Item is one variant line in a persisted cart; unique per (cart, variant)
type Item struct {
	shared.BaseEntity
	CartID    uuid.UUID
	VariantID uuid.UUID
	Quantity  int

	// Variant with its product, loaded for pricing
	Variant *catalog.Variant
}

// Line is the backend-neutral view of a cart entry
type Line struct {
	VariantID uuid.UUID       `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`

	// Variant is nil when the line refers to a variant that no longer exists
	Variant *catalog.Variant `json:"-"`
}

// Subtotal is unit price x quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals sums quantity and price across lines, skipping lines without a variant
func Totals(lines []Line) (count int, total decimal.Decimal) {
	total = decimal.Zero
	for _, l := range lines {
		if l.Variant == nil {
			continue
		}
		count += l.Quantity
		total = total.Add(l.Subtotal())
	}
	return count, total
}
