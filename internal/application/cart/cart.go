// Package cart implements the shopping cart for anonymous sessions and
// signed-in users behind one interface.
package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// Identity is who is shopping. A non-nil UserID selects the persisted cart;
// otherwise the session cart keyed by SessionID is used.
type Identity struct {
	SessionID string
	UserID    uuid.UUID
}

// IsAuthenticated reports whether the identity carries a user
func (i Identity) IsAuthenticated() bool {
	return i.UserID != uuid.Nil
}

// Result is the outcome of a cart mutation
type Result struct {
	Outcome   cart.Outcome `json:"outcome"`
	VariantID uuid.UUID    `json:"variant_id"`
	Quantity  int          `json:"quantity"`
	Message   string       `json:"message,omitempty"`
}

// Cart is implemented by the session cart and the user cart
type Cart interface {
	// Add puts qty units in the cart (or sets the quantity when override is
	// true), clamped to the variant's stock
	Add(ctx context.Context, variantID uuid.UUID, qty int, override bool) (*Result, error)
	// Remove deletes a line; an absent line is reported as not_found
	Remove(ctx context.Context, variantID uuid.UUID) (*Result, error)
	// UpdateQuantity sets a line's quantity; qty <= 0 removes it
	UpdateQuantity(ctx context.Context, variantID uuid.UUID, qty int) (*Result, error)
	Clear(ctx context.Context) error
	// Items returns the priced lines; lines whose variant vanished are skipped
	Items(ctx context.Context) ([]cart.Line, error)
	TotalPrice(ctx context.Context) (decimal.Decimal, error)
	TotalItemCount(ctx context.Context) (int, error)
}

func totalPrice(ctx context.Context, c Cart) (decimal.Decimal, error) {
	lines, err := c.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	_, total := cart.Totals(lines)
	return total, nil
}

func totalItemCount(ctx context.Context, c Cart) (int, error) {
	lines, err := c.Items(ctx)
	if err != nil {
		return 0, err
	}
	count, _ := cart.Totals(lines)
	return count, nil
}

func addedResult(variantID uuid.UUID, qty int, outcome cart.Outcome, stock int) *Result {
	r := &Result{Outcome: outcome, VariantID: variantID, Quantity: qty}
	switch outcome {
	case cart.OutcomeClamped:
		r.Message = cart.ClampedMessage(stock)
	case cart.OutcomeOutOfStock:
		r.Message = "This item is out of stock."
	case cart.OutcomeAdded:
		r.Message = "Item added to cart."
	}
	return r
}
