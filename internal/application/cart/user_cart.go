package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// userCart is the persisted cart of a signed-in user. Increments run as a
// single upsert so concurrent tabs cannot lose updates.
type userCart struct {
	userID   uuid.UUID
	repo     cart.Repository
	variants catalog.VariantRepository
}

var _ Cart = (*userCart)(nil)

func (c *userCart) Add(ctx context.Context, variantID uuid.UUID, qty int, override bool) (*Result, error) {
	if err := cart.ValidateAddQuantity(qty); err != nil {
		return nil, err
	}
	v, err := c.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	if !v.IsAvailable() {
		current, err := c.currentQuantity(ctx, variantID)
		if err != nil {
			return nil, err
		}
		return addedResult(variantID, current, cart.OutcomeOutOfStock, 0), nil
	}

	if override {
		target, outcome := cart.ResolveAdd(0, qty, true, v.Stock)
		if err := c.repo.SetQuantity(ctx, c.userID, variantID, target); err != nil {
			return nil, err
		}
		return addedResult(variantID, target, outcome, v.Stock), nil
	}

	quantity, clamped, err := c.repo.Increment(ctx, c.userID, variantID, qty, v.Stock)
	if err != nil {
		return nil, err
	}
	outcome := cart.OutcomeAdded
	if clamped {
		outcome = cart.OutcomeClamped
	}
	return addedResult(variantID, quantity, outcome, v.Stock), nil
}

func (c *userCart) currentQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	item, err := c.repo.FindItem(ctx, c.userID, variantID)
	if err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return 0, err
	}
	return item.Quantity, nil
}

func (c *userCart) Remove(ctx context.Context, variantID uuid.UUID) (*Result, error) {
	removed, err := c.repo.RemoveItem(ctx, c.userID, variantID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return &Result{Outcome: cart.OutcomeNotFound, VariantID: variantID}, nil
	}
	return &Result{Outcome: cart.OutcomeRemoved, VariantID: variantID, Message: "Item removed from cart."}, nil
}

func (c *userCart) UpdateQuantity(ctx context.Context, variantID uuid.UUID, qty int) (*Result, error) {
	if qty <= 0 {
		return c.Remove(ctx, variantID)
	}
	if _, err := c.repo.FindItem(ctx, c.userID, variantID); err != nil {
		if isNotFound(err) {
			return &Result{Outcome: cart.OutcomeNotFound, VariantID: variantID}, nil
		}
		return nil, err
	}
	v, err := c.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	target, outcome, err := cart.ResolveUpdate(qty, v.Stock)
	if err != nil {
		return nil, err
	}
	if err := c.repo.SetQuantity(ctx, c.userID, variantID, target); err != nil {
		return nil, err
	}
	return &Result{Outcome: outcome, VariantID: variantID, Quantity: target, Message: "Cart updated."}, nil
}

func (c *userCart) Clear(ctx context.Context) error {
	return c.repo.Clear(ctx, c.userID)
}

// Items prices every line at the variant's current effective price
func (c *userCart) Items(ctx context.Context) ([]cart.Line, error) {
	items, err := c.repo.FindItems(ctx, c.userID)
	if err != nil {
		return nil, err
	}
	lines := make([]cart.Line, 0, len(items))
	for _, it := range items {
		if it.Variant == nil {
			continue
		}
		lines = append(lines, cart.Line{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.Variant.EffectivePrice(),
			Variant:   it.Variant,
		})
	}
	return lines, nil
}

func (c *userCart) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	return totalPrice(ctx, c)
}

func (c *userCart) TotalItemCount(ctx context.Context) (int, error) {
	return totalItemCount(ctx, c)
}
