package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// sessionCart keeps lines in the session store with the price seen when the
// line was first added. Concurrent writers are last-writer-wins.
type sessionCart struct {
	sessionID string
	store     cart.SessionStore
	variants  catalog.VariantRepository
}

var _ Cart = (*sessionCart)(nil)

func (c *sessionCart) load(ctx context.Context) (cart.SessionCart, error) {
	if c.sessionID == "" {
		return cart.SessionCart{}, nil
	}
	s, err := c.store.Load(ctx, c.sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session cart: %w", err)
	}
	if s == nil {
		s = cart.SessionCart{}
	}
	return s, nil
}

func (c *sessionCart) save(ctx context.Context, s cart.SessionCart) error {
	if c.sessionID == "" {
		return shared.NewDomainError(shared.CodeValidation, "A session is required to use the cart")
	}
	if err := c.store.Save(ctx, c.sessionID, s); err != nil {
		return fmt.Errorf("save session cart: %w", err)
	}
	return nil
}

func (c *sessionCart) Add(ctx context.Context, variantID uuid.UUID, qty int, override bool) (*Result, error) {
	if err := cart.ValidateAddQuantity(qty); err != nil {
		return nil, err
	}
	v, err := c.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	current := s.Quantity(variantID)
	if !v.IsAvailable() {
		return addedResult(variantID, current, cart.OutcomeOutOfStock, 0), nil
	}

	target, outcome := cart.ResolveAdd(current, qty, override, v.Stock)
	entry, ok := s[cart.Key(variantID)]
	if !ok {
		entry.Price = v.EffectivePrice()
	}
	entry.Quantity = target
	s[cart.Key(variantID)] = entry
	if err := c.save(ctx, s); err != nil {
		return nil, err
	}
	return addedResult(variantID, target, outcome, v.Stock), nil
}

func (c *sessionCart) Remove(ctx context.Context, variantID uuid.UUID) (*Result, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := s[cart.Key(variantID)]; !ok {
		return &Result{Outcome: cart.OutcomeNotFound, VariantID: variantID}, nil
	}
	delete(s, cart.Key(variantID))
	if err := c.save(ctx, s); err != nil {
		return nil, err
	}
	return &Result{Outcome: cart.OutcomeRemoved, VariantID: variantID, Message: "Item removed from cart."}, nil
}

func (c *sessionCart) UpdateQuantity(ctx context.Context, variantID uuid.UUID, qty int) (*Result, error) {
	if qty <= 0 {
		return c.Remove(ctx, variantID)
	}
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	entry, ok := s[cart.Key(variantID)]
	if !ok {
		return &Result{Outcome: cart.OutcomeNotFound, VariantID: variantID}, nil
	}
	v, err := c.variants.FindByID(ctx, variantID)
	if err != nil {
		return nil, err
	}
	target, outcome, err := cart.ResolveUpdate(qty, v.Stock)
	if err != nil {
		return nil, err
	}
	entry.Quantity = target
	s[cart.Key(variantID)] = entry
	if err := c.save(ctx, s); err != nil {
		return nil, err
	}
	return &Result{Outcome: outcome, VariantID: variantID, Quantity: target, Message: "Cart updated."}, nil
}

func (c *sessionCart) Clear(ctx context.Context) error {
	if c.sessionID == "" {
		return nil
	}
	return c.store.Delete(ctx, c.sessionID)
}

func (c *sessionCart) Items(ctx context.Context) ([]cart.Line, error) {
	s, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	ids := s.VariantIDs()
	if len(ids) == 0 {
		return []cart.Line{}, nil
	}
	variants, err := c.variants.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Variant, len(variants))
	for i := range variants {
		byID[variants[i].ID] = &variants[i]
	}

	lines := make([]cart.Line, 0, len(ids))
	for _, id := range ids {
		v, ok := byID[id]
		if !ok {
			continue
		}
		entry := s[cart.Key(id)]
		lines = append(lines, cart.Line{
			VariantID: id,
			Quantity:  entry.Quantity,
			UnitPrice: entry.Price,
			Variant:   v,
		})
	}
	return lines, nil
}

func (c *sessionCart) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	return totalPrice(ctx, c)
}

func (c *sessionCart) TotalItemCount(ctx context.Context) (int, error) {
	return totalItemCount(ctx, c)
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
