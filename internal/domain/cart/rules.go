package cart

import (
	"fmt"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

// Outcome tells the caller what a cart mutation did
type Outcome string

const (
	OutcomeAdded      Outcome = "added"
	OutcomeClamped    Outcome = "clamped"
	OutcomeOutOfStock Outcome = "out_of_stock"
	OutcomeUpdated    Outcome = "updated"
	OutcomeRemoved    Outcome = "removed"
	OutcomeNotFound   Outcome = "not_found"
	OutcomeCleared    Outcome = "cleared"
)

// ResolveAdd computes the quantity a line should hold after an add.
// override replaces the current quantity instead of incrementing it.
// The result never exceeds stock; OutcomeClamped reports that it was capped.
func ResolveAdd(current, requested int, override bool, stock int) (int, Outcome) {
	if stock <= 0 {
		return current, OutcomeOutOfStock
	}
	target := requested
	if !override {
		target = current + requested
	}
	if target > stock {
		return stock, OutcomeClamped
	}
	return target, OutcomeAdded
}

// ResolveUpdate validates an explicit quantity change.
// A quantity <= 0 means remove; more than stock is rejected unchanged.
func ResolveUpdate(requested, stock int) (int, Outcome, error) {
	if requested <= 0 {
		return 0, OutcomeRemoved, nil
	}
	if requested > stock {
		return 0, "", NewInsufficientStockError(stock)
	}
	return requested, OutcomeUpdated, nil
}

// ValidateAddQuantity rejects non-positive add requests
func ValidateAddQuantity(qty int) error {
	if qty < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	return nil
}

// NewInsufficientStockError reports how many units remain
func NewInsufficientStockError(available int) *shared.DomainError {
	return shared.NewDomainError(shared.CodeInsufficientStock, fmt.Sprintf("Only %d items available.", available))
}

// ClampedMessage is shown when an add was capped at stock
func ClampedMessage(available int) string {
	return fmt.Sprintf("Maximum stock reached. Only %d items available.", available)
}
