package cart

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessionEntry is an anonymous cart line with the price seen when it was added
type SessionEntry struct {
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SessionCart is the anonymous cart keyed by variant id string
type SessionCart map[string]SessionEntry

// Key returns the map key for a variant
func Key(variantID uuid.UUID) string {
	return variantID.String()
}

// Quantity returns the current quantity for a variant, 0 when absent
func (s SessionCart) Quantity(variantID uuid.UUID) int {
	return s[Key(variantID)].Quantity
}

// VariantIDs returns the parseable variant ids in ascending order
func (s SessionCart) VariantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for k := range s {
		id, err := uuid.Parse(k)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// Fold applies fn to every entry in variant-id order and stops at the first error.
// Entries whose key is not a variant id are skipped.
func (s SessionCart) Fold(fn func(variantID uuid.UUID, entry SessionEntry) error) error {
	for _, id := range s.VariantIDs() {
		if err := fn(id, s[Key(id)]); err != nil {
			return err
		}
	}
	return nil
}

// MergedQuantity is the quantity a user line holds after folding a session entry
// into it: the sum, capped at stock.
func MergedQuantity(userQty, sessionQty, stock int) int {
	q := userQty + sessionQty
	if q > stock {
		q = stock
	}
	if q < 0 {
		q = 0
	}
	return q
}
