package cart

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAdd(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		req      int
		override bool
		stock    int
		wantQty  int
		want     Outcome
	}{
		{"new line within stock", 0, 3, false, 5, 3, OutcomeAdded},
		{"increment clamps to stock", 3, 4, false, 5, 5, OutcomeClamped},
		{"override replaces", 3, 2, true, 5, 2, OutcomeAdded},
		{"override clamps", 1, 9, true, 5, 5, OutcomeClamped},
		{"exactly stock is not clamped", 2, 3, false, 5, 5, OutcomeAdded},
		{"no stock leaves cart unchanged", 2, 1, false, 0, 2, OutcomeOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qty, outcome := ResolveAdd(tt.current, tt.req, tt.override, tt.stock)
			assert.Equal(t, tt.wantQty, qty)
			assert.Equal(t, tt.want, outcome)
			if outcome != OutcomeOutOfStock {
				assert.LessOrEqual(t, qty, tt.stock)
			}
		})
	}
}

func TestResolveUpdate(t *testing.T) {
	qty, outcome, err := ResolveUpdate(0, 5)
	require.NoError(t, err)
	assert.Equal(t, 0, qty)
	assert.Equal(t, OutcomeRemoved, outcome)

	qty, outcome, err = ResolveUpdate(4, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, qty)
	assert.Equal(t, OutcomeUpdated, outcome)

	_, _, err = ResolveUpdate(6, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrInsufficientStock))
	assert.Equal(t, "Only 5 items available.", err.Error())
}

func TestValidateAddQuantity(t *testing.T) {
	assert.NoError(t, ValidateAddQuantity(1))
	err := ValidateAddQuantity(0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrValidation))
}

func TestSessionCart_Fold(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := SessionCart{
		Key(a):    {Quantity: 2, Price: decimal.NewFromInt(10)},
		Key(b):    {Quantity: 1, Price: decimal.NewFromInt(20)},
		"garbage": {Quantity: 7},
	}

	seen := map[uuid.UUID]int{}
	err := s.Fold(func(id uuid.UUID, e SessionEntry) error {
		seen[id] = e.Quantity
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]int{a: 2, b: 1}, seen)

	stop := errors.New("stop")
	calls := 0
	err = s.Fold(func(uuid.UUID, SessionEntry) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestMergedQuantity(t *testing.T) {
	assert.Equal(t, 5, MergedQuantity(2, 3, 10))
	assert.Equal(t, 4, MergedQuantity(2, 3, 4))
	assert.Equal(t, 0, MergedQuantity(1, 1, 0))
}

func TestTotals_SkipsStaleLines(t *testing.T) {
	v := &catalog.Variant{}
	lines := []Line{
		{Quantity: 2, UnitPrice: decimal.RequireFromString("12.50"), Variant: v},
		{Quantity: 1, UnitPrice: decimal.NewFromInt(99)},
		{Quantity: 3, UnitPrice: decimal.NewFromInt(5), Variant: v},
	}
	count, total := Totals(lines)
	assert.Equal(t, 5, count)
	assert.True(t, total.Equal(decimal.NewFromInt(40)))
}
