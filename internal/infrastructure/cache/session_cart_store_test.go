package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemorySessionCartStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionCartStore(time.Hour)
	variantID := uuid.New()

	empty, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	sc := cart.SessionCart{cart.Key(variantID): {Quantity: 2, Price: decimal.NewFromInt(150)}}
	require.NoError(t, store.Save(ctx, "sess-1", sc))

	loaded, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Quantity(variantID))
	assert.True(t, loaded[cart.Key(variantID)].Price.Equal(decimal.NewFromInt(150)))

	// the stored copy is isolated from the caller's map
	loaded[cart.Key(variantID)] = cart.SessionEntry{Quantity: 9}
	again, _ := store.Load(ctx, "sess-1")
	assert.Equal(t, 2, again.Quantity(variantID))
}

func TestInMemorySessionCartStore_EmptySaveDeletes(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionCartStore(time.Hour)
	require.NoError(t, store.Save(ctx, "sess", cart.SessionCart{"x": {Quantity: 1}}))

	require.NoError(t, store.Save(ctx, "sess", cart.SessionCart{}))

	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestInMemorySessionCartStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionCartStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, "sess", cart.SessionCart{"x": {Quantity: 1}}))
	now = now.Add(2 * time.Minute)

	loaded, err := store.Load(ctx, "sess")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestInMemorySessionCartStore_Delete(t *testing.T) {
	ctx := context.Background()
	store := NewInMemorySessionCartStore(time.Hour)
	require.NoError(t, store.Save(ctx, "sess", cart.SessionCart{"x": {Quantity: 1}}))
	require.NoError(t, store.Delete(ctx, "sess"))
	require.NoError(t, store.Delete(ctx, "never-existed"))

	loaded, _ := store.Load(ctx, "sess")
	assert.Empty(t, loaded)
}
