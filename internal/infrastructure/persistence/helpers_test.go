package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"github.com/mbvogue/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.NewSQLiteDB(t, models.All()...)
}

// seedVariant stores a category, an available product and one variant
func seedVariant(t *testing.T, db *gorm.DB, price string, stock int) *catalog.Variant {
	t.Helper()
	ctx := context.Background()

	cat, err := catalog.NewCategory("Dresses "+uuid.NewString()[:8], "", "")
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(ctx, cat))

	p, err := catalog.NewProduct(cat.ID, "Ankara Dress "+uuid.NewString()[:8], "", "", decimal.RequireFromString(price))
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(ctx, p))

	v, err := catalog.NewVariant(p.ID, catalog.SizeM, catalog.ColorRed, stock, nil)
	require.NoError(t, err)
	require.NoError(t, NewGormVariantRepository(db).Save(ctx, v))
	v.Product = p
	return v
}

func seedUser(t *testing.T, db *gorm.DB) *identity.User {
	t.Helper()
	u, err := identity.NewUser(uuid.NewString()[:8]+"@example.com", "password123", "Ada Obi")
	require.NoError(t, err)
	require.NoError(t, NewGormUserRepository(db).Create(context.Background(), u))
	return u
}

func stockOf(t *testing.T, db *gorm.DB, id uuid.UUID) int {
	t.Helper()
	var stock int
	require.NoError(t, db.Model(&models.VariantModel{}).Select("stock").Where("id = ?", id).Scan(&stock).Error)
	return stock
}
