package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedFixture() []SeedCategory {
	return []SeedCategory{{
		Name: "Dresses",
		Products: []SeedProduct{
			{Name: "Ankara Maxi Dress", Price: decimal.NewFromInt(450), Featured: true,
				Sizes:  []catalog.Size{catalog.SizeS, catalog.SizeM},
				Colors: []catalog.Color{catalog.ColorRed, catalog.ColorBlue}, Stock: 3},
			{Name: "Kente Wrap Dress", Price: decimal.NewFromInt(520),
				Sizes: []catalog.Size{catalog.SizeL}, Colors: []catalog.Color{catalog.ColorYellow}, Stock: 1},
		},
	}}
}

func TestAdminService_Seed(t *testing.T) {
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		f := newCatalogFixture()
		f.categories.On("FindBySlug", ctx, "dresses").Return(nil, shared.ErrNotFound)
		f.categories.On("Save", ctx, mock.AnythingOfType("*catalog.Category")).Return(nil)
		f.products.On("FindBySlug", ctx, mock.AnythingOfType("string")).Return(nil, shared.ErrNotFound)
		var featured []string
		f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).
			Run(func(args mock.Arguments) {
				if p := args.Get(1).(*catalog.Product); p.Featured {
					featured = append(featured, p.Slug)
				}
			}).Return(nil)
		f.variants.On("Save", ctx, mock.AnythingOfType("*catalog.Variant")).Return(nil)

		res, err := f.admin().Seed(ctx, seedFixture())

		require.NoError(t, err)
		assert.Equal(t, SeedResult{Categories: 1, Products: 2, Variants: 5}, res)
		assert.Equal(t, []string{"ankara-maxi-dress"}, featured)
	})

	t.Run("already seeded", func(t *testing.T) {
		f := newCatalogFixture()
		f.categories.On("FindBySlug", ctx, "dresses").Return(&catalog.Category{Name: "Dresses", Slug: "dresses"}, nil)
		f.products.On("FindBySlug", ctx, mock.AnythingOfType("string")).Return(&catalog.Product{}, nil)

		res, err := f.admin().Seed(ctx, seedFixture())

		require.NoError(t, err)
		assert.Equal(t, SeedResult{}, res)
		f.categories.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure stops the run", func(t *testing.T) {
		f := newCatalogFixture()
		boom := errors.New("connection reset")
		f.categories.On("FindBySlug", ctx, "dresses").Return(nil, boom)

		_, err := f.admin().Seed(ctx, seedFixture())

		assert.ErrorIs(t, err, boom)
	})
}

func TestSampleCatalog_Valid(t *testing.T) {
	for _, c := range SampleCatalog() {
		_, err := catalog.NewCategory(c.Name, "", c.Description)
		require.NoError(t, err, c.Name)
		for _, p := range c.Products {
			assert.NotEmpty(t, p.Sizes, p.Name)
			assert.NotEmpty(t, p.Colors, p.Name)
			for _, s := range p.Sizes {
				assert.True(t, s.IsValid(), "%s size %s", p.Name, s)
			}
			for _, col := range p.Colors {
				assert.True(t, col.IsValid(), "%s color %s", p.Name, col)
			}
		}
	}
}
