package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSort is the storefront listing order
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceLow  ProductSort = "price_low"
	SortPriceHigh ProductSort = "price_high"
	SortName      ProductSort = "name"
)

// IsValid reports whether s is a known sort key
func (s ProductSort) IsValid() bool {
	switch s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortName:
		return true
	}
	return false
}

// ProductQuery filters the product listing
type ProductQuery struct {
	CategorySlug  string
	Search        string
	Sort          ProductSort
	FeaturedOnly  bool
	OnlyAvailable bool
	Page          int
	PageSize      int
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	// FindAll returns categories ordered by name; limit <= 0 means no limit
	FindAll(ctx context.Context, activeOnly bool, limit int) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductRepository persists products with their images and variants
type ProductRepository interface {
	// FindByID loads the product with category, variants and images
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	// FindBySlug loads the product with category, variants and images
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	// Search returns one page of products (with images) and the total count
	Search(ctx context.Context, query ProductQuery) ([]Product, int64, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetAllPrices sets the base price of every product and clears variant overrides
	SetAllPrices(ctx context.Context, price decimal.Decimal) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// VariantRepository persists variants and owns stock mutation
type VariantRepository interface {
	// FindByID loads the variant with its parent product
	FindByID(ctx context.Context, id uuid.UUID) (*Variant, error)
	// FindByIDs loads variants (with products) by id; missing ids are skipped
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Variant, error)
	Save(ctx context.Context, variant *Variant) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DecrementStock atomically subtracts qty if at least qty is in stock.
	// Returns shared.ErrInsufficientStock otherwise; stock is never read then written.
	DecrementStock(ctx context.Context, id uuid.UUID, qty int) error
	// FindLowStock lists variants with stock below threshold, lowest first
	FindLowStock(ctx context.Context, threshold, limit int) ([]Variant, error)
}

// ImageRepository persists product images
type ImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Image, error)
	Save(ctx context.Context, image *Image) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearPrimary unsets the primary flag on all images of a product
	ClearPrimary(ctx context.Context, productID uuid.UUID) error
}
