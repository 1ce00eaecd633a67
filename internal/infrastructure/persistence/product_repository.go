package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultProductPageSize = 12
	maxProductPageSize     = 100
)

var errProductNotFound = shared.NewDomainError(shared.CodeNotFound, "Product not found")

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("color ASC, created_at ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, sort_order ASC") })
}

// FindByID loads a product with category, variants and images
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.withDetails(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindBySlug loads a product with category, variants and images
func (r *GormProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var m models.ProductModel
	if err := r.withDetails(ctx).First(&m, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Search returns one page of products with their category and images
func (r *GormProductRepository) Search(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if q.OnlyAvailable {
		query = query.Where("products.available = ?", true)
	}
	if q.FeaturedOnly {
		query = query.Where("products.featured = ?", true)
	}
	if q.CategorySlug != "" {
		query = query.Where("products.category_id IN (?)",
			r.db.Model(&models.CategoryModel{}).Select("id").Where("slug = ?", q.CategorySlug))
	}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		query = query.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(q.Page, q.PageSize, defaultProductPageSize, maxProductPageSize)
	var rows []models.ProductModel
	err := query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, sort_order ASC") }).
		Order(productOrder(q.Sort)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]catalog.Product, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

func productOrder(sort catalog.ProductSort) string {
	switch sort {
	case catalog.SortPriceLow:
		return "products.price ASC, products.created_at DESC"
	case catalog.SortPriceHigh:
		return "products.price DESC, products.created_at DESC"
	case catalog.SortName:
		return "products.name ASC"
	default:
		return "products.created_at DESC"
	}
}

// Save creates or updates a product (associations are saved by their own repositories)
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	err := r.db.WithContext(ctx).Omit("Category", "Variants", "Images").Save(models.ProductModelFromDomain(product)).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A product with this slug already exists")
	}
	return err
}

// Delete removes a product with its variants and images
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ImageModel{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.VariantModel{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errProductNotFound
		}
		return nil
	})
}

// SetAllPrices sets every product's base price and clears variant price overrides
func (r *GormProductRepository) SetAllPrices(ctx context.Context, price decimal.Decimal) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		result := tx.Model(&models.ProductModel{}).
			Where("1 = 1").
			Updates(map[string]any{"price": price, "updated_at": now})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return tx.Model(&models.VariantModel{}).
			Where("price_override IS NOT NULL").
			Updates(map[string]any{"price_override": nil, "updated_at": now}).Error
	})
	return affected, err
}

// Count returns the number of products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.ProductModel{}).Count(&n).Error
	return n, err
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
