package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errCategoryNotFound = shared.NewDomainError(shared.CodeNotFound, "Category not found")

// GormCategoryRepository stores catalog categories.
type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	m, err := first[models.CategoryModel](ctx, r.db, errCategoryNotFound, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindBySlug backs the /categories/:slug storefront route.
func (r *GormCategoryRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Category, error) {
	m, err := first[models.CategoryModel](ctx, r.db, errCategoryNotFound, "slug = ?", slug)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll lists categories alphabetically. A non-positive limit means no limit.
func (r *GormCategoryRepository) FindAll(ctx context.Context, activeOnly bool, limit int) ([]catalog.Category, error) {
	var rows []models.CategoryModel
	err := r.db.WithContext(ctx).
		Scopes(func(q *gorm.DB) *gorm.DB {
			if activeOnly {
				q = q.Where("active = ?", true)
			}
			if limit > 0 {
				q = q.Limit(limit)
			}
			return q
		}).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Category, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Save upserts by primary key; a slug collision surfaces as CodeAlreadyExists.
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	err := r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "A category with this slug already exists")
	}
	return err
}

func (r *GormCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return requireAffected(r.db.WithContext(ctx).Delete(&models.CategoryModel{}, "id = ?", id), errCategoryNotFound)
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
