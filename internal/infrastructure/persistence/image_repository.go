package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errImageNotFound = shared.NewDomainError(shared.CodeNotFound, "Image not found")

// GormImageRepository implements catalog.ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByID finds an image by ID
func (r *GormImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Image, error) {
	var m models.ImageModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errImageNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates an image
func (r *GormImageRepository) Save(ctx context.Context, image *catalog.Image) error {
	return r.db.WithContext(ctx).Save(models.ImageModelFromDomain(image)).Error
}

// Delete deletes an image
func (r *GormImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ImageModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errImageNotFound
	}
	return nil
}

// ClearPrimary unsets the primary flag on all images of a product
func (r *GormImageRepository) ClearPrimary(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.ImageModel{}).
		Where("product_id = ? AND is_primary = ?", productID, true).
		Update("is_primary", false).Error
}

var _ catalog.ImageRepository = (*GormImageRepository)(nil)
