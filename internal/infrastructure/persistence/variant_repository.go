package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var errVariantNotFound = shared.NewDomainError(shared.CodeNotFound, "Product variant not found")

// GormVariantRepository implements catalog.VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID loads a variant with its product
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	var m models.VariantModel
	if err := r.db.WithContext(ctx).Preload("Product").First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errVariantNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByIDs loads variants with their products; unknown ids are skipped
func (r *GormVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.VariantModel
	if err := r.db.WithContext(ctx).Preload("Product").Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Variant, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates a variant
func (r *GormVariantRepository) Save(ctx context.Context, variant *catalog.Variant) error {
	err := r.db.WithContext(ctx).Omit("Product").Save(models.VariantModelFromDomain(variant)).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "This product already has a variant with that size and color")
	}
	return err
}

// Delete deletes a variant
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.VariantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errVariantNotFound
	}
	return nil
}

// DecrementStock subtracts qty in a single conditional UPDATE, so two
// concurrent decrements can never take stock below zero.
func (r *GormVariantRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	result := r.db.WithContext(ctx).
		Model(&models.VariantModel{}).
		Where("id = ? AND stock >= ?", id, qty).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var stock int
	err := r.db.WithContext(ctx).Model(&models.VariantModel{}).Select("stock").Where("id = ?", id).Scan(&stock).Error
	if err != nil {
		return err
	}
	return shared.WrapDomainError(shared.CodeInsufficientStock,
		fmt.Sprintf("Only %d items available.", stock),
		fmt.Errorf("variant %s: requested %d", id, qty))
}

// FindLowStock lists variants below the threshold, lowest stock first
func (r *GormVariantRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Variant, error) {
	var rows []models.VariantModel
	query := r.db.WithContext(ctx).Preload("Product").
		Where("stock < ?", threshold).
		Order("stock ASC, created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Variant, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
