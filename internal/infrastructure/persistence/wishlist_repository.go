package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/domain/wishlist"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormWishlistRepository implements wishlist.Repository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// GetOrCreate returns the user's wishlist, creating it on first use
func (r *GormWishlistRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*wishlist.Wishlist, error) {
	db := r.db.WithContext(ctx)
	candidate := &models.WishlistModel{UserID: userID}
	candidate.SetEntity(shared.NewBaseEntity())
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return nil, err
	}
	var m models.WishlistModel
	if err := db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// Items returns saved products, newest first
func (r *GormWishlistRepository) Items(ctx context.Context, wishlistID uuid.UUID) ([]wishlist.Item, error) {
	var rows []models.WishlistItemModel
	err := r.db.WithContext(ctx).
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, sort_order ASC") }).
		Where("wishlist_id = ?", wishlistID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]wishlist.Item, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, nil
}

// Add saves a product; saving it twice keeps one row
func (r *GormWishlistRepository) Add(ctx context.Context, wishlistID, productID uuid.UUID) error {
	item := &models.WishlistItemModel{
		ID:         uuid.New(),
		WishlistID: wishlistID,
		ProductID:  productID,
		CreatedAt:  time.Now().UTC(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "wishlist_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(item).Error
}

// Remove deletes a saved product and reports whether it was there
func (r *GormWishlistRepository) Remove(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Delete(&models.WishlistItemModel{})
	return result.RowsAffected > 0, result.Error
}

// Contains reports whether a product is saved
func (r *GormWishlistRepository) Contains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WishlistItemModel{}).
		Where("wishlist_id = ? AND product_id = ?", wishlistID, productID).
		Count(&count).Error
	return count > 0, err
}

var _ wishlist.Repository = (*GormWishlistRepository)(nil)
