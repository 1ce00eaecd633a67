package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errCartItemNotFound = shared.NewDomainError(shared.CodeNotFound, "Item not found in cart")

// GormCartRepository implements cart.Repository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetOrCreate returns the user's cart, creating it on first use. Concurrent
// first calls converge on the same row through the unique user_id index.
func (r *GormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	m, err := getOrCreateCart(r.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func getOrCreateCart(db *gorm.DB, userID uuid.UUID) (*models.CartModel, error) {
	candidate := models.CartModelFromDomain(cart.NewCart(userID))
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(candidate).Error
	if err != nil {
		return nil, err
	}
	var m models.CartModel
	if err := db.Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func cartIDsOf(db *gorm.DB, userID uuid.UUID) *gorm.DB {
	return db.Model(&models.CartModel{}).Select("id").Where("user_id = ?", userID)
}

// FindItems returns the user's lines, oldest first
func (r *GormCartRepository) FindItems(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	db := r.db.WithContext(ctx)
	var rows []models.CartItemModel
	err := db.
		Preload("Variant.Product.Images", func(db *gorm.DB) *gorm.DB { return db.Order("is_primary DESC, sort_order ASC") }).
		Where("cart_id IN (?)", cartIDsOf(r.db, userID)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]cart.Item, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// FindItem returns a single line with its variant
func (r *GormCartRepository) FindItem(ctx context.Context, userID, variantID uuid.UUID) (*cart.Item, error) {
	var m models.CartItemModel
	err := r.db.WithContext(ctx).
		Preload("Variant.Product").
		Where("cart_id IN (?) AND variant_id = ?", cartIDsOf(r.db, userID), variantID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errCartItemNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Increment adds delta to the line in one upsert. The stored value is capped
// at max by the database, so two concurrent adds never exceed it.
func (r *GormCartRepository) Increment(ctx context.Context, userID, variantID uuid.UUID, delta, max int) (int, bool, error) {
	if delta < 1 {
		return 0, false, shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	if max < 1 {
		return 0, false, cart.NewInsufficientStockError(0)
	}

	var stored int
	var clamped bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var before int
		if err := tx.Model(&models.CartItemModel{}).
			Select("COALESCE(MAX(quantity), 0)").
			Where("cart_id = ? AND variant_id = ?", c.ID, variantID).
			Scan(&before).Error; err != nil {
			return err
		}

		initial := delta
		if initial > max {
			initial = max
		}
		now := time.Now().UTC()
		item := &models.CartItemModel{CartID: c.ID, VariantID: variantID, Quantity: initial}
		item.ID = uuid.New()
		item.CreatedAt = now
		item.UpdatedAt = now

		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr(
					"CASE WHEN cart_items.quantity + ? > ? THEN ? ELSE cart_items.quantity + ? END",
					delta, max, max, delta),
				"updated_at": now,
			}),
		}).Create(item).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&models.CartItemModel{}).
			Select("quantity").
			Where("cart_id = ? AND variant_id = ?", c.ID, variantID).
			Scan(&stored).Error; err != nil {
			return err
		}
		clamped = before+delta > max
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return stored, clamped, nil
}

// SetQuantity stores an exact quantity, creating the line if needed
func (r *GormCartRepository) SetQuantity(ctx context.Context, userID, variantID uuid.UUID, qty int) error {
	if qty < 1 {
		return shared.NewDomainError(shared.CodeValidation, "Quantity must be at least 1")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		item := &models.CartItemModel{CartID: c.ID, VariantID: variantID, Quantity: qty}
		item.ID = uuid.New()
		item.CreatedAt = now
		item.UpdatedAt = now
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).Create(item).Error
	})
}

// RemoveItem deletes a line and reports whether it existed
func (r *GormCartRepository) RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("cart_id IN (?) AND variant_id = ?", cartIDsOf(r.db, userID), variantID).
		Delete(&models.CartItemModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Clear deletes every line of the user's cart
func (r *GormCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id IN (?)", cartIDsOf(r.db, userID)).
		Delete(&models.CartItemModel{}).Error
}

var _ cart.Repository = (*GormCartRepository)(nil)
