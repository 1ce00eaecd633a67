package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const (
	defaultOrderPageSize = 20
	maxOrderPageSize     = 100
)

var errOrderNotFound = shared.NewDomainError(shared.CodeNotFound, "Order not found")

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, o *order.Order) error {
	err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(o)).Error
	if isUniqueViolation(err) {
		return shared.WrapDomainError(shared.CodeAlreadyExists, "Order already exists", err)
	}
	return err
}

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, product_name ASC")
	})
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var m models.OrderModel
	if err := r.withItems(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByNumber finds an order by number, scoped to the owner unless userID is uuid.Nil
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string, userID uuid.UUID) (*order.Order, error) {
	query := r.withItems(ctx).Where("order_number = ?", number)
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	var m models.OrderModel
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errOrderNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// List returns one page of orders with their items, newest first by default
func (r *GormOrderRepository) List(ctx context.Context, q order.Query) ([]order.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{})
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		query = query.Where(`(LOWER(order_number) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(q.Page, q.PageSize, defaultOrderPageSize, maxOrderPageSize)
	var rows []models.OrderModel
	err := query.
		Preload("Items").
		Order(orderClause(q.OrderBy, q.OrderDir, OrderSortFields, "created_at")).
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]order.Order, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// UpdateStatus writes the new status with optimistic locking. The aggregate
// has already been incremented, so the stored row must hold Version-1.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ? AND version = ?", o.ID, o.Version-1).
		Updates(map[string]any{
			"status":     o.Status,
			"version":    o.Version,
			"updated_at": o.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// ExistsByNumber checks whether an order number is taken
func (r *GormOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("order_number = ?", number).Count(&count).Error
	return count > 0, err
}

var _ order.Repository = (*GormOrderRepository)(nil)

// GormCheckoutRepository implements order.CheckoutRepository using GORM
type GormCheckoutRepository struct {
	db *gorm.DB
}

// NewGormCheckoutRepository creates a new GormCheckoutRepository
func NewGormCheckoutRepository(db *gorm.DB) *GormCheckoutRepository {
	return &GormCheckoutRepository{db: db}
}

// Save stores a pending checkout
func (r *GormCheckoutRepository) Save(ctx context.Context, c *order.PendingCheckout) error {
	return r.db.WithContext(ctx).Save(models.PendingCheckoutModelFromDomain(c)).Error
}

// FindByToken loads a pending checkout; expiry is checked by the caller
func (r *GormCheckoutRepository) FindByToken(ctx context.Context, token string) (*order.PendingCheckout, error) {
	var m models.PendingCheckoutModel
	if err := r.db.WithContext(ctx).First(&m, "token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Checkout not found")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Delete removes a pending checkout; a missing token is not an error
func (r *GormCheckoutRepository) Delete(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&models.PendingCheckoutModel{}, "token = ?", token).Error
}

// awaitingPayment selects checkout tokens that a pending payment still
// references. The gateway may report success for them at any time, so the
// snapshot has to outlive the checkout TTL.
func (r *GormCheckoutRepository) awaitingPayment() *gorm.DB {
	return r.db.Model(&models.PaymentModel{}).
		Select("checkout_token").
		Where("status = ?", "pending")
}

func (r *GormCheckoutRepository) DeleteUnpaid(ctx context.Context, token string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("token = ? AND token NOT IN (?)", token, r.awaitingPayment()).
		Delete(&models.PendingCheckoutModel{})
	return result.RowsAffected > 0, result.Error
}

// DeleteExpired purges checkouts that expired before now.
func (r *GormCheckoutRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ? AND token NOT IN (?)", now, r.awaitingPayment()).
		Delete(&models.PendingCheckoutModel{})
	return result.RowsAffected, result.Error
}

var _ order.CheckoutRepository = (*GormCheckoutRepository)(nil)
