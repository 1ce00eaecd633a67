package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Query filters order listings
type Query struct {
	UserID        *uuid.UUID
	Status        Status
	shared.Filter // Search matches order number or e-mail
}

// Repository persists orders
type Repository interface {
	// Create inserts the order with its items
	Create(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	// FindByNumber scopes the lookup to userID unless it is uuid.Nil
	FindByNumber(ctx context.Context, number string, userID uuid.UUID) (*Order, error)
	List(ctx context.Context, q Query) ([]Order, int64, error)
	// UpdateStatus persists a status change guarded by the order's previous version
	UpdateStatus(ctx context.Context, o *Order) error
	// ExistsByNumber supports order number uniqueness retries
	ExistsByNumber(ctx context.Context, number string) (bool, error)
}

// CheckoutRepository persists pending checkouts
type CheckoutRepository interface {
	Save(ctx context.Context, c *PendingCheckout) error
	FindByToken(ctx context.Context, token string) (*PendingCheckout, error)
	Delete(ctx context.Context, token string) error
	// DeleteUnpaid removes one checkout unless a pending payment still
	// references it. It reports whether a row was removed.
	DeleteUnpaid(ctx context.Context, token string) (bool, error)
	// DeleteExpired purges checkouts that expired before now, keeping those
	// with a pending payment
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// StatsRepository aggregates order data for the staff dashboard
type StatsRepository interface {
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error)
	TopProducts(ctx context.Context, limit int) ([]ProductSales, error)
	CustomerOrderCounts(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

// ProductSales is one row of the best sellers report
type ProductSales struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}
