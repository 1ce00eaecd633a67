package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderStatsRepository implements order.StatsRepository with aggregate queries
type GormOrderStatsRepository struct {
	db *gorm.DB
}

// NewGormOrderStatsRepository creates a new GormOrderStatsRepository
func NewGormOrderStatsRepository(db *gorm.DB) *GormOrderStatsRepository {
	return &GormOrderStatsRepository{db: db}
}

// CountByStatus returns the number of orders per status; absent statuses are zero
func (r *GormOrderStatsRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	var rows []struct {
		Status order.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[order.Status]int64, len(order.AllStatuses()))
	for _, s := range order.AllStatuses() {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

// Revenue sums totals of paid-or-later orders created at or after since.
// A zero since means all time.
func (r *GormOrderStatsRepository) Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("COALESCE(SUM(total_price), 0)").
		Where("status IN ?", order.RevenueStatuses())
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var total decimal.Decimal
	if err := query.Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// TopProducts ranks products by units sold across paid-or-later orders
func (r *GormOrderStatsRepository) TopProducts(ctx context.Context, limit int) ([]order.ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []struct {
		ProductID   uuid.UUID
		ProductName string
		Quantity    int64
		Revenue     decimal.Decimal
	}
	err := r.db.WithContext(ctx).Table("order_items").
		Select("order_items.product_id, order_items.product_name, SUM(order_items.quantity) AS quantity, SUM(order_items.unit_price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status IN ?", order.RevenueStatuses()).
		Group("order_items.product_id, order_items.product_name").
		Order("quantity DESC, order_items.product_name ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]order.ProductSales, 0, len(rows))
	for _, row := range rows {
		out = append(out, order.ProductSales{
			ProductID:   row.ProductID,
			ProductName: row.ProductName,
			Quantity:    row.Quantity,
			Revenue:     row.Revenue,
		})
	}
	return out, nil
}

// CustomerOrderCounts counts orders per user for the given users
func (r *GormOrderStatsRepository) CustomerOrderCounts(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		UserID uuid.UUID
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Select("user_id, COUNT(*) AS count").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.Count
	}
	return out, nil
}

var _ order.StatsRepository = (*GormOrderStatsRepository)(nil)
