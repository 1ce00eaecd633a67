// Package dashboard aggregates the numbers shown on the staff home page.
package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"
	apporder "github.com/mbvogue/storefront/internal/application/order"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLowStockThreshold = 5
	lowStockLimit            = 10
	topProductsLimit         = 5
	recentOrdersLimit        = 10
)

// Revenue is the paid order total over rolling windows
type Revenue struct {
	Today     decimal.Decimal `json:"today"`
	Last7Days decimal.Decimal `json:"last_7_days"`
	Last30Day decimal.Decimal `json:"last_30_days"`
}

// LowStockVariant is a variant close to selling out
type LowStockVariant struct {
	VariantID uuid.UUID `json:"variant_id"`
	ProductID uuid.UUID `json:"product_id"`
	Label     string    `json:"label"`
	Stock     int       `json:"stock"`
}

// Response is the staff dashboard
type Response struct {
	OrdersByStatus   map[order.Status]int64     `json:"orders_by_status"`
	TotalOrders      int64                      `json:"total_orders"`
	TotalProducts    int64                      `json:"total_products"`
	TotalCustomers   int64                      `json:"total_customers"`
	Revenue          Revenue                    `json:"revenue"`
	LowStock         []LowStockVariant          `json:"low_stock"`
	TopProducts      []order.ProductSales       `json:"top_products"`
	PaymentsByStatus map[payment.Status]int64   `json:"payments_by_status"`
	RecentOrders     []apporder.SummaryResponse `json:"recent_orders"`
	GeneratedAt      time.Time                  `json:"generated_at"`
}

// Config wires the dashboard's read models
type Config struct {
	Stats             order.StatsRepository
	Orders            order.Repository
	Payments          payment.Repository
	Products          catalog.ProductRepository
	Variants          catalog.VariantRepository
	Users             identity.Repository
	LowStockThreshold int
	Now               func() time.Time
	Logger            *zap.Logger
}

// Service builds the dashboard
type Service struct {
	cfg Config
}

// NewService creates a new dashboard Service
func NewService(cfg Config) *Service {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = DefaultLowStockThreshold
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Service{cfg: cfg}
}

// Get runs the dashboard queries concurrently. Any failing query fails the dashboard.
func (s *Service) Get(ctx context.Context) (*Response, error) {
	now := s.cfg.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	resp := &Response{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		counts, err := s.cfg.Stats.CountByStatus(gctx)
		if err != nil {
			return err
		}
		resp.OrdersByStatus = make(map[order.Status]int64, len(order.AllStatuses()))
		for _, st := range order.AllStatuses() {
			resp.OrdersByStatus[st] = counts[st]
			resp.TotalOrders += counts[st]
		}
		return nil
	})
	g.Go(func() (err error) {
		resp.TotalProducts, err = s.cfg.Products.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.TotalCustomers, err = s.cfg.Users.CountCustomers(gctx)
		return err
	})
	g.Go(func() (err error) {
		resp.Revenue.Today, err = s.cfg.Stats.Revenue(gctx, startOfDay)
		return err
	})
	g.Go(func() (err error) {
		resp.Revenue.Last7Days, err = s.cfg.Stats.Revenue(gctx, now.AddDate(0, 0, -7))
		return err
	})
	g.Go(func() (err error) {
		resp.Revenue.Last30Day, err = s.cfg.Stats.Revenue(gctx, now.AddDate(0, 0, -30))
		return err
	})
	g.Go(func() error {
		variants, err := s.cfg.Variants.FindLowStock(gctx, s.cfg.LowStockThreshold, lowStockLimit)
		if err != nil {
			return err
		}
		resp.LowStock = make([]LowStockVariant, 0, len(variants))
		for i := range variants {
			resp.LowStock = append(resp.LowStock, LowStockVariant{
				VariantID: variants[i].ID,
				ProductID: variants[i].ProductID,
				Label:     variants[i].Label(),
				Stock:     variants[i].Stock,
			})
		}
		return nil
	})
	g.Go(func() (err error) {
		resp.TopProducts, err = s.cfg.Stats.TopProducts(gctx, topProductsLimit)
		return err
	})
	g.Go(func() error {
		counts, err := s.cfg.Payments.CountByStatus(gctx)
		if err != nil {
			return err
		}
		resp.PaymentsByStatus = make(map[payment.Status]int64, len(payment.AllStatuses()))
		for _, st := range payment.AllStatuses() {
			resp.PaymentsByStatus[st] = counts[st]
		}
		return nil
	})
	g.Go(func() error {
		orders, _, err := s.cfg.Orders.List(gctx, order.Query{
			Filter: shared.Filter{Page: 1, PageSize: recentOrdersLimit, OrderBy: "created_at", OrderDir: "desc"},
		})
		if err != nil {
			return err
		}
		resp.RecentOrders = make([]apporder.SummaryResponse, 0, len(orders))
		for i := range orders {
			resp.RecentOrders = append(resp.RecentOrders, apporder.ToSummary(&orders[i]))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.cfg.Logger.Error("Failed to build dashboard", zap.Error(err))
		return nil, err
	}
	return resp, nil
}
