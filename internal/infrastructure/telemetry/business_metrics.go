package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultCollectInterval = 5 * time.Minute
	lowStockScanLimit      = 1000
)

// LowStockSource lists variants whose stock is below a threshold
type LowStockSource interface {
	FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Variant, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Metrics           *Metrics
	LowStock          LowStockSource
	LowStockThreshold int
	CollectInterval   time.Duration
	Logger            *zap.Logger
}

// BusinessMetrics counts paid orders, revenue, payment verifications and
// status transitions, and samples low stock periodically.
type BusinessMetrics struct {
	logger    *zap.Logger
	lowStock  LowStockSource
	threshold int
	interval  time.Duration

	ordersPaid        prometheus.Counter
	revenue           prometheus.Counter
	verifications     *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	lowStockVariants  prometheus.Gauge

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// NewBusinessMetrics registers the business collectors on cfg.Metrics
func NewBusinessMetrics(cfg BusinessMetricsConfig) *BusinessMetrics {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CollectInterval <= 0 {
		cfg.CollectInterval = defaultCollectInterval
	}
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = 5
	}

	bm := &BusinessMetrics{
		logger:    logger,
		lowStock:  cfg.LowStock,
		threshold: cfg.LowStockThreshold,
		interval:  cfg.CollectInterval,
		ordersPaid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "orders",
			Name:      "paid_total",
			Help:      "Orders created from verified payments.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "orders",
			Name:      "revenue_total",
			Help:      "Sum of paid order totals in the store currency.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "payments",
			Name:      "verifications_total",
			Help:      "Payment verification outcomes.",
		}, []string{"outcome"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Staff order status changes by target status.",
		}, []string{"to"}),
		lowStockVariants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "catalog",
			Name:      "low_stock_variants",
			Help:      "Variants with stock below the low stock threshold.",
		}),
		stopChan: make(chan struct{}),
	}
	if cfg.Metrics != nil {
		cfg.Metrics.MustRegister(bm.ordersPaid, bm.revenue, bm.verifications, bm.statusTransitions, bm.lowStockVariants)
	}
	return bm
}

// RecordVerification counts one payment verification outcome
func (bm *BusinessMetrics) RecordVerification(outcome string) {
	bm.verifications.WithLabelValues(outcome).Inc()
}

// EventTypes returns the order events feeding the counters
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{order.EventTypeOrderPaid, order.EventTypeOrderStatusChanged}
}

// Handle updates counters from order events
func (bm *BusinessMetrics) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.PaidEvent:
		bm.ordersPaid.Inc()
		bm.revenue.Add(e.Total.InexactFloat64())
	case *order.StatusChangedEvent:
		bm.statusTransitions.WithLabelValues(e.To.String()).Inc()
	}
	return nil
}

// StartPeriodicCollection samples low stock every interval until ctx is
// cancelled or Stop is called. Calling it again is a no-op.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context) {
	if bm.lowStock == nil {
		return
	}
	bm.collectOnce.Do(func() {
		go bm.runPeriodicCollection(ctx)
	})
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context) {
	ticker := time.NewTicker(bm.interval)
	defer ticker.Stop()

	bm.CollectLowStock(ctx)
	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.CollectLowStock(ctx)
		}
	}
}

// CollectLowStock refreshes the low stock gauge once
func (bm *BusinessMetrics) CollectLowStock(ctx context.Context) {
	variants, err := bm.lowStock.FindLowStock(ctx, bm.threshold, lowStockScanLimit)
	if err != nil {
		bm.logger.Warn("Failed to collect low stock metrics", zap.Error(err))
		return
	}
	bm.lowStockVariants.Set(float64(len(variants)))
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}
