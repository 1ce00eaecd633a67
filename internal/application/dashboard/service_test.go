package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 2, 15, 30, 0, 0, time.UTC)

type dashboardFixture struct {
	stats    *testutil.MockOrderStatsRepository
	orders   *testutil.MockOrderRepository
	payments *testutil.MockPaymentRepository
	products *testutil.MockProductRepository
	variants *testutil.MockVariantRepository
	users    *testutil.MockUserRepository
	service  *Service
}

func newDashboardFixture() *dashboardFixture {
	f := &dashboardFixture{
		stats:    new(testutil.MockOrderStatsRepository),
		orders:   new(testutil.MockOrderRepository),
		payments: new(testutil.MockPaymentRepository),
		products: new(testutil.MockProductRepository),
		variants: new(testutil.MockVariantRepository),
		users:    new(testutil.MockUserRepository),
	}
	f.service = NewService(Config{
		Stats:    f.stats,
		Orders:   f.orders,
		Payments: f.payments,
		Products: f.products,
		Variants: f.variants,
		Users:    f.users,
		Now:      func() time.Time { return fixedNow },
	})
	return f
}

func (f *dashboardFixture) expectAll(t *testing.T) {
	t.Helper()
	f.stats.On("CountByStatus", mock.Anything).Return(map[order.Status]int64{
		order.StatusPaid:      4,
		order.StatusDelivered: 6,
	}, nil)
	f.stats.On("Revenue", mock.Anything, time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)).Return(decimal.NewFromInt(100), nil)
	f.stats.On("Revenue", mock.Anything, fixedNow.AddDate(0, 0, -7)).Return(decimal.NewFromInt(700), nil)
	f.stats.On("Revenue", mock.Anything, fixedNow.AddDate(0, 0, -30)).Return(decimal.NewFromInt(3000), nil)
	f.stats.On("TopProducts", mock.Anything, topProductsLimit).Return([]order.ProductSales{
		{ProductID: uuid.New(), ProductName: "Ankara Dress", Quantity: 9, Revenue: decimal.NewFromInt(900)},
	}, nil)
	f.products.On("Count", mock.Anything).Return(int64(12), nil)
	f.users.On("CountCustomers", mock.Anything).Return(int64(30), nil)

	p, err := catalog.NewProduct(uuid.New(), "Ankara Dress", "", "", decimal.NewFromInt(100))
	require.NoError(t, err)
	v, err := catalog.NewVariant(p.ID, catalog.Size("M"), catalog.Color("red"), 2, nil)
	require.NoError(t, err)
	v.Product = p
	f.variants.On("FindLowStock", mock.Anything, DefaultLowStockThreshold, lowStockLimit).Return([]catalog.Variant{*v}, nil)

	f.payments.On("CountByStatus", mock.Anything).Return(map[payment.Status]int64{payment.StatusSuccess: 10}, nil)
	f.orders.On("List", mock.Anything, mock.MatchedBy(func(q order.Query) bool {
		return q.PageSize == recentOrdersLimit && q.UserID == nil
	})).Return([]order.Order{}, int64(0), nil)
}

func TestService_Get(t *testing.T) {
	f := newDashboardFixture()
	f.expectAll(t)

	resp, err := f.service.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.TotalOrders)
	assert.Equal(t, int64(4), resp.OrdersByStatus[order.StatusPaid])
	assert.Contains(t, resp.OrdersByStatus, order.StatusCancelled, "every status is reported")
	assert.Equal(t, int64(12), resp.TotalProducts)
	assert.Equal(t, int64(30), resp.TotalCustomers)
	assert.True(t, decimal.NewFromInt(100).Equal(resp.Revenue.Today))
	assert.True(t, decimal.NewFromInt(700).Equal(resp.Revenue.Last7Days))
	assert.True(t, decimal.NewFromInt(3000).Equal(resp.Revenue.Last30Day))
	require.Len(t, resp.LowStock, 1)
	assert.Equal(t, 2, resp.LowStock[0].Stock)
	assert.Contains(t, resp.LowStock[0].Label, "Ankara Dress")
	require.Len(t, resp.TopProducts, 1)
	assert.Equal(t, int64(10), resp.PaymentsByStatus[payment.StatusSuccess])
	assert.Zero(t, resp.PaymentsByStatus[payment.StatusPending])
	assert.Empty(t, resp.RecentOrders)
	assert.Equal(t, fixedNow, resp.GeneratedAt)
}

func TestService_GetFailsOnAnyQuery(t *testing.T) {
	f := newDashboardFixture()
	boom := errors.New("connection reset")
	f.users.On("CountCustomers", mock.Anything).Return(int64(0), boom)
	f.expectAll(t)

	_, err := f.service.Get(context.Background())
	assert.ErrorIs(t, err, boom)
}
