package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	cartapp "github.com/mbvogue/storefront/internal/application/cart"
	checkoutapp "github.com/mbvogue/storefront/internal/application/checkout"
	paymentapp "github.com/mbvogue/storefront/internal/application/payment"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/infrastructure/cache"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	paystack "github.com/mbvogue/storefront/internal/infrastructure/payment"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePaystack answers initialize by echoing the reference and reports every
// verified reference as a successful charge of amount minor units.
func fakePaystack(t *testing.T, amount int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/transaction/initialize":
			var body struct {
				Reference string `json:"reference"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			fmt.Fprintf(w, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.test/%s","access_code":"ac_%s","reference":"%s"}}`,
				body.Reference, body.Reference, body.Reference)
		case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/transaction/verify/"):
			ref := strings.TrimPrefix(r.URL.Path, "/transaction/verify/")
			fmt.Fprintf(w, `{"status":true,"message":"Verification successful","data":{"id":4099260516,"status":"success","reference":"%s","amount":%d,"currency":"GHS","paid_at":"2026-05-01T10:00:00Z","authorization":{"authorization_code":"AUTH_x"}}}`,
				ref, amount)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// paymentFlow wires the checkout and payment services over real repositories
// and a fake gateway.
type paymentFlow struct {
	carts     *cartapp.Service
	checkouts *checkoutapp.Service
	payments  *paymentapp.Service
	variants  *persistence.GormVariantRepository
	orders    *persistence.GormOrderRepository
	paymentDB *persistence.GormPaymentRepository
}

func newPaymentFlow(t *testing.T, tdb *TestDB, chargedMinor int64) *paymentFlow {
	t.Helper()
	cartRepo := persistence.NewGormCartRepository(tdb.DB)
	checkoutRepo := persistence.NewGormCheckoutRepository(tdb.DB)
	f := &paymentFlow{
		variants:  persistence.NewGormVariantRepository(tdb.DB),
		orders:    persistence.NewGormOrderRepository(tdb.DB),
		paymentDB: persistence.NewGormPaymentRepository(tdb.DB),
	}
	f.carts = cartapp.NewService(cartRepo, cache.NewInMemorySessionCartStore(time.Hour), f.variants, nil)
	f.checkouts = checkoutapp.NewService(cartRepo, checkoutRepo, persistence.NewGormUserRepository(tdb.DB), checkoutapp.WithTTL(time.Hour))

	srv := fakePaystack(t, chargedMinor)
	gateway, err := paystack.NewPaystackAdapter(config.PaystackConfig{
		SecretKey:   "sk_test_integration",
		BaseURL:     srv.URL,
		CallbackURL: "https://shop.test/api/v1/payments/callback",
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)

	idem := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idem.Close() })

	f.payments = paymentapp.NewService(paymentapp.ServiceConfig{
		Gateway:     gateway,
		Payments:    f.paymentDB,
		Orders:      f.orders,
		Checkouts:   checkoutRepo,
		Loader:      f.checkouts,
		TxScope:     persistence.NewGormTransactionScope(tdb.DB),
		Idempotency: idem,
		CallbackURL: "https://shop.test/api/v1/payments/callback",
		Currency:    "GHS",
	})
	return f
}

func TestPaymentFlow_ConcurrentVerifyCreatesOneOrder(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	u := tdb.CreateUser("flow@example.com")
	v := tdb.CreateVariant("Ankara Maxi Dress", decimal.NewFromInt(120), 5)
	flow := newPaymentFlow(t, tdb, 24000)
	carts, checkouts, payments, paymentRepo := flow.carts, flow.checkouts, flow.payments, flow.paymentDB

	_, err := carts.AddItem(ctx, cartapp.Identity{UserID: u.ID}, cartapp.AddItemRequest{VariantID: v.ID, Quantity: 2})
	require.NoError(t, err)

	co, err := checkouts.Begin(ctx, u.ID, checkoutapp.BeginRequest{Phone: "+233200000000"})
	require.NoError(t, err)
	assert.True(t, co.Total.Equal(decimal.NewFromInt(240)))

	init, err := payments.Initialize(ctx, u.ID, co.Token)
	require.NoError(t, err)
	require.NotEmpty(t, init.Reference)

	const callers = 10
	results := make([]*paymentapp.VerifyResult, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = payments.Verify(ctx, init.Reference, u.ID)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := range results {
		require.NoError(t, errs[i], "caller %d", i)
		require.True(t, results[i].Succeeded(), "caller %d", i)
		if !results[i].AlreadyVerified {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)

	number := results[0].OrderNumber
	assert.NotEmpty(t, number)
	for _, r := range results {
		assert.Equal(t, number, r.OrderNumber)
	}

	assert.Equal(t, int64(1), tdb.Count("orders"))
	assert.Equal(t, 3, tdb.Stock(v.ID))
	assert.Equal(t, int64(0), tdb.Count("cart_items"))
	assert.Equal(t, int64(0), tdb.Count("pending_checkouts"))

	p, err := paymentRepo.FindByReference(ctx, init.Reference)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusSuccess, p.Status)
	require.NotNil(t, p.OrderID)
}

func TestPaymentFlow_OrderKeepsCheckoutPricesAfterRepricing(t *testing.T) {
	tdb := NewSharedTestDB(t)
	ctx := context.Background()

	u := tdb.CreateUser("reprice@example.com")
	v := tdb.CreateVariant("Kente Wrap Skirt", decimal.NewFromInt(120), 5)
	flow := newPaymentFlow(t, tdb, 24000)

	_, err := flow.carts.AddItem(ctx, cartapp.Identity{UserID: u.ID}, cartapp.AddItemRequest{VariantID: v.ID, Quantity: 2})
	require.NoError(t, err)
	co, err := flow.checkouts.Begin(ctx, u.ID, checkoutapp.BeginRequest{Phone: "+233200000000"})
	require.NoError(t, err)
	init, err := flow.payments.Initialize(ctx, u.ID, co.Token)
	require.NoError(t, err)

	// staff raise the price while the customer is on the gateway page
	stored, err := flow.variants.FindByID(ctx, v.ID)
	require.NoError(t, err)
	raised := decimal.NewFromInt(500)
	require.NoError(t, stored.SetPriceOverride(&raised))
	require.NoError(t, flow.variants.Save(ctx, stored))

	res, err := flow.payments.Verify(ctx, init.Reference, u.ID)
	require.NoError(t, err)
	require.True(t, res.Succeeded())

	o, err := flow.orders.FindByNumber(ctx, res.OrderNumber, u.ID)
	require.NoError(t, err)
	assert.True(t, o.TotalPrice.Equal(decimal.NewFromInt(240)), "total %s", o.TotalPrice)
	require.Len(t, o.Items, 1)
	assert.True(t, o.Items[0].UnitPrice.Equal(decimal.NewFromInt(120)), "unit price %s", o.Items[0].UnitPrice)
	assert.Equal(t, 3, tdb.Stock(v.ID))
}
