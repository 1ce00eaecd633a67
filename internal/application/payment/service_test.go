package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)

type fakeLoader struct {
	checkouts map[string]*order.PendingCheckout
	err       error
}

func (l *fakeLoader) Load(_ context.Context, token string, userID uuid.UUID) (*order.PendingCheckout, error) {
	if l.err != nil {
		return nil, l.err
	}
	c, ok := l.checkouts[token]
	if !ok || !c.BelongsTo(userID) {
		return nil, shared.ErrNotFound
	}
	return c, nil
}

type fixture struct {
	gateway     *testutil.MockGateway
	payments    *testutil.MockPaymentRepository
	orders      *testutil.MockOrderRepository
	checkouts   *testutil.MockCheckoutRepository
	variants    *testutil.MockVariantRepository
	carts       *testutil.MockCartRepository
	publisher   *testutil.MockEventPublisher
	idempotency *testutil.MockIdempotencyStore
	loader      *fakeLoader
	svc         *Service

	userID   uuid.UUID
	checkout *order.PendingCheckout
	created  *order.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userID := uuid.New()
	c, err := order.NewPendingCheckout(userID, []order.Line{
		{VariantID: uuid.New(), ProductName: "Ankara Dress", Size: "M", Color: "red", UnitPrice: decimal.RequireFromString("12000.00"), Quantity: 2},
		{VariantID: uuid.New(), ProductName: "Silk Scarf", Size: "S", Color: "blue", UnitPrice: decimal.RequireFromString("4500.50"), Quantity: 1},
	}, order.Shipping{FullName: "Ada Obi", Email: "ada@example.com", Phone: "0801"}, 30*time.Minute, fixedNow)
	require.NoError(t, err)

	f := &fixture{
		gateway:     new(testutil.MockGateway),
		payments:    new(testutil.MockPaymentRepository),
		orders:      new(testutil.MockOrderRepository),
		checkouts:   new(testutil.MockCheckoutRepository),
		variants:    new(testutil.MockVariantRepository),
		carts:       new(testutil.MockCartRepository),
		publisher:   new(testutil.MockEventPublisher),
		idempotency: new(testutil.MockIdempotencyStore),
		loader:      &fakeLoader{checkouts: map[string]*order.PendingCheckout{c.Token: c}},
		userID:      userID,
		checkout:    c,
	}
	f.svc = NewService(ServiceConfig{
		Gateway:   f.gateway,
		Payments:  f.payments,
		Orders:    f.orders,
		Checkouts: f.checkouts,
		Loader:    f.loader,
		TxScope: NoOpTransactionScope{Repos: Repositories{
			PaymentRepo:  f.payments,
			OrderRepo:    f.orders,
			VariantRepo:  f.variants,
			CheckoutRepo: f.checkouts,
			CartRepo:     f.carts,
		}},
		Publisher:   f.publisher,
		Idempotency: f.idempotency,
		CallbackURL: "https://shop.test/api/v1/payments/callback",
		Now:         func() time.Time { return fixedNow },
	})
	return f
}

func (f *fixture) pendingPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(f.userID, f.checkout.Token, "REF0000000000001", f.checkout.Total, "GHS",
		&payment.InitializeResponse{AuthorizationURL: "https://checkout.paystack.test/abc", AccessCode: "abc"})
	require.NoError(t, err)
	return p
}

func successResponse(p *payment.Payment) *payment.VerifyResponse {
	return &payment.VerifyResponse{
		Reference:     p.Reference,
		Succeeded:     true,
		Status:        payment.GatewayStatusSuccess,
		Amount:        p.Amount,
		Currency:      "GHS",
		TransactionID: "4099260516",
		RawResponse:   `{"status":true}`,
	}
}

// expectSuccessfulSettle wires the happy path of one verification
func (f *fixture) expectSuccessfulSettle(p *payment.Payment) {
	f.checkouts.On("FindByToken", mock.Anything, f.checkout.Token).Return(f.checkout, nil).Once()
	f.orders.On("ExistsByNumber", mock.Anything, mock.AnythingOfType("string")).Return(false, nil).Once()
	f.payments.On("CompareAndSettle", mock.Anything, mock.MatchedBy(func(x *payment.Payment) bool {
		return x.Status == payment.StatusSuccess && x.TransactionID == "4099260516"
	})).Return(true, nil).Once()
	f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) { f.created = args.Get(1).(*order.Order) }).
		Return(nil).Once()
	f.payments.On("LinkOrder", mock.Anything, p.ID, mock.AnythingOfType("uuid.UUID")).Return(nil).Once()
	for _, l := range f.checkout.Lines {
		f.variants.On("DecrementStock", mock.Anything, l.VariantID, l.Quantity).Return(nil).Once()
	}
	f.checkouts.On("Delete", mock.Anything, f.checkout.Token).Return(nil).Once()
	f.carts.On("Clear", mock.Anything, f.userID).Return(nil).Once()
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == order.EventTypeOrderPaid
	})).Return(nil).Once()
}

func TestInitialize_CreatesPendingPayment(t *testing.T) {
	f := newFixture(t)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(nil, shared.ErrNotFound)
	f.payments.On("ReferenceExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.gateway.On("Initialize", mock.Anything, mock.MatchedBy(func(r *payment.InitializeRequest) bool {
		return r.Email == "ada@example.com" &&
			r.Amount.Equal(decimal.RequireFromString("28500.50")) &&
			r.CheckoutToken == f.checkout.Token &&
			r.UserID == f.userID &&
			r.CustomFields["Customer Name"] == "Ada Obi" &&
			strings.HasSuffix(r.CallbackURL, "/payments/callback")
	})).Return(&payment.InitializeResponse{AuthorizationURL: "https://checkout.paystack.test/xyz", AccessCode: "xyz"}, nil)
	f.payments.On("Create", mock.Anything, mock.MatchedBy(func(p *payment.Payment) bool {
		return p.Status == payment.StatusPending && p.AccessCode == "xyz"
	})).Return(nil)

	res, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)

	require.NoError(t, err)
	assert.Len(t, res.Reference, payment.ReferenceLength)
	assert.Equal(t, "https://checkout.paystack.test/xyz", res.AuthorizationURL)
	assert.Equal(t, "GHS", res.Currency)
	assert.False(t, res.Reused)
	f.payments.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestInitialize_ReusesPendingPayment(t *testing.T) {
	f := newFixture(t)
	existing := f.pendingPayment(t)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(existing, nil)

	res, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)

	require.NoError(t, err)
	assert.True(t, res.Reused)
	assert.Equal(t, existing.Reference, res.Reference)
	f.gateway.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestInitialize_ConcurrentCreateReusesWinner(t *testing.T) {
	f := newFixture(t)
	winner := f.pendingPayment(t)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(nil, shared.ErrNotFound).Once()
	f.payments.On("ReferenceExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.gateway.On("Initialize", mock.Anything, mock.Anything).
		Return(&payment.InitializeResponse{AuthorizationURL: "https://checkout.paystack.test/late", AccessCode: "late"}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(shared.ErrDuplicateReference)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(winner, nil).Once()

	res, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)

	require.NoError(t, err)
	assert.True(t, res.Reused)
	assert.Equal(t, winner.Reference, res.Reference)
	assert.Equal(t, winner.AuthorizationURL, res.AuthorizationURL)
	f.payments.AssertExpectations(t)
}

func TestInitialize_ReferenceCollisionWithoutPendingFails(t *testing.T) {
	f := newFixture(t)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(nil, shared.ErrNotFound)
	f.payments.On("ReferenceExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.gateway.On("Initialize", mock.Anything, mock.Anything).
		Return(&payment.InitializeResponse{AuthorizationURL: "https://checkout.paystack.test/x", AccessCode: "x"}, nil)
	f.payments.On("Create", mock.Anything, mock.Anything).Return(shared.ErrDuplicateReference)

	_, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)

	assert.ErrorIs(t, err, shared.ErrDuplicateReference)
}

func TestInitialize_GatewayFailureStoresNothing(t *testing.T) {
	f := newFixture(t)
	f.payments.On("FindPendingByCheckout", mock.Anything, f.checkout.Token).Return(nil, shared.ErrNotFound)
	f.payments.On("ReferenceExists", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.gateway.On("Initialize", mock.Anything, mock.Anything).Return(nil, payment.ErrGatewayNetwork)

	_, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)

	assert.ErrorIs(t, err, shared.ErrGatewayNetwork)
	f.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitialize_CheckoutErrors(t *testing.T) {
	t.Run("foreign checkout", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Initialize(context.Background(), uuid.New(), f.checkout.Token)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
	t.Run("expired checkout", func(t *testing.T) {
		f := newFixture(t)
		f.loader.err = order.ErrCheckoutExpired
		_, err := f.svc.Initialize(context.Background(), f.userID, f.checkout.Token)
		assert.ErrorIs(t, err, order.ErrCheckoutExpired)
	})
}

func TestVerify_SuccessCreatesPaidOrder(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil).Once()
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil).Once()
	f.expectSuccessfulSettle(p)

	res, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.False(t, res.AlreadyVerified)
	assert.True(t, strings.HasPrefix(res.OrderNumber, "MBV-20260502-"))
	created := f.created
	require.NotNil(t, created)
	assert.Equal(t, order.StatusPaid, created.Status)
	assert.Equal(t, res.OrderNumber, created.OrderNumber)
	assert.True(t, created.TotalPrice.Equal(f.checkout.Total))
	assert.Len(t, created.Items, 2)
	assert.Empty(t, created.GetDomainEvents(), "events are cleared once published")

	f.payments.AssertExpectations(t)
	f.variants.AssertExpectations(t)
	f.checkouts.AssertExpectations(t)
	f.carts.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestVerify_TwiceDecrementsStockOnce(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil).Once()
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil).Once()
	f.expectSuccessfulSettle(p)

	first, err := f.svc.Verify(context.Background(), p.Reference, f.userID)
	require.NoError(t, err)

	// The stored row is now successful and linked to the order
	settled := *p
	settled.Status = payment.StatusSuccess
	settled.OrderID = first.OrderID
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(&settled, nil).Once()
	f.orders.On("FindByID", mock.Anything, *first.OrderID).Return(&order.Order{OrderNumber: first.OrderNumber}, nil).Once()

	second, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

	require.NoError(t, err)
	assert.True(t, second.AlreadyVerified)
	assert.True(t, second.Succeeded())
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	f.gateway.AssertNumberOfCalls(t, "Verify", 1)
	f.publisher.AssertNumberOfCalls(t, "Publish", 1)
	f.variants.AssertNumberOfCalls(t, "DecrementStock", len(f.checkout.Lines))
}

func TestVerify_LosingConcurrentSettleIsAlreadyVerified(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	orderID := uuid.New()
	winner := *p
	winner.Status = payment.StatusSuccess
	winner.OrderID = &orderID

	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil).Once()
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(&winner, nil).Once()
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil)
	f.checkouts.On("FindByToken", mock.Anything, f.checkout.Token).Return(f.checkout, nil)
	f.orders.On("ExistsByNumber", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.payments.On("CompareAndSettle", mock.Anything, mock.Anything).Return(false, nil)
	f.orders.On("FindByID", mock.Anything, orderID).Return(&order.Order{OrderNumber: "MBV-20260502-WINNER"}, nil)

	res, err := f.svc.Verify(context.Background(), p.Reference, uuid.Nil)

	require.NoError(t, err)
	assert.True(t, res.AlreadyVerified)
	assert.Equal(t, "MBV-20260502-WINNER", res.OrderNumber)
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.variants.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestVerify_GatewayNonSuccess(t *testing.T) {
	tests := []struct {
		name       string
		response   func(p *payment.Payment) *payment.VerifyResponse
		wantStatus payment.Status
	}{
		{
			name: "failed",
			response: func(p *payment.Payment) *payment.VerifyResponse {
				return &payment.VerifyResponse{Reference: p.Reference, Status: payment.GatewayStatusFailed, GatewayMessage: "Declined"}
			},
			wantStatus: payment.StatusFailed,
		},
		{
			name: "abandoned",
			response: func(p *payment.Payment) *payment.VerifyResponse {
				return &payment.VerifyResponse{Reference: p.Reference, Status: payment.GatewayStatusAbandoned}
			},
			wantStatus: payment.StatusAbandoned,
		},
		{
			name: "reversed",
			response: func(p *payment.Payment) *payment.VerifyResponse {
				return &payment.VerifyResponse{Reference: p.Reference, Status: payment.GatewayStatusReversed}
			},
			wantStatus: payment.StatusFailed,
		},
		{
			name: "amount mismatch",
			response: func(p *payment.Payment) *payment.VerifyResponse {
				r := successResponse(p)
				r.Amount = decimal.NewFromInt(100)
				return r
			},
			wantStatus: payment.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			p := f.pendingPayment(t)
			f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
			f.gateway.On("Verify", mock.Anything, p.Reference).Return(tt.response(p), nil)
			f.payments.On("CompareAndSettle", mock.Anything, mock.MatchedBy(func(x *payment.Payment) bool {
				return x.Status == tt.wantStatus
			})).Return(true, nil).Once()

			res, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.False(t, res.Succeeded())
			f.payments.AssertExpectations(t)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			f.variants.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestVerify_OrderUsesCheckoutPrices(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil).Once()
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil).Once()
	f.expectSuccessfulSettle(p)

	_, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

	require.NoError(t, err)
	require.NotNil(t, f.created)
	assert.True(t, f.created.TotalPrice.Equal(decimal.RequireFromString("28500.50")), "total %s", f.created.TotalPrice)
	require.Len(t, f.created.Items, len(f.checkout.Lines))
	for i, l := range f.checkout.Lines {
		assert.True(t, f.created.Items[i].UnitPrice.Equal(l.UnitPrice), "item %d unit price %s", i, f.created.Items[i].UnitPrice)
		assert.Equal(t, l.Quantity, f.created.Items[i].Quantity)
	}
	// live catalogue prices are never consulted once the checkout exists
	f.variants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	f.variants.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
}

func TestVerify_UnsettledGatewayStatusLeavesPending(t *testing.T) {
	for _, status := range []payment.GatewayStatus{
		payment.GatewayStatusOngoing,
		payment.GatewayStatusPending,
		payment.GatewayStatusProcessing,
		payment.GatewayStatusQueued,
	} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t)
			p := f.pendingPayment(t)
			f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
			f.gateway.On("Verify", mock.Anything, p.Reference).
				Return(&payment.VerifyResponse{Reference: p.Reference, Status: status}, nil)

			res, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

			require.NoError(t, err)
			assert.Equal(t, payment.StatusPending, res.Status)
			assert.False(t, res.Succeeded())
			assert.Contains(t, res.Message, "not been completed")
			assert.Equal(t, payment.StatusPending, p.Status)
			f.payments.AssertNotCalled(t, "CompareAndSettle", mock.Anything, mock.Anything)
			f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestVerify_NetworkErrorLeavesPending(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(nil, payment.ErrGatewayNetwork)

	_, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

	assert.ErrorIs(t, err, shared.ErrGatewayNetwork)
	f.payments.AssertNotCalled(t, "CompareAndSettle", mock.Anything, mock.Anything)
}

func TestVerify_InsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
	f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil)
	f.checkouts.On("FindByToken", mock.Anything, f.checkout.Token).Return(f.checkout, nil)
	f.orders.On("ExistsByNumber", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
	f.payments.On("CompareAndSettle", mock.Anything, mock.Anything).Return(true, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.payments.On("LinkOrder", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.variants.On("DecrementStock", mock.Anything, f.checkout.Lines[0].VariantID, 2).Return(shared.ErrInsufficientStock)

	_, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Ankara Dress")
	f.checkouts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.carts.AssertNotCalled(t, "Clear", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestVerify_Lookup(t *testing.T) {
	t.Run("unknown reference", func(t *testing.T) {
		f := newFixture(t)
		f.payments.On("FindByReference", mock.Anything, "NOPE").Return(nil, shared.ErrNotFound)
		_, err := f.svc.Verify(context.Background(), "NOPE", f.userID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
	t.Run("other user's payment", func(t *testing.T) {
		f := newFixture(t)
		p := f.pendingPayment(t)
		f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
		_, err := f.svc.Verify(context.Background(), p.Reference, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
	t.Run("already failed", func(t *testing.T) {
		f := newFixture(t)
		p := f.pendingPayment(t)
		p.Status = payment.StatusFailed
		f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)

		res, err := f.svc.Verify(context.Background(), p.Reference, f.userID)

		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, res.Status)
		f.gateway.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})
	t.Run("blank reference", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Callback(context.Background(), "", "")
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}

func TestCallback_UsesTrxref(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	p.Status = payment.StatusAbandoned
	f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)

	res, err := f.svc.Callback(context.Background(), "", p.Reference)

	require.NoError(t, err)
	assert.Equal(t, payment.StatusAbandoned, res.Status)
}

func TestWebhook(t *testing.T) {
	body := []byte(`{"event":"charge.success"}`)

	t.Run("invalid signature", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("ParseWebhook", body, "bad").Return(nil, payment.ErrInvalidWebhook)

		_, err := f.svc.Webhook(context.Background(), body, "bad")

		assert.ErrorIs(t, err, shared.ErrUnauthorized)
	})

	t.Run("other events are ignored", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("ParseWebhook", body, "sig").Return(&payment.WebhookEvent{ID: "1", Event: "transfer.success", Reference: "R"}, nil)

		res, err := f.svc.Webhook(context.Background(), body, "sig")

		require.NoError(t, err)
		assert.True(t, res.Ignored)
		f.idempotency.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("duplicate delivery", func(t *testing.T) {
		f := newFixture(t)
		event := &payment.WebhookEvent{ID: "77", Event: "charge.success", Reference: "REF0000000000001"}
		f.gateway.On("ParseWebhook", body, "sig").Return(event, nil)
		f.idempotency.On("MarkProcessed", mock.Anything, "webhook:charge.success:77", webhookDedupTTL).Return(false, nil)

		res, err := f.svc.Webhook(context.Background(), body, "sig")

		require.NoError(t, err)
		assert.True(t, res.Duplicate)
		f.payments.AssertNotCalled(t, "FindByReference", mock.Anything, mock.Anything)
	})

	t.Run("charge success verifies", func(t *testing.T) {
		f := newFixture(t)
		p := f.pendingPayment(t)
		event := &payment.WebhookEvent{ID: "78", Event: "charge.success", Reference: p.Reference}
		f.gateway.On("ParseWebhook", body, "sig").Return(event, nil)
		f.idempotency.On("MarkProcessed", mock.Anything, "webhook:charge.success:78", webhookDedupTTL).Return(true, nil)
		f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil).Once()
		f.gateway.On("Verify", mock.Anything, p.Reference).Return(successResponse(p), nil)
		f.expectSuccessfulSettle(p)

		res, err := f.svc.Webhook(context.Background(), body, "sig")

		require.NoError(t, err)
		assert.Equal(t, payment.StatusSuccess, res.Status)
		f.publisher.AssertExpectations(t)
	})

	t.Run("failed verification releases the key", func(t *testing.T) {
		f := newFixture(t)
		p := f.pendingPayment(t)
		event := &payment.WebhookEvent{ID: "79", Event: "charge.success", Reference: p.Reference}
		f.gateway.On("ParseWebhook", body, "sig").Return(event, nil)
		f.idempotency.On("MarkProcessed", mock.Anything, "webhook:charge.success:79", webhookDedupTTL).Return(true, nil)
		f.idempotency.On("Forget", mock.Anything, "webhook:charge.success:79").Return(nil)
		f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
		f.gateway.On("Verify", mock.Anything, p.Reference).Return(nil, payment.ErrGatewayNetwork)

		_, err := f.svc.Webhook(context.Background(), body, "sig")

		assert.ErrorIs(t, err, shared.ErrGatewayNetwork)
		f.idempotency.AssertExpectations(t)
	})

	t.Run("unsettled charge releases the key", func(t *testing.T) {
		f := newFixture(t)
		p := f.pendingPayment(t)
		event := &payment.WebhookEvent{ID: "80", Event: "charge.success", Reference: p.Reference}
		f.gateway.On("ParseWebhook", body, "sig").Return(event, nil)
		f.idempotency.On("MarkProcessed", mock.Anything, "webhook:charge.success:80", webhookDedupTTL).Return(true, nil)
		f.idempotency.On("Forget", mock.Anything, "webhook:charge.success:80").Return(nil)
		f.payments.On("FindByReference", mock.Anything, p.Reference).Return(p, nil)
		f.gateway.On("Verify", mock.Anything, p.Reference).
			Return(&payment.VerifyResponse{Reference: p.Reference, Status: payment.GatewayStatusProcessing}, nil)

		res, err := f.svc.Webhook(context.Background(), body, "sig")

		require.NoError(t, err)
		assert.Equal(t, payment.StatusPending, res.Status)
		f.idempotency.AssertExpectations(t)
	})
}

func TestList(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	p.RawResponse = `{"secret":"x"}`
	f.payments.On("List", mock.Anything, mock.MatchedBy(func(q payment.Query) bool {
		return q.Status == payment.StatusPending && q.Page == 1 && q.PageSize == 20
	})).Return([]payment.Payment{*p}, int64(1), nil)

	res, err := f.svc.List(context.Background(), ListPaymentsRequest{Status: "pending"})

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Empty(t, res.Items[0].RawResponse)
	assert.Equal(t, 1, res.TotalPages)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	p := f.pendingPayment(t)
	p.RawResponse = `{"status":true}`
	f.payments.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	res, err := f.svc.Get(context.Background(), p.ID)

	require.NoError(t, err)
	assert.Equal(t, `{"status":true}`, res.RawResponse)
}
