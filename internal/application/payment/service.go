// Package payment initializes gateway transactions for pending checkouts and
// reconciles their outcome exactly once.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/domain/shared/valueobject"
	"github.com/mbvogue/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	// DefaultCurrency is used when none is configured
	DefaultCurrency = string(valueobject.DefaultCurrency)
	// webhookDedupTTL is how long processed webhook events are remembered
	webhookDedupTTL = 72 * time.Hour
	// maxOrderNumberAttempts bounds order number collision retries
	maxOrderNumberAttempts = 10
)

var (
	errPaymentNotFound = shared.NewDomainError(shared.CodeNotFound, "Payment not found")
	errMissingRef      = shared.NewDomainError(shared.CodeInvalidInput, "Payment reference is required")
	errSettleLost      = errors.New("payment settled concurrently")
)

// CheckoutLoader resolves a pending checkout owned by a user
type CheckoutLoader interface {
	Load(ctx context.Context, token string, userID uuid.UUID) (*order.PendingCheckout, error)
}

// VerificationRecorder observes reconciliation outcomes
type VerificationRecorder interface {
	RecordVerification(outcome string)
}

// ServiceConfig holds the collaborators of the payment Service
type ServiceConfig struct {
	Gateway     payment.Gateway
	Payments    payment.Repository
	Orders      order.Repository
	Checkouts   order.CheckoutRepository
	Loader      CheckoutLoader
	TxScope     TransactionScope
	Publisher   shared.EventPublisher
	Idempotency shared.IdempotencyStore
	Recorder    VerificationRecorder
	CallbackURL string
	Currency    string
	Now         func() time.Time
	Logger      *zap.Logger
}

// Service drives the payment state machine
// pending -> success | failed | abandoned.
type Service struct {
	gateway     payment.Gateway
	payments    payment.Repository
	orders      order.Repository
	checkouts   order.CheckoutRepository
	loader      CheckoutLoader
	txScope     TransactionScope
	publisher   shared.EventPublisher
	idempotency shared.IdempotencyStore
	recorder    VerificationRecorder
	callbackURL string
	currency    string
	now         func() time.Time
	logger      *zap.Logger
}

// NewService creates a new payment Service
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	currency := cfg.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Service{
		gateway:     cfg.Gateway,
		payments:    cfg.Payments,
		orders:      cfg.Orders,
		checkouts:   cfg.Checkouts,
		loader:      cfg.Loader,
		txScope:     cfg.TxScope,
		publisher:   cfg.Publisher,
		idempotency: cfg.Idempotency,
		recorder:    cfg.Recorder,
		callbackURL: cfg.CallbackURL,
		currency:    currency,
		now:         now,
		logger:      logger,
	}
}

// Initialize registers a gateway transaction for the checkout. A checkout
// that already has a pending payment gets the same reference back, including
// when a concurrent call stores its payment first. When the gateway call
// fails no payment is stored.
func (s *Service) Initialize(ctx context.Context, userID uuid.UUID, token string) (*InitializeResult, error) {
	ctx, span := telemetry.Start(ctx, "payment", "initialize", telemetry.AttrCheckoutToken.String(token))
	defer span.End()

	c, err := s.loader.Load(ctx, token, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.payments.FindPendingByCheckout(ctx, c.Token)
	switch {
	case err == nil:
		return reusedResult(existing), nil
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	reference, err := payment.GenerateReference(ctx, s.payments.ReferenceExists)
	if err != nil {
		return nil, err
	}

	req := &payment.InitializeRequest{
		Email:         c.Shipping.Email,
		Amount:        c.Total,
		Currency:      s.currency,
		Reference:     reference,
		CallbackURL:   s.callbackURL,
		UserID:        userID,
		CheckoutToken: c.Token,
		CustomFields: map[string]string{
			"Customer Name": c.Shipping.FullName,
			"Phone":         c.Shipping.Phone,
		},
	}
	span.SetAttributes(telemetry.AttrReference.String(reference))
	init, err := s.gateway.Initialize(ctx, req)
	if err != nil {
		telemetry.Fail(span, err)
		s.logger.Warn("Payment initialization failed",
			zap.String("reference", reference),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, err
	}

	p, err := payment.NewPayment(userID, c.Token, reference, c.Total, s.currency, init)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, shared.ErrDuplicateReference) {
			// a concurrent initialize for this checkout stored its payment first
			if winner, ferr := s.payments.FindPendingByCheckout(ctx, c.Token); ferr == nil {
				s.logger.Info("Checkout already has a pending payment, reusing it",
					zap.String("reference", winner.Reference),
					zap.String("discarded_reference", reference))
				return reusedResult(winner), nil
			}
		}
		return nil, fmt.Errorf("store payment %s: %w", reference, err)
	}

	s.logger.Info("Payment initialized",
		zap.String("reference", reference),
		zap.String("user_id", userID.String()),
		zap.String("amount", p.Amount.StringFixed(2)))
	return &InitializeResult{
		Reference:        p.Reference,
		AuthorizationURL: p.AuthorizationURL,
		AccessCode:       p.AccessCode,
		Amount:           p.Amount,
		Currency:         p.Currency,
	}, nil
}

func reusedResult(p *payment.Payment) *InitializeResult {
	return &InitializeResult{
		Reference:        p.Reference,
		AuthorizationURL: p.AuthorizationURL,
		AccessCode:       p.AccessCode,
		Amount:           p.Amount,
		Currency:         p.Currency,
		Reused:           true,
	}
}

// Verify reconciles a reference with the gateway. userID scopes the lookup
// to the payer; uuid.Nil is used by the gateway-facing callback and webhook.
func (s *Service) Verify(ctx context.Context, reference string, userID uuid.UUID) (*VerifyResult, error) {
	ctx, span := telemetry.Start(ctx, "payment", "verify", telemetry.AttrReference.String(reference))
	defer span.End()

	result, err := s.verify(ctx, reference, userID)
	if err != nil {
		telemetry.Fail(span, err)
		s.record("error")
		return nil, err
	}
	span.SetAttributes(telemetry.AttrPaymentStatus.String(result.Status.String()))
	if result.OrderNumber != "" {
		span.SetAttributes(telemetry.AttrOrderNumber.String(result.OrderNumber))
	}
	if result.AlreadyVerified {
		s.record("already_verified")
	} else {
		s.record(result.Status.String())
	}
	return result, nil
}

func (s *Service) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordVerification(outcome)
	}
}

func (s *Service) verify(ctx context.Context, reference string, userID uuid.UUID) (*VerifyResult, error) {
	if reference == "" {
		return nil, errMissingRef
	}
	p, err := s.payments.FindByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if userID != uuid.Nil && p.UserID != userID {
		return nil, errPaymentNotFound
	}

	if p.Status.IsTerminal() {
		return s.settledResult(ctx, p), nil
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Warn("Payment verification failed, payment left pending",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, err
	}

	if result.Succeeded && !result.Amount.Equal(p.Amount) {
		s.logger.Error("Gateway amount does not match payment",
			zap.String("reference", reference),
			zap.String("expected", p.Amount.StringFixed(2)),
			zap.String("received", result.Amount.StringFixed(2)))
		result.Succeeded = false
		result.Status = payment.GatewayStatusFailed
	}

	if !result.Final() {
		s.logger.Info("Payment not completed at the gateway yet, left pending",
			zap.String("reference", reference),
			zap.String("gateway_status", string(result.Status)))
		return &VerifyResult{
			Reference: p.Reference,
			Status:    payment.StatusPending,
			Message:   "Payment has not been completed yet. Please try again shortly.",
		}, nil
	}
	if !result.Succeeded {
		return s.settleFailure(ctx, p, result)
	}
	return s.settleSuccess(ctx, p, result)
}

// Callback handles the customer's redirect back from the gateway. The
// gateway sends the reference as reference or trxref.
func (s *Service) Callback(ctx context.Context, reference, trxref string) (*VerifyResult, error) {
	if reference == "" {
		reference = trxref
	}
	return s.Verify(ctx, reference, uuid.Nil)
}

// Webhook authenticates a gateway notification and verifies the referenced
// payment on charge.success. Each event is processed once.
func (s *Service) Webhook(ctx context.Context, body []byte, signature string) (*WebhookResult, error) {
	event, err := s.gateway.ParseWebhook(body, signature)
	if err != nil {
		return nil, err
	}
	out := &WebhookResult{Event: event.Event, Reference: event.Reference}
	if !event.IsChargeSuccess() || event.Reference == "" {
		out.Ignored = true
		return out, nil
	}

	key := event.DedupKey()
	if s.idempotency != nil {
		fresh, err := s.idempotency.MarkProcessed(ctx, key, webhookDedupTTL)
		if err != nil {
			s.logger.Warn("Idempotency store unavailable, verifying anyway", zap.String("key", key), zap.Error(err))
		} else if !fresh {
			out.Duplicate = true
			return out, nil
		}
	}

	result, err := s.Verify(ctx, event.Reference, uuid.Nil)
	if err != nil {
		if s.idempotency != nil {
			if ferr := s.idempotency.Forget(ctx, key); ferr != nil {
				s.logger.Warn("Failed to release webhook key", zap.String("key", key), zap.Error(ferr))
			}
		}
		return nil, err
	}
	if result.Status == payment.StatusPending && s.idempotency != nil {
		// let the gateway's next delivery verify again
		if ferr := s.idempotency.Forget(ctx, key); ferr != nil {
			s.logger.Warn("Failed to release webhook key", zap.String("key", key), zap.Error(ferr))
		}
	}
	out.Status = result.Status
	return out, nil
}

func (s *Service) settleFailure(ctx context.Context, p *payment.Payment, result *payment.VerifyResponse) (*VerifyResult, error) {
	if err := p.Settle(result, s.now()); err != nil {
		return nil, err
	}
	settled, err := s.payments.CompareAndSettle(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("settle payment %s: %w", p.Reference, err)
	}
	if !settled {
		current, err := s.payments.FindByReference(ctx, p.Reference)
		if err != nil {
			return nil, err
		}
		return s.settledResult(ctx, current), nil
	}

	s.logger.Info("Payment not successful",
		zap.String("reference", p.Reference),
		zap.String("status", p.Status.String()),
		zap.String("gateway_status", string(result.Status)),
		zap.String("gateway_message", result.GatewayMessage))
	return &VerifyResult{
		Reference: p.Reference,
		Status:    p.Status,
		Message:   "Payment was not successful.",
	}, nil
}

// settleSuccess turns the checkout snapshot into a paid order. The payment
// transition, order insert, stock decrements and cart cleanup commit
// together or not at all.
func (s *Service) settleSuccess(ctx context.Context, p *payment.Payment, result *payment.VerifyResponse) (*VerifyResult, error) {
	c, err := s.checkouts.FindByToken(ctx, p.CheckoutToken)
	if errors.Is(err, shared.ErrNotFound) {
		// a concurrent verification may have settled and removed it
		if current, ferr := s.payments.FindByReference(ctx, p.Reference); ferr == nil && current.Status.IsTerminal() {
			return s.settledResult(ctx, current), nil
		}
	}
	if err != nil {
		s.logger.Error("Checkout missing for successful payment",
			zap.String("reference", p.Reference),
			zap.String("checkout_token", p.CheckoutToken),
			zap.Error(err))
		return nil, err
	}

	number, err := s.orderNumber(ctx)
	if err != nil {
		return nil, err
	}
	o, err := order.Build(p.UserID, number, c.Lines, c.Shipping)
	if err != nil {
		return nil, err
	}
	if err := o.MarkPaid(p.Reference); err != nil {
		return nil, err
	}
	if err := p.Settle(result, s.now()); err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		settled, err := repos.Payments().CompareAndSettle(ctx, p)
		if err != nil {
			return err
		}
		if !settled {
			return errSettleLost
		}
		if err := repos.Orders().Create(ctx, o); err != nil {
			return err
		}
		if err := repos.Payments().LinkOrder(ctx, p.ID, o.ID); err != nil {
			return err
		}
		for _, item := range o.Items {
			if err := repos.Variants().DecrementStock(ctx, item.VariantID, item.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) {
					return shared.WrapDomainError(shared.CodeInsufficientStock,
						fmt.Sprintf("%s (%s, %s) is out of stock", item.ProductName, item.Size, item.Color), err)
				}
				return err
			}
		}
		if err := repos.Checkouts().Delete(ctx, c.Token); err != nil {
			return err
		}
		return repos.Carts().Clear(ctx, p.UserID)
	})

	switch {
	case errors.Is(err, errSettleLost):
		current, ferr := s.payments.FindByReference(ctx, p.Reference)
		if ferr != nil {
			return nil, ferr
		}
		return s.settledResult(ctx, current), nil
	case errors.Is(err, shared.ErrInsufficientStock):
		s.logger.Error("Paid checkout could not be fulfilled, payment left pending for staff follow-up",
			zap.String("reference", p.Reference),
			zap.String("user_id", p.UserID.String()),
			zap.Error(err))
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("create order for payment %s: %w", p.Reference, err)
	}

	s.logger.Info("Payment verified, order created",
		zap.String("reference", p.Reference),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.TotalPrice.StringFixed(2)))
	s.publishEvents(ctx, o)

	return &VerifyResult{
		Reference:   p.Reference,
		Status:      payment.StatusSuccess,
		OrderID:     &o.ID,
		OrderNumber: o.OrderNumber,
		Message:     "Payment successful! Your order has been placed.",
	}, nil
}

// settledResult describes a payment that already left pending. No writes.
func (s *Service) settledResult(ctx context.Context, p *payment.Payment) *VerifyResult {
	res := &VerifyResult{Reference: p.Reference, Status: p.Status}
	if !p.IsSuccessful() {
		res.Message = "Payment was not successful."
		return res
	}
	res.AlreadyVerified = true
	res.Message = "Payment already verified."
	res.OrderID = p.OrderID
	if p.OrderID != nil && s.orders != nil {
		if o, err := s.orders.FindByID(ctx, *p.OrderID); err == nil {
			res.OrderNumber = o.OrderNumber
		}
	}
	return res
}

func (s *Service) orderNumber(ctx context.Context) (string, error) {
	for i := 0; i < maxOrderNumberAttempts; i++ {
		number, err := order.NewOrderNumber(s.now())
		if err != nil {
			return "", err
		}
		taken, err := s.orders.ExistsByNumber(ctx, number)
		if err != nil {
			return "", fmt.Errorf("check order number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", shared.ErrDuplicateReference
}

func (s *Service) publishEvents(ctx context.Context, o *order.Order) {
	events := o.GetDomainEvents()
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish order events",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
	}
	o.ClearDomainEvents()
}

// List returns payments for staff
func (s *Service) List(ctx context.Context, req ListPaymentsRequest) (shared.Paginated[PaymentResponse], error) {
	page, size := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	q := payment.Query{
		Status: payment.Status(req.Status),
		Filter: shared.Filter{Page: page, PageSize: size, Search: req.Search},
	}
	items, total, err := s.payments.List(ctx, q)
	if err != nil {
		return shared.Paginated[PaymentResponse]{}, err
	}
	return toPaymentList(items, total, page, size), nil
}

// Get returns one payment with its raw gateway response
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p, true)
	return &resp, nil
}
