// Package checkout turns a user's cart into a priced, short-lived pending
// checkout that the payment flow pays for.
package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DefaultTTL is the lifetime of a pending checkout when none is configured
const DefaultTTL = 30 * time.Minute

var errCheckoutNotFound = shared.NewDomainError(shared.CodeNotFound, "Checkout not found")

// Service starts and reads pending checkouts
type Service struct {
	carts     cart.Repository
	checkouts order.CheckoutRepository
	users     identity.Repository
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures the Service
type Option func(*Service)

// WithTTL sets the checkout lifetime
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new checkout Service
func NewService(carts cart.Repository, checkouts order.CheckoutRepository, users identity.Repository, opts ...Option) *Service {
	s := &Service{
		carts:     carts,
		checkouts: checkouts,
		users:     users,
		ttl:       DefaultTTL,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin snapshots the user's cart at current prices into a pending
// checkout. No order is created and stock is not touched.
func (s *Service) Begin(ctx context.Context, userID uuid.UUID, req BeginRequest) (_ *Response, err error) {
	ctx, span := telemetry.Start(ctx, "checkout", "begin")
	defer func() {
		telemetry.Fail(span, err)
		span.End()
	}()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.carts.FindItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := snapshot(items)
	if err != nil {
		return nil, err
	}

	c, err := order.NewPendingCheckout(userID, lines, shippingFor(user, req), s.ttl, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.checkouts.Save(ctx, c); err != nil {
		return nil, err
	}
	span.SetAttributes(
		telemetry.AttrCheckoutToken.String(c.Token),
		telemetry.AttrCartLines.Int(len(c.Lines)))

	s.logger.Info("Checkout started",
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(c.Lines)),
		zap.String("total", c.Total.StringFixed(2)))
	return toResponse(c), nil
}

// Get returns a checkout owned by the user. Expired checkouts are reported
// with ErrCheckoutExpired and removed unless a payment for them is pending.
func (s *Service) Get(ctx context.Context, token string, userID uuid.UUID) (*Response, error) {
	c, err := s.Load(ctx, token, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

// Load is Get returning the domain record
func (s *Service) Load(ctx context.Context, token string, userID uuid.UUID) (*order.PendingCheckout, error) {
	c, err := s.checkouts.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !c.BelongsTo(userID) {
		return nil, errCheckoutNotFound
	}
	if c.IsExpired(s.now()) {
		removed, err := s.checkouts.DeleteUnpaid(ctx, token)
		switch {
		case err != nil:
			s.logger.Warn("Failed to delete expired checkout", zap.String("token", token), zap.Error(err))
		case !removed:
			s.logger.Info("Expired checkout kept for its pending payment", zap.String("token", token))
		}
		return nil, order.ErrCheckoutExpired
	}
	return c, nil
}

// PurgeExpired deletes checkouts that expired before now
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.checkouts.DeleteExpired(ctx, s.now())
}

// snapshot prices every line at the variant's effective price. Lines whose
// variant vanished are skipped; unavailable or oversold lines abort.
func snapshot(items []cart.Item) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(items))
	for _, it := range items {
		v := it.Variant
		if v == nil {
			continue
		}
		if !v.IsAvailable() {
			return nil, shared.NewDomainError(shared.CodeInsufficientStock, v.Label()+" is no longer available.")
		}
		if it.Quantity > v.Stock {
			return nil, shared.WrapDomainError(shared.CodeInsufficientStock,
				v.Label()+": "+cart.NewInsufficientStockError(v.Stock).Message, cart.NewInsufficientStockError(v.Stock))
		}
		name := ""
		if v.Product != nil {
			name = v.Product.Name
		}
		lines = append(lines, order.Line{
			VariantID:   v.ID,
			ProductID:   v.ProductID,
			ProductName: name,
			Size:        string(v.Size),
			Color:       string(v.Color),
			UnitPrice:   v.EffectivePrice(),
			Quantity:    it.Quantity,
		})
	}
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}
	return lines, nil
}

func shippingFor(u *identity.User, req BeginRequest) order.Shipping {
	return order.Shipping{
		FullName:   firstNonBlank(req.FullName, u.FullName),
		Email:      firstNonBlank(req.Email, u.Email),
		Phone:      firstNonBlank(req.Phone, u.Phone),
		Address:    firstNonBlank(req.Address, u.Address),
		City:       firstNonBlank(req.City, u.City),
		State:      firstNonBlank(req.State, u.State),
		PostalCode: firstNonBlank(req.PostalCode, u.PostalCode),
		Country:    firstNonBlank(req.Country, u.Country),
		Notes:      req.Notes,
	}.Normalize()
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
