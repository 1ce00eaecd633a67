package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/domain/wishlist"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockCartRepository is a testify mock of cart.Repository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) FindItems(ctx context.Context, userID uuid.UUID) ([]cart.Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Item), args.Error(1)
}

func (m *MockCartRepository) FindItem(ctx context.Context, userID, variantID uuid.UUID) (*cart.Item, error) {
	args := m.Called(ctx, userID, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Item), args.Error(1)
}

func (m *MockCartRepository) Increment(ctx context.Context, userID, variantID uuid.UUID, delta, max int) (int, bool, error) {
	args := m.Called(ctx, userID, variantID, delta, max)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCartRepository) SetQuantity(ctx context.Context, userID, variantID uuid.UUID, qty int) error {
	return m.Called(ctx, userID, variantID, qty).Error(0)
}

func (m *MockCartRepository) RemoveItem(ctx context.Context, userID, variantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, variantID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockCheckoutRepository is a testify mock of order.CheckoutRepository
type MockCheckoutRepository struct {
	mock.Mock
}

func (m *MockCheckoutRepository) Save(ctx context.Context, c *order.PendingCheckout) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCheckoutRepository) FindByToken(ctx context.Context, token string) (*order.PendingCheckout, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.PendingCheckout), args.Error(1)
}

func (m *MockCheckoutRepository) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockCheckoutRepository) DeleteUnpaid(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockCheckoutRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderRepository is a testify mock of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string, userID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, number, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, q order.Query) ([]order.Order, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// MockOrderStatsRepository is a testify mock of order.StatsRepository
type MockOrderStatsRepository struct {
	mock.Mock
}

func (m *MockOrderStatsRepository) CountByStatus(ctx context.Context) (map[order.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[order.Status]int64), args.Error(1)
}

func (m *MockOrderStatsRepository) Revenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockOrderStatsRepository) TopProducts(ctx context.Context, limit int) ([]order.ProductSales, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]order.ProductSales), args.Error(1)
}

func (m *MockOrderStatsRepository) CustomerOrderCounts(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).(map[uuid.UUID]int64), args.Error(1)
}

// MockPaymentRepository is a testify mock of payment.Repository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindPendingByCheckout(ctx context.Context, token string) (*payment.Payment, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	args := m.Called(ctx, reference)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) CompareAndSettle(ctx context.Context, p *payment.Payment) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentRepository) LinkOrder(ctx context.Context, paymentID, orderID uuid.UUID) error {
	return m.Called(ctx, paymentID, orderID).Error(0)
}

func (m *MockPaymentRepository) List(ctx context.Context, q payment.Query) ([]payment.Payment, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]payment.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) CountByStatus(ctx context.Context) (map[payment.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[payment.Status]int64), args.Error(1)
}

// MockGateway is a testify mock of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Initialize(ctx context.Context, req *payment.InitializeRequest) (*payment.InitializeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.InitializeResponse), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.VerifyResponse), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.WebhookEvent), args.Error(1)
}

// MockUserRepository is a testify mock of identity.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListCustomers(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) CountCustomers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockVariantRepository is a testify mock of catalog.VariantRepository
type MockVariantRepository struct {
	mock.Mock
}

func (m *MockVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockVariantRepository) Save(ctx context.Context, v *catalog.Variant) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockVariantRepository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockVariantRepository) FindLowStock(ctx context.Context, threshold, limit int) ([]catalog.Variant, error) {
	args := m.Called(ctx, threshold, limit)
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

// MockProductRepository is a testify mock of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Search(ctx context.Context, q catalog.ProductQuery) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductRepository) SetAllPrices(ctx context.Context, price decimal.Decimal) (int64, error) {
	args := m.Called(ctx, price)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockWishlistRepository is a testify mock of wishlist.Repository
type MockWishlistRepository struct {
	mock.Mock
}

func (m *MockWishlistRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*wishlist.Wishlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*wishlist.Wishlist), args.Error(1)
}

func (m *MockWishlistRepository) Items(ctx context.Context, wishlistID uuid.UUID) ([]wishlist.Item, error) {
	args := m.Called(ctx, wishlistID)
	return args.Get(0).([]wishlist.Item), args.Error(1)
}

func (m *MockWishlistRepository) Add(ctx context.Context, wishlistID, productID uuid.UUID) error {
	return m.Called(ctx, wishlistID, productID).Error(0)
}

func (m *MockWishlistRepository) Remove(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, wishlistID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockWishlistRepository) Contains(ctx context.Context, wishlistID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, wishlistID, productID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher records published events
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	return m.Called(ctx, events).Error(0)
}

// MockIdempotencyStore is a testify mock of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

var (
	_ cart.Repository           = (*MockCartRepository)(nil)
	_ order.CheckoutRepository  = (*MockCheckoutRepository)(nil)
	_ order.Repository          = (*MockOrderRepository)(nil)
	_ order.StatsRepository     = (*MockOrderStatsRepository)(nil)
	_ payment.Repository        = (*MockPaymentRepository)(nil)
	_ payment.Gateway           = (*MockGateway)(nil)
	_ identity.Repository       = (*MockUserRepository)(nil)
	_ catalog.VariantRepository = (*MockVariantRepository)(nil)
	_ catalog.ProductRepository = (*MockProductRepository)(nil)
	_ wishlist.Repository       = (*MockWishlistRepository)(nil)
	_ shared.EventPublisher     = (*MockEventPublisher)(nil)
	_ shared.IdempotencyStore   = (*MockIdempotencyStore)(nil)
)
