package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

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
	if fn, ok := args.Get(0).(func([]uuid.UUID) []catalog.Variant); ok {
		return fn(ids), args.Error(1)
	}
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

// memorySessions is a map backed cart.SessionStore
type memorySessions struct {
	mu    sync.Mutex
	carts map[string]cart.SessionCart
}

func newMemorySessions() *memorySessions {
	return &memorySessions{carts: make(map[string]cart.SessionCart)}
}

func (m *memorySessions) Load(_ context.Context, sid string) (cart.SessionCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := cart.SessionCart{}
	for k, v := range m.carts[sid] {
		out[k] = v
	}
	return out, nil
}

func (m *memorySessions) Save(_ context.Context, sid string, c cart.SessionCart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := cart.SessionCart{}
	for k, v := range c {
		cp[k] = v
	}
	m.carts[sid] = cp
	return nil
}

func (m *memorySessions) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sid)
	return nil
}

// memoryCarts mimics the clamped upsert of the SQL repository
type memoryCarts struct {
	mu       sync.Mutex
	qty      map[uuid.UUID]map[uuid.UUID]int
	variants map[uuid.UUID]*catalog.Variant
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{
		qty:      make(map[uuid.UUID]map[uuid.UUID]int),
		variants: make(map[uuid.UUID]*catalog.Variant),
	}
}

func (m *memoryCarts) lines(userID uuid.UUID) map[uuid.UUID]int {
	if m.qty[userID] == nil {
		m.qty[userID] = make(map[uuid.UUID]int)
	}
	return m.qty[userID]
}

func (m *memoryCarts) GetOrCreate(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return cart.NewCart(userID), nil
}

func (m *memoryCarts) FindItems(_ context.Context, userID uuid.UUID) ([]cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []cart.Item
	for vid, q := range m.lines(userID) {
		out = append(out, cart.Item{VariantID: vid, Quantity: q, Variant: m.variants[vid]})
	}
	return out, nil
}

func (m *memoryCarts) FindItem(_ context.Context, userID, variantID uuid.UUID) (*cart.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.lines(userID)[variantID]
	if !ok {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Cart item not found")
	}
	return &cart.Item{VariantID: variantID, Quantity: q}, nil
}

func (m *memoryCarts) Increment(_ context.Context, userID, variantID uuid.UUID, delta, max int) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := m.lines(userID)
	before := lines[variantID]
	after := before + delta
	clamped := after > max
	if clamped {
		after = max
	}
	lines[variantID] = after
	return after, clamped, nil
}

func (m *memoryCarts) SetQuantity(_ context.Context, userID, variantID uuid.UUID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines(userID)[variantID] = qty
	return nil
}

func (m *memoryCarts) RemoveItem(_ context.Context, userID, variantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := m.lines(userID)
	if _, ok := lines[variantID]; !ok {
		return false, nil
	}
	delete(lines, variantID)
	return true, nil
}

func (m *memoryCarts) Clear(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.qty, userID)
	return nil
}
