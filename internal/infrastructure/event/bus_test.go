package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string, aggregateID uuid.UUID) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", aggregateID)}
}

type testHandler struct {
	mu      sync.Mutex
	types   []string
	handled []shared.DomainEvent
	err     error
	panic   bool
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.panic {
		panic("boom")
	}
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.types }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_RoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	paid := &testHandler{types: []string{"OrderPaid"}}
	changed := &testHandler{types: []string{"OrderStatusChanged"}}
	all := &testHandler{}
	bus.Subscribe(paid)
	bus.Subscribe(changed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPaid", uuid.New())))

	assert.Equal(t, 1, paid.count())
	assert.Equal(t, 0, changed.count())
	assert.Equal(t, 1, all.count())
}

func TestInMemoryEventBus_HandlerFailuresAreContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &testHandler{types: []string{"OrderPaid"}, err: errors.New("smtp down")}
	panicking := &testHandler{types: []string{"OrderPaid"}, panic: true}
	healthy := &testHandler{types: []string{"OrderPaid"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderPaid", uuid.New()))

	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := &testHandler{types: []string{"OrderPaid"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPaid", uuid.New())))
	assert.Equal(t, 0, h.count())
	assert.Empty(t, bus.registry.Handlers("OrderPaid"))
}

func TestInMemoryEventBus_QueuedDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithQueue(4, 1))
	h := testutil.NewRecordingHandler("OrderPaid")
	bus.Subscribe(h)
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("OrderPaid", uuid.New())))
	}
	cancel()

	assert.True(t, testutil.WaitForEventCount(t, h, 10, 2*time.Second))
	for _, ctx := range h.Contexts() {
		assert.NoError(t, ctx.Err(), "queued handlers must not see the publisher's cancellation")
	}
}

func TestInMemoryEventBus_StopDrainsQueue(t *testing.T) {
	bus := NewInMemoryEventBus(nil, WithQueue(16, 1))
	h := testutil.NewRecordingHandler("OrderPaid")
	bus.Subscribe(h)
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Start(context.Background()))

	for i := 0; i < 5; i++ {
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPaid", uuid.New())))
	}
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 5, h.HandledCount())

	assert.ErrorIs(t, bus.Start(context.Background()), ErrBusStopped)

	// inline after stop
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderPaid", uuid.New())))
	assert.Equal(t, 6, h.HandledCount())
}

type memoryStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (s *memoryStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *memoryStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *memoryStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}

func (s *memoryStore) Close() error { return nil }

func TestIdempotentHandler_SkipsSameOccurrence(t *testing.T) {
	inner := &testHandler{types: []string{"OrderPaid"}}
	h := NewIdempotentHandler(inner, &memoryStore{keys: map[string]bool{}}, 0, nil)
	orderID := uuid.New()

	require.NoError(t, h.Handle(context.Background(), newTestEvent("OrderPaid", orderID)))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("OrderPaid", orderID)))
	require.NoError(t, h.Handle(context.Background(), newTestEvent("OrderPaid", uuid.New())))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, []string{"OrderPaid"}, h.EventTypes())
}

func TestIdempotentHandler_FailureReleasesKey(t *testing.T) {
	store := &memoryStore{keys: map[string]bool{}}
	inner := &testHandler{types: []string{"OrderPaid"}, err: errors.New("temporary")}
	h := NewIdempotentHandler(inner, store, time.Hour, nil)
	event := newTestEvent("OrderPaid", uuid.New())

	assert.Error(t, h.Handle(context.Background(), event))
	processed, _ := store.IsProcessed(context.Background(), DedupKey(event))
	assert.False(t, processed)

	inner.err = nil
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, 2, inner.count())
}
