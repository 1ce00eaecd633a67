package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

// RecordingHandler is a shared.EventHandler that remembers every delivery
// together with the context it arrived in.
type RecordingHandler struct {
	types []string

	mu         sync.Mutex
	deliveries []delivery
	err        error
}

type delivery struct {
	ctx   context.Context
	event shared.DomainEvent
}

func NewRecordingHandler(eventTypes ...string) *RecordingHandler {
	return &RecordingHandler{types: eventTypes}
}

func (h *RecordingHandler) EventTypes() []string { return h.types }

func (h *RecordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliveries = append(h.deliveries, delivery{ctx: ctx, event: event})
	return h.err
}

// FailWith makes later deliveries return err (nil restores success)
func (h *RecordingHandler) FailWith(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Handled returns the events delivered so far, oldest first
func (h *RecordingHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.deliveries))
	for i, d := range h.deliveries {
		out[i] = d.event
	}
	return out
}

// Contexts returns the context of each delivery, oldest first
func (h *RecordingHandler) Contexts() []context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]context.Context, len(h.deliveries))
	for i, d := range h.deliveries {
		out[i] = d.ctx
	}
	return out
}

func (h *RecordingHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.deliveries)
}

// OpaqueEvent carries only the base fields. Handlers that type-assert their
// payload should ignore it.
type OpaqueEvent struct {
	shared.BaseDomainEvent
}

// NewTestEvent builds an OpaqueEvent of eventType on a random order id
func NewTestEvent(eventType string) *OpaqueEvent {
	return &OpaqueEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

// WaitForEventCount reports whether handler reached count deliveries within timeout
func WaitForEventCount(t *testing.T, handler *RecordingHandler, count int, timeout time.Duration) bool {
	t.Helper()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	deadline := time.After(timeout)
	for handler.HandledCount() < count {
		select {
		case <-tick.C:
		case <-deadline:
			return false
		}
	}
	return true
}
