package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mbvogue/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	defaultQueueSize = 256
	defaultWorkers   = 2
)

// ErrBusStopped is returned by Start after Stop
var ErrBusStopped = errors.New("event bus stopped")

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus fans domain events out to subscribed handlers.
//
// Until Start is called, Publish dispatches inline. Once started, events are
// queued and handled by a small worker pool so mail delivery stays off the
// request path; a full queue falls back to inline dispatch rather than
// dropping the event. Handler errors and panics are logged and never reach
// the publisher.
type InMemoryEventBus struct {
	registry  *HandlerRegistry
	logger    *zap.Logger
	queueSize int
	workers   int

	mu      sync.RWMutex
	queue   chan envelope
	stopped bool
	wg      sync.WaitGroup
}

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithQueue sets the queue capacity and worker count used after Start
func WithQueue(size, workers int) BusOption {
	return func(b *InMemoryEventBus) {
		if size > 0 {
			b.queueSize = size
		}
		if workers > 0 {
			b.workers = workers
		}
	}
}

func NewInMemoryEventBus(log *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if log == nil {
		log = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry:  NewHandlerRegistry(),
		logger:    log.Named("events"),
		queueSize: defaultQueueSize,
		workers:   defaultWorkers,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish hands each event to its handlers. It never fails.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ev := range events {
		if b.queue == nil {
			b.deliver(ctx, ev)
			continue
		}
		// detached so a finished request does not cancel the notification
		env := envelope{ctx: context.WithoutCancel(ctx), event: ev}
		select {
		case b.queue <- env:
		default:
			b.logger.Warn("Event queue full, dispatching inline", zap.String("event_type", ev.EventType()))
			b.deliver(env.ctx, ev)
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for its own EventTypes when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start switches the bus to queued delivery. Calling it twice is a no-op.
func (b *InMemoryEventBus) Start(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.stopped {
		return ErrBusStopped
	}
	if b.queue != nil {
		return nil
	}

	b.queue = make(chan envelope, b.queueSize)
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work(b.queue)
	}
	b.logger.Info("Event bus started", zap.Int("workers", b.workers), zap.Int("queue_size", b.queueSize))
	return nil
}

// Stop closes the queue and waits for queued events to be handled, or for
// ctx to end. Publish after Stop dispatches inline.
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	b.stopped = true
	queue := b.queue
	b.queue = nil
	b.mu.Unlock()

	if queue == nil {
		return nil
	}
	close(queue)

	drained := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("Event bus stopped before the queue drained", zap.Int("pending", len(queue)))
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) work(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.deliver(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) deliver(ctx context.Context, ev shared.DomainEvent) {
	for _, handler := range b.registry.Handlers(ev.EventType()) {
		if err := safeHandle(ctx, handler, ev); err != nil {
			b.logger.Error("Event handler failed",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.String("aggregate_id", ev.AggregateID().String()),
				zap.Error(err),
			)
		}
	}
}

func safeHandle(ctx context.Context, handler shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, ev)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
