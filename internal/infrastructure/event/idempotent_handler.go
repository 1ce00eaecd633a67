package event

import (
	"context"
	"time"

	"github.com/mbvogue/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultDedupTTL bounds how long a handled event is remembered
const DefaultDedupTTL = 7 * 24 * time.Hour

// IdempotentHandler runs the wrapped handler at most once per
// (event type, aggregate) pair, across instances when the store is shared.
// A failed run releases its key so a later delivery can retry.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler with de-duplication
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// DedupKey identifies one logical occurrence of an event
func DedupKey(event shared.DomainEvent) string {
	return "event:" + event.EventType() + ":" + event.AggregateID().String()
}

// Handle processes the event unless the same occurrence was already handled
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := DedupKey(event)

	first, err := h.store.MarkProcessed(ctx, key, h.ttl)
	if err != nil {
		h.logger.Warn("Idempotency check failed, handling event anyway",
			zap.String("key", key),
			zap.Error(err))
	} else if !first {
		h.logger.Debug("Duplicate event skipped", zap.String("key", key))
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		if ferr := h.store.Forget(ctx, key); ferr != nil {
			h.logger.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(ferr))
		}
		return err
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
