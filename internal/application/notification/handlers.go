package notification

import (
	"context"

	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// Mailer delivers e-mails
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// OrderPaidHandler sends the order and payment confirmations for a newly paid order.
// Delivery failures are logged and swallowed; the order is already committed.
type OrderPaidHandler struct {
	orders   order.Repository
	composer *Composer
	mailer   Mailer
	logger   *zap.Logger
}

// NewOrderPaidHandler creates a new OrderPaidHandler
func NewOrderPaidHandler(orders order.Repository, composer *Composer, mailer Mailer, logger *zap.Logger) *OrderPaidHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderPaidHandler{orders: orders, composer: composer, mailer: mailer, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderPaidHandler) EventTypes() []string {
	return []string{order.EventTypeOrderPaid}
}

// Handle sends both confirmation mails
func (h *OrderPaidHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*order.PaidEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload", zap.String("event_type", event.EventType()))
		return nil
	}
	log := h.logger.With(zap.String("order_number", paid.OrderNumber))

	o, err := h.orders.FindByID(ctx, paid.OrderID)
	if err != nil {
		log.Error("Failed to load order for confirmation mail", zap.Error(err))
		return nil
	}

	if msg, err := h.composer.OrderConfirmation(o); err != nil {
		log.Error("Failed to render order confirmation", zap.Error(err))
	} else {
		h.send(ctx, log, msg)
	}
	if msg, err := h.composer.PaymentConfirmation(o, paid.Reference); err != nil {
		log.Error("Failed to render payment confirmation", zap.Error(err))
	} else {
		h.send(ctx, log, msg)
	}
	return nil
}

func (h *OrderPaidHandler) send(ctx context.Context, log *zap.Logger, msg Message) {
	if msg.To == "" {
		log.Warn("Order has no e-mail, skipping notification", zap.String("subject", msg.Subject))
		return
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		log.Error("Failed to send e-mail", zap.String("subject", msg.Subject), zap.Error(err))
		return
	}
	log.Info("E-mail sent", zap.String("subject", msg.Subject))
}

// StatusChangedHandler tells the customer about staff status edits
type StatusChangedHandler struct {
	composer *Composer
	mailer   Mailer
	logger   *zap.Logger
}

// NewStatusChangedHandler creates a new StatusChangedHandler
func NewStatusChangedHandler(composer *Composer, mailer Mailer, logger *zap.Logger) *StatusChangedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusChangedHandler{composer: composer, mailer: mailer, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *StatusChangedHandler) EventTypes() []string {
	return []string{order.EventTypeOrderStatusChanged}
}

// Handle sends the status update mail
func (h *StatusChangedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*order.StatusChangedEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload", zap.String("event_type", event.EventType()))
		return nil
	}
	log := h.logger.With(
		zap.String("order_number", changed.OrderNumber),
		zap.String("status", changed.To.String()))

	if changed.Email == "" {
		log.Warn("Order has no e-mail, skipping status update")
		return nil
	}
	msg, err := h.composer.StatusUpdate(changed)
	if err != nil {
		log.Error("Failed to render status update", zap.Error(err))
		return nil
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		log.Error("Failed to send status update", zap.Error(err))
		return nil
	}
	log.Info("Status update e-mail sent")
	return nil
}
