package order

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder names the order aggregate in events
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPaid          = "OrderPaid"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
)

// PaidEvent is raised once, when a verified payment turns a checkout into an order
type PaidEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      uuid.UUID       `json:"user_id"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	Total       decimal.Decimal `json:"total"`
	Reference   string          `json:"reference"`
}

// NewPaidEvent creates a PaidEvent
func NewPaidEvent(o *Order, reference string) *PaidEvent {
	return &PaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Email:           o.Shipping.Email,
		FullName:        o.Shipping.FullName,
		Total:           o.TotalPrice,
		Reference:       reference,
	}
}

// StatusChangedEvent is raised on staff status edits
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	From        Status    `json:"from"`
	To          Status    `json:"to"`
}

// NewStatusChangedEvent creates a StatusChangedEvent
func NewStatusChangedEvent(o *Order, from, to Status) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Email:           o.Shipping.Email,
		FullName:        o.Shipping.FullName,
		From:            from,
		To:              to,
	}
}
