// Package order holds the checkout snapshot and the immutable order it turns into.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Errors raised while assembling orders
var (
	ErrEmptyCart     = shared.NewDomainError(shared.CodeValidation, "Your cart is empty")
	ErrMissingPhone  = shared.NewDomainError(shared.CodeValidation, "A phone number is required for delivery")
	ErrInvalidLine   = shared.NewDomainError(shared.CodeValidation, "Order line must have a positive quantity and a non-negative price")
	ErrInvalidStatus = shared.NewDomainError(shared.CodeInvalidInput, "Unknown order status")
)

// Shipping is the delivery identity captured at checkout
type Shipping struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Notes      string `json:"notes"`
}

// Normalize trims every field
func (s Shipping) Normalize() Shipping {
	return Shipping{
		FullName:   strings.TrimSpace(s.FullName),
		Email:      strings.TrimSpace(s.Email),
		Phone:      strings.TrimSpace(s.Phone),
		Address:    strings.TrimSpace(s.Address),
		City:       strings.TrimSpace(s.City),
		State:      strings.TrimSpace(s.State),
		PostalCode: strings.TrimSpace(s.PostalCode),
		Country:    strings.TrimSpace(s.Country),
		Notes:      strings.TrimSpace(s.Notes),
	}
}

// Line is a priced snapshot of one cart entry
type Line struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal is unit price x quantity
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Item is an order line. It never changes after the order is built.
type Item struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	VariantID   uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Size        string
	Color       string
	UnitPrice   decimal.Decimal
	Quantity    int
	CreatedAt   time.Time
}

// Subtotal is unit price x quantity
func (i Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root. Only status, updated_at and version change after creation.
type Order struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	OrderNumber string
	Status      Status
	TotalPrice  decimal.Decimal
	Shipping    Shipping
	Items       []Item
}

// Build assembles a pending order from snapshot lines. The total is the
// sum of line subtotals at build time and is never recomputed.
func Build(userID uuid.UUID, orderNumber string, lines []Line, shipping Shipping) (*Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	shipping = shipping.Normalize()
	if shipping.Phone == "" {
		return nil, ErrMissingPhone
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order must belong to a user")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OrderNumber:       orderNumber,
		Status:            StatusPending,
		TotalPrice:        decimal.Zero,
		Shipping:          shipping,
		Items:             make([]Item, 0, len(lines)),
	}
	for _, l := range lines {
		if l.Quantity < 1 || l.UnitPrice.IsNegative() {
			return nil, ErrInvalidLine
		}
		o.Items = append(o.Items, Item{
			ID:          uuid.New(),
			OrderID:     o.ID,
			VariantID:   l.VariantID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Size:        l.Size,
			Color:       l.Color,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
			CreatedAt:   o.CreatedAt,
		})
		o.TotalPrice = o.TotalPrice.Add(l.Subtotal())
	}
	return o, nil
}

// MarkPaid moves a pending order to paid and records the payment reference
func (o *Order) MarkPaid(reference string) error {
	if err := o.TransitionTo(StatusPaid); err != nil {
		return err
	}
	o.AddDomainEvent(NewPaidEvent(o, reference))
	return nil
}

// TransitionTo applies a status change allowed by Status.CanTransitionTo.
// Staff edits and payment reconciliation share this contract.
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	from := o.Status
	o.Status = target
	o.Touch()
	o.IncrementVersion()
	if target != StatusPaid {
		o.AddDomainEvent(NewStatusChangedEvent(o, from, target))
	}
	return nil
}

// ItemCount is the total number of units in the order
func (o *Order) ItemCount() int {
	n := 0
	for _, i := range o.Items {
		n += i.Quantity
	}
	return n
}

// IsPaid reports whether the order has been paid for (any post-payment status)
func (o *Order) IsPaid() bool {
	switch o.Status {
	case StatusPaid, StatusProcessing, StatusShipped, StatusDelivered:
		return true
	}
	return false
}
