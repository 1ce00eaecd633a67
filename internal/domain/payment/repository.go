package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

// Query filters payment listings
type Query struct {
	Status Status
	shared.Filter
}

// Repository persists payments
type Repository interface {
	// Create fails with shared.ErrDuplicateReference when the reference is
	// taken or the checkout already has a pending payment.
	Create(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByReference(ctx context.Context, reference string) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*Payment, error)
	// FindPendingByCheckout returns the pending payment started for a checkout token
	FindPendingByCheckout(ctx context.Context, token string) (*Payment, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	// CompareAndSettle moves the payment from pending to p.Status and stores
	// the gateway details. It returns false when the payment was no longer
	// pending, leaving the row untouched.
	CompareAndSettle(ctx context.Context, p *Payment) (bool, error)
	// LinkOrder records the order created for a successful payment
	LinkOrder(ctx context.Context, paymentID, orderID uuid.UUID) error
	List(ctx context.Context, q Query) ([]Payment, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
}
