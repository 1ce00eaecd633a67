package payment

import (
	"context"

	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
)

// TransactionScope runs reconciliation writes in one database transaction.
// If fn returns an error the transaction is rolled back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories touched when a verified
// payment becomes an order. All of them share the same transaction.
type TransactionalRepositories interface {
	Payments() payment.Repository
	Orders() order.Repository
	Variants() catalog.VariantRepository
	Checkouts() order.CheckoutRepository
	Carts() cart.Repository
}

// Repositories is a plain TransactionalRepositories value
type Repositories struct {
	PaymentRepo  payment.Repository
	OrderRepo    order.Repository
	VariantRepo  catalog.VariantRepository
	CheckoutRepo order.CheckoutRepository
	CartRepo     cart.Repository
}

func (r Repositories) Payments() payment.Repository        { return r.PaymentRepo }
func (r Repositories) Orders() order.Repository            { return r.OrderRepo }
func (r Repositories) Variants() catalog.VariantRepository { return r.VariantRepo }
func (r Repositories) Checkouts() order.CheckoutRepository { return r.CheckoutRepo }
func (r Repositories) Carts() cart.Repository              { return r.CartRepo }

// NoOpTransactionScope hands fixed repositories to fn without a transaction.
// Tests use it with mocks.
type NoOpTransactionScope struct {
	Repos TransactionalRepositories
}

// Execute calls fn directly
func (s NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.Repos)
}

var _ TransactionalRepositories = Repositories{}
