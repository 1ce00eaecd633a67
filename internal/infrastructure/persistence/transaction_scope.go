package persistence

import (
	"context"

	apppayment "github.com/mbvogue/storefront/internal/application/payment"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. An error from fn rolls
// the transaction back; otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppayment.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories builds repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Payments() payment.Repository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Variants() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

func (r *gormTransactionalRepositories) Checkouts() order.CheckoutRepository {
	return NewGormCheckoutRepository(r.tx)
}

func (r *gormTransactionalRepositories) Carts() cart.Repository {
	return NewGormCartRepository(r.tx)
}

var (
	_ apppayment.TransactionScope          = (*GormTransactionScope)(nil)
	_ apppayment.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
