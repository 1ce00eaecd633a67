// Package payment models gateway transactions and their reconciliation.
package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status of a payment. A payment leaves pending at most once.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSuccess   Status = "success"
	StatusFailed    Status = "failed"
	StatusAbandoned Status = "abandoned"
)

// AllStatuses lists every payment status
func AllStatuses() []Status {
	return []Status{StatusPending, StatusSuccess, StatusFailed, StatusAbandoned}
}

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusSuccess, StatusFailed, StatusAbandoned:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

func (s Status) String() string {
	return string(s)
}

// Payment is one gateway transaction for a pending checkout. OrderID is
// set when verification succeeds and the order is created.
type Payment struct {
	shared.BaseEntity
	UserID            uuid.UUID
	CheckoutToken     string
	OrderID           *uuid.UUID
	Reference         string
	Amount            decimal.Decimal
	Currency          string
	Status            Status
	AccessCode        string
	AuthorizationURL  string
	TransactionID     string
	AuthorizationCode string
	RawResponse       string
	VerifiedAt        *time.Time
}

// NewPayment creates a pending payment from an initialized gateway transaction
func NewPayment(userID uuid.UUID, checkoutToken, reference string, amount decimal.Decimal, currency string, init *InitializeResponse) (*Payment, error) {
	if reference == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment reference cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	p := &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		UserID:        userID,
		CheckoutToken: checkoutToken,
		Reference:     reference,
		Amount:        amount,
		Currency:      currency,
		Status:        StatusPending,
	}
	if init != nil {
		p.AccessCode = init.AccessCode
		p.AuthorizationURL = init.AuthorizationURL
	}
	return p, nil
}

// Settle applies a verification result to a pending payment in memory.
// The repository's CompareAndSettle performs the same transition atomically.
func (p *Payment) Settle(result *VerifyResponse, now time.Time) error {
	if p.Status.IsTerminal() {
		if p.Status == StatusSuccess {
			return shared.ErrAlreadyVerified
		}
		return shared.NewDomainError(shared.CodeInvalidState, "Payment is already "+p.Status.String())
	}
	if !result.Final() {
		return ErrNotSettled
	}
	p.Status = result.PaymentStatus()
	p.TransactionID = result.TransactionID
	p.AuthorizationCode = result.AuthorizationCode
	p.RawResponse = result.RawResponse
	t := now.UTC()
	p.VerifiedAt = &t
	p.UpdatedAt = t
	return nil
}

// IsSuccessful reports whether the payment was verified as paid
func (p *Payment) IsSuccessful() bool {
	return p.Status == StatusSuccess
}
