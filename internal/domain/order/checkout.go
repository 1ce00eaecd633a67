package order

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrCheckoutExpired is returned for a pending checkout past its expiry
var ErrCheckoutExpired = shared.NewDomainError(shared.CodeCheckoutExpired, "Checkout session has expired, please check out again")

// PendingCheckout is the short-lived record between checkout and payment.
// It is addressed by a server-issued token and carries the priced snapshot
// the order will be built from.
type PendingCheckout struct {
	Token     string
	UserID    uuid.UUID
	Lines     []Line
	Shipping  Shipping
	Total     decimal.Decimal
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewPendingCheckout validates the snapshot with the same preconditions as
// Build and issues a fresh token.
func NewPendingCheckout(userID uuid.UUID, lines []Line, shipping Shipping, ttl time.Duration, now time.Time) (*PendingCheckout, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	shipping = shipping.Normalize()
	if shipping.Phone == "" {
		return nil, ErrMissingPhone
	}
	total := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 || l.UnitPrice.IsNegative() {
			return nil, ErrInvalidLine
		}
		total = total.Add(l.Subtotal())
	}
	token, err := newCheckoutToken()
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return &PendingCheckout{
		Token:     token,
		UserID:    userID,
		Lines:     lines,
		Shipping:  shipping,
		Total:     total,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// IsExpired reports whether the checkout can no longer be paid
func (c *PendingCheckout) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// BelongsTo reports whether the checkout was started by the user
func (c *PendingCheckout) BelongsTo(userID uuid.UUID) bool {
	return c.UserID == userID
}

func newCheckoutToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate checkout token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
