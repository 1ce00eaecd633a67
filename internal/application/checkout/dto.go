package checkout

import (
	"time"

	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
)

// BeginRequest carries the delivery details typed at checkout. Blank
// fields fall back to the user's profile.
type BeginRequest struct {
	FullName   string `json:"full_name" binding:"max=200"`
	Email      string `json:"email" binding:"omitempty,email,max=200"`
	Phone      string `json:"phone" binding:"omitempty,phone,max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
	Notes      string `json:"notes" binding:"max=1000"`
}

// Response describes a pending checkout
type Response struct {
	Token     string          `json:"token"`
	Lines     []order.Line    `json:"lines"`
	Shipping  order.Shipping  `json:"shipping"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func toResponse(c *order.PendingCheckout) *Response {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return &Response{
		Token:     c.Token,
		Lines:     c.Lines,
		Shipping:  c.Shipping,
		Total:     c.Total,
		ItemCount: count,
		ExpiresAt: c.ExpiresAt,
	}
}
