package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InitializeRequest starts payment of a pending checkout
type InitializeRequest struct {
	CheckoutToken string `json:"checkout_token" binding:"required,len=32,hexadecimal"`
}

// InitializeResult tells the client where to pay
type InitializeResult struct {
	Reference        string          `json:"reference"`
	AuthorizationURL string          `json:"authorization_url"`
	AccessCode       string          `json:"access_code"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Reused           bool            `json:"reused"`
}

// VerifyResult is the reconciliation outcome of one reference
type VerifyResult struct {
	Reference       string         `json:"reference"`
	Status          payment.Status `json:"status"`
	AlreadyVerified bool           `json:"already_verified"`
	OrderID         *uuid.UUID     `json:"order_id,omitempty"`
	OrderNumber     string         `json:"order_number,omitempty"`
	Message         string         `json:"message"`
}

// Succeeded reports whether the payment is (now or previously) successful
func (r *VerifyResult) Succeeded() bool {
	return r.Status == payment.StatusSuccess
}

// WebhookResult is returned to the gateway after a webhook
type WebhookResult struct {
	Event     string         `json:"event"`
	Reference string         `json:"reference"`
	Duplicate bool           `json:"duplicate"`
	Ignored   bool           `json:"ignored"`
	Status    payment.Status `json:"status,omitempty"`
}

// ListPaymentsRequest filters the staff payment list
type ListPaymentsRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending success failed abandoned"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// PaymentResponse is the staff view of a payment
type PaymentResponse struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"user_id"`
	OrderID           *uuid.UUID      `json:"order_id,omitempty"`
	CheckoutToken     string          `json:"checkout_token"`
	Reference         string          `json:"reference"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Status            payment.Status  `json:"status"`
	AuthorizationURL  string          `json:"authorization_url,omitempty"`
	TransactionID     string          `json:"transaction_id,omitempty"`
	AuthorizationCode string          `json:"authorization_code,omitempty"`
	RawResponse       string          `json:"raw_response,omitempty"`
	VerifiedAt        *time.Time      `json:"verified_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToPaymentResponse converts a domain payment. The raw gateway payload is
// only included when withRaw is set.
func ToPaymentResponse(p *payment.Payment, withRaw bool) PaymentResponse {
	resp := PaymentResponse{
		ID:                p.ID,
		UserID:            p.UserID,
		OrderID:           p.OrderID,
		CheckoutToken:     p.CheckoutToken,
		Reference:         p.Reference,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            p.Status,
		AuthorizationURL:  p.AuthorizationURL,
		TransactionID:     p.TransactionID,
		AuthorizationCode: p.AuthorizationCode,
		VerifiedAt:        p.VerifiedAt,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if withRaw {
		resp.RawResponse = p.RawResponse
	}
	return resp
}

func toPaymentList(items []payment.Payment, total int64, page, pageSize int) shared.Paginated[PaymentResponse] {
	out := make([]PaymentResponse, len(items))
	for i := range items {
		out[i] = ToPaymentResponse(&items[i], false)
	}
	return shared.NewPaginated(out, total, page, pageSize)
}
