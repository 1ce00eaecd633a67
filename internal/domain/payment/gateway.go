package payment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Gateway errors
var (
	ErrGatewayNetwork  = shared.ErrGatewayNetwork
	ErrGatewayRejected = shared.NewDomainError(shared.CodeGatewayNetwork, "Payment gateway rejected the request")
	ErrInvalidAmount   = shared.NewDomainError(shared.CodeValidation, "Payment amount must be positive")
	ErrInvalidEmail    = shared.NewDomainError(shared.CodeValidation, "An e-mail address is required to pay")
	ErrInvalidWebhook  = shared.NewDomainError(shared.CodeUnauthorized, "Invalid webhook signature")
	ErrNotSettled      = shared.NewDomainError(shared.CodeInvalidState, "Gateway has not settled the transaction")
)

// InitializeRequest asks the gateway for an authorization handle
type InitializeRequest struct {
	Email         string
	Amount        decimal.Decimal
	Currency      string
	Reference     string
	CallbackURL   string
	UserID        uuid.UUID
	CheckoutToken string
	CustomFields  map[string]string
}

// Validate checks the request before it leaves the process
func (r *InitializeRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" {
		return ErrInvalidEmail
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if r.Reference == "" {
		return shared.NewDomainError(shared.CodeValidation, "Payment reference cannot be empty")
	}
	return nil
}

// InitializeResponse is the gateway's answer to an initialize call
type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
	RawResponse      string
}

// GatewayStatus is the transaction status reported by the gateway
type GatewayStatus string

const (
	GatewayStatusSuccess   GatewayStatus = "success"
	GatewayStatusFailed    GatewayStatus = "failed"
	GatewayStatusAbandoned GatewayStatus = "abandoned"
	GatewayStatusReversed  GatewayStatus = "reversed"

	// not final: the customer may still be on the OTP or bank step
	GatewayStatusOngoing    GatewayStatus = "ongoing"
	GatewayStatusPending    GatewayStatus = "pending"
	GatewayStatusProcessing GatewayStatus = "processing"
	GatewayStatusQueued     GatewayStatus = "queued"
)

// VerifyResponse is the outcome of a verify call. Succeeded is true only when
// the envelope status is true and the transaction status is success.
type VerifyResponse struct {
	Reference         string
	Succeeded         bool
	Status            GatewayStatus
	Amount            decimal.Decimal
	Currency          string
	TransactionID     string
	AuthorizationCode string
	GatewayMessage    string
	PaidAt            *time.Time
	RawResponse       string
}

// Final reports whether the gateway has settled the transaction. Only a
// final outcome may move a payment out of pending.
func (r *VerifyResponse) Final() bool {
	if r.Succeeded {
		return true
	}
	switch r.Status {
	case GatewayStatusFailed, GatewayStatusAbandoned, GatewayStatusReversed:
		return true
	}
	return false
}

// PaymentStatus maps the gateway outcome onto a payment status. Non-final
// outcomes map to pending.
func (r *VerifyResponse) PaymentStatus() Status {
	switch {
	case r.Succeeded:
		return StatusSuccess
	case !r.Final():
		return StatusPending
	case r.Status == GatewayStatusAbandoned:
		return StatusAbandoned
	default:
		return StatusFailed
	}
}

// WebhookEvent is a signed notification pushed by the gateway
type WebhookEvent struct {
	ID        string
	Event     string
	Reference string
	Status    GatewayStatus
	Payload   []byte
}

// IsChargeSuccess reports whether the event announces a successful charge
func (e *WebhookEvent) IsChargeSuccess() bool {
	return e.Event == "charge.success"
}

// DedupKey identifies the event for idempotent processing
func (e *WebhookEvent) DedupKey() string {
	if e.ID != "" {
		return "webhook:" + e.Event + ":" + e.ID
	}
	return "webhook:" + e.Event + ":" + e.Reference
}

// Gateway is the port implemented by payment provider adapters
type Gateway interface {
	// Initialize registers a transaction and returns the URL the customer pays at
	Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)
	// Verify asks the gateway for the final state of a transaction
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
	// ParseWebhook checks the signature and decodes a webhook body
	ParseWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
