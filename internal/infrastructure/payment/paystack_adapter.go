package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/domain/shared/valueobject"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	paystackInitializePath = "/transaction/initialize"
	paystackVerifyPath     = "/transaction/verify/"
	// SignatureHeader carries the HMAC-SHA512 of a webhook body
	SignatureHeader = "x-paystack-signature"

	maxResponseBytes = 1 << 20
)

// Configuration errors
var (
	ErrPaystackMissingSecret  = errors.New("paystack: missing secret key")
	ErrPaystackInvalidBaseURL = errors.New("paystack: invalid base URL")
)

// PaystackAdapter implements payment.Gateway against the Paystack REST API
type PaystackAdapter struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// PaystackOption customises the adapter
type PaystackOption func(*PaystackAdapter)

// WithHTTPClient replaces the HTTP client (its timeout is kept as given)
func WithHTTPClient(client *http.Client) PaystackOption {
	return func(a *PaystackAdapter) {
		a.httpClient = client
	}
}

// WithLogger sets the adapter logger
func WithLogger(logger *zap.Logger) PaystackOption {
	return func(a *PaystackAdapter) {
		a.logger = logger
	}
}

// NewPaystackAdapter creates a new Paystack adapter
func NewPaystackAdapter(cfg config.PaystackConfig, opts ...PaystackOption) (*PaystackAdapter, error) {
	if cfg.SecretKey == "" {
		return nil, ErrPaystackMissingSecret
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, ErrPaystackInvalidBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	a := &PaystackAdapter{
		secretKey:  cfg.SecretKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ToMinorUnits converts an amount to the gateway's integer minor units
// (truncated). An empty currency means the store default.
func ToMinorUnits(amount decimal.Decimal, cur string) (int64, error) {
	m, err := valueobject.NewMoney(amount, currencyOrDefault(cur))
	if err != nil {
		return 0, err
	}
	return m.MinorUnits(), nil
}

// FromMinorUnits converts gateway minor units back to a decimal amount
func FromMinorUnits(minor int64, cur string) (decimal.Decimal, error) {
	m, err := valueobject.NewMoneyFromMinorUnits(minor, currencyOrDefault(cur))
	if err != nil {
		return decimal.Zero, err
	}
	return m.Amount(), nil
}

func currencyOrDefault(cur string) valueobject.Currency {
	if cur == "" {
		return valueobject.DefaultCurrency
	}
	return valueobject.Currency(cur)
}

// Initialize registers a transaction and returns the hosted payment page
func (a *PaystackAdapter) Initialize(ctx context.Context, req *payment.InitializeRequest) (*payment.InitializeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	minor, err := ToMinorUnits(req.Amount, req.Currency)
	if err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidation, "Payment currency is not supported", err)
	}
	if minor <= 0 {
		return nil, payment.ErrInvalidAmount
	}

	body := paystackInitializeRequest{
		Email:       req.Email,
		Amount:      minor,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata: paystackMetadata{
			UserID:        req.UserID.String(),
			CheckoutToken: req.CheckoutToken,
			CustomFields:  customFields(req.CustomFields),
		},
	}

	env, raw, err := a.do(ctx, http.MethodPost, paystackInitializePath, body)
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, rejected(env.Message)
	}

	var data paystackInitializeData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AuthorizationURL == "" {
		return nil, rejected("malformed initialize response")
	}
	if data.Reference == "" {
		data.Reference = req.Reference
	}

	return &payment.InitializeResponse{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
		RawResponse:      string(raw),
	}, nil
}

// Verify fetches the final state of a transaction. Anything other than a
// true envelope with a "success" transaction is reported as not succeeded.
func (a *PaystackAdapter) Verify(ctx context.Context, reference string) (*payment.VerifyResponse, error) {
	if reference == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Payment reference cannot be empty")
	}

	env, raw, err := a.do(ctx, http.MethodGet, paystackVerifyPath+url.PathEscape(reference), nil)
	if err != nil {
		return nil, err
	}

	result := &payment.VerifyResponse{
		Reference:      reference,
		Status:         payment.GatewayStatusFailed,
		GatewayMessage: env.Message,
		RawResponse:    string(raw),
	}
	if !env.Status {
		return result, nil
	}

	var trx paystackTransaction
	if err := json.Unmarshal(env.Data, &trx); err != nil {
		return result, nil
	}
	result.Status = payment.GatewayStatus(trx.Status)
	result.Succeeded = result.Status == payment.GatewayStatusSuccess
	amount, err := FromMinorUnits(trx.Amount, trx.Currency)
	if err != nil {
		return nil, rejected("unsupported settlement currency " + trx.Currency)
	}
	result.Amount = amount
	result.Currency = trx.Currency
	result.TransactionID = trx.ID.String()
	result.AuthorizationCode = trx.Authorization.AuthorizationCode
	if trx.GatewayResponse != "" {
		result.GatewayMessage = trx.GatewayResponse
	}
	if paidAt, err := time.Parse(time.RFC3339, trx.PaidAt); err == nil {
		paidAt = paidAt.UTC()
		result.PaidAt = &paidAt
	}
	return result, nil
}

// ParseWebhook checks the HMAC-SHA512 signature and decodes the event
func (a *PaystackAdapter) ParseWebhook(payload []byte, signature string) (*payment.WebhookEvent, error) {
	if !a.validSignature(payload, signature) {
		return nil, payment.ErrInvalidWebhook
	}
	var hook paystackWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, shared.WrapDomainError(shared.CodeInvalidInput, "Malformed webhook payload", err)
	}
	return &payment.WebhookEvent{
		ID:        hook.Data.ID.String(),
		Event:     hook.Event,
		Reference: hook.Data.Reference,
		Status:    payment.GatewayStatus(hook.Data.Status),
		Payload:   payload,
	}, nil
}

// Sign computes the webhook signature of a body
func (a *PaystackAdapter) Sign(payload []byte) string {
	mac := hmac.New(sha512.New, []byte(a.secretKey))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *PaystackAdapter) validSignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(a.Sign(payload)), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

// do performs a request. Transport failures and 5xx answers are network
// errors (retryable); other answers are decoded into the envelope.
func (a *PaystackAdapter) do(ctx context.Context, method, path string, body any) (*paystackEnvelope, []byte, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, nil, fmt.Errorf("paystack: encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("paystack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("Paystack request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return nil, nil, networkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, nil, networkError(err)
	}
	a.logger.Debug("Paystack response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)))

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, nil, networkError(fmt.Errorf("paystack: HTTP %d", resp.StatusCode))
	}

	var env paystackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return &paystackEnvelope{Status: false, Message: http.StatusText(resp.StatusCode)}, raw, nil
		}
		return nil, nil, networkError(fmt.Errorf("paystack: decode response: %w", err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		env.Status = false
	}
	return &env, raw, nil
}

func networkError(err error) error {
	return shared.WrapDomainError(shared.CodeGatewayNetwork, payment.ErrGatewayNetwork.Message, err)
}

func rejected(message string) error {
	if message == "" {
		message = payment.ErrGatewayRejected.Message
	}
	return shared.WrapDomainError(payment.ErrGatewayRejected.Code, message, payment.ErrGatewayRejected)
}

func customFields(fields map[string]string) []paystackCustomField {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]paystackCustomField, 0, len(keys))
	for _, k := range keys {
		out = append(out, paystackCustomField{
			DisplayName:  displayName(k),
			VariableName: k,
			Value:        fields[k],
		})
	}
	return out
}

func displayName(variable string) string {
	words := strings.Fields(strings.ReplaceAll(variable, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

var _ payment.Gateway = (*PaystackAdapter)(nil)
