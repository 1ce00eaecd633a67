package payment

import "encoding/json"

// paystackEnvelope is the wrapper of every Paystack API response
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackCustomField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type paystackMetadata struct {
	UserID        string                `json:"user_id"`
	CheckoutToken string                `json:"checkout_token"`
	CustomFields  []paystackCustomField `json:"custom_fields,omitempty"`
}

type paystackInitializeRequest struct {
	Email       string           `json:"email"`
	Amount      int64            `json:"amount"`
	Currency    string           `json:"currency,omitempty"`
	Reference   string           `json:"reference"`
	CallbackURL string           `json:"callback_url,omitempty"`
	Metadata    paystackMetadata `json:"metadata"`
}

type paystackInitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackAuthorization struct {
	AuthorizationCode string `json:"authorization_code"`
}

type paystackTransaction struct {
	ID              json.Number           `json:"id"`
	Status          string                `json:"status"`
	Reference       string                `json:"reference"`
	Amount          int64                 `json:"amount"`
	Currency        string                `json:"currency"`
	GatewayResponse string                `json:"gateway_response"`
	PaidAt          string                `json:"paid_at"`
	Authorization   paystackAuthorization `json:"authorization"`
}

type paystackWebhook struct {
	Event string              `json:"event"`
	Data  paystackTransaction `json:"data"`
}
