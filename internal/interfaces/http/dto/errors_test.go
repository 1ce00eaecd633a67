package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeDuplicateReference, http.StatusConflict},
		{ErrCodeCheckoutExpired, http.StatusGone},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeGatewayNetwork, http.StatusBadGateway},
		{ErrCodeAlreadyVerified, http.StatusOK},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainCodesAreMapped(t *testing.T) {
	for _, code := range []string{
		shared.CodeNotFound, shared.CodeAlreadyExists, shared.CodeInvalidInput,
		shared.CodeValidation, shared.CodeConcurrencyConflict, shared.CodeUnauthorized,
		shared.CodeForbidden, shared.CodeInvalidState, shared.CodeInsufficientStock,
		shared.CodeGatewayNetwork, shared.CodeAlreadyVerified, shared.CodeDuplicateReference,
		shared.CodeCheckoutExpired,
	} {
		_, ok := ErrorCodeHTTPStatus[code]
		assert.True(t, ok, "domain code %s has no HTTP status", code)
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrCodeGatewayNetwork))
	assert.False(t, IsRetryable(ErrCodeInsufficientStock))
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse([]string{"a"}, 25, 2, 12)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)
	assert.Equal(t, 2, resp.Meta.Page)

	empty := NewPageResponse(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}

func TestValidationErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponse(ErrCodeValidation, "Request validation failed").WithRequestID("req-1").WithDetails([]ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
	})

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.Len(t, errInfo["details"], 1)
	assert.NotContains(t, decoded, "data")
}
