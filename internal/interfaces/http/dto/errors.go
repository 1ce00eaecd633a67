package dto

import "net/http"

// Error codes. Domain error codes pass through unchanged; the HTTP layer adds
// its own for transport-level failures.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"

	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeInvalidState        = "INVALID_STATE"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeGatewayNetwork      = "GATEWAY_NETWORK_ERROR"
	ErrCodeAlreadyVerified     = "ALREADY_VERIFIED"
	ErrCodeDuplicateReference  = "DUPLICATE_REFERENCE"
	ErrCodeCheckoutExpired     = "CHECKOUT_EXPIRED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:   http.StatusUnprocessableEntity,
	ErrCodeGatewayNetwork:      http.StatusBadGateway,
	ErrCodeAlreadyVerified:     http.StatusOK,
	ErrCodeDuplicateReference:  http.StatusConflict,
	ErrCodeCheckoutExpired:     http.StatusGone,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsRetryable reports whether the client may retry the same request later
func IsRetryable(code string) bool {
	return code == ErrCodeGatewayNetwork || code == ErrCodeRateLimited
}
