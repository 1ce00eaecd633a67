package shared

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Z0-9]{16}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		code, err := RandomCode(16)
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, 200)
}

func TestDomainError_IsMatchesByCode(t *testing.T) {
	err := NewDomainError(CodeNotFound, "Product not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidState))

	cause := errors.New("dial tcp: timeout")
	wrapped := WrapDomainError(CodeGatewayNetwork, "gateway down", cause)
	assert.True(t, errors.Is(wrapped, ErrGatewayNetwork))
	assert.True(t, errors.Is(wrapped, cause))
}
