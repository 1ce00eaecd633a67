package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newContext(method, path string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestGetUserID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", "")
	assert.Equal(t, uuid.Nil, getUserID(c))

	id := uuid.New()
	c.Set(middleware.JWTUserIDKey, id.String())
	assert.Equal(t, id, getUserID(c))

	c.Set(middleware.JWTUserIDKey, "not-a-uuid")
	assert.Equal(t, uuid.Nil, getUserID(c))
}

func TestRequireUserID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newContext(http.MethodGet, "/", "")

	_, ok := h.requireUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decode(t, w).Error.Code)
}

func TestBaseHandlerResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("success", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/", "")
		h.Success(c, gin.H{"name": "Kente Wrap Dress"})
		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.Error)
	})

	t.Run("created", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", "")
		h.Created(c, gin.H{"id": 1})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("paginated carries meta", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/", "")
		paginated(h, c, shared.NewPaginated([]string{"a", "b"}, 12, 2, 2))
		resp := decode(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(12), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 6, resp.Meta.TotalPages)
	})

	t.Run("no content", func(t *testing.T) {
		c, w := newContext(http.MethodDelete, "/", "")
		h.NoContent(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.NewDomainError(shared.CodeNotFound, "Product not found"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"insufficient stock", shared.NewDomainError(shared.CodeInsufficientStock, "Only 2 left"), http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"stale version", shared.NewDomainError(shared.CodeConcurrencyConflict, "Reload"), http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"checkout expired", shared.NewDomainError(shared.CodeCheckoutExpired, "Expired"), http.StatusGone, dto.ErrCodeCheckoutExpired},
		{"gateway down", shared.NewDomainError(shared.CodeGatewayNetwork, "Try again"), http.StatusBadGateway, dto.ErrCodeGatewayNetwork},
		{"wrapped domain error", errors.Join(errors.New("ctx"), shared.NewDomainError(shared.CodeForbidden, "No")), http.StatusForbidden, dto.ErrCodeForbidden},
		{"unknown error", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newContext(http.MethodGet, "/", "")
			c.Set(middleware.RequestIDContextKey, "req-1")
			h.HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}

	t.Run("internal errors hide the cause", func(t *testing.T) {
		c, w := newContext(http.MethodGet, "/", "")
		h.HandleError(c, errors.New("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestBindJSON(t *testing.T) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Quantity int    `json:"quantity" binding:"min=1"`
	}
	h := &BaseHandler{}

	t.Run("valid body", func(t *testing.T) {
		c, _ := newContext(http.MethodPost, "/", `{"email":"ama@example.com","quantity":2}`)
		var req request
		assert.True(t, h.bindJSON(c, &req))
		assert.Equal(t, 2, req.Quantity)
	})

	t.Run("validation errors list fields", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{"email":"nope","quantity":0}`)
		var req request
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("malformed json", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{"email":`)
		var req request
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeBadRequest, decode(t, w).Error.Code)
	})

	t.Run("body over limit", func(t *testing.T) {
		c, w := newContext(http.MethodPost, "/", `{"email":"ama@example.com","quantity":2}`)
		c.Request.Body = http.MaxBytesReader(w, c.Request.Body, 10)
		var req request
		assert.False(t, h.bindJSON(c, &req))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, dto.ErrCodeTooLarge, decode(t, w).Error.Code)
	})
}

func TestUUIDParam(t *testing.T) {
	h := &BaseHandler{}

	c, _ := newContext(http.MethodGet, "/", "")
	id := uuid.New()
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.uuidParam(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newContext(http.MethodGet, "/", "")
	c.Params = gin.Params{{Key: "variant_id", Value: "abc"}}
	_, ok = h.uuidParam(c, "variant_id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	assert.Equal(t, "Invalid variant_id", resp.Error.Message)
}
