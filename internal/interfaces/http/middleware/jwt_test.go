package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/infrastructure/auth"
	"github.com/mbvogue/storefront/internal/infrastructure/cache"
	"github.com/mbvogue/storefront/internal/infrastructure/config"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: expiration,
		Issuer:                "test-issuer",
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, staff bool) (string, uuid.UUID) {
	t.Helper()
	userID := uuid.New()
	tok, err := svc.GenerateAccessToken(auth.GenerateTokenInput{UserID: userID, Email: "ama@example.com", IsStaff: staff})
	require.NoError(t, err)
	return tok.Token, userID
}

func serveWithToken(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuth(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	blacklist := auth.NewTokenBlacklist(store)

	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: blacklist}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	t.Run("valid token", func(t *testing.T) {
		token, userID := issueToken(t, svc, false)
		w := serveWithToken(router, token)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serveWithToken(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, errorCode(t, w))
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(AuthHeaderKey, "Basic abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serveWithToken(router, "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _ := issueToken(t, newTestJWTService(-time.Hour), false)
		w := serveWithToken(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, errorCode(t, w))
	})

	t.Run("revoked token", func(t *testing.T) {
		token, _ := issueToken(t, svc, false)
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		w := serveWithToken(router, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, w))
	})
}

func TestJWTAuth_BlacklistFailureFailsOpen(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: failingBlacklist{}}))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	token, _ := issueToken(t, svc, false)
	assert.Equal(t, http.StatusNoContent, serveWithToken(router, token).Code)
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(OptionalJWTAuth(JWTMiddlewareConfig{JWTService: svc}))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUserID(c))
	})

	w := serveWithToken(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = serveWithToken(router, "broken")
	assert.Equal(t, http.StatusOK, w.Code, "bad tokens degrade to anonymous")
	assert.Empty(t, w.Body.String())

	token, userID := issueToken(t, svc, false)
	w = serveWithToken(router, token)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestRequireStaff(t *testing.T) {
	svc := newTestJWTService(15 * time.Minute)
	router := gin.New()
	router.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}), RequireStaff())
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		c.String(http.StatusOK, claims.Email)
	})

	customer, _ := issueToken(t, svc, false)
	w := serveWithToken(router, customer)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, w))

	staff, _ := issueToken(t, svc, true)
	w = serveWithToken(router, staff)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ama@example.com", w.Body.String())
}

func TestRequireStaff_WithoutAuth(t *testing.T) {
	router := gin.New()
	router.Use(RequireStaff())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serveWithToken(router, "").Code)
}
