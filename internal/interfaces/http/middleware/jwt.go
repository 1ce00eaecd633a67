package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/infrastructure/auth"
	"github.com/mbvogue/storefront/internal/infrastructure/logger"
	"github.com/mbvogue/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTEmailKey   = "jwt_email"
	JWTIsStaffKey = "jwt_is_staff"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional; revoked tokens are rejected when set
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuth rejects requests without a valid, unrevoked access token
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}
		claims, err := authenticate(c.Request.Context(), cfg, log, token)
		if err != nil {
			log.Debug("JWT authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth attaches the caller's claims when a valid token is
// present and lets anonymous requests through otherwise.
func OptionalJWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := authenticate(c.Request.Context(), cfg, log, token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireStaff allows only staff accounts. It must run after JWTAuth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortUnauthorized(c, auth.ErrInvalidToken)
			return
		}
		if !claims.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Staff access required").WithRequestID(GetRequestID(c)))
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func authenticate(ctx context.Context, cfg JWTMiddlewareConfig, log *zap.Logger, token string) (*auth.Claims, error) {
	claims, err := cfg.JWTService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}
	if cfg.TokenBlacklist != nil && claims.ID != "" {
		revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// fail open: the blacklist only narrows an already valid token
			log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
		} else if revoked {
			return nil, auth.ErrTokenBlacklisted
		}
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTEmailKey, claims.Email)
	c.Set(JWTIsStaffKey, claims.IsStaff)
	c.Set("user_id", claims.UserID)

	ctx := c.Request.Context()
	ctx, _ = logger.WithUserID(ctx, logger.FromContext(ctx), claims.UserID)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, err error) {
	code, message := dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code, message = dto.ErrCodeTokenRevoked, "Token has been revoked"
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, message).WithRequestID(GetRequestID(c)))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}
