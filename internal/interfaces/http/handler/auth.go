package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/mbvogue/storefront/internal/application/identity"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
)

// AuthHandler handles account and session endpoints
type AuthHandler struct {
	BaseHandler
	auth *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req appidentity.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login handles POST /auth/login. The caller's session cart is merged into
// the user cart.
func (h *AuthHandler) Login(c *gin.Context) {
	var req appidentity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), appidentity.LoginInput{
		LoginRequest: req,
		SessionID:    middleware.GetSessionID(c),
		IP:           c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout handles POST /auth/logout by revoking the presented token
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	err := h.auth.Logout(c.Request.Context(), appidentity.LogoutInput{
		UserID:   getUserID(c),
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// UpdateMe handles PUT /auth/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req appidentity.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
