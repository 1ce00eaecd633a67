package handler

import (
	"github.com/gin-gonic/gin"
	appcheckout "github.com/mbvogue/storefront/internal/application/checkout"
)

// CheckoutHandler turns the user cart into a pending checkout
type CheckoutHandler struct {
	BaseHandler
	checkouts *appcheckout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkouts *appcheckout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkouts: checkouts}
}

// Begin handles POST /checkout
func (h *CheckoutHandler) Begin(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req appcheckout.BeginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.checkouts.Begin(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /checkout/:token
func (h *CheckoutHandler) Get(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	resp, err := h.checkouts.Get(c.Request.Context(), c.Param("token"), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
