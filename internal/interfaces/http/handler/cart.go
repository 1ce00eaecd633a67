package handler

import (
	"github.com/gin-gonic/gin"
	appcart "github.com/mbvogue/storefront/internal/application/cart"
	"github.com/mbvogue/storefront/internal/interfaces/http/middleware"
)

// CartHandler serves the shopping cart. Authenticated callers get their user
// cart; everyone else gets the cart of their session.
type CartHandler struct {
	BaseHandler
	carts *appcart.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts *appcart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

func cartIdentity(c *gin.Context) appcart.Identity {
	return appcart.Identity{
		SessionID: middleware.GetSessionID(c),
		UserID:    getUserID(c),
	}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	resp, err := h.carts.Get(c.Request.Context(), cartIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Summary handles GET /cart/summary
func (h *CartHandler) Summary(c *gin.Context) {
	resp, err := h.carts.Summary(c.Request.Context(), cartIdentity(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.AddItem(c.Request.Context(), cartIdentity(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateItem handles PUT /cart/items/:variant_id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}
	var req appcart.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.carts.UpdateItem(c.Request.Context(), cartIdentity(c), variantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /cart/items/:variant_id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	variantID, ok := h.uuidParam(c, "variant_id")
	if !ok {
		return
	}
	resp, err := h.carts.RemoveItem(c.Request.Context(), cartIdentity(c), variantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), cartIdentity(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
