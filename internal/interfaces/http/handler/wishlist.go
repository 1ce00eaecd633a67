package handler

import (
	"github.com/gin-gonic/gin"
	appwishlist "github.com/mbvogue/storefront/internal/application/wishlist"
)

// WishlistHandler serves the caller's saved products
type WishlistHandler struct {
	BaseHandler
	wishlists *appwishlist.Service
}

// NewWishlistHandler creates a new WishlistHandler
func NewWishlistHandler(wishlists *appwishlist.Service) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists}
}

// List handles GET /wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	resp, err := h.wishlists.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Add handles POST /wishlist/:product_id
func (h *WishlistHandler) Add(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.wishlists.Add(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Remove handles DELETE /wishlist/:product_id
func (h *WishlistHandler) Remove(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.wishlists.Remove(c.Request.Context(), userID, productID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Toggle handles POST /wishlist/:product_id/toggle
func (h *WishlistHandler) Toggle(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}
	resp, err := h.wishlists.Toggle(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
