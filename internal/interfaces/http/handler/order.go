package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apporder "github.com/mbvogue/storefront/internal/application/order"
)

// OrderHandler serves a customer's own orders
type OrderHandler struct {
	BaseHandler
	orders *apporder.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *apporder.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req apporder.ListOrdersRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.orders.List(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// Get handles GET /orders/:order_number
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), userID, c.Param("order_number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Receipt handles GET /orders/:order_number/receipt and streams the PDF
func (h *OrderHandler) Receipt(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	receipt, err := h.orders.Receipt(c.Request.Context(), userID, c.Param("order_number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+receipt.Filename+`"`)
	c.Data(http.StatusOK, receipt.ContentType, receipt.Body)
}
