package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mbvogue/storefront/internal/application/dashboard"
	appidentity "github.com/mbvogue/storefront/internal/application/identity"
	apporder "github.com/mbvogue/storefront/internal/application/order"
)

// AdminHandler serves the staff dashboard, order management and customers
type AdminHandler struct {
	BaseHandler
	dashboard *dashboard.Service
	orders    *apporder.AdminService
	auth      *appidentity.AuthService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(dash *dashboard.Service, orders *apporder.AdminService, auth *appidentity.AuthService) *AdminHandler {
	return &AdminHandler{dashboard: dash, orders: orders, auth: auth}
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	resp, err := h.dashboard.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOrders handles GET /admin/orders
func (h *AdminHandler) ListOrders(c *gin.Context) {
	var req apporder.ListOrdersRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.orders.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// GetOrder handles GET /admin/orders/:id
func (h *AdminHandler) GetOrder(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateOrderStatus handles PUT /admin/orders/:id/status. A stale version
// is a 409.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req apporder.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orders.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCustomers handles GET /admin/customers
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	var req appidentity.ListCustomersRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.auth.ListCustomers(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}
