package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/mbvogue/storefront/internal/application/catalog"
)

// CatalogHandler serves the public catalog
type CatalogHandler struct {
	BaseHandler
	catalog *appcatalog.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Home handles GET /catalog/home
func (h *CatalogHandler) Home(c *gin.Context) {
	resp, err := h.catalog.Home(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListProducts handles GET /catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req appcatalog.ListProductsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.catalog.ListProducts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// GetProduct handles GET /catalog/products/:slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	resp, err := h.catalog.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListCategories handles GET /catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetCategory handles GET /catalog/categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	var req appcatalog.ListProductsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	resp, err := h.catalog.GetCategory(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
