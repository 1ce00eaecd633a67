package handler

import (
	"github.com/gin-gonic/gin"
	appcatalog "github.com/mbvogue/storefront/internal/application/catalog"
)

// AdminCatalogHandler lets staff manage categories, products, variants and images
type AdminCatalogHandler struct {
	BaseHandler
	admin *appcatalog.AdminService
}

// NewAdminCatalogHandler creates a new AdminCatalogHandler
func NewAdminCatalogHandler(admin *appcatalog.AdminService) *AdminCatalogHandler {
	return &AdminCatalogHandler{admin: admin}
}

// ListCategories handles GET /admin/categories
func (h *AdminCatalogHandler) ListCategories(c *gin.Context) {
	resp, err := h.admin.ListCategories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateCategory handles POST /admin/categories
func (h *AdminCatalogHandler) CreateCategory(c *gin.Context) {
	var req appcatalog.CreateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *AdminCatalogHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateCategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *AdminCatalogHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListProducts handles GET /admin/products
func (h *AdminCatalogHandler) ListProducts(c *gin.Context) {
	var req appcatalog.AdminProductQuery
	if !h.bindQuery(c, &req) {
		return
	}
	page, err := h.admin.ListProducts(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	paginated(&h.BaseHandler, c, page)
}

// GetProduct handles GET /admin/products/:id
func (h *AdminCatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.admin.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateProduct handles POST /admin/products
func (h *AdminCatalogHandler) CreateProduct(c *gin.Context) {
	var req appcatalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminCatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ToggleProduct handles PATCH /admin/products/:id
func (h *AdminCatalogHandler) ToggleProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.ToggleProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.ToggleProduct(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminCatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteProduct(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateVariant handles POST /admin/products/:id/variants
func (h *AdminCatalogHandler) CreateVariant(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.CreateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.CreateVariant(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateVariant handles PUT /admin/variants/:id
func (h *AdminCatalogHandler) UpdateVariant(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UpdateVariantRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.UpdateVariant(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteVariant handles DELETE /admin/variants/:id
func (h *AdminCatalogHandler) DeleteVariant(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteVariant(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RequestImageUpload handles POST /admin/products/:id/images/upload-url
func (h *AdminCatalogHandler) RequestImageUpload(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.UploadURLRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.RequestImageUpload(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterImage handles POST /admin/products/:id/images
func (h *AdminCatalogHandler) RegisterImage(c *gin.Context) {
	productID, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req appcatalog.RegisterImageRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.admin.RegisterImage(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// DeleteImage handles DELETE /admin/images/:id
func (h *AdminCatalogHandler) DeleteImage(c *gin.Context) {
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.admin.DeleteImage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
