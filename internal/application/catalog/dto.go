package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Active      bool      `json:"active"`
}

// ImageResponse represents a product image
type ImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	SortOrder int       `json:"sort_order"`
}

// VariantResponse represents a purchasable variant
type VariantResponse struct {
	ID            uuid.UUID        `json:"id"`
	ProductID     uuid.UUID        `json:"product_id"`
	Size          string           `json:"size"`
	Color         string           `json:"color"`
	Stock         int              `json:"stock"`
	PriceOverride *decimal.Decimal `json:"price_override,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	Available     bool             `json:"available"`
}

// ProductCard is the list view of a product
type ProductCard struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Price        decimal.Decimal `json:"price"`
	Featured     bool            `json:"featured"`
	Available    bool            `json:"available"`
	CategorySlug string          `json:"category_slug,omitempty"`
	ImageURL     string          `json:"image_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ColorGroup lists the in-stock variants of one color
type ColorGroup struct {
	Color    string            `json:"color"`
	Variants []VariantResponse `json:"variants"`
}

// ProductDetail is the product page
type ProductDetail struct {
	ProductCard
	Description string            `json:"description"`
	Category    *CategoryResponse `json:"category,omitempty"`
	Images      []ImageResponse   `json:"images"`
	Colors      []ColorGroup      `json:"colors"`
	Sizes       []string          `json:"sizes"`
}

// HomeResponse is the landing page content
type HomeResponse struct {
	Featured    []ProductCard      `json:"featured"`
	NewArrivals []ProductCard      `json:"new_arrivals"`
	Categories  []CategoryResponse `json:"categories"`
}

// ListProductsRequest is the query of the product listing
type ListProductsRequest struct {
	Category string `form:"category"`
	Query    string `form:"q" binding:"max=100"`
	Sort     string `form:"sort" binding:"omitempty,oneof=price_low price_high name newest"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CategoryDetail is a category with one page of its products
type CategoryDetail struct {
	CategoryResponse
	Products []ProductCard `json:"products"`
	Total    int64         `json:"total"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Slug        string `json:"slug" binding:"omitempty,max=100"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=500"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// ProductRequest creates or updates a product
type ProductRequest struct {
	CategoryID  uuid.UUID       `json:"category_id" binding:"required"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Slug        string          `json:"slug" binding:"omitempty,max=220"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Featured    *bool           `json:"featured"`
	Available   *bool           `json:"available"`
}

// AdminProductQuery filters the staff product list
type AdminProductQuery struct {
	Category string `form:"category"`
	Query    string `form:"q"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToggleProductRequest flips featured/available flags
type ToggleProductRequest struct {
	Featured  *bool `json:"featured"`
	Available *bool `json:"available"`
}

// CreateVariantRequest adds a size/color combination
type CreateVariantRequest struct {
	Size          string           `json:"size" binding:"required,variant_size"`
	Color         string           `json:"color" binding:"required,variant_color"`
	Stock         int              `json:"stock" binding:"min=0"`
	PriceOverride *decimal.Decimal `json:"price_override"`
}

// UpdateVariantRequest restocks or reprices a variant
type UpdateVariantRequest struct {
	Stock              *int             `json:"stock" binding:"omitempty,min=0"`
	PriceOverride      *decimal.Decimal `json:"price_override"`
	ClearPriceOverride bool             `json:"clear_price_override"`
}

// UploadURLRequest asks for a presigned image upload
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=200"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
}

// UploadURLResponse carries the presigned upload
type UploadURLResponse struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// RegisterImageRequest records an uploaded image
type RegisterImageRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
	AltText    string `json:"alt_text" binding:"max=200"`
	IsPrimary  bool   `json:"is_primary"`
	SortOrder  int    `json:"sort_order"`
}

// AdminProductResponse is the staff view of a product
type AdminProductResponse struct {
	ProductCard
	CategoryID  uuid.UUID         `json:"category_id"`
	Description string            `json:"description"`
	Images      []ImageResponse   `json:"images"`
	Variants    []VariantResponse `json:"variants"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
	}
}

// ToVariantResponse converts a domain variant. The parent product should be
// loaded for the price and availability fields.
func ToVariantResponse(v *catalog.Variant) VariantResponse {
	return VariantResponse{
		ID:            v.ID,
		ProductID:     v.ProductID,
		Size:          string(v.Size),
		Color:         string(v.Color),
		Stock:         v.Stock,
		PriceOverride: v.PriceOverride,
		Price:         v.EffectivePrice(),
		Available:     v.IsAvailable(),
	}
}
