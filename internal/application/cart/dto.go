package cart

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/shopspring/decimal"
)

// AddItemRequest adds a variant to the cart
type AddItemRequest struct {
	VariantID uuid.UUID `json:"variant_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=999"`
	Override  bool      `json:"override"`
}

// UpdateItemRequest sets the quantity of a line
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=999"`
}

// LineResponse is one cart line
type LineResponse struct {
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	ProductSlug string          `json:"product_slug"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Stock       int             `json:"stock"`
	Available   bool            `json:"available"`
}

// Response is the full cart
type Response struct {
	Items      []LineResponse  `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Summary feeds the header badge
type Summary struct {
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MutationResponse is a mutation outcome plus the cart summary
type MutationResponse struct {
	Result
	Summary Summary `json:"summary"`
}

func toResponse(lines []cart.Line) *Response {
	count, total := cart.Totals(lines)
	resp := &Response{
		Items:      make([]LineResponse, 0, len(lines)),
		TotalItems: count,
		TotalPrice: total,
	}
	for _, l := range lines {
		lr := LineResponse{
			VariantID: l.VariantID,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal(),
		}
		if v := l.Variant; v != nil {
			lr.ProductID = v.ProductID
			lr.Size = string(v.Size)
			lr.Color = string(v.Color)
			lr.Stock = v.Stock
			lr.Available = v.IsAvailable()
			if v.Product != nil {
				lr.ProductName = v.Product.Name
				lr.ProductSlug = v.Product.Slug
			}
		}
		resp.Items = append(resp.Items, lr)
	}
	return resp
}
