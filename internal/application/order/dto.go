package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ListOrdersRequest pages through orders. Status and Search are staff-only filters.
type ListOrdersRequest struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending paid processing shipped delivered cancelled"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateStatusRequest is a staff status edit
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
	// Version is the version the editor saw; zero skips the check
	Version int `json:"version" binding:"omitempty,min=1"`
}

// ItemResponse is one order line
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	VariantID   uuid.UUID       `json:"variant_id"`
	ProductName string          `json:"product_name"`
	Size        string          `json:"size"`
	Color       string          `json:"color"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Response is the detail view of an order
type Response struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      order.Status    `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ItemCount   int             `json:"item_count"`
	Shipping    order.Shipping  `json:"shipping"`
	Items       []ItemResponse  `json:"items"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// SummaryResponse is the list view of an order
type SummaryResponse struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      order.Status    `json:"status"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ItemCount   int             `json:"item_count"`
	Email       string          `json:"email"`
	FullName    string          `json:"full_name"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToResponse converts a domain order
func ToResponse(o *order.Order) *Response {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, i := range o.Items {
		items = append(items, ItemResponse{
			ProductID:   i.ProductID,
			VariantID:   i.VariantID,
			ProductName: i.ProductName,
			Size:        i.Size,
			Color:       i.Color,
			UnitPrice:   i.UnitPrice,
			Quantity:    i.Quantity,
			Subtotal:    i.Subtotal(),
		})
	}
	return &Response{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalPrice:  o.TotalPrice,
		ItemCount:   o.ItemCount(),
		Shipping:    o.Shipping,
		Items:       items,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToSummary converts a domain order to its list view
func ToSummary(o *order.Order) SummaryResponse {
	return SummaryResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalPrice:  o.TotalPrice,
		ItemCount:   o.ItemCount(),
		Email:       o.Shipping.Email,
		FullName:    o.Shipping.FullName,
		CreatedAt:   o.CreatedAt,
	}
}

func toSummaryList(orders []order.Order, total int64, page, pageSize int) shared.Paginated[SummaryResponse] {
	items := make([]SummaryResponse, 0, len(orders))
	for i := range orders {
		items = append(items, ToSummary(&orders[i]))
	}
	return shared.NewPaginated(items, total, page, pageSize)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
