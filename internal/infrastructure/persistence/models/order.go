package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	AggregateModel
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderNumber string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	Status      order.Status    `gorm:"type:varchar(20);not null;default:'pending';index"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	FullName    string          `gorm:"type:varchar(200);not null"`
	Email       string          `gorm:"type:varchar(200);not null;index"`
	Phone       string          `gorm:"type:varchar(50);not null"`
	Address     string          `gorm:"type:varchar(500)"`
	City        string          `gorm:"type:varchar(100)"`
	State       string          `gorm:"type:varchar(100)"`
	PostalCode  string          `gorm:"type:varchar(20)"`
	Country     string          `gorm:"type:varchar(100)"`
	Notes       string          `gorm:"type:text"`

	Items []OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseAggregateRoot: m.Aggregate(),
		UserID:            m.UserID,
		OrderNumber:       m.OrderNumber,
		Status:            m.Status,
		TotalPrice:        m.TotalPrice,
		Shipping: order.Shipping{
			FullName:   m.FullName,
			Email:      m.Email,
			Phone:      m.Phone,
			Address:    m.Address,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
			Notes:      m.Notes,
		},
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// OrderModelFromDomain creates a persistence model, items included.
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{
		UserID:      o.UserID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		TotalPrice:  o.TotalPrice,
		FullName:    o.Shipping.FullName,
		Email:       o.Shipping.Email,
		Phone:       o.Shipping.Phone,
		Address:     o.Shipping.Address,
		City:        o.Shipping.City,
		State:       o.Shipping.State,
		PostalCode:  o.Shipping.PostalCode,
		Country:     o.Shipping.Country,
		Notes:       o.Shipping.Notes,
	}
	m.SetAggregate(o.BaseAggregateRoot)
	for _, it := range o.Items {
		m.Items = append(m.Items, OrderItemModel{
			ID:          it.ID,
			OrderID:     o.ID,
			VariantID:   it.VariantID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Size:        it.Size,
			Color:       it.Color,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			CreatedAt:   it.CreatedAt,
		})
	}
	return m
}

// OrderItemModel is an immutable order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Size        string          `gorm:"type:varchar(5)"`
	Color       string          `gorm:"type:varchar(20)"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item.
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:          m.ID,
		OrderID:     m.OrderID,
		VariantID:   m.VariantID,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		Size:        m.Size,
		Color:       m.Color,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		CreatedAt:   m.CreatedAt,
	}
}

// PendingCheckoutModel stores the priced snapshot between checkout and payment
type PendingCheckoutModel struct {
	Token     string          `gorm:"type:varchar(64);primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Lines     []order.Line    `gorm:"type:text;serializer:json;not null"`
	Shipping  order.Shipping  `gorm:"type:text;serializer:json;not null"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ExpiresAt time.Time       `gorm:"not null;index"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PendingCheckoutModel) TableName() string {
	return "pending_checkouts"
}

// ToDomain converts the persistence model to a domain PendingCheckout.
func (m *PendingCheckoutModel) ToDomain() *order.PendingCheckout {
	return &order.PendingCheckout{
		Token:     m.Token,
		UserID:    m.UserID,
		Lines:     m.Lines,
		Shipping:  m.Shipping,
		Total:     m.Total,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// PendingCheckoutModelFromDomain creates a persistence model from a PendingCheckout.
func PendingCheckoutModelFromDomain(c *order.PendingCheckout) *PendingCheckoutModel {
	return &PendingCheckoutModel{
		Token:     c.Token,
		UserID:    c.UserID,
		Lines:     c.Lines,
		Shipping:  c.Shipping,
		Total:     c.Total,
		ExpiresAt: c.ExpiresAt,
		CreatedAt: c.CreatedAt,
	}
}
