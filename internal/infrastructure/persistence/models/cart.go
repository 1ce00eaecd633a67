package models

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
)

// CartModel is the persisted cart of a user
type CartModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (CartModel) TableName() string {
	return "carts"
}

// ToDomain converts the persistence model to a domain Cart.
func (m *CartModel) ToDomain() *cart.Cart {
	return &cart.Cart{BaseEntity: m.Entity(), UserID: m.UserID}
}

// CartModelFromDomain creates a persistence model from a domain Cart.
func CartModelFromDomain(c *cart.Cart) *CartModel {
	m := &CartModel{UserID: c.UserID}
	m.SetEntity(c.BaseEntity)
	return m
}

// CartItemModel is one line of a persisted cart
type CartItemModel struct {
	BaseModel
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_variant,priority:1"`
	VariantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_item_variant,priority:2"`
	Quantity  int       `gorm:"not null;check:quantity >= 1"`

	Variant *VariantModel `gorm:"foreignKey:VariantID"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain cart Item. The variant
// stays nil when it was not loaded or no longer exists.
func (m *CartItemModel) ToDomain() *cart.Item {
	item := &cart.Item{
		BaseEntity: m.Entity(),
		CartID:     m.CartID,
		VariantID:  m.VariantID,
		Quantity:   m.Quantity,
	}
	if m.Variant != nil && m.Variant.ID != uuid.Nil {
		item.Variant = m.Variant.ToDomain()
	}
	return item
}
