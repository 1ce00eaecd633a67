package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/wishlist"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	BaseModel
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	FullName     string `gorm:"type:varchar(200)"`
	Phone        string `gorm:"type:varchar(50)"`
	Address      string `gorm:"type:varchar(500)"`
	City         string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(100)"`
	PostalCode   string `gorm:"type:varchar(20)"`
	Country      string `gorm:"type:varchar(100)"`
	IsStaff      bool   `gorm:"not null;default:false"`
	Active       bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseEntity:   m.Entity(),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		FullName:     m.FullName,
		Profile: identity.Profile{
			Phone:      m.Phone,
			Address:    m.Address,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		IsStaff: m.IsStaff,
		Active:  m.Active,
	}
}

// UserModelFromDomain creates a persistence model from a domain User.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FullName:     u.FullName,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		State:        u.State,
		PostalCode:   u.PostalCode,
		Country:      u.Country,
		IsStaff:      u.IsStaff,
		Active:       u.Active,
	}
	m.SetEntity(u.BaseEntity)
	return m
}

// WishlistModel is the persisted wishlist of a user
type WishlistModel struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (WishlistModel) TableName() string {
	return "wishlists"
}

// ToDomain converts the persistence model to a domain Wishlist.
func (m *WishlistModel) ToDomain() *wishlist.Wishlist {
	return &wishlist.Wishlist{BaseEntity: m.Entity(), UserID: m.UserID}
}

// WishlistItemModel is one saved product
type WishlistItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	WishlistID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:1"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_product,priority:2"`
	CreatedAt  time.Time `gorm:"not null"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}

// ToDomain converts the persistence model to a domain wishlist Item.
func (m *WishlistItemModel) ToDomain() wishlist.Item {
	item := wishlist.Item{
		ID:         m.ID,
		WishlistID: m.WishlistID,
		ProductID:  m.ProductID,
		CreatedAt:  m.CreatedAt,
	}
	if m.Product != nil && m.Product.ID != uuid.Nil {
		item.Product = m.Product.ToDomain()
	}
	return item
}
