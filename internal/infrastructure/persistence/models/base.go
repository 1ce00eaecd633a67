package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel carries the identity and timestamp columns shared by every table.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// BeforeCreate fills in the key for rows built outside a domain constructor,
// such as seed fixtures and join rows.
func (m *BaseModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *BaseModel) Entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) SetEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// AggregateModel adds the optimistic-lock counter used by orders, whose
// status is advanced concurrently by payment verification and admins.
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) SetAggregate(a shared.BaseAggregateRoot) {
	m.SetEntity(a.BaseEntity)
	m.Version = a.Version
}

func (m *AggregateModel) Aggregate() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{BaseEntity: m.Entity(), Version: m.Version}
}

var (
	identityTables = []any{&UserModel{}}
	catalogTables  = []any{&CategoryModel{}, &ProductModel{}, &VariantModel{}, &ImageModel{}}
	shopperTables  = []any{&CartModel{}, &CartItemModel{}, &WishlistModel{}, &WishlistItemModel{}}
	checkoutTables = []any{&PendingCheckoutModel{}, &OrderModel{}, &OrderItemModel{}, &PaymentModel{}}
)

// All returns every model with foreign-key targets ahead of the tables that
// reference them, which is the order AutoMigrate needs.
func All() []any {
	var out []any
	for _, group := range [][]any{identityTables, catalogTables, shopperTables, checkoutTables} {
		out = append(out, group...)
	}
	return out
}
