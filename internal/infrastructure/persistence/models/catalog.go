package models

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.Entity(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		Active:      m.Active,
	}
}

// CategoryModelFromDomain creates a persistence model from a domain Category.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Active:      c.Active,
	}
	m.SetEntity(c.BaseEntity)
	return m
}

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	BaseModel
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(220);not null;uniqueIndex"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Featured    bool            `gorm:"not null;default:false;index"`
	Available   bool            `gorm:"not null;default:true;index"`

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
	Variants []VariantModel `gorm:"foreignKey:ProductID"`
	Images   []ImageModel   `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model (and any loaded associations) to a domain Product.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseEntity:  m.Entity(),
		CategoryID:  m.CategoryID,
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Price:       m.Price,
		Featured:    m.Featured,
		Available:   m.Available,
	}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	for i := range m.Variants {
		v := m.Variants[i].toDomain()
		v.Product = p
		p.Variants = append(p.Variants, *v)
	}
	for i := range m.Images {
		p.Images = append(p.Images, *m.Images[i].ToDomain())
	}
	return p
}

// ProductModelFromDomain creates a persistence model from a domain Product.
// Associations are not copied.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Featured:    p.Featured,
		Available:   p.Available,
	}
	m.SetEntity(p.BaseEntity)
	return m
}

// VariantModel is the persistence model for a product variant. Stock is
// guarded by a CHECK constraint in the migrations.
type VariantModel struct {
	BaseModel
	ProductID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_variant_product_size_color,priority:1"`
	Size          catalog.Size     `gorm:"type:varchar(5);not null;uniqueIndex:idx_variant_product_size_color,priority:2"`
	Color         catalog.Color    `gorm:"type:varchar(20);not null;uniqueIndex:idx_variant_product_size_color,priority:3"`
	Stock         int              `gorm:"not null;default:0;check:stock >= 0"`
	PriceOverride *decimal.Decimal `gorm:"type:decimal(18,2)"`

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (VariantModel) TableName() string {
	return "product_variants"
}

func (m *VariantModel) toDomain() *catalog.Variant {
	return &catalog.Variant{
		BaseEntity:    m.Entity(),
		ProductID:     m.ProductID,
		Size:          m.Size,
		Color:         m.Color,
		Stock:         m.Stock,
		PriceOverride: m.PriceOverride,
	}
}

// ToDomain converts the persistence model to a domain Variant, with its
// product when loaded.
func (m *VariantModel) ToDomain() *catalog.Variant {
	v := m.toDomain()
	if m.Product != nil {
		v.Product = m.Product.ToDomain()
	}
	return v
}

// VariantModelFromDomain creates a persistence model from a domain Variant.
func VariantModelFromDomain(v *catalog.Variant) *VariantModel {
	m := &VariantModel{
		ProductID:     v.ProductID,
		Size:          v.Size,
		Color:         v.Color,
		Stock:         v.Stock,
		PriceOverride: v.PriceOverride,
	}
	m.SetEntity(v.BaseEntity)
	return m
}

// ImageModel is the persistence model for a product image.
type ImageModel struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	StorageKey string    `gorm:"type:varchar(500);not null"`
	URL        string    `gorm:"type:varchar(1000)"`
	AltText    string    `gorm:"type:varchar(200)"`
	IsPrimary  bool      `gorm:"not null;default:false"`
	SortOrder  int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ImageModel) TableName() string {
	return "product_images"
}

// ToDomain converts the persistence model to a domain Image.
func (m *ImageModel) ToDomain() *catalog.Image {
	return &catalog.Image{
		BaseEntity: m.Entity(),
		ProductID:  m.ProductID,
		StorageKey: m.StorageKey,
		URL:        m.URL,
		AltText:    m.AltText,
		IsPrimary:  m.IsPrimary,
		SortOrder:  m.SortOrder,
	}
}

// ImageModelFromDomain creates a persistence model from a domain Image.
func ImageModelFromDomain(i *catalog.Image) *ImageModel {
	m := &ImageModel{
		ProductID:  i.ProductID,
		StorageKey: i.StorageKey,
		URL:        i.URL,
		AltText:    i.AltText,
		IsPrimary:  i.IsPrimary,
		SortOrder:  i.SortOrder,
	}
	m.SetEntity(i.BaseEntity)
	return m
}
