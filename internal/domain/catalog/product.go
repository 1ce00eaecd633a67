package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock lives on its variants.
type Product struct {
	shared.BaseEntity
	CategoryID  uuid.UUID
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Featured    bool
	Available   bool

	// Loaded on demand by the repository
	Category *Category
	Variants []Variant
	Images   []Image
}

// NewProduct creates an available product
func NewProduct(categoryID uuid.UUID, name, slug, description string, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product must belong to a category")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity:  shared.NewBaseEntity(),
		CategoryID:  categoryID,
		Name:        name,
		Slug:        slug,
		Description: description,
		Price:       price,
		Available:   true,
	}, nil
}

// Update changes descriptive fields and price. Existing orders keep their snapshot prices.
func (p *Product) Update(categoryID uuid.UUID, name, description string, price decimal.Decimal) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product must belong to a category")
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	p.CategoryID = categoryID
	p.Name = name
	p.Description = description
	p.Price = price
	p.Touch()
	return nil
}

// SetPrice replaces the base price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.Touch()
	return nil
}

// SetFeatured toggles the home page flag
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.Touch()
}

// SetAvailable toggles whether the product can be bought at all
func (p *Product) SetAvailable(available bool) {
	p.Available = available
	p.Touch()
}

// InStockVariants returns variants that can currently be bought
func (p *Product) InStockVariants() []Variant {
	out := make([]Variant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.Stock > 0 {
			out = append(out, v)
		}
	}
	return out
}

// VariantsByColor groups in-stock variants by color, preserving first-seen color order
func (p *Product) VariantsByColor() ([]Color, map[Color][]Variant) {
	order := make([]Color, 0)
	groups := make(map[Color][]Variant)
	for _, v := range p.InStockVariants() {
		if _, ok := groups[v.Color]; !ok {
			order = append(order, v.Color)
		}
		groups[v.Color] = append(groups[v.Color], v)
	}
	return order, groups
}

// PrimaryImage returns the primary image, or the first one, or nil
func (p *Product) PrimaryImage() *Image {
	for i := range p.Images {
		if p.Images[i].IsPrimary {
			return &p.Images[i]
		}
	}
	if len(p.Images) > 0 {
		return &p.Images[0]
	}
	return nil
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return nil
}
