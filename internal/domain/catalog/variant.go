package catalog

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Size of a variant
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// AllSizes lists sizes in display order
func AllSizes() []Size {
	return []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL}
}

// IsValid reports whether s is a known size
func (s Size) IsValid() bool {
	for _, v := range AllSizes() {
		if s == v {
			return true
		}
	}
	return false
}

// Color of a variant
type Color string

const (
	ColorBlack  Color = "black"
	ColorWhite  Color = "white"
	ColorRed    Color = "red"
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorPink   Color = "pink"
	ColorPurple Color = "purple"
	ColorBrown  Color = "brown"
	ColorGray   Color = "gray"
	ColorNavy   Color = "navy"
	ColorBeige  Color = "beige"
)

// AllColors lists the supported colors
func AllColors() []Color {
	return []Color{
		ColorBlack, ColorWhite, ColorRed, ColorBlue, ColorGreen, ColorYellow,
		ColorPink, ColorPurple, ColorBrown, ColorGray, ColorNavy, ColorBeige,
	}
}

// IsValid reports whether c is a known color
func (c Color) IsValid() bool {
	for _, v := range AllColors() {
		if c == v {
			return true
		}
	}
	return false
}

// Variant is a purchasable size/color combination of a product with its own stock.
// Stock is only decreased through VariantRepository.DecrementStock.
type Variant struct {
	shared.BaseEntity
	ProductID     uuid.UUID
	Size          Size
	Color         Color
	Stock         int
	PriceOverride *decimal.Decimal

	// Parent product, loaded when the caller needs price or availability
	Product *Product
}

// NewVariant creates a variant for a product
func NewVariant(productID uuid.UUID, size Size, color Color, stock int, priceOverride *decimal.Decimal) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variant must belong to a product")
	}
	if !size.IsValid() {
		return nil, shared.NewDomainError("INVALID_SIZE", fmt.Sprintf("Unknown size %q", size))
	}
	if !color.IsValid() {
		return nil, shared.NewDomainError("INVALID_COLOR", fmt.Sprintf("Unknown color %q", color))
	}
	v := &Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Size:       size,
		Color:      color,
	}
	if err := v.SetStock(stock); err != nil {
		return nil, err
	}
	if err := v.SetPriceOverride(priceOverride); err != nil {
		return nil, err
	}
	return v, nil
}

// SetStock replaces the stock level (staff restock / correction)
func (v *Variant) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	v.Stock = stock
	v.Touch()
	return nil
}

// SetPriceOverride sets or clears (nil) the variant-specific price
func (v *Variant) SetPriceOverride(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	v.PriceOverride = price
	v.Touch()
	return nil
}

// EffectivePrice is the override when present, else the product's price.
// The parent product must be loaded.
func (v *Variant) EffectivePrice() decimal.Decimal {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	if v.Product == nil {
		return decimal.Zero
	}
	return v.Product.Price
}

// IsAvailable means stock is positive and the parent product is available
func (v *Variant) IsAvailable() bool {
	return v.Stock > 0 && v.Product != nil && v.Product.Available
}

// Label renders "Name (M, red)" for carts, orders and e-mails
func (v *Variant) Label() string {
	name := ""
	if v.Product != nil {
		name = v.Product.Name
	}
	return fmt.Sprintf("%s (%s, %s)", name, v.Size, v.Color)
}
