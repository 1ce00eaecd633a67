package catalog

import (
	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

// Image is a product picture stored in object storage
type Image struct {
	shared.BaseEntity
	ProductID  uuid.UUID
	StorageKey string
	URL        string
	AltText    string
	IsPrimary  bool
	SortOrder  int
}

// NewImage registers an uploaded object as a product image
func NewImage(productID uuid.UUID, storageKey, altText string, isPrimary bool, sortOrder int) (*Image, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Image must belong to a product")
	}
	if storageKey == "" {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key cannot be empty")
	}
	return &Image{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		StorageKey: storageKey,
		AltText:    altText,
		IsPrimary:  isPrimary,
		SortOrder:  sortOrder,
	}, nil
}
