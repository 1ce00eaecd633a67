package catalog

import (
	"strings"

	"github.com/mbvogue/storefront/internal/domain/shared"
)

// Category groups products for browsing (Dresses, Tops, Accessories...)
type Category struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
	ImageURL    string
	Active      bool
}

// NewCategory creates an active category. An empty slug is derived from the name.
func NewCategory(name, slug, description string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}
	if slug == "" {
		slug = Slugify(name)
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	return &Category{
		BaseEntity:  shared.NewBaseEntity(),
		Name:        name,
		Slug:        slug,
		Description: description,
		Active:      true,
	}, nil
}

// Update changes the category's descriptive fields
func (c *Category) Update(name, description, imageURL string, active bool) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	c.Name = name
	c.Description = description
	c.ImageURL = imageURL
	c.Active = active
	c.Touch()
	return nil
}
