// Package catalog serves the storefront catalog and the staff catalog editor.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

const (
	homeFeaturedLimit    = 8
	homeNewArrivalsLimit = 8
	homeCategoriesLimit  = 6

	defaultPageSize = 12
	maxPageSize     = 100
)

// ErrProductNotFound is returned for unknown or unavailable products
var ErrProductNotFound = shared.NewDomainError(shared.CodeNotFound, "Product not found")

// Service answers the public catalog queries
type Service struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	variantRepo  catalog.VariantRepository
	storage      ObjectStorage
}

// NewService creates a new catalog Service
func NewService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	variantRepo catalog.VariantRepository,
	storage ObjectStorage,
) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		storage:      storage,
	}
}

// Home returns featured products, new arrivals and the active categories
func (s *Service) Home(ctx context.Context) (*HomeResponse, error) {
	featured, _, err := s.productRepo.Search(ctx, catalog.ProductQuery{
		FeaturedOnly:  true,
		OnlyAvailable: true,
		Sort:          catalog.SortNewest,
		Page:          1,
		PageSize:      homeFeaturedLimit,
	})
	if err != nil {
		return nil, err
	}
	newest, _, err := s.productRepo.Search(ctx, catalog.ProductQuery{
		OnlyAvailable: true,
		Sort:          catalog.SortNewest,
		Page:          1,
		PageSize:      homeNewArrivalsLimit,
	})
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll(ctx, true, homeCategoriesLimit)
	if err != nil {
		return nil, err
	}

	return &HomeResponse{
		Featured:    s.cards(featured),
		NewArrivals: s.cards(newest),
		Categories:  categoryResponses(categories),
	}, nil
}

// ListProducts returns one page of available products
func (s *Service) ListProducts(ctx context.Context, req ListProductsRequest) (shared.Paginated[ProductCard], error) {
	page, size := normalizePage(req.Page, req.PageSize)
	sort := catalog.ProductSort(req.Sort)
	if !sort.IsValid() {
		sort = catalog.SortNewest
	}

	products, total, err := s.productRepo.Search(ctx, catalog.ProductQuery{
		CategorySlug:  req.Category,
		Search:        req.Query,
		Sort:          sort,
		OnlyAvailable: true,
		Page:          page,
		PageSize:      size,
	})
	if err != nil {
		return shared.Paginated[ProductCard]{}, err
	}
	return shared.NewPaginated(s.cards(products), total, page, size), nil
}

// GetProduct returns the product page with in-stock variants grouped by color
func (s *Service) GetProduct(ctx context.Context, slug string) (*ProductDetail, error) {
	p, err := s.productRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.Available {
		return nil, ErrProductNotFound
	}

	detail := &ProductDetail{
		ProductCard: s.card(p),
		Description: p.Description,
		Images:      s.images(p.Images),
		Colors:      make([]ColorGroup, 0),
		Sizes:       make([]string, 0),
	}
	if p.Category != nil {
		c := ToCategoryResponse(p.Category)
		detail.Category = &c
	}

	colors, groups := p.VariantsByColor()
	sizes := make(map[catalog.Size]bool)
	for _, color := range colors {
		group := ColorGroup{Color: string(color)}
		for i := range groups[color] {
			v := groups[color][i]
			v.Product = p
			group.Variants = append(group.Variants, ToVariantResponse(&v))
			sizes[v.Size] = true
		}
		detail.Colors = append(detail.Colors, group)
	}
	for _, size := range catalog.AllSizes() {
		if sizes[size] {
			detail.Sizes = append(detail.Sizes, string(size))
		}
	}
	return detail, nil
}

// ListCategories returns every active category
func (s *Service) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, true, 0)
	if err != nil {
		return nil, err
	}
	return categoryResponses(categories), nil
}

// GetCategory returns an active category with a page of its products
func (s *Service) GetCategory(ctx context.Context, slug string, req ListProductsRequest) (*CategoryDetail, error) {
	c, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !c.Active {
		return nil, shared.NewDomainError(shared.CodeNotFound, "Category not found")
	}
	req.Category = c.Slug
	page, err := s.ListProducts(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CategoryDetail{
		CategoryResponse: ToCategoryResponse(c),
		Products:         page.Items,
		Total:            page.Total,
	}, nil
}

// GetVariant loads a variant with its parent product
func (s *Service) GetVariant(ctx context.Context, id uuid.UUID) (*catalog.Variant, error) {
	return s.variantRepo.FindByID(ctx, id)
}

func (s *Service) cards(products []catalog.Product) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for i := range products {
		out = append(out, s.card(&products[i]))
	}
	return out
}

// Card builds the list view of a product
func (s *Service) Card(p *catalog.Product) ProductCard {
	return s.card(p)
}

func (s *Service) card(p *catalog.Product) ProductCard {
	c := ProductCard{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.Price,
		Featured:  p.Featured,
		Available: p.Available,
		CreatedAt: p.CreatedAt,
	}
	if p.Category != nil {
		c.CategorySlug = p.Category.Slug
	}
	if img := p.PrimaryImage(); img != nil {
		c.ImageURL = s.imageURL(img)
	}
	return c
}

func (s *Service) images(images []catalog.Image) []ImageResponse {
	out := make([]ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, ImageResponse{
			ID:        images[i].ID,
			URL:       s.imageURL(&images[i]),
			AltText:   images[i].AltText,
			IsPrimary: images[i].IsPrimary,
			SortOrder: images[i].SortOrder,
		})
	}
	return out
}

func (s *Service) imageURL(img *catalog.Image) string {
	if img.URL != "" {
		return img.URL
	}
	if s.storage == nil {
		return ""
	}
	return s.storage.PublicURL(img.StorageKey)
}

func categoryResponses(categories []catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToCategoryResponse(&categories[i]))
	}
	return out
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}
