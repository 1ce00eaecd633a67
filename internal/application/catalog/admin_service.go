package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const uploadURLExpiry = 15 * time.Minute

// AdminService implements the staff catalog editor
type AdminService struct {
	categoryRepo catalog.CategoryRepository
	productRepo  catalog.ProductRepository
	variantRepo  catalog.VariantRepository
	imageRepo    catalog.ImageRepository
	storage      ObjectStorage
	reader       *Service
	logger       *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	variantRepo catalog.VariantRepository,
	imageRepo catalog.ImageRepository,
	storage ObjectStorage,
	logger *zap.Logger,
) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		variantRepo:  variantRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		reader:       NewService(categoryRepo, productRepo, variantRepo, storage),
		logger:       logger,
	}
}

// ListCategories returns all categories, inactive included
func (s *AdminService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx, false, 0)
	if err != nil {
		return nil, err
	}
	return categoryResponses(categories), nil
}

// CreateCategory creates a category
func (s *AdminService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := catalog.NewCategory(req.Name, req.Slug, req.Description)
	if err != nil {
		return nil, err
	}
	c.ImageURL = req.ImageURL
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// UpdateCategory updates a category
func (s *AdminService) UpdateCategory(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	active := c.Active
	if req.Active != nil {
		active = *req.Active
	}
	if err := c.Update(req.Name, req.Description, req.ImageURL, active); err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// DeleteCategory deletes a category
func (s *AdminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, id)
}

// ListProducts lists every product, unavailable ones included
func (s *AdminService) ListProducts(ctx context.Context, q AdminProductQuery) (shared.Paginated[ProductCard], error) {
	page, size := normalizePage(q.Page, q.PageSize)
	products, total, err := s.productRepo.Search(ctx, catalog.ProductQuery{
		CategorySlug: q.Category,
		Search:       q.Query,
		Sort:         catalog.SortNewest,
		Page:         page,
		PageSize:     size,
	})
	if err != nil {
		return shared.Paginated[ProductCard]{}, err
	}
	return shared.NewPaginated(s.reader.cards(products), total, page, size), nil
}

// GetProduct returns the staff view of a product with all variants
func (s *AdminService) GetProduct(ctx context.Context, id uuid.UUID) (*AdminProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.adminProduct(p), nil
}

// CreateProduct creates a product
func (s *AdminService) CreateProduct(ctx context.Context, req ProductRequest) (*AdminProductResponse, error) {
	if err := s.requireCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	p, err := catalog.NewProduct(req.CategoryID, req.Name, req.Slug, req.Description, req.Price)
	if err != nil {
		return nil, err
	}
	applyToggles(p, req.Featured, req.Available)
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct updates a product. Orders keep their snapshot prices.
func (s *AdminService) UpdateProduct(ctx context.Context, id uuid.UUID, req ProductRequest) (*AdminProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.CategoryID != p.CategoryID {
		if err := s.requireCategory(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := p.Update(req.CategoryID, req.Name, req.Description, req.Price); err != nil {
		return nil, err
	}
	applyToggles(p, req.Featured, req.Available)
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// ToggleProduct sets the featured and/or available flags
func (s *AdminService) ToggleProduct(ctx context.Context, id uuid.UUID, req ToggleProductRequest) (*AdminProductResponse, error) {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyToggles(p, req.Featured, req.Available)
	if err := s.productRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return s.adminProduct(p), nil
}

// DeleteProduct removes a product, its variants and images
func (s *AdminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	p, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, img := range p.Images {
		s.deleteObject(ctx, img.StorageKey)
	}
	return nil
}

// SetAllPrices sets every product to price and clears variant overrides
func (s *AdminService) SetAllPrices(ctx context.Context, price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	n, err := s.productRepo.SetAllPrices(ctx, price)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Bulk price update", zap.String("price", price.StringFixed(2)), zap.Int64("products", n))
	return n, nil
}

// CreateVariant adds a variant to a product
func (s *AdminService) CreateVariant(ctx context.Context, productID uuid.UUID, req CreateVariantRequest) (*VariantResponse, error) {
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	v, err := catalog.NewVariant(productID, catalog.Size(strings.ToUpper(req.Size)), catalog.Color(strings.ToLower(req.Color)), req.Stock, req.PriceOverride)
	if err != nil {
		return nil, err
	}
	if err := s.variantRepo.Save(ctx, v); err != nil {
		return nil, err
	}
	v.Product = p
	resp := ToVariantResponse(v)
	return &resp, nil
}

// UpdateVariant restocks or reprices a variant
func (s *AdminService) UpdateVariant(ctx context.Context, id uuid.UUID, req UpdateVariantRequest) (*VariantResponse, error) {
	v, err := s.variantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Stock != nil {
		if err := v.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	switch {
	case req.ClearPriceOverride:
		_ = v.SetPriceOverride(nil)
	case req.PriceOverride != nil:
		if err := v.SetPriceOverride(req.PriceOverride); err != nil {
			return nil, err
		}
	}
	if err := s.variantRepo.Save(ctx, v); err != nil {
		return nil, err
	}
	resp := ToVariantResponse(v)
	return &resp, nil
}

// DeleteVariant removes a variant. Order items keep their snapshot.
func (s *AdminService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	if _, err := s.variantRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.variantRepo.Delete(ctx, id)
}

// RequestImageUpload presigns an upload under products/<id>/
func (s *AdminService) RequestImageUpload(ctx context.Context, productID uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	ext := strings.ToLower(path.Ext(req.FileName))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("products/%s/%s%s", productID, uuid.NewString(), ext)

	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, uploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign image upload: %w", err)
	}
	return &UploadURLResponse{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// RegisterImage records an uploaded image. A new primary image demotes the old one.
func (s *AdminService) RegisterImage(ctx context.Context, productID uuid.UUID, req RegisterImageRequest) (*ImageResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(req.StorageKey, fmt.Sprintf("products/%s/", productID)) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Storage key does not belong to this product")
	}
	exists, err := s.storage.ObjectExists(ctx, req.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("check uploaded image: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError(shared.CodeValidation, "Image has not been uploaded yet")
	}

	img, err := catalog.NewImage(productID, req.StorageKey, req.AltText, req.IsPrimary, req.SortOrder)
	if err != nil {
		return nil, err
	}
	if img.IsPrimary {
		if err := s.imageRepo.ClearPrimary(ctx, productID); err != nil {
			return nil, err
		}
	}
	if err := s.imageRepo.Save(ctx, img); err != nil {
		return nil, err
	}
	return &ImageResponse{
		ID:        img.ID,
		URL:       s.storage.PublicURL(img.StorageKey),
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		SortOrder: img.SortOrder,
	}, nil
}

// DeleteImage removes an image row and its object
func (s *AdminService) DeleteImage(ctx context.Context, id uuid.UUID) error {
	img, err := s.imageRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteObject(ctx, img.StorageKey)
	return nil
}

func (s *AdminService) deleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete image object", zap.String("storage_key", key), zap.Error(err))
	}
}

func (s *AdminService) requireCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return err
	}
	return nil
}

func (s *AdminService) adminProduct(p *catalog.Product) *AdminProductResponse {
	resp := &AdminProductResponse{
		ProductCard: s.reader.card(p),
		CategoryID:  p.CategoryID,
		Description: p.Description,
		Images:      s.reader.images(p.Images),
		Variants:    make([]VariantResponse, 0, len(p.Variants)),
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Variants {
		v := p.Variants[i]
		v.Product = p
		resp.Variants = append(resp.Variants, ToVariantResponse(&v))
	}
	return resp
}

func applyToggles(p *catalog.Product, featured, available *bool) {
	if featured != nil {
		p.SetFeatured(*featured)
	}
	if available != nil {
		p.SetAvailable(*available)
	}
}
