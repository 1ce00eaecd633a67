package catalog

import (
	"context"
	"errors"

	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeedCategory is a category with the products to create under it
type SeedCategory struct {
	Name        string
	Description string
	Products    []SeedProduct
}

// SeedProduct is a product created with one variant per size/color pair
type SeedProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Featured    bool
	Sizes       []catalog.Size
	Colors      []catalog.Color
	Stock       int
}

// SeedResult counts what a seed run created
type SeedResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Variants   int `json:"variants"`
}

// SampleCatalog is the demo catalog loaded by storectl seed
func SampleCatalog() []SeedCategory {
	everyday := []catalog.Size{catalog.SizeS, catalog.SizeM, catalog.SizeL, catalog.SizeXL}
	return []SeedCategory{
		{
			Name:        "Dresses",
			Description: "Ankara, kente and evening dresses",
			Products: []SeedProduct{
				{Name: "Ankara Maxi Dress", Price: decimal.NewFromInt(450), Featured: true, Sizes: everyday,
					Colors: []catalog.Color{catalog.ColorRed, catalog.ColorBlue}, Stock: 8,
					Description: "Floor length wax print dress with a fitted bodice."},
				{Name: "Kente Wrap Dress", Price: decimal.NewFromInt(520), Sizes: everyday,
					Colors: []catalog.Color{catalog.ColorYellow}, Stock: 5,
					Description: "Hand woven kente panels on a cotton wrap."},
			},
		},
		{
			Name:        "Tops",
			Description: "Blouses, shirts and tees",
			Products: []SeedProduct{
				{Name: "Linen Smock Top", Price: decimal.RequireFromString("180.50"), Featured: true, Sizes: everyday,
					Colors: []catalog.Color{catalog.ColorWhite, catalog.ColorBeige}, Stock: 12,
					Description: "Relaxed linen top with smocked cuffs."},
				{Name: "Batik Shirt", Price: decimal.NewFromInt(220), Sizes: []catalog.Size{catalog.SizeM, catalog.SizeL, catalog.SizeXXL},
					Colors: []catalog.Color{catalog.ColorNavy}, Stock: 6,
					Description: "Short sleeve shirt in indigo batik."},
			},
		},
		{
			Name:        "Accessories",
			Description: "Bags, head wraps and jewellery",
			Products: []SeedProduct{
				{Name: "Print Head Wrap", Price: decimal.NewFromInt(60), Sizes: []catalog.Size{catalog.SizeM},
					Colors: []catalog.Color{catalog.ColorPink, catalog.ColorGreen, catalog.ColorPurple}, Stock: 20,
					Description: "Two metre wax print head wrap."},
			},
		},
	}
}

// Seed creates the given categories and products. Categories and products
// whose slug already exists are left untouched, so seeding twice is a no-op.
func (s *AdminService) Seed(ctx context.Context, categories []SeedCategory) (SeedResult, error) {
	var res SeedResult
	for _, sc := range categories {
		cat, err := s.categoryRepo.FindBySlug(ctx, catalog.Slugify(sc.Name))
		switch {
		case errors.Is(err, shared.ErrNotFound):
			cat, err = catalog.NewCategory(sc.Name, "", sc.Description)
			if err != nil {
				return res, err
			}
			if err := s.categoryRepo.Save(ctx, cat); err != nil {
				return res, err
			}
			res.Categories++
		case err != nil:
			return res, err
		}

		for _, sp := range sc.Products {
			created, variants, err := s.seedProduct(ctx, cat, sp)
			if err != nil {
				return res, err
			}
			if created {
				res.Products++
				res.Variants += variants
			}
		}
	}
	s.logger.Info("Catalog seeded",
		zap.Int("categories", res.Categories),
		zap.Int("products", res.Products),
		zap.Int("variants", res.Variants),
	)
	return res, nil
}

func (s *AdminService) seedProduct(ctx context.Context, cat *catalog.Category, sp SeedProduct) (bool, int, error) {
	_, err := s.productRepo.FindBySlug(ctx, catalog.Slugify(sp.Name))
	if err == nil {
		return false, 0, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return false, 0, err
	}

	p, err := catalog.NewProduct(cat.ID, sp.Name, "", sp.Description, sp.Price)
	if err != nil {
		return false, 0, err
	}
	p.SetFeatured(sp.Featured)
	if err := s.productRepo.Save(ctx, p); err != nil {
		return false, 0, err
	}

	n := 0
	for _, size := range sp.Sizes {
		for _, color := range sp.Colors {
			v, err := catalog.NewVariant(p.ID, size, color, sp.Stock, nil)
			if err != nil {
				return true, n, err
			}
			if err := s.variantRepo.Save(ctx, v); err != nil {
				return true, n, err
			}
			n++
		}
	}
	return true, n, nil
}
