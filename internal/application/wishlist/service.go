// Package wishlist implements the saved-for-later list of a signed-in customer.
package wishlist

import (
	"context"
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/mbvogue/storefront/internal/application/catalog"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"github.com/mbvogue/storefront/internal/domain/wishlist"
	"go.uber.org/zap"
)

// CardBuilder renders products the way catalog listings do
type CardBuilder interface {
	Card(p *catalog.Product) appcatalog.ProductCard
}

// ItemResponse is one saved product
type ItemResponse struct {
	Product appcatalog.ProductCard `json:"product"`
	AddedAt time.Time              `json:"added_at"`
}

// Response is the caller's wishlist
type Response struct {
	Items []ItemResponse `json:"items"`
	Count int            `json:"count"`
}

// ToggleResponse reports which way a toggle went
type ToggleResponse struct {
	ProductID uuid.UUID             `json:"product_id"`
	Result    wishlist.ToggleResult `json:"result"`
}

// Service runs wishlist use cases
type Service struct {
	repo     wishlist.Repository
	products catalog.ProductRepository
	cards    CardBuilder
	logger   *zap.Logger
}

// NewService creates a new wishlist Service
func NewService(repo wishlist.Repository, products catalog.ProductRepository, cards CardBuilder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, products: products, cards: cards, logger: logger}
}

// List returns saved products, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID) (*Response, error) {
	w, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.Items(ctx, w.ID)
	if err != nil {
		return nil, err
	}
	out := make([]ItemResponse, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}
		out = append(out, ItemResponse{Product: s.cards.Card(it.Product), AddedAt: it.CreatedAt})
	}
	return &Response{Items: out, Count: len(out)}, nil
}

// Add saves a product. Saving it again is a no-op.
func (s *Service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	w, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.Add(ctx, w.ID, productID)
}

// Remove deletes a saved product. Removing one that is not saved is NotFound.
func (s *Service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	w, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	removed, err := s.repo.Remove(ctx, w.ID, productID)
	if err != nil {
		return err
	}
	if !removed {
		return wishlist.ErrItemNotFound
	}
	return nil
}

// Toggle removes a saved product or saves an unsaved one
func (s *Service) Toggle(ctx context.Context, userID, productID uuid.UUID) (*ToggleResponse, error) {
	w, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	saved, err := s.repo.Contains(ctx, w.ID, productID)
	if err != nil {
		return nil, err
	}
	if saved {
		if _, err := s.repo.Remove(ctx, w.ID, productID); err != nil {
			return nil, err
		}
		return &ToggleResponse{ProductID: productID, Result: wishlist.Removed}, nil
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, w.ID, productID); err != nil {
		return nil, err
	}
	return &ToggleResponse{ProductID: productID, Result: wishlist.Added}, nil
}
