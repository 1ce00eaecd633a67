package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/cart"
	"github.com/mbvogue/storefront/internal/domain/catalog"
	"go.uber.org/zap"
)

// Service resolves the caller's cart and runs cart use cases on it
type Service struct {
	repo     cart.Repository
	sessions cart.SessionStore
	variants catalog.VariantRepository
	logger   *zap.Logger
}

// NewService creates a new cart Service
func NewService(repo cart.Repository, sessions cart.SessionStore, variants catalog.VariantRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, sessions: sessions, variants: variants, logger: logger}
}

// Resolve picks the user cart for authenticated callers and the session cart otherwise
func (s *Service) Resolve(id Identity) Cart {
	if id.IsAuthenticated() {
		return &userCart{userID: id.UserID, repo: s.repo, variants: s.variants}
	}
	return &sessionCart{sessionID: id.SessionID, store: s.sessions, variants: s.variants}
}

// Get returns the caller's cart with priced lines
func (s *Service) Get(ctx context.Context, id Identity) (*Response, error) {
	lines, err := s.Resolve(id).Items(ctx)
	if err != nil {
		return nil, err
	}
	return toResponse(lines), nil
}

// Summary returns the item count and total
func (s *Service) Summary(ctx context.Context, id Identity) (*Summary, error) {
	lines, err := s.Resolve(id).Items(ctx)
	if err != nil {
		return nil, err
	}
	count, total := cart.Totals(lines)
	return &Summary{TotalItems: count, TotalPrice: total}, nil
}

// AddItem adds a variant
func (s *Service) AddItem(ctx context.Context, id Identity, req AddItemRequest) (*MutationResponse, error) {
	result, err := s.Resolve(id).Add(ctx, req.VariantID, req.Quantity, req.Override)
	if err != nil {
		return nil, err
	}
	return s.withSummary(ctx, id, result)
}

// UpdateItem sets the quantity of a line
func (s *Service) UpdateItem(ctx context.Context, id Identity, variantID uuid.UUID, req UpdateItemRequest) (*MutationResponse, error) {
	result, err := s.Resolve(id).UpdateQuantity(ctx, variantID, req.Quantity)
	if err != nil {
		return nil, err
	}
	return s.withSummary(ctx, id, result)
}

// RemoveItem removes a line
func (s *Service) RemoveItem(ctx context.Context, id Identity, variantID uuid.UUID) (*MutationResponse, error) {
	result, err := s.Resolve(id).Remove(ctx, variantID)
	if err != nil {
		return nil, err
	}
	return s.withSummary(ctx, id, result)
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, id Identity) error {
	return s.Resolve(id).Clear(ctx)
}

func (s *Service) withSummary(ctx context.Context, id Identity, result *Result) (*MutationResponse, error) {
	summary, err := s.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MutationResponse{Result: *result, Summary: *summary}, nil
}

// MergeIntoUserCart folds the session cart into the user's cart at login.
// Quantities are summed and clamped to stock in the database; vanished or
// unavailable variants are dropped. The session cart is deleted afterwards,
// so a second call is a no-op. Returns the number of merged lines.
func (s *Service) MergeIntoUserCart(ctx context.Context, sessionID string, userID uuid.UUID) (int, error) {
	if sessionID == "" || userID == uuid.Nil {
		return 0, nil
	}
	session, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return 0, fmt.Errorf("load session cart: %w", err)
	}
	if len(session) == 0 {
		return 0, nil
	}

	merged := 0
	err = session.Fold(func(variantID uuid.UUID, entry cart.SessionEntry) error {
		if entry.Quantity < 1 {
			return nil
		}
		v, err := s.variants.FindByID(ctx, variantID)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		if !v.IsAvailable() {
			return nil
		}
		qty, clamped, err := s.repo.Increment(ctx, userID, variantID, entry.Quantity, v.Stock)
		if err != nil {
			return err
		}
		if clamped {
			s.logger.Debug("Merged cart line clamped to stock",
				zap.String("variant_id", variantID.String()),
				zap.Int("quantity", qty))
		}
		merged++
		return nil
	})
	if err != nil {
		return merged, err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return merged, fmt.Errorf("delete session cart: %w", err)
	}
	s.logger.Info("Session cart merged",
		zap.String("user_id", userID.String()),
		zap.Int("lines", merged))
	return merged, nil
}
