package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// ErrEmailTaken is returned when registering an e-mail that already has an account
var ErrEmailTaken = shared.NewDomainError(shared.CodeAlreadyExists, "An account with this e-mail already exists")

// CartMerger folds an anonymous session cart into the user's cart
type CartMerger interface {
	MergeIntoUserCart(ctx context.Context, sessionID string, userID uuid.UUID) (int, error)
}

// AuthServiceConfig wires the auth service's collaborators
type AuthServiceConfig struct {
	Users      identity.Repository
	Stats      order.StatsRepository
	JWT        *auth.JWTService
	Blacklist  auth.TokenBlacklist
	CartMerger CartMerger
	Logger     *zap.Logger
}

// AuthService handles registration, login and profile operations
type AuthService struct {
	users      identity.Repository
	stats      order.StatsRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	carts      CartMerger
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      cfg.Users,
		stats:      cfg.Stats,
		jwtService: cfg.JWT,
		blacklist:  cfg.Blacklist,
		carts:      cfg.CartMerger,
		logger:     logger,
	}
}

// Register creates a customer account. Carts and wishlists are created on first use.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	email := normalizeEmail(req.Email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	user, err := identity.NewUser(email, req.Password, req.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Login authenticates a user, issues an access token and merges the
// caller's session cart into the user cart. A failed merge never fails the login.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("ip", input.IP))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login failed: unknown e-mail", zap.String("email", email))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Login failed: account inactive", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Login failed: wrong password", zap.String("user_id", user.ID.String()))
		return nil, identity.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(auth.GenerateTokenInput{
		UserID:  user.ID,
		Email:   user.Email,
		IsStaff: user.IsStaff,
	})
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.WrapDomainError("TOKEN_ERROR", "Failed to issue access token", err)
	}

	merged := 0
	if s.carts != nil && input.SessionID != "" {
		merged, err = s.carts.MergeIntoUserCart(ctx, input.SessionID, user.ID)
		if err != nil {
			s.logger.Warn("Failed to merge session cart",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Int("merged_items", merged))

	return &LoginResult{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		User:        ToUserResponse(user),
		MergedItems: merged,
	}, nil
}

// Logout revokes the presented token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))
	if s.blacklist == nil || input.TokenJTI == "" || input.TTL <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	return nil
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateProfile replaces the caller's name and delivery details
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	err = user.UpdateProfile(req.FullName, identity.Profile{
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	})
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ListCustomers pages through non-staff accounts with their order counts
func (s *AuthService) ListCustomers(ctx context.Context, req ListCustomersRequest) (shared.Paginated[CustomerResponse], error) {
	filter := shared.Filter{Page: req.Page, PageSize: req.PageSize, Search: strings.TrimSpace(req.Search)}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	users, total, err := s.users.ListCustomers(ctx, filter)
	if err != nil {
		return shared.Paginated[CustomerResponse]{}, err
	}
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 && s.stats != nil {
		counts, err = s.stats.CustomerOrderCounts(ctx, ids)
		if err != nil {
			return shared.Paginated[CustomerResponse]{}, err
		}
	}
	return toCustomerList(users, counts, total, filter.Page, filter.PageSize), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
