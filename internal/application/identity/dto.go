package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/shared"
)

// RegisterRequest creates a customer account
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=200"`
}

// LoginRequest authenticates with e-mail and password
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginInput is a login attempt plus the anonymous session it came from
type LoginInput struct {
	LoginRequest
	SessionID string
	IP        string
}

// UpdateProfileRequest replaces the user's name and delivery details
type UpdateProfileRequest struct {
	FullName   string `json:"full_name" binding:"max=200"`
	Phone      string `json:"phone" binding:"omitempty,phone,max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// LogoutInput identifies the token being revoked
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	TTL      time.Duration
}

// UserResponse is the public view of an account
type UserResponse struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      string    `json:"phone"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
	IsStaff    bool      `json:"is_staff"`
	CreatedAt  time.Time `json:"created_at"`
}

// LoginResult carries the issued token and the cart merge outcome
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
	MergedItems int          `json:"merged_items"`
}

// CustomerResponse is a staff view of a customer
type CustomerResponse struct {
	UserResponse
	OrderCount int64 `json:"order_count"`
}

// ListCustomersRequest pages through customers
type ListCustomersRequest struct {
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Address:    u.Address,
		City:       u.City,
		State:      u.State,
		PostalCode: u.PostalCode,
		Country:    u.Country,
		IsStaff:    u.IsStaff,
		CreatedAt:  u.CreatedAt,
	}
}

func toCustomerList(users []identity.User, counts map[uuid.UUID]int64, total int64, page, pageSize int) shared.Paginated[CustomerResponse] {
	items := make([]CustomerResponse, 0, len(users))
	for i := range users {
		items = append(items, CustomerResponse{
			UserResponse: ToUserResponse(&users[i]),
			OrderCount:   counts[users[i].ID],
		})
	}
	return shared.NewPaginated(items, total, page, pageSize)
}
