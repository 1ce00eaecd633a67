// Package identity holds customer and staff accounts.
package identity

import (
	"context"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = bcrypt.DefaultCost

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ErrInvalidCredentials is returned for a wrong e-mail or password
var ErrInvalidCredentials = shared.NewDomainError(shared.CodeUnauthorized, "Invalid e-mail or password")

// Profile is the delivery identity a user keeps on file
type Profile struct {
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
}

// User is a storefront account. Staff users reach the admin API.
type User struct {
	shared.BaseEntity
	Email        string
	PasswordHash string
	FullName     string
	Profile
	IsStaff bool
	Active  bool
}

// NewUser creates an active customer account with a hashed password
func NewUser(email, password, fullName string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		Active:       true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.WrapDomainError("PASSWORD_HASH_ERROR", "Failed to hash password", err)
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// UpdateProfile replaces the name and delivery details
func (u *User) UpdateProfile(fullName string, p Profile) error {
	if len(p.Phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	if fullName = strings.TrimSpace(fullName); fullName != "" {
		u.FullName = fullName
	}
	u.Profile = Profile{
		Phone:      strings.TrimSpace(p.Phone),
		Address:    strings.TrimSpace(p.Address),
		City:       strings.TrimSpace(p.City),
		State:      strings.TrimSpace(p.State),
		PostalCode: strings.TrimSpace(p.PostalCode),
		Country:    strings.TrimSpace(p.Country),
	}
	u.Touch()
	return nil
}

// PromoteToStaff grants admin API access
func (u *User) PromoteToStaff() {
	u.IsStaff = true
	u.Touch()
}

// CanLogin reports whether the account may authenticate
func (u *User) CanLogin() bool {
	return u.Active
}

// DisplayName falls back to the e-mail when no name is set
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// Repository persists users
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListCustomers returns non-staff users, newest first
	ListCustomers(ctx context.Context, filter shared.Filter) ([]User, int64, error)
	CountCustomers(ctx context.Context) (int64, error)
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
