package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/identity"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const (
	defaultCustomerPageSize = 20
	maxCustomerPageSize     = 100
)

// GormUserRepository persists shopper and staff accounts. E-mail lookups
// are case-insensitive; the column keeps whatever casing was registered.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	model := models.UserModelFromDomain(user)
	err := r.db.WithContext(ctx).Create(model).Error
	if isUniqueViolation(err) {
		return shared.NewDomainError(shared.CodeAlreadyExists, "An account with this email already exists")
	}
	return err
}

func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return requireAffected(r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)), shared.ErrNotFound)
}

func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	m, err := first[models.UserModel](ctx, r.db, shared.ErrNotFound, "id = ?", id)
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	m, err := first[models.UserModel](ctx, r.db, shared.ErrNotFound, "LOWER(email) = ?", canonicalEmail(email))
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("LOWER(email) = ?", canonicalEmail(email)).
		Count(&count).Error
	return count > 0, err
}

// ListCustomers pages through non-staff accounts for the admin customer list.
func (r *GormUserRepository) ListCustomers(ctx context.Context, filter shared.Filter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("is_staff = ?", false)
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(email) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(filter.Page, filter.PageSize, defaultCustomerPageSize, maxCustomerPageSize)
	var rows []models.UserModel
	err := query.
		Order(orderClause(filter.OrderBy, filter.OrderDir, UserSortFields, "created_at")).
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	users := make([]identity.User, 0, len(rows))
	for i := range rows {
		users = append(users, *rows[i].ToDomain())
	}
	return users, total, nil
}

func (r *GormUserRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).Where("is_staff = ?", false).Count(&count).Error
	return count, err
}

func canonicalEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ identity.Repository = (*GormUserRepository)(nil)
