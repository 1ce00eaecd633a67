package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/payment"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"github.com/mbvogue/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

const (
	defaultPaymentPageSize = 20
	maxPaymentPageSize     = 100
)

var errPaymentNotFound = shared.NewDomainError(shared.CodeNotFound, "Payment not found")

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create stores a new payment. Both a reused reference and a second pending
// payment for the same checkout surface as ErrDuplicateReference.
func (r *GormPaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(p)).Error
	if isUniqueViolation(err) {
		return shared.ErrDuplicateReference
	}
	return err
}

func (r *GormPaymentRepository) findOne(ctx context.Context, query string, args ...any) (*payment.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaymentNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByReference finds a payment by its gateway reference
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return r.findOne(ctx, "reference = ?", reference)
}

// FindByOrderID finds the payment that produced an order
func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, "order_id = ?", orderID)
}

// FindPendingByCheckout returns the newest pending payment for a checkout token
func (r *GormPaymentRepository) FindPendingByCheckout(ctx context.Context, token string) (*payment.Payment, error) {
	var m models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("checkout_token = ? AND status = ?", token, payment.StatusPending).
		Order("created_at DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPaymentNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// ReferenceExists checks whether a reference is already taken
func (r *GormPaymentRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).Where("reference = ?", reference).Count(&count).Error
	return count > 0, err
}

// CompareAndSettle moves a pending payment to its settled status. Only one
// caller can win: the row is matched on status = pending.
func (r *GormPaymentRepository) CompareAndSettle(ctx context.Context, p *payment.Payment) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status = ?", p.ID, payment.StatusPending).
		Updates(map[string]any{
			"status":             p.Status,
			"transaction_id":     p.TransactionID,
			"authorization_code": p.AuthorizationCode,
			"raw_response":       p.RawResponse,
			"verified_at":        p.VerifiedAt,
			"updated_at":         p.UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// LinkOrder records the order created for a payment. A payment links at most once.
func (r *GormPaymentRepository) LinkOrder(ctx context.Context, paymentID, orderID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.PaymentModel{}).
		Where("id = ? AND order_id IS NULL", paymentID).
		Updates(map[string]any{"order_id": orderID, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return shared.ErrConcurrencyConflict
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// List returns one page of payments, newest first by default
func (r *GormPaymentRepository) List(ctx context.Context, q payment.Query) ([]payment.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.Search != "" {
		query = query.Where(`LOWER(reference) LIKE ? ESCAPE '\'`, likePattern(q.Search))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, size := normalizePage(q.Page, q.PageSize, defaultPaymentPageSize, maxPaymentPageSize)
	var rows []models.PaymentModel
	err := query.
		Order(orderClause(q.OrderBy, q.OrderDir, PaymentSortFields, "created_at")).
		Offset((page - 1) * size).
		Limit(size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	out := make([]payment.Payment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// CountByStatus returns the number of payments per status
func (r *GormPaymentRepository) CountByStatus(ctx context.Context) (map[payment.Status]int64, error) {
	var rows []struct {
		Status payment.Status
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[payment.Status]int64, len(payment.AllStatuses()))
	for _, s := range payment.AllStatuses() {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
