package order

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrStaleOrder is returned when the editor's version is behind the stored order
var ErrStaleOrder = shared.NewDomainError(shared.CodeConcurrencyConflict,
	"The order was changed by someone else. Reload and try again")

// AdminService implements staff order management
type AdminService struct {
	orders    order.Repository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(orders order.Repository, publisher shared.EventPublisher, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{orders: orders, publisher: publisher, logger: logger}
}

// List returns all orders filtered by status and matched against order number or e-mail
func (s *AdminService) List(ctx context.Context, req ListOrdersRequest) (shared.Paginated[SummaryResponse], error) {
	page, size := normalizePage(req.Page, req.PageSize)
	orders, total, err := s.orders.List(ctx, order.Query{
		Status: order.Status(req.Status),
		Filter: shared.Filter{
			Page:     page,
			PageSize: size,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Search:   strings.TrimSpace(req.Search),
		},
	})
	if err != nil {
		return shared.Paginated[SummaryResponse]{}, err
	}
	return toSummaryList(orders, total, page, size), nil
}

// Get returns any order by id
func (s *AdminService) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(o), nil
}

// UpdateStatus applies a staff status change through the order's transition
// rules. The write is guarded by the order version; a concurrent edit yields
// a concurrency conflict and leaves the order untouched.
func (s *AdminService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Version > 0 && req.Version != o.Version {
		return nil, ErrStaleOrder
	}

	from := o.Status
	if err := o.TransitionTo(order.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.UpdateStatus(ctx, o); err != nil {
		s.logger.Warn("Order status update failed",
			zap.String("order_number", o.OrderNumber),
			zap.String("from", from.String()),
			zap.String("to", req.Status),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order status changed",
		zap.String("order_number", o.OrderNumber),
		zap.String("from", from.String()),
		zap.String("to", o.Status.String()))

	if events := o.GetDomainEvents(); s.publisher != nil && len(events) > 0 {
		if err := s.publisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish order events",
				zap.String("order_number", o.OrderNumber),
				zap.Error(err))
		}
	}
	o.ClearDomainEvents()

	return ToResponse(o), nil
}
