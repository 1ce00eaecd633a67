package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mbvogue/storefront/internal/domain/order"
	"github.com/mbvogue/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrReceiptUnavailable is returned for receipts of orders that were never paid
var ErrReceiptUnavailable = shared.NewDomainError(shared.CodeInvalidState, "A receipt is only available for paid orders")

// ReceiptRenderer turns an order into a printable document
type ReceiptRenderer interface {
	Render(o *order.Order) ([]byte, error)
}

// Receipt is a rendered receipt ready to be served
type Receipt struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Service serves a customer's own orders
type Service struct {
	orders   order.Repository
	renderer ReceiptRenderer
	logger   *zap.Logger
}

// NewService creates a new order Service
func NewService(orders order.Repository, renderer ReceiptRenderer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, renderer: renderer, logger: logger}
}

// List returns the user's orders, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListOrdersRequest) (shared.Paginated[SummaryResponse], error) {
	page, size := normalizePage(req.Page, req.PageSize)
	orders, total, err := s.orders.List(ctx, order.Query{
		UserID: &userID,
		Filter: shared.Filter{Page: page, PageSize: size, OrderBy: "created_at", OrderDir: "desc"},
	})
	if err != nil {
		return shared.Paginated[SummaryResponse]{}, err
	}
	return toSummaryList(orders, total, page, size), nil
}

// Get returns one of the user's orders by number. Other users' orders are not found.
func (s *Service) Get(ctx context.Context, userID uuid.UUID, number string) (*Response, error) {
	o, err := s.find(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	return ToResponse(o), nil
}

// Receipt renders the PDF receipt of a paid order
func (s *Service) Receipt(ctx context.Context, userID uuid.UUID, number string) (*Receipt, error) {
	o, err := s.find(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	if !o.IsPaid() {
		return nil, ErrReceiptUnavailable
	}
	body, err := s.renderer.Render(o)
	if err != nil {
		s.logger.Error("Failed to render receipt",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return &Receipt{
		Filename:    fmt.Sprintf("receipt-%s.pdf", o.OrderNumber),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

func (s *Service) find(ctx context.Context, userID uuid.UUID, number string) (*order.Order, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	o, err := s.orders.FindByNumber(ctx, number, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "Order not found")
		}
		return nil, err
	}
	return o, nil
}
