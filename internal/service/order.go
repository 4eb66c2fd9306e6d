package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository"
	apperrors "github.com/utafrali/sportsstore/pkg/errors"
)

// OrderService implements order administration.
type OrderService struct {
	repo     repository.OrderRepository
	producer *event.Producer
	logger   *slog.Logger
}

var _ event.OrderShipper = (*OrderService)(nil)

// NewOrderService creates a new order service.
func NewOrderService(repo repository.OrderRepository, producer *event.Producer, logger *slog.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// ListOrders returns unshipped orders, or every order when includeShipped is set.
func (s *OrderService) ListOrders(ctx context.Context, includeShipped bool) ([]domain.Order, error) {
	orders, err := s.repo.List(ctx, includeShipped)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns the order, or nil when no order has id.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return o, nil
}

// MarkShipped flags the order as shipped and returns it, or nil when no order
// has id. Shipping an already shipped order changes nothing and emits no event.
func (s *OrderService) MarkShipped(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil || o == nil {
		return nil, err
	}
	if o.Shipped {
		return o, nil
	}

	if err := s.repo.MarkShipped(ctx, id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("mark order %d shipped: %w", id, err)
	}
	o.Shipped = true

	s.logger.InfoContext(ctx, "order shipped", slog.Int64("order_id", id))
	if err := s.producer.PublishOrderShipped(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order.shipped event",
			slog.Int64("order_id", id),
			slog.String("error", err.Error()),
		)
	}
	return o, nil
}
