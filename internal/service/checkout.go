package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/sportsstore/internal/domain"
	"github.com/utafrali/sportsstore/internal/event"
	"github.com/utafrali/sportsstore/internal/repository"
)

// Rejection reasons other than the empty cart.
const (
	InvalidDetailsReason    = "Please correct the shipping details."
	UnverifiedAddressReason = "The shipping address could not be verified."
)

// CheckoutCart is the cart a checkout consumes. *SessionCart implements it.
type CheckoutCart interface {
	Lines() []domain.CartLine
	IsEmpty() bool
	Clear(ctx context.Context) error
}

// ShippingVerifier checks an address with an external service. A non-empty
// field map rejects the address; an error means the verifier is unavailable.
type ShippingVerifier interface {
	Verify(ctx context.Context, shipping domain.ShippingDetails) (map[string]string, error)
}

// CheckoutRequest is the submitted shipping form plus the result of its
// structural validation.
type CheckoutRequest struct {
	Shipping         domain.ShippingDetails
	ValidationErrors map[string]string
}

// CheckoutService turns a cart and shipping details into a stored order.
type CheckoutService struct {
	orders   repository.OrderRepository
	verifier ShippingVerifier
	producer *event.Producer
	logger   *slog.Logger
}

// NewCheckoutService creates a new checkout service. verifier may be nil.
func NewCheckoutService(orders repository.OrderRepository, verifier ShippingVerifier, producer *event.Producer, logger *slog.Logger) *CheckoutService {
	return &CheckoutService{
		orders:   orders,
		verifier: verifier,
		producer: producer,
		logger:   logger,
	}
}

// Checkout rejects an empty cart, then invalid shipping details, then an
// address the verifier refuses. Otherwise it stores the order once and clears
// the cart. When storing fails the error is returned and the cart is left as is.
func (s *CheckoutService) Checkout(ctx context.Context, cart CheckoutCart, req CheckoutRequest) (*domain.CheckoutOutcome, error) {
	if cart.IsEmpty() {
		return s.reject(ctx, domain.EmptyCartMessage, nil), nil
	}

	if len(req.ValidationErrors) > 0 {
		return s.reject(ctx, InvalidDetailsReason, req.ValidationErrors), nil
	}

	if s.verifier != nil {
		fields, err := s.verifier.Verify(ctx, req.Shipping)
		switch {
		case err != nil:
			s.logger.WarnContext(ctx, "shipping verifier unavailable, skipping",
				slog.String("error", err.Error()),
			)
		case len(fields) > 0:
			return s.reject(ctx, UnverifiedAddressReason, fields), nil
		}
	}

	order := domain.NewOrder(cart.Lines(), req.Shipping)
	if err := s.orders.SaveOrder(ctx, order); err != nil {
		CheckoutOutcomes.WithLabelValues(outcomeFailed).Inc()
		return nil, fmt.Errorf("save order: %w", err)
	}

	if err := cart.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist cleared cart after checkout",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	CheckoutOutcomes.WithLabelValues(outcomeSubmitted).Inc()
	s.logger.InfoContext(ctx, "order submitted",
		slog.Int64("order_id", order.ID),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", order.Total().StringFixed(2)),
	)

	if err := s.producer.PublishOrderSubmitted(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "failed to publish order.submitted event",
			slog.Int64("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	return domain.Submitted(order), nil
}

func (s *CheckoutService) reject(ctx context.Context, reason string, fields map[string]string) *domain.CheckoutOutcome {
	CheckoutOutcomes.WithLabelValues(outcomeRejected).Inc()
	s.logger.DebugContext(ctx, "checkout rejected",
		slog.String("reason", reason),
		slog.Int("field_errors", len(fields)),
	)
	return domain.Rejected(reason, fields)
}
