package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/sportsstore/internal/domain"
	pkgkafka "github.com/utafrali/sportsstore/pkg/kafka"
)

// ErrInvalidPayload marks an event that can never be processed. The consumer
// retries it like any other failure and then dead-letters it.
var ErrInvalidPayload = errors.New("invalid event payload")

// OrderShipper marks orders shipped. A nil order with a nil error means the
// order does not exist.
type OrderShipper interface {
	MarkShipped(ctx context.Context, id int64) (*domain.Order, error)
}

// NewFulfillmentHandler returns the handler for fulfillment.shipped events.
// Unknown orders are logged and acknowledged so they do not block the partition.
func NewFulfillmentHandler(orders OrderShipper, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, evt *pkgkafka.Event) error {
		var data OrderShippedData
		if err := evt.UnmarshalData(&data); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if data.OrderID <= 0 {
			return fmt.Errorf("%w: order_id must be positive, got %d", ErrInvalidPayload, data.OrderID)
		}

		order, err := orders.MarkShipped(ctx, data.OrderID)
		if err != nil {
			return fmt.Errorf("mark order %d shipped: %w", data.OrderID, err)
		}
		if order == nil {
			logger.WarnContext(ctx, "fulfillment event for unknown order",
				slog.Int64("order_id", data.OrderID),
				slog.String("event_id", evt.EventID),
			)
			return nil
		}

		logger.InfoContext(ctx, "order shipped by fulfillment",
			slog.Int64("order_id", data.OrderID),
			slog.String("event_id", evt.EventID),
		)
		return nil
	}
}
