package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/utafrali/sportsstore/internal/domain"
	pkgkafka "github.com/utafrali/sportsstore/pkg/kafka"
	"github.com/utafrali/sportsstore/pkg/logger"
)

// Kafka topics for storefront domain events.
var (
	TopicOrderSubmitted     = pkgkafka.Topic("order", "submitted")
	TopicOrderShipped       = pkgkafka.Topic("order", "shipped")
	TopicCartUpdated        = pkgkafka.Topic("cart", "updated")
	TopicProductSaved       = pkgkafka.Topic("product", "saved")
	TopicProductDeleted     = pkgkafka.Topic("product", "deleted")
	TopicFulfillmentShipped = pkgkafka.Topic("fulfillment", "shipped")
)

// Aggregate types.
const (
	AggregateTypeOrder   = "order"
	AggregateTypeCart    = "cart"
	AggregateTypeProduct = "product"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// OrderLineData is one line within order events.
type OrderLineData struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	OrderID  int64           `json:"order_id"`
	Name     string          `json:"name"`
	City     string          `json:"city"`
	Country  string          `json:"country"`
	GiftWrap bool            `json:"giftwrap"`
	Lines    []OrderLineData `json:"lines"`
	Total    decimal.Decimal `json:"total"`
}

// OrderShippedData is the payload for order.shipped and fulfillment.shipped events.
type OrderShippedData struct {
	OrderID int64 `json:"order_id"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// ProductData is the payload for product.saved and product.deleted events.
type ProductData struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
}

// Producer publishes storefront domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates a new event producer. Pass pkgkafka.NoopPublisher{}
// when Kafka is disabled.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, o *domain.Order) error {
	lines := make([]OrderLineData, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = OrderLineData{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Price:       l.Price,
			Quantity:    l.Quantity,
		}
	}

	data := OrderSubmittedData{
		OrderID:  o.ID,
		Name:     o.Name,
		City:     o.City,
		Country:  o.Country,
		GiftWrap: o.GiftWrap,
		Lines:    lines,
		Total:    o.Total(),
	}
	return p.publish(ctx, TopicOrderSubmitted, strconv.FormatInt(o.ID, 10), AggregateTypeOrder, data)
}

// PublishOrderShipped publishes an order.shipped event.
func (p *Producer) PublishOrderShipped(ctx context.Context, orderID int64) error {
	return p.publish(ctx, TopicOrderShipped, strconv.FormatInt(orderID, 10), AggregateTypeOrder,
		OrderShippedData{OrderID: orderID})
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: sessionID,
		LineCount: cart.Len(),
		ItemCount: cart.ItemCount(),
		Total:     cart.ComputeTotalValue(),
	}
	return p.publish(ctx, TopicCartUpdated, sessionID, AggregateTypeCart, data)
}

// PublishProductSaved publishes a product.saved event.
func (p *Producer) PublishProductSaved(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductSaved, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductDeleted, strconv.FormatInt(product.ID, 10), AggregateTypeProduct, productData(product))
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	evt, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}

	if err := p.publisher.Publish(ctx, topic, evt); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

func productData(p *domain.Product) ProductData {
	return ProductData{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price,
	}
}
