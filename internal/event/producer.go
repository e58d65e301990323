package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/internal/domain"
	pkgkafka "github.com/manuelContrerasDev/rapidaysabrosa-ecommerce/pkg/kafka"
)

// Kafka topic constants for cart and order domain events.
const (
	TopicCartUpdated = "rapidaysabrosa.cart.updated"
	TopicCartCleared = "rapidaysabrosa.cart.cleared"
	TopicOrderPlaced = "rapidaysabrosa.order.placed"
)

// Aggregate type constants.
const (
	AggregateTypeCart  = "cart"
	AggregateTypeOrder = "order"
)

// SourceCartEngine identifies events originating from this service.
const SourceCartEngine = "cart-engine"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	Lines       []domain.LineItem `json:"lines"`
	TotalItems  int               `json:"total_items"`
	TotalAmount int64             `json:"total_amount"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	Reason string `json:"reason,omitempty"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderCode     string            `json:"order_code"`
	Lines         []domain.LineItem `json:"lines"`
	Totals        domain.Totals     `json:"totals"`
	PaymentMethod string            `json:"payment_method"`
}

// Producer publishes cart domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cartID string, data CartUpdatedData) error {
	event, err := pkgkafka.NewEvent(TopicCartUpdated, cartID, AggregateTypeCart, SourceCartEngine, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("cart_id", cartID),
		slog.Int("total_items", data.TotalItems),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, cartID, reason string) error {
	event, err := pkgkafka.NewEvent(TopicCartCleared, cartID, AggregateTypeCart, SourceCartEngine, CartClearedData{Reason: reason})
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("cart_id", cartID),
	)

	return nil
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, data OrderPlacedData) error {
	event, err := pkgkafka.NewEvent(TopicOrderPlaced, data.OrderCode, AggregateTypeOrder, SourceCartEngine, data)
	if err != nil {
		return fmt.Errorf("create order.placed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderPlaced, event); err != nil {
		return fmt.Errorf("publish order.placed event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.placed event",
		slog.String("order_code", data.OrderCode),
		slog.Int64("total", data.Totals.Total),
	)

	return nil
}
