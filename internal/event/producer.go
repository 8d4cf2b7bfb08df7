// Package event publishes storefront activity to Kafka for downstream
// analytics. Publishing is strictly fire-and-forget: a broker outage must
// never fail a customer's checkout.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Ahmed-Mansy/shoe-zone-online/pkg/kafka"
	"github.com/Ahmed-Mansy/shoe-zone-online/pkg/logger"
)

// Kafka topic constants for storefront events.
const (
	TopicOrderPlaced      = "storefront.order.placed"
	TopicPaymentConfirmed = "storefront.payment.confirmed"
	TopicCartCleared      = "storefront.cart.cleared"
)

// Aggregate type constants.
const (
	AggregateTypeOrder = "order"
	AggregateTypeCart  = "cart"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// Publisher is the slice of the Kafka producer the storefront uses.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID       int     `json:"order_id"`
	UserID        string  `json:"user_id"`
	PaymentMethod string  `json:"payment_method"`
	ItemCount     int     `json:"item_count"`
	TotalAmount   float64 `json:"total_amount"`
}

// PaymentConfirmedData is the payload for a payment.confirmed event.
type PaymentConfirmedData struct {
	OrderID         int    `json:"order_id"`
	UserID          string `json:"user_id"`
	PaymentIntentID string `json:"payment_intent_id"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// Producer publishes storefront events to Kafka. A nil *Producer is valid
// and publishes nothing, used when Kafka is disabled.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a storefront event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

// OrderPlaced publishes an order.placed event. Failures are logged, never
// returned.
func (p *Producer) OrderPlaced(ctx context.Context, data OrderPlacedData) {
	p.publish(ctx, TopicOrderPlaced, fmt.Sprintf("%d", data.OrderID), AggregateTypeOrder, data)
}

// PaymentConfirmed publishes a payment.confirmed event.
func (p *Producer) PaymentConfirmed(ctx context.Context, data PaymentConfirmedData) {
	p.publish(ctx, TopicPaymentConfirmed, fmt.Sprintf("%d", data.OrderID), AggregateTypeOrder, data)
}

// CartCleared publishes a cart.cleared event.
func (p *Producer) CartCleared(ctx context.Context, data CartClearedData) {
	p.publish(ctx, TopicCartCleared, data.UserID, AggregateTypeCart, data)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) {
	if p == nil || p.kafka == nil {
		return
	}

	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to create event",
			slog.String("topic", topic),
			slog.String("error", err.Error()),
		)
		return
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		p.logger.WarnContext(ctx, "failed to publish event, continuing",
			slog.String("topic", topic),
			slog.String("aggregate_id", aggregateID),
			slog.String("error", err.Error()),
		)
	}
}
