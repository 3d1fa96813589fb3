package adapters

import (
	"context"

	"go-cart/internal/cart/domain"
	"go-cart/pkg/events"
	"go-cart/pkg/logger"
	"go-cart/pkg/rabbitmq"
)

// RabbitMQPublisher implements EventPublisher using RabbitMQ
type RabbitMQPublisher struct {
	publisher *rabbitmq.Publisher
	log       *logger.Logger
}

// NewRabbitMQPublisher creates a new RabbitMQ event publisher
func NewRabbitMQPublisher(publisher *rabbitmq.Publisher, log *logger.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		publisher: publisher,
		log:       log,
	}
}

// PublishCartCreated publishes a cart created event
func (p *RabbitMQPublisher) PublishCartCreated(ctx context.Context, cart domain.Cart) error {
	return p.publish(ctx, events.RoutingKeyCartCreated, cart)
}

// PublishCartCheckedOut publishes a cart checked out event
func (p *RabbitMQPublisher) PublishCartCheckedOut(ctx context.Context, cart domain.Cart) error {
	return p.publish(ctx, events.RoutingKeyCartCheckedOut, cart)
}

// PublishCartAbandoned publishes a cart abandoned event
func (p *RabbitMQPublisher) PublishCartAbandoned(ctx context.Context, cart domain.Cart) error {
	return p.publish(ctx, events.RoutingKeyCartAbandoned, cart)
}

func (p *RabbitMQPublisher) publish(ctx context.Context, routingKey string, cart domain.Cart) error {
	traceID := logger.GetTraceID(ctx)

	event := events.NewCartEvent(routingKey, traceID, events.CartPayload{
		CartID:    cart.ID().String(),
		UserID:    cart.UserID(),
		Status:    string(cart.Status()),
		Currency:  string(cart.Currency()),
		Total:     cart.Total().ToDTO().Amount,
		ItemCount: cart.ItemCount(),
		UpdatedAt: cart.UpdatedAt(),
	})

	return p.publisher.Publish(ctx, routingKey, event)
}
