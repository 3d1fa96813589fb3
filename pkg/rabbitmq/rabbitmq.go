package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"go-cart/pkg/logger"
)

// consumerPrefetch bounds unacked deliveries per consumer
const consumerPrefetch = 16

// Connection manages a RabbitMQ connection and its channel
type Connection struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	log     *logger.Logger
	mu      sync.RWMutex
}

// NewConnection dials RabbitMQ and opens a channel
func NewConnection(url string, log *logger.Logger) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	log.Info("connected to RabbitMQ")
	return &Connection{conn: conn, channel: ch, log: log}, nil
}

// Channel returns the current channel
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// Close closes the channel and the connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Publisher publishes JSON messages to a topic exchange
type Publisher struct {
	conn     *Connection
	exchange string
	log      *logger.Logger
}

// NewPublisher declares the topic exchange and returns a publisher
// bound to it
func NewPublisher(conn *Connection, exchange string, log *logger.Logger) (*Publisher, error) {
	if err := conn.Channel().ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	return &Publisher{conn: conn, exchange: exchange, log: log}, nil
}

// Publish sends a persistent JSON message. The trace ID travels in the
// correlation id and an x-trace-id header so consumers can continue the
// trace.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	traceID := logger.GetTraceID(ctx)

	err = p.conn.Channel().PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			Body:          body,
			DeliveryMode:  amqp.Persistent,
			Timestamp:     time.Now(),
			CorrelationId: traceID,
			Headers: amqp.Table{
				"x-trace-id": traceID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", routingKey, err)
	}

	p.log.WithContext(ctx).Debug("message published",
		zap.String("exchange", p.exchange),
		zap.String("routing_key", routingKey),
	)
	return nil
}

// Consumer consumes messages from a durable queue bound to a topic
// exchange. Messages the handler rejects are dead-lettered, not
// requeued.
type Consumer struct {
	conn  *Connection
	queue string
	log   *logger.Logger
}

// NewConsumer declares the queue, binds it for each routing key and
// returns a consumer. The queue dead-letters into <exchange>.dlx,
// which is declared here together with a <queue>.dlq retention queue
// so rejected messages are kept, not dropped.
func NewConsumer(conn *Connection, queue, exchange string, routingKeys []string, log *logger.Logger) (*Consumer, error) {
	ch := conn.Channel()

	dlx := exchange + ".dlx"
	if err := ch.ExchangeDeclare(
		dlx,
		"fanout",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare dead-letter exchange %s: %w", dlx, err)
	}

	dlq := queue + ".dlq"
	if _, err := ch.QueueDeclare(
		dlq,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("failed to declare dead-letter queue %s: %w", dlq, err)
	}
	if err := ch.QueueBind(dlq, "", dlx, false, nil); err != nil {
		return nil, fmt.Errorf("failed to bind %s to %s: %w", dlq, dlx, err)
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-dead-letter-exchange": dlx,
		},
	); err != nil {
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return nil, fmt.Errorf("failed to bind %s to %s: %w", queue, key, err)
		}
	}

	if err := ch.Qos(consumerPrefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	return &Consumer{conn: conn, queue: queue, log: log}, nil
}

// MessageHandler is a function that handles a message
type MessageHandler func(ctx context.Context, body []byte) error

// Consume delivers messages to the handler until ctx is cancelled or
// the channel closes. Handler failures nack without requeue, routing
// the message to the dead-letter exchange.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	deliveries, err := c.conn.Channel().Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", c.queue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-deliveries:
				if !ok {
					return
				}
				c.handle(ctx, msg, handler)
			}
		}
	}()

	c.log.Info("consumer started", zap.String("queue", c.queue))
	return nil
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery, handler MessageHandler) {
	traceID := ""
	if tid, ok := msg.Headers["x-trace-id"].(string); ok {
		traceID = tid
	}
	msgCtx := logger.WithTraceIDContext(ctx, traceID)

	if err := handler(msgCtx, msg.Body); err != nil {
		c.log.WithContext(msgCtx).Error("failed to handle message",
			zap.Error(err),
			zap.String("queue", c.queue),
			zap.String("routing_key", msg.RoutingKey),
		)
		msg.Nack(false, false)
		return
	}
	msg.Ack(false)
}
