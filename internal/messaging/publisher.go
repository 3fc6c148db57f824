package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"coffee-order-system/internal/logger"
	"coffee-order-system/internal/models"
)

// Publisher publishes order lifecycle events. Publishing is best-effort:
// callers log failures and never fail the originating operation.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderCreated publishes an event for a newly created order.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order *models.Order) error {
	event := models.OrderEvent{
		Event:       models.EventOrderCreated,
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Timestamp:   time.Now().UTC(),
	}
	return p.publish(ctx, event)
}

// PublishStatusChanged publishes an event for an order status change.
func (p *Publisher) PublishStatusChanged(ctx context.Context, orderID int, previous, current models.OrderStatus) error {
	event := models.OrderEvent{
		Event:          models.EventStatusChanged,
		OrderID:        orderID,
		Status:         current,
		PreviousStatus: previous,
		Timestamp:      time.Now().UTC(),
	}
	return p.publish(ctx, event)
}

func (p *Publisher) publish(ctx context.Context, event models.OrderEvent) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		OrderEventsExchange, // exchange
		"",                  // routing key (fanout)
		false,               // mandatory
		false,               // immediate
		publishing,
	)

	if err != nil {
		p.logger.Error("event_publish_failed",
			"", fmt.Sprintf("Failed to publish %s event", event.Event),
			err, map[string]interface{}{
				"event":    event.Event,
				"order_id": event.OrderID,
			})
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published",
		"", fmt.Sprintf("Published %s event", event.Event),
		map[string]interface{}{
			"event":    event.Event,
			"order_id": event.OrderID,
		})

	return nil
}

// Close closes the publisher
func (p *Publisher) Close() error {
	return p.conn.Close()
}
