// Package redispub publishes delivered events over redis pub/sub.
package redispub

import (
	"context"
	"fmt"

	"deliveryconfirm/internal/adapters/out/messaging"
	"deliveryconfirm/internal/core/domain/model/order"

	"github.com/redis/go-redis/v9"
)

const (
	// EventsChannel receives every order event.
	EventsChannel = "order_events"

	orderChannelPrefix = "order_delivered:"
)

// OrderChannel returns the per-order channel, order_delivered:<order_id>.
func OrderChannel(orderID string) string {
	return orderChannelPrefix + orderID
}

type Publisher struct {
	client redis.UniversalClient
}

func NewPublisher(client redis.UniversalClient) *Publisher {
	return &Publisher{client: client}
}

// Publish sends the message to the order channel and EventsChannel in one
// MULTI/EXEC round trip.
func (p *Publisher) Publish(ctx context.Context, event order.DeliveredEvent) error {
	body, err := messaging.Encode(event)
	if err != nil {
		return err
	}

	_, err = p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Publish(ctx, OrderChannel(event.OrderID().String()), body)
		pipe.Publish(ctx, EventsChannel, body)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis publish %s: %w", event.ID(), err)
	}

	return nil
}
