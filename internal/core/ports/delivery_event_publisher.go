package ports

import (
	"context"

	"deliveryconfirm/internal/core/domain/model/order"
)

// DeliveryEventPublisher hands delivered events to downstream consumers
// (notifications, payment release). Publishing is at-least-once.
type DeliveryEventPublisher interface {
	Publish(ctx context.Context, event order.DeliveredEvent) error
}
