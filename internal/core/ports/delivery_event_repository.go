package ports

import (
	"context"
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
)

// DeliveryEventRepository is the transactional outbox for delivered events.
type DeliveryEventRepository interface {
	// Add stores an unpublished event.
	Add(ctx context.Context, event order.DeliveredEvent) error

	// GetUnpublished returns up to limit unpublished events, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]order.DeliveredEvent, error)

	// MarkPublished records that the event left the outbox.
	MarkPublished(ctx context.Context, id kernel.ID, at time.Time) error
}
