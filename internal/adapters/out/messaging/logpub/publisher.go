// Package logpub is the delivered-event publisher used when no broker is
// configured. It writes each event as a structured log record.
package logpub

import (
	"context"
	"log/slog"

	"deliveryconfirm/internal/adapters/out/messaging"
	"deliveryconfirm/internal/core/domain/model/order"
)

type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	return &Publisher{logger: logger.With("component", "LogEventPublisher")}
}

func (p *Publisher) Publish(ctx context.Context, event order.DeliveredEvent) error {
	if err := event.Validate(); err != nil {
		return err
	}

	m := messaging.NewDeliveredMessage(event)
	p.logger.InfoContext(ctx, "delivery event published",
		"event_id", m.EventID,
		"event_type", m.EventType,
		"order_id", m.OrderID,
		"deliverer_id", m.DelivererID,
		"old_status", m.OldStatus,
		"new_status", m.NewStatus,
		"timestamp", m.Timestamp,
	)
	return nil
}
