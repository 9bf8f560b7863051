package commands

import (
	"context"
	"fmt"

	"deliveryconfirm/internal/core/ports"
)

// RelayDeliveryEventsCommandHandler drains the delivered-event outbox.
//
// Events are published oldest first. The first failed publish stops the batch;
// the events before it are marked published and committed, the failed one and
// the rest are retried on the next run.
type RelayDeliveryEventsCommandHandler struct {
	uowFactory DeliveryEventUoWFactory
	publisher  ports.DeliveryEventPublisher
	clock      Clock
}

func NewRelayDeliveryEventsCommandHandler(
	uowFactory DeliveryEventUoWFactory,
	publisher ports.DeliveryEventPublisher,
	clock Clock,
) RelayDeliveryEventsCommandHandler {
	return RelayDeliveryEventsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		clock:      clock,
	}
}

// Handle returns the number of events published.
func (h *RelayDeliveryEventsCommandHandler) Handle(ctx context.Context, cmd RelayDeliveryEventsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.DeliveryEventRepository()
	events, err := outbox.GetUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	published := 0
	var publishErr error
	for _, event := range events {
		if err = h.publisher.Publish(ctx, event); err != nil {
			publishErr = fmt.Errorf("publish event %s: %w", event.ID(), err)
			break
		}

		if err = outbox.MarkPublished(ctx, event.ID(), h.clock()); err != nil {
			return 0, err
		}
		published++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return published, publishErr
}
