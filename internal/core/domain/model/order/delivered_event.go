package order

import (
	"errors"
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

// DeliveredEventType is the event type stored with every DeliveredEvent and
// carried on the wire by publishers.
const DeliveredEventType = "order.delivered"

var ErrDeliveredEventIsNotConstructed = errors.New("DeliveredEvent must be created via NewDeliveredEvent constructor")

// DeliveredEvent records that an order was handed over and confirmed.
// It is written to the outbox in the same transaction as the status change.
type DeliveredEvent struct {
	id          kernel.ID
	orderID     kernel.ID
	delivererID kernel.ID
	oldStatus   Status
	occurredAt  time.Time

	guard guard.ConstructorGuard
}

// NewDeliveredEvent creates the event for an order that left oldStatus.
func NewDeliveredEvent(orderID, delivererID kernel.ID, oldStatus Status, occurredAt time.Time) (DeliveredEvent, error) {
	return RestoreDeliveredEvent(kernel.NewID(), orderID, delivererID, oldStatus, occurredAt)
}

// RestoreDeliveredEvent rebuilds an event read back from the outbox.
func RestoreDeliveredEvent(
	id, orderID, delivererID kernel.ID,
	oldStatus Status,
	occurredAt time.Time,
) (DeliveredEvent, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		delivererID.Validate(),
		oldStatus.Validate(),
	); err != nil {
		return DeliveredEvent{}, err
	}

	return DeliveredEvent{
		id:          id,
		orderID:     orderID,
		delivererID: delivererID,
		oldStatus:   oldStatus,
		occurredAt:  occurredAt.UTC(),
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (e DeliveredEvent) Validate() error {
	return e.guard.Validate(ErrDeliveredEventIsNotConstructed)
}

func (e DeliveredEvent) ID() kernel.ID          { return e.id }
func (e DeliveredEvent) OrderID() kernel.ID     { return e.orderID }
func (e DeliveredEvent) DelivererID() kernel.ID { return e.delivererID }
func (e DeliveredEvent) OldStatus() Status      { return e.oldStatus }
func (e DeliveredEvent) NewStatus() Status      { return Delivered }
func (e DeliveredEvent) EventType() string      { return DeliveredEventType }
func (e DeliveredEvent) OccurredAt() time.Time  { return e.occurredAt }
