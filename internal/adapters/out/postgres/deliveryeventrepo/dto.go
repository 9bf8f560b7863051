// Package deliveryeventrepo is the GORM-backed transactional outbox for
// delivered events.
package deliveryeventrepo

import (
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"
)

// DeliveryEventDTO is the row of the delivery_events table. PublishedAt stays
// NULL until the relay handed the event over. Rows that cannot be read back as
// a DeliveredEvent get QuarantinedAt and are left out of later batches.
type DeliveryEventDTO struct {
	ID               string     `gorm:"type:text;primaryKey"`
	OrderID          string     `gorm:"type:text;not null;index"`
	DelivererID      string     `gorm:"type:text;not null"`
	OldStatus        int        `gorm:"not null"`
	NewStatus        int        `gorm:"not null"`
	EventType        string     `gorm:"type:text;not null"`
	OccurredAt       time.Time  `gorm:"not null;index"`
	PublishedAt      *time.Time `gorm:"index"`
	QuarantinedAt    *time.Time `gorm:"index"`
	QuarantineReason *string    `gorm:"type:text"`
}

func (DeliveryEventDTO) TableName() string {
	return "delivery_events"
}

func fromDomain(e order.DeliveredEvent) DeliveryEventDTO {
	return DeliveryEventDTO{
		ID:          e.ID().String(),
		OrderID:     e.OrderID().String(),
		DelivererID: e.DelivererID().String(),
		OldStatus:   int(e.OldStatus()),
		NewStatus:   int(e.NewStatus()),
		EventType:   e.EventType(),
		OccurredAt:  e.OccurredAt(),
	}
}

func toDomain(dto DeliveryEventDTO) (order.DeliveredEvent, error) {
	if dto.EventType != order.DeliveredEventType {
		return order.DeliveredEvent{}, errs.NewValueIsInvalidError("event type " + dto.EventType)
	}

	id, err := kernel.IDFromString(dto.ID)
	if err != nil {
		return order.DeliveredEvent{}, err
	}
	orderID, err := kernel.IDFromString(dto.OrderID)
	if err != nil {
		return order.DeliveredEvent{}, err
	}
	delivererID, err := kernel.IDFromString(dto.DelivererID)
	if err != nil {
		return order.DeliveredEvent{}, err
	}

	return order.RestoreDeliveredEvent(id, orderID, delivererID, order.Status(dto.OldStatus), dto.OccurredAt)
}
