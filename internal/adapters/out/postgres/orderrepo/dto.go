// Package orderrepo persists order aggregates with GORM.
package orderrepo

import (
	"time"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
)

// OrderDTO is the row of the orders table. Timestamps come from the domain, so
// GORM's automatic time tracking is disabled.
type OrderDTO struct {
	ID               string    `gorm:"type:text;primaryKey"`
	DelivererID      *string   `gorm:"type:text;index"`
	ConfirmationCode *string   `gorm:"type:text"`
	Status           int       `gorm:"not null;index"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	var delivererID *string
	if id := o.Deliverer(); id != nil {
		raw := id.String()
		delivererID = &raw
	}

	return OrderDTO{
		ID:               o.ID().String(),
		DelivererID:      delivererID,
		ConfirmationCode: o.ConfirmationCode(),
		Status:           int(o.Status()),
		CreatedAt:        o.CreatedAt(),
		UpdatedAt:        o.UpdatedAt(),
	}
}

// toDomain rebuilds the aggregate; RestoreOrder rejects rows that break invariants.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.IDFromString(dto.ID)
	if err != nil {
		return nil, err
	}

	var delivererID *kernel.ID
	if dto.DelivererID != nil {
		d, idErr := kernel.IDFromString(*dto.DelivererID)
		if idErr != nil {
			return nil, idErr
		}
		delivererID = &d
	}

	return order.RestoreOrder(
		id,
		order.Status(dto.Status),
		delivererID,
		dto.ConfirmationCode,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
