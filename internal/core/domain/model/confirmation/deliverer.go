package confirmation

import (
	"errors"

	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/pkg/guard"
)

var ErrDelivererIsNotConstructed = errors.New("Deliverer must be created via NewDeliverer constructor")

// Deliverer is the authenticated identity presenting a confirmation. The auth
// layer owns authentication; this type only carries its outcome.
type Deliverer struct {
	id          kernel.ID
	isDeliverer bool
	guard       guard.ConstructorGuard
}

func NewDeliverer(id kernel.ID, isDeliverer bool) (Deliverer, error) {
	if err := id.Validate(); err != nil {
		return Deliverer{}, err
	}
	return Deliverer{
		id:          id,
		isDeliverer: isDeliverer,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (d Deliverer) ID() kernel.ID {
	return d.id
}

// IsDeliverer reports whether the identity holds the deliverer role.
func (d Deliverer) IsDeliverer() bool {
	return d.isDeliverer
}

func (d Deliverer) Validate() error {
	return d.guard.Validate(ErrDelivererIsNotConstructed)
}
