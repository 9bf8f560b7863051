package commands

import (
	"errors"

	"deliveryconfirm/internal/pkg/errs"
	"deliveryconfirm/internal/pkg/guard"
)

const (
	MinRelayBatchSize = 1
	MaxRelayBatchSize = 1000
)

var ErrRelayDeliveryEventsCommandIsNotConstructed = errors.New(
	"RelayDeliveryEventsCommand must be created via NewRelayDeliveryEventsCommand constructor",
)

// RelayDeliveryEventsCommand publishes up to BatchSize pending delivered events.
type RelayDeliveryEventsCommand struct { //nolint:recvcheck //using for validation
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayDeliveryEventsCommand(batchSize int) (RelayDeliveryEventsCommand, error) {
	if batchSize < MinRelayBatchSize || batchSize > MaxRelayBatchSize {
		return RelayDeliveryEventsCommand{}, errs.NewValueIsOutOfRangeError(
			"batch size", batchSize, MinRelayBatchSize, MaxRelayBatchSize,
		)
	}

	return RelayDeliveryEventsCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RelayDeliveryEventsCommand) Validate() error {
	return c.guard.Validate(ErrRelayDeliveryEventsCommandIsNotConstructed)
}

func (c RelayDeliveryEventsCommand) BatchSize() int {
	return c.batchSize
}
