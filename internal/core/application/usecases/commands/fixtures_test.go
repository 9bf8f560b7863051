package commands_test

import (
	"testing"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func newDeliverer(t *testing.T, id string, isDeliverer bool) confirmation.Deliverer {
	t.Helper()
	d, err := confirmation.NewDeliverer(kernel.MustIDFromString(id), isDeliverer)
	require.NoError(t, err)
	return d
}

func restoredOrder(t *testing.T, id string, status order.Status, deliverer string, code string) *order.Order {
	t.Helper()

	var delivererID *kernel.ID
	if deliverer != "" {
		d := kernel.MustIDFromString(deliverer)
		delivererID = &d
	}
	var stored *string
	if code != "" {
		stored = &code
	}

	o, err := order.RestoreOrder(kernel.MustIDFromString(id), status, delivererID, stored, fixedNow, fixedNow)
	require.NoError(t, err)
	return o
}
