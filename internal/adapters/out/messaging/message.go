// Package messaging holds the wire format shared by every delivered-event
// publisher. Subpackages deliver it over redis, rabbitmq or the log.
package messaging

import (
	"time"

	"deliveryconfirm/internal/core/domain/model/order"

	jsoniter "github.com/json-iterator/go"
)

var wire = jsoniter.ConfigCompatibleWithStandardLibrary

// DeliveredMessage is the JSON body published for an order.delivered event.
type DeliveredMessage struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	OrderID     string    `json:"order_id"`
	DelivererID string    `json:"deliverer_id"`
	OldStatus   string    `json:"old_status"`
	NewStatus   string    `json:"new_status"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewDeliveredMessage(e order.DeliveredEvent) DeliveredMessage {
	return DeliveredMessage{
		EventID:     e.ID().String(),
		EventType:   e.EventType(),
		OrderID:     e.OrderID().String(),
		DelivererID: e.DelivererID().String(),
		OldStatus:   e.OldStatus().String(),
		NewStatus:   e.NewStatus().String(),
		Timestamp:   e.OccurredAt(),
	}
}

// Encode validates the event and renders its message body.
func Encode(e order.DeliveredEvent) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return wire.Marshal(NewDeliveredMessage(e))
}

// Decode parses a message body produced by Encode.
func Decode(body []byte) (DeliveredMessage, error) {
	var m DeliveredMessage
	err := wire.Unmarshal(body, &m)
	return m, err
}
