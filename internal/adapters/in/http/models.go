package http

import (
	"time"

	"deliveryconfirm/internal/core/application/usecases/queries"
)

type ConfirmDeliveryRequest struct {
	Payload string `json:"payload"`
}

type ConfirmByDelivererRequest struct {
	DelivererID string `json:"delivererId"`
	Hash        string `json:"hash"`
}

type CreateOrderRequest struct {
	OrderID string `json:"orderId"`
}

type AssignDelivererRequest struct {
	DelivererID string `json:"delivererId"`
}

type CreatedOrderResponse struct {
	OrderID string `json:"orderId"`
}

type StartedDeliveryResponse struct {
	OrderID          string `json:"orderId"`
	ConfirmationCode string `json:"confirmationCode"`
	QRPayload        string `json:"qrPayload"`
}

type ConfirmationResponse struct {
	OrderID     string    `json:"orderId"`
	Status      string    `json:"status"`
	DelivererID string    `json:"delivererId"`
	DeliveredAt time.Time `json:"deliveredAt"`
	EventID     string    `json:"eventId"`
}

type OrderResponse struct {
	OrderID             string    `json:"orderId"`
	Status              string    `json:"status"`
	DelivererID         *string   `json:"delivererId,omitempty"`
	HasConfirmationCode bool      `json:"hasConfirmationCode"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func newOrderResponse(view queries.OrderView) OrderResponse {
	return OrderResponse{
		OrderID:             view.ID,
		Status:              view.Status.String(),
		DelivererID:         view.DelivererID,
		HasConfirmationCode: view.HasConfirmationCode,
		UpdatedAt:           view.UpdatedAt,
	}
}
