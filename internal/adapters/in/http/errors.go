package http

import (
	"errors"
	"net/http"

	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Reasons reported for failures that are not confirmation rejections.
const (
	reasonInvalidRequest = "invalid_request"
	reasonUnauthorized   = "unauthorized"
	reasonNotFound       = "not_found"
	reasonAlreadyExists  = "already_exists"
	reasonConflict       = "conflict"
	reasonInternal       = "internal_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func writeProblem(c echo.Context, status int, reason, message string) error {
	return c.JSON(status, ErrorResponse{
		Code:    status,
		Reason:  reason,
		Message: message,
	})
}

func rejectionStatus(reason confirmation.Reason) int {
	switch reason {
	case confirmation.ReasonUnrecognizedFormat, confirmation.ReasonMissingOrderID:
		return http.StatusBadRequest
	case confirmation.ReasonOrderNotFound:
		return http.StatusNotFound
	case confirmation.ReasonNotADeliverer, confirmation.ReasonDelivererMismatch, confirmation.ReasonCodeMismatch:
		return http.StatusForbidden
	case confirmation.ReasonInvalidOrderStatus, confirmation.ReasonAlreadyDelivered:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// classify maps an application error to a status and reason. Invalid values
// reaching this point come from refused status transitions, hence 409.
func classify(err error) (int, string) {
	if rejection, ok := confirmation.AsRejection(err); ok {
		return rejectionStatus(rejection.Reason), rejection.Reason.String()
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, reasonNotFound
	case errors.Is(err, errs.ErrObjectAlreadyExists):
		return http.StatusConflict, reasonAlreadyExists
	case errors.Is(err, order.ErrDelivererIsNotAssigned):
		return http.StatusForbidden, confirmation.ReasonDelivererMismatch.String()
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict, reasonConflict
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest, reasonInvalidRequest
	case errors.Is(err, errs.ErrValueIsInvalid):
		return http.StatusConflict, confirmation.ReasonInvalidOrderStatus.String()
	default:
		return http.StatusInternalServerError, reasonInternal
	}
}
