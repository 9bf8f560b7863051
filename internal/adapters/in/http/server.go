// Package http is the REST adapter: echo handlers translating requests into
// commands and queries, plus the middleware around them.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"deliveryconfirm/internal/core/application/usecases/commands"
	"deliveryconfirm/internal/core/application/usecases/queries"
	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

type (
	ConfirmDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.ConfirmDeliveryCommand) (commands.ConfirmDeliveryResult, error)
	}

	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	AssignDelivererHandler interface {
		Handle(ctx context.Context, cmd commands.AssignDelivererCommand) error
	}

	StartDeliveryHandler interface {
		Handle(ctx context.Context, cmd commands.StartDeliveryCommand) (commands.StartDeliveryResult, error)
	}

	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	GetDelivererOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetDelivererOrdersQuery) ([]queries.OrderView, error)
	}

	// ConfirmationObserver records the outcome of every confirmation attempt.
	ConfirmationObserver interface {
		ObserveConfirmation(outcome, kind string, elapsed time.Duration)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	ConfirmDelivery    ConfirmDeliveryHandler
	CreateOrder        CreateOrderHandler
	AssignDeliverer    AssignDelivererHandler
	StartDelivery      StartDeliveryHandler
	CancelOrder        CancelOrderHandler
	GetOrder           GetOrderHandler
	GetDelivererOrders GetDelivererOrdersHandler
}

// Server implements the REST operations of openapi.yml.
type Server struct {
	handlers Handlers
	observer ConfirmationObserver
	logger   *slog.Logger
}

func NewServer(handlers Handlers, observer ConfirmationObserver, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		observer: observer,
		logger:   logger.With("component", "HTTPServer"),
	}
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// ConfirmDelivery handles POST /api/v1/deliveries/confirm.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	deliverer, ok := DelivererFrom(c)
	if !ok {
		return writeProblem(c, http.StatusUnauthorized, reasonUnauthorized, ErrMissingToken.Error())
	}

	var body ConfirmDeliveryRequest
	if err := c.Bind(&body); err != nil {
		return s.invalidRequest(c, err)
	}

	cmd, err := commands.NewConfirmDeliveryCommand(body.Payload, deliverer)
	if err != nil {
		return s.fail(c, err)
	}

	return s.confirm(c, cmd)
}

// ConfirmDeliveryByDeliverer handles
// POST /api/v1/orders/{orderId}/confirm-delivery-by-deliverer.
// The deliverer named in the body must be the authenticated one; a different
// one is rejected with deliverer_mismatch in its place among the checks.
func (s *Server) ConfirmDeliveryByDeliverer(c echo.Context) error {
	deliverer, ok := DelivererFrom(c)
	if !ok {
		return writeProblem(c, http.StatusUnauthorized, reasonUnauthorized, ErrMissingToken.Error())
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	var body ConfirmByDelivererRequest
	if err = c.Bind(&body); err != nil {
		return s.invalidRequest(c, err)
	}
	cmd, err := commands.NewConfirmDeliveryByCodeCommand(orderID, body.Hash, body.DelivererID, deliverer)
	if err != nil {
		return s.fail(c, err)
	}

	return s.confirm(c, cmd)
}

func (s *Server) confirm(c echo.Context, cmd commands.ConfirmDeliveryCommand) error {
	started := time.Now()
	result, err := s.handlers.ConfirmDelivery.Handle(c.Request().Context(), cmd)
	s.observeConfirmation(err, time.Since(started))
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, ConfirmationResponse{
		OrderID:     result.Order.ID().String(),
		Status:      result.Order.Status().String(),
		DelivererID: result.Event.DelivererID().String(),
		DeliveredAt: result.Event.OccurredAt(),
		EventID:     result.Event.ID().String(),
	})
}

func (s *Server) observeConfirmation(err error, elapsed time.Duration) {
	if s.observer == nil {
		return
	}

	switch rejection, ok := confirmation.AsRejection(err); {
	case err == nil:
		s.observer.ObserveConfirmation(metrics.OutcomeConfirmed, "", elapsed)
	case ok:
		s.observer.ObserveConfirmation(rejection.Reason.String(), string(rejection.Reason.Kind()), elapsed)
	default:
		s.observer.ObserveConfirmation(metrics.OutcomeError, "", elapsed)
	}
}

// CreateOrder handles POST /api/v1/orders. Without an orderId in the body a
// random one is generated.
func (s *Server) CreateOrder(c echo.Context) error {
	var body CreateOrderRequest
	if err := c.Bind(&body); err != nil {
		return s.invalidRequest(c, err)
	}

	orderID := kernel.NewID()
	if body.OrderID != "" {
		id, err := kernel.IDFromString(body.OrderID)
		if err != nil {
			return s.invalidRequest(c, err)
		}
		orderID = id
	}

	cmd, err := commands.NewCreateOrderCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusCreated, CreatedOrderResponse{OrderID: orderID.String()})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, newOrderResponse(view))
}

// AssignDeliverer handles POST /api/v1/orders/{orderId}/assign.
func (s *Server) AssignDeliverer(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	var body AssignDelivererRequest
	if err = c.Bind(&body); err != nil {
		return s.invalidRequest(c, err)
	}
	delivererID, err := kernel.IDFromString(body.DelivererID)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	cmd, err := commands.NewAssignDelivererCommand(orderID, delivererID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.AssignDeliverer.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// StartDelivery handles POST /api/v1/orders/{orderId}/start-delivery. The
// caller must be the assigned deliverer.
func (s *Server) StartDelivery(c echo.Context) error {
	deliverer, ok := DelivererFrom(c)
	if !ok {
		return writeProblem(c, http.StatusUnauthorized, reasonUnauthorized, ErrMissingToken.Error())
	}

	orderID, err := orderIDParam(c)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, deliverer)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.handlers.StartDelivery.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(http.StatusOK, StartedDeliveryResponse{
		OrderID:          result.Order.ID().String(),
		ConfirmationCode: result.Code,
		QRPayload:        result.Payload,
	})
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := orderIDParam(c)
	if err != nil {
		return s.invalidRequest(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return s.fail(c, err)
	}

	if err = s.handlers.CancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return s.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetDelivererOrders handles GET /api/v1/deliverer/orders?status=a,b.
func (s *Server) GetDelivererOrders(c echo.Context) error {
	deliverer, ok := DelivererFrom(c)
	if !ok {
		return writeProblem(c, http.StatusUnauthorized, reasonUnauthorized, ErrMissingToken.Error())
	}
	if !deliverer.IsDeliverer() {
		return s.fail(c, confirmation.Reject(confirmation.ReasonNotADeliverer))
	}

	var rawStatuses []string
	if err := runtime.BindQueryParameter("form", false, false, "status", c.QueryParams(), &rawStatuses); err != nil {
		return s.invalidRequest(c, err)
	}

	statuses := make([]order.Status, 0, len(rawStatuses))
	for _, raw := range rawStatuses {
		status, err := order.ParseStatus(raw)
		if err != nil {
			return s.invalidRequest(c, err)
		}
		statuses = append(statuses, status)
	}

	query, err := queries.NewGetDelivererOrdersQuery(deliverer.ID(), statuses...)
	if err != nil {
		return s.fail(c, err)
	}

	views, err := s.handlers.GetDelivererOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]OrderResponse, len(views))
	for i, view := range views {
		response[i] = newOrderResponse(view)
	}

	return c.JSON(http.StatusOK, response)
}

func orderIDParam(c echo.Context) (kernel.ID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.ID{}, err
	}

	return kernel.IDFromString(raw)
}

func (s *Server) invalidRequest(c echo.Context, err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if message, ok := httpErr.Message.(string); ok {
			return writeProblem(c, http.StatusBadRequest, reasonInvalidRequest, message)
		}
	}
	return writeProblem(c, http.StatusBadRequest, reasonInvalidRequest, err.Error())
}

// fail writes the mapped error. Internal errors are logged and hidden.
func (s *Server) fail(c echo.Context, err error) error {
	status, reason := classify(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		return writeProblem(c, status, reason, "internal error")
	}

	return writeProblem(c, status, reason, err.Error())
}
