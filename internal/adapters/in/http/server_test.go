package http_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpadapter "deliveryconfirm/internal/adapters/in/http"
	"deliveryconfirm/internal/core/application/usecases/commands"
	"deliveryconfirm/internal/core/application/usecases/queries"
	"deliveryconfirm/internal/core/domain/model/confirmation"
	"deliveryconfirm/internal/core/domain/model/kernel"
	"deliveryconfirm/internal/core/domain/model/order"
	"deliveryconfirm/internal/pkg/errs"
	"deliveryconfirm/internal/pkg/metrics"

	"github.com/golang-jwt/jwt/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

var deliveredAt = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

type MockConfirmDeliveryHandler struct{ mock.Mock }

func (m *MockConfirmDeliveryHandler) Handle(
	ctx context.Context, cmd commands.ConfirmDeliveryCommand,
) (commands.ConfirmDeliveryResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ConfirmDeliveryResult), args.Error(1)
}

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockAssignDelivererHandler struct{ mock.Mock }

func (m *MockAssignDelivererHandler) Handle(ctx context.Context, cmd commands.AssignDelivererCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockStartDeliveryHandler struct{ mock.Mock }

func (m *MockStartDeliveryHandler) Handle(
	ctx context.Context, cmd commands.StartDeliveryCommand,
) (commands.StartDeliveryResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.StartDeliveryResult), args.Error(1)
}

type MockCancelOrderHandler struct{ mock.Mock }

func (m *MockCancelOrderHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.OrderView), args.Error(1)
}

type MockGetDelivererOrdersHandler struct{ mock.Mock }

func (m *MockGetDelivererOrdersHandler) Handle(
	ctx context.Context, query queries.GetDelivererOrdersQuery,
) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.OrderView), args.Error(1)
}

type testServer struct {
	echo    *echo.Echo
	confirm *MockConfirmDeliveryHandler
	create  *MockCreateOrderHandler
	assign  *MockAssignDelivererHandler
	start   *MockStartDeliveryHandler
	cancel  *MockCancelOrderHandler
	get     *MockGetOrderHandler
	list    *MockGetDelivererOrdersHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		confirm: new(MockConfirmDeliveryHandler),
		create:  new(MockCreateOrderHandler),
		assign:  new(MockAssignDelivererHandler),
		start:   new(MockStartDeliveryHandler),
		cancel:  new(MockCancelOrderHandler),
		get:     new(MockGetOrderHandler),
		list:    new(MockGetDelivererOrdersHandler),
	}

	m, err := metrics.New()
	require.NoError(t, err)
	auth, err := httpadapter.NewAuthenticator(testSecret)
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	server := httpadapter.NewServer(httpadapter.Handlers{
		ConfirmDelivery:    ts.confirm,
		CreateOrder:        ts.create,
		AssignDeliverer:    ts.assign,
		StartDelivery:      ts.start,
		CancelOrder:        ts.cancel,
		GetOrder:           ts.get,
		GetDelivererOrders: ts.list,
	}, m, logger)

	ts.echo, err = httpadapter.NewRouter(t.Context(), server, auth, m, logger)
	require.NoError(t, err)
	return ts
}

func token(t *testing.T, subject string, isDeliverer bool) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":          subject,
		"is_deliverer": isDeliverer,
		"exp":          time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func (ts *testServer) do(t *testing.T, method, target, bearer, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	ts.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func deliveredResult(t *testing.T) commands.ConfirmDeliveryResult {
	t.Helper()
	deliverer := kernel.MustIDFromString("D1")
	code := "SECRET"
	o, err := order.RestoreOrder(kernel.MustIDFromString("O1"), order.Delivered, &deliverer, &code, deliveredAt, deliveredAt)
	require.NoError(t, err)
	event, err := order.NewDeliveredEvent(o.ID(), deliverer, order.OutForDelivery, deliveredAt)
	require.NoError(t, err)
	return commands.ConfirmDeliveryResult{Order: o, Event: event}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestAuth_RejectsMissingAndForgedTokens(t *testing.T) {
	ts := newTestServer(t)
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "D1"}).SignedString([]byte("other"))
	require.NoError(t, err)
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"is_deliverer": true}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, bearer := range map[string]string{"missing": "", "forged": forged, "no subject": noSubject} {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/deliveries/confirm", bearer, `{"payload":"x"}`)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
		})
	}
	ts.confirm.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestConfirmDelivery_Success(t *testing.T) {
	ts := newTestServer(t)
	payload := "delivery_confirmation_tag:O1:SECRET"
	result := deliveredResult(t)
	ts.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmDeliveryCommand) bool {
		return cmd.Payload() == payload && cmd.Deliverer().ID().String() == "D1" && cmd.Deliverer().IsDeliverer()
	})).Return(result, nil).Once()

	rec := ts.do(t, http.MethodPost, "/api/v1/deliveries/confirm", token(t, "D1", true), `{"payload":"`+payload+`"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[httpadapter.ConfirmationResponse](t, rec)
	assert.Equal(t, "O1", body.OrderID)
	assert.Equal(t, "delivered", body.Status)
	assert.Equal(t, "D1", body.DelivererID)
	assert.Equal(t, result.Event.ID().String(), body.EventID)
	assert.True(t, deliveredAt.Equal(body.DeliveredAt))
	ts.confirm.AssertExpectations(t)

	scrape := ts.do(t, http.MethodGet, "/metrics", "", "")
	assert.Contains(t, scrape.Body.String(), `outcome="confirmed"`)
}

func TestConfirmDelivery_RejectionsMapToStatusCodes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		reason string
	}{
		{confirmation.Reject(confirmation.ReasonUnrecognizedFormat), http.StatusBadRequest, "unrecognized_format"},
		{confirmation.Reject(confirmation.ReasonMissingOrderID), http.StatusBadRequest, "missing_order_id"},
		{confirmation.Reject(confirmation.ReasonOrderNotFound), http.StatusNotFound, "order_not_found"},
		{confirmation.Reject(confirmation.ReasonNotADeliverer), http.StatusForbidden, "not_a_deliverer"},
		{confirmation.Reject(confirmation.ReasonDelivererMismatch), http.StatusForbidden, "deliverer_mismatch"},
		{confirmation.RejectInvalidStatus(order.Cancelled), http.StatusConflict, "invalid_order_status"},
		{confirmation.Reject(confirmation.ReasonCodeMismatch), http.StatusForbidden, "code_mismatch"},
		{confirmation.Reject(confirmation.ReasonAlreadyDelivered), http.StatusConflict, "already_delivered"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			ts := newTestServer(t)
			ts.confirm.On("Handle", mock.Anything, mock.Anything).
				Return(commands.ConfirmDeliveryResult{}, tt.err).Once()

			rec := ts.do(t, http.MethodPost, "/api/v1/deliveries/confirm", token(t, "D1", true), `{"payload":"x"}`)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody[httpadapter.ErrorResponse](t, rec)
			assert.Equal(t, tt.status, body.Code)
			assert.Equal(t, tt.reason, body.Reason)
			assert.Equal(t, tt.err.Error(), body.Message)
		})
	}
}

func TestConfirmDelivery_InfrastructureErrorIsHidden(t *testing.T) {
	ts := newTestServer(t)
	ts.confirm.On("Handle", mock.Anything, mock.Anything).
		Return(commands.ConfirmDeliveryResult{}, errors.New("connection reset by peer")).Once()

	rec := ts.do(t, http.MethodPost, "/api/v1/deliveries/confirm", token(t, "D1", true), `{"payload":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody[httpadapter.ErrorResponse](t, rec)
	assert.Equal(t, "internal_error", body.Reason)
	assert.NotContains(t, body.Message, "connection reset")
}

func TestConfirmDelivery_SchemaViolationNeverReachesHandler(t *testing.T) {
	ts := newTestServer(t)

	for name, body := range map[string]string{
		"missing payload": `{}`,
		"wrong type":      `{"payload": 42}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/v1/deliveries/confirm", token(t, "D1", true), body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "invalid_request", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
		})
	}
	ts.confirm.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestConfirmDeliveryByDeliverer(t *testing.T) {
	t.Run("runs the confirmation with the given code", func(t *testing.T) {
		ts := newTestServer(t)
		ts.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmDeliveryCommand) bool {
			decoded, err := cmd.Decode()
			secret, ok := decoded.Secret()
			return err == nil && decoded.OrderID().String() == "O1" && ok && secret == "SECRET"
		})).Return(deliveredResult(t), nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/confirm-delivery-by-deliverer",
			token(t, "D1", true), `{"delivererId":"D1","hash":"SECRET"}`)

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		ts.confirm.AssertExpectations(t)
	})

	t.Run("body deliverer is passed on as a claim", func(t *testing.T) {
		ts := newTestServer(t)
		ts.confirm.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ConfirmDeliveryCommand) bool {
			claimed, ok := cmd.ClaimedDelivererID()
			return ok && claimed == "D2" && cmd.Deliverer().ID().String() == "D1"
		})).Return(commands.ConfirmDeliveryResult{}, confirmation.Reject(confirmation.ReasonDelivererMismatch)).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/confirm-delivery-by-deliverer",
			token(t, "D1", true), `{"delivererId":"D2","hash":"SECRET"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "deliverer_mismatch", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
		ts.confirm.AssertExpectations(t)
	})

	t.Run("missing order with a non-deliverer token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.confirm.On("Handle", mock.Anything, mock.Anything).
			Return(commands.ConfirmDeliveryResult{}, confirmation.Reject(confirmation.ReasonOrderNotFound)).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/NO-SUCH-ORDER/confirm-delivery-by-deliverer",
			token(t, "C1", false), `{"delivererId":"D1","hash":"SECRET"}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "order_not_found", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
		ts.confirm.AssertExpectations(t)

		scrape := ts.do(t, http.MethodGet, "/metrics", "", "")
		assert.Contains(t, scrape.Body.String(), `outcome="order_not_found"`)
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("generates an id when none is given", func(t *testing.T) {
		ts := newTestServer(t)
		ts.create.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders", token(t, "ops", false), "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotEmpty(t, decodeBody[httpadapter.CreatedOrderResponse](t, rec).OrderID)
	})

	t.Run("uses the given id", func(t *testing.T) {
		ts := newTestServer(t)
		ts.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			return cmd.OrderID().String() == "O1"
		})).Return(nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders", token(t, "ops", false), `{"orderId":"O1"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "O1", decodeBody[httpadapter.CreatedOrderResponse](t, rec).OrderID)
		ts.create.AssertExpectations(t)
	})

	t.Run("duplicate id", func(t *testing.T) {
		ts := newTestServer(t)
		ts.create.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewObjectAlreadyExistsError("order", "O1")).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders", token(t, "ops", false), `{"orderId":"O1"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "already_exists", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
	})
}

func TestAssignDeliverer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		ts.assign.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignDelivererCommand) bool {
			return cmd.OrderID().String() == "O1" && cmd.DelivererID().String() == "D1"
		})).Return(nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/assign", token(t, "ops", false), `{"delivererId":"D1"}`)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		ts.assign.AssertExpectations(t)
	})

	t.Run("refused transition", func(t *testing.T) {
		ts := newTestServer(t)
		ts.assign.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewValueIsInvalidError("status is invalid")).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/assign", token(t, "ops", false), `{"delivererId":"D1"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "invalid_order_status", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
	})

	t.Run("missing deliverer", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/assign", token(t, "ops", false), `{}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.assign.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestStartDelivery(t *testing.T) {
	t.Run("returns code and payload", func(t *testing.T) {
		ts := newTestServer(t)
		deliverer := kernel.MustIDFromString("D1")
		code := "a1b2c3d4e5f6"
		o, err := order.RestoreOrder(kernel.MustIDFromString("O1"), order.OutForDelivery, &deliverer, &code, deliveredAt, deliveredAt)
		require.NoError(t, err)
		ts.start.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.StartDeliveryCommand) bool {
			return cmd.OrderID().String() == "O1" && cmd.Deliverer().ID().String() == "D1"
		})).Return(commands.StartDeliveryResult{
			Order:   o,
			Code:    code,
			Payload: "delivery_confirmation_tag:O1:" + code,
		}, nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/start-delivery", token(t, "D1", true), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody[httpadapter.StartedDeliveryResponse](t, rec)
		assert.Equal(t, "O1", body.OrderID)
		assert.Equal(t, code, body.ConfirmationCode)
		assert.Equal(t, "delivery_confirmation_tag:O1:"+code, body.QRPayload)
	})

	t.Run("not the assigned deliverer", func(t *testing.T) {
		ts := newTestServer(t)
		ts.start.On("Handle", mock.Anything, mock.Anything).
			Return(commands.StartDeliveryResult{}, order.ErrDelivererIsNotAssigned).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/start-delivery", token(t, "D2", true), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "deliverer_mismatch", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
	})
}

func TestCancelOrder(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t)
		ts.cancel.On("Handle", mock.Anything, mock.Anything).Return(nil).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O1/cancel", token(t, "ops", false), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("unknown order", func(t *testing.T) {
		ts := newTestServer(t)
		ts.cancel.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewObjectNotFoundError("order", "O9")).Once()

		rec := ts.do(t, http.MethodPost, "/api/v1/orders/O9/cancel", token(t, "ops", false), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "not_found", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
	})
}

func TestGetOrder(t *testing.T) {
	ts := newTestServer(t)
	delivererID := "D1"
	ts.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().String() == "O1"
	})).Return(queries.OrderView{
		ID:                  "O1",
		Status:              order.OutForDelivery,
		DelivererID:         &delivererID,
		HasConfirmationCode: true,
		UpdatedAt:           deliveredAt,
	}, nil).Once()

	rec := ts.do(t, http.MethodGet, "/api/v1/orders/O1", token(t, "ops", false), "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[httpadapter.OrderResponse](t, rec)
	assert.Equal(t, "out_for_delivery", body.Status)
	assert.Equal(t, &delivererID, body.DelivererID)
	assert.True(t, body.HasConfirmationCode)
	assert.NotContains(t, rec.Body.String(), "confirmationCode\":")
}

func TestGetDelivererOrders(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		ts := newTestServer(t)
		ts.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetDelivererOrdersQuery) bool {
			return q.DelivererID().String() == "D1" &&
				assert.ObjectsAreEqual([]order.Status{order.OutForDelivery, order.Assigned}, q.Statuses())
		})).Return([]queries.OrderView{
			{ID: "O2", Status: order.OutForDelivery, HasConfirmationCode: true, UpdatedAt: deliveredAt},
			{ID: "O1", Status: order.Assigned, UpdatedAt: deliveredAt.Add(-time.Hour)},
		}, nil).Once()

		rec := ts.do(t, http.MethodGet, "/api/v1/deliverer/orders?status=out_for_delivery,assigned", token(t, "D1", true), "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decodeBody[[]httpadapter.OrderResponse](t, rec)
		require.Len(t, body, 2)
		assert.Equal(t, "O2", body[0].OrderID)
		ts.list.AssertExpectations(t)
	})

	t.Run("requires the deliverer role", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/api/v1/deliverer/orders", token(t, "U1", false), "")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "not_a_deliverer", decodeBody[httpadapter.ErrorResponse](t, rec).Reason)
	})

	t.Run("unknown status", func(t *testing.T) {
		ts := newTestServer(t)

		rec := ts.do(t, http.MethodGet, "/api/v1/deliverer/orders?status=lost", token(t, "D1", true), "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		ts.list.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestSwaggerDocIsServed(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/swagger/doc.json", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Delivery confirmation API")
}
