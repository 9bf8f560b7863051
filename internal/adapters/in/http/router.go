package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"deliveryconfirm/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// NewRouter wires the server, auth and metrics into an echo instance.
//
// Routes under /api/v1 require a bearer token and are validated against
// openapi.yml; /health, /metrics and /swagger/* are public.
func NewRouter(
	ctx context.Context,
	server *Server,
	auth *Authenticator,
	m *metrics.Metrics,
	logger *slog.Logger,
) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if err = RegisterSwagger(doc); err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(
		middleware.Recover(),
		requestLogger(logger),
		requestMetrics(m),
	)

	e.GET("/health", server.Health)
	e.GET("/metrics", echo.WrapHandler(m.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", auth.Middleware(), validator)
	api.POST("/deliveries/confirm", server.ConfirmDelivery)
	api.POST("/orders", server.CreateOrder)
	api.GET("/orders/:orderId", server.GetOrder)
	api.POST("/orders/:orderId/assign", server.AssignDeliverer)
	api.POST("/orders/:orderId/start-delivery", server.StartDelivery)
	api.POST("/orders/:orderId/cancel", server.CancelOrder)
	api.POST("/orders/:orderId/confirm-delivery-by-deliverer", server.ConfirmDeliveryByDeliverer)
	api.GET("/deliverer/orders", server.GetDelivererOrders)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "HTTPRequest")

	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

func requestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			started := time.Now()
			err := next(c)

			status := c.Response().Status
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				status = httpErr.Code
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, route, status, time.Since(started))
			return err
		}
	}
}
