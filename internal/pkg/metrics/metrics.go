// Package metrics owns the Prometheus registry of the service.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeConfirmed is the outcome label of a successful confirmation. Rejections
// use their reason, infrastructure failures OutcomeError.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeError     = "error"
)

// Metrics records HTTP traffic and confirmation outcomes on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	confirmations        *prometheus.CounterVec
	confirmationDuration *prometheus.HistogramVec
}

func New() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, route, and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		confirmations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "delivery_confirmations_total",
				Help: "Delivery confirmation attempts by outcome and reason kind",
			},
			[]string{"outcome", "kind"},
		),
		confirmationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "delivery_confirmation_duration_seconds",
				Help:    "Time spent handling a delivery confirmation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}

	for name, c := range map[string]prometheus.Collector{
		"http_requests_total":                    m.httpRequests,
		"http_request_duration_seconds":          m.httpRequestDuration,
		"delivery_confirmations_total":           m.confirmations,
		"delivery_confirmation_duration_seconds": m.confirmationDuration,
		"go_collector":                           collectors.NewGoCollector(),
		"process_collector":                      collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", name, err)
		}
	}

	return m, nil
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, fmt.Sprint(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveConfirmation records one confirmation attempt. kind is empty for
// confirmed and errored attempts.
func (m *Metrics) ObserveConfirmation(outcome, kind string, elapsed time.Duration) {
	m.confirmations.WithLabelValues(outcome, kind).Inc()
	m.confirmationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
