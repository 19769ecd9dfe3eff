// Package metrics provides Prometheus instrumentation. The registry is
// private to the process; the handler is mounted on GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//nolint:gochecknoglobals
var (
	// Registry holds all collectors exposed on /metrics.
	Registry = prometheus.NewRegistry()

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "voltcart",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voltcart",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	requestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "voltcart",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// OrdersPlaced counts successfully placed orders.
	OrdersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "voltcart",
		Subsystem: "checkout",
		Name:      "orders_placed_total",
		Help:      "Total orders placed.",
	})

	// PaymentsCompleted counts payments by final gateway status.
	PaymentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voltcart",
			Subsystem: "checkout",
			Name:      "payments_total",
			Help:      "Total payment confirmations by gateway status.",
		},
		[]string{"status"},
	)

	// OTPIssued counts one-time passwords issued by purpose.
	OTPIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voltcart",
			Subsystem: "auth",
			Name:      "otp_issued_total",
			Help:      "Total one-time passwords issued.",
		},
		[]string{"purpose"},
	)
)

//nolint:gochecknoinits
func init() {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(
		requestDuration,
		requestTotal,
		requestInFlight,
		OrdersPlaced,
		PaymentsCompleted,
		OTPIssued,
	)
}

// Middleware records request duration, count and in-flight gauge for every
// handled request. The route pattern, not the raw URL, labels the series to
// keep cardinality bounded.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestInFlight.Inc()
			defer requestInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					status = httpErr.Code
				}
			}

			method := c.Request().Method
			path := c.Path()
			statusLabel := strconv.Itoa(status)

			requestDuration.WithLabelValues(method, path, statusLabel).Observe(time.Since(start).Seconds())
			requestTotal.WithLabelValues(method, path, statusLabel).Inc()

			return err
		}
	}
}

// Handler exposes the registry in Prometheus text format.
func Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})

	return echo.WrapHandler(h)
}
