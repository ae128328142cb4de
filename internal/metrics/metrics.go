// Package metrics provides Prometheus instrumentation for folio.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"folio/internal/sanitize"
)

// HTTP metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "folio_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Contact intake metrics.
var (
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_submissions_total",
		Help: "Contact form submissions by outcome (accepted, rejected, spam, error).",
	}, []string{"outcome"})

	ValidationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_validation_errors_total",
		Help: "Validation failures by field.",
	}, []string{"field"})

	FieldsSanitizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_fields_sanitized_total",
		Help: "Form fields cleaned, by field kind.",
	}, []string{"kind"})

	NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_notifications_total",
		Help: "Submission notifications by channel and result.",
	}, []string{"channel", "result"})
)

// ObserveForm records the kinds of the fields in a cleaned submission and
// the fields that failed validation.
func ObserveForm(fields map[string]string, res sanitize.Result) {
	for name := range fields {
		FieldsSanitizedTotal.WithLabelValues(sanitize.KindFor(name).String()).Inc()
	}
	for field := range res.Errors {
		ValidationErrorsTotal.WithLabelValues(field).Inc()
	}
}

// Middleware records request counts and latency by route pattern, keeping
// label cardinality bounded.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := c.Route().Path
		HTTPRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
