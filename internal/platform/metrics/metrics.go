package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	validationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prescription_validations_total",
			Help: "Total number of prescription safety validations",
		},
		[]string{"outcome"},
	)

	criticalInteractionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "critical_drug_interactions_total",
			Help: "Total number of critical drug interactions detected",
		},
	)

	allergyConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "allergy_conflicts_total",
			Help: "Total number of allergy conflicts detected",
		},
		[]string{"risk"},
	)

	criticalAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "critical_alerts_sent_total",
			Help: "Total number of critical interaction alerts dispatched",
		},
		[]string{"status"},
	)
)

// RecordValidation counts one completed validation. outcome is "valid",
// "invalid", or "failed".
func RecordValidation(outcome string) {
	validationsTotal.WithLabelValues(outcome).Inc()
}

// RecordCriticalInteraction counts one detected critical interaction.
func RecordCriticalInteraction() {
	criticalInteractionsTotal.Inc()
}

// RecordAllergyConflict counts one detected allergy conflict by risk tier.
func RecordAllergyConflict(risk string) {
	allergyConflictsTotal.WithLabelValues(risk).Inc()
}

// RecordCriticalAlert counts one alert dispatch attempt. status is "sent" or "failed".
func RecordCriticalAlert(status string) {
	criticalAlertsTotal.WithLabelValues(status).Inc()
}

// Middleware records request counts and latencies per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			httpRequestsTotal.WithLabelValues(
				c.Request().Method, path, strconv.Itoa(c.Response().Status)).Inc()
			httpRequestDuration.WithLabelValues(
				c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler exposes the Prometheus text endpoint.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
