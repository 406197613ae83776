package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the admission service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry prometheus.Gatherer

	// Submission outcomes: "created", "rejected", "failed"
	Submissions *prometheus.CounterVec

	// Eligibility rejections by error code
	EligibilityRejections *prometheus.CounterVec

	// Fire-and-forget side effects that failed, by effect name
	SideEffectFailures *prometheus.CounterVec

	HTTPDuration *prometheus.HistogramVec
}

// New registers every collector on reg. Passing a fresh prometheus.NewRegistry()
// keeps tests isolated from the global registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_submissions_total",
			Help: "Application submissions by outcome",
		}, []string{"outcome"}),

		EligibilityRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_eligibility_rejections_total",
			Help: "Eligibility validation failures by error code",
		}, []string{"code"}),

		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "admission_side_effect_failures_total",
			Help: "Failed fire-and-forget side effects by effect",
		}, []string{"effect"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admission_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementSubmission records one submission outcome.
func (m *Metrics) IncrementSubmission(outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(outcome).Inc()
	}
}

// IncrementEligibilityRejection records a rejected eligibility check.
func (m *Metrics) IncrementEligibilityRejection(code string) {
	if m != nil {
		m.EligibilityRejections.WithLabelValues(code).Inc()
	}
}

// IncrementSideEffectFailure records a failed email or notification.
func (m *Metrics) IncrementSideEffectFailure(effect string) {
	if m != nil {
		m.SideEffectFailures.WithLabelValues(effect).Inc()
	}
}

// ObserveHTTP records the latency of one request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m != nil {
		m.HTTPDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
	}
}

// Middleware times every request against its route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
