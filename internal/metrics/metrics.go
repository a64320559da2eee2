package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the application's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	billingTransitions *prometheus.CounterVec
	expiredUsers       prometheus.Counter
	jobRuns            *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dentiq_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dentiq_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		billingTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dentiq_billing_transitions_total",
				Help: "Billing transitions by event and outcome",
			},
			[]string{"event", "result"},
		),
		expiredUsers: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dentiq_plan_expirations_total",
				Help: "Users moved from ACTIVE to INACTIVE by expiration",
			},
		),
		jobRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dentiq_job_runs_total",
				Help: "Background job executions by job and outcome",
			},
			[]string{"job", "result"},
		),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.billingTransitions, m.expiredUsers, m.jobRuns)
	return m
}

// Middleware records request counts and latencies keyed by route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			m.httpRequests.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			m.httpDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// BillingTransition counts one attempted billing event.
func (m *Metrics) BillingTransition(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.billingTransitions.WithLabelValues(event, result).Inc()
}

func (m *Metrics) UsersExpired(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.expiredUsers.Add(float64(n))
}

func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}
