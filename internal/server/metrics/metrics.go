// Package metrics collects and exposes Prometheus metrics for the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records request-level and account-level counters. The HTTP layer
// feeds it from middleware and handlers.
type Collector struct {
	requests       *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authFailures   prometheus.Counter
	signups        prometheus.Counter
	logins         prometheus.Counter
	resetRequests  prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "postboard_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "postboard_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postboard_auth_failures_total",
			Help: "Requests rejected with an authentication failure.",
		}),
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postboard_signups_total",
			Help: "Successful account signups.",
		}),
		logins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postboard_logins_total",
			Help: "Successful logins.",
		}),
		resetRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "postboard_password_reset_requests_total",
			Help: "Password reset requests accepted for processing.",
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestLatency,
		c.authFailures,
		c.signups,
		c.logins,
		c.resetRequests,
	)

	return c
}

// RecordRequest records one served request.
func (c *Collector) RecordRequest(route string, statusCode int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthFailure records a rejected credential.
func (c *Collector) RecordAuthFailure() {
	c.authFailures.Inc()
}

// RecordSignup records a successful signup.
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordLogin records a successful login.
func (c *Collector) RecordLogin() {
	c.logins.Inc()
}

// RecordResetRequest records an accepted password reset request.
func (c *Collector) RecordResetRequest() {
	c.resetRequests.Inc()
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
