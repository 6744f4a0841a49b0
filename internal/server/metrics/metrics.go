// Package metrics declares the Prometheus collectors exported by the server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// AuthAttemptsTotal counts register, login and gate outcomes.
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artvault_auth_attempts_total",
			Help: "Authentication attempts by operation and result",
		},
		[]string{"operation", "result"},
	)

	// AuthorizationDeniedTotal counts mutations refused by the ownership check.
	AuthorizationDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "artvault_authorization_denied_total",
			Help: "Mutations denied because the caller does not own the resource",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by method and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "artvault_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"method", "code"},
	)

	// HTTPRequestDuration records HTTP handling latency in seconds.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "artvault_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(
		AuthAttemptsTotal,
		AuthorizationDeniedTotal,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
