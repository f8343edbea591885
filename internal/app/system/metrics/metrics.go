// Package metrics exposes Prometheus instrumentation: an HTTP middleware
// for request counts/latency and counters for the approval workflow.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracku_http_requests_total",
		Help: "HTTP requests processed, by method and status code.",
	}, []string{"method", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tracku_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracku_registrations_total",
		Help: "Successful leader registrations.",
	})

	ApprovalsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracku_access_request_approvals_total",
		Help: "Access requests approved by an admin.",
	})

	RejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracku_access_request_rejections_total",
		Help: "Access requests rejected by an admin.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
