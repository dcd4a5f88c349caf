// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wizdesk",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wizdesk",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wizdesk",
		Name:      "emails_total",
		Help:      "Notification emails by template and delivery method.",
	}, []string{"template", "method"})

	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wizdesk",
		Name:      "registrations_total",
		Help:      "Completed registrations by role.",
	}, []string{"role"})

	MembershipDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wizdesk",
		Name:      "membership_decisions_total",
		Help:      "Leader decisions on membership requests.",
	}, []string{"decision"})

	SubtaskClaims = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wizdesk",
		Name:      "subtask_claims_total",
		Help:      "Subtask take attempts by outcome.",
	}, []string{"outcome"})

	PreRegistrations = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wizdesk",
		Name:      "pre_registrations",
		Help:      "Pending pre-registrations held in memory.",
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request count and latency labelled by the matched chi
// route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
