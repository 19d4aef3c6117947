package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dtroode/tap-portal-server/internal/apierrors"
)

// Metrics holds the HTTP Prometheus collectors. A nil *Metrics records nothing.
type Metrics struct {
	// Requests counts completed requests.
	// Labels: method, route, status
	Requests *prometheus.CounterVec

	// Duration tracks request handling time.
	// Labels: method, route
	Duration *prometheus.HistogramVec

	// GateRejections counts requests refused by the access gate.
	// Labels: reason
	GateRejections *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with registerer.
// A nil registerer falls back to prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GateRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_gate_rejections_total",
				Help: "Total requests rejected by the access gate by reason",
			},
			[]string{"reason"},
		),
	}

	registerer.MustRegister(m.Requests, m.Duration, m.GateRejections)

	return m
}

// RecordRejection counts a gate rejection. Errors without a kind count as internal.
func (m *Metrics) RecordRejection(err error) {
	if m == nil {
		return
	}
	reason := string(apierrors.KindOf(err))
	if reason == "" {
		reason = "internal"
	}
	m.GateRejections.WithLabelValues(reason).Inc()
}

// Handler records request count and duration per route pattern.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		m.Requests.WithLabelValues(r.Method, route, strconv.Itoa(status(ww))).Inc()
		m.Duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the matched chi pattern so that path parameters do not
// explode label cardinality.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

func status(ww chimiddleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
