package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clickatell",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of served HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	webhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "webhook_requests_total",
			Help:      "Total number of gateway webhook calls.",
		},
		[]string{"webhook", "result"}, // webhook: "im", "status"
	)
)

// PrometheusMetricsMiddleware records request counts and latencies per route pattern.
func PrometheusMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		// Route pattern keeps label cardinality bounded, e.g. /api/v1/raw/{method}.
		path := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 { // handler wrote nothing
			status = http.StatusOK
		}

		httpRequestDurationSeconds.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
	})
}
