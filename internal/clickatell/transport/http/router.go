package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter assembles the service's HTTP surface: webhooks under webhookPrefix,
// the outbound API under /api/v1, /health and /metrics.
func NewRouter(webhooks *WebhookHandler, messages *MessageHandler, webhookPrefix string, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(PrometheusMetricsMiddleware) // Add Prometheus metrics middleware

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// The gateway is configured with the full callback URLs, so the prefix
	// must match what was registered on its side.
	if webhookPrefix == "" || webhookPrefix == "/" {
		webhooks.RegisterRoutes(r)
	} else {
		r.Route(webhookPrefix, webhooks.RegisterRoutes)
	}
	r.Route("/api/v1", messages.RegisterRoutes)
	return r
}

// RequestLogger logs one line per request.
func RequestLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chi_middleware.NewWrapResponseWriter(w, r.ProtoMajor) // captures the status code

			next.ServeHTTP(ww, r)

			logger.LogAttrs(r.Context(), slog.LevelInfo, "HTTP request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status_code", ww.Status()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("request_id", chi_middleware.GetReqID(r.Context())),
				slog.String("remote_ip", r.RemoteAddr),
			)
		})
	}
}
