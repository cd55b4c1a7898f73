package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "api_requests_total",
			Help:      "Total number of gateway API calls.",
		},
		[]string{"method", "result"}, // result: ok, provider_error, connection_error, http_error, malformed
	)

	providerErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "provider_errors_total",
			Help:      "Total number of ERR replies from the gateway.",
		},
		[]string{"method", "category"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clickatell",
			Name:      "api_request_duration_seconds",
			Help:      "Duration of gateway HTTP round trips.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
