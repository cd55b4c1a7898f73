package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "messages_sent_total",
			Help:      "Total number of outgoing messages submitted to the gateway.",
		},
		[]string{"provider_name", "status"}, // status: "success", "error"
	)

	messageSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "clickatell",
			Name:      "message_send_duration_seconds",
			Help:      "Duration of message submission.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"provider_name"},
	)

	inboundTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "inbound_events_total",
			Help:      "Total number of webhook events handed to the receiver.",
		},
		[]string{"provider_name", "kind", "status"}, // kind: "message", "status"
	)

	statusReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "clickatell",
			Name:      "status_reports_total",
			Help:      "Total number of delivery status reports by outcome.",
		},
		[]string{"provider_name", "outcome"},
	)
)
