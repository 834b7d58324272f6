package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	WebhookEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook events accepted by the listener",
		},
		[]string{"event"},
	)

	WebhookRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_rejected_total",
			Help: "Webhook requests rejected by the listener",
		},
		[]string{"reason"},
	)

	StoredMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "webhook_stored_messages",
			Help: "Messages currently held in the in-memory store",
		},
	)

	GatewayRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Requests sent to the Evolution API, by method and response status",
		},
		[]string{"method", "status"},
	)
)

// Init registers metrics with Prometheus
func Init() {
	prometheus.MustRegister(WebhookEvents)
	prometheus.MustRegister(WebhookRejected)
	prometheus.MustRegister(StoredMessages)
	prometheus.MustRegister(GatewayRequests)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
