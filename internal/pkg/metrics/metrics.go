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
	transactionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_transactions_created_total",
			Help: "Transactions created, by gateway and initial status",
		},
		[]string{"provider", "status"},
	)

	statusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_status_transitions_total",
			Help: "Applied transaction status transitions",
		},
		[]string{"from", "to"},
	)

	gatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_gateway_requests_total",
			Help: "Outbound gateway calls, by provider, operation and HTTP status",
		},
		[]string{"provider", "operation", "code"},
	)

	gatewayLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payments_gateway_request_duration_seconds",
			Help:    "Latency of outbound gateway calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"provider", "operation"},
	)

	webhookResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_webhooks_total",
			Help: "Inbound gateway webhooks, by provider and outcome",
		},
		[]string{"provider", "result"},
	)

	breakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payments_gateway_circuit_state",
			Help: "Gateway circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"name"},
	)

	pollerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_poller_runs_total",
			Help: "Pending transaction poller ticks, by outcome",
		},
		[]string{"result"},
	)
)

func TransactionCreated(provider, status string) {
	transactionsCreated.WithLabelValues(provider, status).Inc()
}

func StatusTransition(from, to string) {
	statusTransitions.WithLabelValues(from, to).Inc()
}

// GatewayRequest records one outbound call; code is 0 when no response arrived
func GatewayRequest(provider, operation string, code int, d time.Duration) {
	gatewayRequests.WithLabelValues(provider, operation, strconv.Itoa(code)).Inc()
	gatewayLatency.WithLabelValues(provider, operation).Observe(d.Seconds())
}

// Webhook records a webhook outcome such as processed, signature_invalid or invalid_payload
func Webhook(provider, result string) {
	webhookResults.WithLabelValues(provider, result).Inc()
}

func BreakerState(name string, state int) {
	breakerState.WithLabelValues(name).Set(float64(state))
}

// PollerRun records a scheduler tick: ok, error or skipped
func PollerRun(result string) {
	pollerRuns.WithLabelValues(result).Inc()
}

// Handler exposes the default registry for scraping
func Handler() http.Handler {
	return promhttp.Handler()
}
