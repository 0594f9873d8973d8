// Package metrics defines and registers all custom Prometheus metrics for the
// IMS console. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the console at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ims_console"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// GatewayRequestsTotal counts outbound backend calls.
// Labels:
//   - gateway: "auth", "product", "order", "supplier", "report"
//   - operation: gateway method (e.g. "list", "price_of")
//   - outcome: "ok", "http_error" or "transport_error"
var GatewayRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gateway_requests_total",
		Help:      "Total number of backend requests issued by resource gateways.",
	},
	[]string{"gateway", "operation", "outcome"},
)

// GatewayRequestDuration measures backend round trips.
// Labels:
//   - gateway: resource gateway name
//   - operation: gateway method
var GatewayRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "gateway_request_duration_seconds",
		Help:      "Duration of backend requests issued by resource gateways.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"gateway", "operation"},
)

// EnrichmentFallbacksTotal counts listing records degraded to default values
// because a per-record enrichment call failed.
// Label:
//   - gateway: resource gateway name
var EnrichmentFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "enrichment_fallbacks_total",
		Help:      "Total number of listing records that fell back to default enrichment values.",
	},
	[]string{"gateway"},
)

// ContractViolationsTotal counts backend payloads that break the expected
// contract but are still displayed (e.g. a JSON-encoded order status).
// Label:
//   - field: the offending field
var ContractViolationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_violations_total",
		Help:      "Total number of backend payload fields received in an unexpected shape.",
	},
	[]string{"field"},
)

// ── UI metrics ────────────────────────────────────────────────────────────────

// NotificationsShownTotal counts notifications raised by view controllers.
// Labels:
//   - view: owning view (e.g. "login", "orders")
//   - kind: "success" or "error"
var NotificationsShownTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_shown_total",
		Help:      "Total number of notifications shown, by view and kind.",
	},
	[]string{"view", "kind"},
)

// SessionTransitionsTotal counts session state changes.
// Labels:
//   - to: "authenticated" or "unauthenticated"
//   - reason: "login", "logout", "corrupt_storage", "expired"
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by target state and reason.",
	},
	[]string{"to", "reason"},
)
