// Package metrics defines and registers all custom Prometheus metrics for the
// portal. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Outbound pipeline ────────────────────────────────────────────────────────

// OutboundRequestsTotal counts requests passing the authenticator stage.
// Label:
//   - authenticated: "true" when a bearer token was attached, "false" otherwise
var OutboundRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "outbound_requests_total",
		Help:      "Total number of outbound API requests, by whether a bearer token was attached.",
	},
	[]string{"authenticated"},
)

// UpstreamRequestsTotal counts completed round trips to the upstream API.
// Labels:
//   - code: HTTP status code returned by the upstream
//   - method: HTTP method
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of round trips to the upstream API.",
	},
	[]string{"code", "method"},
)

// UpstreamRequestDuration measures upstream round trip latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of round trips to the upstream API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"code", "method"},
)

// ── Profile screen ───────────────────────────────────────────────────────────

// ProfileLoadsTotal counts profile initialisations by the state they settled in.
// Label:
//   - state: "REDIRECTING", "POPULATED", "EMPTY" or "FAILED"
var ProfileLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "profile_loads_total",
		Help:      "Total number of profile screen initialisations, by final state.",
	},
	[]string{"state"},
)

// ── Sessions ─────────────────────────────────────────────────────────────────

// AuthEventsTotal counts logins and logouts.
// Labels:
//   - event: "login" or "logout"
//   - result: "ok" or "error"
var AuthEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_events_total",
		Help:      "Total number of login and logout attempts, by result.",
	},
	[]string{"event", "result"},
)
