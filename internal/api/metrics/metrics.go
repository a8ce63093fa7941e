// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Gate metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts gate evaluations.
// Labels:
//   - scheme: "local_token" or "bearer_assertion"
//   - outcome: "authenticated" or the rejection reason
//     ("unauthenticated", "token_invalid", "not_registered", "inactive", "forbidden", "error")
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of authorization gate evaluations, by scheme and outcome.",
	},
	[]string{"scheme", "outcome"},
)

// LoginAttemptsTotal counts local credential logins.
// Label:
//   - result: "success", "rejected", or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of local login attempts, by result.",
	},
	[]string{"result"},
)

// ProvisionRollbacksTotal counts compensating deletes performed when the
// external claim sync fails after a successful store write.
var ProvisionRollbacksTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provision_rollbacks_total",
		Help:      "Total number of provisioning rollbacks after external claim failures.",
	},
)

// ── Audit queue metrics ───────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of auth decisions waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of auth decisions pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)

// ── Storefront metrics ────────────────────────────────────────────────────────

// OrdersPlacedTotal counts newly placed orders.
var OrdersPlacedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Total number of orders placed.",
	},
)
