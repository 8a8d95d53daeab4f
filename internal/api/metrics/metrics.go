// Package metrics defines and registers the custom Prometheus metrics for the
// finance tracker API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "finance"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts accounts created through /api/signup.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of user accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Ledger metrics ────────────────────────────────────────────────────────────

// TransactionsCreatedTotal counts stored transactions.
// Label:
//   - type: "income" or "expense"
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of transactions created, by type.",
	},
	[]string{"type"},
)

var CategoriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "categories_created_total",
		Help:      "Total number of user categories created.",
	},
)

// ── Activity feed metrics ─────────────────────────────────────────────────────

// ActivityPublishedTotal counts activity events handed to the sink.
// Labels:
//   - kind: the activity kind (e.g. "transaction.created")
//   - result: "ok" or "error"
var ActivityPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_published_total",
		Help:      "Total number of activity events published, by kind and result.",
	},
	[]string{"kind", "result"},
)

// ActivityDroppedTotal counts events discarded because a worker queue was
// full or the dispatcher was already closed.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped before publishing.",
	},
)

// ActivityQueueDepth tracks pending events per dispatcher worker.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityPublishDuration measures a single sink publish.
var ActivityPublishDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "activity_publish_duration_seconds",
		Help:      "Duration of publishing one activity event to the sink.",
		Buckets:   prometheus.DefBuckets,
	},
)
