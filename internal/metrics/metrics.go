// Package metrics exposes the ledger's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SettlementsTotal counts settlement operations by outcome kind
	// (netting, partial_netting, payment, partial_payment, received).
	SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "settleup",
		Name:      "settlements_total",
		Help:      "Number of settled ledger records by settlement kind.",
	}, []string{"kind"})

	// SettledCents counts the cents settled by settlement kind.
	SettledCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "settleup",
		Name:      "settled_cents_total",
		Help:      "Total amount settled in cents by settlement kind.",
	}, []string{"kind"})

	// SettlementConflicts counts optimistic-concurrency aborts.
	SettlementConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settleup",
		Name:      "settlement_conflicts_total",
		Help:      "Number of settlements aborted by a concurrent writer.",
	})

	// SettlementDuration observes end-to-end settlement latency.
	SettlementDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "settleup",
		Name:      "settlement_duration_seconds",
		Help:      "Latency of settlement operations.",
		Buckets:   prometheus.DefBuckets,
	})

	// TransactionsCreated counts ledger records written by the splitter.
	TransactionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "settleup",
		Name:      "transactions_created_total",
		Help:      "Number of debt records created by bill splits.",
	})
)

// KindReceived labels out-of-band receipt acknowledgements, which have no
// settlement.Kind of their own.
const KindReceived = "received"
