package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeDegraded = "degraded"
	OutcomeFallback = "fallback"
	OutcomeCached   = "cached"
	OutcomePending  = "pending"
	OutcomeSuccess  = "success"
)

var (
	CartRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "florist_cart_refresh_total",
			Help: "Total number of cart refreshes by outcome",
		},
		[]string{"outcome"},
	)

	CartMutationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "florist_cart_mutation_total",
			Help: "Total number of cart mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	PriceQuoteTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "florist_price_quote_total",
			Help: "Total number of dynamic price quotes by outcome",
		},
		[]string{"outcome"},
	)

	CheckoutTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "florist_checkout_total",
			Help: "Total number of checkout payment submissions by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	ReconcileTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "florist_checkout_reconcile_total",
			Help: "Total number of payment provider returns by outcome",
		},
		[]string{"outcome"},
	)
)
