package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Payment outcome label values
const (
	OutcomeCompleted = "completed"
	OutcomeDeclined  = "declined"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
)

var (
	PaymentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credit_store_payments_total",
		Help: "Payment attempts by outcome",
	}, []string{"outcome"})
	PaymentDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "credit_store_payment_duration_seconds",
		Help:    "Time spent processing a payment request",
		Buckets: prometheus.DefBuckets,
	})
	CreditsGrantedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credit_store_credits_granted_total",
		Help: "Credits added to player balances by completed purchases",
	})

	PlayersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "credit_store_players_created_total",
		Help: "Players created through self-registration",
	})

	CatalogCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "credit_store_catalog_cache_total",
		Help: "Package catalog cache lookups by result (hit, miss, error)",
	}, []string{"result"})
)
