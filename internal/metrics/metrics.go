package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolsmart_quotes_computed_total",
			Help: "Total number of quotes computed, by work type",
		},
		[]string{"work_type"},
	)

	QuotesRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsmart_quotes_rejected_total",
			Help: "Total number of quote requests rejected by validation",
		},
	)

	QuoteTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poolsmart_quote_total_usd",
			Help:    "Distribution of quote totals in USD",
			Buckets: prometheus.ExponentialBuckets(500, 2, 10),
		},
		[]string{"work_type"},
	)

	WebhookDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolsmart_webhook_deliveries_total",
			Help: "Webhook delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolsmart_quote_emails_total",
			Help: "Quote emails by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveQuote records a computed quote.
func ObserveQuote(workType string, total float64) {
	QuotesComputed.WithLabelValues(workType).Inc()
	QuoteTotal.WithLabelValues(workType).Observe(total)
}
