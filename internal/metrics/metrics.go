package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	HTTPRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRateLimited,
			Help: HelpTextHTTPRateLimited,
		},
	)

	HTTPAuthFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameHTTPAuthFailures,
			Help: HelpTextHTTPAuthFailures,
		},
	)
)

// Business Metrics
var (
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePurchasesTotal,
			Help: HelpTextPurchasesTotal,
		},
		[]string{LabelOutcome},
	)

	BarterOffersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBarterOffersTotal,
			Help: HelpTextBarterOffersTotal,
		},
		[]string{LabelChoice},
	)

	BarterRollsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameBarterRollsTotal,
			Help: HelpTextBarterRollsTotal,
		},
		[]string{LabelResult},
	)

	ItemsBought = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameItemsBought,
			Help: HelpTextItemsBought,
		},
	)

	GoldSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGoldSpent,
			Help: HelpTextGoldSpent,
		},
	)

	LedgerPostFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameLedgerPostFailures,
			Help: HelpTextLedgerPostFailures,
		},
	)

	DiscordCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameDiscordCommandsTotal,
			Help: HelpTextDiscordCommandsTotal,
		},
		[]string{LabelCommand, LabelStatus},
	)
)

// RecordPurchase counts a committed sale
func RecordPurchase(quantity, gold int) {
	PurchasesTotal.WithLabelValues(OutcomeCompleted).Inc()
	ItemsBought.Add(float64(quantity))
	GoldSpent.Add(float64(gold))
}

// RecordBarterRoll counts a barter roll
func RecordBarterRoll(success bool) {
	if success {
		BarterRollsTotal.WithLabelValues(ResultSuccess).Inc()
		return
	}
	BarterRollsTotal.WithLabelValues(ResultFailure).Inc()
}
