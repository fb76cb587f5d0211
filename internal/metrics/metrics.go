package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EstimatesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordclean_estimates_total",
			Help: "Total number of price estimates computed",
		},
		[]string{"cleaning_type", "outcome"},
	)

	SelectionUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordclean_selection_updates_total",
			Help: "Total number of visitor selection changes",
		},
		[]string{"field"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordclean_submissions_total",
			Help: "Total number of contact form submissions by result",
		},
		[]string{"result"},
	)

	RelayDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nordclean_relay_duration_seconds",
			Help:    "Duration of form endpoint relays in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	Notifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nordclean_lead_notifications_total",
			Help: "Total number of lead notifications sent by result",
		},
		[]string{"result"},
	)
)

// Outcome labels an estimate result for EstimatesComputed.
func Outcome(quoteRequired bool) string {
	if quoteRequired {
		return "quote"
	}
	return "price"
}
