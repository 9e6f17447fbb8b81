package metrics

import "github.com/prometheus/client_golang/prometheus"

// Admission outcomes for CheckInDecisionsTotal.
const (
	OutcomeAuthorized     = "authorized"
	OutcomeDeniedExpired  = "denied_expired"
	OutcomeDuplicateDaily = "rejected_duplicate_daily"
	OutcomeWeeklyQuota    = "rejected_weekly_quota"
	OutcomeInvalid        = "rejected_invalid"
	OutcomeFailed         = "failed"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "path"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests in flight",
		},
	)

	// Admission metrics
	CheckInDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checkin_decisions_total",
			Help: "Check-in admission decisions by outcome",
		},
		[]string{"outcome"},
	)
	CheckInTxDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "checkin_tx_duration_seconds",
			Help:    "Duration of check-in ledger transactions in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"op"},
	)
)

// InitMetrics registers the collectors with the default registry, which already
// carries the Go runtime and process collectors.
func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestsInFlight)

	prometheus.MustRegister(CheckInDecisionsTotal)
	prometheus.MustRegister(CheckInTxDuration)
}
