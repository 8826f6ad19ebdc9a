package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// RedemptionDuration tracks the latency of verify and commit calls
	RedemptionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mutralo_redemption_duration_seconds",
			Help: "Duration of redemption verify and commit calls in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
				2.5,   // 2.5s
			},
		},
		[]string{"operation", "outcome"},
	)

	// RedemptionsCommitted counts meals served
	RedemptionsCommitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mutralo_redemptions_committed_total",
			Help: "Number of committed redemptions",
		},
		[]string{"with_dish"},
	)

	// TicketsSold counts tickets issued by cashier sales
	TicketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mutralo_tickets_sold_total",
			Help: "Number of tickets issued by sales",
		},
	)
)

// Recorder is what services report to.
type Recorder interface {
	ObserveRedemption(operation string, err error, elapsed time.Duration)
	RedemptionCommitted(withDish bool)
	TicketsSold(count int)
}

type promRecorder struct{}

// NewRecorder returns a Recorder backed by the package collectors.
func NewRecorder() Recorder {
	return promRecorder{}
}

func (promRecorder) ObserveRedemption(operation string, err error, elapsed time.Duration) {
	RedemptionDuration.WithLabelValues(operation, outcome(err)).Observe(elapsed.Seconds())
}

func (promRecorder) RedemptionCommitted(withDish bool) {
	label := "false"
	if withDish {
		label = "true"
	}
	RedemptionsCommitted.WithLabelValues(label).Inc()
}

func (promRecorder) TicketsSold(count int) {
	TicketsSold.Add(float64(count))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Noop discards every observation.
type Noop struct{}

func (Noop) ObserveRedemption(string, error, time.Duration) {}
func (Noop) RedemptionCommitted(bool)                       {}
func (Noop) TicketsSold(int)                                {}
