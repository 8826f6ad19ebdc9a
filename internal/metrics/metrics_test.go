package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	withDish := RedemptionsCommitted.WithLabelValues("true")
	before := counterValue(t, withDish)
	r.RedemptionCommitted(true)
	assert.Equal(t, before+1, counterValue(t, withDish))

	sold := counterValue(t, TicketsSold)
	r.TicketsSold(5)
	assert.Equal(t, sold+5, counterValue(t, TicketsSold))

	assert.NotPanics(t, func() {
		r.ObserveRedemption("commit", errors.New("x"), 10*time.Millisecond)
		r.ObserveRedemption("verify", nil, time.Millisecond)
	})
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, outcome(nil))
	assert.Equal(t, OutcomeFailure, outcome(errors.New("x")))
}
