package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConversationMetrics(reg)

	m.ObserveInbound("general")
	m.ObserveInbound("general")
	m.ObserveInbound("awaiting_date")
	m.ObserveLLMFallback()
	m.ObserveBookingCreated()
	m.ObserveTurnLatency("general", 0.25)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.inboundTotal.WithLabelValues("general")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.llmFallbacks))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.bookingsCreated))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *ConversationMetrics
	m.ObserveInbound("general")
	m.ObserveTurnLatency("general", 0.1)
	m.ObserveLLMFallback()
	m.ObserveBookingCreated()
}
