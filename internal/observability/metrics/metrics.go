// Package metrics exposes Prometheus instrumentation for the conversation
// pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for message processing.
type ConversationMetrics struct {
	inboundTotal    *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	llmFallbacks    prometheus.Counter
	bookingsCreated prometheus.Counter
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "inbound_messages_total",
			Help:      "Total inbound WhatsApp messages by resulting step",
		}, []string{"step"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of one conversation turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"step"}),
		llmFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "conversation",
			Name:      "llm_fallbacks_total",
			Help:      "Turns answered with deterministic fallback text after a backend failure",
		}),
		bookingsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "bookings",
			Name:      "created_total",
			Help:      "Bookings created by the finalizer",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.turnLatency, m.llmFallbacks, m.bookingsCreated)
	return m
}

func (m *ConversationMetrics) ObserveInbound(step string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(step).Inc()
}

func (m *ConversationMetrics) ObserveTurnLatency(step string, seconds float64) {
	if m == nil {
		return
	}
	m.turnLatency.WithLabelValues(step).Observe(seconds)
}

func (m *ConversationMetrics) ObserveLLMFallback() {
	if m == nil {
		return
	}
	m.llmFallbacks.Inc()
}

func (m *ConversationMetrics) ObserveBookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}
