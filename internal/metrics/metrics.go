// Package metrics exposes relay counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dicode"

type Metrics struct {
	RelayEvents  *prometheus.CounterVec
	RelayFanout  prometheus.Counter
	Admissions   *prometheus.CounterVec
	GraceTimers  *prometheus.CounterVec
	MediaErrors  *prometheus.CounterVec
	Backpressure prometheus.Counter
}

// New registers the relay collectors on reg. connections is sampled on scrape.
func New(reg prometheus.Registerer, connections func() float64) *Metrics {
	m := &Metrics{
		RelayEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_events_total",
			Help:      "Editor mutation events by kind and outcome.",
		}, []string{"kind", "outcome"}),
		RelayFanout: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_fanout_total",
			Help:      "Frames delivered to room peers by the relay.",
		}),
		Admissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admissions_total",
			Help:      "Join requests and approvals by outcome.",
		}, []string{"outcome"}),
		GraceTimers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grace_timers_total",
			Help:      "Host grace timers by outcome.",
		}, []string{"outcome"}),
		MediaErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_errors_total",
			Help:      "Failed calls to the audio/video provider.",
		}, []string{"op"}),
		Backpressure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backpressure_total",
			Help:      "Frames not delivered because a receiver buffer was full.",
		}),
	}
	reg.MustRegister(m.RelayEvents, m.RelayFanout, m.Admissions, m.GraceTimers, m.MediaErrors, m.Backpressure)
	if connections != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "presence_connections",
			Help:      "Users with a live presence entry.",
		}, connections))
	}
	return m
}

// Discard builds a Metrics registered on a private registry.
func Discard() *Metrics {
	return New(prometheus.NewRegistry(), nil)
}
