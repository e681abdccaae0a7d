package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics is nil-safe so a Registry without a Registerer pays nothing.
type metrics struct {
	entries    prometheus.Gauge
	assigned   prometheus.Counter
	malformed  prometheus.Counter
	collisions prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	factory := promauto.With(reg)
	return &metrics{
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "menuopts",
			Subsystem: "registry",
			Name:      "entries",
			Help:      "Number of custom id to numeric id mappings currently held.",
		}),
		assigned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "menuopts",
			Subsystem: "registry",
			Name:      "assigned_total",
			Help:      "Numeric ids assigned to previously unknown custom ids.",
		}),
		malformed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "menuopts",
			Subsystem: "registry",
			Name:      "malformed_lines_total",
			Help:      "Registry file lines skipped while loading.",
		}),
		collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "menuopts",
			Subsystem: "registry",
			Name:      "collisions_total",
			Help:      "Generated numeric ids discarded because a persisted entry already owned them.",
		}),
	}
}

func (m *metrics) setEntries(n int) {
	if m != nil {
		m.entries.Set(float64(n))
	}
}

func (m *metrics) incAssigned() {
	if m != nil {
		m.assigned.Inc()
	}
}

func (m *metrics) incMalformed() {
	if m != nil {
		m.malformed.Inc()
	}
}

func (m *metrics) incCollisions() {
	if m != nil {
		m.collisions.Inc()
	}
}
