package provider

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/fabstock/internal/domain"
)

// Metrics exposes synchronization health. A nil *Metrics records nothing.
type Metrics struct {
	state         *prometheus.GaugeVec
	writes        *prometheus.CounterVec
	pending       *prometheus.GaugeVec
	remoteChanges *prometheus.CounterVec
	size          *prometheus.GaugeVec
}

// NewMetrics creates and registers the provider metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		state: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fabstock_sync_state",
				Help: "1 for the current synchronization state, 0 otherwise",
			},
			[]string{"state"},
		),
		writes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fabstock_write_through_total",
				Help: "Write-through attempts by collection, mode and result",
			},
			[]string{"collection", "mode", "result"},
		),
		pending: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fabstock_pending_write_failed",
				Help: "1 when the last write-through of the collection failed",
			},
			[]string{"collection"},
		),
		remoteChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fabstock_remote_changes_total",
				Help: "Remote change notifications that triggered a refetch",
			},
			[]string{"collection"},
		),
		size: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fabstock_collection_size",
				Help: "Number of records held in memory per collection",
			},
			[]string{"collection"},
		),
	}

	reg.MustRegister(m.state, m.writes, m.pending, m.remoteChanges, m.size)
	return m
}

func (m *Metrics) setState(current State) {
	if m == nil {
		return
	}
	for _, s := range States {
		v := 0.0
		if s == current {
			v = 1
		}
		m.state.WithLabelValues(string(s)).Set(v)
	}
}

func (m *Metrics) recordWrite(c domain.Collection, mode domain.StorageMode, err error) {
	if m == nil {
		return
	}
	result, pending := "success", 0.0
	if err != nil {
		result, pending = "failure", 1
	}
	m.writes.WithLabelValues(string(c), string(mode), result).Inc()
	m.pending.WithLabelValues(string(c)).Set(pending)
}

func (m *Metrics) recordRemoteChange(c domain.Collection) {
	if m == nil {
		return
	}
	m.remoteChanges.WithLabelValues(string(c)).Inc()
}

func (m *Metrics) setSizes(snap domain.Snapshot) {
	if m == nil {
		return
	}
	for _, c := range domain.Collections {
		m.size.WithLabelValues(string(c)).Set(float64(snap.Len(c)))
		m.pending.WithLabelValues(string(c)).Set(0)
	}
}

func (m *Metrics) setSize(c domain.Collection, n int) {
	if m == nil {
		return
	}
	m.size.WithLabelValues(string(c)).Set(float64(n))
}
