// Package metrics holds the Prometheus collectors updated during a sweep.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	reg *prometheus.Registry

	Combinations   prometheus.Counter
	Paths          prometheus.Counter
	Samples        *prometheus.CounterVec
	SimulationTime prometheus.Histogram
}

// New builds a fresh registry so parallel tests never share state.
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		Combinations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gbmsynth",
			Name:      "combinations_total",
			Help:      "Parameter combinations simulated and written.",
		}),
		Paths: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gbmsynth",
			Name:      "paths_simulated_total",
			Help:      "GBM paths simulated.",
		}),
		Samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gbmsynth",
			Name:      "samples_written_total",
			Help:      "Price samples written, by output format.",
		}, []string{"format"}),
		SimulationTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "gbmsynth",
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of one simulate call.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	m.reg.MustRegister(m.Combinations, m.Paths, m.Samples, m.SimulationTime)
	return m
}

func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.reg
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
