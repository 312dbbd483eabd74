// Package metrics exposes a run's progress as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/episim/episim/sim"
)

// Collector is a sim.Observer that records reactions and compartment sizes
// in its own registry, so concurrent runs never share series.
type Collector struct {
	Registry *prometheus.Registry

	Reactions        *prometheus.CounterVec
	CompartmentNodes *prometheus.GaugeVec
	SimulationTime   prometheus.Gauge
	ReactionInterval prometheus.Histogram
	RunDuration      prometheus.Gauge
	Runs             *prometheus.CounterVec

	lastTime float64
}

// NewCollector registers the episim metrics in a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Collector{
		Registry: reg,
		Reactions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "episim_reactions_total",
			Help: "Total number of applied reactions, labelled by kind.",
		}, []string{"kind"}),
		CompartmentNodes: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "episim_compartment_nodes",
			Help: "Current number of nodes in each compartment.",
		}, []string{"compartment"}),
		SimulationTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "episim_simulation_time",
			Help: "Simulated time of the last applied reaction.",
		}),
		ReactionInterval: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "episim_reaction_interval",
			Help:    "Simulated time between consecutive reactions.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "episim_run_duration_seconds",
			Help: "Wall-clock duration of the finished run.",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "episim_runs_total",
			Help: "Total number of finished runs, labelled by final status.",
		}, []string{"status"}),
	}
}

func (c *Collector) setCounts(counts sim.Counts) {
	for _, comp := range sim.Compartments {
		c.CompartmentNodes.WithLabelValues(comp.String()).Set(float64(counts.Of(comp)))
	}
}

// OnStart records the initial compartment sizes.
func (c *Collector) OnStart(_ string, state *sim.EpidemicState) {
	c.lastTime = state.Time
	c.SimulationTime.Set(state.Time)
	c.setCounts(state.CountByCompartment())
	for _, kind := range []sim.EventKind{sim.Infection, sim.Recovery} {
		c.Reactions.WithLabelValues(kind.String())
	}
}

// OnReaction counts r and updates the compartment gauges.
func (c *Collector) OnReaction(_ string, r sim.Reaction, counts sim.Counts) {
	c.Reactions.WithLabelValues(r.Kind.String()).Inc()
	c.ReactionInterval.Observe(r.Time - c.lastTime)
	c.lastTime = r.Time
	c.SimulationTime.Set(r.Time)
	c.setCounts(counts)
}

// OnFinish records the run's wall time and outcome.
func (c *Collector) OnFinish(res *sim.Result) {
	c.RunDuration.Set(res.WallTime.Seconds())
	c.Runs.WithLabelValues(res.Status.String()).Inc()
}

// WriteTextfile writes the current metrics in the Prometheus text format,
// suitable for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.Registry)
}
