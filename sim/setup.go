package sim

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/network"
)

// BuildNetwork constructs the contact network described by cfg, drawing from
// rng only for random topologies.
func BuildNetwork(cfg NetworkConfig, rng *RandomProcess) (*network.Adjacency, error) {
	switch cfg.Topology {
	case "", TopologyErdosRenyi:
		return network.ErdosRenyi(cfg.Nodes, cfg.EdgeProb, rng)
	case TopologyPath:
		return network.Path(cfg.Nodes)
	case TopologyComplete:
		return network.Complete(cfg.Nodes)
	case TopologyEdgeList:
		f, err := os.Open(cfg.EdgeList)
		if err != nil {
			return nil, fmt.Errorf("opening edge list: %w", err)
		}
		defer f.Close()
		return network.ReadEdgeList(f, cfg.Nodes)
	}
	return nil, fmt.Errorf("%w: unknown topology %q", ErrInvalidConfig, cfg.Topology)
}

// BuildInitial constructs the initial condition for a population of n.
func BuildInitial(cfg InitialConfig, n int, rng *RandomProcess) (Assignment, error) {
	if len(cfg.Nodes) > 0 {
		nodes := make([]network.Node, len(cfg.Nodes))
		for i, v := range cfg.Nodes {
			nodes[i] = network.Node(v)
		}
		return SeedInfected(n, nodes...)
	}
	return RandomInfected(n, cfg.Infected, rng)
}

// NewSimulatorFromParameters validates p and assembles a ready-to-run
// simulator. Network construction, initial seeding and the epidemic each
// draw from their own partition of p.Seed.
func NewSimulatorFromParameters(p *Parameters, observers ...Observer) (*Simulator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(p.Seed))

	adj, err := BuildNetwork(p.Network, rng.ForSubsystem(SubsystemNetwork))
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	initial, err := BuildInitial(p.Initial, adj.Size(), rng.ForSubsystem(SubsystemInitial))
	if err != nil {
		return nil, err
	}
	recovery, err := NewRecoverySampler(p.Recovery)
	if err != nil {
		return nil, err
	}
	beta, err := p.TransmissionRate(recovery, adj.MeanDegree())
	if err != nil {
		return nil, err
	}
	logrus.Infof("network: N=%d, %d contacts, mean degree %.3f; beta=%.6g, recovery=%v",
		adj.Size(), adj.NumEdges(), adj.MeanDegree(), beta, recovery)

	return NewSimulator(Config{
		Network:   adj,
		Beta:      beta,
		Recovery:  recovery,
		Initial:   initial,
		RNG:       rng.ForSubsystem(SubsystemEpidemic),
		Observers: observers,
	})
}
