package sim

import (
	"fmt"

	"github.com/episim/episim/sim/network"
)

// EpidemicState is the per-node compartment assignment plus the simulation clock.
// One live instance exists per run; the Simulator is its only writer.
type EpidemicState struct {
	// Time is the time of the most recently applied event (or t0).
	Time         float64
	compartments []Compartment // index 0 unused
	counts       Counts
}

// NewEpidemicState creates the state of n nodes at time t0. Nodes missing
// from initial start Susceptible.
func NewEpidemicState(n int, t0 float64, initial Assignment) (*EpidemicState, error) {
	s := &EpidemicState{
		Time:         t0,
		compartments: make([]Compartment, n+1),
	}
	for v, c := range initial {
		if v < 1 || int(v) > n {
			return nil, fmt.Errorf("initial condition: %w %d (population %d)", ErrUnknownNode, v, n)
		}
		if c > Recovered {
			return nil, fmt.Errorf("initial condition: node %d has invalid compartment %v", v, c)
		}
		s.compartments[v] = c
	}
	for v := 1; v <= n; v++ {
		s.counts.add(s.compartments[v], 1)
	}
	return s, nil
}

// Size returns the population size N.
func (s *EpidemicState) Size() int { return len(s.compartments) - 1 }

// CompartmentOf returns the compartment of v. Unknown nodes report Susceptible;
// callers that need to distinguish them check Size first.
func (s *EpidemicState) CompartmentOf(v network.Node) Compartment {
	if v < 1 || int(v) >= len(s.compartments) {
		return Susceptible
	}
	return s.compartments[v]
}

// SetCompartment moves v to c. Only S → I and I → R are allowed.
func (s *EpidemicState) SetCompartment(v network.Node, c Compartment) error {
	if v < 1 || int(v) >= len(s.compartments) {
		return fmt.Errorf("%w %d", ErrUnknownNode, v)
	}
	from := s.compartments[v]
	if !canTransition(from, c) {
		return fmt.Errorf("%w: node %d %v → %v", ErrInvalidTransition, v, from, c)
	}
	s.compartments[v] = c
	s.counts.add(from, -1)
	s.counts.add(c, 1)
	return nil
}

// CountByCompartment returns the current S, I, R counts.
func (s *EpidemicState) CountByCompartment() Counts { return s.counts }

// Snapshot copies the current assignment of every node.
func (s *EpidemicState) Snapshot() Assignment {
	out := make(Assignment, s.Size())
	for v := 1; v <= s.Size(); v++ {
		out[network.Node(v)] = s.compartments[v]
	}
	return out
}

// Infected lists the currently infected nodes in ascending order.
func (s *EpidemicState) Infected() []network.Node {
	var out []network.Node
	for v := 1; v <= s.Size(); v++ {
		if s.compartments[v] == Infected {
			out = append(out, network.Node(v))
		}
	}
	return out
}
