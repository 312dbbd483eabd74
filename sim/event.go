package sim

import (
	"fmt"

	"github.com/episim/episim/sim/network"
)

// EventKind distinguishes the two transitions of the SIR model.
type EventKind uint8

const (
	// Infection moves a Susceptible target to Infected.
	Infection EventKind = iota
	// Recovery moves an Infected node to Recovered.
	Recovery
)

func (k EventKind) String() string {
	switch k {
	case Infection:
		return "Infection"
	case Recovery:
		return "Recovery"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	switch s {
	case "Infection":
		return Infection, nil
	case "Recovery":
		return Recovery, nil
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// PendingEvent is a candidate transition scheduled at Time.
// For Infection, Source transmits to Target. For Recovery, Target recovers
// and Source is zero.
type PendingEvent struct {
	Time   float64
	Kind   EventKind
	Source network.Node
	Target network.Node

	seq   uint64 // insertion order, tie-break for equal times
	index int    // position in the heap, -1 once removed
}

// NewInfectionEvent creates an infection candidate of target by source at t.
func NewInfectionEvent(t float64, source, target network.Node) *PendingEvent {
	return &PendingEvent{Time: t, Kind: Infection, Source: source, Target: target, index: -1}
}

// NewRecoveryEvent creates the recovery of v at t.
func NewRecoveryEvent(t float64, v network.Node) *PendingEvent {
	return &PendingEvent{Time: t, Kind: Recovery, Target: v, index: -1}
}

// Nodes returns (source, target) for an infection and (node) for a recovery.
func (e *PendingEvent) Nodes() []network.Node {
	if e.Kind == Infection {
		return []network.Node{e.Source, e.Target}
	}
	return []network.Node{e.Target}
}

// Execute applies the event to the simulator's state and returns the realized reaction.
func (e *PendingEvent) Execute(sim *Simulator) Reaction {
	switch e.Kind {
	case Infection:
		sim.handleInfection(e)
	case Recovery:
		sim.handleRecovery(e)
	default:
		panic(fmt.Sprintf("unknown event kind %v", e.Kind))
	}
	return Reaction{Time: e.Time, Kind: e.Kind, Nodes: e.Nodes()}
}

func (e *PendingEvent) String() string {
	return fmt.Sprintf("%s%v@%v", e.Kind, e.Nodes(), e.Time)
}

// Reaction is an event that actually fired. The reaction history of a run is
// the time-ordered list of its reactions.
type Reaction struct {
	Time  float64
	Kind  EventKind
	Nodes []network.Node
}

func (r Reaction) String() string {
	return fmt.Sprintf("[%s = %v]", r.Kind, r.Nodes)
}
