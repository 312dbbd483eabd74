package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/network"
)

// TransmissionPlanner computes the future events a newly infected node causes:
// its own recovery and candidate infections of its susceptible neighbors.
//
// It keeps at most one pending recovery per node and at most one pending
// infection per susceptible target. A faster candidate for a target pre-empts
// the slower one already in the queue, so no target can be infected twice.
type TransmissionPlanner struct {
	adjacency *network.Adjacency
	state     *EpidemicState
	queue     *EventQueue
	rng       *RandomProcess
	beta      float64
	recovery  RecoverySampler

	horizon          map[network.Node]float64       // node → scheduled recovery time
	pendingInfection map[network.Node]*PendingEvent // target → earliest candidate
	pendingRecovery  map[network.Node]*PendingEvent
}

// NewTransmissionPlanner wires a planner to the structures of one run.
func NewTransmissionPlanner(adjacency *network.Adjacency, state *EpidemicState, queue *EventQueue,
	rng *RandomProcess, beta float64, recovery RecoverySampler) *TransmissionPlanner {
	return &TransmissionPlanner{
		adjacency:        adjacency,
		state:            state,
		queue:            queue,
		rng:              rng,
		beta:             beta,
		recovery:         recovery,
		horizon:          make(map[network.Node]float64),
		pendingInfection: make(map[network.Node]*PendingEvent),
		pendingRecovery:  make(map[network.Node]*PendingEvent),
	}
}

// ScheduleRecovery draws v's infectious period, records its recovery horizon
// and queues the Recovery event.
func (p *TransmissionPlanner) ScheduleRecovery(v network.Node, now float64) (*PendingEvent, error) {
	if _, ok := p.pendingRecovery[v]; ok {
		return nil, fmt.Errorf("node %d already has a pending recovery", v)
	}
	duration := p.recovery.Sample(p.rng)
	if !(duration >= 0) {
		return nil, fmt.Errorf("recovery sampler returned invalid duration %v for node %d", duration, v)
	}
	recoveryTime := now + duration
	p.horizon[v] = recoveryTime

	ev := NewRecoveryEvent(recoveryTime, v)
	p.queue.Insert(ev)
	p.pendingRecovery[v] = ev
	logrus.Tracef("[t=%.6f] node %d will recover at %.6f", now, v, recoveryTime)
	return ev, nil
}

// ScheduleTransmissions draws a candidate infection time for every currently
// susceptible neighbor of source, in adjacency order. Candidates after the
// source's recovery horizon are discarded. A candidate replaces the target's
// pending infection only if it is strictly earlier. Returns how many
// candidates were queued.
func (p *TransmissionPlanner) ScheduleTransmissions(source network.Node, now float64) (int, error) {
	horizon, ok := p.horizon[source]
	if !ok {
		return 0, fmt.Errorf("node %d has no recovery horizon; schedule its recovery first", source)
	}
	scheduled := 0
	for _, target := range p.adjacency.Neighbors(source) {
		if p.state.CompartmentOf(target) != Susceptible {
			continue
		}
		candidate := now + p.rng.Exponential(p.beta)
		if candidate > horizon || math.IsInf(candidate, 1) {
			continue
		}
		if existing, ok := p.pendingInfection[target]; ok {
			if existing.Time <= candidate {
				continue
			}
			p.queue.RemoveIfPresent(existing)
			logrus.Tracef("[t=%.6f] infection of %d by %d at %.6f pre-empted by %d at %.6f",
				now, target, existing.Source, existing.Time, source, candidate)
		}
		ev := NewInfectionEvent(candidate, source, target)
		p.queue.Insert(ev)
		p.pendingInfection[target] = ev
		scheduled++
	}
	return scheduled, nil
}

// Forget drops the index entries of an event that has left the queue.
func (p *TransmissionPlanner) Forget(ev *PendingEvent) {
	switch ev.Kind {
	case Infection:
		if p.pendingInfection[ev.Target] == ev {
			delete(p.pendingInfection, ev.Target)
		}
	case Recovery:
		if p.pendingRecovery[ev.Target] == ev {
			delete(p.pendingRecovery, ev.Target)
		}
	}
}

// RecoveryHorizon returns the scheduled recovery time of v, if any was drawn.
func (p *TransmissionPlanner) RecoveryHorizon(v network.Node) (float64, bool) {
	t, ok := p.horizon[v]
	return t, ok
}

// PendingInfection returns the live infection candidate targeting v, or nil.
func (p *TransmissionPlanner) PendingInfection(v network.Node) *PendingEvent {
	return p.pendingInfection[v]
}

// PendingRecovery returns the scheduled recovery of v, or nil.
func (p *TransmissionPlanner) PendingRecovery(v network.Node) *PendingEvent {
	return p.pendingRecovery[v]
}
