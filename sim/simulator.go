// sim/simulator.go
package sim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/episim/episim/sim/network"
)

// RunState is the state of the simulator's event loop.
type RunState int

const (
	// Running means events may remain in the queue.
	Running RunState = iota
	// Terminated means the queue is exhausted and no node is infected.
	Terminated
)

func (s RunState) String() string {
	if s == Terminated {
		return "Terminated"
	}
	return "Running"
}

// Config describes one run.
type Config struct {
	Network  *network.Adjacency
	Beta     float64         // transmission rate per infected–susceptible contact, >= 0
	Recovery RecoverySampler // infectious-period distribution
	Initial  Assignment      // nodes not listed start Susceptible
	// Seed selects the epidemic stream when RNG is nil.
	Seed int64
	// RNG overrides the stream derived from Seed.
	RNG       *RandomProcess
	StartTime float64
	// RunID labels outputs; a random UUID is used when empty.
	RunID     string
	Observers []Observer
}

// Simulator is the core object that holds simulation time, epidemic state, and the event loop.
// It is the sole owner and mutator of its state and queue.
type Simulator struct {
	RunID string
	State *EpidemicState
	// EventQueue has all the pending infection and recovery candidates
	EventQueue *EventQueue
	Planner    *TransmissionPlanner
	Network    *network.Adjacency
	// History is the reaction history: every event that fired, in time order.
	History []Reaction
	// Series holds the compartment counts at t0 and after every reaction.
	Series    []CountsAt
	StepCount int

	initial   Assignment
	startTime float64
	status    RunState
	started   bool
	observers []Observer
	wallStart time.Time
}

// NewSimulator validates cfg, builds the run's state and seeds the queue:
// every initially infected node, in ascending order, gets its recovery and
// then its outgoing transmission candidates.
func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("%w: no network", ErrInvalidConfig)
	}
	if err := cfg.Network.Validate(); err != nil {
		return nil, err
	}
	if cfg.Beta < 0 || math.IsNaN(cfg.Beta) || math.IsInf(cfg.Beta, 0) {
		return nil, fmt.Errorf("transmission rate must be finite and non-negative, got %v: %w", cfg.Beta, ErrNonPositiveRate)
	}
	if cfg.Recovery == nil {
		return nil, fmt.Errorf("%w: no recovery sampler", ErrInvalidConfig)
	}
	n := cfg.Network.Size()
	state, err := NewEpidemicState(n, cfg.StartTime, cfg.Initial)
	if err != nil {
		return nil, err
	}
	if state.CountByCompartment().I == 0 {
		return nil, ErrNoInfected
	}
	if cfg.Beta == 0 {
		logrus.Warnf("transmission rate is 0: only the initially infected nodes will ever change compartment")
	}

	rng := cfg.RNG
	if rng == nil {
		rng = NewPartitionedRNG(NewSimulationKey(cfg.Seed)).ForSubsystem(SubsystemEpidemic)
	}
	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	queue := NewEventQueue()
	sim := &Simulator{
		RunID:      runID,
		State:      state,
		EventQueue: queue,
		Planner:    NewTransmissionPlanner(cfg.Network, state, queue, rng, cfg.Beta, cfg.Recovery),
		Network:    cfg.Network,
		History:    make([]Reaction, 0),
		Series:     []CountsAt{{Time: cfg.StartTime, Counts: state.CountByCompartment()}},
		initial:    state.Snapshot(),
		startTime:  cfg.StartTime,
		status:     Running,
		observers:  cfg.Observers,
	}

	for _, v := range state.Infected() {
		if _, err := sim.Planner.ScheduleRecovery(v, cfg.StartTime); err != nil {
			return nil, err
		}
		if _, err := sim.Planner.ScheduleTransmissions(v, cfg.StartTime); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

// Status returns Running or Terminated.
func (sim *Simulator) Status() RunState { return sim.status }

// AddObserver registers o. Observers added after the first step miss OnStart.
func (sim *Simulator) AddObserver(o Observer) {
	sim.observers = append(sim.observers, o)
}

func (sim *Simulator) start() {
	if sim.started {
		return
	}
	sim.started = true
	sim.wallStart = time.Now()
	for _, o := range sim.observers {
		o.OnStart(sim.RunID, sim.State)
	}
}

// Step applies the earliest pending event. It returns false, and moves the
// simulator to Terminated, when no events remain.
func (sim *Simulator) Step() (Reaction, bool) {
	sim.start()
	if sim.EventQueue.IsEmpty() {
		sim.status = Terminated
		return Reaction{}, false
	}
	ev, err := sim.EventQueue.PopEarliest()
	if err != nil {
		panic(err)
	}
	// time never runs backwards
	if ev.Time < sim.State.Time {
		panic(fmt.Sprintf("Clock went backwards: %v < %v", ev.Time, sim.State.Time))
	}
	sim.Planner.Forget(ev)

	r := ev.Execute(sim)
	sim.StepCount++
	counts := sim.State.CountByCompartment()
	sim.History = append(sim.History, r)
	sim.Series = append(sim.Series, CountsAt{Time: r.Time, Counts: counts})
	logrus.Debugf("[t=%.6f] %s (S=%d I=%d R=%d)", r.Time, r, counts.S, counts.I, counts.R)

	for _, o := range sim.observers {
		o.OnReaction(sim.RunID, r, counts)
	}
	if sim.EventQueue.IsEmpty() {
		sim.status = Terminated
	}
	return r, true
}

// Run steps until the queue is exhausted. ctx is checked between steps; an
// aborted run keeps a consistent state, notifies observers' OnFinish with
// the partial result, and returns it with the context error.
func (sim *Simulator) Run(ctx context.Context) (*Result, error) {
	logrus.Infof("[run %s] starting: N=%d, %d pending events, S=%d I=%d R=%d", sim.RunID,
		sim.State.Size(), sim.EventQueue.Len(), sim.Series[0].S, sim.Series[0].I, sim.Series[0].R)
	for sim.status == Running {
		if err := ctx.Err(); err != nil {
			if next := sim.EventQueue.Peek(); next != nil {
				logrus.Warnf("[run %s] aborted at t=%.6f after %d reactions, next event %v", sim.RunID, sim.State.Time, sim.StepCount, next)
			} else {
				logrus.Warnf("[run %s] aborted at t=%.6f after %d reactions", sim.RunID, sim.State.Time, sim.StepCount)
			}
			res := sim.Result()
			// Status stays Running so observers can tell an aborted run apart
			for _, o := range sim.observers {
				o.OnFinish(res)
			}
			return res, fmt.Errorf("simulation aborted: %w", err)
		}
		sim.Step()
	}
	res := sim.Result()
	for _, o := range sim.observers {
		o.OnFinish(res)
	}
	final := res.FinalCounts()
	logrus.Infof("[run %s] terminated at t=%.6f after %d reactions: S=%d I=%d R=%d",
		sim.RunID, res.EndTime, res.Steps, final.S, final.I, final.R)
	return res, nil
}

func (sim *Simulator) handleInfection(ev *PendingEvent) {
	// pre-emption leaves one live candidate per target, so the target is still susceptible
	if c := sim.State.CompartmentOf(ev.Target); c != Susceptible {
		panic(fmt.Sprintf("stale infection event %v: target is %v", ev, c))
	}
	if err := sim.State.SetCompartment(ev.Target, Infected); err != nil {
		panic(err)
	}
	sim.State.Time = ev.Time
	if _, err := sim.Planner.ScheduleRecovery(ev.Target, ev.Time); err != nil {
		panic(err)
	}
	if _, err := sim.Planner.ScheduleTransmissions(ev.Target, ev.Time); err != nil {
		panic(err)
	}
}

func (sim *Simulator) handleRecovery(ev *PendingEvent) {
	// recovery is never pre-empted; a non-infected node here is a bookkeeping bug
	if err := sim.State.SetCompartment(ev.Target, Recovered); err != nil {
		panic(fmt.Sprintf("stale recovery event %v: %v", ev, err))
	}
	sim.State.Time = ev.Time
}

// Result snapshots the run so far.
func (sim *Simulator) Result() *Result {
	var wall time.Duration
	if sim.started {
		wall = time.Since(sim.wallStart)
	}
	return &Result{
		RunID:     sim.RunID,
		Nodes:     sim.State.Size(),
		StartTime: sim.startTime,
		EndTime:   sim.State.Time,
		Steps:     sim.StepCount,
		Status:    sim.status,
		History:   sim.History,
		Series:    sim.Series,
		Initial:   sim.initial,
		Final:     sim.State.Snapshot(),
		WallTime:  wall,
	}
}
