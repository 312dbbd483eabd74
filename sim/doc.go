// Package sim provides the exact event-driven SIR epidemic engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - compartment.go, state.go: node compartments (S → I → R) and the run's clock
//   - event.go, queue.go: pending infection/recovery events and their time-ordered queue
//   - planner.go: how a newly infected node schedules its recovery and transmissions,
//     including pre-emption of slower infection candidates
//   - simulator.go: the event loop
//
// # Architecture
//
// The engine is a next-reaction method. Every candidate transition carries its own
// exponentially distributed firing time; the earliest one is applied, and only the
// newly infected node's candidates are drawn afterwards. Each susceptible node has at
// most one live infection candidate, so an infection event always finds its target
// susceptible when it fires.
//
// Sub-packages hold the collaborators:
//   - sim/network/: contact networks (builders, validation, edge lists)
//   - sim/output/: CSV writers for reaction histories and compartment series
//   - sim/store/: SQLite persistence of runs
//   - sim/metrics/: Prometheus instrumentation of a run
//
// A Simulator owns its state, queue and random stream. Separate Simulators share
// nothing and may run concurrently.
package sim
