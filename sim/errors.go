package sim

import "errors"

var (
	// ErrInvalidTransition is returned for a compartment change other than S → I or I → R.
	ErrInvalidTransition = errors.New("invalid compartment transition")

	// ErrEmptyQueue is returned when popping from an empty EventQueue.
	ErrEmptyQueue = errors.New("event queue is empty")

	// ErrUnknownNode is returned when a node lies outside [1, N].
	ErrUnknownNode = errors.New("unknown node")

	// ErrNonPositiveRate is returned for a negative transmission rate or a
	// non-positive recovery parameter. A zero transmission rate is valid.
	ErrNonPositiveRate = errors.New("non-positive rate")

	// ErrNoInfected is returned when an initial condition has no Infected node.
	ErrNoInfected = errors.New("initial condition has no infected node")

	// ErrInvalidConfig is returned for parameter combinations that cannot describe a run.
	ErrInvalidConfig = errors.New("invalid configuration")
)
