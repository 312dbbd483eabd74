package sim

import (
	"fmt"

	"github.com/episim/episim/sim/network"
)

// Compartment is a node's epidemic status. Transitions are monotonic: S → I → R.
type Compartment uint8

const (
	Susceptible Compartment = iota
	Infected
	Recovered
)

// Compartments lists every compartment in S, I, R order.
var Compartments = [...]Compartment{Susceptible, Infected, Recovered}

var compartmentNames = [...]string{"S", "I", "R"}

func (c Compartment) String() string {
	if int(c) < len(compartmentNames) {
		return compartmentNames[c]
	}
	return fmt.Sprintf("Compartment(%d)", uint8(c))
}

// canTransition reports whether from → to is one step of S → I → R.
func canTransition(from, to Compartment) bool {
	return (from == Susceptible && to == Infected) || (from == Infected && to == Recovered)
}

// Counts is the number of nodes per compartment.
type Counts struct {
	S int `yaml:"S"`
	I int `yaml:"I"`
	R int `yaml:"R"`
}

// Of returns the count for c.
func (c Counts) Of(comp Compartment) int {
	switch comp {
	case Susceptible:
		return c.S
	case Infected:
		return c.I
	case Recovered:
		return c.R
	}
	return 0
}

// Total returns S + I + R.
func (c Counts) Total() int { return c.S + c.I + c.R }

func (c *Counts) add(comp Compartment, delta int) {
	switch comp {
	case Susceptible:
		c.S += delta
	case Infected:
		c.I += delta
	case Recovered:
		c.R += delta
	}
}

// CountsAt is one point of the compartment time series.
type CountsAt struct {
	Time float64
	Counts
}

// Assignment maps nodes to compartments. It is used both for initial
// conditions and for the final state of a run.
type Assignment map[network.Node]Compartment

// Counts tallies the assignment over nodes 1..n; nodes absent from the map count as Susceptible.
func (a Assignment) Counts(n int) Counts {
	var c Counts
	for v := 1; v <= n; v++ {
		c.add(a[network.Node(v)], 1)
	}
	return c
}
