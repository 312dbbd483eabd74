package sim

import (
	"fmt"

	"github.com/episim/episim/sim/network"
)

// AllSusceptible returns the assignment of n susceptible nodes.
func AllSusceptible(n int) Assignment {
	a := make(Assignment, n)
	for v := 1; v <= n; v++ {
		a[network.Node(v)] = Susceptible
	}
	return a
}

// SeedInfected marks the given nodes Infected in a population of n.
func SeedInfected(n int, nodes ...network.Node) (Assignment, error) {
	a := AllSusceptible(n)
	for _, v := range nodes {
		if v < 1 || int(v) > n {
			return nil, fmt.Errorf("seeding infection: %w %d (population %d)", ErrUnknownNode, v, n)
		}
		a[v] = Infected
	}
	return a, nil
}

// RandomInfected marks k distinct nodes, drawn uniformly, Infected.
func RandomInfected(n, k int, rng *RandomProcess) (Assignment, error) {
	if k < 1 || k > n {
		return nil, fmt.Errorf("%w: cannot infect %d of %d nodes", ErrInvalidConfig, k, n)
	}
	// partial Fisher–Yates over 1..n
	nodes := make([]network.Node, n)
	for i := range nodes {
		nodes[i] = network.Node(i + 1)
	}
	for i := 0; i < k; i++ {
		j := i + rng.IntN(n-i)
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return SeedInfected(n, nodes[:k]...)
}
