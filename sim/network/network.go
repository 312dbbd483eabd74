// Package network holds the undirected contact network an epidemic spreads over.
// It has no dependencies on sim/ so builders and loaders can be used on their own.
package network

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Node identifies a member of the population. Nodes are drawn from the dense range [1, N].
type Node int

// ErrMalformedNetwork is returned when an adjacency references an undefined node,
// is asymmetric, or leaves a node without contacts.
var ErrMalformedNetwork = errors.New("malformed network")

// Adjacency maps every node to its ordered list of neighbors.
// Neighbor order is insertion order and is part of a run's reproducibility:
// the engine draws transmission times in this order.
type Adjacency struct {
	neighbors [][]Node // index 0 unused
	edges     int
}

// New creates an adjacency over nodes 1..n with no contacts.
func New(n int) *Adjacency {
	if n < 0 {
		n = 0
	}
	return &Adjacency{neighbors: make([][]Node, n+1)}
}

// FromMap builds an adjacency from an external node → neighbors mapping.
// The population size is the largest node key. The result is validated.
func FromMap(m map[Node][]Node) (*Adjacency, error) {
	n := 0
	for v := range m {
		if v < 1 {
			return nil, fmt.Errorf("%w: node %d outside [1, N]", ErrMalformedNetwork, v)
		}
		n = max(n, int(v))
	}
	a := New(n)
	for v, nbrs := range m {
		for _, u := range nbrs {
			if u < 1 || int(u) > n {
				return nil, fmt.Errorf("%w: node %d lists undefined neighbor %d", ErrMalformedNetwork, v, u)
			}
		}
		a.neighbors[v] = append([]Node(nil), nbrs...)
		a.edges += len(nbrs)
	}
	a.edges /= 2
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Size returns the number of nodes N.
func (a *Adjacency) Size() int { return len(a.neighbors) - 1 }

// NumEdges returns the number of undirected contacts.
func (a *Adjacency) NumEdges() int { return a.edges }

// Contains reports whether v is a node of the network.
func (a *Adjacency) Contains(v Node) bool { return v >= 1 && int(v) < len(a.neighbors) }

// AddEdge records an undirected contact between i and j.
func (a *Adjacency) AddEdge(i, j Node) error {
	if !a.Contains(i) || !a.Contains(j) {
		return fmt.Errorf("%w: edge (%d, %d) references a node outside [1, %d]", ErrMalformedNetwork, i, j, a.Size())
	}
	if i == j {
		return fmt.Errorf("%w: self contact on node %d", ErrMalformedNetwork, i)
	}
	a.neighbors[i] = append(a.neighbors[i], j)
	a.neighbors[j] = append(a.neighbors[j], i)
	a.edges++
	return nil
}

// Neighbors returns the ordered neighbors of v. The slice must not be modified.
func (a *Adjacency) Neighbors(v Node) []Node {
	if !a.Contains(v) {
		return nil
	}
	return a.neighbors[v]
}

// Degree returns the number of contacts of v.
func (a *Adjacency) Degree(v Node) int { return len(a.Neighbors(v)) }

// MeanDegree returns the average number of contacts per node.
func (a *Adjacency) MeanDegree() float64 {
	if a.Size() == 0 {
		return 0
	}
	degrees := make([]float64, 0, a.Size())
	for v := 1; v <= a.Size(); v++ {
		degrees = append(degrees, float64(len(a.neighbors[v])))
	}
	return stat.Mean(degrees, nil)
}

// Edges lists every contact once as (i, j) with i < j, ordered by i then by
// position in i's neighbor list.
func (a *Adjacency) Edges() [][2]Node {
	out := make([][2]Node, 0, a.edges)
	for i := 1; i <= a.Size(); i++ {
		for _, j := range a.neighbors[i] {
			if Node(i) < j {
				out = append(out, [2]Node{Node(i), j})
			}
		}
	}
	return out
}

// Validate checks that every neighbor is a defined node, that contacts are
// symmetric and unique, and that every node has at least one contact.
func (a *Adjacency) Validate() error {
	if a.Size() < 1 {
		return fmt.Errorf("%w: empty population", ErrMalformedNetwork)
	}
	seen := make(map[[2]Node]int)
	for i := 1; i <= a.Size(); i++ {
		v := Node(i)
		if len(a.neighbors[i]) == 0 {
			return fmt.Errorf("%w: node %d has no contacts", ErrMalformedNetwork, v)
		}
		for _, u := range a.neighbors[i] {
			if !a.Contains(u) {
				return fmt.Errorf("%w: node %d lists undefined neighbor %d", ErrMalformedNetwork, v, u)
			}
			if u == v {
				return fmt.Errorf("%w: self contact on node %d", ErrMalformedNetwork, v)
			}
			key := [2]Node{v, u}
			if seen[key] > 0 {
				return fmt.Errorf("%w: duplicate contact %d-%d", ErrMalformedNetwork, v, u)
			}
			seen[key]++
		}
	}
	for key := range seen {
		if seen[[2]Node{key[1], key[0]}] == 0 {
			return fmt.Errorf("%w: contact %d-%d is not symmetric", ErrMalformedNetwork, key[0], key[1])
		}
	}
	return nil
}
