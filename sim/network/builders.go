package network

import "fmt"

// Source is the slice of a random stream the builders consume.
// *sim.RandomProcess and *math/rand/v2.Rand both satisfy it.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// ErdosRenyi draws a G(n, p) network: every pair i < j is connected with
// probability p, visiting pairs in lexicographic order. Nodes left without
// contacts are then given one contact to a uniformly chosen other node so the
// result always validates.
func ErdosRenyi(n int, p float64, rng Source) (*Adjacency, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: erdos-renyi needs at least 2 nodes, got %d", ErrMalformedNetwork, n)
	}
	if p < 0 || p > 1 {
		return nil, fmt.Errorf("edge probability must be in [0, 1], got %v", p)
	}
	a := New(n)
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			if rng.Float64() < p {
				a.neighbors[i] = append(a.neighbors[i], Node(j))
				a.neighbors[j] = append(a.neighbors[j], Node(i))
				a.edges++
			}
		}
	}
	for i := 1; i <= n; i++ {
		if len(a.neighbors[i]) > 0 {
			continue
		}
		// uniform over the other n-1 nodes
		j := 1 + rng.IntN(n-1)
		if j >= i {
			j++
		}
		a.neighbors[i] = append(a.neighbors[i], Node(j))
		a.neighbors[j] = append(a.neighbors[j], Node(i))
		a.edges++
	}
	return a, nil
}

// Path connects 1–2–…–n.
func Path(n int) (*Adjacency, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: path needs at least 2 nodes, got %d", ErrMalformedNetwork, n)
	}
	a := New(n)
	for i := 1; i < n; i++ {
		_ = a.AddEdge(Node(i), Node(i+1))
	}
	return a, nil
}

// Complete connects every pair of nodes.
func Complete(n int) (*Adjacency, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: complete network needs at least 2 nodes, got %d", ErrMalformedNetwork, n)
	}
	a := New(n)
	for i := 1; i <= n; i++ {
		for j := i + 1; j <= n; j++ {
			_ = a.AddEdge(Node(i), Node(j))
		}
	}
	return a, nil
}
