package network

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_NeighborsInOrder(t *testing.T) {
	a, err := Path(4)
	require.NoError(t, err)

	assert.Equal(t, 4, a.Size())
	assert.Equal(t, 3, a.NumEdges())
	assert.Equal(t, []Node{2}, a.Neighbors(1))
	assert.Equal(t, []Node{1, 3}, a.Neighbors(2))
	assert.Equal(t, []Node{2, 4}, a.Neighbors(3))
	assert.Equal(t, []Node{3}, a.Neighbors(4))
	assert.NoError(t, a.Validate())
	assert.InDelta(t, 1.5, a.MeanDegree(), 1e-12)
}

func TestComplete_EveryPairConnected(t *testing.T) {
	a, err := Complete(5)
	require.NoError(t, err)
	assert.Equal(t, 10, a.NumEdges())
	for v := Node(1); v <= 5; v++ {
		assert.Equal(t, 4, a.Degree(v))
	}
	assert.NoError(t, a.Validate())
}

func TestBuilders_RejectTinyPopulations(t *testing.T) {
	_, err := Path(1)
	assert.ErrorIs(t, err, ErrMalformedNetwork)
	_, err = Complete(0)
	assert.ErrorIs(t, err, ErrMalformedNetwork)
	_, err = ErdosRenyi(1, 0.5, rand.New(rand.NewPCG(1, 1)))
	assert.ErrorIs(t, err, ErrMalformedNetwork)
}

func TestErdosRenyi_NoIsolatedNodes(t *testing.T) {
	// GIVEN a very sparse G(n, p) that leaves most nodes isolated
	rng := rand.New(rand.NewPCG(7, 7))

	// WHEN the network is built
	a, err := ErdosRenyi(200, 0.001, rng)
	require.NoError(t, err)

	// THEN every node has a contact and the network is well formed
	for v := Node(1); v <= 200; v++ {
		assert.Positive(t, a.Degree(v), "node %d is isolated", v)
	}
	assert.NoError(t, a.Validate())
}

func TestErdosRenyi_FullProbabilityIsComplete(t *testing.T) {
	a, err := ErdosRenyi(20, 1.0, rand.New(rand.NewPCG(3, 3)))
	require.NoError(t, err)
	assert.Equal(t, 20*19/2, a.NumEdges())
}

func TestErdosRenyi_Deterministic(t *testing.T) {
	a, err := ErdosRenyi(100, 0.05, rand.New(rand.NewPCG(11, 11)))
	require.NoError(t, err)
	b, err := ErdosRenyi(100, 0.05, rand.New(rand.NewPCG(11, 11)))
	require.NoError(t, err)
	assert.Equal(t, a.Edges(), b.Edges())
}

func TestErdosRenyi_RejectsBadProbability(t *testing.T) {
	_, err := ErdosRenyi(10, 1.5, rand.New(rand.NewPCG(1, 1)))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		m    map[Node][]Node
		ok   bool
	}{
		{"symmetric pair", map[Node][]Node{1: {2}, 2: {1}}, true},
		{"asymmetric", map[Node][]Node{1: {2, 3}, 2: {1}, 3: {2}}, false},
		{"undefined neighbor", map[Node][]Node{1: {5}, 2: {1}}, false},
		{"isolated node", map[Node][]Node{1: {2}, 2: {1}, 3: {}}, false},
		{"self contact", map[Node][]Node{1: {1, 2}, 2: {1}}, false},
		{"duplicate contact", map[Node][]Node{1: {2, 2}, 2: {1, 1}}, false},
		{"missing node key", map[Node][]Node{1: {2}, 3: {1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromMap(tt.m)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrMalformedNetwork)
			}
		})
	}
}

func TestAddEdge_RejectsUnknownNodes(t *testing.T) {
	a := New(3)
	assert.ErrorIs(t, a.AddEdge(0, 1), ErrMalformedNetwork)
	assert.ErrorIs(t, a.AddEdge(1, 4), ErrMalformedNetwork)
	assert.ErrorIs(t, a.AddEdge(2, 2), ErrMalformedNetwork)
	assert.Zero(t, a.NumEdges())
}

func TestEdgeList_RoundTripPreservesContacts(t *testing.T) {
	a, err := Path(5)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteEdgeList(&buf, a))
	assert.True(t, strings.HasPrefix(buf.String(), "node1,node2\n1,2\n"))

	b, err := ReadEdgeList(&buf, 0)
	require.NoError(t, err)
	assert.Equal(t, a.Edges(), b.Edges())
	assert.Equal(t, a.Size(), b.Size())
}

func TestReadEdgeList_Errors(t *testing.T) {
	_, err := ReadEdgeList(strings.NewReader("node1,node2\n1,x\n"), 0)
	assert.ErrorIs(t, err, ErrMalformedNetwork)

	_, err = ReadEdgeList(strings.NewReader("1,2\n2,9\n"), 4)
	assert.ErrorIs(t, err, ErrMalformedNetwork)

	// node 3 has no contacts when N is forced to 3
	_, err = ReadEdgeList(strings.NewReader("1,2\n"), 3)
	assert.ErrorIs(t, err, ErrMalformedNetwork)
}
