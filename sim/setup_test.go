package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episim/episim/sim/network"
)

func TestBuildNetwork_Topologies(t *testing.T) {
	rng := NewRandomProcess(1)

	path, err := BuildNetwork(NetworkConfig{Topology: TopologyPath, Nodes: 5}, rng)
	require.NoError(t, err)
	assert.Equal(t, 4, path.NumEdges())

	complete, err := BuildNetwork(NetworkConfig{Topology: TopologyComplete, Nodes: 5}, rng)
	require.NoError(t, err)
	assert.Equal(t, 10, complete.NumEdges())

	er, err := BuildNetwork(NetworkConfig{Nodes: 30, EdgeProb: 0.1}, rng)
	require.NoError(t, err)
	assert.Equal(t, 30, er.Size())

	_, err = BuildNetwork(NetworkConfig{Topology: "lattice", Nodes: 5}, rng)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBuildNetwork_EdgeList(t *testing.T) {
	src, err := network.Complete(4)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "contacts.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, network.WriteEdgeList(f, src))
	require.NoError(t, f.Close())

	adj, err := BuildNetwork(NetworkConfig{Topology: TopologyEdgeList, EdgeList: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, src.Edges(), adj.Edges())

	_, err = BuildNetwork(NetworkConfig{Topology: TopologyEdgeList, EdgeList: path + ".missing"}, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildInitial_ExplicitNodesWin(t *testing.T) {
	a, err := BuildInitial(InitialConfig{Infected: 3, Nodes: []int{2}}, 5, NewRandomProcess(1))
	require.NoError(t, err)
	assert.Equal(t, Counts{S: 4, I: 1}, a.Counts(5))
	assert.Equal(t, Infected, a[2])
}

func TestNewSimulatorFromParameters_DerivesBetaFromR0(t *testing.T) {
	// GIVEN path(4), mean degree 1.5, fixed period 2 and R0 = 3
	p := &Parameters{
		Seed:     3,
		Network:  NetworkConfig{Topology: TopologyPath, Nodes: 4},
		R0:       ptr(3),
		Recovery: RecoveryConfig{Model: RecoveryFixed, Duration: 2},
		Initial:  InitialConfig{Nodes: []int{1}},
	}

	sim, err := NewSimulatorFromParameters(p)
	require.NoError(t, err)

	// THEN beta = 3 / (2 × 1.5)
	assert.InDelta(t, 1.0, sim.Planner.beta, 1e-12)
	assert.Equal(t, Infected, sim.State.CompartmentOf(1))
}

func TestNewSimulatorFromParameters_NetworkIndependentOfEpidemicStream(t *testing.T) {
	// GIVEN the same seed, the network and initial infections do not depend
	// on the recovery model, which only draws from the epidemic stream
	exp := erParameters(11, 60)
	fixed := erParameters(11, 60)
	fixed.Recovery = RecoveryConfig{Model: RecoveryFixed, Duration: 1}

	a, err := NewSimulatorFromParameters(exp)
	require.NoError(t, err)
	b, err := NewSimulatorFromParameters(fixed)
	require.NoError(t, err)

	assert.Equal(t, a.Network.Edges(), b.Network.Edges())
	assert.Equal(t, a.State.Infected(), b.State.Infected())
}

func TestNewSimulatorFromParameters_InvalidParameters(t *testing.T) {
	p := DefaultParameters()
	p.Network.Topology = "ring"
	_, err := NewSimulatorFromParameters(p)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
