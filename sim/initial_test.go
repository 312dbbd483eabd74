package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episim/episim/sim/network"
)

func TestAllSusceptible(t *testing.T) {
	a := AllSusceptible(5)
	assert.Len(t, a, 5)
	assert.Equal(t, Counts{S: 5}, a.Counts(5))
}

func TestSeedInfected(t *testing.T) {
	a, err := SeedInfected(5, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, Counts{S: 3, I: 2}, a.Counts(5))
	assert.Equal(t, Infected, a[2])
	assert.Equal(t, Susceptible, a[3])

	_, err = SeedInfected(5, 6)
	assert.ErrorIs(t, err, ErrUnknownNode)
	_, err = SeedInfected(5, 0)
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestRandomInfected_DistinctNodesInRange(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		a, err := RandomInfected(10, 3, NewRandomProcess(seed))
		require.NoError(t, err)
		assert.Equal(t, Counts{S: 7, I: 3}, a.Counts(10), "seed %d", seed)
		for v := range a {
			assert.True(t, v >= 1 && v <= 10)
		}
	}
}

func TestRandomInfected_Deterministic(t *testing.T) {
	a, err := RandomInfected(100, 5, NewRandomProcess(9))
	require.NoError(t, err)
	b, err := RandomInfected(100, 5, NewRandomProcess(9))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRandomInfected_Everyone(t *testing.T) {
	a, err := RandomInfected(4, 4, NewRandomProcess(1))
	require.NoError(t, err)
	for v := network.Node(1); v <= 4; v++ {
		assert.Equal(t, Infected, a[v])
	}
}

func TestRandomInfected_RejectsBadCount(t *testing.T) {
	for _, k := range []int{0, -1, 11} {
		_, err := RandomInfected(10, k, NewRandomProcess(1))
		assert.ErrorIs(t, err, ErrInvalidConfig, "k=%d", k)
	}
}
