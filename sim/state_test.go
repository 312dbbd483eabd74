package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/episim/episim/sim/network"
)

func TestEpidemicState_InitialCounts(t *testing.T) {
	s, err := NewEpidemicState(5, 0, Assignment{2: Infected, 4: Recovered})
	require.NoError(t, err)

	assert.Equal(t, Counts{S: 3, I: 1, R: 1}, s.CountByCompartment())
	assert.Equal(t, Infected, s.CompartmentOf(2))
	assert.Equal(t, Susceptible, s.CompartmentOf(1))
	assert.Equal(t, []network.Node{2}, s.Infected())
}

func TestEpidemicState_RejectsUnknownInitialNode(t *testing.T) {
	_, err := NewEpidemicState(3, 0, Assignment{4: Infected})
	assert.ErrorIs(t, err, ErrUnknownNode)
}

func TestEpidemicState_SetCompartment(t *testing.T) {
	tests := []struct {
		name    string
		from    Compartment
		to      Compartment
		allowed bool
	}{
		{"S to I", Susceptible, Infected, true},
		{"I to R", Infected, Recovered, true},
		{"S to R skips I", Susceptible, Recovered, false},
		{"I to S reverses", Infected, Susceptible, false},
		{"R to I reverses", Recovered, Infected, false},
		{"R to S reverses", Recovered, Susceptible, false},
		{"I to I", Infected, Infected, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewEpidemicState(2, 0, Assignment{1: tt.from})
			require.NoError(t, err)
			before := s.CountByCompartment()

			err = s.SetCompartment(1, tt.to)

			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, s.CompartmentOf(1))
				assert.Equal(t, before.Of(tt.from)-1, s.CountByCompartment().Of(tt.from))
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.Equal(t, tt.from, s.CompartmentOf(1))
				assert.Equal(t, before, s.CountByCompartment())
			}
			assert.Equal(t, 2, s.CountByCompartment().Total())
		})
	}
}

func TestEpidemicState_SetCompartmentUnknownNode(t *testing.T) {
	s, err := NewEpidemicState(2, 0, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetCompartment(3, Infected), ErrUnknownNode)
	assert.ErrorIs(t, s.SetCompartment(0, Infected), ErrUnknownNode)
}

func TestEpidemicState_SnapshotIsACopy(t *testing.T) {
	s, err := NewEpidemicState(2, 0, Assignment{1: Infected})
	require.NoError(t, err)
	snap := s.Snapshot()

	require.NoError(t, s.SetCompartment(1, Recovered))

	assert.Equal(t, Infected, snap[1])
	assert.Equal(t, Counts{S: 1, I: 1}, snap.Counts(2))
}

func TestCompartment_String(t *testing.T) {
	assert.Equal(t, "S", Susceptible.String())
	assert.Equal(t, "I", Infected.String())
	assert.Equal(t, "R", Recovered.String())
	assert.Equal(t, "Compartment(7)", Compartment(7).String())
}
