package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// === RandomProcess Tests ===

func TestRandomProcess_UniformInUnitInterval(t *testing.T) {
	rp := NewRandomProcess(42)
	for i := 0; i < 10000; i++ {
		u := rp.Uniform()
		if u < 0 || u >= 1 {
			t.Fatalf("Uniform() = %v, want [0, 1)", u)
		}
	}
}

func TestRandomProcess_ExponentialFormula(t *testing.T) {
	// GIVEN two identical streams
	a := NewRandomProcess(7)
	b := NewRandomProcess(7)

	// WHEN one draws an exponential and the other a uniform
	got := a.Exponential(2.5)
	u := b.Uniform()

	// THEN the exponential is -ln(1-u)/rate for that uniform
	assert.Equal(t, -math.Log(1-u)/2.5, got)
}

func TestRandomProcess_ZeroRateNeverFires(t *testing.T) {
	a := NewRandomProcess(7)
	b := NewRandomProcess(7)

	assert.True(t, math.IsInf(a.Exponential(0), 1))
	// a zero rate consumes no draw
	assert.Equal(t, b.Uniform(), a.Uniform())
}

func TestRandomProcess_NegativeRatePanics(t *testing.T) {
	assert.Panics(t, func() { NewRandomProcess(1).Exponential(-1) })
}

func TestRandomProcess_ExponentialMean(t *testing.T) {
	rp := NewRandomProcess(3)
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += rp.Exponential(4)
	}
	assert.InDelta(t, 0.25, sum/n, 0.005)
}

func TestRandomProcess_Reseed(t *testing.T) {
	rp := NewRandomProcess(99)
	first := []float64{rp.Uniform(), rp.Uniform(), rp.Uniform()}

	rp.Reseed(99)
	again := []float64{rp.Uniform(), rp.Uniform(), rp.Uniform()}

	assert.Equal(t, first, again)
}

func TestRandomProcess_SourceSharesStream(t *testing.T) {
	// Draws through Source() advance the same stream as Uniform()
	a := NewRandomProcess(5)
	b := NewRandomProcess(5)

	a.Source().Uint64()
	b.Uniform()

	assert.Equal(t, b.Uniform(), a.Uniform())
}

// === SimulationKey Tests ===

func TestSimulationKey_Creation(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{"positive seed", 42},
		{"zero seed", 0},
		{"negative seed", -1},
		{"max int64", math.MaxInt64},
		{"min int64", math.MinInt64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := NewSimulationKey(tt.seed)
			if int64(key) != tt.seed {
				t.Errorf("NewSimulationKey(%d) = %d, want %d", tt.seed, key, tt.seed)
			}
		})
	}
}

// === PartitionedRNG Tests ===

func TestPartitionedRNG_DeterministicDerivation(t *testing.T) {
	// Same key+name produces same sequence
	rng1 := NewPartitionedRNG(NewSimulationKey(42))
	rng2 := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 3; i++ {
		v1 := rng1.ForSubsystem(SubsystemNetwork).Uniform()
		v2 := rng2.ForSubsystem(SubsystemNetwork).Uniform()
		if v1 != v2 {
			t.Errorf("Value %d: got %v and %v, want identical", i, v1, v2)
		}
	}
}

func TestPartitionedRNG_SubsystemIsolation(t *testing.T) {
	// Drawing from the network stream doesn't shift the epidemic stream
	rngA := NewPartitionedRNG(NewSimulationKey(42))
	rngB := NewPartitionedRNG(NewSimulationKey(42))

	for i := 0; i < 10; i++ {
		rngA.ForSubsystem(SubsystemNetwork).Uniform()
	}

	assert.Equal(t,
		rngB.ForSubsystem(SubsystemEpidemic).Uniform(),
		rngA.ForSubsystem(SubsystemEpidemic).Uniform(),
		"epidemic stream must not depend on network draws")
}

func TestPartitionedRNG_EpidemicUsesMasterSeed(t *testing.T) {
	seed := int64(42)
	epidemic := NewPartitionedRNG(NewSimulationKey(seed)).ForSubsystem(SubsystemEpidemic)
	direct := NewRandomProcess(seed)

	for i := 0; i < 10; i++ {
		got, want := epidemic.Uniform(), direct.Uniform()
		if got != want {
			t.Errorf("Value %d: epidemic stream = %v, direct stream = %v", i, got, want)
		}
	}
}

func TestPartitionedRNG_CachesInstance(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	assert.Same(t, rng.ForSubsystem(SubsystemInitial), rng.ForSubsystem(SubsystemInitial))
	assert.NotSame(t, rng.ForSubsystem(SubsystemInitial), rng.ForSubsystem(SubsystemNetwork))
	assert.Equal(t, SimulationKey(42), rng.Key())
}
