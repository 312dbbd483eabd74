package sim

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
)

// === RandomProcess ===

// RandomProcess is the single stream of uniform and exponential draws for one run.
// The order of draws determines the trajectory, so every component of a run
// consumes the same stream in a fixed order.
//
// Thread-safety: NOT thread-safe. Each run owns its own RandomProcess.
type RandomProcess struct {
	src *rand.PCG
	rng *rand.Rand
}

// NewRandomProcess creates a stream seeded with seed.
func NewRandomProcess(seed int64) *RandomProcess {
	src := rand.NewPCG(uint64(seed), uint64(seed))
	return &RandomProcess{src: src, rng: rand.New(src)}
}

// Reseed rewinds the stream to the state NewRandomProcess(seed) starts from.
func (rp *RandomProcess) Reseed(seed int64) {
	rp.src.Seed(uint64(seed), uint64(seed))
}

// Uniform returns a draw in [0, 1).
func (rp *RandomProcess) Uniform() float64 {
	return rp.rng.Float64()
}

// Float64 is Uniform; it lets the stream feed network builders.
func (rp *RandomProcess) Float64() float64 {
	return rp.Uniform()
}

// IntN returns a draw in [0, n).
func (rp *RandomProcess) IntN(n int) int {
	return rp.rng.IntN(n)
}

// Exponential returns -ln(1-u)/rate for u = Uniform().
// A zero rate never fires: it returns +Inf without consuming a draw.
func (rp *RandomProcess) Exponential(rate float64) float64 {
	if rate < 0 || math.IsNaN(rate) {
		panic(fmt.Sprintf("exponential rate must be non-negative, got %v", rate))
	}
	if rate == 0 {
		return math.Inf(1)
	}
	u := rp.Uniform()
	return -math.Log(1-u) / rate
}

// Source exposes the underlying stream so samplers from other packages
// (gonum distuv) draw from it rather than from a second stream.
func (rp *RandomProcess) Source() rand.Source {
	return rp.src
}

// === SimulationKey ===

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration
// MUST produce bit-for-bit identical reaction histories.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

// === Subsystem Constants ===

const (
	// SubsystemEpidemic feeds the engine: transmission and recovery draws.
	// Uses the master seed directly, so NewRandomProcess(seed) reproduces it.
	SubsystemEpidemic = "epidemic"

	// SubsystemNetwork feeds random network construction.
	SubsystemNetwork = "network"

	// SubsystemInitial feeds the choice of initially infected nodes.
	SubsystemInitial = "initial"
)

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated streams per subsystem, so
// building a different network never shifts the epidemic's draws.
//
// Derivation formula:
//   - For SubsystemEpidemic: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from single goroutine.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*RandomProcess
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*RandomProcess),
	}
}

// ForSubsystem returns a deterministically-seeded stream for the named subsystem.
// The same subsystem name always returns the same *RandomProcess (cached).
func (p *PartitionedRNG) ForSubsystem(name string) *RandomProcess {
	if rp, ok := p.subsystems[name]; ok {
		return rp
	}

	derivedSeed := int64(p.key)
	if name != SubsystemEpidemic {
		derivedSeed ^= fnv1a64(name)
	}

	rp := NewRandomProcess(derivedSeed)
	p.subsystems[name] = rp
	return rp
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
