package sim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// RecoverySampler draws infectious-period durations from a run's stream.
type RecoverySampler interface {
	// Sample returns a positive duration.
	Sample(rng *RandomProcess) float64
	// Mean returns the expected duration.
	Mean() float64
}

// ExponentialRecovery draws Exponential(Rate) durations; it consumes one uniform per draw.
type ExponentialRecovery struct {
	Rate float64
}

func (r ExponentialRecovery) Sample(rng *RandomProcess) float64 { return rng.Exponential(r.Rate) }
func (r ExponentialRecovery) Mean() float64                     { return 1 / r.Rate }
func (r ExponentialRecovery) String() string                    { return fmt.Sprintf("exponential(rate=%g)", r.Rate) }

// GammaRecovery draws Gamma(Shape, Scale) durations with mean Shape*Scale.
type GammaRecovery struct {
	Shape float64
	Scale float64
}

func (r GammaRecovery) Sample(rng *RandomProcess) float64 {
	return distuv.Gamma{Alpha: r.Shape, Beta: 1 / r.Scale, Src: rng.Source()}.Rand()
}
func (r GammaRecovery) Mean() float64  { return r.Shape * r.Scale }
func (r GammaRecovery) String() string { return fmt.Sprintf("gamma(shape=%g, scale=%g)", r.Shape, r.Scale) }

// FixedRecovery recovers every node exactly Duration after infection; it consumes no draws.
type FixedRecovery struct {
	Duration float64
}

func (r FixedRecovery) Sample(*RandomProcess) float64 { return r.Duration }
func (r FixedRecovery) Mean() float64                 { return r.Duration }
func (r FixedRecovery) String() string                { return fmt.Sprintf("fixed(duration=%g)", r.Duration) }

// Recovery model names accepted by RecoveryConfig.
const (
	RecoveryExponential = "exponential"
	RecoveryGamma       = "gamma"
	RecoveryFixed       = "fixed"
)

// ValidRecoveryModels is the set of recognized recovery model names.
var ValidRecoveryModels = map[string]bool{"": true, RecoveryExponential: true, RecoveryGamma: true, RecoveryFixed: true}

// RecoveryConfig selects and parameterizes the infectious-period distribution.
// An empty Model means exponential.
type RecoveryConfig struct {
	Model    string  `yaml:"model"`
	Rate     float64 `yaml:"rate"`
	Shape    float64 `yaml:"shape"`
	Scale    float64 `yaml:"scale"`
	Duration float64 `yaml:"duration"`
}

// NewRecoverySampler builds the sampler described by cfg.
func NewRecoverySampler(cfg RecoveryConfig) (RecoverySampler, error) {
	positive := func(name string, v float64) error {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("recovery %s must be positive and finite, got %v: %w", name, v, ErrNonPositiveRate)
		}
		return nil
	}
	switch cfg.Model {
	case "", RecoveryExponential:
		if err := positive("rate", cfg.Rate); err != nil {
			return nil, err
		}
		return ExponentialRecovery{Rate: cfg.Rate}, nil
	case RecoveryGamma:
		if err := positive("shape", cfg.Shape); err != nil {
			return nil, err
		}
		if err := positive("scale", cfg.Scale); err != nil {
			return nil, err
		}
		return GammaRecovery{Shape: cfg.Shape, Scale: cfg.Scale}, nil
	case RecoveryFixed:
		if err := positive("duration", cfg.Duration); err != nil {
			return nil, err
		}
		return FixedRecovery{Duration: cfg.Duration}, nil
	}
	return nil, fmt.Errorf("%w: unknown recovery model %q", ErrInvalidConfig, cfg.Model)
}
