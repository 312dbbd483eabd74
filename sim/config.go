package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Network topologies accepted by NetworkConfig.
const (
	TopologyErdosRenyi = "erdos-renyi"
	TopologyPath       = "path"
	TopologyComplete   = "complete"
	TopologyEdgeList   = "edge-list"
)

// ValidTopologies is the set of recognized topology names.
var ValidTopologies = map[string]bool{"": true, TopologyErdosRenyi: true, TopologyPath: true, TopologyComplete: true, TopologyEdgeList: true}

// NetworkConfig groups contact network parameters.
type NetworkConfig struct {
	Topology string  `yaml:"topology"`            // "erdos-renyi" (default), "path", "complete", "edge-list"
	Nodes    int     `yaml:"nodes"`               // population size N
	EdgeProb float64 `yaml:"edge_prob"`           // G(N, p) link probability
	EdgeList string  `yaml:"edge_list,omitempty"` // CSV path for "edge-list"
}

// InitialConfig groups initial condition parameters.
// Explicit Nodes take precedence over a random Infected count.
type InitialConfig struct {
	Infected int   `yaml:"infected"`
	Nodes    []int `yaml:"nodes,omitempty"`
}

// Parameters holds everything needed to set up one run, loadable from YAML.
// Nil pointer fields mean "not set".
type Parameters struct {
	Seed     int64          `yaml:"seed"`
	Network  NetworkConfig  `yaml:"network"`
	Beta     *float64       `yaml:"beta,omitempty"` // transmission rate per S–I contact
	R0       *float64       `yaml:"r0,omitempty"`   // derives Beta when Beta is unset
	Recovery RecoveryConfig `yaml:"recovery"`
	Initial  InitialConfig  `yaml:"initial"`
}

// DefaultParameters mirrors the reference experiment: 1000 nodes, R0 = 2.5,
// gamma(shape 1, scale 5) infectious period, two random initial infections.
func DefaultParameters() *Parameters {
	r0 := 2.5
	return &Parameters{
		Seed:     1234567890,
		Network:  NetworkConfig{Topology: TopologyErdosRenyi, Nodes: 1000, EdgeProb: 0.005},
		R0:       &r0,
		Recovery: RecoveryConfig{Model: RecoveryGamma, Shape: 1, Scale: 5},
		Initial:  InitialConfig{Infected: 2},
	}
}

// LoadParameters reads a YAML parameter file. Unknown fields are errors.
func LoadParameters(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameters: %w", err)
	}
	var p Parameters
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing parameters: %w", err)
	}
	return &p, nil
}

// Validate checks names and ranges. It does not touch the filesystem.
func (p *Parameters) Validate() error {
	if !ValidTopologies[p.Network.Topology] {
		return fmt.Errorf("%w: unknown topology %q", ErrInvalidConfig, p.Network.Topology)
	}
	if p.Network.Topology == TopologyEdgeList {
		if p.Network.EdgeList == "" {
			return fmt.Errorf("%w: topology %q needs edge_list", ErrInvalidConfig, TopologyEdgeList)
		}
	} else if p.Network.Nodes < 2 {
		return fmt.Errorf("%w: nodes must be at least 2, got %d", ErrInvalidConfig, p.Network.Nodes)
	}
	if p.Network.EdgeProb < 0 || p.Network.EdgeProb > 1 {
		return fmt.Errorf("%w: edge_prob must be in [0, 1], got %v", ErrInvalidConfig, p.Network.EdgeProb)
	}
	if p.Beta != nil && (*p.Beta < 0 || math.IsNaN(*p.Beta) || math.IsInf(*p.Beta, 0)) {
		return fmt.Errorf("beta must be finite and non-negative, got %v: %w", *p.Beta, ErrNonPositiveRate)
	}
	if p.Beta == nil {
		if p.R0 == nil {
			return fmt.Errorf("%w: one of beta or r0 is required", ErrInvalidConfig)
		}
		if *p.R0 < 0 || math.IsNaN(*p.R0) || math.IsInf(*p.R0, 0) {
			return fmt.Errorf("%w: r0 must be finite and non-negative, got %v", ErrInvalidConfig, *p.R0)
		}
	}
	if !ValidRecoveryModels[p.Recovery.Model] {
		return fmt.Errorf("%w: unknown recovery model %q", ErrInvalidConfig, p.Recovery.Model)
	}
	if _, err := NewRecoverySampler(p.Recovery); err != nil {
		return err
	}
	if len(p.Initial.Nodes) == 0 && p.Initial.Infected < 1 {
		return fmt.Errorf("%w: initial.infected must be at least 1: %w", ErrInvalidConfig, ErrNoInfected)
	}
	return nil
}

// TransmissionRate returns Beta, or derives it from R0 as
// R0 / (mean infectious period × mean degree).
func (p *Parameters) TransmissionRate(recovery RecoverySampler, meanDegree float64) (float64, error) {
	if p.Beta != nil {
		return *p.Beta, nil
	}
	if p.R0 == nil {
		return 0, fmt.Errorf("%w: one of beta or r0 is required", ErrInvalidConfig)
	}
	if meanDegree <= 0 {
		return 0, fmt.Errorf("%w: cannot derive beta from r0 on a network without contacts", ErrInvalidConfig)
	}
	return *p.R0 / (recovery.Mean() * meanDegree), nil
}
