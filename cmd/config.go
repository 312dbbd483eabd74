package cmd

import (
	"github.com/spf13/cobra"

	"github.com/episim/episim/sim"
)

// resolveParameters starts from the --config file, or the built-in defaults
// when none is given, and applies every flag the user set explicitly.
func resolveParameters(cmd *cobra.Command) (*sim.Parameters, error) {
	p := sim.DefaultParameters()
	if configPath != "" {
		loaded, err := sim.LoadParameters(configPath)
		if err != nil {
			return nil, err
		}
		p = loaded
	}
	changed := cmd.Flags().Changed

	if changed("seed") {
		p.Seed = seed
	}
	if changed("topology") {
		p.Network.Topology = topology
	}
	if changed("nodes") {
		p.Network.Nodes = nodes
	}
	if changed("edge-prob") {
		p.Network.EdgeProb = edgeProb
	}
	if changed("network") {
		p.Network.Topology = sim.TopologyEdgeList
		p.Network.EdgeList = edgeListPath
	}

	// Only the run command carries the epidemic flags
	if cmd.Flags().Lookup("beta") == nil {
		return p, nil
	}
	if changed("r0") {
		v := r0
		p.R0 = &v
		p.Beta = nil
	}
	if changed("beta") {
		v := beta
		p.Beta = &v
	}
	if changed("recovery") {
		p.Recovery.Model = recoveryModel
	}
	if changed("recovery-rate") {
		p.Recovery.Rate = recoveryRate
	}
	if changed("recovery-shape") {
		p.Recovery.Shape = recoveryShape
	}
	if changed("recovery-scale") {
		p.Recovery.Scale = recoveryScale
	}
	if changed("recovery-duration") {
		p.Recovery.Duration = recoveryDuration
	}
	if changed("recovery") {
		seedRecoveryDefaults(&p.Recovery)
	}
	if changed("initial-infected") {
		p.Initial.Infected = initialInfected
		p.Initial.Nodes = nil
	}
	if changed("infected") {
		p.Initial.Nodes = append([]int(nil), infectedNodes...)
	}
	return p, p.Validate()
}

// seedRecoveryDefaults fills the parameters of a model chosen with --recovery
// that neither the config file nor a flag provided, using the flag defaults.
func seedRecoveryDefaults(r *sim.RecoveryConfig) {
	switch r.Model {
	case "", sim.RecoveryExponential:
		if r.Rate == 0 {
			r.Rate = recoveryRate
		}
	case sim.RecoveryGamma:
		if r.Shape == 0 {
			r.Shape = recoveryShape
		}
		if r.Scale == 0 {
			r.Scale = recoveryScale
		}
	case sim.RecoveryFixed:
		if r.Duration == 0 {
			r.Duration = recoveryDuration
		}
	}
}
