package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/episim/episim/sim"
	"github.com/episim/episim/sim/network"
)

var networkOut string // Edge list output path

// networkCmd builds the contact network a run with the same flags would use
// and writes it as an edge list.
var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Generate a contact network and write it as an edge list",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		p, err := resolveParameters(cmd)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}
		w := io.Writer(os.Stdout)
		if networkOut != "" {
			f, err := os.Create(networkOut)
			if err != nil {
				logrus.Fatalf("Creating %s: %v", networkOut, err)
			}
			defer f.Close()
			w = f
		}
		adj, err := writeNetwork(p, w)
		if err != nil {
			logrus.Fatalf("Writing network: %v", err)
		}
		logrus.Infof("Wrote %d nodes and %d contacts (mean degree %.3f)", adj.Size(), adj.NumEdges(), adj.MeanDegree())
	},
}

// writeNetwork builds p's network from the network partition of p.Seed, so
// it is the network `episim run` builds from the same parameters.
func writeNetwork(p *sim.Parameters, w io.Writer) (*network.Adjacency, error) {
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(p.Seed))
	adj, err := sim.BuildNetwork(p.Network, rng.ForSubsystem(sim.SubsystemNetwork))
	if err != nil {
		return nil, fmt.Errorf("building network: %w", err)
	}
	if err := network.WriteEdgeList(w, adj); err != nil {
		return nil, err
	}
	return adj, nil
}
