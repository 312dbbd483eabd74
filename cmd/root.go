package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/episim/episim/sim"
	"github.com/episim/episim/sim/metrics"
	"github.com/episim/episim/sim/output"
	"github.com/episim/episim/sim/store"
)

var (
	// CLI flags for the run
	seed       int64  // Master seed; network, initial infections and epidemic use separate partitions
	logLevel   string // Log verbosity level
	configPath string // YAML parameter file; explicit flags override it

	// CLI flags for the contact network
	nodes        int     // Population size N
	edgeProb     float64 // Erdős–Rényi link probability
	topology     string  // erdos-renyi, path or complete
	edgeListPath string  // Edge list CSV; selects the edge-list topology

	// CLI flags for the epidemic
	beta             float64 // Transmission rate per S–I contact
	r0               float64 // Basic reproduction number; derives beta when --beta is absent
	recoveryModel    string  // exponential, gamma or fixed
	recoveryRate     float64 // Exponential recovery rate
	recoveryShape    float64 // Gamma shape
	recoveryScale    float64 // Gamma scale
	recoveryDuration float64 // Fixed infectious period
	initialInfected  int     // Number of random initial infections
	infectedNodes    []int   // Explicit initial infections

	// CLI flags for outputs
	outputDir  string // Directory for CSV tables and the run header
	detailed   bool   // Also write the per-node detailed table
	dbPath     string // SQLite results store
	metricsOut string // Prometheus textfile path
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "episim",
	Short: "Exact event-driven SIR epidemic simulator on contact networks",
}

// runOptions selects where a run's results go besides stdout.
type runOptions struct {
	OutputDir  string
	Detailed   bool
	DBPath     string
	MetricsOut string
}

// runCmd executes one simulation using parameters from the config file and CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one epidemic simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()

		p, err := resolveParameters(cmd)
		if err != nil {
			logrus.Fatalf("Invalid parameters: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		opts := runOptions{OutputDir: outputDir, Detailed: detailed, DBPath: dbPath, MetricsOut: metricsOut}
		if _, err := runSimulation(ctx, p, opts, os.Stdout); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runSimulation runs p to completion, writes the requested outputs and
// prints the summary to w. An interrupted run still has its partial
// results written before the error is returned.
func runSimulation(ctx context.Context, p *sim.Parameters, opts runOptions, w io.Writer) (*sim.Result, error) {
	var observers []sim.Observer
	var csvObs *output.CSVObserver
	if opts.OutputDir != "" {
		obs, err := output.NewCSVObserver(opts.OutputDir, opts.Detailed)
		if err != nil {
			return nil, err
		}
		defer obs.Close()
		csvObs = obs
		observers = append(observers, obs)
	}
	var collector *metrics.Collector
	if opts.MetricsOut != "" {
		collector = metrics.NewCollector()
		observers = append(observers, collector)
	}

	s, err := sim.NewSimulatorFromParameters(p, observers...)
	if err != nil {
		return nil, fmt.Errorf("setting up simulation: %w", err)
	}
	res, runErr := s.Run(ctx)

	if csvObs != nil {
		if err := csvObs.Close(); err != nil {
			return res, err
		}
		if err := output.WriteHeader(opts.OutputDir, res, p); err != nil {
			return res, err
		}
		logrus.Infof("Wrote CSV tables to %s", opts.OutputDir)
	}
	if collector != nil {
		if err := collector.WriteTextfile(opts.MetricsOut); err != nil {
			return res, fmt.Errorf("writing metrics: %w", err)
		}
	}
	if opts.DBPath != "" {
		if err := saveToStore(ctx, opts.DBPath, p, res); err != nil {
			return res, err
		}
	}
	res.Print(w)
	return res, runErr
}

func saveToStore(ctx context.Context, path string, p *sim.Parameters, res *sim.Result) error {
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()
	// an interrupted run is still saved
	if err := st.SaveResult(context.WithoutCancel(ctx), p, res); err != nil {
		return err
	}
	logrus.Infof("Saved run %s to %s", res.RunID, path)
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerNetworkFlags binds the contact network flags of c.
func registerNetworkFlags(c *cobra.Command) {
	d := sim.DefaultParameters()
	c.Flags().Int64Var(&seed, "seed", d.Seed, "Master seed for the network, initial infections and epidemic")
	c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	c.Flags().StringVar(&configPath, "config", "", "YAML parameter file; explicit flags override its values")
	c.Flags().IntVar(&nodes, "nodes", d.Network.Nodes, "Population size")
	c.Flags().Float64Var(&edgeProb, "edge-prob", d.Network.EdgeProb, "Erdős–Rényi link probability")
	c.Flags().StringVar(&topology, "topology", d.Network.Topology, "Network topology (erdos-renyi, path, complete)")
	c.Flags().StringVar(&edgeListPath, "network", "", "Contact network edge list CSV (node1,node2)")
}

// registerRunFlags binds every flag of the run command to c.
func registerRunFlags(c *cobra.Command) {
	d := sim.DefaultParameters()
	registerNetworkFlags(c)

	// Epidemic
	c.Flags().Float64Var(&beta, "beta", 0, "Transmission rate per infected–susceptible contact (overrides --r0)")
	c.Flags().Float64Var(&r0, "r0", *d.R0, "Basic reproduction number, used to derive beta")
	c.Flags().StringVar(&recoveryModel, "recovery", d.Recovery.Model, "Infectious period distribution (exponential, gamma, fixed)")
	c.Flags().Float64Var(&recoveryRate, "recovery-rate", 0.2, "Exponential recovery rate")
	c.Flags().Float64Var(&recoveryShape, "recovery-shape", d.Recovery.Shape, "Gamma infectious period shape")
	c.Flags().Float64Var(&recoveryScale, "recovery-scale", d.Recovery.Scale, "Gamma infectious period scale")
	c.Flags().Float64Var(&recoveryDuration, "recovery-duration", 5, "Fixed infectious period")
	c.Flags().IntVar(&initialInfected, "initial-infected", d.Initial.Infected, "Number of randomly chosen initial infections")
	c.Flags().IntSliceVar(&infectedNodes, "infected", nil, "Comma-separated initially infected nodes (overrides --initial-infected)")

	// Outputs
	c.Flags().StringVar(&outputDir, "output-dir", "", "Write CSV tables and run.yaml to this directory")
	c.Flags().BoolVar(&detailed, "detailed", false, "Also write the per-node detailed state table")
	c.Flags().StringVar(&dbPath, "db", "", "Save the run to this SQLite database")
	c.Flags().StringVar(&metricsOut, "metrics-out", "", "Write Prometheus metrics to this textfile")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd)
	registerNetworkFlags(networkCmd)
	networkCmd.Flags().StringVar(&networkOut, "out", "", "Edge list output path (default stdout)")
	runsCmd.Flags().StringVar(&runsDBPath, "db", "episim.db", "SQLite results database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(runsCmd)
}
