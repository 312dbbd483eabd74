package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/episim/episim/sim/store"
)

var runsDBPath string // SQLite results store for the runs command

// runsCmd lists stored runs, or prints the reaction history of one run.
var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List runs saved with --db, or print one run's reaction history",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		st, err := store.Open(runsDBPath)
		if err != nil {
			logrus.Fatalf("Opening results store: %v", err)
		}
		defer st.Close()

		ctx := context.Background()
		if len(args) == 1 {
			err = printReactions(ctx, st, args[0], os.Stdout)
		} else {
			err = listRuns(ctx, st, os.Stdout)
		}
		if err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func listRuns(ctx context.Context, st *store.Store, w io.Writer) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tCREATED\tN\tREACTIONS\tEND TIME\tS/I/R\tATTACK RATE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.4f\t%d/%d/%d\t%.4f\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Nodes, r.Steps, r.EndTime, r.Final.S, r.Final.I, r.Final.R, r.AttackRate)
	}
	return tw.Flush()
}

func printReactions(ctx context.Context, st *store.Store, runID string, w io.Writer) error {
	history, err := st.LoadReactions(ctx, runID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "t,reaction,nodes")
	for _, r := range history {
		ids := make([]string, len(r.Nodes))
		for i, v := range r.Nodes {
			ids[i] = strconv.Itoa(int(v))
		}
		fmt.Fprintf(w, "%s,%s,%s\n", strconv.FormatFloat(r.Time, 'f', -1, 64), r.Kind, strings.Join(ids, " "))
	}
	return nil
}
