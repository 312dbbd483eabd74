// Summarizes a finished (or aborted) run for reporting.

package sim

import (
	"fmt"
	"io"
	"time"
)

// Result is the observable output of one run.
type Result struct {
	RunID     string
	Nodes     int
	StartTime float64
	EndTime   float64 // time of the last applied event
	Steps     int
	Status    RunState
	History   []Reaction
	Series    []CountsAt
	Initial   Assignment
	Final     Assignment
	WallTime  time.Duration // not deterministic
}

// FinalCounts returns the compartment counts after the last reaction.
func (r *Result) FinalCounts() Counts {
	if len(r.Series) == 0 {
		return r.Final.Counts(r.Nodes)
	}
	return r.Series[len(r.Series)-1].Counts
}

// PeakInfected returns the largest number of simultaneously infected nodes and when it was reached.
func (r *Result) PeakInfected() (int, float64) {
	peak, at := 0, r.StartTime
	for _, p := range r.Series {
		if p.I > peak {
			peak, at = p.I, p.Time
		}
	}
	return peak, at
}

// AttackRate returns the fraction of the population ever infected.
func (r *Result) AttackRate() float64 {
	if r.Nodes == 0 {
		return 0
	}
	initial := r.Initial.Counts(r.Nodes)
	final := r.FinalCounts()
	// nodes leave S only through infection
	return float64(initial.I+initial.S-final.S) / float64(r.Nodes)
}

// Print writes a human-readable summary of the run.
func (r *Result) Print(w io.Writer) {
	final := r.FinalCounts()
	peak, peakAt := r.PeakInfected()
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Run ID            : %s\n", r.RunID)
	fmt.Fprintf(w, "Status            : %s\n", r.Status)
	fmt.Fprintf(w, "Population        : %d\n", r.Nodes)
	fmt.Fprintf(w, "Reactions         : %d\n", r.Steps)
	fmt.Fprintf(w, "Epidemic duration : %.6f\n", r.EndTime-r.StartTime)
	fmt.Fprintf(w, "Peak infected     : %d at t=%.6f\n", peak, peakAt)
	fmt.Fprintf(w, "Attack rate       : %.4f\n", r.AttackRate())
	fmt.Fprintf(w, "Final S/I/R       : %d/%d/%d\n", final.S, final.I, final.R)
	fmt.Fprintf(w, "Wall time         : %v\n", r.WallTime)
}
