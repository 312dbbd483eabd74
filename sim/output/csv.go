// Package output writes simulation runs as CSV tables: the reaction history,
// the summarized S/I/R counts, the minimal per-node state changes and the
// detailed full state after every reaction.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/episim/episim/sim"
	"github.com/episim/episim/sim/network"
)

// File names used by NewCSVObserver.
const (
	ReactionsFile  = "reaction_history.csv"
	SummarizedFile = "dynamic_state_summarized.csv"
	MinimalFile    = "dynamic_state_minimal.csv"
	DetailedFile   = "dynamic_state_detailed.csv"
)

var (
	reactionColumns   = []string{"run", "t", "reaction", "nodes"}
	summarizedColumns = []string{"run", "t", "S", "I", "R"}
	minimalColumns    = []string{"run", "t", "node", "compartment"}
)

// Writers selects the tables to produce. Nil writers are skipped.
type Writers struct {
	Reactions  io.Writer
	Summarized io.Writer
	Minimal    io.Writer
	Detailed   io.Writer
}

// CSVObserver streams a run into CSV tables as it progresses. It keeps its
// own copy of every node's compartment so the detailed table can be written
// without touching the simulator's state.
//
// Thread-safety: NOT thread-safe. Attach to a single Simulator.
type CSVObserver struct {
	reactions  *csv.Writer
	summarized *csv.Writer
	minimal    *csv.Writer
	detailed   *csv.Writer

	compartments []sim.Compartment // index 0 unused
	files        []*os.File
	err          error
}

// NewCSVObserverFromWriters builds an observer over caller-owned writers.
func NewCSVObserverFromWriters(w Writers) *CSVObserver {
	o := &CSVObserver{}
	wrap := func(dst io.Writer) *csv.Writer {
		if dst == nil {
			return nil
		}
		return csv.NewWriter(dst)
	}
	o.reactions = wrap(w.Reactions)
	o.summarized = wrap(w.Summarized)
	o.minimal = wrap(w.Minimal)
	o.detailed = wrap(w.Detailed)
	return o
}

// NewCSVObserver creates the four tables in dir. The detailed table has one
// column per node and is only written when detailed is true.
func NewCSVObserver(dir string, detailed bool) (*CSVObserver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	names := []string{ReactionsFile, SummarizedFile, MinimalFile}
	if detailed {
		names = append(names, DetailedFile)
	}
	files := make([]*os.File, 0, len(names))
	for _, name := range names {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			for _, open := range files {
				_ = open.Close()
			}
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		files = append(files, f)
	}
	w := Writers{Reactions: files[0], Summarized: files[1], Minimal: files[2]}
	if detailed {
		w.Detailed = files[3]
	}
	o := NewCSVObserverFromWriters(w)
	o.files = files
	return o, nil
}

func (o *CSVObserver) write(w *csv.Writer, row []string) {
	if w == nil || o.err != nil {
		return
	}
	if err := w.Write(row); err != nil {
		o.err = fmt.Errorf("writing CSV row: %w", err)
	}
}

func formatTime(t float64) string { return strconv.FormatFloat(t, 'f', -1, 64) }

func nodeIDs(nodes []network.Node) string {
	ids := make([]string, len(nodes))
	for i, v := range nodes {
		ids[i] = strconv.Itoa(int(v))
	}
	return strings.Join(ids, " ")
}

func (o *CSVObserver) summaryRow(runID string, t float64, c sim.Counts) []string {
	return []string{runID, formatTime(t), strconv.Itoa(c.S), strconv.Itoa(c.I), strconv.Itoa(c.R)}
}

func (o *CSVObserver) detailedRow(runID string, t float64) []string {
	row := make([]string, 0, len(o.compartments)+1)
	row = append(row, runID, formatTime(t))
	for _, c := range o.compartments[1:] {
		row = append(row, c.String())
	}
	return row
}

// OnStart writes the headers and the initial state of every table.
func (o *CSVObserver) OnStart(runID string, state *sim.EpidemicState) {
	n := state.Size()
	o.compartments = make([]sim.Compartment, n+1)
	for v := 1; v <= n; v++ {
		o.compartments[v] = state.CompartmentOf(network.Node(v))
	}

	o.write(o.reactions, reactionColumns)
	o.write(o.summarized, summarizedColumns)
	o.write(o.summarized, o.summaryRow(runID, state.Time, state.CountByCompartment()))
	o.write(o.minimal, minimalColumns)
	for v := 1; v <= n; v++ {
		o.write(o.minimal, []string{runID, formatTime(state.Time), strconv.Itoa(v), o.compartments[v].String()})
	}
	if o.detailed != nil {
		header := make([]string, 0, n+2)
		header = append(header, "run", "t")
		for v := 1; v <= n; v++ {
			header = append(header, strconv.Itoa(v))
		}
		o.write(o.detailed, header)
		o.write(o.detailed, o.detailedRow(runID, state.Time))
	}
}

// OnReaction appends one row per table for the reaction r.
func (o *CSVObserver) OnReaction(runID string, r sim.Reaction, counts sim.Counts) {
	var changed network.Node
	var to sim.Compartment
	switch r.Kind {
	case sim.Infection:
		changed, to = r.Nodes[1], sim.Infected
	case sim.Recovery:
		changed, to = r.Nodes[0], sim.Recovered
	}
	o.compartments[changed] = to

	o.write(o.reactions, []string{runID, formatTime(r.Time), r.Kind.String(), nodeIDs(r.Nodes)})
	o.write(o.summarized, o.summaryRow(runID, r.Time, counts))
	o.write(o.minimal, []string{runID, formatTime(r.Time), strconv.Itoa(int(changed)), to.String()})
	if o.detailed != nil {
		o.write(o.detailed, o.detailedRow(runID, r.Time))
	}
}

// OnFinish flushes every table.
func (o *CSVObserver) OnFinish(*sim.Result) {
	o.Flush()
}

// Flush writes any buffered rows.
func (o *CSVObserver) Flush() {
	for _, w := range []*csv.Writer{o.reactions, o.summarized, o.minimal, o.detailed} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil && o.err == nil {
			o.err = fmt.Errorf("flushing CSV: %w", err)
		}
	}
}

// Err returns the first write error, if any.
func (o *CSVObserver) Err() error { return o.err }

// Close flushes and closes the files opened by NewCSVObserver.
func (o *CSVObserver) Close() error {
	o.Flush()
	for _, f := range o.files {
		if err := f.Close(); err != nil && o.err == nil {
			o.err = fmt.Errorf("closing %s: %w", f.Name(), err)
		}
	}
	o.files = nil
	return o.err
}

// WriteResult replays a finished run into w. It produces the same rows as a
// CSVObserver attached during the run.
func WriteResult(w Writers, res *sim.Result) error {
	state, err := sim.NewEpidemicState(res.Nodes, res.StartTime, res.Initial)
	if err != nil {
		return err
	}
	o := NewCSVObserverFromWriters(w)
	o.OnStart(res.RunID, state)
	for i, r := range res.History {
		o.OnReaction(res.RunID, r, res.Series[i+1].Counts)
	}
	o.OnFinish(res)
	return o.Err()
}
