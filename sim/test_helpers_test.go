package sim

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/episim/episim/sim/network"
)

// renderHistory formats a reaction history one "t,kind,nodes" line per reaction,
// with times at nanosecond-level precision.
func renderHistory(history []Reaction) []byte {
	var b strings.Builder
	for _, r := range history {
		nodes := make([]string, len(r.Nodes))
		for i, v := range r.Nodes {
			nodes[i] = fmt.Sprint(int(v))
		}
		fmt.Fprintf(&b, "%.9f,%s,%s\n", r.Time, r.Kind, strings.Join(nodes, " "))
	}
	return []byte(b.String())
}

func mustPath(t *testing.T, n int) *network.Adjacency {
	t.Helper()
	a, err := network.Path(n)
	require.NoError(t, err)
	return a
}

func mustComplete(t *testing.T, n int) *network.Adjacency {
	t.Helper()
	a, err := network.Complete(n)
	require.NoError(t, err)
	return a
}

func mustSeed(t *testing.T, n int, nodes ...network.Node) Assignment {
	t.Helper()
	a, err := SeedInfected(n, nodes...)
	require.NoError(t, err)
	return a
}

// recordingObserver keeps every callback it receives.
type recordingObserver struct {
	started   int
	startI    int
	reactions []Reaction
	counts    []Counts
	finished  *Result
}

func (o *recordingObserver) OnStart(_ string, state *EpidemicState) {
	o.started++
	o.startI = state.CountByCompartment().I
}

func (o *recordingObserver) OnReaction(_ string, r Reaction, c Counts) {
	o.reactions = append(o.reactions, r)
	o.counts = append(o.counts, c)
}

func (o *recordingObserver) OnFinish(res *Result) { o.finished = res }
