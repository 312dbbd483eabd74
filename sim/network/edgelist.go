package network

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var edgeListHeader = []string{"node1", "node2"}

// WriteEdgeList writes one "i,j" row per contact after a node1,node2 header.
func WriteEdgeList(w io.Writer, a *Adjacency) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(edgeListHeader); err != nil {
		return err
	}
	for _, e := range a.Edges() {
		if err := cw.Write([]string{strconv.Itoa(int(e[0])), strconv.Itoa(int(e[1]))}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEdgeList parses a node1,node2 CSV. The population size is the largest
// node seen unless n > 0 is given, in which case ids above n are rejected.
// The returned adjacency is validated.
func ReadEdgeList(r io.Reader, n int) (*Adjacency, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	var pairs [][2]Node
	maxNode := 0
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading edge list: %w", err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), edgeListHeader[0]) {
			continue
		}
		var pair [2]Node
		for k, field := range rec {
			id, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad node id %q", ErrMalformedNetwork, line, field)
			}
			if id < 1 || (n > 0 && id > n) {
				return nil, fmt.Errorf("%w: line %d: node %d outside [1, N]", ErrMalformedNetwork, line, id)
			}
			pair[k] = Node(id)
			maxNode = max(maxNode, id)
		}
		pairs = append(pairs, pair)
	}
	if n <= 0 {
		n = maxNode
	}
	a := New(n)
	for _, p := range pairs {
		if err := a.AddEdge(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
