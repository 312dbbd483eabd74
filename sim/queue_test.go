package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_TimestampOrdering(t *testing.T) {
	q := NewEventQueue()
	q.Insert(NewRecoveryEvent(1.5, 1))
	q.Insert(NewInfectionEvent(0.5, 1, 2))
	q.Insert(NewRecoveryEvent(3.0, 2))
	q.Insert(NewInfectionEvent(0.75, 2, 3))

	var times []float64
	for !q.IsEmpty() {
		ev, err := q.PopEarliest()
		require.NoError(t, err)
		times = append(times, ev.Time)
	}
	assert.Equal(t, []float64{0.5, 0.75, 1.5, 3.0}, times)
}

func TestEventQueue_TiesBrokenByInsertionOrder(t *testing.T) {
	// GIVEN three events at the same time inserted in a known order
	q := NewEventQueue()
	first := NewInfectionEvent(2, 1, 2)
	second := NewRecoveryEvent(2, 1)
	third := NewInfectionEvent(2, 3, 4)
	q.Insert(first)
	q.Insert(second)
	q.Insert(third)

	// THEN they pop earliest-inserted first
	for _, want := range []*PendingEvent{first, second, third} {
		got, err := q.PopEarliest()
		require.NoError(t, err)
		assert.Same(t, want, got)
	}
}

func TestEventQueue_PopEmpty(t *testing.T) {
	q := NewEventQueue()
	_, err := q.PopEarliest()
	assert.ErrorIs(t, err, ErrEmptyQueue)
	assert.Nil(t, q.Peek())
}

func TestEventQueue_RemoveIfPresent(t *testing.T) {
	q := NewEventQueue()
	a := NewInfectionEvent(1, 1, 2)
	b := NewInfectionEvent(2, 1, 3)
	c := NewRecoveryEvent(3, 1)
	q.Insert(a)
	q.Insert(b)
	q.Insert(c)

	assert.True(t, q.RemoveIfPresent(b))
	assert.False(t, q.RemoveIfPresent(b), "second removal is a no-op")
	assert.False(t, q.RemoveIfPresent(nil))
	assert.False(t, q.RemoveIfPresent(NewRecoveryEvent(3, 1)), "unqueued event is absent")
	assert.Equal(t, 2, q.Len())

	popped, err := q.PopEarliest()
	require.NoError(t, err)
	assert.Same(t, a, popped)
	assert.False(t, q.RemoveIfPresent(a), "popped event is absent")

	assert.Same(t, c, q.Peek())
}

func TestEventQueue_RemoveKeepsHeapOrder(t *testing.T) {
	q := NewEventQueue()
	events := make([]*PendingEvent, 0, 50)
	for i := 0; i < 50; i++ {
		// scrambled but distinct times
		ev := NewRecoveryEvent(float64((i*37)%50), 1)
		events = append(events, ev)
		q.Insert(ev)
	}
	for i := 0; i < 50; i += 3 {
		require.True(t, q.RemoveIfPresent(events[i]))
	}

	last := -1.0
	for !q.IsEmpty() {
		ev, err := q.PopEarliest()
		require.NoError(t, err)
		assert.Greater(t, ev.Time, last)
		last = ev.Time
	}
}

func TestEventQueue_DoubleInsertPanics(t *testing.T) {
	q := NewEventQueue()
	ev := NewRecoveryEvent(1, 1)
	q.Insert(ev)
	assert.Panics(t, func() { q.Insert(ev) })
}

func TestPendingEvent_Nodes(t *testing.T) {
	assert.Len(t, NewInfectionEvent(1, 3, 4).Nodes(), 2)
	assert.Equal(t, 4, int(NewInfectionEvent(1, 3, 4).Nodes()[1]))
	assert.Len(t, NewRecoveryEvent(1, 3).Nodes(), 1)
	assert.Equal(t, "Recovery", Recovery.String())
}
