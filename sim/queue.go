// sim/queue.go
package sim

import "container/heap"

// eventHeap implements heap.Interface over pending events, keeping each
// event's index current so that specific events can be removed.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-PriorityQueue
type eventHeap []*PendingEvent

func (h eventHeap) Len() int { return len(h) }

// Less orders by time, then by insertion sequence (earliest inserted first).
func (h eventHeap) Less(i, j int) bool {
	if h[i].Time != h[j].Time {
		return h[i].Time < h[j].Time
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *eventHeap) Push(x any) {
	ev := x.(*PendingEvent)
	ev.index = len(*h)
	*h = append(*h, ev)
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	ev.index = -1
	*h = old[0 : n-1]
	return ev
}

// EventQueue is the time-ordered multiset of pending events of one run.
//
// Thread-safety: NOT thread-safe. Owned by a single Simulator.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{events: make(eventHeap, 0)}
}

// Insert schedules ev in O(log n). Inserting an event that is already queued panics.
func (q *EventQueue) Insert(ev *PendingEvent) {
	if q.contains(ev) {
		panic("event inserted twice: " + ev.String())
	}
	ev.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.events, ev)
}

// PopEarliest removes and returns the earliest event.
func (q *EventQueue) PopEarliest() (*PendingEvent, error) {
	if len(q.events) == 0 {
		return nil, ErrEmptyQueue
	}
	return heap.Pop(&q.events).(*PendingEvent), nil
}

// Peek returns the earliest event without removing it, or nil.
func (q *EventQueue) Peek() *PendingEvent {
	if len(q.events) == 0 {
		return nil
	}
	return q.events[0]
}

// RemoveIfPresent removes ev if it is still scheduled and reports whether it was.
func (q *EventQueue) RemoveIfPresent(ev *PendingEvent) bool {
	if !q.contains(ev) {
		return false
	}
	heap.Remove(&q.events, ev.index)
	return true
}

// IsEmpty reports whether no events remain.
func (q *EventQueue) IsEmpty() bool { return len(q.events) == 0 }

// Len returns the number of pending events.
func (q *EventQueue) Len() int { return len(q.events) }

func (q *EventQueue) contains(ev *PendingEvent) bool {
	return ev != nil && ev.index >= 0 && ev.index < len(q.events) && q.events[ev.index] == ev
}
