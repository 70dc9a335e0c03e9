package skeleton

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// event is a candidate topology change on edge's triangle when the sweep
// reaches height.
type event struct {
	edge     trimesh.Edge
	height   float64
	finalPos mgl64.Vec3
	split    bool
	epoch    int
}

// An event that is discarded when popped. Pushing one still moves its
// triangle's latest event, which shadows any older event for that triangle.
func invalidEvent(e trimesh.Edge) event {
	return event{edge: e, height: math.Inf(1)}
}

func (ev event) valid() bool {
	if ev.edge.IsNull() {
		return false
	}
	t := ev.edge.Tri
	return !math.IsInf(ev.height, 1) && !t.IsDeleted() && t.InRegion()
}

func (ev event) String() string {
	if !ev.valid() {
		return "<invalid event>"
	}
	return fmt.Sprintf("ev(h=%g, edge=%v, fpos=%v, split=%t, epoch=%d)",
		ev.height, ev.edge, ev.finalPos, ev.split, ev.epoch)
}

func srcID(e trimesh.Edge) int {
	if e.IsNull() {
		return -1
	}
	return e.Src().ID
}

// before reports whether a should be handled before b. Events on the same
// triangle go newest first. Otherwise lower heights go first, then split
// events, then lower source vertex ids.
func before(a, b event) bool {
	if a.edge.Tri == b.edge.Tri {
		return a.epoch > b.epoch
	}
	if a.height != b.height {
		return a.height < b.height
	}
	if a.split != b.split {
		return a.split
	}
	return srcID(a.edge) < srcID(b.edge)
}

// eventQueue is a min heap of events in the order given by before.
type eventQueue []event

func (q eventQueue) Len() int            { return len(q) }
func (q eventQueue) Less(i, j int) bool  { return before(q[i], q[j]) }
func (q eventQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *eventQueue) Push(x interface{}) { *q = append(*q, x.(event)) }

func (q *eventQueue) Pop() interface{} {
	old := *q
	n := len(old)
	ev := old[n-1]
	*q = old[:n-1]
	return ev
}

func (q *eventQueue) push(ev event) {
	heap.Push(q, ev)
}

func (q *eventQueue) pop() event {
	return heap.Pop(q).(event)
}

func (q eventQueue) empty() bool {
	return len(q) == 0
}
