// Package skeleton sweeps the contours of a triangle mesh inward, computing
// the straight skeleton of the region they bound up to a target height. The
// sweep works in place on the mesh: wavefront vertices move, collapsing
// triangles are removed and new spokes are inserted as events are handled.
package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/dbg"
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/osuushi/meshinset/internal/trimesh"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// A dhdl at most this far from zero marks a vertex as momentarily stationary.
	dhdlEpsilon = 1e-5
	// Squared distance under which two predicted positions coincide.
	collisionEpsilon = 1e-5
)

type EventKind int

const (
	ClosingEvent EventKind = iota
	VertexEvent
	SplitEvent
	FlipEvent
)

func (k EventKind) String() string {
	switch k {
	case ClosingEvent:
		return "closing"
	case VertexEvent:
		return "vertex"
	case SplitEvent:
		return "split"
	case FlipEvent:
		return "flip"
	}
	return "unknown"
}

// Config holds the optional collaborators of a sweep. The zero Config is
// silent.
type Config struct {
	Logger *zap.Logger
	// If set, the mesh is drawn before and after the sweep.
	Drawer *trimesh.Drawer
	// Validate the mesh after every handled event. This is slow.
	Validate bool
	// Called for each event that changes the mesh, in order.
	OnEvent func(kind EventKind, height float64)
}

// Stats counts what happened during a sweep.
type Stats struct {
	Closing   int
	Vertex    int
	Split     int
	Flip      int
	Discarded int
	Unknown   int
}

type Skeleton struct {
	mesh         *trimesh.TriangleMesh
	contours     [][]int
	targetHeight float64
	cfg          Config
	logger       *zap.Logger

	contourEdges       [][]trimesh.Edge
	contourEdgeSet     map[trimesh.Edge]struct{}
	totRegionTriangles int

	vertices  map[int]*skelVertex
	queue     eventQueue
	totFlips  int
	epoch     int
	heights   map[int]float64
	remaining []*trimesh.Triangle
	stats     Stats
}

func New(mesh *trimesh.TriangleMesh, contours [][]int, targetHeight float64, cfg Config) *Skeleton {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Skeleton{
		mesh:         mesh,
		contours:     contours,
		targetHeight: targetHeight,
		cfg:          cfg,
		logger:       logger,
		vertices:     map[int]*skelVertex{},
		heights:      map[int]float64{},
	}
}

// Heights maps the ids of vertices that the sweep reached to the height at
// which they were last placed.
func (s *Skeleton) Heights() map[int]float64 {
	return s.heights
}

// ContourEdges are the inner loops made from each input contour.
func (s *Skeleton) ContourEdges() [][]trimesh.Edge {
	return s.contourEdges
}

// RemainingTriangles are the in-region triangles still alive when the sweep
// stopped at the target height.
func (s *Skeleton) RemainingTriangles() []*trimesh.Triangle {
	return s.remaining
}

func (s *Skeleton) Stats() Stats {
	return s.stats
}

func (s *Skeleton) vertex(e trimesh.Edge) *skelVertex {
	return s.vertices[e.Src().ID]
}

func (s *Skeleton) setVertex(v *trimesh.Vert, skv *skelVertex) {
	s.vertices[v.ID] = skv
}

func (s *Skeleton) push(ev event) {
	if math.IsNaN(ev.height) {
		ev = invalidEvent(ev.edge)
	}
	s.queue.push(ev)
}

// pushAt queues an event on e at height, stamped with the current epoch.
func (s *Skeleton) pushAt(e trimesh.Edge, height float64, pos mgl64.Vec3, split bool) {
	s.push(event{edge: e, height: height, finalPos: pos, split: split, epoch: s.epoch})
}

func (s *Skeleton) draw(label string) {
	if s.cfg.Drawer == nil {
		return
	}
	path, err := s.cfg.Drawer.Draw(label, s.mesh)
	if err != nil {
		s.logger.Warn("could not draw mesh", zap.String("label", label), zap.Error(err))
		return
	}
	s.logger.Debug("drew mesh", zap.String("label", label), zap.String("path", path))
}

func (s *Skeleton) validate(when string) {
	if !s.cfg.Validate {
		return
	}
	if err := s.mesh.Validate(); err != nil {
		throw.Fatal(errors.Wrapf(err, "after %s", when))
	}
}

func (s *Skeleton) applied(kind EventKind, height float64) {
	switch kind {
	case ClosingEvent:
		s.stats.Closing++
	case VertexEvent:
		s.stats.Vertex++
	case SplitEvent:
		s.stats.Split++
	case FlipEvent:
		s.stats.Flip++
	}
	if s.cfg.OnEvent != nil {
		s.cfg.OnEvent(kind, height)
	}
	s.validate(kind.String() + " event")
}

// flipLimit bounds the flips in one sweep so that flip cycles terminate.
func (s *Skeleton) flipLimit() int {
	return 2 * s.totRegionTriangles * s.totRegionTriangles
}

// Compute runs the sweep. The mesh must have ghost triangles, and each
// contour must run along mesh edges with the region to sweep on its left.
func (s *Skeleton) Compute() {
	s.contourEdges = initContourInset(s.mesh, s.contours)
	s.calculateContourAndRegionData()
	s.mesh.CalculateAllTriNormals()
	s.validate("contour split")
	s.draw("start")

	s.seedContourVertices()
	s.seedRegion()
	s.logger.Debug("initial events", zap.Int("count", s.queue.Len()),
		zap.Int("regionTriangles", s.totRegionTriangles))

	if s.queue.empty() {
		s.logger.Warn("no initial events, leaving the contours in place")
		return
	}

	s.sweep()
	s.finalize()
	s.draw("final")
	s.logger.Debug("sweep finished",
		zap.Int("closing", s.stats.Closing),
		zap.Int("vertex", s.stats.Vertex),
		zap.Int("split", s.stats.Split),
		zap.Int("flip", s.stats.Flip),
		zap.Int("discarded", s.stats.Discarded),
		zap.Int("remaining", len(s.remaining)))
}

// Each contour vertex moves along the bisector of its two contour edges.
func (s *Skeleton) seedContourVertices() {
	for _, contour := range s.contourEdges {
		n := len(contour)
		for i, e := range contour {
			ePrev := contour[(i+n-1)%n]
			vPrev := ePrev.Src()
			v := e.Src()
			vNext := e.Dst()
			// Directions are measured going clockwise around the contour
			deltaPrev := trimesh.Normalize(vPrev.Co.Sub(v.Co))
			deltaNext := trimesh.Normalize(v.Co.Sub(vNext.Co))
			normal := trimesh.Normalize(ePrev.Tri.Normal().Add(e.Tri.Normal()))
			skv := newMovingVertex(v.Co, 0, deltaPrev, deltaNext, normal)
			s.setVertex(v, skv)
			if ce := s.logger.Check(zap.DebugLevel, "contour vertex"); ce != nil {
				ce.Write(zap.Int("v", v.ID), dbg.Field("skv", skv), zap.Stringer("state", skv))
			}
		}
	}
}

// Interior vertices stay put. Every region triangle gets its first event.
func (s *Skeleton) seedRegion() {
	for _, tri := range s.mesh.Triangles() {
		if !tri.InRegion() {
			continue
		}
		for i := 0; i < 3; i++ {
			v := tri.Vert(i)
			if _, ok := s.vertices[v.ID]; !ok {
				s.setVertex(v, newStationaryVertex(v.Co, trimesh.VertexNormal(v)))
			}
		}
		s.addTriangle(tri.Edge(0), 0)
	}
}

func (s *Skeleton) sweep() {
	for !s.queue.empty() {
		s.epoch++
		ev := s.queue.pop()
		if !ev.valid() {
			s.stats.Discarded++
			continue
		}
		if ev.height > s.targetHeight {
			s.queue.push(ev)
			break
		}
		if ce := s.logger.Check(zap.DebugLevel, "process event"); ce != nil {
			ce.Write(zap.Stringer("event", ev), dbg.Field("tri", ev.edge.Tri), zap.Int("epoch", s.epoch))
		}
		s.handle(ev)
	}
}

func (s *Skeleton) handle(ev event) {
	height := ev.height
	edge := ev.edge
	out1 := edge.IsWavefront()
	out2 := edge.Succ().IsWavefront()
	out3 := edge.Pred().IsWavefront()

	if !out2 && (!out1 || !out3) {
		flipEdge, isFlip := s.flipCandidate(ev, out1)
		if isFlip && s.totFlips < s.flipLimit() {
			first, second := s.handleFlipEvent(flipEdge)
			s.addTriangle(first, height)
			s.addTriangle(second, height)
			s.totFlips++
			s.applied(FlipEvent, height)
			return
		}
	}

	edge.Src().Co = ev.finalPos
	switch {
	case out1 && out2 && out3:
		s.heights[edge.Src().ID] = height
		s.handleClosingEvent(edge)
		s.applied(ClosingEvent, height)
	case out1 && (!out2 || !out3):
		s.vertexEvent(ev, out2, out3)
		s.applied(VertexEvent, height)
	case !out1 && out2 != out3:
		s.splitEvent(ev)
		s.applied(SplitEvent, height)
	default:
		s.stats.Unknown++
		s.logger.Debug("unknown event", zap.Stringer("event", ev),
			zap.Bool("out1", out1), zap.Bool("out2", out2), zap.Bool("out3", out3))
	}
}

// flipCandidate decides which edge of ev's triangle to flip, if any. With a
// wavefront first edge and no split flag the event may really be a vertex
// event, which shows as the next vertex arriving at the event position.
func (s *Skeleton) flipCandidate(ev event, out1 bool) (trimesh.Edge, bool) {
	edge := ev.edge
	height := ev.height
	flipEdge := edge.Succ()
	if !out1 || ev.split {
		return flipEdge, true
	}
	skv2 := s.vertex(flipEdge)
	if skv2.dhdl == 0 {
		return flipEdge.Succ(), true
	}
	p2 := skv2.positionAt(height)
	if ev.finalPos.Sub(p2).LenSqr() < collisionEpsilon {
		return flipEdge, false
	}
	skv3 := s.vertex(edge.Pred())
	if skv3.dhdl != 0 {
		p3 := skv3.positionAt(height)
		if ev.finalPos.Sub(p3).LenSqr() > p3.Sub(p2).LenSqr() {
			flipEdge = flipEdge.Succ()
		}
	}
	return flipEdge, true
}

func (s *Skeleton) vertexEvent(ev event, out2, out3 bool) {
	height := ev.height
	edge := ev.edge
	skv := s.vertex(edge)
	skvNext := s.vertex(edge.Succ())
	normal := trimesh.Normalize(skv.normal.Add(skvNext.normal))
	newSkv := newMovingVertex(ev.finalPos, height, skv.deltaPrev, skvNext.deltaNext, normal)
	s.setVertex(edge.Src(), newSkv)

	spoke := s.handleVertexEvent(edge)
	newV := spoke.Dst()
	s.setVertex(spoke.Src(), skv)
	newV.Co = ev.finalPos
	s.heights[newV.ID] = height
	// The other end of the spoke has zero length for now
	s.heights[spoke.Src().ID] = height

	s.addEvents(newV, height, math.Abs(newSkv.dhdl) <= dhdlEpsilon)

	if !out2 && !out3 {
		return
	}
	// Whisker: the neighboring wavefront edge may have shrunk to nothing too
	spokeRev := spoke.Neighbor()
	var e trimesh.Edge
	if out3 {
		e = trimesh.FindCWWavefront(spokeRev).Neighbor()
	} else {
		e = trimesh.FindCCWWavefront(spokeRev)
	}
	if e.IsNull() {
		return
	}
	skv2 := s.vertex(e)
	skv3 := s.vertex(e.Succ())
	throw.Assertf(skv2 != nil && skv3 != nil, "whisker edge %v has no kinetic state", e)
	if skv2.positionAt(height).Sub(skv3.positionAt(height)).LenSqr() < collisionEpsilon {
		s.pushAt(e, height, ev.finalPos, false)
	}
}

func (s *Skeleton) splitEvent(ev event) {
	height := ev.height
	edge := ev.edge
	if s.vertex(edge).stationary {
		s.sweepOver(ev)
		return
	}

	// A split whose position lands on a neighboring wavefront vertex is a
	// collision, which is finished off with a vertex event on that side.
	p2 := s.vertex(edge.Succ()).positionAt(height)
	p3 := s.vertex(edge.Pred()).positionAt(height)
	d1 := ev.finalPos.Sub(p2).LenSqr()
	d2 := ev.finalPos.Sub(p3).LenSqr()
	collide1, collide2 := false, false
	if d1 < collisionEpsilon || d2 < collisionEpsilon {
		if d1 < d2 {
			collide1 = true
		} else {
			collide2 = true
		}
	}

	e1 := edge.Neighbor()
	e2 := edge.Pred().Neighbor()
	throw.Assertf(e1.Tri.InRegion() && e2.Tri.InRegion(), "split of %v borders the outside", edge)
	throw.Assertf(e1.Succ().Src() == edge.Src() && e2.Src() == edge.Src(), "split of %v has a broken fan", edge)
	throw.Assertf(!s.findReflex(e1).IsNull(), "split of %v has no reflex vertex", edge)

	ske1 := s.vertex(e1)
	ske1n := s.vertex(e1.Succ())
	ske2 := s.vertex(e2)
	ske2n := s.vertex(e2.Succ())
	skv1 := newMovingVertex(ev.finalPos, height, ske1.deltaNext, ske1n.deltaNext,
		trimesh.Normalize(ske1.normal.Add(ske1n.normal)))
	skv2 := newMovingVertex(ev.finalPos, height, ske2.deltaPrev, ske2n.deltaPrev,
		trimesh.Normalize(ske2.normal.Add(ske2n.normal)))

	left, center, right := s.handleSplitEvent(edge)
	s.setVertex(left, skv1)
	s.setVertex(right, skv2)
	s.heights[center.ID] = height

	s.addEvents(left, height, math.Abs(skv1.dhdl) <= dhdlEpsilon)
	s.addEvents(right, height, math.Abs(skv2.dhdl) <= dhdlEpsilon)

	if collide2 {
		e := findAround(center, func(e trimesh.Edge) bool { return e.Succ().Src() == right })
		s.pushAt(e.Neighbor().Pred().Neighbor(), height, ev.finalPos, false)
	}
	if collide1 {
		e := findAround(center, func(e trimesh.Edge) bool { return e.Succ().Src() == left })
		s.pushAt(e.Succ().Neighbor(), height, ev.finalPos, false)
	}
}

// sweepOver handles the wavefront edge after ev's source reaching that
// interior vertex, which has not moved yet. The triangle between them leaves
// the region, so the vertex joins the wavefront between the edge's end points
// and moves along with the edge from then on.
func (s *Skeleton) sweepOver(ev event) {
	height := ev.height
	edge := ev.edge
	front := edge.Succ()
	v := edge.Src()
	throw.Assertf(front.IsWavefront(), "%v reaches v%d off the wavefront", front, v.ID)
	skvA := s.vertex(front)
	skvB := s.vertex(front.Succ())
	throw.Assertf(skvA != nil && skvB != nil && !skvA.stationary && !skvB.stationary,
		"wavefront edge %v reaching v%d is not moving", front, v.ID)

	normal := trimesh.Normalize(skvA.normal.Add(skvB.normal))
	skv := newMovingVertex(ev.finalPos, height, skvA.deltaNext, skvB.deltaPrev, normal)
	edge.Tri.ClearInRegion()
	s.setVertex(v, skv)
	s.heights[v.ID] = height
	s.addEvents(v, height, math.Abs(skv.dhdl) <= dhdlEpsilon)
}

// findReflex finds the edge holding the split from the reflex vertex, going
// counterclockwise from e1's successor to the first edge with neither side
// in region.
func (s *Skeleton) findReflex(e1 trimesh.Edge) trimesh.Edge {
	start := e1.Succ()
	e := start
	for {
		if !e.Tri.InRegion() && !e.Neighbor().Tri.InRegion() {
			return e.Neighbor()
		}
		e = e.RotCCW()
		if e == start {
			return trimesh.NullEdge
		}
	}
}

// findAround returns the first edge counterclockwise around v, starting at
// its representative edge, that satisfies pred.
func findAround(v *trimesh.Vert, pred func(trimesh.Edge) bool) trimesh.Edge {
	e := v.E
	for {
		if pred(e) {
			return e
		}
		e = e.RotCCW()
		if e == v.E {
			break
		}
	}
	throw.Fatal(errors.Wrapf(throw.ErrTopology, "no matching edge around v%d", v.ID))
	return trimesh.NullEdge
}

// finalize extrapolates every vertex still moving when the sweep stopped
// out to the target height.
func (s *Skeleton) finalize() {
	seen := map[*trimesh.Triangle]bool{}
	for !s.queue.empty() {
		ev := s.queue.pop()
		if !ev.valid() {
			continue
		}
		s.finalizeTriangle(ev.edge.Tri, seen)
	}
	// Triangles whose latest event was a sentinel never made it back into
	// the queue, but their corners still need to reach the target.
	for _, tri := range s.mesh.Triangles() {
		if tri.InRegion() && !tri.IsDeleted() {
			s.finalizeTriangle(tri, seen)
		}
	}
}

func (s *Skeleton) finalizeTriangle(tri *trimesh.Triangle, seen map[*trimesh.Triangle]bool) {
	if seen[tri] {
		return
	}
	seen[tri] = true
	s.remaining = append(s.remaining, tri)
	for i := 0; i < 3; i++ {
		v := tri.Vert(i)
		skv, ok := s.vertices[v.ID]
		if !ok {
			continue
		}
		if skv.dhdl != 0 {
			v.Co = v.Co.Add(skv.velo.Mul((s.targetHeight - skv.height) / skv.dhdl))
		}
		s.heights[v.ID] = s.targetHeight
		// Each vertex is only moved once
		delete(s.vertices, v.ID)
	}
}
