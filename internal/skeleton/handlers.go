package skeleton

import (
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// handleVertexEvent retires the destination of the wavefront edge by
// collapsing the edge, then splits the surviving vertex so that the part
// between the neighboring wavefront edges moves on. Returns the new spoke,
// which ends at the surviving vertex.
func (s *Skeleton) handleVertexEvent(edge trimesh.Edge) trimesh.Edge {
	throw.Assertf(edge.IsWavefront(), "vertex event on inner edge %v", edge)
	v := edge.Src()
	ep := trimesh.FindCCWWavefront(edge)
	en := trimesh.FindCCWWavefront(edge.Neighbor())
	throw.Assertf(!ep.IsNull() && !en.IsNull(), "vertex event on %v has no neighbor wavefront", edge)
	enNeighbor := en.Neighbor()
	s.mesh.CollapseEdge(edge)
	// en may have been a side of the collapsed triangle
	en = enNeighbor.Neighbor()
	vNew := s.mesh.SplitVert(v, ep.RotCCW(), en.RotCW())
	spoke := trimesh.EdgeBetween(vNew, v)
	throw.Assertf(!spoke.IsNull(), "vertex event on %v made no spoke", edge)
	spoke.MarkSpoke()
	return spoke
}

// handleSplitEvent splits the reflex source vertex of edge twice, making a
// line new0--v--new1 across the region, and replaces edge's triangle and
// the one across its opposite side with two triangles fanning from v.
// Returns the left, center and right vertices.
func (s *Skeleton) handleSplitEvent(edge trimesh.Edge) (*trimesh.Vert, *trimesh.Vert, *trimesh.Vert) {
	vert := edge.Src()
	e1 := edge
	e2 := e1.Succ()
	e3 := e2.Succ()
	ew1 := trimesh.FindCWWavefront(e1)
	ew3 := trimesh.FindCCWWavefront(e1)
	throw.Assertf(!ew1.IsNull() && !ew3.IsNull(), "split of %v has no wavefront around v%d", edge, vert.ID)

	newV0 := s.mesh.SplitVert(vert, ew1, e1)
	newV1 := s.mesh.SplitVert(vert, e3.Neighbor(), ew3)
	evv0 := trimesh.EdgeBetween(vert, newV0)
	evv1 := trimesh.EdgeBetween(vert, newV1)
	throw.Assertf(!evv0.IsNull() && !evv1.IsNull(), "split of v%d made no spokes", vert.ID)
	evv0.MarkSpoke()
	evv1.MarkSpoke()

	// The triangle across the side that was hit
	en1 := e2.Neighbor()
	en2 := en1.Succ()
	en3 := en2.Succ()
	va := en2.Src()
	vb := en3.Src()
	vc := en1.Src()
	ta := edge.Tri
	th := en1.Tri
	tnew0 := s.mesh.AddTriangle(vert, va, vb)
	tnew1 := s.mesh.AddTriangle(vert, vb, vc)
	// These cover what th covered, outside the region
	tnew0.SetOrigFace(th.OrigFace())
	tnew1.SetOrigFace(th.OrigFace())
	nbEn2 := en2.Neighbor()
	nbEn3 := en3.Neighbor()
	trimesh.SetMutualNeighbors(tnew0, 0, e1.Neighbor())
	trimesh.SetMutualNeighbors(tnew0, 1, nbEn2)
	trimesh.SetMutualNeighbors(tnew0, 2, tnew1.Edge(0))
	trimesh.SetMutualNeighbors(tnew1, 1, nbEn3)
	trimesh.SetMutualNeighbors(tnew1, 2, e3.Neighbor())
	if nbEn2.IsSpoke() {
		tnew0.MarkSpoke(1)
	}
	if nbEn3.IsSpoke() {
		tnew1.MarkSpoke(1)
	}
	copyOrig(e1, tnew0.Edge(0))
	copyOrig(en2, tnew0.Edge(1))
	copyOrig(en3, tnew1.Edge(1))
	copyOrig(e3, tnew1.Edge(2))

	// Vertices represented by an edge of ta or th need a new one
	if vert.E.Tri == ta {
		vert.E = tnew0.Edge(0)
	}
	if va.E.Tri == ta || va.E.Tri == th {
		va.E = tnew0.Edge(1)
	}
	if vb.E.Tri == th {
		vb.E = tnew1.Edge(1)
	}
	if vc.E.Tri == ta || vc.E.Tri == th {
		vc.E = tnew1.Edge(2)
	}
	ta.MarkDeleted()
	th.MarkDeleted()
	return newV0, vert, newV1
}

// handleFlipEvent replaces the diagonal edge of the quad made by edge's
// triangle and its neighbor with the other diagonal. Returns both halves of
// the new diagonal.
func (s *Skeleton) handleFlipEvent(edge trimesh.Edge) (trimesh.Edge, trimesh.Edge) {
	edgeRev := edge.Neighbor()
	v1 := edge.Src()
	v2 := edgeRev.Pred().Src()
	v3 := edge.Dst()
	v4 := edge.Pred().Src()
	e1 := edge.Pred().Neighbor()
	e2 := edge.Succ().Neighbor()
	e3 := edgeRev.Succ().Neighbor()
	e4 := edgeRev.Pred().Neighbor()
	t0 := edge.Tri
	t1 := edgeRev.Tri
	throw.Assertf(t0.InRegion() && t1.InRegion(), "flip of %v leaves the region", edge)

	// Remember flags of the four outer sides before their owners go away
	spoke := [4]bool{e1.IsSpoke(), e2.IsSpoke(), e3.IsSpoke(), e4.IsSpoke()}
	orig := [4]bool{
		edge.Pred().IsOrig(), edge.Succ().IsOrig(), edgeRev.Succ().IsOrig(), edgeRev.Pred().IsOrig(),
	}

	t0.MarkDeleted()
	t1.MarkDeleted()
	// Reassigned by the new triangles
	v1.E = trimesh.NullEdge
	v3.E = trimesh.NullEdge
	t3 := s.mesh.AddTriangle(v1, v2, v4)
	t4 := s.mesh.AddTriangle(v2, v3, v4)
	t3.SetOrigFace(t0.OrigFace())
	t4.SetOrigFace(t0.OrigFace())
	trimesh.SetMutualNeighbors(t3, 0, e3)
	trimesh.SetMutualNeighbors(t3, 1, t4.Edge(2))
	trimesh.SetMutualNeighbors(t3, 2, e1)
	trimesh.SetMutualNeighbors(t4, 0, e4)
	trimesh.SetMutualNeighbors(t4, 1, e2)
	t3.MarkInRegion()
	t4.MarkInRegion()

	sides := [4]trimesh.Edge{t3.Edge(2), t4.Edge(1), t3.Edge(0), t4.Edge(0)}
	for i, side := range sides {
		if spoke[i] {
			side.MarkSpoke()
		}
		if orig[i] {
			side.Tri.MarkOrig(side.Pos)
		}
	}
	// v2 and v4 may still be represented by the deleted pair
	if v2.E.Tri == t0 || v2.E.Tri == t1 {
		v2.E = t3.Edge(1)
	}
	if v4.E.Tri == t0 || v4.E.Tri == t1 {
		v4.E = t4.Edge(2)
	}
	return t3.Edge(1), t4.Edge(2)
}

// handleClosingEvent collapses edge's triangle onto edge's source.
func (s *Skeleton) handleClosingEvent(edge trimesh.Edge) {
	s.mesh.CollapseTriangle(edge.Tri, edge.Pos)
}

func copyOrig(from, to trimesh.Edge) {
	if from.IsOrig() {
		to.Tri.MarkOrig(to.Pos)
	}
}
