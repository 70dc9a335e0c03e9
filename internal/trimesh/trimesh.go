// Package trimesh is the half-edge triangle mesh the inset engine operates on.
//
// Every triangle stores its three vertices CCW and, for each of its edges, the
// paired edge in the adjacent triangle. Boundary edges of the input are paired
// with "ghost" triangles, which have a nil middle vertex, so rotation around a
// vertex never falls off the mesh. Triangles and vertices are never freed while
// the mesh is live; they are only marked deleted.
package trimesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/throw"
)

// The predecessor index to i in a triangle.
func predIndex(i int) int {
	return (i + 2) % 3
}

// The successor index to i in a triangle.
func succIndex(i int) int {
	return (i + 1) % 3
}

// Edge is the Pos'th edge of Tri, running from Tri's vertex Pos to its vertex
// Pos+1. It is not shared with the adjacent triangle. The zero Edge is the
// null edge.
type Edge struct {
	Tri *Triangle
	Pos int
}

var NullEdge = Edge{}

func (e Edge) IsNull() bool {
	return e.Tri == nil
}

// The edge after this one in its triangle.
func (e Edge) Succ() Edge {
	if e.Tri == nil {
		return NullEdge
	}
	return Edge{e.Tri, succIndex(e.Pos)}
}

// The edge before this one in its triangle.
func (e Edge) Pred() Edge {
	if e.Tri == nil {
		return NullEdge
	}
	return Edge{e.Tri, predIndex(e.Pos)}
}

// The edge paired with e in the neighbor triangle.
func (e Edge) Neighbor() Edge {
	if e.Tri == nil {
		return NullEdge
	}
	return e.Tri.neighbor[e.Pos]
}

func (e Edge) Src() *Vert {
	return e.Tri.vert[e.Pos]
}

func (e Edge) Dst() *Vert {
	return e.Tri.vert[succIndex(e.Pos)]
}

// RotCCW is the edge after e going counterclockwise around e's source. The
// source must not be the missing vertex of a ghost triangle.
func (e Edge) RotCCW() Edge {
	return e.Pred().Neighbor()
}

// RotCW is the edge after e going clockwise around e's source.
func (e Edge) RotCW() Edge {
	return e.Neighbor().Succ()
}

func (e Edge) IsSpoke() bool {
	return e.Tri.IsSpoke(e.Pos)
}

func (e Edge) MarkSpoke() {
	e.Tri.MarkSpoke(e.Pos)
}

func (e Edge) IsOrig() bool {
	return e.Tri.IsOrig(e.Pos)
}

func (e Edge) String() string {
	if e.IsNull() {
		return "enull"
	}
	return fmt.Sprintf("e(t%d,%d)", e.Tri.id, e.Pos)
}

// EdgeBetween returns the edge from v1 to v2, or NullEdge if there is none.
func EdgeBetween(v1, v2 *Vert) Edge {
	e := v1.E
	if e.IsNull() {
		return NullEdge
	}
	for e.Dst() != v2 {
		e = e.RotCCW()
		if e == v1.E {
			return NullEdge
		}
	}
	return e
}

type Vert struct {
	Co mgl64.Vec3
	// Any edge leaving this vertex.
	E       Edge
	ID      int
	deleted bool
}

func (v *Vert) MarkDeleted() {
	v.deleted = true
}

func (v *Vert) IsDeleted() bool {
	return v.deleted
}

func (v *Vert) String() string {
	if v == nil {
		return "vnull"
	}
	return fmt.Sprintf("v%d co(%g,%g,%g) %v", v.ID, v.Co[0], v.Co[1], v.Co[2], v.E)
}

type triangleFlags uint16

const (
	// The triangle is no longer part of its mesh.
	tDeleted triangleFlags = 1 << iota
	// The normal is up to date with the current coordinates.
	tNormalValid
	// The triangle is part of the region still being inset.
	tRegion
	// tSpoke0 << i means the ith edge is a spoke of the straight skeleton.
	tSpoke0
	tSpoke1
	tSpoke2
	// tOrig0 << i means the ith edge was an edge of the input mesh rather than
	// a triangulation edge.
	tOrig0
	tOrig1
	tOrig2
)

type Triangle struct {
	vert     [3]*Vert
	neighbor [3]Edge
	normal   mgl64.Vec3
	id       int
	origFace int
	flags    triangleFlags
}

func newTriangle(v0, v1, v2 *Vert) *Triangle {
	tri := &Triangle{vert: [3]*Vert{v0, v1, v2}, origFace: -1}
	for i, v := range tri.vert {
		if v != nil && v.E.IsNull() {
			v.E = Edge{tri, i}
		}
	}
	return tri
}

func (t *Triangle) Vert(i int) *Vert {
	return t.vert[i]
}

func (t *Triangle) SetVert(i int, v *Vert) {
	t.vert[i] = v
	t.flags &^= tNormalValid
}

func (t *Triangle) Neighbor(i int) Edge {
	return t.neighbor[i]
}

func (t *Triangle) Edge(i int) Edge {
	return Edge{t, i}
}

func (t *Triangle) ID() int {
	return t.id
}

// OrigFace is the index of the input face this triangle was cut out of, or -1.
func (t *Triangle) OrigFace() int {
	return t.origFace
}

func (t *Triangle) SetOrigFace(face int) {
	t.origFace = face
}

// A ghost triangle has a nil middle vertex.
func (t *Triangle) IsGhost() bool {
	return t.vert[1] == nil
}

// Normal returns the normal computed by the last CalculateNormal.
func (t *Triangle) Normal() mgl64.Vec3 {
	throw.Assertf(t.flags&tNormalValid != 0, "normal of t%d is stale", t.id)
	return t.normal
}

func (t *Triangle) CalculateNormal() {
	throw.Assertf(!t.IsGhost() && !t.IsDeleted(), "cannot take the normal of t%d", t.id)
	t.normal = triangleNormal(t)
	t.flags |= tNormalValid
}

// Like Normal, but usable when no normal has been calculated. Ghost and
// deleted triangles get the zero vector.
func triangleNormal(t *Triangle) mgl64.Vec3 {
	if t.IsGhost() || t.IsDeleted() {
		return mgl64.Vec3{}
	}
	v0v1 := t.vert[1].Co.Sub(t.vert[0].Co)
	v0v2 := t.vert[2].Co.Sub(t.vert[0].Co)
	return Normalize(v0v1.Cross(v0v2))
}

func (t *Triangle) MarkDeleted() {
	t.flags |= tDeleted
}

func (t *Triangle) IsDeleted() bool {
	return t.flags&tDeleted != 0
}

func (t *Triangle) MarkInRegion() {
	t.flags |= tRegion
}

func (t *Triangle) ClearInRegion() {
	t.flags &^= tRegion
}

func (t *Triangle) InRegion() bool {
	return t.flags&tRegion != 0
}

// MarkSpoke marks the pos'th edge as a spoke. The paired edge of the neighbor
// is always marked too.
func (t *Triangle) MarkSpoke(pos int) {
	t.flags |= tSpoke0 << pos
	if en := t.neighbor[pos]; !en.IsNull() {
		en.Tri.flags |= tSpoke0 << en.Pos
	}
}

func (t *Triangle) ClearSpoke(pos int) {
	t.flags &^= tSpoke0 << pos
	if en := t.neighbor[pos]; !en.IsNull() {
		en.Tri.flags &^= tSpoke0 << en.Pos
	}
}

func (t *Triangle) IsSpoke(pos int) bool {
	return t.flags&(tSpoke0<<pos) != 0
}

// MarkOrig marks the pos'th edge as an input mesh edge, along with its
// neighbor if it has one yet.
func (t *Triangle) MarkOrig(pos int) {
	t.flags |= tOrig0 << pos
	if en := t.neighbor[pos]; !en.IsNull() {
		en.Tri.flags |= tOrig0 << en.Pos
	}
}

func (t *Triangle) IsOrig(pos int) bool {
	return t.flags&(tOrig0<<pos) != 0
}

// SetMutualNeighbors pairs the pos1'th edge of t1 with e2.
func SetMutualNeighbors(t1 *Triangle, pos1 int, e2 Edge) {
	throw.Assertf(t1 != nil && !e2.IsNull(), "pairing with a null edge")
	t1.neighbor[pos1] = e2
	e2.Tri.neighbor[e2.Pos] = Edge{t1, pos1}
}
