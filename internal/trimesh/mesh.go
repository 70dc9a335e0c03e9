package trimesh

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/pkg/errors"
)

// TriangleMesh owns every vertex and triangle ever created for one inset
// computation. Ids are indices into these slices and never change.
type TriangleMesh struct {
	triangles []*Triangle
	verts     []*Vert
}

func NewTriangleMesh() *TriangleMesh {
	return &TriangleMesh{}
}

func (m *TriangleMesh) AddVert(co mgl64.Vec3) *Vert {
	v := &Vert{Co: co, ID: len(m.verts)}
	m.verts = append(m.verts, v)
	return v
}

func (m *TriangleMesh) Vert(id int) *Vert {
	return m.verts[id]
}

// AddTriangle makes a new triangle. Any of the three vertices which has no
// representative edge yet gets one in the new triangle.
func (m *TriangleMesh) AddTriangle(v0, v1, v2 *Vert) *Triangle {
	tri := newTriangle(v0, v1, v2)
	tri.id = len(m.triangles)
	m.triangles = append(m.triangles, tri)
	return tri
}

// Verts includes deleted vertices.
func (m *TriangleMesh) Verts() []*Vert {
	return m.verts
}

// Triangles includes ghost and deleted triangles.
func (m *TriangleMesh) Triangles() []*Triangle {
	return m.triangles
}

func (m *TriangleMesh) CalculateAllTriNormals() {
	for _, tri := range m.triangles {
		if !tri.IsGhost() && !tri.IsDeleted() {
			tri.CalculateNormal()
		}
	}
}

// SplitVert splits v in two. The triangles from e1 counterclockwise up to (but
// not including) e2 get a new vertex at v's position in place of v, and two
// new triangles fill the gaps on the e1 and e2 sides, leaving a zero length
// edge between v and the new vertex. Spoke flags on e1 and e2 move onto the
// new triangles' edges facing the fan. Returns the new vertex.
func (m *TriangleMesh) SplitVert(v *Vert, e1, e2 Edge) *Vert {
	throw.Assertf(e1.Src() == v && e2.Src() == v, "split of v%d with foreign edges %v %v", v.ID, e1, e2)
	var fan []Edge
	ecur := e1
	for {
		fan = append(fan, ecur)
		ecur = ecur.RotCCW()
		if ecur == e1 {
			break
		}
	}
	e1IsSpoke := e1.IsSpoke()
	e2IsSpoke := e2.IsSpoke()

	vNew := m.AddVert(v.Co)
	// Reassigned through the new triangles below.
	v.E = NullEdge
	var triNewFirst *Triangle
	for _, ecur := range fan {
		if ecur == e2 {
			break
		}
		tri := ecur.Tri
		pos := ecur.Pos
		throw.Assertf(tri.Vert(pos) == v, "fan edge %v does not leave v%d", ecur, v.ID)
		tri.SetVert(pos, vNew)
		if ecur == e1 {
			prevTriEdge := tri.Neighbor(pos)
			triNewFirst = m.AddTriangle(v, e1.Dst(), vNew)
			triNewFirst.origFace = tri.origFace
			SetMutualNeighbors(triNewFirst, 0, prevTriEdge)
			SetMutualNeighbors(triNewFirst, 1, Edge{tri, pos})
			// Position 2 is paired when the last triangle is made.
			if e1IsSpoke {
				triNewFirst.ClearSpoke(0)
				triNewFirst.MarkSpoke(1)
			}
		}
		ecurPred := ecur.Pred()
		if ecurPred.Neighbor() == e2 {
			predPos := predIndex(pos)
			nextTriEdge := tri.Neighbor(predPos)
			triNewLast := m.AddTriangle(v, vNew, ecurPred.Src())
			triNewLast.origFace = tri.origFace
			throw.Assertf(triNewFirst != nil, "split of v%d closed before it opened", v.ID)
			SetMutualNeighbors(triNewLast, 0, Edge{triNewFirst, 2})
			SetMutualNeighbors(triNewLast, 1, Edge{tri, predPos})
			SetMutualNeighbors(triNewLast, 2, nextTriEdge)
			if e2IsSpoke {
				triNewLast.MarkSpoke(1)
				triNewLast.ClearSpoke(2)
			}
		}
	}
	return vNew
}

// Find and set a representative edge of v that is not part of tri.
func setRepExcluding(v *Vert, tri *Triangle) {
	e0 := v.E
	ecur := e0
	for {
		// Triangles around v may already be deleted when v itself is on its way out.
		if ecur.Tri != tri && !ecur.Tri.IsDeleted() {
			v.E = ecur
			return
		}
		ecur = ecur.RotCCW()
		if ecur == e0 {
			break
		}
	}
	throw.Fatal(errors.Wrapf(throw.ErrTopology, "no representative edge for v%d outside t%d", v.ID, tri.id))
}

// DeleteDegenerateTriangle deletes tri, which must have a repeated vertex.
// Its two remaining sides are merged by pairing their neighbors with each
// other, and vertices whose representative edge was in tri get a new one.
// Returns one of the edges of the merged pair.
func (m *TriangleMesh) DeleteDegenerateTriangle(tri *Triangle) Edge {
	goodEdges := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		if tri.Vert(i) != tri.Vert(succIndex(i)) {
			goodEdges = append(goodEdges, i)
		}
	}
	throw.Assertf(len(goodEdges) == 2, "t%d is not degenerate in one edge", tri.id)
	p0, p1 := goodEdges[0], goodEdges[1]
	en0 := tri.Neighbor(p0)
	en1 := tri.Neighbor(p1)
	if tri.IsSpoke(p0) || tri.IsSpoke(p1) {
		en0.MarkSpoke()
		en1.MarkSpoke()
	}
	throw.Assertf(en0.Tri != en1.Tri, "t%d folds onto t%d", tri.id, en0.Tri.id)
	SetMutualNeighbors(en0.Tri, en0.Pos, en1)
	v0 := tri.Vert(p0)
	v1 := tri.Vert(p1)
	if v0.E.Tri == tri {
		setRepExcluding(v0, tri)
	}
	if v1.E.Tri == tri {
		setRepExcluding(v1, tri)
	}
	tri.MarkDeleted()
	return en0
}

// CollapseEdge merges the destination of e into its source. The triangles on
// both sides of e become degenerate and are deleted, and the destination
// vertex is deleted. Returns the edge that the other two sides of e's
// triangle collapsed into, oriented away from the surviving vertex.
func (m *TriangleMesh) CollapseEdge(e Edge) Edge {
	tA := e.Tri
	v0 := e.Src()
	v1 := e.Dst()
	var v1Tris []*Triangle
	ecur := v1.E
	for {
		t := ecur.Tri
		throw.Assertf(!t.IsGhost() && !t.IsDeleted(), "collapse of %v reaches t%d", e, t.id)
		v1Tris = append(v1Tris, t)
		ecur = ecur.RotCCW()
		if ecur == v1.E {
			break
		}
	}
	eAns := NullEdge
	for _, t := range v1Tris {
		v0Count := 0
		for i := 0; i < 3; i++ {
			switch t.Vert(i) {
			case v1:
				t.SetVert(i, v0)
				v0Count++
			case v0:
				v0Count++
			}
		}
		if v0Count > 1 {
			enew := m.DeleteDegenerateTriangle(t)
			if t == tA {
				eAns = enew
			}
		}
	}
	v1.MarkDeleted()
	throw.Assertf(!eAns.IsNull(), "collapse of %v lost its triangle", e)
	if eAns.Src() != v0 {
		eAns = eAns.Neighbor()
		throw.Assertf(eAns.Src() == v0, "collapse of %v produced a misoriented edge", e)
	}
	return eAns
}

// CollapseTriangle collapses tri to the single vertex at pos, deleting tri,
// its neighbors and two vertices. Returns the surviving vertex.
func (m *TriangleMesh) CollapseTriangle(tri *Triangle, pos int) *Vert {
	throw.Assertf(!tri.IsGhost(), "cannot collapse ghost t%d", tri.id)
	e := Edge{tri, pos}
	v := e.Src()
	ePrime := m.CollapseEdge(e)
	m.CollapseEdge(ePrime)
	return v
}

// maxRotation bounds vertex rotations during validation.
const maxRotation = 1000000

// Validate checks the mesh invariants and reports the first violation.
func (m *TriangleMesh) Validate() error {
	for _, v := range m.verts {
		if v.IsDeleted() {
			continue
		}
		e := v.E
		if e.IsNull() {
			return errors.Wrapf(throw.ErrTopology, "v%d has no representative edge", v.ID)
		}
		if e.Tri.IsDeleted() {
			return errors.Wrapf(throw.ErrTopology, "v%d represented by deleted t%d", v.ID, e.Tri.id)
		}
		if e.Src() != v {
			return errors.Wrapf(throw.ErrTopology, "v%d represented by %v which leaves another vertex", v.ID, e)
		}
		count := 0
		eloop := e
		for {
			eloop = eloop.RotCCW()
			if eloop.IsNull() {
				return errors.Wrapf(throw.ErrTopology, "rotation around v%d hits a null edge", v.ID)
			}
			if eloop.Tri.IsDeleted() {
				return errors.Wrapf(throw.ErrTopology, "rotation around v%d reaches deleted t%d", v.ID, eloop.Tri.id)
			}
			count++
			if count >= maxRotation {
				return errors.Wrapf(throw.ErrTopology, "rotation around v%d does not close", v.ID)
			}
			if eloop == e {
				break
			}
		}
	}
	for _, t := range m.triangles {
		if t.IsDeleted() {
			continue
		}
		if t.IsGhost() {
			if t.vert[0] == nil || t.vert[0].IsDeleted() || t.vert[2] == nil || t.vert[2].IsDeleted() {
				return errors.Wrapf(throw.ErrTopology, "ghost t%d has a missing end", t.id)
			}
			continue
		}
		for i := 0; i < 3; i++ {
			en := t.neighbor[i]
			if en.IsNull() {
				return errors.Wrapf(throw.ErrTopology, "t%d edge %d has no neighbor", t.id, i)
			}
			if en.Tri.neighbor[en.Pos] != (Edge{t, i}) {
				return errors.Wrapf(throw.ErrTopology, "t%d edge %d neighbor is not mutual", t.id, i)
			}
			if en.Tri.IsDeleted() {
				return errors.Wrapf(throw.ErrTopology, "t%d edge %d neighbors deleted t%d", t.id, i, en.Tri.id)
			}
		}
	}
	return nil
}
