package advanced

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/polyfill"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// faceTriangle is one triangle of a triangulated face, as indices into the
// input vertices. orig marks the sides that are edges of the face.
type faceTriangle struct {
	verts [3]int
	orig  [3]bool
}

// link pairs side pos0 of triangle t0 with side pos1 of triangle t1, both
// within the same face.
type link struct {
	t0, pos0, t1, pos1 int
}

type faceTriangulation struct {
	face      int
	triangles []faceTriangle
	links     []link
}

// buildMesh converts the input faces into a triangle mesh with neighbors
// connected and ghost triangles around every boundary. Faces are triangulated
// concurrently since each only reads its own vertices; the mesh itself is
// assembled serially in face order so that ids are deterministic.
func buildMesh(input *Input, workers int) *trimesh.TriangleMesh {
	m := trimesh.NewTriangleMesh()
	for _, co := range input.Verts {
		m.AddVert(co)
	}

	triangulations := make([]*faceTriangulation, len(input.Faces))
	for i := range triangulations {
		triangulations[i] = &faceTriangulation{face: i}
	}
	task(workers, triangulations, func(ft *faceTriangulation) {
		ft.triangulate(input.Verts, input.Faces[ft.face])
	})

	for _, ft := range triangulations {
		tris := make([]*trimesh.Triangle, len(ft.triangles))
		for i, ftri := range ft.triangles {
			tri := m.AddTriangle(m.Vert(ftri.verts[0]), m.Vert(ftri.verts[1]), m.Vert(ftri.verts[2]))
			tri.SetOrigFace(ft.face)
			tris[i] = tri
		}
		for _, l := range ft.links {
			trimesh.SetMutualNeighbors(tris[l.t0], l.pos0, tris[l.t1].Edge(l.pos1))
		}
		// Marked after linking so that both sides of shared edges agree
		for i, ftri := range ft.triangles {
			for pos, orig := range ftri.orig {
				if orig {
					tris[i].MarkOrig(pos)
				}
			}
		}
	}

	m.ConnectNeighbors()
	m.AddGhostTriangles()
	return m
}

func (ft *faceTriangulation) triangulate(verts []mgl64.Vec3, face []int) {
	switch len(face) {
	case 3:
		ft.triangles = []faceTriangle{{
			verts: [3]int{face[0], face[1], face[2]},
			orig:  [3]bool{true, true, true},
		}}
	case 4:
		ft.triangulateQuad(verts, face)
	default:
		ft.triangulatePolygon(verts, face)
	}
}

// Quads are split along the shorter diagonal, unless that would fold the
// quad over itself.
func (ft *faceTriangulation) triangulateQuad(verts []mgl64.Vec3, face []int) {
	v0, v1, v2, v3 := face[0], face[1], face[2], face[3]
	c0, c1, c2, c3 := verts[v0], verts[v1], verts[v2], verts[v3]
	normal := trimesh.PolyNormal([]mgl64.Vec3{c0, c1, c2, c3})
	d02 := c2.Sub(c0).LenSqr()
	d13 := c3.Sub(c1).LenSqr()
	if d13 < d02 || isQuadFlipFirstThird(c0, c1, c2, c3, normal) {
		ft.triangles = []faceTriangle{
			{verts: [3]int{v0, v1, v3}, orig: [3]bool{true, false, true}},
			{verts: [3]int{v1, v2, v3}, orig: [3]bool{true, true, false}},
		}
		ft.links = []link{{0, 1, 1, 2}}
		return
	}
	ft.triangles = []faceTriangle{
		{verts: [3]int{v0, v1, v2}, orig: [3]bool{true, true, false}},
		{verts: [3]int{v0, v2, v3}, orig: [3]bool{false, true, true}},
	}
	ft.links = []link{{0, 2, 1, 0}}
}

// isQuadFlipFirstThird reports whether splitting the quad along the 0-2
// diagonal would leave a triangle facing the wrong way.
func isQuadFlipFirstThird(v0, v1, v2, v3, normal mgl64.Vec3) bool {
	tangent := v2.Sub(v0).Cross(normal)
	dot := v0.Dot(tangent)
	return v3.Dot(tangent) >= dot || v1.Dot(tangent) <= dot
}

// Larger faces are projected onto their plane and filled there.
func (ft *faceTriangulation) triangulatePolygon(verts []mgl64.Vec3, face []int) {
	n := len(face)
	cos := make([]mgl64.Vec3, n)
	for i, v := range face {
		cos[i] = verts[v]
	}
	u, w := trimesh.PlaneBasis(trimesh.PolyNormal(cos))
	points := make([]polyfill.Point, n)
	for i, co := range cos {
		points[i] = polyfill.Point{X: co.Dot(u), Y: co.Dot(w)}
	}
	tris := polyfill.Beautify(points, polyfill.Fill(points))

	ft.triangles = make([]faceTriangle, len(tris))
	for i, tri := range tris {
		ftri := faceTriangle{}
		for k := 0; k < 3; k++ {
			ftri.verts[k] = face[tri[k]]
			a, b := tri[k], tri[(k+1)%3]
			// Sides between consecutive corners of the face, in either direction
			ftri.orig[k] = (a+1)%n == b || (b+1)%n == a
		}
		ft.triangles[i] = ftri
	}
}
