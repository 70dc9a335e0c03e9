package advanced

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/osuushi/meshinset/internal/trimesh"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type extractor struct {
	mesh   *trimesh.TriangleMesh
	input  *Input
	logger *zap.Logger

	faces     [][]int
	origFaces []int
	// Wavefront edges met while tracing rim faces, facing the inset region,
	// with the contour each came from.
	wavefront     []trimesh.Edge
	wavefrontFrom map[trimesh.Edge]int
}

// extract reads the output faces off the swept mesh. Each input contour edge
// bounds one rim face, traced through the spokes to the wavefront. Whatever
// the wavefront still encloses is split into faces along the original edges.
func extract(m *trimesh.TriangleMesh, input *Input, logger *zap.Logger) *Result {
	x := &extractor{
		mesh:          m,
		input:         input,
		logger:        logger,
		wavefrontFrom: map[trimesh.Edge]int{},
	}

	for ci, contour := range input.Contours {
		n := len(contour)
		for i := range contour {
			v0 := m.Vert(contour[i])
			v1 := m.Vert(contour[(i+1)%n])
			eContour := trimesh.EdgeBetween(v0, v1)
			throw.Assertf(!eContour.IsNull(), "contour %d lost its edge v%d-v%d", ci, v0.ID, v1.ID)
			x.faces = append(x.faces, x.rimFace(eContour, ci))
			x.origFaces = append(x.origFaces, eContour.Tri.OrigFace())
		}
	}

	var contours [][]int
	var contourOrig []int
	if len(x.wavefront) > 0 {
		for _, cycle := range findCyclePartition(x.wavefront) {
			contours = append(contours, lo.Map(cycle, func(e trimesh.Edge, _ int) int {
				return e.Src().ID
			}))
			contourOrig = append(contourOrig, x.wavefrontFrom[cycle[0]])
			x.appendInteriorFaces(cycle)
		}
	}

	result := &Result{}
	index := make([]int, len(m.Verts()))
	var origVert []int
	for i, v := range m.Verts() {
		index[i] = len(result.Verts)
		if v.IsDeleted() {
			continue
		}
		result.Verts = append(result.Verts, v.Co)
		if i < len(input.Verts) {
			origVert = append(origVert, i)
		} else {
			origVert = append(origVert, -1)
		}
	}
	remap := func(ids []int, _ int) []int {
		return lo.Map(ids, func(id int, _ int) int { return index[id] })
	}
	result.Faces = lo.Map(x.faces, remap)
	result.Contours = lo.Map(contours, remap)
	result.ContourOrig = contourOrig
	if input.NeedIDs {
		result.OrigVert = origVert
		result.OrigFace = x.origFaces
	}
	if result.Verts == nil {
		result.Verts = []mgl64.Vec3{}
	}

	if ce := logger.Check(zap.DebugLevel, "extracted result"); ce != nil {
		ce.Write(zap.Int("verts", len(result.Verts)), zap.Int("faces", len(result.Faces)),
			zap.Int("contours", len(result.Contours)))
	}
	return result
}

// rimFace walks clockwise through spokes and wavefront edges from the far end
// of eContour until it comes back to eContour's source.
func (x *extractor) rimFace(eContour trimesh.Edge, contourIndex int) []int {
	face := []int{eContour.Src().ID, eContour.Dst().ID}
	e := trimesh.FindCWSpokeOrWavefront(eContour.Neighbor())
	throw.Assertf(!e.IsNull(), "no spoke leaves v%d", eContour.Dst().ID)
	limit := 3 * len(x.mesh.Verts())
	for count := 0; ; count++ {
		if count > limit {
			throw.Fatal(errors.Wrapf(throw.ErrWalkNotClosed,
				"rim face of %v after %d steps: %v", eContour, count, face))
		}
		face = append(face, e.Dst().ID)
		e = trimesh.FindCWSpokeOrWavefront(e.Neighbor())
		throw.Assertf(!e.IsNull(), "rim face of %v stopped at a dead end: %v", eContour, face)
		if e.IsWavefront() {
			inner := e.Neighbor()
			if _, seen := x.wavefrontFrom[inner]; !seen {
				x.wavefront = append(x.wavefront, inner)
				x.wavefrontFrom[inner] = contourIndex
			}
		}
		if e.Dst() == eContour.Src() {
			return face
		}
	}
}

// findCyclePartition splits edges, which must form vertex disjoint cycles,
// into those cycles.
func findCyclePartition(edges []trimesh.Edge) [][]trimesh.Edge {
	bySrc := make(map[int]int, len(edges))
	for i, e := range edges {
		if _, ok := bySrc[e.Src().ID]; ok {
			throw.Fatalf("wavefront cycles share v%d", e.Src().ID)
		}
		bySrc[e.Src().ID] = i
	}
	used := make([]bool, len(edges))
	var cycles [][]trimesh.Edge
	for seed := range edges {
		if used[seed] {
			continue
		}
		used[seed] = true
		cycle := []trimesh.Edge{edges[seed]}
		start := edges[seed].Src()
		tail := edges[seed]
		for tail.Dst() != start {
			next, ok := bySrc[tail.Dst().ID]
			if !ok || used[next] {
				throw.Fatal(errors.Wrapf(throw.ErrWalkNotClosed, "wavefront cycle from v%d breaks at v%d",
					start.ID, tail.Dst().ID))
			}
			used[next] = true
			tail = edges[next]
			cycle = append(cycle, tail)
		}
		cycles = append(cycles, cycle)
	}
	return cycles
}

// appendInteriorFaces splits the inside of a wavefront cycle into faces. Each
// face is traced clockwise through original and wavefront edges, so only the
// edges added by triangulation disappear. Non-wavefront sides lead to the
// faces beyond them.
func (x *extractor) appendInteriorFaces(cycle []trimesh.Edge) {
	if len(cycle) < 3 {
		return
	}
	stack := append([]trimesh.Edge(nil), cycle...)
	processed := map[trimesh.Edge]bool{}
	limit := 3 * len(x.mesh.Verts())
	for len(stack) > 0 {
		estart := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if processed[estart] {
			continue
		}
		processed[estart] = true
		face := []int{estart.Src().ID}
		ecur := estart
		for count := 0; ; count++ {
			if count > limit {
				throw.Fatal(errors.Wrapf(throw.ErrWalkNotClosed,
					"interior face from %v after %d steps: %v", estart, count, face))
			}
			enext := trimesh.FindCWWavefrontOrOrig(ecur.Neighbor())
			if enext.IsNull() {
				// Origness was lost somewhere. Take the next edge around.
				x.logger.Warn("interior face walk found no original edge", zap.Stringer("edge", ecur))
				enext = estart.Neighbor().RotCW()
			}
			processed[enext] = true
			face = append(face, enext.Src().ID)
			if !enext.IsWavefront() {
				if en := enext.Neighbor(); !processed[en] {
					stack = append(stack, en)
				}
			}
			ecur = enext
			if ecur.Dst() == estart.Src() {
				break
			}
		}
		x.faces = append(x.faces, face)
		x.origFaces = append(x.origFaces, estart.Tri.OrigFace())
	}
}
