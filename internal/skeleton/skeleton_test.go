package skeleton

import (
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/trimesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSolveQuadratic(t *testing.T) {
	roots := solveQuadratic(1, -3, 2)
	require.Len(t, roots, 2)
	sorted := append([]float64(nil), roots...)
	sort.Float64s(sorted)
	assert.InDeltaSlice(t, []float64{1, 2}, sorted, 1e-12)

	assert.Equal(t, []float64{2}, solveQuadratic(0, 2, -4))
	assert.Empty(t, solveQuadratic(0, 0, 1))
	assert.Empty(t, solveQuadratic(1, 0, 1))

	roots = solveQuadratic(1, -2, 1)
	require.Len(t, roots, 1)
	assert.InDelta(t, 1, roots[0], 1e-12)
}

func TestCalcVelo(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}

	// Corner of a CCW unit square at the origin
	velo, dhdl := calcVelo(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{-1, 0, 0}, up)
	require.Greater(t, dhdl, 0.0)
	perHeight := velo.Mul(1 / dhdl)
	assert.InDeltaSlice(t, []float64{1, 1, 0}, perHeight[:], 1e-12)

	// Straight contour running along +x moves toward +y
	velo, dhdl = calcVelo(mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{-1, 0, 0}, up)
	require.Greater(t, dhdl, 0.0)
	perHeight = velo.Mul(1 / dhdl)
	assert.InDeltaSlice(t, []float64{0, 1, 0}, perHeight[:], 1e-12)
}

func TestStationaryVertex(t *testing.T) {
	skv := newStationaryVertex(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 1})
	assert.Equal(t, 1.0, skv.dhdl)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, skv.positionAt(10))
}

func TestEventQueueOrder(t *testing.T) {
	m := trimesh.NewTriangleMesh()
	for i := 0; i < 3; i++ {
		m.AddVert(mgl64.Vec3{float64(i), 0, 0})
	}
	tris := make([]*trimesh.Triangle, 4)
	for i := range tris {
		tris[i] = m.AddTriangle(m.Vert(0), m.Vert(1), m.Vert(2))
	}

	var q eventQueue
	q.push(event{edge: tris[0].Edge(0), height: 1, epoch: 1})
	q.push(event{edge: tris[1].Edge(0), height: 0.5, epoch: 2})
	q.push(event{edge: tris[2].Edge(0), height: 0.5, split: true, epoch: 3})
	q.push(event{edge: tris[3].Edge(1), height: 0.25, epoch: 4})

	var order []*trimesh.Triangle
	for !q.empty() {
		order = append(order, q.pop().edge.Tri)
	}
	assert.Equal(t, []*trimesh.Triangle{tris[3], tris[2], tris[1], tris[0]}, order)
}

func TestEventQueueNewestFirstOnSameTriangle(t *testing.T) {
	m := trimesh.NewTriangleMesh()
	for i := 0; i < 3; i++ {
		m.AddVert(mgl64.Vec3{float64(i), 0, 0})
	}
	tri := m.AddTriangle(m.Vert(0), m.Vert(1), m.Vert(2))

	var q eventQueue
	q.push(event{edge: tri.Edge(0), height: 0.1, epoch: 1})
	q.push(event{edge: tri.Edge(0), height: 0.9, epoch: 2})
	assert.Equal(t, 2, q.pop().epoch)
}

func TestInvalidEvent(t *testing.T) {
	assert.False(t, invalidEvent(trimesh.NullEdge).valid())
	assert.Equal(t, "<invalid event>", invalidEvent(trimesh.NullEdge).String())
}

// Unit square split along the 0-2 diagonal, with the whole boundary as the
// contour.
func unitSquare(t *testing.T) *trimesh.TriangleMesh {
	m := trimesh.NewTriangleMesh()
	for _, co := range []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		m.AddVert(co)
	}
	m.AddTriangle(m.Vert(0), m.Vert(1), m.Vert(2))
	m.AddTriangle(m.Vert(0), m.Vert(2), m.Vert(3))
	m.ConnectNeighbors()
	m.AddGhostTriangles()
	require.NoError(t, m.Validate())
	return m
}

func TestSquarePartialInset(t *testing.T) {
	m := unitSquare(t)
	s := New(m, [][]int{{0, 1, 2, 3}}, 0.25, Config{Validate: true})
	s.Compute()
	require.NoError(t, m.Validate())

	// Nothing happens before height 0.5
	assert.Zero(t, s.Stats().Vertex+s.Stats().Split+s.Stats().Flip+s.Stats().Closing)
	assert.Len(t, s.RemainingTriangles(), 2)

	expected := map[int][]float64{
		4: {0.25, 0.25, 0},
		5: {0.75, 0.25, 0},
		6: {0.75, 0.75, 0},
		7: {0.25, 0.75, 0},
	}
	for id, co := range expected {
		assert.InDeltaSlice(t, co, m.Vert(id).Co[:], 1e-9, "v%d", id)
		assert.InDelta(t, 0.25, s.Heights()[id], 1e-12, "v%d", id)
	}
	// Outer ring stays put
	for id, co := range [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		assert.InDeltaSlice(t, co, m.Vert(id).Co[:], 1e-12)
		_, ok := s.Heights()[id]
		assert.False(t, ok)
	}

	require.Len(t, s.ContourEdges(), 1)
	for i, e := range s.ContourEdges()[0] {
		assert.Equal(t, 4+i, e.Src().ID)
		assert.True(t, e.IsWavefront())
	}
}

func TestDebugLogNamesVertices(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	s := New(unitSquare(t), [][]int{{0, 1, 2, 3}}, 0.25, Config{Logger: zap.New(core)})
	s.Compute()

	entries := logs.FilterMessage("contour vertex").All()
	require.Len(t, entries, 4)
	for _, entry := range entries {
		name, ok := entry.ContextMap()["skv"].(string)
		require.True(t, ok)
		assert.NotEmpty(t, name)
		assert.NotEqual(t, "Ø", name)
	}
}

func TestSquareZeroInset(t *testing.T) {
	m := unitSquare(t)
	s := New(m, [][]int{{0, 1, 2, 3}}, 0, Config{})
	s.Compute()
	require.NoError(t, m.Validate())
	for i := 0; i < 4; i++ {
		assert.Equal(t, m.Vert(i).Co, m.Vert(i+4).Co)
	}
}

func TestSquareFullCollapse(t *testing.T) {
	m := unitSquare(t)
	var heights []float64
	s := New(m, [][]int{{0, 1, 2, 3}}, 0.6, Config{
		Validate: true,
		OnEvent: func(kind EventKind, height float64) {
			heights = append(heights, height)
		},
	})
	s.Compute()
	require.NoError(t, m.Validate())

	assert.GreaterOrEqual(t, s.Stats().Closing, 1)
	assert.Empty(t, s.RemainingTriangles())
	assert.True(t, sort.Float64sAreSorted(heights), "heights %v", heights)
	for _, h := range heights {
		assert.InDelta(t, 0.5, h, 1e-6)
	}

	for _, tri := range m.Triangles() {
		assert.False(t, tri.InRegion() && !tri.IsDeleted(), "t%d is still in region", tri.ID())
	}
	for _, v := range m.Verts() {
		if v.IsDeleted() || v.ID < 4 {
			continue
		}
		assert.InDeltaSlice(t, []float64{0.5, 0.5, 0}, v.Co[:], 1e-6, "v%d", v.ID)
		assert.InDelta(t, 0.5, s.Heights()[v.ID], 1e-6, "v%d", v.ID)
	}
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "split", SplitEvent.String())
	assert.Equal(t, "unknown", EventKind(math.MaxInt8).String())
}

// Notched octagon whose tip sits on a triangle with no contour sides. The
// tip crosses that triangle's bottom diagonal at about height 0.16.
func notchOverDiagonal(t *testing.T) *trimesh.TriangleMesh {
	m := trimesh.NewTriangleMesh()
	for _, co := range []mgl64.Vec3{
		{0, 0, 0}, {3, -1, 0}, {6, 0, 0}, {6, 2, 0},
		{3.5, 2, 0}, {3, 0.6, 0}, {2.5, 2, 0}, {0, 2, 0},
	} {
		m.AddVert(co)
	}
	for _, tri := range [][3]int{{0, 1, 2}, {0, 2, 5}, {2, 3, 4}, {2, 4, 5}, {0, 5, 6}, {0, 6, 7}} {
		m.AddTriangle(m.Vert(tri[0]), m.Vert(tri[1]), m.Vert(tri[2]))
	}
	m.ConnectNeighbors()
	m.AddGhostTriangles()
	require.NoError(t, m.Validate())
	return m
}

func TestFlipLimit(t *testing.T) {
	contour := [][]int{{0, 1, 2, 3, 4, 5, 6, 7}}

	m := notchOverDiagonal(t)
	s := New(m, contour, 0.25, Config{Validate: true})
	s.Compute()
	require.NoError(t, m.Validate())
	assert.GreaterOrEqual(t, s.Stats().Flip, 1)
	assert.Zero(t, s.Stats().Unknown)
	assert.LessOrEqual(t, s.totFlips, s.flipLimit())

	// With the budget spent, the crossing is left unresolved
	s = New(notchOverDiagonal(t), contour, 0.25, Config{})
	s.totFlips = math.MaxInt
	s.Compute()
	assert.Zero(t, s.Stats().Flip)
	assert.GreaterOrEqual(t, s.Stats().Unknown, 1)
}
