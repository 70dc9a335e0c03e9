package advanced

import (
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validating = &Options{Debug: &DebugOptions{Validate: true}}

func assertVec(t *testing.T, expected, actual mgl64.Vec3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDeltaSlice(t, expected[:], actual[:], delta, msgAndArgs...)
}

// Distance from p to the line through a and b, in the XY plane.
func lineDistance(p, a, b mgl64.Vec3) float64 {
	d := b.Sub(a)
	return math.Abs(d[0]*(p[1]-a[1])-d[1]*(p[0]-a[0])) / math.Hypot(d[0], d[1])
}

func TestSquareInset(t *testing.T) {
	result := Calc(UnitSquare(0.25), validating)

	require.Len(t, result.Verts, 8)
	for i, co := range []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		assertVec(t, co, result.Verts[i], 0, "outer v%d", i)
	}
	for i, co := range []mgl64.Vec3{{0.25, 0.25, 0}, {0.75, 0.25, 0}, {0.75, 0.75, 0}, {0.25, 0.75, 0}} {
		assertVec(t, co, result.Verts[4+i], 1e-9, "inner v%d", 4+i)
	}

	require.Len(t, result.Faces, 5)
	for i := 0; i < 4; i++ {
		assert.Equal(t, []int{i, (i + 1) % 4, 4 + (i+1)%4, 4 + i}, result.Faces[i])
	}
	assert.ElementsMatch(t, []int{4, 5, 6, 7}, result.Faces[4])
	assert.InDelta(t, 0.25, signedArea(faceCos(result, result.Faces[4])), 1e-9)

	require.Len(t, result.Contours, 1)
	assert.Equal(t, []int{4, 5, 6, 7}, result.Contours[0])
	assert.Equal(t, []int{0}, result.ContourOrig)

	assert.Nil(t, result.OrigVert)
	assert.Nil(t, result.OrigFace)
}

func TestZeroInset(t *testing.T) {
	result := Calc(UnitSquare(0), validating)
	require.Len(t, result.Verts, 8)
	for i := 0; i < 4; i++ {
		assert.Equal(t, result.Verts[i], result.Verts[4+i])
	}
	require.Len(t, result.Contours, 1)
	assert.Len(t, result.Contours[0], 4)
	assert.Len(t, result.Faces, 5)
}

func TestFullCollapse(t *testing.T) {
	for _, amount := range []float64{0.6, 2} {
		t.Run(fmt.Sprint(amount), func(t *testing.T) {
			var heights []float64
			result := Calc(UnitSquare(amount), &Options{Debug: &DebugOptions{
				Validate: true,
				OnEvent:  func(kind EventKind, height float64) { heights = append(heights, height) },
			}})

			assert.GreaterOrEqual(t, result.Stats.Closing, 1)
			assert.True(t, sort.Float64sAreSorted(heights))
			assert.Empty(t, result.Contours)
			require.Len(t, result.Faces, 4)
			for i, face := range result.Faces {
				assert.Equal(t, []int{i, (i + 1) % 4}, face[:2])
			}
			for i := 4; i < len(result.Verts); i++ {
				assertVec(t, mgl64.Vec3{0.5, 0.5, 0}, result.Verts[i], 1e-6, "v%d", i)
			}
		})
	}
}

func TestSlope(t *testing.T) {
	input := UnitSquare(0.25)
	input.Slope = 1
	result := Calc(input, validating)
	require.Len(t, result.Verts, 8)
	for i := 0; i < 4; i++ {
		assert.Zero(t, result.Verts[i][2])
		assert.InDelta(t, 0.25, result.Verts[4+i][2], 1e-3)
	}
}

func TestProvenance(t *testing.T) {
	input := UnitSquare(0.25)
	input.Faces = [][]int{{0, 1, 2}, {0, 2, 3}}
	input.NeedIDs = true
	result := Calc(input, validating)

	assert.Equal(t, []int{0, 1, 2, 3, -1, -1, -1, -1}, result.OrigVert)
	require.Len(t, result.Faces, 6)
	require.Len(t, result.OrigFace, 6)
	assert.Equal(t, []int{0, 0, 1, 1}, result.OrigFace[:4])
	// The shared diagonal is an original edge, so the inside stays two faces
	assert.ElementsMatch(t, []int{0, 1}, result.OrigFace[4:])
	for _, face := range result.Faces[4:] {
		assert.Len(t, face, 3)
	}
}

// Below the first event, every inset vertex of a convex polygon sits at the
// inset distance from both of its original edges.
func TestConvexFixtures(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
	}{
		{"square", 0.2},
		{"trapezoid", 0.3},
		{"pentagon", 0.2},
		{"hexagon", 0.3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			input := LoadFixture(c.name, c.amount)
			result := Calc(input, validating)
			n := len(input.Verts)

			require.Len(t, result.Verts, 2*n)
			require.Len(t, result.Faces, n+1)
			require.Len(t, result.Contours, 1)
			assert.Len(t, result.Contours[0], n)
			assert.Len(t, result.Faces[n], n)

			for i := 0; i < n; i++ {
				rim := result.Faces[i]
				require.Len(t, rim, 4, "rim face %d", i)
				prev, cur, next := input.Verts[(i+n-1)%n], input.Verts[i], input.Verts[(i+1)%n]
				inner := result.Verts[rim[3]]
				assert.InDelta(t, c.amount, lineDistance(inner, cur, next), 1e-9, "v%d", rim[3])
				assert.InDelta(t, c.amount, lineDistance(inner, prev, cur), 1e-9, "v%d", rim[3])
				assert.Greater(t, signedArea(faceCos(result, rim)), 0.0)
			}
		})
	}
}

func TestHexagonAreaShrinks(t *testing.T) {
	apothem := math.Sqrt(3) / 2
	fullArea := signedArea(LoadFixture("hexagon", 0).Verts)
	previous := math.Inf(1)
	for _, amount := range []float64{0.1, 0.3, 0.5, 0.8} {
		result := Calc(LoadFixture("hexagon", amount), validating)
		area := signedArea(faceCos(result, result.Faces[6]))
		scale := (apothem - amount) / apothem
		assert.InDelta(t, fullArea*scale*scale, area, 1e-9, "inset %g", amount)
		assert.Less(t, area, previous)
		previous = area
	}
	assert.Less(t, previous, 0.02)
}

func TestCalcRejectsBadInput(t *testing.T) {
	cases := map[string]func(*Input){
		"negative inset":     func(in *Input) { in.InsetAmount = -1 },
		"nan inset":          func(in *Input) { in.InsetAmount = math.NaN() },
		"short face":         func(in *Input) { in.Faces = [][]int{{0, 1}} },
		"missing vertex":     func(in *Input) { in.Faces = [][]int{{0, 1, 2, 9}} },
		"repeated vertex":    func(in *Input) { in.Contours = [][]int{{0, 1, 1, 2}} },
		"no contours":        func(in *Input) { in.Contours = nil },
		"contour off mesh":   func(in *Input) { in.Contours = [][]int{{0, 1, 3}} },
		"infinite slope":     func(in *Input) { in.Slope = math.Inf(1) },
		"non-finite vertex":  func(in *Input) { in.Verts[2] = mgl64.Vec3{1, math.NaN(), 0} },
		"short contour":      func(in *Input) { in.Contours = [][]int{{0, 1}} },
		"contour past verts": func(in *Input) { in.Contours = [][]int{{0, 1, 4}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			input := UnitSquare(0.25)
			mutate(input)
			assert.Panics(t, func() { Calc(input, nil) })
		})
	}
}

// The notch tip reaches the bottom edge first and cuts the rectangle in two.
func TestNotchSplits(t *testing.T) {
	result := Calc(LoadFixture("notch", 0.5), validating)

	assert.Equal(t, 1, result.Stats.Split)
	require.Len(t, result.Contours, 2)
	assert.Equal(t, []int{0, 0}, result.ContourOrig)

	// Each half is the trapezoid between y=0.5 and y=1.5, cut by the notch
	// side offset by 0.5.
	half := 2.5 - (0.5*math.Sqrt(2.21)+0.2)/1.4
	for i, contour := range result.Contours {
		assert.Len(t, contour, 4, "contour %d", i)
		assert.InDelta(t, half, math.Abs(signedArea(faceCos(result, contour))), 1e-6, "contour %d", i)
	}
}

func TestRectangleRidge(t *testing.T) {
	rectangle := func(slope float64) *Input {
		return &Input{
			Verts:       []mgl64.Vec3{{0, 0, 0}, {3, 0, 0}, {3, 1, 0}, {0, 1, 0}},
			Faces:       [][]int{{0, 1, 2, 3}},
			Contours:    [][]int{{0, 1, 2, 3}},
			InsetAmount: 0.7,
			Slope:       slope,
		}
	}

	for _, slope := range []float64{0, 1} {
		t.Run(fmt.Sprint(slope), func(t *testing.T) {
			result := Calc(rectangle(slope), validating)
			assert.Empty(t, result.Contours)

			ridge := []mgl64.Vec3{{0.5, 0.5, 0.5 * slope}, {2.5, 0.5, 0.5 * slope}}
			seen := make([]bool, len(ridge))
			for i := 4; i < len(result.Verts); i++ {
				co := result.Verts[i]
				matched := false
				for j, r := range ridge {
					if co.Sub(r).Len() < 1e-6 {
						seen[j] = true
						matched = true
					}
				}
				assert.True(t, matched, "v%d at %v is off the ridge", i, co)
			}
			assert.Equal(t, []bool{true, true}, seen)
			for i := 0; i < 4; i++ {
				assert.Zero(t, result.Verts[i][2])
			}
		})
	}
}

// The notch tip drops through the diagonal under it long before it meets
// the bottom edges, so the diagonal has to flip.
func TestTipFlipsDiagonal(t *testing.T) {
	input := &Input{
		Verts: []mgl64.Vec3{
			{0, 0, 0}, {3, -1, 0}, {6, 0, 0}, {6, 2, 0},
			{3.5, 2, 0}, {3, 0.6, 0}, {2.5, 2, 0}, {0, 2, 0},
		},
		Faces: [][]int{
			{0, 1, 2}, {0, 2, 5}, {2, 3, 4}, {2, 4, 5}, {0, 5, 6}, {0, 6, 7},
		},
		Contours:    [][]int{{0, 1, 2, 3, 4, 5, 6, 7}},
		InsetAmount: 0.25,
	}
	result := Calc(input, validating)

	assert.GreaterOrEqual(t, result.Stats.Flip, 1)
	assert.Zero(t, result.Stats.Split)
	assert.Zero(t, result.Stats.Unknown)
	require.Len(t, result.Verts, 16)
	require.Len(t, result.Contours, 1)
	assert.Len(t, result.Contours[0], 8)

	var total float64
	for i, face := range result.Faces {
		area := signedArea(faceCos(result, face))
		assert.Greater(t, area, 0.0, "face %d", i)
		total += area
	}
	assert.InDelta(t, 12+3-0.7, total, 1e-6)
}

// An interior vertex is stationary until the wavefront reaches it, and then
// it moves on as part of the wavefront.
func TestStationaryVertexJoinsWavefront(t *testing.T) {
	input := &Input{
		Verts:       []mgl64.Vec3{{0, 0, 0}, {4, 0, 0}, {4, 4, 0}, {0, 4, 0}, {1, 2, 0}},
		Faces:       [][]int{{0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}},
		Contours:    [][]int{{0, 1, 2, 3}},
		InsetAmount: 1.2,
		NeedIDs:     true,
	}
	result := Calc(input, validating)

	require.Len(t, result.Verts, 9)
	assert.Equal(t, []int{0, 1, 2, 3, 4, -1, -1, -1, -1}, result.OrigVert)
	assertVec(t, mgl64.Vec3{1.2, 2, 0}, result.Verts[4], 1e-6)

	require.Len(t, result.Faces, 7)
	var total float64
	for i, face := range result.Faces {
		area := signedArea(faceCos(result, face))
		assert.Greater(t, area, 0.0, "face %d", i)
		total += area
	}
	assert.InDelta(t, 16, total, 1e-6)

	require.Len(t, result.Contours, 1)
	contour := result.Contours[0]
	assert.Len(t, contour, 5)
	assert.Contains(t, contour, 4)
	assert.InDelta(t, 2.56, math.Abs(signedArea(faceCos(result, contour))), 1e-6)
}
