package advanced

import (
	"embed"
	"log"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
	"github.com/go-gl/mathgl/mgl64"
)

// This file parses the svg fixtures into single face inputs. This is not a
// full (or even correct) svg parser. It finds the one polygon in the file and
// makes it a CCW face whose whole boundary is the contour. If anything goes
// wrong, it exits.
//
// Fixtures are available by name in the fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string, insetAmount float64) *Input {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, true)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) != 1 {
		log.Fatalf("Expected one polygon in fixture %q, found %d", name, len(polygons))
	}

	pointStrings := strings.Fields(polygons[0].Attributes["points"])
	verts := make([]mgl64.Vec3, 0, len(pointStrings))
	for _, pointString := range pointStrings {
		coords := strings.Split(pointString, ",")
		if len(coords) != 2 {
			log.Fatalf("Invalid point string %q", pointString)
		}
		x, err := strconv.ParseFloat(coords[0], 64)
		if err != nil {
			log.Fatalf("Invalid x value %q: %v", coords[0], err)
		}
		y, err := strconv.ParseFloat(coords[1], 64)
		if err != nil {
			log.Fatalf("Invalid y value %q: %v", coords[1], err)
		}
		verts = append(verts, mgl64.Vec3{x, y, 0})
	}

	// Ensure that the polygon is CCW
	if signedArea(verts) < 0 {
		for i, j := 0, len(verts)-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}

	loop := make([]int, len(verts))
	for i := range loop {
		loop[i] = i
	}
	return &Input{
		Verts:       verts,
		Faces:       [][]int{loop},
		Contours:    [][]int{loop},
		InsetAmount: insetAmount,
	}
}

// Shoelace area of the projection of a polygon onto the XY plane.
func signedArea(cos []mgl64.Vec3) float64 {
	var area float64
	for i, a := range cos {
		b := cos[(i+1)%len(cos)]
		area += a[0]*b[1] - b[0]*a[1]
	}
	return area / 2
}

func faceCos(result *Result, face []int) []mgl64.Vec3 {
	cos := make([]mgl64.Vec3, len(face))
	for i, v := range face {
		cos[i] = result.Verts[v]
	}
	return cos
}

// Unit square as a single quad.
func UnitSquare(insetAmount float64) *Input {
	return &Input{
		Verts:       []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:       [][]int{{0, 1, 2, 3}},
		Contours:    [][]int{{0, 1, 2, 3}},
		InsetAmount: insetAmount,
	}
}
