// Package polyfill triangulates simple planar polygons given as CCW point
// lists. Monotone polygons go through a sweep, everything else goes through
// earcut.
package polyfill

import (
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/rclancey/earcut"
)

// Fill triangulates the CCW polygon, returning n-2 CCW triangles of indices
// into points.
func Fill(points []Point) []Triangle {
	n := len(points)
	if n < 3 {
		throw.Fatalf("cannot fill polygon with %d points", n)
	}
	if n == 3 {
		return []Triangle{{0, 1, 2}}
	}
	if Area(points) > 0 && isMonotone(points) {
		return TriangulateMonotone(points)
	}
	return earClip(points)
}

func earClip(points []Point) []Triangle {
	coords := make([]float64, 0, len(points)*2)
	for _, p := range points {
		coords = append(coords, p.X, p.Y)
	}
	indices, err := earcut.Earcut(coords, nil, 2)
	if err != nil {
		throw.Fatal(err)
	}
	if len(indices)%3 != 0 {
		throw.Fatalf("earcut returned %d indices", len(indices))
	}

	// Earcut makes no promise about winding
	triangles := make([]Triangle, 0, len(points)-2)
	for i := 0; i < len(indices); i += 3 {
		tri := Triangle{indices[i], indices[i+1], indices[i+2]}
		if IsCW(points, tri) {
			tri[1], tri[2] = tri[2], tri[1]
		}
		triangles = append(triangles, tri)
	}

	triangles = restoreDropped(points, triangles)
	if len(triangles) != len(points)-2 {
		throw.Fatalf("fill of %d points made %d triangles", len(points), len(triangles))
	}
	return triangles
}

// Earcut filters out collinear and duplicate corners, so their indices never
// show up in its output. Each run of dropped corners lies along one edge of a
// triangle, which gets fanned out from its opposite corner to take them back
// in.
func restoreDropped(points []Point, triangles []Triangle) []Triangle {
	n := len(points)
	used := make([]bool, n)
	for _, tri := range triangles {
		for _, i := range tri {
			used[i] = true
		}
	}

	result := make([]Triangle, 0, n-2)
	for _, tri := range triangles {
		split := false
		for pos := 0; pos < 3 && !split; pos++ {
			a, b, c := tri[pos], tri[(pos+1)%3], tri[(pos+2)%3]
			var run []int
			k := CircularIndex(a+1, n)
			for k != b && !used[k] {
				run = append(run, k)
				k = CircularIndex(k+1, n)
			}
			if k != b || len(run) == 0 {
				continue
			}
			prev := a
			for _, m := range run {
				result = append(result, Triangle{prev, m, c})
				used[m] = true
				prev = m
			}
			result = append(result, Triangle{prev, b, c})
			split = true
		}
		if !split {
			result = append(result, tri)
		}
	}
	return result
}
