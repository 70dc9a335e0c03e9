package polyfill

type directedEdge struct {
	from, to int
}

// Beautify flips interior diagonals of a fill until every convex quad formed
// by two adjacent triangles satisfies the empty circumcircle condition.
// Boundary edges are never touched. The triangles are modified in place and
// returned.
func Beautify(points []Point, triangles []Triangle) []Triangle {
	// Maps each directed edge to the triangle index * 3 + position that owns it
	owner := make(map[directedEdge]int, len(triangles)*3)
	index := func(ti int) {
		t := triangles[ti]
		for pos := 0; pos < 3; pos++ {
			owner[directedEdge{t[pos], t[(pos+1)%3]}] = ti*3 + pos
		}
	}
	unindex := func(ti int) {
		t := triangles[ti]
		for pos := 0; pos < 3; pos++ {
			delete(owner, directedEdge{t[pos], t[(pos+1)%3]})
		}
	}
	for ti := range triangles {
		index(ti)
	}

	maxPasses := len(triangles) + 8
	for pass := 0; pass < maxPasses; pass++ {
		flipped := false
		for ti := range triangles {
			for pos := 0; pos < 3; pos++ {
				t := triangles[ti]
				a, b, c := t[pos], t[(pos+1)%3], t[(pos+2)%3]
				o, ok := owner[directedEdge{b, a}]
				if !ok {
					continue
				}
				tj, opos := o/3, o%3
				d := triangles[tj][(opos+2)%3]
				if !shouldFlip(points[a], points[b], points[c], points[d]) {
					continue
				}
				unindex(ti)
				unindex(tj)
				triangles[ti] = Triangle{c, a, d}
				triangles[tj] = Triangle{d, b, c}
				index(ti)
				index(tj)
				flipped = true
			}
		}
		if !flipped {
			break
		}
	}
	return triangles
}

// shouldFlip reports whether the diagonal ab shared by CCW triangles abc and
// bad should be replaced by cd.
func shouldFlip(a, b, c, d Point) bool {
	if cross(c, a, d) <= Tolerance || cross(d, b, c) <= Tolerance {
		return false
	}
	return inCircle(a, b, c, d) > Tolerance*Tolerance
}

// Positive when d is strictly inside the circumcircle of the CCW triangle abc.
func inCircle(a, b, c, d Point) float64 {
	adx, ady := a.X-d.X, a.Y-d.Y
	bdx, bdy := b.X-d.X, b.Y-d.Y
	cdx, cdy := c.X-d.X, c.Y-d.Y
	ad := adx*adx + ady*ady
	bd := bdx*bdx + bdy*bdy
	cd := cdx*cdx + cdy*cdy
	return adx*(bdy*cd-bd*cdy) - ady*(bdx*cd-bd*cdx) + ad*(bdx*cdy-bdy*cdx)
}
