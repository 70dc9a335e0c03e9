package skeleton

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// addEvents rederives events for the region triangles around vert after it
// changed at minHeight. When instant, vert has no usable speed, and the
// event goes to whichever neighboring wavefront vertex will be closest to
// vert at minHeight, while the other triangles around vert get sentinels.
func (s *Skeleton) addEvents(vert *trimesh.Vert, minHeight float64, instant bool) {
	if !instant {
		e := vert.E
		for {
			if e.Tri.InRegion() {
				s.addTriangle(e, minHeight)
			}
			e = e.RotCCW()
			if e == vert.E {
				break
			}
		}
		return
	}

	bestSqr := math.Inf(1)
	best := trimesh.NullEdge
	refPos := vert.Co
	bestPos := refPos
	consider := func(faceEdge trimesh.Edge, skv *skelVertex) {
		if skv == nil || skv.dhdl == 0 {
			return
		}
		pos := skv.positionAt(minHeight)
		if d := pos.Sub(refPos).LenSqr(); d < bestSqr {
			bestSqr = d
			best = faceEdge
			bestPos = pos
		}
	}
	e := vert.E
	for {
		if e.Tri.InRegion() {
			faceEdge := e.Succ().Succ()
			if faceEdge.IsWavefront() {
				consider(faceEdge, s.vertex(faceEdge))
			}
			if faceEdge.Succ().IsWavefront() {
				consider(faceEdge.Succ(), s.vertex(faceEdge.Succ().Succ()))
			}
		}
		e = e.RotCCW()
		if e == vert.E {
			break
		}
	}
	if best.IsNull() {
		// Nothing to snap to
		s.push(invalidEvent(best))
	} else {
		s.pushAt(best, minHeight, bestPos, false)
	}

	e = vert.E
	for {
		faceEdge := e.Succ().Succ()
		if faceEdge.Tri.InRegion() && faceEdge != best && faceEdge.Succ() != best {
			s.push(invalidEvent(faceEdge))
		}
		e = e.RotCCW()
		if e == vert.E {
			break
		}
	}
}

// addTriangle derives the next event of edge's triangle at or after
// minHeight. Triangles with no upcoming event get a sentinel instead.
func (s *Skeleton) addTriangle(edge trimesh.Edge, minHeight float64) {
	out1 := edge.IsWavefront()
	out2 := edge.Succ().IsWavefront()
	out3 := edge.Pred().IsWavefront()
	outNum := 0
	for _, out := range []bool{out1, out2, out3} {
		if out {
			outNum++
		}
	}
	skv1 := s.vertex(edge)
	skv2 := s.vertex(edge.Succ())
	skv3 := s.vertex(edge.Pred())

	// Corners that are momentarily stationary. The event goes to whichever
	// wavefront neighbor gets closest to the stationary corner.
	if math.Abs(skv1.dhdl) < dhdlEpsilon {
		if skv2.dhdl == 0 || skv3.dhdl == 0 {
			s.push(invalidEvent(edge))
			return
		}
		s.pushNearest(edge, minHeight, skv1.position, []candidate{
			{out1, edge, skv2},
			{out3, edge.Pred(), skv3},
		})
		return
	}
	if math.Abs(skv2.dhdl) <= dhdlEpsilon {
		if skv1.dhdl == 0 || skv3.dhdl == 0 {
			return
		}
		// TODO: out2 is paired with skv3 here, unlike the other two cases.
		// Check whether out3 was meant.
		s.pushNearest(edge, minHeight, skv2.position, []candidate{
			{out1, edge, skv1},
			{out2, edge.Succ(), skv3},
		})
		return
	}
	if math.Abs(skv3.dhdl) <= dhdlEpsilon {
		if skv1.dhdl == 0 || skv2.dhdl == 0 {
			s.push(invalidEvent(edge))
			return
		}
		s.pushNearest(edge, minHeight, skv3.position, []candidate{
			{out2, edge.Succ(), skv2},
			{out3, edge.Pred(), skv1},
		})
		return
	}

	normal := trimesh.Normalize(skv1.normal.Add(skv2.normal).Add(skv3.normal))
	v1 := skv1.velo.Mul(1 / skv1.dhdl)
	v2 := skv2.velo.Mul(1 / skv2.dhdl)
	v3 := skv3.velo.Mul(1 / skv3.dhdl)
	x1 := edge.Src().Co.Add(v1.Mul(minHeight - skv1.height))
	x2 := edge.Succ().Src().Co.Add(v2.Mul(minHeight - skv2.height))
	x3 := edge.Pred().Src().Co.Add(v3.Mul(minHeight - skv3.height))
	dx1 := x1.Sub(x2)
	dx2 := x2.Sub(x3)
	dx3 := x1.Sub(x3)
	dv1 := v1.Sub(v2)
	dv2 := v2.Sub(v3)
	dv3 := v1.Sub(v3)
	c := trimesh.Det(dx1, dx2, normal)
	positive := c > 0

	if outNum == 3 {
		// The area is a parabola in the height, and the triangle closes at its
		// extremum.
		a := trimesh.Det(dv1, dv2, normal)
		if a == 0 {
			s.push(invalidEvent(edge))
			return
		}
		b := trimesh.Det(dx1, dv2, normal) + trimesh.Det(dv1, dx2, normal)
		height := -0.5 * b / a
		s.pushAt(edge, minHeight+height, x1.Add(v1.Mul(height)), false)
		return
	}

	divZero := func(a, b float64) float64 {
		if math.Abs(b) > 1e-7 {
			return a / b
		}
		if !positive {
			return 1e-16
		}
		return math.NaN()
	}

	// Edges that are collapsing give a simple linear estimate
	dv1Sqr := dv1.LenSqr()
	dv2Sqr := dv2.LenSqr()
	dv3Sqr := dv3.LenSqr()
	if dv1Sqr == 0 && dv2Sqr == 0 && dv3Sqr == 0 {
		s.push(invalidEvent(edge))
		return
	}
	linHeight1 := divZero(-dx1.Dot(dv1), dv1Sqr)
	linHeight2 := divZero(-dx2.Dot(dv2), dv2Sqr)
	linHeight3 := divZero(-dx3.Dot(dv3), dv3Sqr)

	if outNum == 2 {
		epsilon := 0.0
		if !positive {
			epsilon = math.Abs(c) + 1e-6
		}
		// Picks the earlier of two admissible collapse heights, preferring the
		// first when the second is not admissible.
		pick := func(ea trimesh.Edge, ha float64, xa, va mgl64.Vec3, eb trimesh.Edge, hb float64, xb, vb mgl64.Vec3) {
			switch {
			case (ha < hb || !(hb >= -epsilon)) && ha >= -epsilon:
				s.pushAt(ea, ha+minHeight, xa.Add(va.Mul(ha)), false)
			case hb >= -epsilon:
				s.pushAt(eb, hb+minHeight, xb.Add(vb.Mul(hb)), false)
			default:
				s.push(invalidEvent(edge))
			}
		}
		switch {
		case !out1:
			pick(edge.Succ(), linHeight2, x2, v2, edge.Pred(), linHeight3, x3, v3)
		case !out2:
			pick(edge, linHeight1, x1, v1, edge.Pred(), linHeight3, x3, v3)
		case !out3:
			pick(edge.Succ(), linHeight2, x2, v2, edge, linHeight1, x1, v1)
		}
		return
	}

	// General case: the signed area a*h*h + b*h + c reaches zero
	a := trimesh.Det(dv1, dv2, normal)
	b := trimesh.Det(dx1, dv2, normal) + trimesh.Det(dv1, dx2, normal)
	roots := solveQuadratic(a, b, c)
	height := math.Inf(1)
	for _, h := range roots {
		if 0 <= h && h < height {
			height = h
		}
	}
	// A zero triangle that doesn't change size happens now
	if math.Abs(a) < 1e-10 && math.Abs(b) < 1e-4 && math.Abs(c) < 1e-4 {
		roots = []float64{0}
	}

	// Prefer an edge collapse height that the quadratic missed
	linCheck1 := divZero(-dx1.LenSqr(), dx1.Dot(dv1))
	linCheck2 := divZero(-dx2.LenSqr(), dx2.Dot(dv2))
	linCheck3 := divZero(-dx3.LenSqr(), dx3.Dot(dv3))
	for _, lin := range [][2]float64{{linHeight1, linCheck1}, {linHeight2, linCheck2}, {linHeight3, linCheck3}} {
		if lin[0] >= 0 && !(lin[0] >= height) && math.Abs(lin[0]-lin[1]) < 1e-5 {
			height = lin[0]
		}
	}

	if positive {
		if math.IsInf(height, 1) || !(height >= 0) {
			s.push(invalidEvent(edge))
			return
		}
	} else {
		if len(roots) == 0 || !(roots[0] >= -math.Abs(c)-1e-8) {
			s.push(invalidEvent(edge))
			return
		}
		height = roots[0]
	}

	len1 := dx1.Add(dv1.Mul(height)).LenSqr()
	len2 := dx2.Add(dv2.Mul(height)).LenSqr()
	len3 := dx3.Add(dv3.Mul(height)).LenSqr()
	at := func(x, v mgl64.Vec3) mgl64.Vec3 {
		return x.Add(v.Mul(height))
	}
	h := height + minHeight
	// When no side shrinks to nothing, the longest side is the one split by
	// the opposite vertex.
	switch {
	case len1 > len2 && len1 > len3:
		switch {
		case len2 <= len3 && out2 && !out1:
			s.pushAt(edge.Succ(), h, at(x2, v2), false)
		case len2 >= len3 && out3 && !out1:
			s.pushAt(edge.Pred(), h, at(x3, v3), false)
		default:
			s.pushAt(edge.Pred(), h, at(x3, v3), true)
		}
	case len2 > len3:
		switch {
		case len1 <= len3 && out1 && !out2:
			s.pushAt(edge, h, at(x1, v1), false)
		case len1 >= len3 && out3 && !out2:
			s.pushAt(edge.Pred(), h, at(x3, v3), false)
		default:
			s.pushAt(edge, h, at(x1, v1), true)
		}
	default:
		switch {
		case len2 <= len1 && out2 && !out3:
			s.pushAt(edge.Succ(), h, at(x2, v2), false)
		case len2 >= len1 && out1 && !out3:
			s.pushAt(edge, h, at(x1, v1), false)
		default:
			s.pushAt(edge.Succ(), h, at(x2, v2), true)
		}
	}
}

type candidate struct {
	out  bool
	edge trimesh.Edge
	skv  *skelVertex
}

// pushNearest queues an event for the wavefront candidate whose vertex will
// be closest to refPos at minHeight, or a sentinel on edge if there is none.
func (s *Skeleton) pushNearest(edge trimesh.Edge, minHeight float64, refPos mgl64.Vec3, candidates []candidate) {
	bestSqr := math.Inf(1)
	best := trimesh.NullEdge
	bestPos := refPos
	for _, cand := range candidates {
		if !cand.out {
			continue
		}
		pos := cand.skv.positionAt(minHeight)
		if d := pos.Sub(refPos).LenSqr(); d < bestSqr {
			bestSqr = d
			best = cand.edge
			bestPos = pos
		}
	}
	if best.IsNull() {
		s.push(invalidEvent(edge))
		return
	}
	s.pushAt(best, minHeight, bestPos, false)
}
