package trimesh

// Wavefront edges separate an in-region triangle from one that is not.
func (e Edge) IsWavefront() bool {
	if e.IsNull() {
		return false
	}
	return e.Tri.InRegion() != e.Neighbor().Tri.InRegion()
}

// FindCCWWavefront returns the first wavefront edge counterclockwise from e
// around its source, or NullEdge if there is none.
func FindCCWWavefront(e Edge) Edge {
	ans := e.RotCCW()
	for !ans.IsWavefront() {
		ans = ans.RotCCW()
		if ans == e {
			return NullEdge
		}
	}
	return ans
}

// FindCWWavefront returns the first wavefront edge clockwise from e around
// its source, or NullEdge if there is none.
func FindCWWavefront(e Edge) Edge {
	ans := e.RotCW()
	for !ans.IsWavefront() {
		ans = ans.RotCW()
		if ans == e {
			return NullEdge
		}
	}
	return ans
}

// FindCWSpokeOrWavefront returns the first edge clockwise from edge that is
// a spoke or a wavefront edge.
func FindCWSpokeOrWavefront(edge Edge) Edge {
	e := edge.RotCW()
	for {
		if e.IsSpoke() || e.IsWavefront() {
			return e
		}
		e = e.RotCW()
		if e == edge {
			return NullEdge
		}
	}
}

// FindCWWavefrontOrOrig returns the first edge clockwise from edge that is a
// wavefront edge or an input mesh edge.
func FindCWWavefrontOrOrig(edge Edge) Edge {
	e := edge.RotCW()
	for {
		if e.IsWavefront() || e.IsOrig() {
			return e
		}
		e = e.RotCW()
		if e == edge {
			return NullEdge
		}
	}
}
