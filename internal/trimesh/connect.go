package trimesh

import "github.com/osuushi/meshinset/internal/throw"

type vertPair struct {
	lo, hi int
}

func newVertPair(a, b *Vert) vertPair {
	if a.ID > b.ID {
		a, b = b, a
	}
	return vertPair{a.ID, b.ID}
}

// ConnectNeighbors pairs up edges of live triangles that share both end
// points. Edges that are already paired on both sides are left alone; a
// pair linked on one side only is relinked. If more than two
// triangles share an edge, only the first two are paired.
func (m *TriangleMesh) ConnectNeighbors() {
	edges := map[vertPair][]Edge{}
	var order []vertPair
	for _, tri := range m.triangles {
		if tri.IsGhost() || tri.IsDeleted() {
			continue
		}
		for pos := 0; pos < 3; pos++ {
			e := Edge{tri, pos}
			key := newVertPair(e.Src(), e.Dst())
			if _, ok := edges[key]; !ok {
				order = append(order, key)
			}
			edges[key] = append(edges[key], e)
		}
	}
	for _, key := range order {
		pair := edges[key]
		if len(pair) < 2 {
			continue
		}
		e1, e2 := pair[0], pair[1]
		if !e1.Neighbor().IsNull() && !e2.Neighbor().IsNull() {
			continue
		}
		SetMutualNeighbors(e1.Tri, e1.Pos, e2)
	}
}

// AddGhostTriangles closes every loop of unpaired edges with ghost
// triangles, so that each vertex has a complete rotation. A ghost triangle
// for boundary edge a->b is (a, nil, b); its last edge is paired with the
// boundary edge and its first two edges with the neighboring ghosts.
func (m *TriangleMesh) AddGhostTriangles() {
	visited := map[Edge]bool{}
	// Ghosts are appended while iterating, so bound the loop up front
	n := len(m.triangles)
	for ti := 0; ti < n; ti++ {
		tri := m.triangles[ti]
		if tri.IsGhost() || tri.IsDeleted() {
			continue
		}
		for pos := 0; pos < 3; pos++ {
			e := Edge{tri, pos}
			if !e.Neighbor().IsNull() || visited[e] {
				continue
			}
			m.addGhostLoop(e, visited)
		}
	}
}

func (m *TriangleMesh) addGhostLoop(start Edge, visited map[Edge]bool) {
	var first, prev *Triangle
	ecur := start
	for steps := 0; ; steps++ {
		throw.Assertf(steps < len(m.triangles)*3, "boundary walk from %v does not close", start)
		visited[ecur] = true
		ghost := m.AddTriangle(ecur.Src(), nil, ecur.Dst())
		SetMutualNeighbors(ghost, 2, ecur)
		if prev == nil {
			first = ghost
		} else {
			SetMutualNeighbors(ghost, 0, Edge{prev, 1})
		}
		prev = ghost

		// Turn clockwise around the destination until the next unpaired edge
		etry := ecur.Succ()
		for turns := 0; etry != start && !etry.Neighbor().IsNull(); turns++ {
			throw.Assertf(turns < maxRotation, "no boundary edge leaves v%d", ecur.Dst().ID)
			etry = etry.Neighbor().Succ()
		}
		if etry == start {
			break
		}
		throw.Assertf(!visited[etry], "boundary at v%d is not manifold", etry.Src().ID)
		ecur = etry
	}
	SetMutualNeighbors(first, 0, Edge{prev, 1})
}
