package skeleton

import (
	"github.com/osuushi/meshinset/internal/throw"
	"github.com/osuushi/meshinset/internal/trimesh"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// initContourInset splits every contour vertex in two along its contour
// edges. The original vertex keeps the triangles outside the contour and the
// new one, joined to it by a zero length spoke, becomes part of the sweep
// front. Returns the edges of each new inner loop, in contour order.
func initContourInset(m *trimesh.TriangleMesh, contours [][]int) [][]trimesh.Edge {
	ans := make([][]trimesh.Edge, 0, len(contours))
	for ci, cont := range contours {
		n := len(cont)
		contEdges := make([]trimesh.Edge, n)
		for i, vIndex := range cont {
			v := m.Vert(vIndex)
			vNext := m.Vert(cont[(i+1)%n])
			e := trimesh.EdgeBetween(v, vNext)
			if e.IsNull() {
				throw.Fatal(errors.Wrapf(throw.ErrInvalidInput,
					"contour %d: no mesh edge from vertex %d to vertex %d", ci, vIndex, cont[(i+1)%n]))
			}
			contEdges[i] = e
		}

		splitVerts := make([]*trimesh.Vert, 0, n)
		for i, vIndex := range cont {
			v := m.Vert(vIndex)
			ePrevReverse := contEdges[(i+n-1)%n].Neighbor()
			vSplit := m.SplitVert(v, contEdges[i], ePrevReverse)
			splitVerts = append(splitVerts, vSplit)
			spoke := trimesh.EdgeBetween(v, vSplit)
			throw.Assertf(!spoke.IsNull(), "no spoke between v%d and v%d", v.ID, vSplit.ID)
			spoke.MarkSpoke()
		}

		edges := make([]trimesh.Edge, 0, n)
		for i, v0 := range splitVerts {
			v1 := splitVerts[(i+1)%n]
			e := trimesh.EdgeBetween(v0, v1)
			throw.Assertf(!e.IsNull(), "inner contour %d is open between v%d and v%d", ci, v0.ID, v1.ID)
			edges = append(edges, e)
		}
		ans = append(ans, edges)
	}
	return ans
}

// calculateContourAndRegionData marks every triangle reachable from the
// inside of a contour without crossing a contour edge as in region.
func (s *Skeleton) calculateContourAndRegionData() {
	s.contourEdgeSet = map[trimesh.Edge]struct{}{}
	for _, contour := range s.contourEdges {
		for _, e := range contour {
			s.contourEdgeSet[e] = struct{}{}
		}
	}
	for ci, contour := range s.contourEdges {
		if len(contour) < 3 {
			// Nothing can be inside it
			continue
		}
		seed := contour[0].Tri
		if seed.InRegion() {
			continue
		}
		seed.MarkInRegion()
		s.totRegionTriangles++
		stack := []*trimesh.Triangle{seed}
		for len(stack) > 0 {
			tri := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for i := 0; i < 3; i++ {
				e := tri.Edge(i)
				if _, ok := s.contourEdgeSet[e]; ok {
					continue
				}
				en := e.Neighbor()
				throw.Assertf(!en.IsNull(), "t%d edge %d has no neighbor", tri.ID(), i)
				if tn := en.Tri; !tn.IsGhost() && !tn.InRegion() {
					tn.MarkInRegion()
					s.totRegionTriangles++
					stack = append(stack, tn)
				}
			}
		}
		s.logger.Debug("region flood fill",
			zap.Int("contour", ci), zap.Int("regionTriangles", s.totRegionTriangles))
	}
}
