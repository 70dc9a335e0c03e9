package advanced

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// applySlope raises every swept vertex along its normal in proportion to the
// height it was swept to. All offsets are found before any are applied, since
// moving a vertex changes the normals of its neighbors.
func applySlope(m *trimesh.TriangleMesh, heights map[int]float64, slope float64) {
	m.CalculateAllTriNormals()
	deltas := make(map[*trimesh.Vert]mgl64.Vec3)
	for _, v := range m.Verts() {
		if v.IsDeleted() {
			continue
		}
		h, ok := heights[v.ID]
		if !ok || h == 0 {
			continue
		}
		factor := trimesh.VertexShellFactor(v) * h * slope
		deltas[v] = trimesh.VertexNormal(v).Mul(factor)
	}
	for v, delta := range deltas {
		v.Co = v.Co.Add(delta)
	}
}
