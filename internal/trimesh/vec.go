package trimesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Normalize returns the unit vector along v, or the zero vector when v has no
// length. mgl64's own Normalize produces NaNs for the zero vector, which
// degenerate triangles hit routinely.
func Normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l == 0 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// Det is the determinant of the 3x3 matrix with columns v1, v2, n.
func Det(v1, v2, n mgl64.Vec3) float64 {
	return v1.Cross(v2).Dot(n)
}

// Acos clamped to the valid domain.
func SafeAcos(f float64) float64 {
	if f <= -1 {
		return math.Pi
	}
	if f >= 1 {
		return 0
	}
	return math.Acos(f)
}

// The angle at b formed by a-b-c.
func angleV3V3V3(a, b, c mgl64.Vec3) float64 {
	d1 := Normalize(a.Sub(b))
	d2 := Normalize(c.Sub(b))
	return SafeAcos(d1.Dot(d2))
}

// The factor to scale a unit offset along normal a by so that it is a unit
// distance away from a plane with unit normal b.
func shellNormalizedToDist(a, b mgl64.Vec3) float64 {
	const smallNumber = 1e-8
	angleCos := math.Abs(a.Dot(b))
	if angleCos < smallNumber {
		return 1
	}
	return 1 / angleCos
}

// PolyNormal is the Newell normal of the polygon cos, normalized.
func PolyNormal(cos []mgl64.Vec3) mgl64.Vec3 {
	var n mgl64.Vec3
	if len(cos) == 0 {
		return n
	}
	prev := cos[len(cos)-1]
	for _, cur := range cos {
		n[0] += (prev[1] - cur[1]) * (prev[2] + cur[2])
		n[1] += (prev[2] - cur[2]) * (prev[0] + cur[0])
		n[2] += (prev[0] - cur[0]) * (prev[1] + cur[1])
		prev = cur
	}
	return Normalize(n)
}

// VertexNormal is the angle weighted combination of the normals of the
// non-ghost triangles around vert. Triangle normals must be up to date.
func VertexNormal(vert *Vert) mgl64.Vec3 {
	var ans mgl64.Vec3
	e0 := vert.E
	ecur := e0
	for {
		tri := ecur.Tri
		if !tri.IsGhost() {
			eprev := ecur.Pred()
			din := Normalize(vert.Co.Sub(eprev.Src().Co))
			dout := Normalize(ecur.Dst().Co.Sub(vert.Co))
			fac := SafeAcos(-din.Dot(dout))
			ans = ans.Add(tri.Normal().Mul(fac))
		}
		ecur = ecur.RotCCW()
		if ecur == e0 {
			break
		}
	}
	return Normalize(ans)
}

// VertexShellFactor is how much further than one unit a vertex must move
// along its normal for the surrounding faces to move one unit.
func VertexShellFactor(vert *Vert) float64 {
	var accumShell, accumAngle float64
	vnorm := VertexNormal(vert)
	e := vert.E
	for {
		if !e.Tri.IsGhost() {
			eprev := e.Pred()
			faceAngle := angleV3V3V3(eprev.Src().Co, e.Src().Co, e.Dst().Co)
			accumShell += shellNormalizedToDist(vnorm, e.Tri.Normal()) * faceAngle
			accumAngle += faceAngle
		}
		e = e.RotCCW()
		if e == vert.E {
			break
		}
	}
	if accumAngle != 0 {
		return accumShell / accumAngle
	}
	return 1
}
