package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/trimesh"
)

// skelVertex is the kinetic state of a vertex taking part in the sweep. Moving
// vertices travel along velo, which advances the height dhdl units per unit of
// velo. Stationary vertices have zero velocity and a dhdl of 1.
type skelVertex struct {
	stationary bool
	position  mgl64.Vec3
	deltaPrev mgl64.Vec3
	deltaNext mgl64.Vec3
	normal    mgl64.Vec3
	velo      mgl64.Vec3
	dhdl      float64
	height    float64
}

func newMovingVertex(position mgl64.Vec3, height float64, deltaPrev, deltaNext, normal mgl64.Vec3) *skelVertex {
	velo, dhdl := calcVelo(deltaPrev, deltaNext, normal)
	return &skelVertex{
		position:  position,
		deltaPrev: deltaPrev,
		deltaNext: deltaNext,
		normal:    normal,
		velo:      velo,
		dhdl:      dhdl,
		height:    height,
	}
}

func newStationaryVertex(position mgl64.Vec3, normal mgl64.Vec3) *skelVertex {
	// A zero dhdl would poison every division by it
	return &skelVertex{stationary: true, position: position, normal: normal, dhdl: 1}
}

// Where the vertex will be when the sweep reaches height h. Vertices with a
// zero dhdl stay put.
func (skv *skelVertex) positionAt(h float64) mgl64.Vec3 {
	if skv.dhdl == 0 {
		return skv.position
	}
	return skv.position.Add(skv.velo.Mul((h - skv.height) / skv.dhdl))
}

func (skv *skelVertex) String() string {
	return fmt.Sprintf("skv(%v, dp=%v, dn=%v, n=%v, velo=%v, dhdl=%g, h=%g)",
		skv.position, skv.deltaPrev, skv.deltaNext, skv.normal, skv.velo, skv.dhdl, skv.height)
}

// calcVelo finds the bisector velocity of a wavefront vertex whose incoming
// and outgoing edge directions are deltaPrev and deltaNext, within the plane
// with the given normal. The returned dhdl is never negative.
func calcVelo(deltaPrev, deltaNext, normal mgl64.Vec3) (mgl64.Vec3, float64) {
	r1 := deltaNext.Sub(deltaPrev)
	r1 = r1.Sub(r1.Cross(normal).Cross(normal))
	var velo mgl64.Vec3
	// Use whichever bisector is better conditioned
	if r1.LenSqr() > 1e-12*deltaNext.LenSqr() {
		velo = r1
	} else {
		velo = deltaNext.Add(deltaPrev).Cross(normal)
	}
	dhdl := trimesh.Det(velo, deltaNext, normal)
	if dhdl < 0 {
		return velo.Mul(-1), -dhdl
	}
	return velo, dhdl
}
