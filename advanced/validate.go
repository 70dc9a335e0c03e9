package advanced

import (
	"math"

	"github.com/osuushi/meshinset/internal/throw"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

func invalidf(format string, args ...interface{}) {
	throw.Fatal(errors.Wrapf(throw.ErrInvalidInput, format, args...))
}

// validateInput checks what can be checked without building the mesh. A
// contour that does not follow mesh edges is caught later, when the contour
// is split.
func validateInput(input *Input) {
	if input == nil {
		invalidf("nil input")
	}
	if math.IsNaN(input.InsetAmount) || input.InsetAmount < 0 {
		invalidf("inset amount %g is not a non-negative number", input.InsetAmount)
	}
	if math.IsNaN(input.Slope) || math.IsInf(input.Slope, 0) {
		invalidf("slope %g is not finite", input.Slope)
	}
	for i, co := range input.Verts {
		for _, c := range co {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				invalidf("vertex %d has a non-finite coordinate %v", i, co)
			}
		}
	}
	checkLoop := func(kind string, i int, loop []int) {
		if len(loop) < 3 {
			invalidf("%s %d has %d vertices, need at least 3", kind, i, len(loop))
		}
		for _, v := range loop {
			if v < 0 || v >= len(input.Verts) {
				invalidf("%s %d refers to vertex %d, which does not exist", kind, i, v)
			}
		}
		if len(lo.Uniq(loop)) != len(loop) {
			invalidf("%s %d repeats a vertex: %v", kind, i, loop)
		}
	}
	for i, face := range input.Faces {
		checkLoop("face", i, face)
	}
	if len(input.Contours) == 0 {
		invalidf("no contours")
	}
	for i, contour := range input.Contours {
		checkLoop("contour", i, contour)
	}
}
