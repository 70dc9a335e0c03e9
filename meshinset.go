// Package meshinset insets contours on a polygon mesh by computing the
// straight skeleton of the region they enclose.
//
// Give it a mesh, a set of closed vertex loops running along its edges, and a
// distance, and it moves those loops inward by that distance. Where the
// shrinking loops collide, split or collapse, the result gets the geometry of
// the skeleton. The inset ring can also be raised along the surface normals
// to form a slope.
package meshinset

import "github.com/osuushi/meshinset/advanced"

type (
	Input   = advanced.Input
	Result  = advanced.Result
	Options = advanced.Options
)

var (
	// ErrInvalidInput is wrapped by errors caused by a malformed Input.
	ErrInvalidInput = advanced.ErrInvalidInput
	// ErrTopology and ErrWalkNotClosed are wrapped by internal consistency
	// failures. Self intersecting contours are the usual cause.
	ErrTopology      = advanced.ErrTopology
	ErrWalkNotClosed = advanced.ErrWalkNotClosed
)

// Inset computes the inset of input's contours. Faces must be CCW, and each
// contour must be a CCW loop of mesh edges with the region to inset on its
// left. Options may be nil.
func Inset(input *Input, options *Options) (result *Result, err error) {
	defer func() {
		recoveredErr := advanced.HandleInsetPanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()
	return advanced.Calc(input, options), nil
}
