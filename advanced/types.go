// Package advanced exposes the inset engine with every knob available. Most
// callers want the root meshinset package instead, which converts internal
// failures into errors.
package advanced

import (
	"io"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/osuushi/meshinset/internal/skeleton"
	"go.uber.org/zap"
)

type (
	EventKind = skeleton.EventKind
	Stats     = skeleton.Stats
)

const (
	ClosingEvent = skeleton.ClosingEvent
	VertexEvent  = skeleton.VertexEvent
	SplitEvent   = skeleton.SplitEvent
	FlipEvent    = skeleton.FlipEvent
)

// Input describes a polygon mesh and the contours on it to inset.
//
// Faces are counterclockwise lists of at least three indices into Verts.
// Contours are counterclockwise cycles of vertex indices, each consecutive
// pair of which must be joined by a face edge. The region to inset is on the
// left of each contour edge.
type Input struct {
	Verts    []mgl64.Vec3
	Faces    [][]int
	Contours [][]int
	// How far to move the contours. Must not be negative.
	InsetAmount float64
	// Inset vertices are raised along their normals by height times Slope.
	Slope float64
	// Fill in Result.OrigVert and Result.OrigFace.
	NeedIDs bool
}

// Result is the inset mesh. It holds only the faces made from the inset
// region; faces of the input outside every contour are left to the caller.
type Result struct {
	Verts []mgl64.Vec3
	// One rim face per input contour edge, followed by the interior faces.
	Faces [][]int
	// The inset contours. A contour can split into several, or vanish.
	Contours [][]int
	// For each output contour, the index of the input contour it came from.
	ContourOrig []int
	// For each output vertex, the input vertex it is, or -1 if it is new.
	OrigVert []int
	// For each output face, the input face it came from, or -1.
	OrigFace []int
	Stats    Stats
}

type Options struct {
	// Faces are triangulated on this many goroutines. Defaults to the number
	// of CPUs.
	Workers int
	// Defaults to a no-op logger.
	Logger *zap.Logger
	Debug  *DebugOptions
}

// DebugOptions turn on the slow diagnostic paths of the engine.
type DebugOptions struct {
	// Directory to write numbered PNG snapshots of the triangle mesh to.
	DrawDir string
	// Write SVG snapshots instead of PNG.
	SVG bool
	// If set along with DrawDir, snapshots are also written here as inline
	// terminal images.
	Inline io.Writer
	// Check every mesh invariant after each event.
	Validate bool
	// Called for every event that changes the mesh.
	OnEvent func(kind EventKind, height float64)
}

func (o *Options) withDefaults() Options {
	var result Options
	if o != nil {
		result = *o
	}
	if result.Workers <= 0 {
		result.Workers = runtime.NumCPU()
	}
	if result.Logger == nil {
		result.Logger = zap.NewNop()
	}
	return result
}
