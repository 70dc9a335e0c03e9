package trimesh

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"github.com/go-gl/mathgl/mgl64"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

const (
	maxDrawWidth  = 1800
	maxDrawHeight = 1600
	// Fraction of the projected extent added as margin on every side.
	drawMarginExpand = 0.05
	drawVertRadius   = 3
)

// Drawer renders the mesh to numbered image files for debugging. Images are
// PNG unless SVG is set. If Inline is set, each PNG is also written to it as
// an inline terminal image (iTerm only).
type Drawer struct {
	Dir    string
	Inline io.Writer
	SVG    bool
	count  int
}

// layout maps mesh vertices onto the image plane.
type layout struct {
	proj          [][2]float64
	minX, maxY    float64
	scale         float64
	width, height int
}

func (l *layout) xy(v *Vert) (float64, float64) {
	p := l.proj[v.ID]
	return (p[0] - l.minX) * l.scale, (l.maxY - p[1]) * l.scale
}

// The mesh is projected onto the plane most perpendicular to its average
// normal.
func newLayout(m *TriangleMesh) *layout {
	var avgNormal mgl64.Vec3
	for _, tri := range m.triangles {
		avgNormal = avgNormal.Add(triangleNormal(tri))
	}
	u, v := PlaneBasis(Normalize(avgNormal))

	proj := make([][2]float64, len(m.verts))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, vert := range m.verts {
		proj[i] = [2]float64{vert.Co.Dot(u), vert.Co.Dot(v)}
		minX = math.Min(minX, proj[i][0])
		minY = math.Min(minY, proj[i][1])
		maxX = math.Max(maxX, proj[i][0])
		maxY = math.Max(maxY, proj[i][1])
	}
	margin := ((maxX - minX) + (maxY - minY)) * drawMarginExpand
	if margin == 0 {
		margin = 1
	}
	minX, maxX = minX-margin, maxX+margin
	minY, maxY = minY-margin, maxY+margin

	width := maxX - minX
	height := maxY - minY
	aspect := height / width
	viewWidth := maxDrawWidth
	viewHeight := int(float64(viewWidth) * aspect)
	if viewHeight > maxDrawHeight {
		viewHeight = maxDrawHeight
		viewWidth = int(float64(viewHeight) / aspect)
	}
	return &layout{
		proj:   proj,
		minX:   minX,
		maxY:   maxY,
		scale:  float64(viewWidth) / width,
		width:  viewWidth,
		height: viewHeight,
	}
}

// Spokes are drawn heaviest, then region boundaries.
func edgeWidth(tri *Triangle, i int) float64 {
	otherInRegion := !tri.neighbor[i].IsNull() && tri.neighbor[i].Tri.InRegion()
	switch {
	case tri.IsSpoke(i):
		return 4
	case tri.InRegion() != otherInRegion:
		return 3
	}
	return 1
}

// Draw writes the next numbered image of the mesh into Dir and returns its
// path.
func (d *Drawer) Draw(label string, m *TriangleMesh) (string, error) {
	l := newLayout(m)
	ext := "png"
	if d.SVG {
		ext = "svg"
	}
	path := filepath.Join(d.Dir, fmt.Sprintf("meshinset_%03d.%s", d.count, ext))
	d.count++

	if d.SVG {
		f, err := os.Create(path)
		if err != nil {
			return "", errors.Wrapf(err, "creating %s", path)
		}
		defer f.Close()
		drawSVG(f, label, m, l)
		return path, nil
	}

	c := gg.NewContext(l.width, l.height)
	c.SetRGB(1, 1, 1)
	c.Clear()
	for _, tri := range m.triangles {
		if tri.IsDeleted() || tri.IsGhost() {
			continue
		}
		if tri.InRegion() {
			c.SetRGBA(0.3, 0.2, 1, 0.3)
		} else {
			c.SetRGBA(1, 1, 0, 0.3)
		}
		for i := 0; i < 3; i++ {
			c.LineTo(l.xy(tri.vert[i]))
		}
		c.ClosePath()
		c.Fill()

		var cx, cy float64
		for i := 0; i < 3; i++ {
			x0, y0 := l.xy(tri.vert[i])
			x1, y1 := l.xy(tri.vert[succIndex(i)])
			c.SetRGB(0, 0, 0)
			c.SetLineWidth(edgeWidth(tri, i))
			c.DrawLine(x0, y0, x1, y1)
			c.Stroke()
			cx += x0
			cy += y0
		}
		c.SetRGB(0.2, 0.2, 0.2)
		c.DrawStringAnchored(fmt.Sprintf("%d", tri.id), cx/3, cy/3, 0.5, 0.5)
	}
	for _, vert := range m.verts {
		if vert.IsDeleted() {
			continue
		}
		x, y := l.xy(vert)
		c.SetRGB(0, 0, 0)
		c.DrawCircle(x, y, drawVertRadius)
		c.Fill()
		c.DrawString(fmt.Sprintf("v%d", vert.ID), x+drawVertRadius, y-drawVertRadius)
	}
	c.DrawStringAnchored(label, float64(l.width)/2, 12, 0.5, 0.5)

	if err := c.SavePNG(path); err != nil {
		return "", errors.Wrapf(err, "saving %s", path)
	}
	if d.Inline != nil {
		imgcat.CatFile(path, d.Inline)
	}
	return path, nil
}

// PlaneBasis returns two unit vectors u, v such that u x v = n, for
// projecting onto the plane with normal n.
func PlaneBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	if n.LenSqr() == 0 {
		return mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}
	}
	// Any axis not too close to n.
	axis := mgl64.Vec3{1, 0, 0}
	if math.Abs(n[0]) > 0.9 {
		axis = mgl64.Vec3{0, 1, 0}
	}
	u := Normalize(axis.Cross(n))
	v := n.Cross(u)
	return u, v
}
