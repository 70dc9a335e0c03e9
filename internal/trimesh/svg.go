package trimesh

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
)

// drawSVG writes the same picture as the PNG drawer as an SVG document, which
// stays legible when zoomed into dense parts of the mesh.
func drawSVG(w io.Writer, label string, m *TriangleMesh, l *layout) {
	canvas := svg.New(w)
	canvas.Start(l.width, l.height)
	canvas.Rect(0, 0, l.width, l.height, "fill:white")
	for _, tri := range m.triangles {
		if tri.IsDeleted() || tri.IsGhost() {
			continue
		}
		xs := make([]int, 3)
		ys := make([]int, 3)
		var cx, cy int
		for i := 0; i < 3; i++ {
			x, y := l.xy(tri.vert[i])
			xs[i], ys[i] = int(x), int(y)
			cx += xs[i]
			cy += ys[i]
		}
		fill := "fill:rgb(255,255,0);fill-opacity:0.3"
		if tri.InRegion() {
			fill = "fill:rgb(77,51,255);fill-opacity:0.3"
		}
		canvas.Polygon(xs, ys, fill)
		for i := 0; i < 3; i++ {
			j := succIndex(i)
			canvas.Line(xs[i], ys[i], xs[j], ys[j], fmt.Sprintf("stroke:black;stroke-width:%g", edgeWidth(tri, i)))
		}
		canvas.Text(cx/3, cy/3, fmt.Sprintf("%d", tri.id), "text-anchor:middle;font-size:10px;fill:#333")
	}
	for _, vert := range m.verts {
		if vert.IsDeleted() {
			continue
		}
		x, y := l.xy(vert)
		canvas.Circle(int(x), int(y), drawVertRadius, "fill:black")
		canvas.Text(int(x)+drawVertRadius, int(y)-drawVertRadius, fmt.Sprintf("v%d", vert.ID), "font-size:10px")
	}
	canvas.Text(l.width/2, 12, label, "text-anchor:middle;font-size:12px")
	canvas.End()
}
