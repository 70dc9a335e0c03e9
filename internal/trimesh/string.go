package trimesh

import (
	"fmt"
	"strings"

	"github.com/logrusorgru/aurora"
)

// String colors the triangle name by its state: cyan for ghosts, red for
// deleted, green inside the region still being inset.
func (t *Triangle) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "t%d(", t.id)
	for i, v := range t.vert {
		if v == nil {
			b.WriteString("vnull")
		} else {
			fmt.Fprintf(&b, "v%d", v.ID)
		}
		if i < 2 {
			b.WriteString(",")
		}
	}
	fmt.Fprintf(&b, ") nbr(%v,%v,%v)", t.neighbor[0], t.neighbor[1], t.neighbor[2])
	if t.InRegion() {
		b.WriteString(" r")
	}
	for i := 0; i < 3; i++ {
		if t.IsSpoke(i) {
			fmt.Fprintf(&b, " s%d", i)
		}
		if t.IsOrig(i) {
			fmt.Fprintf(&b, " o%d", i)
		}
	}
	s := b.String()
	switch {
	case t.IsDeleted():
		return aurora.Red(s + " deleted").String()
	case t.IsGhost():
		return aurora.Cyan(s).String()
	case t.InRegion():
		return aurora.Green(s).String()
	}
	return s
}

// String lists the live vertices and non-ghost triangles.
func (m *TriangleMesh) String() string {
	var b strings.Builder
	b.WriteString("\nTriangleMesh\nVERTS\n")
	for _, v := range m.verts {
		if !v.IsDeleted() {
			b.WriteString(v.String())
			b.WriteString("\n")
		}
	}
	b.WriteString("\nTRIS\n")
	for _, t := range m.triangles {
		if !t.IsDeleted() && !t.IsGhost() {
			b.WriteString(t.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}
