package trimesh

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawNumbersFiles(t *testing.T) {
	m := fanSquare(t)
	d := &Drawer{Dir: t.TempDir()}
	first, err := d.Draw("first", m)
	require.NoError(t, err)
	second, err := d.Draw("second", m)
	require.NoError(t, err)
	assert.Equal(t, "meshinset_000.png", filepath.Base(first))
	assert.Equal(t, "meshinset_001.png", filepath.Base(second))
	assert.FileExists(t, second)
}

func TestDrawSVG(t *testing.T) {
	m := fanSquare(t)
	d := &Drawer{Dir: t.TempDir(), SVG: true}
	path, err := d.Draw("fan", m)
	require.NoError(t, err)
	assert.Equal(t, "meshinset_000.svg", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := string(data)
	assert.Contains(t, doc, "<svg")
	assert.Contains(t, doc, ">fan</text>")
	// One polygon per real triangle; ghosts are skipped.
	assert.Equal(t, 4, strings.Count(doc, "<polygon"))
	assert.Contains(t, doc, ">v4</text>")
}
