package meshinset

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(amount float64) *Input {
	return &Input{
		Verts:       []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Faces:       [][]int{{0, 1, 2, 3}},
		Contours:    [][]int{{0, 1, 2, 3}},
		InsetAmount: amount,
		NeedIDs:     true,
	}
}

// Smoke test. The internals are already tested.
func TestInset(t *testing.T) {
	result, err := Inset(square(0.25), nil)
	require.NoError(t, err)
	assert.Len(t, result.Verts, 8)
	assert.Len(t, result.Faces, 5)
	assert.Equal(t, []int{0, 1, 2, 3, -1, -1, -1, -1}, result.OrigVert)
}

func TestInsetErrors(t *testing.T) {
	input := square(0.25)
	input.Contours = [][]int{{0, 1, 3}}
	result, err := Inset(input, nil)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

	result, err = Inset(square(-0.5), nil)
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)

	_, err = Inset(nil, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput), "got %v", err)
}
