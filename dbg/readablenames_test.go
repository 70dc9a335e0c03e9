package dbg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type thing struct{ n int }

func TestNameIsStable(t *testing.T) {
	a := &thing{1}
	b := &thing{2}
	assert.Equal(t, Name(a), Name(a))
	assert.NotEmpty(t, Name(b))
	assert.Equal(t, Name(a), Field("x", a).String)
}

func TestNameOfNil(t *testing.T) {
	var p *thing
	assert.Equal(t, "Ø", Name(p))
	assert.Equal(t, "Ø", Name(nil))
}
