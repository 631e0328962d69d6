package genemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShape_ScaleTranslate(t *testing.T) {
	s := Shape{{0, 1}, {0.5, 0}}
	got := s.Scale(50, 75).Translate(2, 2)
	assert.Equal(t, Shape{{2, 77}, {27, 2}}, got)
	// The template itself is untouched.
	assert.Equal(t, Shape{{0, 1}, {0.5, 0}}, s)
}

func TestShape_Points(t *testing.T) {
	assert.Equal(t, "0,75 25,7.5 -2.25,73", Shape{{0, 75}, {25, 7.5}, {-2.25, 73}}.Points())
	assert.Equal(t, "", Shape{}.Points())
}

func TestMarkerTemplates(t *testing.T) {
	assert.Len(t, TSSShape, 6)
	assert.Len(t, InvertedTSSShape, 6)
	assert.Len(t, TerminatorShape, 4)
	assert.Len(t, InvertedTerminatorShape, 4)
}
