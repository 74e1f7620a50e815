package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlipStreamDrawsInOrder(t *testing.T) {
	s := NewFlipStream([]float64{0.1, 0.9, 0.5})

	assert.Equal(t, 0.1, s.Next())
	assert.Equal(t, 0.9, s.Next())
	assert.Equal(t, 0.5, s.Next())
	assert.Equal(t, 3, s.Consumed())
}

func TestFlipStreamExhaustionYieldsTails(t *testing.T) {
	s := NewFlipStream([]float64{0.7})
	s.Next()

	assert.Equal(t, 0.0, s.Next())
	assert.False(t, headsFrom(s.Next()))
	// Exhausted draws do not advance the cursor past the end.
	assert.Equal(t, 1, s.Consumed())
}

func TestNilFlipStreamIsSafe(t *testing.T) {
	var s *FlipStream

	assert.Equal(t, 0.0, s.Next())
	assert.Equal(t, 0, s.Consumed())
}

func TestHeadsBoundary(t *testing.T) {
	assert.False(t, headsFrom(0.0))
	assert.False(t, headsFrom(0.499))
	assert.True(t, headsFrom(0.5))
	assert.True(t, headsFrom(0.999))
}
