package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountDirection_Delta(t *testing.T) {
	assert.Equal(t, 1, CountIncrease.Delta())
	assert.Equal(t, -1, CountDecrease.Delta())
}

func TestDecodeCountDirection(t *testing.T) {
	assert.Equal(t, CountIncrease, DecodeCountDirection("increase"))
	assert.Equal(t, CountDecrease, DecodeCountDirection("decrease"))
	// Unknown values fall back to increase
	assert.Equal(t, CountIncrease, DecodeCountDirection(""))
	assert.Equal(t, CountIncrease, DecodeCountDirection("DECREASE"))
}
