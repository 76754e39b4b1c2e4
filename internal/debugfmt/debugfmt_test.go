package debugfmt

import (
	"testing"

	"github.com/k0kubun/pp/v3"
	"github.com/stretchr/testify/assert"
)

func TestSetColorTogglesPackageFlag(t *testing.T) {
	defer SetColor(true)

	SetColor(false)
	assert.False(t, pp.ColoringEnabled)
	SetColor(true)
	assert.True(t, pp.ColoringEnabled)
}

func TestSprintRendersValue(t *testing.T) {
	out := Sprint(map[string]int{"top": 5})
	assert.Contains(t, out, "top")
	assert.Contains(t, out, "5")
}
