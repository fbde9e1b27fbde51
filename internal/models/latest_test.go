package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpeedColor(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, ColorUnknown, SpeedColor(nil))
	assert.Equal(t, ColorCongested, SpeedColor(f(0)))
	assert.Equal(t, ColorCongested, SpeedColor(f(14.9)))
	assert.Equal(t, ColorSlow, SpeedColor(f(15)))
	assert.Equal(t, ColorSlow, SpeedColor(f(29.9)))
	assert.Equal(t, ColorModerate, SpeedColor(f(30)))
	assert.Equal(t, ColorModerate, SpeedColor(f(44.9)))
	assert.Equal(t, ColorFreeFlow, SpeedColor(f(45)))
	assert.Equal(t, ColorFreeFlow, SpeedColor(f(120)))
}
