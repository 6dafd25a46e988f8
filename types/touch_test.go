package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecyclePressing(t *testing.T) {
	assert.True(t, LifecycleTouching.Pressing())
	assert.True(t, LifecycleActive.Pressing())

	assert.False(t, LifecycleHovering.Pressing())
	assert.False(t, LifecycleLifting.Pressing())
	assert.False(t, LifecycleLingering.Pressing())
	assert.False(t, LifecycleNotTracking.Pressing())
}

func TestCentroid(t *testing.T) {
	samples := []TouchSample{
		{X: 0.0, Y: 0.0},
		{X: 0.6, Y: 0.3},
		{X: 0.3, Y: 0.6},
	}
	c := Centroid(samples)
	assert.InDelta(t, 0.3, c.X, 1e-9)
	assert.InDelta(t, 0.3, c.Y, 1e-9)

	assert.Equal(t, Point{}, Centroid(nil))
}

func TestModifierMaskHas(t *testing.T) {
	mask := ModifierControl | ModifierShift
	assert.True(t, mask.Has(ModifierControl))
	assert.True(t, mask.Has(ModifierShift))
	assert.True(t, mask.Has(ModifierControl|ModifierShift))
	assert.False(t, mask.Has(ModifierFn))
	assert.False(t, mask.Has(ModifierControl|ModifierFn))
}

func TestScreenRectClamp(t *testing.T) {
	r := ScreenRect{X: 0, Y: 0, Width: 1920, Height: 1080}

	assert.Equal(t, Point{X: 500, Y: 500}, r.Clamp(Point{X: 500, Y: 500}))
	assert.Equal(t, Point{X: 1919, Y: 1079}, r.Clamp(Point{X: 5000, Y: 9000}))
	assert.Equal(t, Point{X: 0, Y: 0}, r.Clamp(Point{X: -10, Y: -10}))

	// each axis clamps independently
	assert.Equal(t, Point{X: 1919, Y: 300}, r.Clamp(Point{X: 2000, Y: 300}))

	// offset displays keep their own origin
	offset := ScreenRect{X: 1920, Y: 0, Width: 1280, Height: 720}
	assert.Equal(t, Point{X: 1920, Y: 0}, offset.Clamp(Point{X: 100, Y: -5}))
	assert.Equal(t, Point{X: 3199, Y: 719}, offset.Clamp(Point{X: 9999, Y: 9999}))
}

func TestScreenRectContains(t *testing.T) {
	r := ScreenRect{X: 0, Y: 0, Width: 1920, Height: 1080}

	assert.True(t, r.Contains(Point{X: 0, Y: 0}))
	assert.True(t, r.Contains(Point{X: 1919, Y: 1079}))
	assert.False(t, r.Contains(Point{X: 1920, Y: 500}))
	assert.False(t, r.Contains(Point{X: -1, Y: 500}))
}
