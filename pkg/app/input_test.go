package app

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestEdgeDetectorReportsPressTransitionsOnly(t *testing.T) {
	e := NewEdgeDetector(glfw.KeyUp, glfw.KeyF)
	held := map[glfw.Key]bool{}
	isDown := func(k glfw.Key) bool { return held[k] }

	assert.Empty(t, e.Update(isDown))

	held[glfw.KeyUp] = true
	assert.Equal(t, []glfw.Key{glfw.KeyUp}, e.Update(isDown))
	assert.Empty(t, e.Update(isDown), "held key repeats")

	held[glfw.KeyF] = true
	assert.Equal(t, []glfw.Key{glfw.KeyF}, e.Update(isDown))

	held[glfw.KeyUp] = false
	assert.Empty(t, e.Update(isDown))
	held[glfw.KeyUp] = true
	assert.Equal(t, []glfw.Key{glfw.KeyUp}, e.Update(isDown))
}

func TestEdgeDetectorIgnoresUntrackedKeys(t *testing.T) {
	e := NewEdgeDetector(glfw.KeyUp)

	pressed := e.Update(func(glfw.Key) bool { return true })
	assert.Equal(t, []glfw.Key{glfw.KeyUp}, pressed)
}

func TestPointerTrackerFirstSampleIsZero(t *testing.T) {
	var p PointerTracker

	dx, dy := p.Offset(400, 300)
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	dx, dy = p.Offset(410, 280)
	assert.Equal(t, float32(10), dx)
	assert.Equal(t, float32(20), dy, "screen Y is inverted")

	p.Reset()
	dx, dy = p.Offset(0, 0)
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}
