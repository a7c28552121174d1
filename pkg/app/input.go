package app

import "github.com/go-gl/glfw/v3.3/glfw"

// EdgeDetector turns polled key state into press events. A key is reported
// once when it goes from released to pressed and not again until released.
type EdgeDetector struct {
	keys []glfw.Key
	down map[glfw.Key]bool
}

// NewEdgeDetector tracks the given keys, all initially released
func NewEdgeDetector(keys ...glfw.Key) *EdgeDetector {
	return &EdgeDetector{
		keys: keys,
		down: make(map[glfw.Key]bool, len(keys)),
	}
}

// Update samples every tracked key and returns the ones pressed since the
// previous call, in tracking order.
func (e *EdgeDetector) Update(isDown func(glfw.Key) bool) []glfw.Key {
	var pressed []glfw.Key
	for _, key := range e.keys {
		now := isDown(key)
		if now && !e.down[key] {
			pressed = append(pressed, key)
		}
		e.down[key] = now
	}
	return pressed
}

// PointerTracker converts absolute cursor positions into per-event offsets
type PointerTracker struct {
	lastX, lastY float64
	primed       bool
}

// Offset returns the motion since the previous sample with Y inverted, so
// moving the pointer up yields a positive y. The first sample after a Reset
// yields zero.
func (p *PointerTracker) Offset(x, y float64) (dx, dy float32) {
	if !p.primed {
		p.lastX, p.lastY = x, y
		p.primed = true
		return 0, 0
	}
	dx = float32(x - p.lastX)
	dy = float32(p.lastY - y)
	p.lastX, p.lastY = x, y
	return dx, dy
}

// Reset forgets the last position
func (p *PointerTracker) Reset() {
	p.primed = false
}
