package render

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Keys the frame loop and scenes react to
const (
	KeyW        = glfw.KeyW
	KeyA        = glfw.KeyA
	KeyS        = glfw.KeyS
	KeyD        = glfw.KeyD
	KeyC        = glfw.KeyC
	KeyF        = glfw.KeyF
	KeyM        = glfw.KeyM
	KeyEscape   = glfw.KeyEscape
	KeyUp       = glfw.KeyUp
	KeyDown     = glfw.KeyDown
	KeyLeft     = glfw.KeyLeft
	KeyRight    = glfw.KeyRight
	KeyPageUp   = glfw.KeyPageUp
	KeyPageDown = glfw.KeyPageDown
)

// Camera constants
const (
	// Movement speeds
	DefaultMoveSpeed   = 2.5
	DefaultSensitivity = 0.05

	// Default orientation
	DefaultYaw   = -90.0 // Facing -Z direction
	DefaultPitch = 0.0

	// Field of view
	DefaultFOV = 45.0
	MinFOV     = 1.0
	MaxFOV     = 45.0

	// Degrees of zoom per scroll wheel step
	DefaultScrollScale = 0.1

	// Constraints
	MaxPitch = 89.0
	MinPitch = -89.0

	// Clipping planes
	NearPlane = 0.1
	FarPlane  = 100.0
)
