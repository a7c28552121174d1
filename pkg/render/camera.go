// Package render holds the free-look camera shared by every scene, together
// with the key and projection constants the frame loop and scenes agree on.
package render

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Direction is a movement intent reported by the input layer.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
)

// MovementMode selects the axis used for forward/backward movement.
type MovementMode int

const (
	// Fly moves along the full 3D front vector.
	Fly MovementMode = iota
	// Walk moves along front projected onto the ground plane, so looking up or
	// down never changes height.
	Walk
)

// String returns the config name of the mode.
func (m MovementMode) String() string {
	switch m {
	case Walk:
		return "walk"
	default:
		return "fly"
	}
}

// Camera implements a 3D free-look camera driven by Euler angles
type Camera struct {
	// Position and orientation
	position mgl32.Vec3
	worldUp  mgl32.Vec3
	front    mgl32.Vec3
	up       mgl32.Vec3
	right    mgl32.Vec3

	// Euler angles in degrees
	yaw   float32
	pitch float32

	// Camera options
	fov              float32
	movementSpeed    float32
	mouseSensitivity float32
	mode             MovementMode

	// Movement intents for the current frame
	moveForward bool
	moveBack    bool
	moveLeft    bool
	moveRight   bool
}

// NewCamera creates a camera at position with a Y-up world and default angles
func NewCamera(position mgl32.Vec3) Camera {
	return NewCameraWithAngles(position, mgl32.Vec3{0, 1, 0}, DefaultYaw, DefaultPitch)
}

// NewCameraWithAngles creates a camera with an explicit world up vector and
// initial yaw and pitch in degrees. Pitch is clamped to [MinPitch, MaxPitch].
func NewCameraWithAngles(position, worldUp mgl32.Vec3, yaw, pitch float32) Camera {
	camera := Camera{
		position:         position,
		worldUp:          worldUp.Normalize(),
		front:            mgl32.Vec3{0, 0, -1},
		yaw:              yaw,
		pitch:            clampPitch(pitch),
		fov:              DefaultFOV,
		movementSpeed:    DefaultMoveSpeed,
		mouseSensitivity: DefaultSensitivity,
	}

	camera.deriveBasis()

	return camera
}

// deriveBasis recalculates front, right and up from the Euler angles
func (c *Camera) deriveBasis() {
	yaw := mgl32.DegToRad(c.yaw)
	pitch := mgl32.DegToRad(c.pitch)

	front := mgl32.Vec3{
		math32.Cos(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Sin(yaw) * math32.Cos(pitch),
	}
	c.front = front.Normalize()

	// Re-calculate right and up vectors
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clampPitch(pitch float32) float32 {
	return mgl32.Clamp(pitch, MinPitch, MaxPitch)
}

// ViewMatrix returns the world-to-camera transform
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.front), c.up)
}

// Position returns the current camera position
func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// SetPosition sets the camera position
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.position = pos
}

// Orientation returns the current camera orientation (yaw, pitch)
func (c *Camera) Orientation() (yaw, pitch float32) {
	return c.yaw, c.pitch
}

// FOV returns the vertical field of view in degrees
func (c *Camera) FOV() float32 {
	return c.fov
}

// MovementSpeed returns the speed in world units per second
func (c *Camera) MovementSpeed() float32 {
	return c.movementSpeed
}

// SetMovementSpeed sets the speed in world units per second
func (c *Camera) SetMovementSpeed(speed float32) {
	c.movementSpeed = max(speed, 0)
}

// SetMouseSensitivity sets the degrees of rotation per pixel of pointer motion
func (c *Camera) SetMouseSensitivity(sensitivity float32) {
	c.mouseSensitivity = max(sensitivity, 0)
}

// MovementMode returns how forward movement is resolved
func (c *Camera) MovementMode() MovementMode {
	return c.mode
}

// SetMovementMode selects flying or walking movement
func (c *Camera) SetMovementMode(mode MovementMode) {
	c.mode = mode
}

// LookAt makes the camera look at a specific point
func (c *Camera) LookAt(target mgl32.Vec3) {
	direction := target.Sub(c.position)
	if direction.Len() == 0 {
		return
	}
	direction = direction.Normalize()

	// Calculate yaw and pitch from direction vector
	c.yaw = mgl32.RadToDeg(math32.Atan2(direction.Z(), direction.X()))
	c.pitch = clampPitch(mgl32.RadToDeg(math32.Asin(direction.Y())))

	c.deriveBasis()
}

// FrontVector returns the camera's front direction vector
func (c *Camera) FrontVector() mgl32.Vec3 {
	return c.front
}

// RightVector returns the camera's right direction vector
func (c *Camera) RightVector() mgl32.Vec3 {
	return c.right
}

// UpVector returns the camera's up direction vector
func (c *Camera) UpVector() mgl32.Vec3 {
	return c.up
}

// QueueMovement records a movement intent for the current frame. It may be
// called for several directions before the frame's ResolveMovement.
func (c *Camera) QueueMovement(direction Direction) {
	switch direction {
	case Forward:
		c.moveForward = true
	case Backward:
		c.moveBack = true
	case Left:
		c.moveLeft = true
	case Right:
		c.moveRight = true
	}
}

// ResolveMovement applies the queued intents once per frame and clears them.
// Diagonal intents are normalised so they move no faster than a single axis.
func (c *Camera) ResolveMovement(deltaTime float32) {
	var intent mgl32.Vec2
	if c.moveForward {
		intent[0]++
	}
	if c.moveBack {
		intent[0]--
	}
	if c.moveLeft {
		intent[1]--
	}
	if c.moveRight {
		intent[1]++
	}

	c.moveForward, c.moveBack, c.moveLeft, c.moveRight = false, false, false, false

	if intent.Len() == 0 {
		return
	}
	intent = intent.Normalize()

	velocity := c.movementSpeed * deltaTime
	forward := c.forwardAxis()

	c.position = c.position.
		Add(forward.Mul(intent.X() * velocity)).
		Add(c.right.Mul(intent.Y() * velocity))
}

// forwardAxis is front in Fly mode and front flattened onto the plane
// orthogonal to worldUp in Walk mode.
func (c *Camera) forwardAxis() mgl32.Vec3 {
	if c.mode != Walk {
		return c.front
	}

	flat := c.front.Sub(c.worldUp.Mul(c.front.Dot(c.worldUp)))
	if flat.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return flat.Normalize()
}

// ApplyRotationInput turns pointer offsets into yaw and pitch changes. yOffset
// is positive for upward motion, so callers invert raw screen-space deltas.
func (c *Camera) ApplyRotationInput(xOffset, yOffset float32, constrainPitch bool) {
	// Apply sensitivity
	xOffset *= c.mouseSensitivity
	yOffset *= c.mouseSensitivity

	// Update camera angles
	c.yaw += xOffset
	c.pitch += yOffset

	// Make sure the basis never flips at the poles
	if constrainPitch {
		c.pitch = clampPitch(c.pitch)
	}

	c.deriveBasis()
}

// ApplyZoomInput narrows or widens the field of view from a scroll delta
func (c *Camera) ApplyZoomInput(yOffset float32) {
	c.fov = mgl32.Clamp(c.fov-yOffset, MinFOV, MaxFOV)
}

// Projection builds the perspective projection used by every scene. A zero
// framebuffer height (minimised window) is treated as one pixel.
func Projection(fovDegrees float32, width, height int) mgl32.Mat4 {
	if height <= 0 {
		height = 1
	}
	if width <= 0 {
		width = 1
	}
	aspect := float32(width) / float32(height)
	return mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, NearPlane, FarPlane)
}
