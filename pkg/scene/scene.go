// Package scene implements the fixed set of demo scenes the sandbox cycles
// through. Every scene owns its own programs, geometry and textures, and only
// borrows the shared camera and the output surface.
package scene

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-learnopengl/internal/openglhelper"
	"github.com/leterax/go-learnopengl/pkg/render"
)

// Kind identifies one of the scene variants
type Kind int

const (
	KindBox Kind = iota
	KindLight
	KindLit
)

// Kinds lists every scene variant in presentation order
var Kinds = [...]Kind{KindBox, KindLight, KindLit}

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "boxes"
	case KindLight:
		return "light"
	case KindLit:
		return "lit-model"
	default:
		return "unknown"
	}
}

// ParseKind resolves a scene name as used on the command line and in config
func ParseKind(name string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == name {
			return k, true
		}
	}
	return 0, false
}

// Scene is a self-contained drawable demo. The implementation set is closed:
// only the variants in this package satisfy it.
type Scene interface {
	// Kind reports which variant this is
	Kind() Kind

	// Render draws one frame using the scene's own resources. It reads the
	// camera but never mutates it.
	Render()

	// HandleKey applies at most one state transition for a key event.
	// deltaTime is only used by rate-based adjustments.
	HandleKey(key glfw.Key, deltaTime float32)

	// Release deletes the GPU resources the scene owns
	Release()

	isScene()
}

var (
	_ Scene = (*Box)(nil)
	_ Scene = (*Light)(nil)
	_ Scene = (*Lit)(nil)
)

// Program is a linked shader program with string-keyed uniform setters.
// *openglhelper.Shader implements it.
type Program interface {
	Use()
	SetBool(name string, value bool)
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
	SetVec3(name string, value mgl32.Vec3)
	SetVec4(name string, value mgl32.Vec4)
	SetMat3(name string, value mgl32.Mat3)
	SetMat4(name string, value mgl32.Mat4)
}

// Drawable is geometry drawn with the currently bound program
type Drawable interface {
	Draw()
}

// ModelDrawer is an imported model that binds its own material samplers
type ModelDrawer interface {
	Draw(program openglhelper.SamplerSetter)
}

// Texture is a bindable texture
type Texture interface {
	Bind(unit uint32)
}

// Surface is the output the scene renders into
type Surface interface {
	FramebufferSize() (width, height int)
	Clear(color mgl32.Vec4)
}

// Clock returns absolute seconds from a monotonic source. Animations sample
// it directly instead of integrating frame deltas.
type Clock func() float64

// Context carries the collaborators every scene borrows
type Context struct {
	Camera  *render.Camera
	Surface Surface
	Clock   Clock
}

// deleter is any GPU resource a scene owns
type deleter interface {
	Delete()
}

// resources is embedded by every scene to track ownership
type resources struct {
	owned []deleter
}

func (r *resources) own(d ...deleter) {
	r.owned = append(r.owned, d...)
}

// Release deletes every owned resource exactly once
func (r *resources) Release() {
	for i := len(r.owned) - 1; i >= 0; i-- {
		r.owned[i].Delete()
	}
	r.owned = nil
}

// frame computes the matrices shared by every scene for the current frame
func (c Context) frame() (view, projection mgl32.Mat4) {
	width, height := c.Surface.FramebufferSize()
	return c.Camera.ViewMatrix(), render.Projection(c.Camera.FOV(), width, height)
}

// normalMatrix returns the matrix that carries model normals into view space
func normalMatrix(view, model mgl32.Mat4) mgl32.Mat3 {
	return view.Mul4(model).Mat3().Inv().Transpose()
}
