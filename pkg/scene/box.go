package scene

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-learnopengl/pkg/render"
)

// Initial blend between the container and face textures
const DefaultTextureMix = 0.2

var boxPositions = [...]mgl32.Vec3{
	{0.0, 0.0, 0.0},
	{2.0, 5.0, -15.0},
	{-1.5, -2.2, -2.5},
	{-3.8, -2.0, -12.3},
	{2.4, -0.4, -3.5},
	{-1.7, 3.0, -7.5},
	{1.3, -2.0, -2.5},
	{1.5, 2.0, -2.5},
	{1.5, 0.2, -1.5},
	{-1.3, 1.0, -1.5},
}

var boxRotationAxis = mgl32.Vec3{1.0, 0.3, 0.5}.Normalize()

// Box draws ten textured boxes whose two textures are blended by an
// adjustable weight. Every third box spins.
type Box struct {
	resources

	ctx       Context
	program   Program
	cube      Drawable
	container Texture
	face      Texture

	mix float32
}

type boxResources struct {
	program   Program
	cube      Drawable
	container Texture
	face      Texture
}

func newBox(ctx Context, res boxResources) *Box {
	return &Box{
		ctx:       ctx,
		program:   res.program,
		cube:      res.cube,
		container: res.container,
		face:      res.face,
		mix:       DefaultTextureMix,
	}
}

func (*Box) isScene() {}

// Kind reports KindBox
func (*Box) Kind() Kind {
	return KindBox
}

// TextureMix returns the current blend weight in [0, 1]
func (b *Box) TextureMix() float32 {
	return b.mix
}

// boxModel places box i, spinning every third one by 50 degrees per second
func boxModel(i int, now float64) mgl32.Mat4 {
	pos := boxPositions[i]
	angle := 20.0 * float32(i)
	if i%3 == 0 {
		angle += float32(now) * 50.0
	}
	return mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
		Mul4(mgl32.HomogRotate3D(mgl32.DegToRad(angle), boxRotationAxis))
}

// Render draws every box
func (b *Box) Render() {
	view, projection := b.ctx.frame()
	now := b.ctx.Clock()

	b.program.Use()
	b.program.SetInt("tex0", 0)
	b.program.SetInt("tex1", 1)
	b.program.SetFloat("mixWeight", b.mix)
	b.program.SetMat4("view", view)
	b.program.SetMat4("projection", projection)

	b.container.Bind(0)
	b.face.Bind(1)

	for i := range boxPositions {
		b.program.SetMat4("model", boxModel(i, now))
		b.cube.Draw()
	}
}

// HandleKey nudges the texture blend while page up/down are held
func (b *Box) HandleKey(key glfw.Key, deltaTime float32) {
	switch key {
	case render.KeyPageUp:
		b.mix = mgl32.Clamp(b.mix+deltaTime, 0, 1)
	case render.KeyPageDown:
		b.mix = mgl32.Clamp(b.mix-deltaTime, 0, 1)
	}
}
