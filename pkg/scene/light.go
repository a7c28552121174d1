package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	coralColor = mgl32.Vec3{1.0, 0.5, 0.31}
	whiteColor = mgl32.Vec3{1.0, 1.0, 1.0}
)

// Light shows a single Phong-lit box next to a small lamp that drifts on a
// fixed path.
type Light struct {
	resources

	ctx     Context
	object  Program
	lamp    Program
	cube    Drawable
	lampBox Drawable

	lightPos mgl32.Vec3
}

type lightResources struct {
	object  Program
	lamp    Program
	cube    Drawable
	lampBox Drawable
}

func newLight(ctx Context, res lightResources) *Light {
	return &Light{
		ctx:      ctx,
		object:   res.object,
		lamp:     res.lamp,
		cube:     res.cube,
		lampBox:  res.lampBox,
		lightPos: mgl32.Vec3{1.2, 1.0, 2.0},
	}
}

func (*Light) isScene() {}

// Kind reports KindLight
func (*Light) Kind() Kind {
	return KindLight
}

// LightPosition returns where the lamp was drawn on the last frame
func (l *Light) LightPosition() mgl32.Vec3 {
	return l.lightPos
}

// lampPosition is the lamp's world position at absolute time now
func lampPosition(now float64, z float32) mgl32.Vec3 {
	t := float32(now)
	return mgl32.Vec3{math32.Sin(t) * 2.0, 1.0 + math32.Sin(t/2.0), z}
}

// Render draws the lit box and the lamp
func (l *Light) Render() {
	l.lightPos = lampPosition(l.ctx.Clock(), l.lightPos.Z())
	view, projection := l.ctx.frame()

	model := mgl32.Ident4()
	l.object.Use()
	l.object.SetVec3("objectColor", coralColor)
	l.object.SetVec3("lightColor", whiteColor)
	l.object.SetVec3("lightPos", l.lightPos)
	l.object.SetVec3("viewPos", l.ctx.Camera.Position())
	l.object.SetMat4("model", model)
	l.object.SetMat3("normalMatView", normalMatrix(view, model))
	l.object.SetMat4("view", view)
	l.object.SetMat4("projection", projection)
	l.cube.Draw()

	lampModel := mgl32.Translate3D(l.lightPos.X(), l.lightPos.Y(), l.lightPos.Z()).
		Mul4(mgl32.Scale3D(0.2, 0.2, 0.2))
	l.lamp.Use()
	l.lamp.SetVec3("lightColor", whiteColor)
	l.lamp.SetMat4("model", lampModel)
	l.lamp.SetMat4("view", view)
	l.lamp.SetMat4("projection", projection)
	l.lampBox.Draw()
}

// HandleKey accepts scene keys; this scene has no adjustable state
func (l *Light) HandleKey(glfw.Key, float32) {}
