package scene

import (
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-learnopengl/pkg/render"
)

// Attenuation shared by the point lights and the flashlight
const (
	attenuationConstant  = 1.0
	attenuationLinear    = 0.09
	attenuationQuadratic = 0.032
)

const (
	ambientFactor      = 0.1
	materialShininess  = 32.0
	flashlightInner    = 12.5
	flashlightOuter    = 17.5
	lampScale          = 0.2
	defaultFlashlight  = true
	directionalUniform = "directionalLight"
	spotUniform        = "spotLight"
)

var (
	directionalDirection = mgl32.Vec3{-0.2, -1.0, -0.3}

	pointLightPositions = [PointLightCount]mgl32.Vec3{
		{0.7, 0.2, 2.0},
		{2.3, -3.3, -4.0},
		{-4.0, 2.0, -12.0},
		{0.0, 0.0, -3.0},
	}

	flashlightColor    = mgl32.Vec3{1, 1, 1}
	flashlightSpecular = mgl32.Vec3{1, 1, 1}
)

// Lit draws an imported model under one directional light, four point lights
// and a camera-mounted flashlight. The light colours come from the active
// preset.
type Lit struct {
	resources

	ctx     Context
	program Program
	lamp    Program
	model   ModelDrawer
	lampBox Drawable

	preset     int
	flashlight bool
	lighting   Lighting
}

type litResources struct {
	program Program
	lamp    Program
	model   ModelDrawer
	lampBox Drawable
}

func newLit(ctx Context, res litResources) *Lit {
	l := &Lit{
		ctx:        ctx,
		program:    res.program,
		lamp:       res.lamp,
		model:      res.model,
		lampBox:    res.lampBox,
		flashlight: defaultFlashlight,
	}
	l.SetPreset(0)
	return l
}

func (*Lit) isScene() {}

// Kind reports KindLit
func (*Lit) Kind() Kind {
	return KindLit
}

// Preset returns the index of the active lighting preset
func (l *Lit) Preset() int {
	return l.preset
}

// Flashlight reports whether the camera-mounted spotlight is on
func (l *Lit) Flashlight() bool {
	return l.flashlight
}

// Lighting returns the current colour state
func (l *Lit) Lighting() Lighting {
	return l.lighting
}

// SetPreset activates preset i, wrapping out-of-range indices around the
// table in either direction.
func (l *Lit) SetPreset(i int) {
	l.preset = wrapPreset(i)
	l.lighting = Presets[l.preset].Lighting
	slog.Debug("lighting preset", "index", l.preset, "name", Presets[l.preset].Name)
}

// NextPreset advances to the following preset
func (l *Lit) NextPreset() {
	l.SetPreset(l.preset + 1)
}

// PreviousPreset steps back to the preceding preset
func (l *Lit) PreviousPreset() {
	l.SetPreset(l.preset - 1)
}

// ToggleFlashlight flips the spotlight on or off
func (l *Lit) ToggleFlashlight() {
	l.flashlight = !l.flashlight
}

// HandleKey maps up/down to preset cycling and F to the flashlight
func (l *Lit) HandleKey(key glfw.Key, _ float32) {
	switch key {
	case render.KeyUp:
		l.NextPreset()
	case render.KeyDown:
		l.PreviousPreset()
	case render.KeyF:
		l.ToggleFlashlight()
	}
}

// Render draws the model and one lamp per point light
func (l *Lit) Render() {
	sky := l.lighting.Sky
	l.ctx.Surface.Clear(sky.Vec4(1))

	view, projection := l.ctx.frame()
	model := mgl32.Ident4()

	p := l.program
	p.Use()
	p.SetFloat("material.shininess", materialShininess)
	p.SetFloat("material.emissionIntensity", 0)

	// Lights are supplied in view space
	p.SetVec3(directionalUniform+".direction", view.Mul4x1(directionalDirection.Vec4(0)).Vec3())
	p.SetVec3(directionalUniform+".ambient", l.lighting.DirectionalColor.Mul(ambientFactor))
	p.SetVec3(directionalUniform+".diffuse", l.lighting.DirectionalColor)
	p.SetVec3(directionalUniform+".specular", l.lighting.DirectionalSpecular)

	for i, pos := range pointLightPositions {
		prefix := fmt.Sprintf("pointLights[%d].", i)
		color := l.lighting.PointColors[i]
		p.SetVec3(prefix+"position", view.Mul4x1(pos.Vec4(1)).Vec3())
		p.SetVec3(prefix+"ambient", color.Mul(ambientFactor))
		p.SetVec3(prefix+"diffuse", color)
		p.SetVec3(prefix+"specular", l.lighting.PointSpeculars[i])
		p.SetFloat(prefix+"constant", attenuationConstant)
		p.SetFloat(prefix+"linear", attenuationLinear)
		p.SetFloat(prefix+"quadratic", attenuationQuadratic)
	}

	p.SetVec3(spotUniform+".position", mgl32.Vec3{})
	p.SetVec3(spotUniform+".direction", mgl32.Vec3{0, 0, -1})
	if l.flashlight {
		p.SetVec3(spotUniform+".ambient", flashlightColor.Mul(ambientFactor))
		p.SetVec3(spotUniform+".diffuse", flashlightColor)
		p.SetVec3(spotUniform+".specular", flashlightSpecular)
	} else {
		p.SetVec3(spotUniform+".ambient", mgl32.Vec3{})
		p.SetVec3(spotUniform+".diffuse", mgl32.Vec3{})
		p.SetVec3(spotUniform+".specular", mgl32.Vec3{})
	}
	p.SetFloat(spotUniform+".constant", attenuationConstant)
	p.SetFloat(spotUniform+".linear", attenuationLinear)
	p.SetFloat(spotUniform+".quadratic", attenuationQuadratic)
	p.SetFloat(spotUniform+".innerCutOff", math32.Cos(mgl32.DegToRad(flashlightInner)))
	p.SetFloat(spotUniform+".outerCutOff", math32.Cos(mgl32.DegToRad(flashlightOuter)))

	p.SetVec3("viewPos", l.ctx.Camera.Position())
	p.SetMat4("model", model)
	p.SetMat4("view", view)
	p.SetMat4("projection", projection)
	p.SetMat3("normalMatView", normalMatrix(view, model))

	l.model.Draw(p)

	l.lamp.Use()
	l.lamp.SetMat4("view", view)
	l.lamp.SetMat4("projection", projection)
	for i, pos := range pointLightPositions {
		l.lamp.SetVec3("lightColor", l.lighting.PointColors[i])
		l.lamp.SetMat4("model", mgl32.Translate3D(pos.X(), pos.Y(), pos.Z()).
			Mul4(mgl32.Scale3D(lampScale, lampScale, lampScale)))
		l.lampBox.Draw()
	}
}
