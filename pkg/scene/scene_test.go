package scene

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-learnopengl/internal/openglhelper"
	"github.com/leterax/go-learnopengl/pkg/render"
)

type fakeProgram struct {
	uses     int
	uniforms map[string]any
	deleted  int
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{uniforms: make(map[string]any)}
}

func (p *fakeProgram) Use() { p.uses++ }
func (p *fakeProgram) SetBool(name string, v bool) { p.uniforms[name] = v }
func (p *fakeProgram) SetInt(name string, v int32) { p.uniforms[name] = v }
func (p *fakeProgram) SetFloat(name string, v float32) { p.uniforms[name] = v }
func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) { p.uniforms[name] = v }
func (p *fakeProgram) SetVec4(name string, v mgl32.Vec4) { p.uniforms[name] = v }
func (p *fakeProgram) SetMat3(name string, v mgl32.Mat3) { p.uniforms[name] = v }
func (p *fakeProgram) SetMat4(name string, v mgl32.Mat4) { p.uniforms[name] = v }
func (p *fakeProgram) Delete() { p.deleted++ }

func (p *fakeProgram) vec3(t *testing.T, name string) mgl32.Vec3 {
	t.Helper()
	v, ok := p.uniforms[name].(mgl32.Vec3)
	require.True(t, ok, "uniform %s not set as vec3", name)
	return v
}

type fakeDrawable struct {
	draws   int
	deleted int
}

func (d *fakeDrawable) Draw() { d.draws++ }
func (d *fakeDrawable) Delete() { d.deleted++ }

type fakeModel struct {
	draws   int
	program openglhelper.SamplerSetter
}

func (m *fakeModel) Draw(program openglhelper.SamplerSetter) {
	m.draws++
	m.program = program
}

type fakeTexture struct {
	units []uint32
}

func (tex *fakeTexture) Bind(unit uint32) { tex.units = append(tex.units, unit) }

type fakeSurface struct {
	width, height int
	clears        []mgl32.Vec4
}

func (s *fakeSurface) FramebufferSize() (int, int) { return s.width, s.height }
func (s *fakeSurface) Clear(c mgl32.Vec4) { s.clears = append(s.clears, c) }

func testContext(now float64) (Context, *render.Camera, *fakeSurface) {
	cam := render.NewCamera(mgl32.Vec3{0, 0, 3})
	surface := &fakeSurface{width: 800, height: 600}
	return Context{
		Camera:  &cam,
		Surface: surface,
		Clock:   func() float64 { return now },
	}, &cam, surface
}

func vecInDelta(t *testing.T, expected, actual mgl32.Vec3) {
	t.Helper()
	assert.True(t, expected.ApproxEqualThreshold(actual, 1e-5), "expected %v, got %v", expected, actual)
}

func TestKindNames(t *testing.T) {
	for _, k := range Kinds {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}

	_, ok := ParseKind("terrain")
	assert.False(t, ok)
}

func TestReleaseDeletesOwnedResourcesOnce(t *testing.T) {
	ctx, _, _ := testContext(0)
	program := newFakeProgram()
	cube := &fakeDrawable{}

	box := newBox(ctx, boxResources{program: program, cube: cube, container: &fakeTexture{}, face: &fakeTexture{}})
	box.own(program, cube)

	var s Scene = box
	s.Release()
	s.Release()

	assert.Equal(t, 1, program.deleted)
	assert.Equal(t, 1, cube.deleted)
}

type fakeRegistry struct {
	added   []*openglhelper.Shader
	removed []*openglhelper.Shader
	reject  *openglhelper.Shader

	// program must still be alive when a shader is unregistered
	program *fakeProgram
	t       *testing.T
}

func (r *fakeRegistry) Add(shader *openglhelper.Shader) error {
	if shader == r.reject {
		return errors.New("cannot watch")
	}
	r.added = append(r.added, shader)
	return nil
}

func (r *fakeRegistry) Remove(shader *openglhelper.Shader) {
	assert.Zero(r.t, r.program.deleted, "shader deleted before it was unregistered")
	r.removed = append(r.removed, shader)
}

func TestWatchedShadersUnregisteredOnRelease(t *testing.T) {
	program := newFakeProgram()
	reg := &fakeRegistry{program: program, t: t}
	l := Loader{Watcher: reg}
	a := &openglhelper.Shader{VertexPath: "a.vs", FragmentPath: "a.fs"}
	b := &openglhelper.Shader{VertexPath: "b.vs", FragmentPath: "b.fs"}

	var r resources
	r.own(program)
	r.own(l.watch(a, b))
	assert.Equal(t, []*openglhelper.Shader{a, b}, reg.added)

	r.Release()
	r.Release()
	assert.Equal(t, []*openglhelper.Shader{a, b}, reg.removed)
	assert.Equal(t, 1, program.deleted)
}

func TestWatchSkipsRejectedShaders(t *testing.T) {
	a := &openglhelper.Shader{VertexPath: "a.vs", FragmentPath: "a.fs"}
	b := &openglhelper.Shader{VertexPath: "b.vs", FragmentPath: "b.fs"}
	reg := &fakeRegistry{program: newFakeProgram(), reject: a, t: t}

	Loader{Watcher: reg}.watch(a, b).Delete()

	assert.Equal(t, []*openglhelper.Shader{b}, reg.added)
	assert.Equal(t, []*openglhelper.Shader{b}, reg.removed)
}

func TestWatchWithoutWatcher(t *testing.T) {
	a := &openglhelper.Shader{VertexPath: "a.vs", FragmentPath: "a.fs"}

	assert.NotPanics(t, func() { Loader{}.watch(a).Delete() })
}

func newTestLit(ctx Context) (*Lit, *fakeProgram, *fakeProgram, *fakeModel, *fakeDrawable) {
	program, lamp := newFakeProgram(), newFakeProgram()
	model, cube := &fakeModel{}, &fakeDrawable{}
	return newLit(ctx, litResources{program: program, lamp: lamp, model: model, lampBox: cube}), program, lamp, model, cube
}

func TestLitInitialState(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	assert.Equal(t, 0, lit.Preset())
	assert.True(t, lit.Flashlight())
	assert.Equal(t, Presets[0].Lighting, lit.Lighting())
	assert.Len(t, Presets, 5)
}

func TestLitPresetCyclesForward(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	for i := 1; i <= 5; i++ {
		lit.HandleKey(render.KeyUp, 0.016)
		assert.Equal(t, i%5, lit.Preset())
	}
	assert.Equal(t, Presets[0].Lighting, lit.Lighting())
}

func TestLitPresetWrapsBackward(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	lit.HandleKey(render.KeyDown, 0.016)
	assert.Equal(t, 4, lit.Preset())
	assert.Equal(t, mgl32.Vec3{0.95, 1.0, 0.95}, lit.Lighting().Sky)

	lit.HandleKey(render.KeyUp, 0.016)
	assert.Equal(t, 0, lit.Preset())
}

func TestSetPresetWrapsAnyIndex(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	lit.SetPreset(7)
	assert.Equal(t, 2, lit.Preset())
	lit.SetPreset(-6)
	assert.Equal(t, 4, lit.Preset())
}

func TestLitDesertPresetValues(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	lit.HandleKey(render.KeyUp, 0)
	l := lit.Lighting()

	assert.Equal(t, mgl32.Vec3{0.7, 0.5, 0.3}, l.Sky)
	assert.Equal(t, mgl32.Vec3{0.8, 0.7, 0.4}, l.DirectionalColor)
	assert.Equal(t, mgl32.Vec3{1, 0.3, 0}, l.PointColors[0])
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, l.PointColors[1])
	assert.Equal(t, mgl32.Vec3{0.8, 0.5, 0}, l.PointColors[3])
}

func TestLitHorrorPresetSpeculars(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)
	lit.SetPreset(3)

	l := lit.Lighting()
	assert.Equal(t, mgl32.Vec3{}, l.Sky)
	assert.Equal(t, mgl32.Vec3{}, l.DirectionalSpecular)
	for i := 0; i < PointLightCount; i++ {
		assert.Equal(t, mgl32.Vec3{0.4, 0.1, 0}, l.PointSpeculars[i])
	}
}

func TestLitFlashlightTogglesOnlySpotlightColours(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, program, _, _, _ := newTestLit(ctx)

	lit.Render()
	onDiffuse := program.vec3(t, "spotLight.diffuse")
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, onDiffuse)
	vecInDelta(t, mgl32.Vec3{0.1, 0.1, 0.1}, program.vec3(t, "spotLight.ambient"))
	pointBefore := program.vec3(t, "pointLights[0].diffuse")
	dirBefore := program.vec3(t, "directionalLight.diffuse")

	lit.HandleKey(render.KeyF, 0.016)
	assert.False(t, lit.Flashlight())
	assert.Equal(t, 0, lit.Preset())

	lit.Render()
	assert.Equal(t, mgl32.Vec3{}, program.vec3(t, "spotLight.ambient"))
	assert.Equal(t, mgl32.Vec3{}, program.vec3(t, "spotLight.diffuse"))
	assert.Equal(t, mgl32.Vec3{}, program.vec3(t, "spotLight.specular"))
	assert.Equal(t, pointBefore, program.vec3(t, "pointLights[0].diffuse"))
	assert.Equal(t, dirBefore, program.vec3(t, "directionalLight.diffuse"))

	// Non-colour spotlight parameters are still uploaded
	assert.InDelta(t, math32.Cos(mgl32.DegToRad(12.5)), program.uniforms["spotLight.innerCutOff"], 1e-6)
	assert.InDelta(t, math32.Cos(mgl32.DegToRad(17.5)), program.uniforms["spotLight.outerCutOff"], 1e-6)
	assert.Equal(t, float32(attenuationLinear), program.uniforms["spotLight.linear"])

	lit.HandleKey(render.KeyF, 0.016)
	assert.True(t, lit.Flashlight())
}

func TestLitIgnoresUnrelatedKeys(t *testing.T) {
	ctx, _, _ := testContext(0)
	lit, _, _, _, _ := newTestLit(ctx)

	lit.HandleKey(render.KeyPageUp, 1)
	lit.HandleKey(render.KeyW, 1)

	assert.Equal(t, 0, lit.Preset())
	assert.True(t, lit.Flashlight())
}

func TestLitRenderUploadsViewSpaceLights(t *testing.T) {
	ctx, cam, surface := testContext(0)
	lit, program, lamp, model, cube := newTestLit(ctx)
	lit.SetPreset(1)

	lit.Render()

	require.Len(t, surface.clears, 1)
	assert.Equal(t, mgl32.Vec4{0.7, 0.5, 0.3, 1}, surface.clears[0])
	assert.Equal(t, 1, model.draws)
	assert.Same(t, program, model.program)
	assert.Equal(t, PointLightCount, cube.draws)
	assert.Equal(t, 1, lamp.uses)

	// Camera at (0,0,3) looking down -Z: view is a translation by -3 on Z
	vecInDelta(t, mgl32.Vec3{0.7, 0.2, -1}, program.vec3(t, "pointLights[0].position"))
	vecInDelta(t, mgl32.Vec3{-0.2, -1, -0.3}, program.vec3(t, "directionalLight.direction"))
	vecInDelta(t, mgl32.Vec3{0, 0, 3}, program.vec3(t, "viewPos"))
	vecInDelta(t, mgl32.Vec3{0.08, 0.07, 0.04}, program.vec3(t, "directionalLight.ambient"))
	assert.Equal(t, float32(32), program.uniforms["material.shininess"])

	// The last lamp drawn carries the last point light colour
	assert.Equal(t, mgl32.Vec3{0.8, 0.5, 0}, lamp.vec3(t, "lightColor"))

	assert.Equal(t, mgl32.Vec3{0, 0, 3}, cam.Position())
}

func TestLitRenderProjectionFollowsZoomAndSurface(t *testing.T) {
	ctx, cam, surface := testContext(0)
	lit, program, lamp, _, _ := newTestLit(ctx)

	cam.ApplyZoomInput(15)
	lit.Render()

	want := mgl32.Perspective(mgl32.DegToRad(30), 800.0/600.0, 0.1, 100)
	got, ok := program.uniforms["projection"].(mgl32.Mat4)
	require.True(t, ok, "projection uniform not set")
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "expected %v, got %v", want, got)
	assert.Equal(t, got, lamp.uniforms["projection"], "lamps share the projection")

	surface.width, surface.height = 1920, 1080
	lit.Render()

	want = mgl32.Perspective(mgl32.DegToRad(30), 1920.0/1080.0, 0.1, 100)
	got = program.uniforms["projection"].(mgl32.Mat4)
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5), "expected %v, got %v", want, got)
}

func TestBoxMixClampsToUnitRange(t *testing.T) {
	ctx, _, _ := testContext(0)
	box := newBox(ctx, boxResources{program: newFakeProgram(), cube: &fakeDrawable{}, container: &fakeTexture{}, face: &fakeTexture{}})

	assert.InDelta(t, 0.2, box.TextureMix(), 1e-6)

	box.HandleKey(render.KeyPageUp, 0.5)
	assert.InDelta(t, 0.7, box.TextureMix(), 1e-6)
	box.HandleKey(render.KeyPageUp, 0.5)
	assert.Equal(t, float32(1), box.TextureMix())

	box.HandleKey(render.KeyPageDown, 3)
	assert.Equal(t, float32(0), box.TextureMix())

	box.HandleKey(render.KeyUp, 1)
	assert.Equal(t, float32(0), box.TextureMix())
}

func TestBoxRenderDrawsTenBoxes(t *testing.T) {
	ctx, _, _ := testContext(1)
	program, cube := newFakeProgram(), &fakeDrawable{}
	container, face := &fakeTexture{}, &fakeTexture{}
	box := newBox(ctx, boxResources{program: program, cube: cube, container: container, face: face})

	box.Render()

	assert.Equal(t, 10, cube.draws)
	assert.Equal(t, []uint32{0}, container.units)
	assert.Equal(t, []uint32{1}, face.units)
	assert.Equal(t, int32(0), program.uniforms["tex0"])
	assert.Equal(t, int32(1), program.uniforms["tex1"])
	assert.Equal(t, float32(0.2), program.uniforms["mixWeight"])
	assert.Equal(t, boxModel(9, 1), program.uniforms["model"])
}

func TestBoxModelSpinsEveryThirdBox(t *testing.T) {
	// Box 1 is static, box 3 spins
	assert.Equal(t, boxModel(1, 0), boxModel(1, 2))
	assert.NotEqual(t, boxModel(3, 0), boxModel(3, 2))

	// Translation is the box position regardless of rotation
	m := boxModel(3, 5)
	vecInDelta(t, boxPositions[3], m.Col(3).Vec3())
}

func TestLampPositionFollowsClock(t *testing.T) {
	vecInDelta(t, mgl32.Vec3{0, 1, 2}, lampPosition(0, 2))

	var at float32 = math32.Pi / 2
	vecInDelta(t, mgl32.Vec3{2, 1 + math32.Sin(at/2), 2}, lampPosition(float64(at), 2))
}

func TestLightRenderAnimatesFromAbsoluteClock(t *testing.T) {
	now := 0.0
	ctx, cam, _ := testContext(0)
	ctx.Clock = func() float64 { return now }

	object, lamp := newFakeProgram(), newFakeProgram()
	cube, lampBox := &fakeDrawable{}, &fakeDrawable{}
	light := newLight(ctx, lightResources{object: object, lamp: lamp, cube: cube, lampBox: lampBox})

	now = float64(math32.Pi / 2)
	light.Render()
	first := light.LightPosition()
	vecInDelta(t, mgl32.Vec3{2, 1 + math32.Sin(math32.Pi/4), 2}, first)

	// Rendering twice at the same instant yields the same position
	light.Render()
	assert.Equal(t, first, light.LightPosition())

	assert.Equal(t, coralColor, object.vec3(t, "objectColor"))
	assert.Equal(t, first, object.vec3(t, "lightPos"))
	assert.Equal(t, 2, cube.draws)
	assert.Equal(t, 2, lampBox.draws)
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, cam.Position())

	light.HandleKey(render.KeyUp, 1)
	assert.Equal(t, first, light.LightPosition())
}

func TestNormalMatrixOfTranslationIsIdentity(t *testing.T) {
	view := mgl32.Translate3D(0, 0, -3)
	n := normalMatrix(view, mgl32.Ident4())
	assert.True(t, n.ApproxEqualThreshold(mgl32.Ident3(), 1e-6))
}
