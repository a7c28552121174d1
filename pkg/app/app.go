// Package app owns the window-facing side of the sandbox: the frame loop,
// input routing and switching between scenes.
package app

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/leterax/go-learnopengl/internal/openglhelper"
	"github.com/leterax/go-learnopengl/pkg/render"
	"github.com/leterax/go-learnopengl/pkg/scene"
)

// Host is the window the loop drives. *openglhelper.Window implements it.
type Host interface {
	PollEvents()
	SwapBuffers()
	ShouldClose() bool
	SetShouldClose(value bool)
	IsKeyDown(key glfw.Key) bool
	ToggleMouseCaptured()
	IsMouseCaptured() bool
	SetTitle(title string)
	FramebufferSize() (width, height int)
	Clear(color mgl32.Vec4)
}

// Scene is the part of a scene the loop needs. Every scene.Scene satisfies it.
type Scene interface {
	Kind() scene.Kind
	Render()
	HandleKey(key glfw.Key, deltaTime float32)
	Release()
}

// Reloader applies pending shader reloads; *openglhelper.ShaderWatcher
// implements it.
type Reloader interface {
	Poll() int
}

// Options configures a new App
type Options struct {
	Title         string
	ClearColor    mgl32.Vec4
	StartPosition mgl32.Vec3
	LookAt        *mgl32.Vec3 // optional initial target
	MoveSpeed     float32
	Sensitivity   float32
	Movement      render.MovementMode
	ScrollScale   float32
	CaptureMouse  bool

	// Reloader may be nil
	Reloader Reloader
}

var movementKeys = [...]struct {
	key       glfw.Key
	direction render.Direction
}{
	{render.KeyW, render.Forward},
	{render.KeyS, render.Backward},
	{render.KeyA, render.Left},
	{render.KeyD, render.Right},
}

// Keys forwarded to the active scene every frame while held
var rateKeys = [...]glfw.Key{render.KeyPageUp, render.KeyPageDown}

// App is the application context: one camera, an ordered set of scenes and
// the loop that drives them.
type App struct {
	window Host
	clock  func() float64

	camera    render.Camera
	scenes    []Scene
	active    int
	wireframe bool

	edges   *EdgeDetector
	pointer PointerTracker

	title        string
	clearColor   mgl32.Vec4
	scrollScale  float32
	reloader     Reloader
	setWireframe func(bool)

	lastFrame float64
}

// New creates the application around an open window and hooks its callbacks
func New(window *openglhelper.Window, opts Options) *App {
	a := newApp(window, glfw.GetTime, openglhelper.SetWireframe, opts)

	gw := window.GLFWWindow()
	gw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		a.handleCursor(x, y)
	})
	gw.SetScrollCallback(func(_ *glfw.Window, _, y float64) {
		a.handleScroll(y)
	})
	gw.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		window.OnResize(width, height)
	})

	if opts.CaptureMouse {
		window.SetMouseCaptured(true)
	}
	return a
}

func newApp(window Host, clock func() float64, setWireframe func(bool), opts Options) *App {
	camera := render.NewCamera(opts.StartPosition)
	camera.SetMovementSpeed(opts.MoveSpeed)
	camera.SetMouseSensitivity(opts.Sensitivity)
	camera.SetMovementMode(opts.Movement)
	if opts.LookAt != nil {
		camera.LookAt(*opts.LookAt)
	}

	scrollScale := opts.ScrollScale
	if scrollScale == 0 {
		scrollScale = render.DefaultScrollScale
	}

	return &App{
		window:       window,
		clock:        clock,
		camera:       camera,
		active:       -1,
		edges:        NewEdgeDetector(render.KeyEscape, render.KeyLeft, render.KeyRight, render.KeyM, render.KeyC, render.KeyUp, render.KeyDown, render.KeyF),
		title:        opts.Title,
		clearColor:   opts.ClearColor,
		scrollScale:  scrollScale,
		reloader:     opts.Reloader,
		setWireframe: setWireframe,
	}
}

// SceneContext returns what scenes borrow from the app
func (a *App) SceneContext() scene.Context {
	return scene.Context{
		Camera:  &a.camera,
		Surface: a.window,
		Clock:   a.clock,
	}
}

// Camera returns the shared camera
func (a *App) Camera() *render.Camera {
	return &a.camera
}

// AddScene appends a scene to the cycle. The first scene added becomes active.
func (a *App) AddScene(s Scene) {
	a.scenes = append(a.scenes, s)
	if a.active < 0 {
		a.activate(0)
	}
}

// Active returns the current scene or nil when none are loaded
func (a *App) Active() Scene {
	if a.active < 0 {
		return nil
	}
	return a.scenes[a.active]
}

// Activate switches to the first scene of the given kind
func (a *App) Activate(kind scene.Kind) error {
	for i, s := range a.scenes {
		if s.Kind() == kind {
			a.activate(i)
			return nil
		}
	}
	return fmt.Errorf("no %s scene loaded", kind)
}

// Wireframe reports whether polygons are drawn as lines
func (a *App) Wireframe() bool {
	return a.wireframe
}

func (a *App) activate(i int) {
	a.active = i
	kind := a.scenes[i].Kind()
	a.window.SetTitle(fmt.Sprintf("%s - %s", a.title, kind))
	slog.Info("scene active", "scene", kind.String(), "index", i)
}

// cycle moves the active index by step with wraparound
func (a *App) cycle(step int) {
	n := len(a.scenes)
	if n == 0 {
		return
	}
	a.activate(((a.active+step)%n + n) % n)
}

// Run drives frames until the window is asked to close
func (a *App) Run() {
	a.lastFrame = a.clock()
	for !a.window.ShouldClose() {
		a.Frame()
	}
}

// Frame runs one iteration of the loop
func (a *App) Frame() {
	now := a.clock()
	deltaTime := float32(now - a.lastFrame)
	a.lastFrame = now

	a.window.PollEvents()
	a.processInput(deltaTime)
	a.camera.ResolveMovement(deltaTime)

	if a.reloader != nil {
		if n := a.reloader.Poll(); n > 0 {
			slog.Debug("shaders reloaded", "count", n)
		}
	}

	a.window.Clear(a.clearColor)
	if s := a.Active(); s != nil {
		s.Render()
	}
	a.window.SwapBuffers()
}

func (a *App) processInput(deltaTime float32) {
	for _, key := range a.edges.Update(a.window.IsKeyDown) {
		switch key {
		case render.KeyEscape:
			a.window.SetShouldClose(true)
		case render.KeyRight:
			a.cycle(1)
		case render.KeyLeft:
			a.cycle(-1)
		case render.KeyM:
			a.wireframe = !a.wireframe
			a.setWireframe(a.wireframe)
		case render.KeyC:
			a.window.ToggleMouseCaptured()
			a.pointer.Reset()
		default:
			if s := a.Active(); s != nil {
				s.HandleKey(key, deltaTime)
			}
		}
	}

	for _, m := range movementKeys {
		if a.window.IsKeyDown(m.key) {
			a.camera.QueueMovement(m.direction)
		}
	}

	if s := a.Active(); s != nil {
		for _, key := range rateKeys {
			if a.window.IsKeyDown(key) {
				s.HandleKey(key, deltaTime)
			}
		}
	}
}

func (a *App) handleCursor(x, y float64) {
	if !a.window.IsMouseCaptured() {
		return
	}
	dx, dy := a.pointer.Offset(x, y)
	a.camera.ApplyRotationInput(dx, dy, true)
}

func (a *App) handleScroll(y float64) {
	a.camera.ApplyZoomInput(float32(y) * a.scrollScale)
}

// Close releases every scene
func (a *App) Close() {
	for _, s := range a.scenes {
		s.Release()
	}
	a.scenes = nil
	a.active = -1
}

var _ Host = (*openglhelper.Window)(nil)
