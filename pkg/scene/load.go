package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/leterax/go-learnopengl/internal/openglhelper"
)

// ShaderRegistry tracks shaders for hot reloading.
// *openglhelper.ShaderWatcher implements it.
type ShaderRegistry interface {
	Add(shader *openglhelper.Shader) error
	Remove(shader *openglhelper.Shader)
}

// Loader builds scenes from files under an asset directory
type Loader struct {
	AssetDir  string
	ModelPath string // relative to AssetDir

	// Watcher, when set, receives the shaders of every loaded scene
	Watcher ShaderRegistry
}

func (l Loader) path(parts ...string) string {
	return filepath.Join(append([]string{l.AssetDir}, parts...)...)
}

func (l Loader) shader(name string) (*openglhelper.Shader, error) {
	return openglhelper.LoadShaderFromFiles(
		l.path("shaders", name+".vs"),
		l.path("shaders", name+".fs"),
	)
}

// watch registers the shaders of a fully loaded scene. Owned after the
// shaders, the registration is released before they are deleted.
func (l Loader) watch(shaders ...*openglhelper.Shader) deleter {
	reg := registration{registry: l.Watcher}
	if l.Watcher == nil {
		return reg
	}
	for _, shader := range shaders {
		if err := l.Watcher.Add(shader); err != nil {
			slog.Warn("shader hot reload disabled", "vertex", shader.VertexPath, "err", err)
			continue
		}
		reg.shaders = append(reg.shaders, shader)
	}
	return reg
}

type registration struct {
	registry ShaderRegistry
	shaders  []*openglhelper.Shader
}

func (r registration) Delete() {
	for _, shader := range r.shaders {
		r.registry.Remove(shader)
	}
}

// LoadAll loads every scene in Kinds order. Scenes loaded before a failure
// are released.
func LoadAll(ctx Context, l Loader) ([]Scene, error) {
	scenes := make([]Scene, 0, len(Kinds))
	for _, kind := range Kinds {
		s, err := Load(ctx, l, kind)
		if err != nil {
			for _, loaded := range scenes {
				loaded.Release()
			}
			return nil, err
		}
		scenes = append(scenes, s)
	}
	return scenes, nil
}

// Load builds a single scene of the given kind
func Load(ctx Context, l Loader, kind Kind) (Scene, error) {
	var (
		s   Scene
		err error
	)
	switch kind {
	case KindBox:
		s, err = LoadBox(ctx, l)
	case KindLight:
		s, err = LoadLight(ctx, l)
	case KindLit:
		s, err = LoadLit(ctx, l)
	default:
		err = fmt.Errorf("unknown scene kind %d", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s scene: %w", kind, err)
	}
	slog.Info("scene loaded", "scene", kind.String())
	return s, nil
}

// LoadBox builds the textured boxes scene
func LoadBox(ctx Context, l Loader) (*Box, error) {
	var r resources
	ok := false
	defer func() {
		if !ok {
			r.Release()
		}
	}()

	program, err := l.shader("box")
	if err != nil {
		return nil, err
	}
	r.own(program)

	container, err := openglhelper.LoadTexture(l.path("textures", "container.jpg"), openglhelper.Repeat)
	if err != nil {
		return nil, err
	}
	r.own(container)

	face, err := openglhelper.LoadTexture(l.path("textures", "awesomeface.png"), openglhelper.Repeat)
	if err != nil {
		return nil, err
	}
	r.own(face)

	cube := openglhelper.NewGeometry(openglhelper.CubeVertices(), openglhelper.StandardLayout...)
	r.own(cube)
	r.own(l.watch(program))

	box := newBox(ctx, boxResources{program: program, cube: cube, container: container, face: face})
	box.resources = r
	ok = true
	return box, nil
}

// LoadLight builds the single lit box scene
func LoadLight(ctx Context, l Loader) (*Light, error) {
	var r resources
	ok := false
	defer func() {
		if !ok {
			r.Release()
		}
	}()

	object, err := l.shader("light_object")
	if err != nil {
		return nil, err
	}
	r.own(object)

	lamp, err := l.shader("lamp")
	if err != nil {
		return nil, err
	}
	r.own(lamp)

	cube := openglhelper.NewGeometry(openglhelper.CubeVertices(), openglhelper.StandardLayout...)
	r.own(cube)
	r.own(l.watch(object, lamp))

	light := newLight(ctx, lightResources{object: object, lamp: lamp, cube: cube, lampBox: cube})
	light.resources = r
	ok = true
	return light, nil
}

// LoadLit builds the multi-light model scene
func LoadLit(ctx Context, l Loader) (*Lit, error) {
	var r resources
	ok := false
	defer func() {
		if !ok {
			r.Release()
		}
	}()

	program, err := l.shader("lit_model")
	if err != nil {
		return nil, err
	}
	r.own(program)

	lamp, err := l.shader("lamp")
	if err != nil {
		return nil, err
	}
	r.own(lamp)

	model, err := openglhelper.LoadModel(l.path(l.ModelPath))
	if err != nil {
		return nil, err
	}
	r.own(model)

	cube := openglhelper.NewGeometry(openglhelper.CubeVertices(), openglhelper.StandardLayout...)
	r.own(cube)
	r.own(l.watch(program, lamp))

	lit := newLit(ctx, litResources{program: program, lamp: lamp, model: model, lampBox: cube})
	lit.resources = r
	ok = true
	return lit, nil
}
