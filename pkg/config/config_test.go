package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leterax/go-learnopengl/pkg/render"
	"github.com/leterax/go-learnopengl/pkg/scene"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "LearnOpenGL", cfg.Window.Title)
	assert.Equal(t, mgl32.Vec4{0.05, 0.05, 0.1, 1}, cfg.Window.ClearColor())
	assert.Equal(t, mgl32.Vec3{0, 0, 3}, cfg.Camera.StartPosition())
	assert.Equal(t, float32(2.5), cfg.Camera.Speed)
	assert.Equal(t, float32(0.1), cfg.Camera.ScrollScale)
	assert.Nil(t, cfg.Camera.Target())
	assert.Equal(t, "models/backpack/backpack.obj", cfg.Assets.Model)
	assert.Equal(t, scene.KindBox, cfg.InitialScene())

	mode, err := cfg.Camera.Mode()
	require.NoError(t, err)
	assert.Equal(t, render.Fly, mode)
}

func TestDecodeOverridesOnlyGivenKeys(t *testing.T) {
	cfg := Default()
	err := Decode([]byte(`
scene = "lit-model"

[window]
width = 1280
vsync = false

[camera]
movement = "walk"
position = [1.0, 2.0, 3.0]
`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.False(t, cfg.Window.VSync)
	assert.Equal(t, "LearnOpenGL", cfg.Window.Title)
	assert.Equal(t, scene.KindLit, cfg.InitialScene())
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cfg.Camera.StartPosition())

	mode, err := cfg.Camera.Mode()
	require.NoError(t, err)
	assert.Equal(t, render.Walk, mode)
}

func TestDecodeRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown scene", `scene = "terrain"`},
		{"unknown movement", "[camera]\nmovement = \"swim\""},
		{"zero width", "[window]\nwidth = 0"},
		{"negative speed", "[camera]\nspeed = -1.0"},
		{"unknown key", "[window]\nfullscreen = true"},
		{"malformed", "[window"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Decode([]byte(tt.data), &cfg))
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = Load(path, false)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnopengl.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
scene = "light"
log_level = "debug"

[camera]
look_at = [0.0, 0.0, 0.0]
scroll_scale = 1.0

[assets]
dir = "/srv/assets"
model = "models/backpack/backpack.gltf"
`), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	want := Default()
	want.Scene = scene.KindLight.String()
	want.LogLevel = "debug"
	want.Camera.LookAt = &[3]float32{0, 0, 0}
	want.Camera.ScrollScale = 1
	want.Assets.Dir = "/srv/assets"
	want.Assets.Model = "models/backpack/backpack.gltf"
	assert.Equal(t, want, cfg)

	target := cfg.Camera.Target()
	require.NotNil(t, target)
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, *target)
}
