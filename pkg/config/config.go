// Package config loads sandbox settings from a TOML file layered over
// built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/leterax/go-learnopengl/pkg/render"
	"github.com/leterax/go-learnopengl/pkg/scene"
)

// DefaultPath is read when no -config flag is given. A missing file there is
// not an error.
const DefaultPath = "learnopengl.toml"

// Config is the full set of startup options
type Config struct {
	Window Window `toml:"window"`
	Camera Camera `toml:"camera"`
	Assets Assets `toml:"assets"`

	// Scene is the name of the scene shown first
	Scene string `toml:"scene"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `toml:"log_level"`
}

type Window struct {
	Width  int        `toml:"width"`
	Height int        `toml:"height"`
	Title  string     `toml:"title"`
	VSync  bool       `toml:"vsync"`
	Clear  [3]float32 `toml:"clear_color"`
}

type Camera struct {
	Position [3]float32 `toml:"position"`
	// LookAt, when set, orients the camera towards a world point at startup
	LookAt      *[3]float32 `toml:"look_at"`
	Speed       float32     `toml:"speed"`
	Sensitivity float32     `toml:"sensitivity"`
	ScrollScale float32     `toml:"scroll_scale"`
	// Movement is "fly" or "walk"
	Movement string `toml:"movement"`
}

type Assets struct {
	Dir          string `toml:"dir"`
	Model        string `toml:"model"`
	WatchShaders bool   `toml:"watch_shaders"`
}

// Default returns the settings used when nothing is overridden
func Default() Config {
	return Config{
		Window: Window{
			Width:  800,
			Height: 600,
			Title:  "LearnOpenGL",
			VSync:  true,
			Clear:  [3]float32{0.05, 0.05, 0.1},
		},
		Camera: Camera{
			Position:    [3]float32{0, 0, 3},
			Speed:       render.DefaultMoveSpeed,
			Sensitivity: render.DefaultSensitivity,
			ScrollScale: render.DefaultScrollScale,
			Movement:    render.Fly.String(),
		},
		Assets: Assets{
			Dir:          "assets",
			Model:        "models/backpack/backpack.obj",
			WatchShaders: true,
		},
		Scene:    scene.KindBox.String(),
		LogLevel: "info",
	}
}

// Load reads path over the defaults. When optional is set a missing file
// yields the defaults unchanged.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Decode applies TOML data on top of cfg and validates the result.
// Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.Validate()
}

// Validate checks values that have no sensible clamped fallback
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, ok := scene.ParseKind(c.Scene); !ok {
		return fmt.Errorf("unknown scene %q", c.Scene)
	}
	if _, err := c.Camera.Mode(); err != nil {
		return err
	}
	if c.Camera.Speed < 0 || c.Camera.Sensitivity < 0 {
		return fmt.Errorf("camera speed and sensitivity must not be negative")
	}
	return nil
}

// Mode resolves the movement setting
func (c Camera) Mode() (render.MovementMode, error) {
	switch c.Movement {
	case render.Fly.String():
		return render.Fly, nil
	case render.Walk.String():
		return render.Walk, nil
	default:
		return render.Fly, fmt.Errorf("unknown camera movement %q", c.Movement)
	}
}

// StartPosition returns the initial camera position
func (c Camera) StartPosition() mgl32.Vec3 {
	return mgl32.Vec3(c.Position)
}

// Target returns the configured look-at point, or nil to keep the default
// orientation
func (c Camera) Target() *mgl32.Vec3 {
	if c.LookAt == nil {
		return nil
	}
	target := mgl32.Vec3(*c.LookAt)
	return &target
}

// ClearColor returns the default background as RGBA
func (w Window) ClearColor() mgl32.Vec4 {
	return mgl32.Vec3(w.Clear).Vec4(1)
}

// InitialScene resolves the configured starting scene
func (c Config) InitialScene() scene.Kind {
	kind, _ := scene.ParseKind(c.Scene)
	return kind
}
