package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/leterax/go-learnopengl/internal/openglhelper"
	"github.com/leterax/go-learnopengl/pkg/app"
	"github.com/leterax/go-learnopengl/pkg/config"
	"github.com/leterax/go-learnopengl/pkg/scene"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file (default "+config.DefaultPath+" if present)")
	sceneName := flag.String("scene", "", "Scene shown first: boxes, light or lit-model")
	vsync := flag.Bool("vsync", true, "Synchronise buffer swaps with the display")
	flag.Parse()

	path, optional := *configPath, false
	if path == "" {
		path, optional = config.DefaultPath, true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneName
		case "vsync":
			cfg.Window.VSync = *vsync
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("Invalid log level %q: %v", cfg.LogLevel, err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	slog.Info("starting", "scene", cfg.Scene, "assets", cfg.Assets.Dir)

	window, err := openglhelper.NewWindow(cfg.Window.Width, cfg.Window.Height, cfg.Window.Title, cfg.Window.VSync)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	defer window.Close()

	mode, _ := cfg.Camera.Mode()
	opts := app.Options{
		Title:         cfg.Window.Title,
		ClearColor:    cfg.Window.ClearColor(),
		StartPosition: cfg.Camera.StartPosition(),
		LookAt:        cfg.Camera.Target(),
		MoveSpeed:     cfg.Camera.Speed,
		Sensitivity:   cfg.Camera.Sensitivity,
		Movement:      mode,
		ScrollScale:   cfg.Camera.ScrollScale,
		CaptureMouse:  true,
	}

	loader := scene.Loader{AssetDir: cfg.Assets.Dir, ModelPath: cfg.Assets.Model}
	if cfg.Assets.WatchShaders {
		watcher, err := openglhelper.NewShaderWatcher()
		if err != nil {
			slog.Warn("shader hot reload unavailable", "err", err)
		} else {
			defer watcher.Close()
			loader.Watcher = watcher
			opts.Reloader = watcher
		}
	}

	a := app.New(window, opts)

	scenes, err := scene.LoadAll(a.SceneContext(), loader)
	if err != nil {
		log.Fatalf("Failed to load scenes: %v", err)
	}
	for _, s := range scenes {
		a.AddScene(s)
	}
	defer a.Close()

	if err := a.Activate(cfg.InitialScene()); err != nil {
		log.Fatalf("Failed to select scene: %v", err)
	}

	a.Run()
}
