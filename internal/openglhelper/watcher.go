package openglhelper

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
)

// ShaderWatcher reloads shaders whose source files change on disk.
// Events arrive on the fsnotify goroutine; GL work only happens in Poll,
// which must run on the thread that owns the context. Add, Remove and Poll
// must all be called from that thread.
type ShaderWatcher struct {
	watcher *fsnotify.Watcher
	shaders map[string][]*Shader
	dirs    map[string]bool
	changed chan string
	// overflow is set when an event was dropped on a full queue
	overflow atomic.Bool
	done     chan struct{}
}

// NewShaderWatcher starts a file watcher with no shaders registered
func NewShaderWatcher() (*ShaderWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create shader watcher: %w", err)
	}

	sw := &ShaderWatcher{
		watcher: watcher,
		shaders: make(map[string][]*Shader),
		dirs:    make(map[string]bool),
		changed: make(chan string, 64),
		done:    make(chan struct{}),
	}
	go sw.run()

	return sw, nil
}

// Add registers a shader for reloading when either of its files changes.
// Directories are watched rather than files so editors that replace files
// on save are still seen. On error the shader is left unregistered.
func (sw *ShaderWatcher) Add(shader *Shader) error {
	for _, path := range []string{shader.VertexPath, shader.FragmentPath} {
		abs, err := filepath.Abs(path)
		if err != nil {
			sw.Remove(shader)
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		sw.shaders[abs] = append(sw.shaders[abs], shader)

		dir := filepath.Dir(abs)
		if sw.dirs[dir] {
			continue
		}
		if err := sw.watcher.Add(dir); err != nil {
			sw.Remove(shader)
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		sw.dirs[dir] = true
	}
	return nil
}

// Remove stops reloading shader. Watched directories stay watched.
func (sw *ShaderWatcher) Remove(shader *Shader) {
	for path, list := range sw.shaders {
		kept := slices.DeleteFunc(list, func(s *Shader) bool { return s == shader })
		if len(kept) == 0 {
			delete(sw.shaders, path)
		} else {
			sw.shaders[path] = kept
		}
	}
}

func (sw *ShaderWatcher) run() {
	defer close(sw.done)
	for {
		select {
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			sw.queue(filepath.Clean(event.Name))
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("shader watcher error", "err", err)
		}
	}
}

// queue hands a changed path to Poll without blocking the event loop
func (sw *ShaderWatcher) queue(path string) {
	select {
	case sw.changed <- path:
	default:
		sw.overflow.Store(true)
	}
}

// pending drains the queue and returns each registered shader that uses a
// changed file. After an overflow every registered shader is returned,
// since the dropped paths are unknown.
func (sw *ShaderWatcher) pending() []*Shader {
	all := sw.overflow.Swap(false)

	var paths []string
drain:
	for {
		select {
		case path := <-sw.changed:
			paths = append(paths, path)
		default:
			break drain
		}
	}

	seen := make(map[*Shader]bool)
	var out []*Shader
	collect := func(list []*Shader) {
		for _, shader := range list {
			if !seen[shader] {
				seen[shader] = true
				out = append(out, shader)
			}
		}
	}

	if all {
		slog.Warn("shader watcher queue overflowed, reloading every shader")
		for _, list := range sw.shaders {
			collect(list)
		}
		return out
	}
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		collect(sw.shaders[abs])
	}
	return out
}

// Poll reloads every shader touched since the last call and returns how many
// programs were rebuilt. It never blocks.
func (sw *ShaderWatcher) Poll() int {
	reloaded := 0
	for _, shader := range sw.pending() {
		if err := shader.Reload(); err != nil {
			slog.Error("shader reload failed, keeping previous program", "err", err)
			continue
		}
		slog.Info("shader reloaded", "vertex", shader.VertexPath, "fragment", shader.FragmentPath)
		reloaded++
	}
	return reloaded
}

// Close stops the watcher goroutine
func (sw *ShaderWatcher) Close() error {
	err := sw.watcher.Close()
	<-sw.done
	return err
}
