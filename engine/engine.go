package engine

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/sirupsen/logrus"
)

// ErrNotConfigured is returned by Run when the engine has no window or no renderer.
var ErrNotConfigured = errors.New("engine: window and renderer are required")

// engine implements the Engine interface.
// Everything runs on the goroutine that calls Run, which must own the window's context.
type engine struct {
	window   window.Window
	renderer renderer.Renderer
	clock    clock.Clock

	maxStep time.Duration
	quit    atomic.Bool

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickCallback func(ft clock.FrameTime) error

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	sleep            func(time.Duration)

	logger logrus.FieldLogger
}

// Engine is the main entry point for the engine.
// It owns the frame loop: poll window events, advance the clock, tick, draw, present.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer ticked each frame.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Clock returns the clock turning window timestamps into simulation time.
	//
	// Returns:
	//   - clock.Clock: the engine clock
	Clock() clock.Clock

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickCallback registers the function called each frame before the renderer ticks.
	// Use this for input processing and simulation updates. A returned error stops the loop.
	//
	// Parameters:
	//   - callback: function receiving the frame's simulation time
	SetTickCallback(callback func(ft clock.FrameTime) error)

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run drives the frame loop until the window closes, Quit is called or a frame fails.
	// Frames never overlap: the next one starts only after the previous tick returned.
	//
	// Returns:
	//   - error: the first frame error wrapped with its frame number, or nil on a normal stop
	Run() error

	// Quit stops the loop before the next frame.
	// Safe to call multiple times and from window callbacks.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// Options are applied directly to the engine struct via the option-builder pattern.
//
// Parameters:
//   - options: functional options for engine configuration (window, renderer, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		maxStep: clock.DefaultMaxStep,
		sleep:   time.Sleep,
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range options {
		opt(e)
	}

	e.clock = clock.NewClock(e.maxStep)
	e.profiler = profiler.NewProfiler(e.logger)

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if e.renderer != nil {
				e.renderer.Resize(width, height)
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Clock() clock.Clock {
	return e.clock
}

func (e *engine) Run() error {
	if e.window == nil || e.renderer == nil {
		return ErrNotConfigured
	}
	e.quit.Store(false)
	e.renderer.Resize(e.window.Width(), e.window.Height())

	for !e.quit.Load() {
		frameStart := time.Now()
		if !e.window.PollEvents() || e.quit.Load() {
			break
		}

		ft := e.clock.Advance(e.window.Timestamp())
		if e.tickCallback != nil {
			if err := e.tickCallback(ft); err != nil {
				return e.frameError(ft, err)
			}
		}
		if err := e.renderer.Tick(ft); err != nil {
			return e.frameError(ft, err)
		}
		e.window.SwapBuffers()

		if e.profilingEnabled {
			e.profiler.Tick()
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				e.sleep(remaining)
			}
		}
	}

	e.logger.WithField("frames", e.clock.Now().Frame).Info("engine stopped")
	return nil
}

func (e *engine) frameError(ft clock.FrameTime, err error) error {
	e.logger.WithFields(logrus.Fields{"frame": ft.Frame, "error": err}).Error("frame failed, stopping engine")
	return fmt.Errorf("engine: frame %d: %w", ft.Frame, err)
}

// Quit stops the loop before the next frame.
func (e *engine) Quit() {
	e.quit.Store(true)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetTickCallback registers the function called each frame before the renderer ticks.
func (e *engine) SetTickCallback(callback func(ft clock.FrameTime) error) {
	e.tickCallback = callback
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
