package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/sirupsen/logrus"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window whose events, timestamps and buffer swaps drive the loop.
//
// Parameters:
//   - w: a spawned Window instance with its context current
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer ticked once per frame.
//
// Parameters:
//   - r: the renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderer = r
	}
}

// WithMaxStep sets the largest elapsed time a single frame accounts for.
// Values <= 0 will be treated as the default (clock.DefaultMaxStep).
//
// Parameters:
//   - step: the maximum step
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMaxStep(step time.Duration) EngineBuilderOption {
	return func(e *engine) {
		if step <= 0 {
			step = clock.DefaultMaxStep
		}
		e.maxStep = step
	}
}

// WithTickCallback registers the function called each frame before the renderer ticks.
//
// Parameters:
//   - callback: function receiving the frame's simulation time
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickCallback(callback func(ft clock.FrameTime) error) EngineBuilderOption {
	return func(e *engine) {
		e.tickCallback = callback
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithLogger sets the logger used by the engine and its profiler.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger logrus.FieldLogger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
