package renderer

import (
	"github.com/sirupsen/logrus"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithAttributeProducer sets the function that supplies attribute values on each Tick.
//
// Parameters:
//   - produce: the attribute producer, nil keeps the default that supplies none
//
// Returns:
//   - RendererBuilderOption: a function that applies the attribute producer option to a renderer
func WithAttributeProducer(produce AttributeProducer) RendererBuilderOption {
	return func(r *renderer) {
		if produce != nil {
			r.attributes = produce
		}
	}
}

// WithUniformProducer sets the function that supplies uniform values on each Tick.
//
// Parameters:
//   - produce: the uniform producer, nil keeps the default that supplies none
//
// Returns:
//   - RendererBuilderOption: a function that applies the uniform producer option to a renderer
func WithUniformProducer(produce UniformProducer) RendererBuilderOption {
	return func(r *renderer) {
		if produce != nil {
			r.uniforms = produce
		}
	}
}

// WithClearColor sets the color the framebuffer is cleared to before each frame.
// When not specified, DefaultClearColor is used.
//
// Parameters:
//   - color: the RGBA clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(color [4]float32) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = color
	}
}

// WithProgramKey sets the key the linked program is identified by in logs and errors.
//
// Parameters:
//   - key: the program key
//
// Returns:
//   - RendererBuilderOption: a function that applies the program key option to a renderer
func WithProgramKey(key string) RendererBuilderOption {
	return func(r *renderer) {
		r.programKey = key
	}
}

// WithReleaseShaders sets whether the shader units are released as soon as the program is linked.
//
// Parameters:
//   - release: true to release the shader units after linking
//
// Returns:
//   - RendererBuilderOption: a function that applies the shader release option to a renderer
func WithReleaseShaders(release bool) RendererBuilderOption {
	return func(r *renderer) {
		r.releaseShaders = release
	}
}

// WithLogger sets the logger used by the renderer and everything it creates.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger logrus.FieldLogger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
