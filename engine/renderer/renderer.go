package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/binder"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/sirupsen/logrus"
)

// AttributeProducer supplies the attribute values for one tick.
type AttributeProducer func(ft clock.FrameTime) binder.Attributes

// UniformProducer supplies the uniform values for one tick.
type UniformProducer func(ft clock.FrameTime) binder.Uniforms

// DefaultClearColor is the color the framebuffer is cleared to before each frame.
var DefaultClearColor = [4]float32{0.5, 0.5, 0.5, 1}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	dev device.Device

	vertexShader, fragmentShader shader.Shader
	program                      program.Program
	binder                       binder.Binder

	attributes AttributeProducer
	uniforms   UniformProducer

	clearColor     [4]float32
	programKey     string
	releaseShaders bool
	width, height  int
	last           binder.FrameStats

	logger logrus.FieldLogger
}

// Renderer drives one linked program through the per-frame loop: clear, make the program
// current, then validate, upload and draw the values produced for the tick.
//
// This is a high-level API over the shader, program and binder packages. It owns the
// program it links and releases the device objects it created on Release.
type Renderer interface {
	// Program returns the linked program.
	//
	// Returns:
	//   - program.Program: the program every frame is drawn with
	Program() program.Program

	// Binder returns the binder validating frames against the program.
	//
	// Returns:
	//   - binder.Binder: the frame binder
	Binder() binder.Binder

	// Tick renders one frame with the values the configured producers return for ft.
	//
	// Parameters:
	//   - ft: the simulation time of this tick
	//
	// Returns:
	//   - error: the binder's validation error, if any
	Tick(ft clock.FrameTime) error

	// RenderFrame clears the framebuffer, makes the program current and binds the given values.
	//
	// Parameters:
	//   - attrs: attribute values keyed by name
	//   - unis: uniform values keyed by name
	//
	// Returns:
	//   - binder.FrameStats: the vertex count and whether a draw was issued
	//   - error: the binder's validation error, if any
	RenderFrame(attrs binder.Attributes, unis binder.Uniforms) (binder.FrameStats, error)

	// LastFrame returns the stats of the most recent successful frame.
	//
	// Returns:
	//   - binder.FrameStats: the stats, zero before the first frame
	LastFrame() binder.FrameStats

	// Resize sets the device viewport to a new framebuffer size.
	// This should be called when the window's framebuffer size changes.
	//
	// Parameters:
	//   - width: the new width of the framebuffer in pixels
	//   - height: the new height of the framebuffer in pixels
	Resize(width, height int)

	// Size returns the framebuffer size set by the last Resize.
	//
	// Returns:
	//   - int: the width in pixels
	//   - int: the height in pixels
	Size() (int, int)

	// SetClearColor sets the color the framebuffer is cleared to before each frame.
	//
	// Parameters:
	//   - color: the RGBA clear color
	SetClearColor(color [4]float32)

	// ClearColor returns the current clear color.
	//
	// Returns:
	//   - [4]float32: the RGBA clear color
	ClearColor() [4]float32

	// Release deletes the attribute buffers, the program and any shader units still held.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer compiles the two shader documents, links them and prepares a binder for the program.
//
// Parameters:
//   - dev: the device to render on
//   - vertex: the vertex shader document
//   - fragment: the fragment shader document
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a renderer ready to Tick
//   - error: a compile or link error from the shader and program packages, wrapped
func NewRenderer(dev device.Device, vertex, fragment shader.Document, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		dev:        dev,
		attributes: func(clock.FrameTime) binder.Attributes { return nil },
		uniforms:   func(clock.FrameTime) binder.Uniforms { return nil },
		clearColor: DefaultClearColor,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(r)
	}

	var err error
	r.vertexShader, err = shader.Compile(dev, vertex, shader.WithLogger(r.logger))
	if err != nil {
		return nil, fmt.Errorf("renderer: vertex shader: %w", err)
	}
	r.fragmentShader, err = shader.Compile(dev, fragment, shader.WithLogger(r.logger))
	if err != nil {
		r.vertexShader.Release()
		return nil, fmt.Errorf("renderer: fragment shader: %w", err)
	}

	linkOpts := []program.ProgramBuilderOption{
		program.WithLogger(r.logger),
		program.WithReleaseShaders(r.releaseShaders),
	}
	if r.programKey != "" {
		linkOpts = append(linkOpts, program.WithKey(r.programKey))
	}
	r.program, err = program.Link(dev, r.vertexShader, r.fragmentShader, linkOpts...)
	if err != nil {
		r.vertexShader.Release()
		r.fragmentShader.Release()
		return nil, fmt.Errorf("renderer: %w", err)
	}
	r.binder = binder.NewBinder(dev, r.program, binder.WithLogger(r.logger))

	r.logger.WithFields(logrus.Fields{
		"program":    r.program.Key(),
		"attributes": len(r.program.Attributes()),
		"uniforms":   len(r.program.Uniforms()),
	}).Info("renderer ready")
	return r, nil
}

func (r *renderer) Program() program.Program {
	return r.program
}

func (r *renderer) Binder() binder.Binder {
	return r.binder
}

func (r *renderer) Tick(ft clock.FrameTime) error {
	_, err := r.RenderFrame(r.attributes(ft), r.uniforms(ft))
	return err
}

func (r *renderer) RenderFrame(attrs binder.Attributes, unis binder.Uniforms) (binder.FrameStats, error) {
	c := r.clearColor
	r.dev.ClearColor(c[0], c[1], c[2], c[3])
	r.dev.Clear(device.ClearAll)
	r.program.Use()

	stats, err := r.binder.Bind(attrs, unis)
	if err != nil {
		return stats, err
	}
	r.last = stats
	return stats, nil
}

func (r *renderer) LastFrame() binder.FrameStats {
	return r.last
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width, r.height = width, height
	r.dev.Viewport(0, 0, width, height)
}

func (r *renderer) Size() (int, int) {
	return r.width, r.height
}

func (r *renderer) SetClearColor(color [4]float32) {
	r.clearColor = color
}

func (r *renderer) ClearColor() [4]float32 {
	return r.clearColor
}

func (r *renderer) Release() {
	r.binder.Release()
	r.program.Release()
	r.vertexShader.Release()
	r.fragmentShader.Release()
}
