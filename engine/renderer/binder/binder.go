package binder

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/program"
	"github.com/sirupsen/logrus"
)

// FrameStats summarises one Bind call.
type FrameStats struct {
	// VertexCount is the vertex count derived from the supplied attributes, 0 if none were supplied.
	VertexCount int
	// Drawn is true if a draw call was issued.
	Drawn bool
}

// binder is the implementation of the Binder interface.
type binder struct {
	dev     device.Device
	program program.Program

	// buffers caches one device buffer per attribute name, created on first use and re-filled every frame.
	buffers map[string]device.Handle

	// warnedAttributes and warnedUniforms hold the names already reported as unused or missing,
	// so each is logged once for the lifetime of the program.
	warnedAttributes map[string]struct{}
	warnedUniforms   map[string]struct{}

	usage     device.BufferUsage
	primitive device.Primitive
	logger    logrus.FieldLogger
	released  bool
}

// Binder validates per-frame attribute and uniform values against the interface of one linked
// program, uploads them and issues the draw call.
//
// Usage pattern:
//  1. Link a program.Program and create a Binder for it with NewBinder
//  2. Once per tick, make the program current and call Bind with that tick's values
//  3. Call Release when the program is retired to free the cached attribute buffers
type Binder interface {
	// Program returns the program this binder validates against.
	//
	// Returns:
	//   - program.Program: the bound program
	Program() program.Program

	// Bind validates one frame of attribute and uniform values, uploads them and draws.
	// Nothing is changed on the device unless every value passes validation.
	//
	// Parameters:
	//   - attrs: attribute values keyed by name; an empty map binds uniforms only and skips the draw
	//   - unis: uniform values keyed by name; every uniform the program declares must be present
	//
	// Returns:
	//   - FrameStats: the vertex count and whether a draw was issued
	//   - error: a typed validation error matching one of the package sentinels
	Bind(attrs Attributes, unis Uniforms) (FrameStats, error)

	// Buffer returns the cached device buffer backing an attribute name.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - device.Handle: the buffer handle, 0 if none was created yet
	//   - bool: true if a buffer exists for the name
	Buffer(name string) (device.Handle, bool)

	// Release deletes every cached attribute buffer. Calling Release more than once has no effect
	// unless Bind created new buffers in between.
	Release()
}

var _ Binder = &binder{}

// NewBinder creates a Binder for a linked program.
//
// Parameters:
//   - dev: the device the program was linked on
//   - p: the linked program
//   - opts: optional builder options
//
// Returns:
//   - Binder: a binder with an empty buffer cache
func NewBinder(dev device.Device, p program.Program, opts ...BinderBuilderOption) Binder {
	b := &binder{
		dev:              dev,
		program:          p,
		buffers:          make(map[string]device.Handle),
		warnedAttributes: make(map[string]struct{}),
		warnedUniforms:   make(map[string]struct{}),
		usage:            device.UsageStreamDraw,
		primitive:        device.PrimitiveTriangleStrip,
		logger:           logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *binder) Program() program.Program {
	return b.program
}

func (b *binder) Buffer(name string) (device.Handle, bool) {
	h, ok := b.buffers[name]
	return h, ok
}

func (b *binder) Bind(attrs Attributes, unis Uniforms) (FrameStats, error) {
	names := slices.Sorted(maps.Keys(attrs))

	count, err := b.vertexCount(names, attrs)
	if err != nil {
		return FrameStats{}, err
	}
	declared := b.program.Uniforms()
	if err := b.validateUniforms(declared, unis); err != nil {
		return FrameStats{}, err
	}

	for _, name := range names {
		if _, ok := b.program.Attribute(name); !ok {
			b.warnOnce(b.warnedAttributes, "attribute", name, "attribute supplied but not declared by program")
		}
	}
	for _, name := range names {
		b.dev.BindBuffer(b.buffer(name))
		b.dev.BufferData(attrs[name].Data, b.usage)
	}
	for _, desc := range b.program.Attributes() {
		value, ok := attrs[desc.Name]
		if !ok {
			b.warnOnce(b.warnedAttributes, "attribute", desc.Name, "attribute declared by program but not supplied, using constant (0,0,0,1)")
			b.dev.DisableVertexAttribArray(desc.Slot)
			b.dev.VertexAttrib4f(desc.Slot, 0, 0, 0, 1)
			continue
		}
		b.dev.BindBuffer(b.buffers[desc.Name])
		b.dev.VertexAttribPointer(desc.Slot, value.size())
		b.dev.EnableVertexAttribArray(desc.Slot)
	}

	for _, name := range slices.Sorted(maps.Keys(unis)) {
		if _, ok := b.program.Uniform(name); !ok {
			b.warnOnce(b.warnedUniforms, "uniform", name, "uniform supplied but not declared by program")
		}
	}
	for _, desc := range declared {
		b.uploadUniform(desc, unis[desc.Name])
	}

	stats := FrameStats{VertexCount: count}
	if len(attrs) > 0 && count > 0 {
		b.dev.DrawArrays(b.primitive, 0, count)
		stats.Drawn = true
	}
	return stats, nil
}

// vertexCount checks every supplied attribute in name order and returns the vertex count they agree on.
func (b *binder) vertexCount(names []string, attrs Attributes) (int, error) {
	count := -1
	for _, name := range names {
		value := attrs[name]
		size := value.size()
		if size < 1 || size > 4 {
			return 0, &AttributeSizeError{Name: name, Size: value.Size}
		}
		if len(value.Data)%size != 0 {
			return 0, &MisalignedAttributeDataError{Name: name, Length: len(value.Data), Size: size}
		}
		n := len(value.Data) / size
		if count >= 0 && n != count {
			return 0, &AttributeCountMismatchError{Name: name, Expected: count, Actual: n}
		}
		count = n
	}
	if count < 0 {
		return 0, nil
	}
	return count, nil
}

// validateUniforms checks the declared uniforms in enumeration order and reports the first violation.
func (b *binder) validateUniforms(declared []program.UniformDescriptor, unis Uniforms) error {
	for _, desc := range declared {
		value, ok := unis[desc.Name]
		if !ok {
			return &MissingUniformError{Name: desc.Name}
		}
		if !desc.Supported() {
			return &UnsupportedUniformTypeError{Name: desc.Name, Type: desc.Type}
		}
		if len(value) != desc.ExpectedComponentCount {
			return &UniformArityMismatchError{Name: desc.Name, Expected: desc.ExpectedComponentCount, Actual: len(value)}
		}
	}
	return nil
}

func (b *binder) uploadUniform(desc program.UniformDescriptor, value UniformValue) {
	switch desc.Type {
	case device.TypeFloat:
		b.dev.Uniform1fv(desc.Slot, value)
	case device.TypeFloatVec2:
		b.dev.Uniform2fv(desc.Slot, value)
	case device.TypeFloatVec3:
		b.dev.Uniform3fv(desc.Slot, value)
	case device.TypeFloatVec4:
		b.dev.Uniform4fv(desc.Slot, value)
	case device.TypeFloatMat2:
		b.dev.UniformMatrix2fv(desc.Slot, value)
	case device.TypeFloatMat3:
		b.dev.UniformMatrix3fv(desc.Slot, value)
	case device.TypeFloatMat4:
		b.dev.UniformMatrix4fv(desc.Slot, value)
	}
}

// buffer returns the cached buffer for an attribute name, creating it on first use.
func (b *binder) buffer(name string) device.Handle {
	if h, ok := b.buffers[name]; ok {
		return h
	}
	h := b.dev.CreateBuffer()
	b.buffers[name] = h
	b.released = false
	return h
}

func (b *binder) warnOnce(warned map[string]struct{}, field, name, msg string) {
	if _, ok := warned[name]; ok {
		return
	}
	warned[name] = struct{}{}
	b.logger.WithFields(logrus.Fields{"program": b.program.Key(), field: name}).Warn(msg)
}

func (b *binder) Release() {
	if b.released {
		return
	}
	for _, name := range slices.Sorted(maps.Keys(b.buffers)) {
		b.dev.DeleteBuffer(b.buffers[name])
	}
	clear(b.buffers)
	b.released = true
}
