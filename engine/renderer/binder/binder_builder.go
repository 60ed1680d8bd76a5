package binder

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/sirupsen/logrus"
)

// BinderBuilderOption is a functional option used to configure a Binder during construction.
type BinderBuilderOption func(*binder)

// WithLogger sets the logger unused and missing name warnings are written to.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - BinderBuilderOption: a function that sets the logger for this binder
func WithLogger(logger logrus.FieldLogger) BinderBuilderOption {
	return func(b *binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithUsage sets the usage hint attribute data is uploaded with. Defaults to device.UsageStreamDraw.
//
// Parameters:
//   - usage: the buffer usage hint
//
// Returns:
//   - BinderBuilderOption: a function that sets the upload usage for this binder
func WithUsage(usage device.BufferUsage) BinderBuilderOption {
	return func(b *binder) {
		b.usage = usage
	}
}

// WithPrimitive sets the primitive mode of the draw call. Defaults to device.PrimitiveTriangleStrip.
//
// Parameters:
//   - primitive: the primitive assembly mode
//
// Returns:
//   - BinderBuilderOption: a function that sets the draw primitive for this binder
func WithPrimitive(primitive device.Primitive) BinderBuilderOption {
	return func(b *binder) {
		b.primitive = primitive
	}
}
