package binder

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

var (
	ErrAttributeSize           = errors.New("binder: attribute size out of range")
	ErrMisalignedAttributeData = errors.New("binder: misaligned attribute data")
	ErrAttributeCountMismatch  = errors.New("binder: attribute vertex count mismatch")
	ErrMissingUniform          = errors.New("binder: missing uniform")
	ErrUniformArityMismatch    = errors.New("binder: uniform arity mismatch")
	ErrUnsupportedUniformType  = errors.New("binder: unsupported uniform type")
)

// AttributeSizeError is returned when an attribute's component count is outside 1..4.
type AttributeSizeError struct {
	Name string
	Size int
}

func (e *AttributeSizeError) Error() string {
	return fmt.Sprintf("attribute %q: size %d is outside 1..4", e.Name, e.Size)
}

func (e *AttributeSizeError) Unwrap() error {
	return ErrAttributeSize
}

// MisalignedAttributeDataError is returned when an attribute's data length is not a multiple of its size.
type MisalignedAttributeDataError struct {
	Name   string
	Length int
	Size   int
}

func (e *MisalignedAttributeDataError) Error() string {
	return fmt.Sprintf("attribute %q: data length %d is not a multiple of size %d", e.Name, e.Length, e.Size)
}

func (e *MisalignedAttributeDataError) Unwrap() error {
	return ErrMisalignedAttributeData
}

// AttributeCountMismatchError is returned when an attribute holds a different number of vertices
// than the attributes validated before it in the same frame.
type AttributeCountMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *AttributeCountMismatchError) Error() string {
	return fmt.Sprintf("attribute %q: holds %d vertices, expected %d", e.Name, e.Actual, e.Expected)
}

func (e *AttributeCountMismatchError) Unwrap() error {
	return ErrAttributeCountMismatch
}

// MissingUniformError is returned when a uniform declared by the program was not supplied.
type MissingUniformError struct {
	Name string
}

func (e *MissingUniformError) Error() string {
	return fmt.Sprintf("uniform %q: declared by program but not supplied", e.Name)
}

func (e *MissingUniformError) Unwrap() error {
	return ErrMissingUniform
}

// UniformArityMismatchError is returned when a uniform value's length differs from what its type expects.
type UniformArityMismatchError struct {
	Name     string
	Expected int
	Actual   int
}

func (e *UniformArityMismatchError) Error() string {
	return fmt.Sprintf("uniform %q: expected %d components, got %d", e.Name, e.Expected, e.Actual)
}

func (e *UniformArityMismatchError) Unwrap() error {
	return ErrUniformArityMismatch
}

// UnsupportedUniformTypeError is returned for declared uniforms whose type has no float upload routine.
type UnsupportedUniformTypeError struct {
	Name string
	Type device.ScalarType
}

func (e *UnsupportedUniformTypeError) Error() string {
	return fmt.Sprintf("uniform %q: unsupported type %s", e.Name, e.Type)
}

func (e *UnsupportedUniformTypeError) Unwrap() error {
	return ErrUnsupportedUniformType
}
