package shader

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStageKind is matched by every *UnknownStageKindError.
	ErrUnknownStageKind = errors.New("shader: unknown stage kind")

	// ErrCompile is matched by every *CompileError.
	ErrCompile = errors.New("shader: compile failed")
)

// UnknownStageKindError is returned when a document's kind marker names neither the vertex nor the fragment stage.
type UnknownStageKindError struct {
	ID   string
	Kind string
}

func (e *UnknownStageKindError) Error() string {
	return fmt.Sprintf("shader %q: unknown stage kind %q", e.ID, e.Kind)
}

func (e *UnknownStageKindError) Unwrap() error {
	return ErrUnknownStageKind
}

// CompileError carries the identifier of the failing document and the device info log of its shader object.
type CompileError struct {
	ID  string
	Log string
}

func (e *CompileError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("shader %q: compile failed", e.ID)
	}
	return fmt.Sprintf("shader %q: compile failed: %s", e.ID, e.Log)
}

func (e *CompileError) Unwrap() error {
	return ErrCompile
}
