package shader

import (
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/sirupsen/logrus"
)

// StageKind identifies which pipeline stage a shader unit executes as.
type StageKind int

const (
	// StageKindVertex is the per-vertex transform stage.
	StageKindVertex StageKind = iota

	// StageKindFragment is the per-pixel shading stage.
	StageKindFragment
)

func (k StageKind) String() string {
	switch k {
	case StageKindVertex:
		return "vertex"
	case StageKindFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Device returns the device enumeration for the stage.
func (k StageKind) Device() device.ShaderStage {
	if k == StageKindFragment {
		return device.StageFragment
	}
	return device.StageVertex
}

// Stage kind markers accepted in Document.Kind.
const (
	MarkerVertex   = "x-shader/x-glsl-vertex"
	MarkerFragment = "x-shader/x-glsl-fragment"
)

var stageMarkers = map[string]StageKind{
	MarkerVertex:   StageKindVertex,
	"vert":         StageKindVertex,
	"vertex":       StageKindVertex,
	MarkerFragment: StageKindFragment,
	"frag":         StageKindFragment,
	"fragment":     StageKindFragment,
}

// ParseStageKind maps a stage kind marker to its StageKind.
// Matching ignores surrounding whitespace and letter case.
//
// Parameters:
//   - marker: a script type such as "x-shader/x-glsl-vertex" or a file suffix alias such as "frag"
//
// Returns:
//   - StageKind: the matching stage
//   - bool: false if the marker names no known stage
func ParseStageKind(marker string) (StageKind, bool) {
	kind, ok := stageMarkers[strings.ToLower(strings.TrimSpace(marker))]
	return kind, ok
}

// Document is one shader source document: the text, the stage kind marker it was tagged with,
// and the identifier used in diagnostics.
type Document struct {
	ID     string
	Kind   string
	Source string
}

// shader is the implementation of the Shader interface.
type shader struct {
	id     string
	kind   StageKind
	source string
	handle device.Handle

	dev      device.Device
	logger   logrus.FieldLogger
	released bool
}

// Shader is a compiled shader unit living on a device.
type Shader interface {
	// ID returns the identifier of the document the shader was compiled from.
	//
	// Returns:
	//   - string: the document identifier
	ID() string

	// StageKind returns the stage the shader was compiled for.
	//
	// Returns:
	//   - StageKind: StageKindVertex or StageKindFragment
	StageKind() StageKind

	// Source returns the source text submitted to the device compiler.
	//
	// Returns:
	//   - string: the shader source
	Source() string

	// Handle returns the device shader object. It is 0 once the shader has been released.
	//
	// Returns:
	//   - device.Handle: the shader object handle
	Handle() device.Handle

	// Release deletes the device shader object. Calling Release more than once has no effect.
	Release()
}

var _ Shader = &shader{}

// Compile allocates a device shader object for the document's stage, submits its source and compiles it.
// The shader object of a failed compile is deleted before returning.
//
// Parameters:
//   - dev: the device to compile on
//   - doc: the shader source document
//   - opts: optional builder options
//
// Returns:
//   - Shader: the compiled shader unit
//   - error: *UnknownStageKindError if doc.Kind is not recognised, *CompileError if the device rejects the source
func Compile(dev device.Device, doc Document, opts ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		id:     doc.ID,
		source: doc.Source,
		dev:    dev,
		logger: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	kind, ok := ParseStageKind(doc.Kind)
	if !ok {
		return nil, &UnknownStageKindError{ID: doc.ID, Kind: doc.Kind}
	}
	s.kind = kind

	s.handle = dev.CreateShader(kind.Device())
	dev.ShaderSource(s.handle, s.source)
	dev.CompileShader(s.handle)
	if !dev.ShaderCompiled(s.handle) {
		log := dev.ShaderInfoLog(s.handle)
		dev.DeleteShader(s.handle)
		s.logger.WithFields(logrus.Fields{"shader": s.id, "stage": kind}).Error("shader compile failed")
		return nil, &CompileError{ID: doc.ID, Log: strings.TrimSpace(log)}
	}

	s.logger.WithFields(logrus.Fields{"shader": s.id, "stage": kind}).Debug("shader compiled")
	return s, nil
}

func (s *shader) ID() string {
	return s.id
}

func (s *shader) StageKind() StageKind {
	return s.kind
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Handle() device.Handle {
	if s.released {
		return 0
	}
	return s.handle
}

func (s *shader) Release() {
	if s.released {
		return
	}
	s.dev.DeleteShader(s.handle)
	s.released = true
}
