package device

import (
	"errors"
	"fmt"
)

// ErrContextUnavailable is returned when no usable graphics context is current on the calling thread.
var ErrContextUnavailable = errors.New("device: graphics context unavailable")

// Handle identifies a device-side object (shader, program or buffer). Zero is never a valid handle.
type Handle uint32

// ShaderStage is the device enumeration for a shader pipeline stage.
// Values match the OpenGL enums so the GL implementation can pass them through unchanged.
type ShaderStage uint32

const (
	// StageFragment is the per-pixel fragment stage (GL_FRAGMENT_SHADER).
	StageFragment ShaderStage = 0x8B30

	// StageVertex is the per-vertex transform stage (GL_VERTEX_SHADER).
	StageVertex ShaderStage = 0x8B31
)

// ScalarType is the device-reported type of an active attribute or uniform.
// Values match the OpenGL type enums returned by glGetActiveAttrib and glGetActiveUniform.
type ScalarType uint32

const (
	TypeInt         ScalarType = 0x1404
	TypeFloat       ScalarType = 0x1406
	TypeFloatVec2   ScalarType = 0x8B50
	TypeFloatVec3   ScalarType = 0x8B51
	TypeFloatVec4   ScalarType = 0x8B52
	TypeIntVec2     ScalarType = 0x8B53
	TypeIntVec3     ScalarType = 0x8B54
	TypeIntVec4     ScalarType = 0x8B55
	TypeBool        ScalarType = 0x8B56
	TypeFloatMat2   ScalarType = 0x8B5A
	TypeFloatMat3   ScalarType = 0x8B5B
	TypeFloatMat4   ScalarType = 0x8B5C
	TypeSampler2D   ScalarType = 0x8B5E
	TypeSamplerCube ScalarType = 0x8B60
)

var scalarTypeNames = map[ScalarType]string{
	TypeInt:         "int",
	TypeFloat:       "float",
	TypeFloatVec2:   "vec2",
	TypeFloatVec3:   "vec3",
	TypeFloatVec4:   "vec4",
	TypeIntVec2:     "ivec2",
	TypeIntVec3:     "ivec3",
	TypeIntVec4:     "ivec4",
	TypeBool:        "bool",
	TypeFloatMat2:   "mat2",
	TypeFloatMat3:   "mat3",
	TypeFloatMat4:   "mat4",
	TypeSampler2D:   "sampler2D",
	TypeSamplerCube: "samplerCube",
}

func (t ScalarType) String() string {
	if name, ok := scalarTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ScalarType(0x%04X)", uint32(t))
}

// BufferUsage is the usage hint given to the device when uploading buffer contents.
type BufferUsage uint32

const (
	// UsageStreamDraw marks contents that are replaced every frame and drawn a few times.
	UsageStreamDraw BufferUsage = 0x88E0

	// UsageStaticDraw marks contents uploaded once and drawn many times.
	UsageStaticDraw BufferUsage = 0x88E4

	// UsageDynamicDraw marks contents modified repeatedly and drawn many times.
	UsageDynamicDraw BufferUsage = 0x88E8
)

// Primitive is the primitive assembly mode used by a draw call.
type Primitive uint32

const (
	PrimitiveTriangles     Primitive = 0x0004
	PrimitiveTriangleStrip Primitive = 0x0005
)

// ClearMask selects which framebuffer planes Clear resets.
type ClearMask uint32

const (
	ClearDepth   ClearMask = 0x0100
	ClearStencil ClearMask = 0x0400
	ClearColor   ClearMask = 0x4000

	// ClearAll resets the color, depth and stencil planes.
	ClearAll = ClearColor | ClearDepth | ClearStencil
)

// ActiveInfo is one entry of a linked program's active attribute or uniform table,
// as reported by the device for a single enumeration index.
type ActiveInfo struct {
	// Name is the variable name; uniform arrays are reported as "name[0]".
	Name string

	// Type is the reported scalar, vector, matrix or sampler type.
	Type ScalarType

	// Size is the reported array size, 1 for non-array variables.
	Size int
}

// Device is the explicit handle to a programmable graphics device.
//
// Every component that touches the device receives a Device value from its caller;
// there is no implicit "current device". The method set mirrors the OpenGL ES 2.0 /
// WebGL 1 entry points needed to compile, link, reflect, bind and draw a single program.
// Calls are synchronous from the caller's point of view and must be made from the
// thread that owns the context.
type Device interface {
	// CreateShader allocates a shader object for the given stage.
	//
	// Returns:
	//   - Handle: the new shader object, or 0 if the device could not allocate one
	CreateShader(stage ShaderStage) Handle

	// ShaderSource replaces the source text of a shader object.
	ShaderSource(shader Handle, source string)

	// CompileShader compiles the source currently attached to a shader object.
	CompileShader(shader Handle)

	// ShaderCompiled reports the compile status of a shader object.
	//
	// Returns:
	//   - bool: true if the last CompileShader succeeded
	ShaderCompiled(shader Handle) bool

	// ShaderInfoLog returns the device diagnostic log of a shader object.
	ShaderInfoLog(shader Handle) string

	// DeleteShader releases a shader object.
	DeleteShader(shader Handle)

	// CreateProgram allocates an empty program object.
	//
	// Returns:
	//   - Handle: the new program object, or 0 if the device could not allocate one
	CreateProgram() Handle

	// AttachShader attaches a compiled shader object to a program object.
	AttachShader(program, shader Handle)

	// DetachShader detaches a shader object from a program object.
	DetachShader(program, shader Handle)

	// LinkProgram links the shader objects attached to a program object.
	LinkProgram(program Handle)

	// ProgramLinked reports the link status of a program object.
	//
	// Returns:
	//   - bool: true if the last LinkProgram succeeded
	ProgramLinked(program Handle) bool

	// ProgramInfoLog returns the device diagnostic log of a program object.
	ProgramInfoLog(program Handle) string

	// UseProgram installs a program object as part of the current rendering state.
	UseProgram(program Handle)

	// DeleteProgram releases a program object.
	DeleteProgram(program Handle)

	// ActiveAttributes returns the number of active vertex attributes of a linked program.
	ActiveAttributes(program Handle) int

	// ActiveAttribute describes the active attribute at the given enumeration index.
	//
	// Parameters:
	//   - program: the linked program object
	//   - index: the enumeration index in [0, ActiveAttributes)
	//
	// Returns:
	//   - ActiveInfo: the name, type and array size reported for that index
	ActiveAttribute(program Handle, index int) ActiveInfo

	// AttribLocation returns the vertex input slot assigned to an attribute name, or -1.
	AttribLocation(program Handle, name string) int32

	// ActiveUniforms returns the number of active uniforms of a linked program.
	ActiveUniforms(program Handle) int

	// ActiveUniform describes the active uniform at the given enumeration index.
	//
	// Parameters:
	//   - program: the linked program object
	//   - index: the enumeration index in [0, ActiveUniforms)
	//
	// Returns:
	//   - ActiveInfo: the name, type and array size reported for that index
	ActiveUniform(program Handle, index int) ActiveInfo

	// UniformLocation returns the opaque location of a uniform name, or -1.
	UniformLocation(program Handle, name string) int32

	// CreateBuffer allocates a buffer object.
	CreateBuffer() Handle

	// BindBuffer binds a buffer object as the current vertex array buffer.
	BindBuffer(buffer Handle)

	// BufferData replaces the contents of the currently bound vertex array buffer.
	BufferData(data []float32, usage BufferUsage)

	// DeleteBuffer releases a buffer object.
	DeleteBuffer(buffer Handle)

	// VertexAttribPointer sources a vertex input slot from the currently bound buffer:
	// size float components per vertex, not normalised, tightly packed, starting at offset 0.
	VertexAttribPointer(slot uint32, size int)

	// EnableVertexAttribArray switches a vertex input slot to read from its array source.
	EnableVertexAttribArray(slot uint32)

	// DisableVertexAttribArray switches a vertex input slot to its constant value.
	DisableVertexAttribArray(slot uint32)

	// VertexAttrib4f sets the constant value of a vertex input slot.
	VertexAttrib4f(slot uint32, x, y, z, w float32)

	Uniform1fv(location int32, data []float32)
	Uniform2fv(location int32, data []float32)
	Uniform3fv(location int32, data []float32)
	Uniform4fv(location int32, data []float32)

	// UniformMatrix2fv uploads a column-major 2x2 matrix.
	UniformMatrix2fv(location int32, data []float32)

	// UniformMatrix3fv uploads a column-major 3x3 matrix.
	UniformMatrix3fv(location int32, data []float32)

	// UniformMatrix4fv uploads a column-major 4x4 matrix.
	UniformMatrix4fv(location int32, data []float32)

	// Viewport sets the framebuffer region drawn into.
	Viewport(x, y, width, height int)

	// ClearColor sets the color used by Clear for the color plane.
	ClearColor(r, g, b, a float32)

	// Clear resets the selected framebuffer planes.
	Clear(mask ClearMask)

	// DrawArrays rasterizes count vertices starting at first using the current program,
	// vertex inputs and uniform values.
	DrawArrays(mode Primitive, first, count int)
}
