package device

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v2.1/gl"
)

// glDevice is the OpenGL 2.1 implementation of the Device interface.
// It assumes the context it was created on stays current on the calling thread.
type glDevice struct {
	version string
}

var _ Device = &glDevice{}

// NewGLDevice loads the OpenGL entry points for the context that is current on the calling thread.
// The window must have made its context current before this is called.
//
// Returns:
//   - Device: the device bound to the current context
//   - error: ErrContextUnavailable (wrapped) if the GL function pointers could not be loaded
func NewGLDevice() (Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	return &glDevice{version: gl.GoStr(gl.GetString(gl.VERSION))}, nil
}

// Version returns the GL_VERSION string reported by the driver.
func (d *glDevice) Version() string {
	return d.version
}

func (d *glDevice) CreateShader(stage ShaderStage) Handle {
	return Handle(gl.CreateShader(uint32(stage)))
}

func (d *glDevice) ShaderSource(shader Handle, source string) {
	csources, free := gl.Strs(nullTerminated(source))
	gl.ShaderSource(uint32(shader), 1, csources, nil)
	free()
}

func (d *glDevice) CompileShader(shader Handle) {
	gl.CompileShader(uint32(shader))
}

func (d *glDevice) ShaderCompiled(shader Handle) bool {
	var status int32
	gl.GetShaderiv(uint32(shader), gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *glDevice) ShaderInfoLog(shader Handle) string {
	var logLength int32
	gl.GetShaderiv(uint32(shader), gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(shader), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

func (d *glDevice) DeleteShader(shader Handle) {
	gl.DeleteShader(uint32(shader))
}

func (d *glDevice) CreateProgram() Handle {
	return Handle(gl.CreateProgram())
}

func (d *glDevice) AttachShader(program, shader Handle) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (d *glDevice) DetachShader(program, shader Handle) {
	gl.DetachShader(uint32(program), uint32(shader))
}

func (d *glDevice) LinkProgram(program Handle) {
	gl.LinkProgram(uint32(program))
}

func (d *glDevice) ProgramLinked(program Handle) bool {
	var status int32
	gl.GetProgramiv(uint32(program), gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *glDevice) ProgramInfoLog(program Handle) string {
	var logLength int32
	gl.GetProgramiv(uint32(program), gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(program), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

func (d *glDevice) UseProgram(program Handle) {
	gl.UseProgram(uint32(program))
}

func (d *glDevice) DeleteProgram(program Handle) {
	gl.DeleteProgram(uint32(program))
}

func (d *glDevice) ActiveAttributes(program Handle) int {
	var count int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTES, &count)
	return int(count)
}

// ActiveAttribute fetches a fresh descriptor for the given index on every call.
func (d *glDevice) ActiveAttribute(program Handle, index int) ActiveInfo {
	var maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, &maxLength)
	name := make([]uint8, maxLength+1)

	var length, size int32
	var xtype uint32
	gl.GetActiveAttrib(uint32(program), uint32(index), maxLength+1, &length, &size, &xtype, &name[0])
	return ActiveInfo{Name: string(name[:length]), Type: ScalarType(xtype), Size: int(size)}
}

func (d *glDevice) AttribLocation(program Handle, name string) int32 {
	return gl.GetAttribLocation(uint32(program), gl.Str(nullTerminated(name)))
}

func (d *glDevice) ActiveUniforms(program Handle) int {
	var count int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORMS, &count)
	return int(count)
}

// ActiveUniform fetches a fresh descriptor for the given index on every call.
func (d *glDevice) ActiveUniform(program Handle, index int) ActiveInfo {
	var maxLength int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLength)
	name := make([]uint8, maxLength+1)

	var length, size int32
	var xtype uint32
	gl.GetActiveUniform(uint32(program), uint32(index), maxLength+1, &length, &size, &xtype, &name[0])
	return ActiveInfo{Name: string(name[:length]), Type: ScalarType(xtype), Size: int(size)}
}

func (d *glDevice) UniformLocation(program Handle, name string) int32 {
	return gl.GetUniformLocation(uint32(program), gl.Str(nullTerminated(name)))
}

func (d *glDevice) CreateBuffer() Handle {
	var buffer uint32
	gl.GenBuffers(1, &buffer)
	return Handle(buffer)
}

func (d *glDevice) BindBuffer(buffer Handle) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buffer))
}

func (d *glDevice) BufferData(data []float32, usage BufferUsage) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, uint32(usage))
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), uint32(usage))
}

func (d *glDevice) DeleteBuffer(buffer Handle) {
	b := uint32(buffer)
	gl.DeleteBuffers(1, &b)
}

func (d *glDevice) VertexAttribPointer(slot uint32, size int) {
	gl.VertexAttribPointer(slot, int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

func (d *glDevice) EnableVertexAttribArray(slot uint32) {
	gl.EnableVertexAttribArray(slot)
}

func (d *glDevice) DisableVertexAttribArray(slot uint32) {
	gl.DisableVertexAttribArray(slot)
}

func (d *glDevice) VertexAttrib4f(slot uint32, x, y, z, w float32) {
	gl.VertexAttrib4f(slot, x, y, z, w)
}

func (d *glDevice) Uniform1fv(location int32, data []float32) {
	gl.Uniform1fv(location, 1, &data[0])
}

func (d *glDevice) Uniform2fv(location int32, data []float32) {
	gl.Uniform2fv(location, 1, &data[0])
}

func (d *glDevice) Uniform3fv(location int32, data []float32) {
	gl.Uniform3fv(location, 1, &data[0])
}

func (d *glDevice) Uniform4fv(location int32, data []float32) {
	gl.Uniform4fv(location, 1, &data[0])
}

func (d *glDevice) UniformMatrix2fv(location int32, data []float32) {
	gl.UniformMatrix2fv(location, 1, false, &data[0])
}

func (d *glDevice) UniformMatrix3fv(location int32, data []float32) {
	gl.UniformMatrix3fv(location, 1, false, &data[0])
}

func (d *glDevice) UniformMatrix4fv(location int32, data []float32) {
	gl.UniformMatrix4fv(location, 1, false, &data[0])
}

func (d *glDevice) Viewport(x, y, width, height int) {
	gl.Viewport(int32(x), int32(y), int32(width), int32(height))
}

func (d *glDevice) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *glDevice) Clear(mask ClearMask) {
	gl.Clear(uint32(mask))
}

func (d *glDevice) DrawArrays(mode Primitive, first, count int) {
	gl.DrawArrays(uint32(mode), int32(first), int32(count))
}

// nullTerminated appends the terminator expected by gl.Str and gl.Strs if it is missing.
func nullTerminated(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}
