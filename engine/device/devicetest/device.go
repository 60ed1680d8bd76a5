// Package devicetest provides an in-memory recording implementation of device.Device.
//
// The fake compiles GLSL sources by scanning their declarations, so a linked program
// reports the attributes and uniforms its sources declare. Every state change is
// recorded so tests can assert on uploads, vertex input state and draw calls.
package devicetest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
)

var (
	attributeDecl = regexp.MustCompile(`(?m)^\s*(?:attribute|in)\s+(\w+)\s+(\w+)\s*;`)
	uniformDecl   = regexp.MustCompile(`(?m)^\s*uniform\s+(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

var glslTypes = map[string]device.ScalarType{
	"int":         device.TypeInt,
	"float":       device.TypeFloat,
	"vec2":        device.TypeFloatVec2,
	"vec3":        device.TypeFloatVec3,
	"vec4":        device.TypeFloatVec4,
	"ivec2":       device.TypeIntVec2,
	"ivec3":       device.TypeIntVec3,
	"ivec4":       device.TypeIntVec4,
	"bool":        device.TypeBool,
	"mat2":        device.TypeFloatMat2,
	"mat3":        device.TypeFloatMat3,
	"mat4":        device.TypeFloatMat4,
	"sampler2D":   device.TypeSampler2D,
	"samplerCube": device.TypeSamplerCube,
}

// SlotState is the recorded state of one vertex input slot.
type SlotState struct {
	Enabled  bool
	Buffer   device.Handle
	Size     int
	Constant [4]float32
}

// UniformUpload is one recorded uniform upload.
type UniformUpload struct {
	Op       string
	Location int32
	Data     []float32
}

// Draw is one recorded draw call, with a snapshot of the enabled array inputs at draw time.
type Draw struct {
	Mode     device.Primitive
	First    int
	Count    int
	Program  device.Handle
	Bindings map[uint32]device.Handle
}

// Upload is one recorded BufferData call.
type Upload struct {
	Buffer device.Handle
	Data   []float32
	Usage  device.BufferUsage
}

type shaderObject struct {
	stage    device.ShaderStage
	source   string
	compiled bool
	log      string
}

type programObject struct {
	shaders    []device.Handle
	linked     bool
	log        string
	attributes []device.ActiveInfo
	attribLocs map[string]int32
	uniforms   []device.ActiveInfo
	uniformLoc map[string]int32
}

// Device is a recording fake of device.Device. The zero value is not usable; call New.
type Device struct {
	// FailLink makes every LinkProgram report failure with LinkLog as the info log.
	FailLink bool
	LinkLog  string

	// BuiltinAttributes are reported as active attributes with location -1 on every linked program.
	BuiltinAttributes []string

	next     device.Handle
	shaders  map[device.Handle]*shaderObject
	programs map[device.Handle]*programObject
	buffers  map[device.Handle]bool
	bound    device.Handle

	Slots          map[uint32]*SlotState
	Uploads        []Upload
	UniformUploads []UniformUpload
	Draws          []Draw
	Clears         []device.ClearMask
	ClearColors    [][4]float32
	Viewports      [][4]int
	Current        device.Handle

	DeletedShaders  []device.Handle
	DeletedPrograms []device.Handle
	DeletedBuffers  []device.Handle
	Detached        []device.Handle
	CreatedBuffers  int
}

var _ device.Device = &Device{}

// New creates an empty recording device.
func New() *Device {
	return &Device{
		shaders:  make(map[device.Handle]*shaderObject),
		programs: make(map[device.Handle]*programObject),
		buffers:  make(map[device.Handle]bool),
		Slots:    make(map[uint32]*SlotState),
	}
}

func (d *Device) alloc() device.Handle {
	d.next++
	return d.next
}

func (d *Device) slot(index uint32) *SlotState {
	s, ok := d.Slots[index]
	if !ok {
		s = &SlotState{Constant: [4]float32{0, 0, 0, 1}}
		d.Slots[index] = s
	}
	return s
}

func (d *Device) CreateShader(stage device.ShaderStage) device.Handle {
	h := d.alloc()
	d.shaders[h] = &shaderObject{stage: stage}
	return h
}

func (d *Device) ShaderSource(shader device.Handle, source string) {
	if s, ok := d.shaders[shader]; ok {
		s.source = source
	}
}

// CompileShader fails any source containing an #error directive, using the directive's text as the log.
func (d *Device) CompileShader(shader device.Handle) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	if i := strings.Index(s.source, "#error"); i >= 0 {
		line := s.source[i:]
		if j := strings.IndexByte(line, '\n'); j >= 0 {
			line = line[:j]
		}
		s.compiled = false
		s.log = fmt.Sprintf("ERROR: 0:1: %s", strings.TrimSpace(strings.TrimPrefix(line, "#error")))
		return
	}
	s.compiled = true
	s.log = ""
}

func (d *Device) ShaderCompiled(shader device.Handle) bool {
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *Device) ShaderInfoLog(shader device.Handle) string {
	if s, ok := d.shaders[shader]; ok {
		return s.log
	}
	return ""
}

func (d *Device) DeleteShader(shader device.Handle) {
	delete(d.shaders, shader)
	d.DeletedShaders = append(d.DeletedShaders, shader)
}

func (d *Device) CreateProgram() device.Handle {
	h := d.alloc()
	d.programs[h] = &programObject{}
	return h
}

func (d *Device) AttachShader(program, shader device.Handle) {
	if p, ok := d.programs[program]; ok {
		p.shaders = append(p.shaders, shader)
	}
}

func (d *Device) DetachShader(program, shader device.Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for i, s := range p.shaders {
		if s == shader {
			p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
			break
		}
	}
	d.Detached = append(d.Detached, shader)
}

// LinkProgram builds the active interface from the declarations of the attached sources.
// Attributes come from the vertex stage only; uniforms are merged across both stages.
func (d *Device) LinkProgram(program device.Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	p.attributes = nil
	p.uniforms = nil
	p.attribLocs = make(map[string]int32)
	p.uniformLoc = make(map[string]int32)

	if d.FailLink {
		p.linked = false
		p.log = d.LinkLog
		return
	}
	for _, h := range p.shaders {
		s, ok := d.shaders[h]
		if !ok || !s.compiled {
			p.linked = false
			p.log = "ERROR: one or more attached shaders not successfully compiled"
			return
		}
	}

	for _, name := range d.BuiltinAttributes {
		p.attributes = append(p.attributes, device.ActiveInfo{Name: name, Type: device.TypeFloatVec4, Size: 1})
		p.attribLocs[name] = -1
	}
	for _, h := range p.shaders {
		s := d.shaders[h]
		if s.stage == device.StageVertex {
			for _, m := range attributeDecl.FindAllStringSubmatch(s.source, -1) {
				if _, seen := p.attribLocs[m[2]]; seen {
					continue
				}
				p.attribLocs[m[2]] = int32(len(p.attribLocs) - len(d.BuiltinAttributes))
				p.attributes = append(p.attributes, device.ActiveInfo{Name: m[2], Type: glslTypes[m[1]], Size: 1})
			}
		}
		for _, m := range uniformDecl.FindAllStringSubmatch(s.source, -1) {
			name, size := m[2], 1
			if m[3] != "" {
				size, _ = strconv.Atoi(m[3])
				name += "[0]"
			}
			if _, seen := p.uniformLoc[name]; seen {
				continue
			}
			p.uniformLoc[name] = int32(len(p.uniformLoc))
			p.uniforms = append(p.uniforms, device.ActiveInfo{Name: name, Type: glslTypes[m[1]], Size: size})
		}
	}
	p.linked = true
	p.log = ""
}

func (d *Device) ProgramLinked(program device.Handle) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *Device) ProgramInfoLog(program device.Handle) string {
	if p, ok := d.programs[program]; ok {
		return p.log
	}
	return ""
}

func (d *Device) UseProgram(program device.Handle) {
	d.Current = program
}

func (d *Device) DeleteProgram(program device.Handle) {
	delete(d.programs, program)
	d.DeletedPrograms = append(d.DeletedPrograms, program)
}

func (d *Device) ActiveAttributes(program device.Handle) int {
	if p, ok := d.programs[program]; ok {
		return len(p.attributes)
	}
	return 0
}

func (d *Device) ActiveAttribute(program device.Handle, index int) device.ActiveInfo {
	return d.programs[program].attributes[index]
}

func (d *Device) AttribLocation(program device.Handle, name string) int32 {
	if p, ok := d.programs[program]; ok {
		if loc, ok := p.attribLocs[name]; ok {
			return loc
		}
	}
	return -1
}

func (d *Device) ActiveUniforms(program device.Handle) int {
	if p, ok := d.programs[program]; ok {
		return len(p.uniforms)
	}
	return 0
}

func (d *Device) ActiveUniform(program device.Handle, index int) device.ActiveInfo {
	return d.programs[program].uniforms[index]
}

func (d *Device) UniformLocation(program device.Handle, name string) int32 {
	if p, ok := d.programs[program]; ok {
		if loc, ok := p.uniformLoc[name]; ok {
			return loc
		}
		// GL resolves the bare name of an array uniform to its first element.
		if loc, ok := p.uniformLoc[name+"[0]"]; ok {
			return loc
		}
	}
	return -1
}

func (d *Device) CreateBuffer() device.Handle {
	h := d.alloc()
	d.buffers[h] = true
	d.CreatedBuffers++
	return h
}

func (d *Device) BindBuffer(buffer device.Handle) {
	d.bound = buffer
}

func (d *Device) BufferData(data []float32, usage device.BufferUsage) {
	d.Uploads = append(d.Uploads, Upload{Buffer: d.bound, Data: append([]float32(nil), data...), Usage: usage})
}

func (d *Device) DeleteBuffer(buffer device.Handle) {
	delete(d.buffers, buffer)
	d.DeletedBuffers = append(d.DeletedBuffers, buffer)
}

func (d *Device) VertexAttribPointer(slot uint32, size int) {
	s := d.slot(slot)
	s.Buffer = d.bound
	s.Size = size
}

func (d *Device) EnableVertexAttribArray(slot uint32) {
	d.slot(slot).Enabled = true
}

func (d *Device) DisableVertexAttribArray(slot uint32) {
	d.slot(slot).Enabled = false
}

func (d *Device) VertexAttrib4f(slot uint32, x, y, z, w float32) {
	d.slot(slot).Constant = [4]float32{x, y, z, w}
}

func (d *Device) recordUniform(op string, location int32, data []float32) {
	d.UniformUploads = append(d.UniformUploads, UniformUpload{Op: op, Location: location, Data: append([]float32(nil), data...)})
}

func (d *Device) Uniform1fv(location int32, data []float32) { d.recordUniform("1fv", location, data) }
func (d *Device) Uniform2fv(location int32, data []float32) { d.recordUniform("2fv", location, data) }
func (d *Device) Uniform3fv(location int32, data []float32) { d.recordUniform("3fv", location, data) }
func (d *Device) Uniform4fv(location int32, data []float32) { d.recordUniform("4fv", location, data) }

func (d *Device) UniformMatrix2fv(location int32, data []float32) {
	d.recordUniform("Matrix2fv", location, data)
}

func (d *Device) UniformMatrix3fv(location int32, data []float32) {
	d.recordUniform("Matrix3fv", location, data)
}

func (d *Device) UniformMatrix4fv(location int32, data []float32) {
	d.recordUniform("Matrix4fv", location, data)
}

func (d *Device) Viewport(x, y, width, height int) {
	d.Viewports = append(d.Viewports, [4]int{x, y, width, height})
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.ClearColors = append(d.ClearColors, [4]float32{r, g, b, a})
}

func (d *Device) Clear(mask device.ClearMask) {
	d.Clears = append(d.Clears, mask)
}

func (d *Device) DrawArrays(mode device.Primitive, first, count int) {
	bindings := make(map[uint32]device.Handle)
	for index, s := range d.Slots {
		if s.Enabled {
			bindings[index] = s.Buffer
		}
	}
	d.Draws = append(d.Draws, Draw{Mode: mode, First: first, Count: count, Program: d.Current, Bindings: bindings})
}

// LiveBuffers returns the number of buffers created and not yet deleted.
func (d *Device) LiveBuffers() int {
	return len(d.buffers)
}

// UniformUploadsAt returns the recorded uploads for one uniform location, oldest first.
func (d *Device) UniformUploadsAt(location int32) []UniformUpload {
	var out []UniformUpload
	for _, u := range d.UniformUploads {
		if u.Location == location {
			out = append(out, u)
		}
	}
	return out
}
