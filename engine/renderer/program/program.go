package program

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/sirupsen/logrus"
)

const builtinPrefix = "gl_"

// program is the implementation of the Program interface.
// The descriptor tables are filled once by reflect and never modified afterwards.
type program struct {
	// key is the identifier used in logs and errors, defaults to "<vertex id>+<fragment id>"
	key    string
	handle device.Handle
	dev    device.Device

	vertexShader, fragmentShader shader.Shader

	attributes     []AttributeDescriptor
	attributeIndex map[string]int
	uniforms       []UniformDescriptor
	uniformIndex   map[string]int

	releaseShaders bool
	released       bool
	logger         logrus.FieldLogger
}

// Program is a linked vertex and fragment shader pair together with its reflected interface:
// the active attributes and active uniforms the device reported right after linking.
type Program interface {
	// Key returns the identifier of this program, used in logs and errors.
	//
	// Returns:
	//   - string: the program key
	Key() string

	// Handle returns the device program object. It is 0 once the program has been released.
	//
	// Returns:
	//   - device.Handle: the program object handle
	Handle() device.Handle

	// Attributes returns the declared attributes in device enumeration order.
	//
	// Returns:
	//   - []AttributeDescriptor: a copy of the attribute table
	Attributes() []AttributeDescriptor

	// Attribute looks up a declared attribute by name.
	//
	// Parameters:
	//   - name: the attribute name as written in the shader
	//
	// Returns:
	//   - AttributeDescriptor: the descriptor, zero if not declared
	//   - bool: true if the program declares the attribute
	Attribute(name string) (AttributeDescriptor, bool)

	// Uniforms returns the declared uniforms in device enumeration order.
	//
	// Returns:
	//   - []UniformDescriptor: a copy of the uniform table
	Uniforms() []UniformDescriptor

	// Uniform looks up a declared uniform by name. Arrays are addressed without the "[0]" suffix.
	//
	// Parameters:
	//   - name: the uniform name as written in the shader
	//
	// Returns:
	//   - UniformDescriptor: the descriptor, zero if not declared
	//   - bool: true if the program declares the uniform
	Uniform(name string) (UniformDescriptor, bool)

	// Use installs the program as the device's current program.
	Use()

	// Release deletes the device program object. Calling Release more than once has no effect.
	Release()
}

var _ Program = &program{}

// Link attaches a vertex and a fragment shader unit to a new device program, links it and
// reflects its active attributes and uniforms.
//
// Built-in variables (gl_ prefix) and entries the device gives no location are not part
// of the bindable interface and are left out of the tables.
//
// Parameters:
//   - dev: the device both shaders were compiled on
//   - vs: the compiled vertex shader unit
//   - fs: the compiled fragment shader unit
//   - opts: optional builder options
//
// Returns:
//   - Program: the linked program
//   - error: *LinkError if the units cannot be paired or the device rejects the link
func Link(dev device.Device, vs, fs shader.Shader, opts ...ProgramBuilderOption) (Program, error) {
	p := &program{
		dev:            dev,
		vertexShader:   vs,
		fragmentShader: fs,
		attributeIndex: make(map[string]int),
		uniformIndex:   make(map[string]int),
		logger:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if vs != nil && fs != nil {
		p.key = common.Coalesce(p.key, vs.ID()+"+"+fs.ID())
	}

	if err := p.checkStages(); err != nil {
		return nil, err
	}

	p.handle = dev.CreateProgram()
	dev.AttachShader(p.handle, vs.Handle())
	dev.AttachShader(p.handle, fs.Handle())
	dev.LinkProgram(p.handle)
	if !dev.ProgramLinked(p.handle) {
		log := strings.TrimSpace(dev.ProgramInfoLog(p.handle))
		dev.DeleteProgram(p.handle)
		p.logger.WithField("program", p.key).Error("program link failed")
		return nil, &LinkError{Key: p.key, Log: log}
	}

	p.reflect()

	if p.releaseShaders {
		dev.DetachShader(p.handle, vs.Handle())
		dev.DetachShader(p.handle, fs.Handle())
		vs.Release()
		fs.Release()
	}

	p.logger.WithFields(logrus.Fields{
		"program":    p.key,
		"attributes": len(p.attributes),
		"uniforms":   len(p.uniforms),
	}).Debug("program linked")
	return p, nil
}

func (p *program) checkStages() error {
	switch {
	case p.vertexShader == nil || p.fragmentShader == nil:
		return &LinkError{Key: p.key, Log: "a vertex and a fragment shader are required"}
	case p.vertexShader.StageKind() != shader.StageKindVertex:
		return &LinkError{Key: p.key, Log: fmt.Sprintf("shader %q is a %s shader, expected vertex", p.vertexShader.ID(), p.vertexShader.StageKind())}
	case p.fragmentShader.StageKind() != shader.StageKindFragment:
		return &LinkError{Key: p.key, Log: fmt.Sprintf("shader %q is a %s shader, expected fragment", p.fragmentShader.ID(), p.fragmentShader.StageKind())}
	case p.vertexShader.Handle() == 0 || p.fragmentShader.Handle() == 0:
		return &LinkError{Key: p.key, Log: "shader unit has already been released"}
	}
	return nil
}

// reflect enumerates the active interface of the freshly linked program.
// Every entry is read from the descriptor fetched for its own index.
func (p *program) reflect() {
	for i := 0; i < p.dev.ActiveAttributes(p.handle); i++ {
		info := p.dev.ActiveAttribute(p.handle, i)
		if strings.HasPrefix(info.Name, builtinPrefix) {
			p.logger.WithFields(logrus.Fields{"program": p.key, "attribute": info.Name}).Debug("skipping built-in attribute")
			continue
		}
		loc := p.dev.AttribLocation(p.handle, info.Name)
		if loc < 0 {
			p.logger.WithFields(logrus.Fields{"program": p.key, "attribute": info.Name}).Debug("skipping attribute without location")
			continue
		}
		p.attributeIndex[info.Name] = len(p.attributes)
		p.attributes = append(p.attributes, AttributeDescriptor{
			Name:           info.Name,
			Slot:           uint32(loc),
			Type:           info.Type,
			ArraySize:      info.Size,
			ComponentCount: DefaultComponentCount,
		})
	}

	for i := 0; i < p.dev.ActiveUniforms(p.handle); i++ {
		info := p.dev.ActiveUniform(p.handle, i)
		if strings.HasPrefix(info.Name, builtinPrefix) {
			p.logger.WithFields(logrus.Fields{"program": p.key, "uniform": info.Name}).Debug("skipping built-in uniform")
			continue
		}
		loc := p.dev.UniformLocation(p.handle, info.Name)
		if loc < 0 {
			p.logger.WithFields(logrus.Fields{"program": p.key, "uniform": info.Name}).Debug("skipping uniform without location")
			continue
		}
		name := strings.TrimSuffix(info.Name, "[0]")
		p.uniformIndex[name] = len(p.uniforms)
		p.uniforms = append(p.uniforms, UniformDescriptor{
			Name:                   name,
			Slot:                   loc,
			Type:                   info.Type,
			ArraySize:              info.Size,
			ExpectedComponentCount: ComponentCount(info.Type),
		})
	}
}

func (p *program) Key() string {
	return p.key
}

func (p *program) Handle() device.Handle {
	if p.released {
		return 0
	}
	return p.handle
}

func (p *program) Attributes() []AttributeDescriptor {
	return append([]AttributeDescriptor(nil), p.attributes...)
}

func (p *program) Attribute(name string) (AttributeDescriptor, bool) {
	i, ok := p.attributeIndex[name]
	if !ok {
		return AttributeDescriptor{}, false
	}
	return p.attributes[i], true
}

func (p *program) Uniforms() []UniformDescriptor {
	return append([]UniformDescriptor(nil), p.uniforms...)
}

func (p *program) Uniform(name string) (UniformDescriptor, bool) {
	i, ok := p.uniformIndex[name]
	if !ok {
		return UniformDescriptor{}, false
	}
	return p.uniforms[i], true
}

func (p *program) Use() {
	p.dev.UseProgram(p.handle)
}

func (p *program) Release() {
	if p.released {
		return
	}
	p.dev.DeleteProgram(p.handle)
	p.released = true
}
