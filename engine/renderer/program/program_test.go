package program

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-gl/engine/device"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	stripVertex = `attribute vec2 position;
attribute float shade;
uniform mat4 transform;
uniform float time;
varying float vShade;
void main() {
	vShade = shade;
	gl_Position = transform * vec4(position, 0.0, 1.0);
}
`
	stripFragment = `uniform vec3 tint;
uniform float time;
uniform vec2 offsets[3];
uniform sampler2D atlas;
varying float vShade;
void main() { gl_FragColor = vec4(tint * vShade, 1.0); }
`
)

func compilePair(t *testing.T, dev device.Device, vsSource, fsSource string) (shader.Shader, shader.Shader) {
	t.Helper()
	vs, err := shader.Compile(dev, shader.Document{ID: "strip-vs", Kind: shader.MarkerVertex, Source: vsSource})
	require.NoError(t, err)
	fs, err := shader.Compile(dev, shader.Document{ID: "strip-fs", Kind: shader.MarkerFragment, Source: fsSource})
	require.NoError(t, err)
	return vs, fs
}

func attributeNames(p Program) []string {
	var names []string
	for _, a := range p.Attributes() {
		names = append(names, a.Name)
	}
	return names
}

func uniformNames(p Program) []string {
	var names []string
	for _, u := range p.Uniforms() {
		names = append(names, u.Name)
	}
	return names
}

func TestLinkReflectsDeclaredInterface(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	p, err := Link(dev, vs, fs)
	require.NoError(t, err)
	assert.Equal(t, "strip-vs+strip-fs", p.Key())
	assert.NotZero(t, p.Handle())

	assert.Equal(t, []string{"position", "shade"}, attributeNames(p))
	assert.Equal(t, []string{"transform", "time", "tint", "offsets", "atlas"}, uniformNames(p))

	position, ok := p.Attribute("position")
	require.True(t, ok)
	assert.Equal(t, AttributeDescriptor{Name: "position", Slot: 0, Type: device.TypeFloatVec2, ArraySize: 1, ComponentCount: 4}, position)

	shade, ok := p.Attribute("shade")
	require.True(t, ok)
	assert.Equal(t, uint32(1), shade.Slot)
	assert.Equal(t, device.TypeFloat, shade.Type)

	_, ok = p.Attribute("vShade")
	assert.False(t, ok)
}

func TestLinkUniformTypesComeFromOwnDescriptor(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	p, err := Link(dev, vs, fs)
	require.NoError(t, err)

	tests := []struct {
		name      string
		typ       device.ScalarType
		arraySize int
		expected  int
	}{
		{"transform", device.TypeFloatMat4, 1, 16},
		{"time", device.TypeFloat, 1, 1},
		{"tint", device.TypeFloatVec3, 1, 3},
		{"offsets", device.TypeFloatVec2, 3, 2},
		{"atlas", device.TypeSampler2D, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := p.Uniform(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.typ, u.Type)
			assert.Equal(t, tt.arraySize, u.ArraySize)
			assert.Equal(t, tt.expected, u.ExpectedComponentCount)
			assert.Equal(t, tt.expected > 0, u.Supported())
			assert.Equal(t, dev.UniformLocation(p.Handle(), u.Name), u.Slot)
		})
	}
}

func TestLinkSkipsBuiltins(t *testing.T) {
	dev := devicetest.New()
	dev.BuiltinAttributes = []string{"gl_Vertex", "gl_Color"}
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	p, err := Link(dev, vs, fs)
	require.NoError(t, err)
	assert.Equal(t, []string{"position", "shade"}, attributeNames(p))
	_, ok := p.Attribute("gl_Vertex")
	assert.False(t, ok)
}

func TestLinkFailure(t *testing.T) {
	dev := devicetest.New()
	dev.FailLink = true
	dev.LinkLog = "error: varying vShade not written by vertex shader\n"
	logger, hook := test.NewNullLogger()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	_, err := Link(dev, vs, fs, WithKey("strip"), WithLogger(logger))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLink))

	var linkErr *LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, "strip", linkErr.Key)
	assert.Equal(t, "error: varying vShade not written by vertex shader", linkErr.Log)
	assert.Len(t, dev.DeletedPrograms, 1)
	assert.Equal(t, "program link failed", hook.LastEntry().Message)
}

func TestLinkRejectsStageMismatch(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	_, err := Link(dev, fs, vs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLink))
	assert.Contains(t, err.Error(), "expected vertex")

	_, err = Link(dev, vs, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLink))
}

func TestLinkReleaseShaders(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)
	vsHandle, fsHandle := vs.Handle(), fs.Handle()

	p, err := Link(dev, vs, fs, WithReleaseShaders(true))
	require.NoError(t, err)
	assert.ElementsMatch(t, []device.Handle{vsHandle, fsHandle}, dev.Detached)
	assert.ElementsMatch(t, []device.Handle{vsHandle, fsHandle}, dev.DeletedShaders)
	assert.Zero(t, vs.Handle())

	// the reflected interface outlives the shader units
	assert.Equal(t, []string{"position", "shade"}, attributeNames(p))

	_, err = Link(dev, vs, fs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "released")
}

func TestProgramUseAndRelease(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	p, err := Link(dev, vs, fs)
	require.NoError(t, err)
	h := p.Handle()

	p.Use()
	assert.Equal(t, h, dev.Current)

	p.Release()
	p.Release()
	assert.Equal(t, []device.Handle{h}, dev.DeletedPrograms)
	assert.Zero(t, p.Handle())
}

func TestDescriptorTablesAreCopies(t *testing.T) {
	dev := devicetest.New()
	vs, fs := compilePair(t, dev, stripVertex, stripFragment)

	p, err := Link(dev, vs, fs)
	require.NoError(t, err)

	attrs := p.Attributes()
	attrs[0].Slot = 42
	uniforms := p.Uniforms()
	uniforms[0].ExpectedComponentCount = 1

	position, _ := p.Attribute("position")
	transform, _ := p.Uniform("transform")
	assert.Equal(t, uint32(0), position.Slot)
	assert.Equal(t, 16, transform.ExpectedComponentCount)
}
