package binder

import "github.com/go-gl/mathgl/mgl32"

// AttributeValue is the per-frame data of one vertex attribute: a flat run of floats read
// Size components per vertex. A zero Size means the default of 4 components.
type AttributeValue struct {
	Data []float32
	Size int
}

// Attributes maps attribute names to the values supplied for one frame.
type Attributes map[string]AttributeValue

// UniformValue is the per-frame data of one uniform. Matrices are column-major.
type UniformValue []float32

// Uniforms maps uniform names to the values supplied for one frame.
type Uniforms map[string]UniformValue

// size returns the effective component count of the value.
func (v AttributeValue) size() int {
	if v.Size == 0 {
		return 4
	}
	return v.Size
}

// Floats builds a one component attribute from scalars.
func Floats(data ...float32) AttributeValue {
	return AttributeValue{Data: data, Size: 1}
}

// Vec2s builds a two component attribute from mgl32 vectors.
func Vec2s(vs ...mgl32.Vec2) AttributeValue {
	data := make([]float32, 0, len(vs)*2)
	for _, v := range vs {
		data = append(data, v[:]...)
	}
	return AttributeValue{Data: data, Size: 2}
}

// Vec3s builds a three component attribute from mgl32 vectors.
func Vec3s(vs ...mgl32.Vec3) AttributeValue {
	data := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		data = append(data, v[:]...)
	}
	return AttributeValue{Data: data, Size: 3}
}

// Vec4s builds a four component attribute from mgl32 vectors.
func Vec4s(vs ...mgl32.Vec4) AttributeValue {
	data := make([]float32, 0, len(vs)*4)
	for _, v := range vs {
		data = append(data, v[:]...)
	}
	return AttributeValue{Data: data, Size: 4}
}

// Float wraps a float uniform value.
func Float(f float32) UniformValue {
	return UniformValue{f}
}

// Vec2 flattens a vec2 uniform value.
func Vec2(v mgl32.Vec2) UniformValue {
	return UniformValue(v[:])
}

// Vec3 flattens a vec3 uniform value.
func Vec3(v mgl32.Vec3) UniformValue {
	return UniformValue(v[:])
}

// Vec4 flattens a vec4 uniform value.
func Vec4(v mgl32.Vec4) UniformValue {
	return UniformValue(v[:])
}

// Mat2 flattens a matrix in the column-major order the device expects.
func Mat2(m mgl32.Mat2) UniformValue {
	return UniformValue(m[:])
}

// Mat3 flattens a matrix in the column-major order the device expects.
func Mat3(m mgl32.Mat3) UniformValue {
	return UniformValue(m[:])
}

// Mat4 flattens a matrix in the column-major order the device expects.
func Mat4(m mgl32.Mat4) UniformValue {
	return UniformValue(m[:])
}
