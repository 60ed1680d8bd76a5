package program

import "github.com/Carmen-Shannon/oxy-gl/engine/device"

// DefaultComponentCount is the number of float components per vertex assumed for an attribute
// when the caller does not say otherwise.
const DefaultComponentCount = 4

var uniformComponentCounts = map[device.ScalarType]int{
	device.TypeFloat:     1,
	device.TypeFloatVec2: 2,
	device.TypeFloatVec3: 3,
	device.TypeFloatVec4: 4,
	device.TypeFloatMat2: 4,
	device.TypeFloatMat3: 9,
	device.TypeFloatMat4: 16,
}

// ComponentCount returns the number of floats a uniform of the given type expects.
//
// Parameters:
//   - t: the device-reported uniform type
//
// Returns:
//   - int: the expected float count, or 0 if uniforms of that type cannot be uploaded
func ComponentCount(t device.ScalarType) int {
	return uniformComponentCounts[t]
}

// AttributeDescriptor describes one active vertex attribute of a linked program.
type AttributeDescriptor struct {
	Name           string
	Slot           uint32
	Type           device.ScalarType
	ArraySize      int
	ComponentCount int
}

// UniformDescriptor describes one active uniform of a linked program.
// Slot is the opaque device location and is only meaningful for the program it came from.
type UniformDescriptor struct {
	Name                   string
	Slot                   int32
	Type                   device.ScalarType
	ArraySize              int
	ExpectedComponentCount int
}

// Supported reports whether values for this uniform can be uploaded.
func (u UniformDescriptor) Supported() bool {
	return u.ExpectedComponentCount > 0
}
