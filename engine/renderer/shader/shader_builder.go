package shader

import "github.com/sirupsen/logrus"

// ShaderBuilderOption is a functional option used to configure a Shader during compilation.
type ShaderBuilderOption func(*shader)

// WithLogger sets the logger compile diagnostics are written to.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - ShaderBuilderOption: a function that sets the logger for this shader
func WithLogger(logger logrus.FieldLogger) ShaderBuilderOption {
	return func(s *shader) {
		if logger != nil {
			s.logger = logger
		}
	}
}
