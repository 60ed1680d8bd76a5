package program

import "github.com/sirupsen/logrus"

// ProgramBuilderOption is a functional option used to configure a Program during linking.
type ProgramBuilderOption func(*program)

// WithKey sets the identifier used for this program in logs and errors.
//
// Parameters:
//   - key: the program key
//
// Returns:
//   - ProgramBuilderOption: a function that sets the key for this program
func WithKey(key string) ProgramBuilderOption {
	return func(p *program) {
		p.key = key
	}
}

// WithReleaseShaders sets whether both shader units are detached and released after a successful link.
//
// Parameters:
//   - release: true to release the shader units once the program is linked
//
// Returns:
//   - ProgramBuilderOption: a function that sets the shader release policy for this program
func WithReleaseShaders(release bool) ProgramBuilderOption {
	return func(p *program) {
		p.releaseShaders = release
	}
}

// WithLogger sets the logger link and reflection diagnostics are written to.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - ProgramBuilderOption: a function that sets the logger for this program
func WithLogger(logger logrus.FieldLogger) ProgramBuilderOption {
	return func(p *program) {
		if logger != nil {
			p.logger = logger
		}
	}
}
