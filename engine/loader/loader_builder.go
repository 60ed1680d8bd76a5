package loader

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// LoaderBuilderOption is a functional option used to configure a Loader during construction.
type LoaderBuilderOption func(*loader)

// WithKind maps an additional file suffix to a stage kind marker.
//
// Parameters:
//   - suffix: the file suffix including the dot, e.g. ".glslv"
//   - marker: the stage kind marker documents with that suffix are tagged with
//
// Returns:
//   - LoaderBuilderOption: a function that adds the suffix mapping to the loader
func WithKind(suffix, marker string) LoaderBuilderOption {
	return func(l *loader) {
		l.kinds[strings.ToLower(suffix)] = marker
	}
}

// WithLogger sets the logger the loader writes to.
//
// Parameters:
//   - logger: the logger to use, nil keeps the standard logger
//
// Returns:
//   - LoaderBuilderOption: a function that sets the logger for the loader
func WithLogger(logger logrus.FieldLogger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}
