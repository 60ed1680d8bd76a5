package loader

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/sirupsen/logrus"
)

// Box is a read-only collection of named text files. *packr.Box and packr.Box satisfy it.
type Box interface {
	FindString(name string) (string, error)
	List() []string
}

// DefaultKinds maps file suffixes to the stage kind marker given to documents loaded from them.
var DefaultKinds = map[string]string{
	".vert": shader.MarkerVertex,
	".vs":   shader.MarkerVertex,
	".frag": shader.MarkerFragment,
	".fs":   shader.MarkerFragment,
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	box   Box
	kinds map[string]string

	documentCache map[string]shader.Document

	logger logrus.FieldLogger
}

// Loader reads shader source documents out of a Box and tags each with the stage kind
// marker its file suffix maps to. Loaded documents are cached by name.
type Loader interface {
	// Document loads one shader document.
	// The document ID is the name it was loaded by; files with an unmapped suffix
	// keep the bare suffix as their kind and are rejected when compiled.
	//
	// Parameters:
	//   - name: the file name inside the box
	//
	// Returns:
	//   - shader.Document: the loaded document
	//   - error: error if the box has no such file
	Document(name string) (shader.Document, error)

	// Pair loads a vertex and a fragment document and checks that their suffixes map to those stages.
	//
	// Parameters:
	//   - vertex: the file name of the vertex shader
	//   - fragment: the file name of the fragment shader
	//
	// Returns:
	//   - shader.Document: the vertex document
	//   - shader.Document: the fragment document
	//   - error: error if either file is missing or tagged with the wrong stage
	Pair(vertex, fragment string) (shader.Document, shader.Document, error)

	// Documents loads every file in the box whose suffix maps to a stage, sorted by name.
	//
	// Returns:
	//   - []shader.Document: the loaded documents
	//   - error: error if a listed file cannot be read
	Documents() ([]shader.Document, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader reading from box with the specified options applied.
//
// Parameters:
//   - box: the file collection to read shader sources from
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader with an empty cache
func NewLoader(box Box, options ...LoaderBuilderOption) Loader {
	l := &loader{
		box:           box,
		kinds:         make(map[string]string, len(DefaultKinds)),
		documentCache: make(map[string]shader.Document),
		logger:        logrus.StandardLogger(),
	}
	for suffix, marker := range DefaultKinds {
		l.kinds[suffix] = marker
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Document(name string) (shader.Document, error) {
	l.mu.RLock()
	if cached, ok := l.documentCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	source, err := l.box.FindString(name)
	if err != nil {
		return shader.Document{}, fmt.Errorf("failed to load %s: %w", name, err)
	}
	doc := shader.Document{ID: name, Kind: l.kindOf(name), Source: source}

	l.mu.Lock()
	l.documentCache[name] = doc
	l.mu.Unlock()

	l.logger.WithFields(logrus.Fields{"shader": name, "kind": doc.Kind}).Debug("shader document loaded")
	return doc, nil
}

func (l *loader) Pair(vertex, fragment string) (shader.Document, shader.Document, error) {
	vs, err := l.Document(vertex)
	if err != nil {
		return shader.Document{}, shader.Document{}, err
	}
	fs, err := l.Document(fragment)
	if err != nil {
		return shader.Document{}, shader.Document{}, err
	}
	if kind, ok := shader.ParseStageKind(vs.Kind); !ok || kind != shader.StageKindVertex {
		return shader.Document{}, shader.Document{}, fmt.Errorf("%s is not a vertex shader (kind %q)", vertex, vs.Kind)
	}
	if kind, ok := shader.ParseStageKind(fs.Kind); !ok || kind != shader.StageKindFragment {
		return shader.Document{}, shader.Document{}, fmt.Errorf("%s is not a fragment shader (kind %q)", fragment, fs.Kind)
	}
	return vs, fs, nil
}

func (l *loader) Documents() ([]shader.Document, error) {
	names := l.box.List()
	slices.Sort(names)

	var docs []shader.Document
	for _, name := range names {
		if _, ok := l.kinds[strings.ToLower(path.Ext(name))]; !ok {
			continue
		}
		doc, err := l.Document(name)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// kindOf returns the marker mapped to the file suffix, or the bare suffix if none is mapped.
func (l *loader) kindOf(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if marker, ok := l.kinds[ext]; ok {
		return marker
	}
	return strings.TrimPrefix(ext, ".")
}
