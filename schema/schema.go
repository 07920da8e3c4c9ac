package schema

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const artifactName = "feature schema"

// Schema is the ordered list of feature names a model was trained on. It is
// immutable after construction and shared by all requests.
type Schema struct {
	names []string
	index map[string]int
}

func New(names []string) (*Schema, error) {
	if len(names) == 0 {
		return nil, &ConfigurationError{Artifact: artifactName, Err: errEmptySchema}
	}
	s := &Schema{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, &ConfigurationError{Artifact: artifactName, Err: fmt.Errorf("blank feature name at position %d", i)}
		}
		if _, dup := s.index[name]; dup {
			return nil, &ConfigurationError{Artifact: artifactName, Err: fmt.Errorf("duplicate feature name %q", name)}
		}
		s.names[i] = name
		s.index[name] = i
	}
	return s, nil
}

// Load reads a serialized feature list. Both a bare list and a mapping with a
// "features" key are accepted, in YAML or JSON.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigurationError{Artifact: artifactName, Path: path, Err: err}
	}

	names, err := decodeNames(data)
	if err != nil {
		return nil, &ConfigurationError{Artifact: artifactName, Path: path, Err: err}
	}

	s, err := New(names)
	if err != nil {
		var cfgErr *ConfigurationError
		if errors.As(err, &cfgErr) {
			cfgErr.Path = path
		}
		return nil, err
	}
	return s, nil
}

func decodeNames(data []byte) ([]string, error) {
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Features []string `yaml:"features"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feature list: %w", err)
	}
	return doc.Features, nil
}

// Names returns a copy of the feature names in model order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *Schema) Len() int { return len(s.names) }

func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
