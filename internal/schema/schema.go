// Package schema describes the attributes and structures of a corpus and
// answers the existence questions the highlighter asks while decorating a
// query.
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultCorpus is the name of the built-in schema.
const DefaultCorpus = "default"

var (
	// ErrCorpusNotFound is returned when no schema file exists for a corpus.
	ErrCorpusNotFound = errors.New("corpus not found")
	// ErrInvalidSchema is returned for schema files that fail validation.
	ErrInvalidSchema = errors.New("invalid schema")
)

//go:embed default.yaml
var defaultSchema []byte

// Structure is a structural element such as a sentence or a document.
type Structure struct {
	Name  string   `yaml:"name"`
	Attrs []string `yaml:"attrs"`
}

// Schema lists what a corpus defines. It implements cql.AttrHelper.
type Schema struct {
	Corpus     string      `yaml:"corpus"`
	PosAttrs   []string    `yaml:"posattrs"`
	TagAttr    string      `yaml:"tag_attr"`
	Structures []Structure `yaml:"structures"`

	structs map[string][]string
}

// Parse decodes and validates a YAML schema.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.index()
	return &s, nil
}

// Default returns the built-in schema served when no schema directory is
// configured.
func Default() *Schema {
	s, err := Parse(defaultSchema)
	if err != nil {
		panic(fmt.Sprintf("built-in schema: %v", err))
	}
	return s
}

func (s *Schema) validate() error {
	if s.Corpus == "" {
		return fmt.Errorf("%w: corpus name is required", ErrInvalidSchema)
	}
	if s.TagAttr != "" && !slices.Contains(s.PosAttrs, s.TagAttr) {
		return fmt.Errorf("%w: tag_attr %q is not a positional attribute", ErrInvalidSchema, s.TagAttr)
	}
	seen := make(map[string]bool, len(s.Structures))
	for i, st := range s.Structures {
		if st.Name == "" {
			return fmt.Errorf("%w: structures[%d] has no name", ErrInvalidSchema, i)
		}
		if seen[st.Name] {
			return fmt.Errorf("%w: duplicate structure %q", ErrInvalidSchema, st.Name)
		}
		seen[st.Name] = true
	}
	return nil
}

func (s *Schema) index() {
	s.structs = make(map[string][]string, len(s.Structures))
	for _, st := range s.Structures {
		s.structs[st.Name] = st.Attrs
	}
}

func (s *Schema) AttrExists(name string) bool {
	return slices.Contains(s.PosAttrs, name)
}

func (s *Schema) IsTagAttr(name string) bool {
	return s.TagAttr != "" && name == s.TagAttr
}

func (s *Schema) StructExists(name string) bool {
	_, ok := s.structs[name]
	return ok
}

func (s *Schema) StructAttrExists(structName, attrName string) bool {
	return slices.Contains(s.structs[structName], attrName)
}
