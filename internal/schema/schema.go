// Package schema describes which fields each record type carries.
//
// The tree loader only attaches children through parent fields the child's
// model actually has, so the registry is consulted on every level of a load.
// A Registry is filled at construction and read-only afterwards.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/roach88/treepick/internal/ref"
)

// FieldKind classifies a field's values.
type FieldKind string

const (
	KindString     FieldKind = "string"
	KindInteger    FieldKind = "integer"
	KindReference  FieldKind = "reference"
	KindCollection FieldKind = "collection"
)

// Valid reports whether k is a known kind.
func (k FieldKind) Valid() bool {
	switch k {
	case KindString, KindInteger, KindReference, KindCollection:
		return true
	}
	return false
}

// FieldDescriptor describes one field of a model.
type FieldDescriptor struct {
	Name string    `json:"name" yaml:"name"`
	Kind FieldKind `json:"kind" yaml:"kind"`
}

// Model is the field schema of one record type.
type Model struct {
	TypePath    string                     `json:"type_path"`
	DisplayName string                     `json:"display_name,omitempty"`
	Fields      map[string]FieldDescriptor `json:"fields"`
}

// NewModel builds a model from its field descriptors.
func NewModel(typePath, displayName string, fields ...FieldDescriptor) *Model {
	m := &Model{
		TypePath:    typePath,
		DisplayName: displayName,
		Fields:      make(map[string]FieldDescriptor, len(fields)),
	}
	for _, f := range fields {
		m.Fields[f.Name] = f
	}
	return m
}

// HasField reports whether the model has the named field. The name is
// matched as given, then with whitespace removed.
func (m *Model) HasField(name string) bool {
	if _, ok := m.Fields[name]; ok {
		return true
	}
	_, ok := m.Fields[StripSpace(name)]
	return ok
}

// Field returns the descriptor for name, matched like HasField.
func (m *Model) Field(name string) (FieldDescriptor, bool) {
	if f, ok := m.Fields[name]; ok {
		return f, true
	}
	f, ok := m.Fields[StripSpace(name)]
	return f, ok
}

// FieldNames returns the model's field names, sorted.
func (m *Model) FieldNames() []string {
	out := make([]string, 0, len(m.Fields))
	for name := range m.Fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Registry holds models keyed by case-folded type path.
type Registry struct {
	models map[string]*Model
}

// NewRegistry creates a registry. Duplicate type paths panic; use Register
// when models come from untrusted input.
func NewRegistry(models ...*Model) *Registry {
	r := &Registry{models: make(map[string]*Model, len(models))}
	for _, m := range models {
		if err := r.Register(m); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a model. Returns an error if the type path is empty or
// already registered.
func (r *Registry) Register(m *Model) error {
	if m == nil || m.TypePath == "" {
		return fmt.Errorf("register model: type path is required")
	}
	key := ref.FoldType(m.TypePath)
	if _, exists := r.models[key]; exists {
		return fmt.Errorf("register model: %q already registered", m.TypePath)
	}
	r.models[key] = m
	return nil
}

// Model returns the model for typePath, case-insensitively.
func (r *Registry) Model(typePath string) (*Model, bool) {
	m, ok := r.models[ref.FoldType(typePath)]
	return m, ok
}

// HasField reports whether typePath is registered and has the named field.
func (r *Registry) HasField(typePath, field string) bool {
	m, ok := r.Model(typePath)
	return ok && m.HasField(field)
}

// Types returns the registered type paths, sorted.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m.TypePath)
	}
	sort.Strings(out)
	return out
}

// Models returns the registered models sorted by type path.
func (r *Registry) Models() []*Model {
	out := make([]*Model, 0, len(r.models))
	for _, m := range r.models {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypePath < out[j].TypePath })
	return out
}

// StripSpace removes every whitespace rune from s.
func StripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
