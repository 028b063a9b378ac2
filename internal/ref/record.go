package ref

import "fmt"

// Record is the narrow view of a fetched record.
//
// Rendering, persistence and every other capability of the record source
// stay with the source; treepick only needs identity and field access.
type Record interface {
	// Reference returns the record's stable identifier.
	Reference() Ref

	// Field returns the named field value and whether it is present.
	Field(name string) (any, bool)
}

// Entity is the concrete record returned by the store.
//
// Fields hold decoded JSON values: string, float64, bool, []any, map[string]any.
// Reference-typed fields (Parent, WorkProduct) hold the referenced Ref as a
// string; collection-typed fields (DefectSuites, TestSets) hold []any of strings.
type Entity struct {
	Ref    Ref            `json:"_ref" yaml:"ref"`
	Type   string         `json:"_type" yaml:"type"`
	Fields map[string]any `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// Reference implements Record.
func (e *Entity) Reference() Ref { return e.Ref }

// Field implements Record.
func (e *Entity) Field(name string) (any, bool) {
	if e.Fields == nil {
		return nil, false
	}
	v, ok := e.Fields[name]
	return v, ok
}

// StringField returns the named field rendered as a string.
// Missing and null fields return "".
func (e *Entity) StringField(name string) string {
	v, ok := e.Field(name)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Name returns the record's Name field.
func (e *Entity) Name() string { return e.StringField("Name") }

// RefsField returns the references held by a reference or collection field.
// A scalar reference yields a single element; empty values yield nil.
func (e *Entity) RefsField(name string) []Ref {
	v, ok := e.Field(name)
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []Ref{Ref(val)}
	case []any:
		out := make([]Ref, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, Ref(s))
			}
		}
		return out
	case []string:
		return FromStrings(val)
	}
	return nil
}

// Clone returns a copy of the entity with a shallow copy of its fields.
func (e *Entity) Clone() *Entity {
	c := &Entity{Ref: e.Ref, Type: e.Type}
	if e.Fields != nil {
		c.Fields = make(map[string]any, len(e.Fields))
		for k, v := range e.Fields {
			c.Fields[k] = v
		}
	}
	return c
}
