package mapper

import (
	"sort"

	"github.com/roach88/treepick/internal/ref"
)

// Rule describes one way a child type attaches to a parent type.
type Rule struct {
	// ChildType is the child's type tag, e.g. "task".
	ChildType string `json:"child_type"`

	// CollectionName is the field on the parent holding the children, e.g. "Tasks".
	CollectionName string `json:"collection_name"`

	// ParentField is the field on the child referencing the parent, e.g. "WorkProduct".
	ParentField string `json:"parent_field"`
}

// Table maps a parent type tag to its child rules.
type Table map[string][]Rule

// ParentField pairs a child-side field name with the rule's child type.
type ParentField struct {
	TypePath  string `json:"type_path"`
	FieldName string `json:"field_name"`
}

// Mapper is an immutable, case-insensitive view of a Table.
type Mapper struct {
	rules map[string][]Rule
	names []string
}

// New builds a Mapper from table. The table is copied; later changes to it
// are not observed. Rules for parent tags that fold to the same key are
// concatenated in sorted key order.
func New(table Table) *Mapper {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := &Mapper{rules: make(map[string][]Rule, len(table))}
	for _, k := range keys {
		folded := fold(k)
		if _, seen := m.rules[folded]; !seen {
			m.names = append(m.names, folded)
		}
		m.rules[folded] = append(m.rules[folded], table[k]...)
	}
	sort.Strings(m.names)
	return m
}

// Default returns a Mapper over DefaultTable.
func Default() *Mapper {
	return New(DefaultTable())
}

// RulesForParentType returns the rules for parentType in table order.
// Unknown parent types return an empty slice.
func (m *Mapper) RulesForParentType(parentType string) []Rule {
	rules := m.rules[fold(parentType)]
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// ParentFields returns, for every rule under parentType whose child type
// matches childType, the child-side field that points back to the parent.
// All matches are returned in table order; no match returns an empty slice.
func (m *Mapper) ParentFields(childType, parentType string) []ParentField {
	want := fold(childType)
	out := []ParentField{}
	for _, r := range m.rules[fold(parentType)] {
		if fold(r.ChildType) == want {
			out = append(out, ParentField{TypePath: r.ChildType, FieldName: r.ParentField})
		}
	}
	return out
}

// ParentTypes returns the folded parent type tags known to the mapper, sorted.
func (m *Mapper) ParentTypes() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// ChildTypes returns the distinct child types under parentType in first-seen order.
func (m *Mapper) ChildTypes(parentType string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range m.rules[fold(parentType)] {
		k := fold(r.ChildType)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r.ChildType)
	}
	return out
}

// HasParentType reports whether parentType has any rules.
func (m *Mapper) HasParentType(parentType string) bool {
	return len(m.rules[fold(parentType)]) > 0
}

func fold(s string) string { return ref.FoldType(s) }
