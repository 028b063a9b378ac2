package mapper

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// TableError reports a problem in a CUE relationship table.
type TableError struct {
	Field   string
	Message string
	Pos     token.Pos
}

// Error implements the error interface.
func (e *TableError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// LoadTable reads a relationship table from a CUE file.
func LoadTable(path string) (Table, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	return ParseTable(path, src)
}

// ParseTable compiles CUE source into a Table. filename is used for
// positions in error messages only.
//
// The source must define a "relationships" struct whose fields are parent
// type tags and whose values are lists of {child, collection, parent_field}.
func ParseTable(filename string, src []byte) (Table, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	relsVal := v.LookupPath(cue.ParsePath("relationships"))
	if !relsVal.Exists() {
		return nil, &TableError{
			Field:   "relationships",
			Message: "relationships is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := relsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	table := Table{}
	for iter.Next() {
		parent := labelOf(iter.Selector())
		rules, err := parseRules(parent, iter.Value())
		if err != nil {
			return nil, err
		}
		table[parent] = rules
	}

	if len(table) == 0 {
		return nil, &TableError{
			Field:   "relationships",
			Message: "at least one parent type is required",
			Pos:     relsVal.Pos(),
		}
	}
	return table, nil
}

// labelOf returns a field label without quotes, so "portfolioitem/feature"
// and portfolioitem read the same way.
func labelOf(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

func parseRules(parent string, v cue.Value) ([]Rule, error) {
	list, err := v.List()
	if err != nil {
		return nil, &TableError{
			Field:   "relationships." + parent,
			Message: "must be a list of rules",
			Pos:     v.Pos(),
		}
	}

	rules := []Rule{}
	for i := 0; list.Next(); i++ {
		item := list.Value()
		field := fmt.Sprintf("relationships.%s[%d]", parent, i)

		child, err := requiredString(item, field, "child")
		if err != nil {
			return nil, err
		}
		collection, err := requiredString(item, field, "collection")
		if err != nil {
			return nil, err
		}
		parentField, err := requiredString(item, field, "parent_field")
		if err != nil {
			return nil, err
		}

		rules = append(rules, Rule{
			ChildType:      child,
			CollectionName: collection,
			ParentField:    parentField,
		})
	}
	return rules, nil
}

func requiredString(v cue.Value, field, name string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &TableError{
			Field:   field + "." + name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", &TableError{
			Field:   field + "." + name,
			Message: "must be a string",
			Pos:     fv.Pos(),
		}
	}
	if s == "" {
		return "", &TableError{
			Field:   field + "." + name,
			Message: name + " must not be empty",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &TableError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
