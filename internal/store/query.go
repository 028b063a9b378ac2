package store

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/treepick/internal/ref"
)

// validIdentifier matches field names usable in a JSON path.
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents injection via path interpolation.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Operator is a filter comparison.
type Operator string

const (
	OpEqual    Operator = "="
	OpNotEqual Operator = "!="
	OpContains Operator = "contains"
)

// Filter restricts a query to records whose Property satisfies Operator Value.
type Filter struct {
	Property string   `json:"property" yaml:"property"`
	Operator Operator `json:"operator" yaml:"operator"`
	Value    string   `json:"value" yaml:"value"`
}

// String renders the filter the way it appears in logs: (Name contains foo).
func (f Filter) String() string {
	op := f.Operator
	if op == "" {
		op = OpEqual
	}
	return fmt.Sprintf("(%s %s %q)", f.Property, op, f.Value)
}

// Eq is shorthand for an equality filter.
func Eq(property, value string) Filter {
	return Filter{Property: property, Operator: OpEqual, Value: value}
}

// Contains is shorthand for a substring filter.
func Contains(property, value string) Filter {
	return Filter{Property: property, Operator: OpContains, Value: value}
}

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Sorter orders results by a field.
type Sorter struct {
	Property  string    `json:"property" yaml:"property"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// Query selects records.
type Query struct {
	// Types restricts results to these type tags (case-insensitive).
	// Empty means every type.
	Types []string

	// Filters are ANDed.
	Filters []Filter

	// Sorters order results; ties fall back to insertion sequence.
	Sorters []Sorter

	// Page is 1-based. Ignored unless PageSize > 0.
	Page int

	// PageSize limits results per page. 0 returns everything.
	PageSize int
}

// Page is one page of query results.
type Page struct {
	Records  []*ref.Entity
	Total    int // matches across all pages
	Page     int
	PageSize int
}

// Refs returns the refs of the page's records in order.
func (p *Page) Refs() []ref.Ref {
	out := make([]ref.Ref, len(p.Records))
	for i, r := range p.Records {
		out[i] = r.Ref
	}
	return out
}

// QueryError reports an invalid query.
type QueryError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %s: %s", e.Field, e.Message)
}

// compiledQuery is a WHERE/ORDER BY pair with its bind arguments.
type compiledQuery struct {
	where     string
	whereArgs []any
	orderBy   string
	orderArgs []any
}

func compileQuery(q Query) (*compiledQuery, error) {
	cq := &compiledQuery{}
	var clauses []string

	if len(q.Types) > 0 {
		placeholders := make([]string, len(q.Types))
		for i, t := range q.Types {
			placeholders[i] = "?"
			cq.whereArgs = append(cq.whereArgs, ref.FoldType(t))
		}
		clauses = append(clauses, "type IN ("+strings.Join(placeholders, ", ")+")")
	}

	for i, f := range q.Filters {
		clause, args, err := compileFilter(f)
		if err != nil {
			return nil, &QueryError{Field: fmt.Sprintf("filters[%d]", i), Message: err.Error()}
		}
		clauses = append(clauses, clause)
		cq.whereArgs = append(cq.whereArgs, args...)
	}

	if len(clauses) > 0 {
		cq.where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var order []string
	for i, s := range q.Sorters {
		if !validIdentifier.MatchString(s.Property) {
			return nil, &QueryError{Field: fmt.Sprintf("sorters[%d]", i), Message: fmt.Sprintf("invalid property %q", s.Property)}
		}
		dir := Direction(strings.ToUpper(string(s.Direction)))
		if dir == "" {
			dir = Asc
		}
		if dir != Asc && dir != Desc {
			return nil, &QueryError{Field: fmt.Sprintf("sorters[%d]", i), Message: fmt.Sprintf("invalid direction %q", s.Direction)}
		}
		order = append(order, fmt.Sprintf("json_extract(fields, ?) COLLATE NOCASE %s", dir))
		cq.orderArgs = append(cq.orderArgs, jsonPath(s.Property))
	}
	order = append(order, "seq ASC")
	cq.orderBy = " ORDER BY " + strings.Join(order, ", ")

	return cq, nil
}

func compileFilter(f Filter) (string, []any, error) {
	if !validIdentifier.MatchString(f.Property) {
		return "", nil, fmt.Errorf("invalid property %q", f.Property)
	}
	path := jsonPath(f.Property)

	switch f.Operator {
	case OpEqual, "":
		clause, args := equalClause(path, f.Value)
		return clause, args, nil
	case OpNotEqual:
		clause, args := equalClause(path, f.Value)
		return "NOT " + clause, args, nil
	case OpContains:
		return "instr(lower(COALESCE(CAST(json_extract(fields, ?) AS TEXT), '')), lower(?)) > 0",
			[]any{path, f.Value}, nil
	default:
		return "", nil, fmt.Errorf("unknown operator %q", f.Operator)
	}
}

// equalClause never yields NULL, so NOT equalClause is well defined for
// records lacking the field.
func equalClause(path, value string) (string, []any) {
	if value == "" {
		return `(COALESCE(json_type(fields, ?), 'null') = 'null'
			OR json_extract(fields, ?) = ''
			OR (json_type(fields, ?) = 'array' AND json_array_length(fields, ?) = 0))`,
			[]any{path, path, path, path}
	}
	return `COALESCE(CASE json_type(fields, ?)
			WHEN 'array' THEN EXISTS (
				SELECT 1 FROM json_each(records.fields, ?) AS member
				WHERE CAST(member.value AS TEXT) = ?)
			ELSE CAST(json_extract(fields, ?) AS TEXT) = ?
		END, 0)`,
		[]any{path, path, value, path, value}
}

func jsonPath(property string) string {
	return `$."` + property + `"`
}
