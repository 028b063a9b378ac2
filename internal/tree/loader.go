package tree

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/treepick/internal/mapper"
	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/schema"
	"github.com/roach88/treepick/internal/store"
)

// DefaultMaxDepth bounds expansion below the roots.
const DefaultMaxDepth = 16

// Source returns records matching a query. *store.Store implements it.
type Source interface {
	Query(ctx context.Context, q store.Query) (*store.Page, error)
}

// Request selects the roots of a load.
type Request struct {
	// ParentTypes are the root record types.
	ParentTypes []string

	// Filters restrict roots only; children are selected by parent field.
	Filters []store.Filter

	// Sorters order roots.
	Sorters []store.Sorter

	Page     int
	PageSize int
}

// Loader builds trees from a Source.
type Loader struct {
	source       Source
	mapper       *mapper.Mapper
	registry     *schema.Registry
	maxDepth     int
	childSorters []store.Sorter
	logger       *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithMaxDepth limits how many levels below the roots are expanded.
// Zero loads roots only.
func WithMaxDepth(depth int) Option {
	return func(l *Loader) { l.maxDepth = depth }
}

// WithChildSorters sets the ordering of every child level.
func WithChildSorters(sorters ...store.Sorter) Option {
	return func(l *Loader) { l.childSorters = sorters }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a loader. Children are sorted by Name by default.
func NewLoader(src Source, m *mapper.Mapper, reg *schema.Registry, opts ...Option) *Loader {
	l := &Loader{
		source:       src,
		mapper:       m,
		registry:     reg,
		maxDepth:     DefaultMaxDepth,
		childSorters: []store.Sorter{{Property: "Name", Direction: store.Asc}},
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParentFieldNames returns the fields on childType records that point back
// to a parentType record, keeping only fields the child's model has.
// Whitespace is stripped and duplicates removed, in mapper order.
func (l *Loader) ParentFieldNames(childType, parentType string) []string {
	model, ok := l.registry.Model(childType)
	if !ok {
		return []string{}
	}

	seen := map[string]bool{}
	out := []string{}
	for _, pf := range l.mapper.ParentFields(childType, parentType) {
		if !model.HasField(pf.FieldName) {
			continue
		}
		name := schema.StripSpace(pf.FieldName)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Load queries the roots described by req and expands every root.
func (l *Loader) Load(ctx context.Context, req Request) (*Tree, error) {
	page, err := l.source.Query(ctx, store.Query{
		Types:    req.ParentTypes,
		Filters:  req.Filters,
		Sorters:  req.Sorters,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("load roots: %w", err)
	}

	t := &Tree{Total: page.Total}
	for _, rec := range page.Records {
		node := &Node{Record: rec}
		if err := l.expand(ctx, node); err != nil {
			return nil, err
		}
		t.Roots = append(t.Roots, node)
	}

	l.logger.Debug("tree loaded",
		"parent_types", req.ParentTypes,
		"filters", len(req.Filters),
		"roots", len(t.Roots),
		"total", t.Total,
	)
	return t, nil
}

func (l *Loader) expand(ctx context.Context, n *Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.Depth >= l.maxDepth {
		return nil
	}

	for _, childType := range l.mapper.ChildTypes(n.Type()) {
		children, err := l.children(ctx, n, childType)
		if err != nil {
			return err
		}
		for _, rec := range children {
			if n.onPath(rec.Ref) {
				l.logger.Warn("cycle in record hierarchy", "ref", rec.Ref, "parent", n.Ref())
				continue
			}
			child := &Node{Record: rec, Parent: n, Depth: n.Depth + 1}
			if err := l.expand(ctx, child); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
		}
	}
	return nil
}

// children returns records of childType attached to n through any parent
// field, merged by first appearance.
func (l *Loader) children(ctx context.Context, n *Node, childType string) ([]*ref.Entity, error) {
	fields := l.ParentFieldNames(childType, n.Type())
	if len(fields) == 0 {
		return nil, nil
	}

	seen := ref.Set{}
	var out []*ref.Entity
	for _, field := range fields {
		page, err := l.source.Query(ctx, store.Query{
			Types:   []string{childType},
			Filters: []store.Filter{store.Eq(field, string(n.Ref()))},
			Sorters: l.childSorters,
		})
		if err != nil {
			return nil, fmt.Errorf("load %s children of %s via %s: %w", childType, n.Ref(), field, err)
		}
		for _, rec := range page.Records {
			if seen.Has(rec.Ref) {
				continue
			}
			seen.Add(rec.Ref)
			out = append(out, rec)
		}
	}
	return out, nil
}
