package picker

import (
	"context"
	"slices"

	"github.com/roach88/treepick/internal/store"
)

// CustomFilter narrows a session beyond its configuration. It stays in
// effect across searches until cleared.
type CustomFilter struct {
	// Types replace Config.ParentTypes as the root types. Empty keeps them.
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`

	// Filters are ANDed with the root or search filters.
	Filters []store.Filter `json:"filters,omitempty" yaml:"filters,omitempty"`
}

// IsZero reports whether f changes nothing.
func (f CustomFilter) IsZero() bool {
	return len(f.Types) == 0 && len(f.Filters) == 0
}

// ApplyFilter installs f in place of any earlier custom filter and reloads.
func (s *Session) ApplyFilter(ctx context.Context, f CustomFilter) (*View, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.custom = CustomFilter{
		Types:   slices.Clone(f.Types),
		Filters: slices.Clone(f.Filters),
	}
	s.emit(EventFiltered, nil, "")
	s.logger.Debug("custom filter applied", "types", f.Types, "filters", len(f.Filters))
	return s.Load(ctx)
}

// ClearFilter removes the custom filter and reloads.
func (s *Session) ClearFilter(ctx context.Context) (*View, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.custom = CustomFilter{}
	s.emit(EventFiltered, nil, "")
	return s.Load(ctx)
}

// Filter returns the active custom filter.
func (s *Session) Filter() CustomFilter {
	return CustomFilter{
		Types:   slices.Clone(s.custom.Types),
		Filters: slices.Clone(s.custom.Filters),
	}
}

// parentTypes returns the root types of the next load.
func (s *Session) parentTypes() []string {
	if len(s.custom.Types) > 0 {
		return s.custom.Types
	}
	return s.cfg.ParentTypes
}

// requestFilters merges the root or search filters with the custom
// filters, dropping repeats.
func (s *Session) requestFilters() []store.Filter {
	out := make([]store.Filter, 0, len(s.filters)+len(s.custom.Filters))
	for _, f := range append(slices.Clone(s.filters), s.custom.Filters...) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
