package picker

import (
	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/store"
)

// Config describes one picker session.
type Config struct {
	// Title is shown by whatever presents the session.
	Title string `json:"title"`

	// Multiple allows choosing more than one record.
	Multiple bool `json:"multiple"`

	// SelectionButtonText labels the "done" action.
	SelectionButtonText string `json:"selection_button_text"`

	// SelectedRecords are the refs selected when the session starts.
	SelectedRecords []ref.Ref `json:"selected_records,omitempty"`

	// SelectedRef is a single initial selection.
	//
	// Deprecated: use SelectedRecords.
	SelectedRef ref.Ref `json:"selected_ref,omitempty"`

	// ParentTypes are the root record types of the tree.
	ParentTypes []string `json:"parent_types"`

	// RootFilters select root records while no search is active.
	RootFilters []store.Filter `json:"root_filters"`

	// Sorters order root records.
	Sorters []store.Sorter `json:"sorters,omitempty"`

	// PageSize limits roots per load. 0 loads every root.
	PageSize int `json:"page_size,omitempty"`
}

// DefaultConfig returns the configuration of a multi-select project picker.
func DefaultConfig() Config {
	return Config{
		Title:               "Choose an Item",
		Multiple:            true,
		SelectionButtonText: "Done",
		ParentTypes:         []string{"project"},
		RootFilters:         []store.Filter{store.Eq("Parent", "")},
		Sorters:             []store.Sorter{{Property: "Name", Direction: store.Asc}},
	}
}

// initialRefs merges SelectedRecords with the deprecated SelectedRef.
func (c Config) initialRefs() []ref.Ref {
	refs := append([]ref.Ref{}, c.SelectedRecords...)
	if !c.SelectedRef.IsZero() {
		refs = append(refs, c.SelectedRef)
	}
	return refs
}
