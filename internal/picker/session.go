package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/selection"
	"github.com/roach88/treepick/internal/store"
	"github.com/roach88/treepick/internal/tree"
)

var (
	// ErrSessionClosed is returned by operations on a finished session.
	ErrSessionClosed = errors.New("picker session closed")

	// ErrNothingSelected is returned by Done when the selection is empty.
	ErrNothingSelected = errors.New("nothing selected")
)

// TreeLoader loads the tree shown by a session. *tree.Loader implements it.
type TreeLoader interface {
	Load(ctx context.Context, req tree.Request) (*tree.Tree, error)
}

// View is what a presenter needs after a load or a selection change.
type View struct {
	Tree *tree.Tree

	// Highlighted are the selected refs present in Tree, in selection order.
	Highlighted []ref.Ref

	// DoneEnabled reports whether Done would succeed.
	DoneEnabled bool
}

// Choice is the outcome of a completed session.
type Choice struct {
	SessionID string        `json:"session_id"`
	Multiple  bool          `json:"multiple"`
	Refs      []ref.Ref     `json:"refs"`
	Records   []*ref.Entity `json:"records,omitempty"`
}

// Single returns the chosen ref of a single-select session.
func (c *Choice) Single() (ref.Ref, bool) {
	if c.Multiple || len(c.Refs) == 0 {
		return "", false
	}
	return c.Refs[0], true
}

// Session is one run of the picker: a selection cache together with the
// tree it is reconciled against.
//
// A Session is driven by a single event loop and is not safe for
// concurrent use.
type Session struct {
	id     string
	cfg    Config
	loader TreeLoader
	cache  *selection.Cache

	filters []store.Filter
	terms   string
	custom  CustomFilter

	tree        *tree.Tree
	visible     ref.Set
	highlighted []ref.Ref
	records     map[ref.Ref]*ref.Entity

	events   []Event
	onChosen []func(*Choice)

	clock  Clock
	logger *slog.Logger
	closed bool
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock stamping session events.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithIDGenerator sets the generator of the session id.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.id = g.Generate() }
}

// WithLogger sets the session's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// NewSession starts a session. The initial selection from cfg is taken as
// valid without a lookup; nothing is loaded until Load.
func NewSession(loader TreeLoader, cfg Config, opts ...Option) *Session {
	s := &Session{
		cfg:     cfg,
		loader:  loader,
		cache:   selection.New(selection.ModeFor(cfg.Multiple), cfg.initialRefs()...),
		filters: cfg.RootFilters,
		tree:    &tree.Tree{},
		visible: ref.Set{},
		records: map[ref.Ref]*ref.Entity{},
		clock:   NewClock(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	s.logger = s.logger.With("session", s.id)
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Config returns the session's configuration.
func (s *Session) Config() Config { return s.cfg }

// Terms returns the active search terms, or "".
func (s *Session) Terms() string { return s.terms }

// Load reloads the tree with the current filters and reconciles the
// selection against it. Selections absent from the tree stay selected.
func (s *Session) Load(ctx context.Context) (*View, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}

	t, err := s.loader.Load(ctx, tree.Request{
		ParentTypes: s.parentTypes(),
		Filters:     s.requestFilters(),
		Sorters:     s.cfg.Sorters,
		PageSize:    s.cfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("picker load: %w", err)
	}

	s.tree = t
	s.visible = t.Refs()
	t.Walk(func(n *tree.Node) bool {
		s.records[n.Ref()] = n.Record
		return true
	})
	s.highlighted = s.cache.Reconcile(s.visible)

	s.emit(EventLoaded, s.highlighted, "")
	s.logger.Info("tree loaded",
		"nodes", t.Len(),
		"selected", s.cache.Len(),
		"highlighted", len(s.highlighted),
	)
	return s.View(), nil
}

// Search filters roots by name and reloads. Matches surface at any depth
// because the root filter is dropped; a custom filter still applies.
// Blank terms clear the search.
func (s *Session) Search(ctx context.Context, terms string) (*View, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	terms = strings.TrimSpace(terms)
	if terms == "" {
		return s.ClearSearch(ctx)
	}

	s.terms = terms
	s.filters = []store.Filter{store.Contains("Name", terms)}
	s.emit(EventSearched, nil, terms)
	return s.Load(ctx)
}

// ClearSearch restores the root filters and reloads.
func (s *Session) ClearSearch(ctx context.Context) (*View, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	s.terms = ""
	s.filters = s.cfg.RootFilters
	s.emit(EventSearched, nil, "")
	return s.Load(ctx)
}

// Select adds r to the selection. Returns false when r was already selected.
// In single-select mode the previous selection is replaced.
func (s *Session) Select(r ref.Ref) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}

	var changed bool
	if rec, ok := s.records[r]; ok {
		changed = s.cache.SelectRecord(rec)
	} else {
		changed = s.cache.Select(r)
	}
	if changed {
		s.refresh()
		s.emit(EventSelected, []ref.Ref{r}, "")
		s.logger.Debug("selected", "ref", r, "selected", s.cache.Len())
	}
	return changed, nil
}

// Deselect removes r from the selection. Returns false when r was not selected.
func (s *Session) Deselect(r ref.Ref) (bool, error) {
	if s.closed {
		return false, ErrSessionClosed
	}

	changed := s.cache.Deselect(r)
	if changed {
		s.refresh()
		s.emit(EventDeselected, []ref.Ref{r}, "")
		s.logger.Debug("deselected", "ref", r, "selected", s.cache.Len())
	}
	return changed, nil
}

// Selected returns every selected ref in selection order, visible or not.
func (s *Session) Selected() []ref.Ref { return s.cache.All() }

// SelectedSingle returns the selected ref of a single-select session.
// Returns a selection.InvalidModeError for multi-select sessions.
func (s *Session) SelectedSingle() (ref.Ref, error) { return s.cache.Single() }

// DoneEnabled reports whether anything is selected.
func (s *Session) DoneEnabled() bool { return !s.cache.IsEmpty() }

// View returns the current tree and highlight state.
func (s *Session) View() *View {
	return &View{
		Tree:        s.tree,
		Highlighted: append([]ref.Ref{}, s.highlighted...),
		DoneEnabled: s.DoneEnabled(),
	}
}

// OnChosen registers fn to be called when Done succeeds.
func (s *Session) OnChosen(fn func(*Choice)) {
	s.onChosen = append(s.onChosen, fn)
}

// Done completes the session with the current selection and closes it.
func (s *Session) Done() (*Choice, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.cache.IsEmpty() {
		return nil, ErrNothingSelected
	}

	choice := &Choice{
		SessionID: s.id,
		Multiple:  s.cfg.Multiple,
		Refs:      s.cache.All(),
	}
	for _, e := range s.cache.Entries() {
		if rec, ok := e.Record.(*ref.Entity); ok {
			choice.Records = append(choice.Records, rec)
		} else if rec, ok := s.records[e.Ref]; ok {
			choice.Records = append(choice.Records, rec)
		}
	}

	s.closed = true
	s.emit(EventChosen, choice.Refs, "")
	s.logger.Info("items chosen", "refs", ref.Strings(choice.Refs))

	for _, fn := range s.onChosen {
		fn(choice)
	}
	return choice, nil
}

// Cancel closes the session without choosing. Cancelling twice is a no-op.
func (s *Session) Cancel() {
	if s.closed {
		return
	}
	s.closed = true
	s.emit(EventCancelled, nil, "")
	s.logger.Info("session cancelled")
}

// Closed reports whether Done or Cancel has run.
func (s *Session) Closed() bool { return s.closed }

// refresh recomputes highlights against the last loaded tree.
func (s *Session) refresh() {
	s.highlighted = s.cache.Reconcile(s.visible)
}
