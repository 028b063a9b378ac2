package harness

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/treepick/internal/dataset"
	"github.com/roach88/treepick/internal/mapper"
	"github.com/roach88/treepick/internal/picker"
	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/schema"
	"github.com/roach88/treepick/internal/store"
	"github.com/roach88/treepick/internal/testutil"
	"github.com/roach88/treepick/internal/tree"
)

// Harness drives one picker session through a scenario's steps.
type Harness struct {
	session *picker.Session
	logger  *slog.Logger
}

// Run executes a scenario against a fresh in-memory store and returns the
// result. Errors are returned for broken fixtures; failed expectations are
// reported in the result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	reg := schema.DefaultRegistry()
	if scenario.Dataset != "" {
		ds, err := dataset.Load(scenario.Dataset)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		if err := ds.Seed(ctx, st); err != nil {
			return nil, err
		}
		reg = ds.Registry()
	}
	if len(scenario.Records) > 0 {
		if err := st.PutRecords(ctx, scenario.Records); err != nil {
			return nil, fmt.Errorf("failed to seed records: %w", err)
		}
	}

	m := mapper.Default()
	if scenario.Table != "" {
		table, err := mapper.LoadTable(scenario.Table)
		if err != nil {
			return nil, fmt.Errorf("failed to load table: %w", err)
		}
		m = mapper.New(table)
	}

	logger := testutil.DiscardLogger()
	loader := tree.NewLoader(st, m, reg, tree.WithLogger(logger))

	h := &Harness{
		session: picker.NewSession(loader, scenario.Config.PickerConfig(),
			picker.WithClock(testutil.NewDeterministicClock()),
			picker.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.SessionID)),
			picker.WithLogger(logger),
		),
		logger: logger,
	}

	result := NewResult()
	result.SessionID = h.session.ID()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	result.Trace = h.session.Events()
	result.Selected = ref.Strings(h.session.Selected())

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// executeStep runs one step and checks its expect clause.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	var (
		view    *picker.View
		changed *bool
		err     error
	)

	switch step.Action {
	case ActionLoad:
		view, err = h.session.Load(ctx)
	case ActionSearch:
		view, err = h.session.Search(ctx, step.Terms)
	case ActionClearSearch:
		view, err = h.session.ClearSearch(ctx)
	case ActionApplyFilter:
		view, err = h.session.ApplyFilter(ctx, *step.Filter)
	case ActionClearFilter:
		view, err = h.session.ClearFilter(ctx)
	case ActionSelect, ActionDeselect:
		var ok bool
		if step.Action == ActionSelect {
			ok, err = h.session.Select(ref.Ref(step.Ref))
		} else {
			ok, err = h.session.Deselect(ref.Ref(step.Ref))
		}
		changed = &ok
	case ActionDone:
		var choice *picker.Choice
		choice, err = h.session.Done()
		if err == nil {
			result.Chosen = ref.Strings(choice.Refs)
		}
	case ActionCancel:
		h.session.Cancel()
	}
	if view == nil {
		view = h.session.View()
	}

	h.logger.Info("step completed", "step", index, "action", step.Action, "error", err)

	prefix := fmt.Sprintf("steps[%d] %s", index, step.Action)
	expect := step.Expect
	if expect == nil {
		expect = &StepExpect{}
	}

	if err != nil {
		if code := errorCode(err); code != expect.Error {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, err))
		}
		return
	}
	if expect.Error != "" {
		result.AddError(fmt.Sprintf("%s: expected error %s, got none", prefix, expect.Error))
		return
	}

	check := func(field string, want *[]string, got []string) {
		if want != nil && !slices.Equal(*want, got) {
			result.AddError(fmt.Sprintf("%s: %s: expected %v, got %v", prefix, field, *want, got))
		}
	}
	check("highlighted", expect.Highlighted, ref.Strings(view.Highlighted))
	check("roots", expect.Roots, rootRefs(view.Tree))
	check("selected", expect.Selected, ref.Strings(h.session.Selected()))
	check("chosen", expect.Chosen, result.Chosen)

	if expect.Nodes != nil && *expect.Nodes != view.Tree.Len() {
		result.AddError(fmt.Sprintf("%s: nodes: expected %d, got %d", prefix, *expect.Nodes, view.Tree.Len()))
	}
	if expect.DoneEnabled != nil && *expect.DoneEnabled != view.DoneEnabled {
		result.AddError(fmt.Sprintf("%s: done_enabled: expected %t, got %t", prefix, *expect.DoneEnabled, view.DoneEnabled))
	}
	if expect.Changed != nil && changed != nil && *expect.Changed != *changed {
		result.AddError(fmt.Sprintf("%s: changed: expected %t, got %t", prefix, *expect.Changed, *changed))
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, picker.ErrSessionClosed):
		return ErrCodeSessionClosed
	case errors.Is(err, picker.ErrNothingSelected):
		return ErrCodeNothingSelected
	default:
		return ErrCodeOther
	}
}

func rootRefs(t *tree.Tree) []string {
	out := make([]string, 0, len(t.Roots))
	for _, n := range t.Roots {
		out = append(out, string(n.Ref()))
	}
	return out
}
