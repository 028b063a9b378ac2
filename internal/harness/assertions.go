package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/treepick/internal/picker"
	"github.com/roach88/treepick/internal/ref"
)

// AssertionError is returned when an assertion fails. It carries the full
// trace for debugging.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []picker.Event
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Kind)
		if len(event.Refs) > 0 {
			fmt.Fprintf(&buf, " %v", ref.Strings(event.Refs))
		}
		if event.Terms != "" {
			fmt.Fprintf(&buf, " %q", event.Terms)
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure
// messages. An empty slice means all passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertSelected:
		return assertRefs(result, a, result.Selected)
	case AssertChosen:
		return assertRefs(result, a, result.Chosen)
	case AssertEventOrder:
		return assertEventOrder(result.Trace, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertRefs compares refs exactly, order included.
func assertRefs(result *Result, a Assertion, got []string) error {
	want := a.Refs
	if want == nil {
		want = []string{}
	}
	if slices.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("%v", want),
		Actual:   fmt.Sprintf("%v", got),
		Trace:    result.Trace,
	}
}

// assertEventOrder checks that event kinds first appear in the given order.
// Other events may appear in between.
func assertEventOrder(trace []picker.Event, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		kind := string(event.Kind)
		if _, seen := positions[kind]; !seen {
			positions[kind] = i + 1
		}
	}

	for _, kind := range a.Events {
		if positions[kind] == 0 {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("all events present: %v", a.Events),
				Actual:   fmt.Sprintf("missing event: %s", kind),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Events); i++ {
		prev, curr := a.Events[i-1], a.Events[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertEventOrder,
				Expected: fmt.Sprintf("events in order: %v", a.Events),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

func assertEventCount(result *Result, a Assertion) error {
	count := result.Count(picker.EventKind(a.Event))
	if count == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertEventCount,
		Expected: fmt.Sprintf("%s appears %d time(s)", a.Event, a.Count),
		Actual:   fmt.Sprintf("%s appears %d time(s)", a.Event, count),
		Trace:    result.Trace,
	}
}
