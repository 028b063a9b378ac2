package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/treepick/internal/picker"
	"github.com/roach88/treepick/internal/ref"
)

func sampleResult() *Result {
	r := NewResult()
	r.Trace = []picker.Event{
		{Seq: 1, Kind: picker.EventLoaded},
		{Seq: 2, Kind: picker.EventSelected, Refs: []ref.Ref{"/a"}},
		{Seq: 3, Kind: picker.EventSearched, Terms: "x"},
		{Seq: 4, Kind: picker.EventLoaded},
		{Seq: 5, Kind: picker.EventChosen, Refs: []ref.Ref{"/a"}},
	}
	r.Selected = []string{"/a"}
	r.Chosen = []string{"/a"}
	return r
}

func TestEvaluateAssertions_Pass(t *testing.T) {
	failures := EvaluateAssertions(sampleResult(), []Assertion{
		{Type: AssertSelected, Refs: []string{"/a"}},
		{Type: AssertChosen, Refs: []string{"/a"}},
		{Type: AssertEventOrder, Events: []string{"loaded", "selected", "chosen"}},
		{Type: AssertEventOrder, Events: []string{"selected", "searched"}},
		{Type: AssertEventCount, Event: "loaded", Count: 2},
		{Type: AssertEventCount, Event: "cancelled", Count: 0},
	})
	assert.Empty(t, failures)
}

func TestAssertRefs_OrderMatters(t *testing.T) {
	r := sampleResult()
	r.Selected = []string{"/a", "/b"}

	failures := EvaluateAssertions(r, []Assertion{{Type: AssertSelected, Refs: []string{"/b", "/a"}}})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "Expected: [/b /a]")
	assert.Contains(t, failures[0], "Actual: [/a /b]")
}

func TestAssertChosen_NothingChosen(t *testing.T) {
	r := sampleResult()
	r.Chosen = nil

	assert.Empty(t, EvaluateAssertions(r, []Assertion{{Type: AssertChosen}}))
	assert.Len(t, EvaluateAssertions(r, []Assertion{{Type: AssertChosen, Refs: []string{"/a"}}}), 1)
}

func TestAssertEventOrder_Failures(t *testing.T) {
	r := sampleResult()

	failures := EvaluateAssertions(r, []Assertion{{Type: AssertEventOrder, Events: []string{"deselected"}}})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "missing event: deselected")

	failures = EvaluateAssertions(r, []Assertion{{Type: AssertEventOrder, Events: []string{"chosen", "selected"}}})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "chosen (pos 5) should be before selected (pos 2)")
}

func TestAssertEventCount_Failure(t *testing.T) {
	failures := EvaluateAssertions(sampleResult(), []Assertion{{Type: AssertEventCount, Event: "selected", Count: 3}})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0], "Expected: selected appears 3 time(s)")
	assert.Contains(t, failures[0], "Actual: selected appears 1 time(s)")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertSelected,
		Expected: "[/b]",
		Actual:   "[/a]",
		Trace:    sampleResult().Trace,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: selected\n")
	assert.Contains(t, msg, "  [2] selected [/a]\n")
	assert.Contains(t, msg, "  [3] searched \"x\"\n")
	assert.Contains(t, msg, "  [4] loaded\n")
}
