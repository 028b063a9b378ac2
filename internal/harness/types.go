package harness

import "github.com/roach88/treepick/internal/picker"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	SessionID string `json:"session_id"`

	// Trace is the session's event log.
	Trace []picker.Event `json:"trace"`

	// Selected is the final selection in order.
	Selected []string `json:"selected"`

	// Chosen holds the refs reported by done, or nil if done never succeeded.
	Chosen []string `json:"chosen,omitempty"`

	// Errors contains failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []picker.Event{},
		Selected: []string{},
		Errors:   []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Count returns how many trace events have the given kind.
func (r *Result) Count(kind picker.EventKind) int {
	n := 0
	for _, e := range r.Trace {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
