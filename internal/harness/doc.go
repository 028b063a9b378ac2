// Package harness replays picker sessions described in YAML and checks
// the outcome.
//
// # Scenario Format
//
//	name: reconcile_after_search
//	description: "Selections survive a search that hides them"
//	dataset: ../datasets/projects.yaml
//	config:
//	  multiple: true
//	  selected: [/project/5]
//	steps:
//	  - action: load
//	    expect:
//	      highlighted: [/project/5]
//	  - action: search
//	    terms: alpha
//	  - action: select
//	    ref: /project/3
//	  - action: done
//	assertions:
//	  - type: chosen
//	    refs: [/project/5, /project/3]
//	  - type: event_order
//	    events: [loaded, searched, selected, chosen]
//
// Records may be listed inline under records instead of, or in addition
// to, a dataset file. A table key points at a CUE relationship table that
// replaces the built-in one. Paths are relative to the scenario file.
//
// # Steps
//
// load, search, clear_search, select, deselect, done and cancel map to the
// picker.Session methods of the same name. A step's expect block is checked
// right after the step runs; expect.error names the error the step must
// fail with (session_closed, nothing_selected).
//
// # Assertion Types
//
//   - selected: the final selection, in order
//   - chosen: the refs reported by done; an empty list means nothing was chosen
//   - event_order: event kinds appear in this relative order
//   - event_count: an event kind appears exactly count times
//
// # Deterministic Testing
//
// Every run uses a fresh in-memory store, a testutil.DeterministicClock and
// a fixed session id, so the event trace is byte-identical across runs and
// can be compared against golden files.
package harness
