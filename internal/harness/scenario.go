package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/treepick/internal/picker"
	"github.com/roach88/treepick/internal/ref"
)

// Scenario describes one picker session and its expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dataset is a dataset YAML file seeded before the session starts.
	Dataset string `yaml:"dataset,omitempty"`

	// Records are seeded after Dataset.
	Records []*ref.Entity `yaml:"records,omitempty"`

	// Table is an optional CUE relationship table.
	Table string `yaml:"table,omitempty"`

	// SessionID fixes the session id. Defaults to testutil.DefaultSessionID.
	SessionID string `yaml:"session_id,omitempty"`

	Config     SessionConfig `yaml:"config"`
	Steps      []Step        `yaml:"steps"`
	Assertions []Assertion   `yaml:"assertions"`
}

// SessionConfig is the YAML form of picker.Config.
type SessionConfig struct {
	// Multiple defaults to true.
	Multiple *bool `yaml:"multiple,omitempty"`

	Selected    []string `yaml:"selected,omitempty"`
	SelectedRef string   `yaml:"selected_ref,omitempty"`

	// ParentTypes defaults to [project].
	ParentTypes []string `yaml:"parent_types,omitempty"`

	PageSize int `yaml:"page_size,omitempty"`
}

// PickerConfig converts c to a picker.Config on top of picker.DefaultConfig.
func (c SessionConfig) PickerConfig() picker.Config {
	cfg := picker.DefaultConfig()
	if c.Multiple != nil {
		cfg.Multiple = *c.Multiple
	}
	cfg.SelectedRecords = ref.FromStrings(c.Selected)
	cfg.SelectedRef = ref.Ref(c.SelectedRef)
	if len(c.ParentTypes) > 0 {
		cfg.ParentTypes = c.ParentTypes
	}
	cfg.PageSize = c.PageSize
	return cfg
}

// Step actions.
const (
	ActionLoad        = "load"
	ActionSearch      = "search"
	ActionClearSearch = "clear_search"
	ActionSelect      = "select"
	ActionDeselect    = "deselect"
	ActionDone        = "done"
	ActionCancel      = "cancel"
	ActionApplyFilter = "apply_filter"
	ActionClearFilter = "clear_filter"
)

// Step is one session operation.
type Step struct {
	Action string `yaml:"action"`

	// Ref is the target of select and deselect.
	Ref string `yaml:"ref,omitempty"`

	// Terms are the search terms.
	Terms string `yaml:"terms,omitempty"`

	// Filter is installed by apply_filter.
	Filter *picker.CustomFilter `yaml:"filter,omitempty"`

	Expect *StepExpect `yaml:"expect,omitempty"`
}

// StepExpect is checked after a step runs. Unset fields are not checked;
// an explicit empty list expects an empty result.
type StepExpect struct {
	// Error is the expected error code.
	Error string `yaml:"error,omitempty"`

	Highlighted *[]string `yaml:"highlighted,omitempty"`
	Roots       *[]string `yaml:"roots,omitempty"`
	Nodes       *int      `yaml:"nodes,omitempty"`
	Selected    *[]string `yaml:"selected,omitempty"`
	Chosen      *[]string `yaml:"chosen,omitempty"`
	DoneEnabled *bool     `yaml:"done_enabled,omitempty"`

	// Changed applies to select and deselect.
	Changed *bool `yaml:"changed,omitempty"`
}

// Step error codes.
const (
	ErrCodeSessionClosed   = "session_closed"
	ErrCodeNothingSelected = "nothing_selected"
	ErrCodeOther           = "error"
)

// Assertion validates the finished session.
type Assertion struct {
	// Type is one of selected, chosen, event_order, event_count.
	Type string `yaml:"type"`

	// Refs are the expected refs (selected, chosen).
	Refs []string `yaml:"refs,omitempty"`

	// Events are the expected event kinds in order (event_order).
	Events []string `yaml:"events,omitempty"`

	// Event and Count are used by event_count.
	Event string `yaml:"event,omitempty"`
	Count int    `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSelected   = "selected"
	AssertChosen     = "chosen"
	AssertEventOrder = "event_order"
	AssertEventCount = "event_count"
)

// LoadScenario reads and parses a scenario YAML file. Dataset and table
// paths are resolved relative to the file. Unknown keys are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data, filepath.Dir(path))
}

// ParseScenario parses scenario YAML, resolving relative paths against
// baseDir.
func ParseScenario(data []byte, baseDir string) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.Dataset = resolve(baseDir, scenario.Dataset)
	scenario.Table = resolve(baseDir, scenario.Table)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func resolve(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) || baseDir == "" {
		return path
	}
	return filepath.Join(baseDir, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Dataset == "" && len(s.Records) == 0 {
		return fmt.Errorf("dataset or records is required")
	}
	for _, path := range []string{s.Dataset, s.Table} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}
	for i, rec := range s.Records {
		if rec == nil || rec.Ref.IsZero() || rec.Type == "" {
			return fmt.Errorf("records[%d]: ref and type are required", i)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step Step) error {
	switch step.Action {
	case ActionLoad, ActionSearch, ActionClearSearch, ActionClearFilter, ActionDone, ActionCancel:
	case ActionApplyFilter:
		if step.Filter == nil || step.Filter.IsZero() {
			return fmt.Errorf("steps[%d]: filter with types or filters is required for %s", index, step.Action)
		}
	case ActionSelect, ActionDeselect:
		if step.Ref == "" {
			return fmt.Errorf("steps[%d]: ref is required for %s", index, step.Action)
		}
	case "":
		return fmt.Errorf("steps[%d]: action is required", index)
	default:
		return fmt.Errorf("steps[%d]: unknown action %q", index, step.Action)
	}

	if step.Expect == nil {
		return nil
	}
	switch step.Expect.Error {
	case "", ErrCodeSessionClosed, ErrCodeNothingSelected, ErrCodeOther:
	default:
		return fmt.Errorf("steps[%d].expect: unknown error code %q", index, step.Expect.Error)
	}
	if step.Expect.Changed != nil && step.Action != ActionSelect && step.Action != ActionDeselect {
		return fmt.Errorf("steps[%d].expect: changed only applies to select and deselect", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case AssertSelected, AssertChosen:
	case AssertEventOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for event_order", index)
		}
	case AssertEventCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for event_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
