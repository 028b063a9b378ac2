package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/treepick/internal/mapper"
)

// RulesOptions holds flags for the rules command.
type RulesOptions struct {
	*RootOptions
	Parent string
	Child  string
	Table  string
}

// RuleRow is one parent/child relationship.
type RuleRow struct {
	Parent      string `json:"parent"`
	Child       string `json:"child"`
	Collection  string `json:"collection,omitempty"`
	ParentField string `json:"parent_field"`
}

// RulesResult is the output of the rules command.
type RulesResult struct {
	Rules []RuleRow `json:"rules"`
}

func (r RulesResult) String() string {
	if len(r.Rules) == 0 {
		return "No matching rules."
	}
	var b strings.Builder
	for i, row := range r.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s -> %s via %s", row.Parent, row.Child, row.ParentField)
		if row.Collection != "" {
			fmt.Fprintf(&b, " (%s)", row.Collection)
		}
	}
	return b.String()
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RulesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show parent/child relationship rules",
		Long: `Show which child types attach under which parent types, and through
which child field.

Examples:
  treepick rules
  treepick rules --parent defectsuite
  treepick rules --parent hierarchicalrequirement --child task
  treepick rules --table ./relationships.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Parent, "parent", "", "only rules under this parent type")
	cmd.Flags().StringVar(&opts.Child, "child", "", "only rules for this child type")
	cmd.Flags().StringVar(&opts.Table, "table", "", "CUE relationship table (default: built-in)")

	return cmd
}

func runRules(opts *RulesOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	m, err := loadMapper(opts.Table)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeTable, "failed to load relationship table", err)
	}

	parents := m.ParentTypes()
	if opts.Parent != "" {
		parents = []string{opts.Parent}
	}

	res := RulesResult{Rules: []RuleRow{}}
	for _, parent := range parents {
		if opts.Child != "" {
			for _, pf := range m.ParentFields(opts.Child, parent) {
				res.Rules = append(res.Rules, RuleRow{
					Parent:      parent,
					Child:       pf.TypePath,
					ParentField: pf.FieldName,
				})
			}
			continue
		}
		res.Rules = append(res.Rules, rows(parent, m.RulesForParentType(parent))...)
	}

	return f.Success(res)
}

func rows(parent string, rules []mapper.Rule) []RuleRow {
	out := make([]RuleRow, 0, len(rules))
	for _, r := range rules {
		out = append(out, RuleRow{
			Parent:      parent,
			Child:       r.ChildType,
			Collection:  r.CollectionName,
			ParentField: r.ParentField,
		})
	}
	return out
}
