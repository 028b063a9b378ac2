package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/treepick/internal/picker"
	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/tree"
)

// PickOptions holds flags for the pick command.
type PickOptions struct {
	*RootOptions
	Database string
	Types    []string
	Single   bool
	Title    string
	Initial  []string
	Select   []string
	Deselect []string
	Search   string
	Table    string
	PageSize int

	// IDGenerator overrides the session id generator (for testing).
	IDGenerator picker.IDGenerator
}

// PickedRecord is one chosen record.
type PickedRecord struct {
	Ref  string `json:"ref"`
	Type string `json:"type,omitempty"`
	Name string `json:"name,omitempty"`
}

// PickResult is the output of the pick command.
type PickResult struct {
	SessionID   string         `json:"session_id"`
	Title       string         `json:"title"`
	Multiple    bool           `json:"multiple"`
	Search      string         `json:"search,omitempty"`
	Highlighted []string       `json:"highlighted"`
	Chosen      []PickedRecord `json:"chosen"`
	Events      []picker.Event `json:"events,omitempty"`
}

func (r PickResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d chosen)", r.Title, len(r.Chosen))
	for _, c := range r.Chosen {
		b.WriteString("\n  ")
		if c.Name != "" {
			fmt.Fprintf(&b, "%s [%s]", c.Name, c.Ref)
		} else {
			b.WriteString(c.Ref)
		}
		if !contains(r.Highlighted, c.Ref) {
			b.WriteString(" (not shown)")
		}
	}
	return b.String()
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// NewPickCommand creates the pick command.
func NewPickCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PickOptions{RootOptions: rootOpts}

	defaults := picker.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Run a non-interactive picker session",
		Long: `Run one picker session: load the tree, apply an optional search,
select and deselect refs, then finish and print the chosen records.

Refs given with --selected are the session's initial selection; they stay
chosen even when the loaded tree does not contain them.

Exit codes:
  0 - Records were chosen
  1 - Nothing was selected
  2 - Command error

Examples:
  treepick pick --db ./records.db --select /project/3
  treepick pick --db ./records.db --selected /project/5 --search alpha --select /project/3
  treepick pick --db ./records.db --single --select /project/1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringSliceVar(&opts.Types, "type", defaults.ParentTypes, "root record types")
	cmd.Flags().BoolVar(&opts.Single, "single", false, "allow only one chosen record")
	cmd.Flags().StringVar(&opts.Title, "title", defaults.Title, "session title")
	cmd.Flags().StringArrayVar(&opts.Initial, "selected", nil, "initially selected ref (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Select, "select", nil, "ref to select after loading (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Deselect, "deselect", nil, "ref to deselect after selecting (repeatable)")
	cmd.Flags().StringVar(&opts.Search, "search", "", "search terms applied before selecting")
	cmd.Flags().StringVar(&opts.Table, "table", "", "CUE relationship table (default: built-in)")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "maximum roots (0 for all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runPick(opts *PickOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	st, err := openExisting(f, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	loader, err := newTreeLoader(ctx, f, st, opts.Table, tree.DefaultMaxDepth, logger)
	if err != nil {
		return err
	}

	cfg := picker.DefaultConfig()
	cfg.Title = opts.Title
	cfg.Multiple = !opts.Single
	cfg.ParentTypes = opts.Types
	cfg.SelectedRecords = ref.FromStrings(opts.Initial)
	cfg.PageSize = opts.PageSize

	sessionOpts := []picker.Option{picker.WithLogger(logger)}
	if opts.IDGenerator != nil {
		sessionOpts = append(sessionOpts, picker.WithIDGenerator(opts.IDGenerator))
	}
	session := picker.NewSession(loader, cfg, sessionOpts...)

	if _, err := session.Load(ctx); err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, "failed to load tree", err)
	}
	if opts.Search != "" {
		if _, err := session.Search(ctx, opts.Search); err != nil {
			return f.Fail(ExitCommandError, ErrCodeLoad, "failed to search", err)
		}
	}
	for _, r := range opts.Select {
		if _, err := session.Select(ref.Ref(r)); err != nil {
			return f.Fail(ExitCommandError, ErrCodePick, "failed to select "+r, err)
		}
	}
	for _, r := range opts.Deselect {
		if _, err := session.Deselect(ref.Ref(r)); err != nil {
			return f.Fail(ExitCommandError, ErrCodePick, "failed to deselect "+r, err)
		}
	}

	view := session.View()
	choice, err := session.Done()
	if errors.Is(err, picker.ErrNothingSelected) {
		return f.Fail(ExitFailure, ErrCodePick, "nothing selected", nil)
	}
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodePick, "failed to finish session", err)
	}

	res := PickResult{
		SessionID:   choice.SessionID,
		Title:       cfg.Title,
		Multiple:    choice.Multiple,
		Search:      session.Terms(),
		Highlighted: ref.Strings(view.Highlighted),
		Chosen:      pickedRecords(choice),
	}
	if opts.Verbose {
		res.Events = session.Events()
	}
	return f.Success(res)
}

// pickedRecords lists chosen refs in order, with names where known.
func pickedRecords(c *picker.Choice) []PickedRecord {
	known := make(map[ref.Ref]*ref.Entity, len(c.Records))
	for _, rec := range c.Records {
		known[rec.Ref] = rec
	}

	out := make([]PickedRecord, 0, len(c.Refs))
	for _, r := range c.Refs {
		p := PickedRecord{Ref: string(r)}
		if rec, ok := known[r]; ok {
			p.Type = rec.Type
			p.Name = rec.Name()
		}
		out = append(out, p)
	}
	return out
}
