package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/treepick/internal/store"
	"github.com/roach88/treepick/internal/tree"
)

// TreeOptions holds flags for the tree command.
type TreeOptions struct {
	*RootOptions
	Database string
	Types    []string
	Search   string
	Depth    int
	PageSize int
	Table    string
}

// TreeNode is the JSON form of a tree node.
type TreeNode struct {
	Ref      string     `json:"ref"`
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Children []TreeNode `json:"children,omitempty"`
}

// TreeResult is the output of the tree command.
type TreeResult struct {
	Roots []TreeNode `json:"roots"`
	Nodes int        `json:"nodes"`
	Total int        `json:"total"`
}

func (r TreeResult) String() string {
	if len(r.Roots) == 0 {
		return "No records found."
	}
	var b strings.Builder
	var write func(n TreeNode, depth int)
	write = func(n TreeNode, depth int) {
		fmt.Fprintf(&b, "%s%s [%s] (%s)\n", strings.Repeat("  ", depth), n.Name, n.Ref, n.Type)
		for _, c := range n.Children {
			write(c, depth+1)
		}
	}
	for _, n := range r.Roots {
		write(n, 0)
	}
	fmt.Fprintf(&b, "%d nodes, %d roots of %d", r.Nodes, len(r.Roots), r.Total)
	return b.String()
}

// NewTreeCommand creates the tree command.
func NewTreeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TreeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the record hierarchy",
		Long: `Print the hierarchy rooted at records of the given types.

Without --search, roots are records with no parent. With --search, roots are
every record whose name contains the terms, at any depth.

Examples:
  treepick tree --db ./records.db
  treepick tree --db ./records.db --type hierarchicalrequirement --type defectsuite
  treepick tree --db ./records.db --search web --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTree(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringSliceVar(&opts.Types, "type", []string{"project"}, "root record types")
	cmd.Flags().StringVar(&opts.Search, "search", "", "only roots whose name contains these terms")
	cmd.Flags().IntVar(&opts.Depth, "depth", tree.DefaultMaxDepth, "levels to expand below the roots")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 0, "maximum roots (0 for all)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "CUE relationship table (default: built-in)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runTree(opts *TreeOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())
	ctx := cmd.Context()

	st, err := openExisting(f, opts.Database)
	if err != nil {
		return err
	}
	defer closeStore(st, logger)

	loader, err := newTreeLoader(ctx, f, st, opts.Table, opts.Depth, logger)
	if err != nil {
		return err
	}

	filters := []store.Filter{store.Eq("Parent", "")}
	if terms := strings.TrimSpace(opts.Search); terms != "" {
		filters = []store.Filter{store.Contains("Name", terms)}
	}

	t, err := loader.Load(ctx, tree.Request{
		ParentTypes: opts.Types,
		Filters:     filters,
		Sorters:     []store.Sorter{{Property: "Name", Direction: store.Asc}},
		PageSize:    opts.PageSize,
	})
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoad, "failed to load tree", err)
	}

	return f.Success(newTreeResult(t))
}

func newTreeResult(t *tree.Tree) TreeResult {
	var convert func(n *tree.Node) TreeNode
	convert = func(n *tree.Node) TreeNode {
		out := TreeNode{Ref: string(n.Ref()), Type: n.Type(), Name: n.Record.Name()}
		for _, c := range n.Children {
			out.Children = append(out.Children, convert(c))
		}
		return out
	}

	res := TreeResult{Roots: []TreeNode{}, Nodes: t.Len(), Total: t.Total}
	for _, n := range t.Roots {
		res.Roots = append(res.Roots, convert(n))
	}
	return res
}
