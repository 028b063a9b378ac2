package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/treepick/internal/dataset"
	"github.com/roach88/treepick/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// SeedResult is the output of the seed command.
type SeedResult struct {
	Dataset  string `json:"dataset"`
	Database string `json:"database"`
	Records  int    `json:"records"`
	Total    int    `json:"total"`
}

func (r SeedResult) String() string {
	return fmt.Sprintf("Seeded %d records from %s into %s (%d total)", r.Records, r.Dataset, r.Database, r.Total)
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <dataset.yaml>",
		Short: "Load a YAML dataset into a database",
		Long: `Load the records of a YAML dataset into a SQLite database.

The database is created if it does not exist. Records are upserted by ref,
so seeding the same dataset twice leaves one copy of each record.

Example:
  treepick seed --db ./records.db ./projects.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	ds, err := dataset.Load(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeDataset, "failed to load dataset", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer closeStore(st, logger)

	ctx := cmd.Context()
	if err := ds.Seed(ctx, st); err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to seed database", err)
	}

	total, err := st.Count(ctx)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStore, "failed to count records", err)
	}

	logger.Info("dataset seeded", "dataset", ds.Name, "records", len(ds.Records), "db", opts.Database)
	return f.Success(SeedResult{
		Dataset:  ds.Name,
		Database: opts.Database,
		Records:  len(ds.Records),
		Total:    total,
	})
}
