package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/treepick/internal/mapper"
	"github.com/roach88/treepick/internal/store"
	"github.com/roach88/treepick/internal/tree"
)

// loadMapper returns the mapper for a CUE table file, or the built-in one
// when path is empty.
func loadMapper(path string) (*mapper.Mapper, error) {
	if path == "" {
		return mapper.Default(), nil
	}
	table, err := mapper.LoadTable(path)
	if err != nil {
		return nil, err
	}
	return mapper.New(table), nil
}

// openExisting opens a database that must already exist.
func openExisting(f *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

// newTreeLoader builds a loader over st using the table at tablePath and
// the models stored in st.
func newTreeLoader(ctx context.Context, f *OutputFormatter, st *store.Store, tablePath string, depth int, logger *slog.Logger) (*tree.Loader, error) {
	m, err := loadMapper(tablePath)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeTable, "failed to load relationship table", err)
	}
	reg, err := st.Registry(ctx)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to read models", err)
	}
	return tree.NewLoader(st, m, reg,
		tree.WithMaxDepth(depth),
		tree.WithLogger(logger),
	), nil
}

// closeStore closes st, logging failures.
func closeStore(st *store.Store, logger *slog.Logger) {
	if err := st.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}
