package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/treepick/internal/picker"
)

// DefaultSessionID is used by FixedIDGenerator when no id is given.
const DefaultSessionID = "test-session-default"

var _ picker.IDGenerator = (*FixedIDGenerator)(nil)

// FixedIDGenerator returns the same session id every time, so golden
// traces stay byte-identical across runs.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id, or DefaultSessionID
// when id is empty.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = DefaultSessionID
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
