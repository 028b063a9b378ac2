package store

import (
	"context"
	"testing"

	"github.com/roach88/treepick/internal/ref"
)

// setupTestStore opens an in-memory store closed at test end.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func project(r, name, parent string) *ref.Entity {
	fields := map[string]any{"Name": name}
	if parent != "" {
		fields["Parent"] = parent
	}
	return &ref.Entity{Ref: ref.Ref(r), Type: "project", Fields: fields}
}

func mustPut(t *testing.T, s *Store, recs ...*ref.Entity) {
	t.Helper()
	if err := s.PutRecords(context.Background(), recs); err != nil {
		t.Fatalf("PutRecords() failed: %v", err)
	}
}

func refsOf(p *Page) []string {
	return ref.Strings(p.Refs())
}
