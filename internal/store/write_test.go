package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/roach88/treepick/internal/ref"
)

func TestPutRecord_RoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rec := &ref.Entity{
		Ref:  "/defect/7",
		Type: "Defect",
		Fields: map[string]any{
			"Name":         "Crash on save",
			"ObjectID":     float64(7),
			"DefectSuites": []any{"/defectsuite/1"},
		},
	}
	if err := s.PutRecord(ctx, rec); err != nil {
		t.Fatalf("PutRecord() failed: %v", err)
	}

	got, err := s.GetRecord(ctx, "/defect/7")
	if err != nil {
		t.Fatalf("GetRecord() failed: %v", err)
	}
	if got.Type != "defect" {
		t.Errorf("Type = %q, want folded %q", got.Type, "defect")
	}
	if got.Name() != "Crash on save" {
		t.Errorf("Name = %q", got.Name())
	}
	if got.StringField("ObjectID") != "7" {
		t.Errorf("ObjectID = %q", got.StringField("ObjectID"))
	}
	suites := got.RefsField("DefectSuites")
	if len(suites) != 1 || suites[0] != "/defectsuite/1" {
		t.Errorf("DefectSuites = %v", suites)
	}
}

func TestPutRecord_UpsertKeepsSequence(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	mustPut(t, s, project("/project/1", "Alpha", ""), project("/project/2", "Beta", ""))

	if err := s.PutRecord(ctx, project("/project/1", "Alpha Renamed", "")); err != nil {
		t.Fatalf("PutRecord() failed: %v", err)
	}

	page, err := s.Query(ctx, Query{Types: []string{"project"}})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if got := refsOf(page); strings.Join(got, ",") != "/project/1,/project/2" {
		t.Errorf("order = %v, want original insertion order", got)
	}
	if page.Records[0].Name() != "Alpha Renamed" {
		t.Errorf("Name = %q, want updated", page.Records[0].Name())
	}
}

func TestPutRecord_Validation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		rec  *ref.Entity
		want string
	}{
		{"nil", nil, "record is nil"},
		{"missing ref", &ref.Entity{Type: "project"}, "ref is required"},
		{"missing type", &ref.Entity{Ref: "/x/1"}, "type is required"},
		{"unencodable", &ref.Entity{Ref: "/x/1", Type: "x", Fields: map[string]any{"C": make(chan int)}}, "marshal fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.PutRecord(ctx, tt.rec)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("PutRecord() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPutRecords_RollsBackOnError(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	err := s.PutRecords(ctx, []*ref.Entity{
		project("/project/1", "Alpha", ""),
		{Ref: "/project/2"},
	})
	if err == nil {
		t.Fatal("PutRecords() should fail on an invalid record")
	}
	if !strings.Contains(err.Error(), "record 1") {
		t.Errorf("error %q should name the failing record index", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d, want 0 after rollback", n)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetRecord(context.Background(), "/project/404")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	mustPut(t, s, project("/project/1", "Alpha", ""))

	deleted, err := s.DeleteRecord(ctx, "/project/1")
	if err != nil || !deleted {
		t.Fatalf("DeleteRecord() = %v, %v; want true, nil", deleted, err)
	}
	deleted, err = s.DeleteRecord(ctx, "/project/1")
	if err != nil || deleted {
		t.Fatalf("second DeleteRecord() = %v, %v; want false, nil", deleted, err)
	}
}
