package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/treepick/internal/ref"
)

// dbExecer is satisfied by *sql.DB and *sql.Tx.
type dbExecer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PutRecord inserts or replaces a record by ref.
// A replaced record keeps its original insertion sequence.
func (s *Store) PutRecord(ctx context.Context, rec *ref.Entity) error {
	if err := putRecord(ctx, s.db, rec); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

// PutRecords writes records in a single transaction, in order.
func (s *Store) PutRecords(ctx context.Context, recs []*ref.Entity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put records: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, rec := range recs {
		if err := putRecord(ctx, tx, rec); err != nil {
			return fmt.Errorf("put records: record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put records: commit: %w", err)
	}
	return nil
}

// DeleteRecord removes a record. Returns false if the ref was not stored.
func (s *Store) DeleteRecord(ctx context.Context, r ref.Ref) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM records WHERE ref = ?", string(r))
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return n > 0, nil
}

func putRecord(ctx context.Context, db dbExecer, rec *ref.Entity) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	if rec.Ref.IsZero() {
		return fmt.Errorf("ref is required")
	}
	if rec.Type == "" {
		return fmt.Errorf("type is required for %s", rec.Ref)
	}

	fields := rec.Fields
	if fields == nil {
		fields = map[string]any{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal fields for %s: %w", rec.Ref, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO records (ref, type, fields)
		VALUES (?, ?, ?)
		ON CONFLICT(ref) DO UPDATE SET type = excluded.type, fields = excluded.fields
	`,
		string(rec.Ref),
		ref.FoldType(rec.Type),
		string(fieldsJSON),
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", rec.Ref, err)
	}
	return nil
}
