package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/treepick/internal/ref"
)

// GetRecord returns the record for r, or ErrNotFound.
func (s *Store) GetRecord(ctx context.Context, r ref.Ref) (*ref.Entity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT ref, type, fields FROM records WHERE ref = ?", string(r))
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get record %s: %w", r, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", r, err)
	}
	return rec, nil
}

// Query returns the records matching q.
//
// Results are ordered by q.Sorters, then by insertion sequence, so the same
// query over the same data always returns the same order.
func (s *Store) Query(ctx context.Context, q Query) (*Page, error) {
	cq, err := compileQuery(q)
	if err != nil {
		return nil, err
	}

	var total int
	countSQL := "SELECT COUNT(*) FROM records" + cq.where
	if err := s.db.QueryRowContext(ctx, countSQL, cq.whereArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("query records: count: %w", err)
	}

	selectSQL := "SELECT ref, type, fields FROM records" + cq.where + cq.orderBy
	args := append(append([]any{}, cq.whereArgs...), cq.orderArgs...)

	page := &Page{Total: total, PageSize: q.PageSize}
	if q.PageSize > 0 {
		page.Page = q.Page
		if page.Page < 1 {
			page.Page = 1
		}
		selectSQL += " LIMIT ? OFFSET ?"
		args = append(args, q.PageSize, (page.Page-1)*q.PageSize)
	}

	rows, err := s.db.QueryContext(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	page.Records = []*ref.Entity{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("query records: %w", err)
		}
		page.Records = append(page.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*ref.Entity, error) {
	var (
		r, typ, fieldsJSON string
	)
	if err := row.Scan(&r, &typ, &fieldsJSON); err != nil {
		return nil, err
	}

	rec := &ref.Entity{Ref: ref.Ref(r), Type: typ, Fields: map[string]any{}}
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("decode fields for %s: %w", r, err)
	}
	return rec, nil
}
