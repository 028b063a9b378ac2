package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/schema"
)

// PutModels upserts field schemas by type path in one transaction.
func (s *Store) PutModels(ctx context.Context, models []*schema.Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("put models: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for i, m := range models {
		if m == nil || m.TypePath == "" {
			return fmt.Errorf("put models: model %d: type path is required", i)
		}
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("put models: marshal %s: %w", m.TypePath, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO models (type_path, model)
			VALUES (?, ?)
			ON CONFLICT(type_path) DO UPDATE SET model = excluded.model
		`, ref.FoldType(m.TypePath), string(data))
		if err != nil {
			return fmt.Errorf("put models: write %s: %w", m.TypePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("put models: commit: %w", err)
	}
	return nil
}

// Models returns the stored field schemas in the order they were first put.
func (s *Store) Models(ctx context.Context) ([]*schema.Model, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT model FROM models ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("read models: %w", err)
	}
	defer rows.Close()

	var out []*schema.Model
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("read models: %w", err)
		}
		m := &schema.Model{}
		if err := json.Unmarshal([]byte(data), m); err != nil {
			return nil, fmt.Errorf("read models: decode: %w", err)
		}
		if m.Fields == nil {
			m.Fields = map[string]schema.FieldDescriptor{}
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read models: %w", err)
	}
	return out, nil
}

// Registry returns a registry of the stored models, or the default
// registry when none were stored.
func (s *Store) Registry(ctx context.Context) (*schema.Registry, error) {
	models, err := s.Models(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return schema.DefaultRegistry(), nil
	}
	reg := schema.NewRegistry()
	for _, m := range models {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
	}
	return reg, nil
}
