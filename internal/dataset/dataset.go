package dataset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/treepick/internal/ref"
	"github.com/roach88/treepick/internal/schema"
	"github.com/roach88/treepick/internal/store"
)

// Dataset is a decoded fixture file.
type Dataset struct {
	// Name identifies the dataset in logs and output.
	Name string `yaml:"name"`

	// Models override the built-in registry when present.
	Models []ModelSpec `yaml:"models,omitempty"`

	// Records are seeded in order.
	Records []*ref.Entity `yaml:"records"`
}

// ModelSpec describes one record type.
type ModelSpec struct {
	Type        string      `yaml:"type"`
	DisplayName string      `yaml:"display_name,omitempty"`
	Fields      []FieldSpec `yaml:"fields"`
}

// FieldSpec describes one field of a model.
type FieldSpec struct {
	Name string           `yaml:"name"`
	Kind schema.FieldKind `yaml:"kind"`
}

// Load reads and validates a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates dataset YAML. Unknown keys are rejected.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ds.validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &ds, nil
}

func (ds *Dataset) validate() error {
	if ds.Name == "" {
		return fmt.Errorf("name is required")
	}

	reg, err := ds.buildRegistry()
	if err != nil {
		return err
	}

	seen := make(map[ref.Ref]int, len(ds.Records))
	for i, rec := range ds.Records {
		if rec == nil {
			return fmt.Errorf("records[%d]: record is empty", i)
		}
		if rec.Ref.IsZero() {
			return fmt.Errorf("records[%d]: ref is required", i)
		}
		if rec.Type == "" {
			return fmt.Errorf("records[%d]: type is required", i)
		}
		if first, dup := seen[rec.Ref]; dup {
			return fmt.Errorf("records[%d]: ref %q already defined at records[%d]", i, rec.Ref, first)
		}
		seen[rec.Ref] = i

		if _, ok := reg.Model(rec.Type); !ok {
			return fmt.Errorf("records[%d]: unknown type %q", i, rec.Type)
		}
	}
	return nil
}

// Registry returns the dataset's models, or the built-in registry when the
// dataset lists none.
func (ds *Dataset) Registry() *schema.Registry {
	reg, err := ds.buildRegistry()
	if err != nil {
		// Parse validated the models already.
		panic(err)
	}
	return reg
}

func (ds *Dataset) buildRegistry() (*schema.Registry, error) {
	if len(ds.Models) == 0 {
		return schema.DefaultRegistry(), nil
	}

	reg := schema.NewRegistry()
	for i, m := range ds.Models {
		if m.Type == "" {
			return nil, fmt.Errorf("models[%d]: type is required", i)
		}
		fields := make([]schema.FieldDescriptor, 0, len(m.Fields))
		for j, f := range m.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("models[%d].fields[%d]: name is required", i, j)
			}
			if !f.Kind.Valid() {
				return nil, fmt.Errorf("models[%d].fields[%d]: unknown kind %q", i, j, f.Kind)
			}
			fields = append(fields, schema.FieldDescriptor{Name: f.Name, Kind: f.Kind})
		}
		if err := reg.Register(schema.NewModel(m.Type, m.DisplayName, fields...)); err != nil {
			return nil, fmt.Errorf("models[%d]: %w", i, err)
		}
	}
	return reg, nil
}

// Refs returns the record refs in dataset order.
func (ds *Dataset) Refs() []ref.Ref {
	out := make([]ref.Ref, len(ds.Records))
	for i, rec := range ds.Records {
		out[i] = rec.Ref
	}
	return out
}

// Seed writes the dataset's models, when it declares any, then every
// record in one transaction.
func (ds *Dataset) Seed(ctx context.Context, st *store.Store) error {
	if len(ds.Models) > 0 {
		reg, err := ds.buildRegistry()
		if err != nil {
			return fmt.Errorf("seed dataset %s: %w", ds.Name, err)
		}
		if err := st.PutModels(ctx, reg.Models()); err != nil {
			return fmt.Errorf("seed dataset %s: %w", ds.Name, err)
		}
	}
	if err := st.PutRecords(ctx, ds.Records); err != nil {
		return fmt.Errorf("seed dataset %s: %w", ds.Name, err)
	}
	return nil
}
