package mapper

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTable_MatchesDefault(t *testing.T) {
	table, err := LoadTable(filepath.Join("testdata", "default.cue"))
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)
}

func TestLoadTable_Custom(t *testing.T) {
	table, err := LoadTable(filepath.Join("testdata", "custom.cue"))
	require.NoError(t, err)

	m := New(table)
	assert.Equal(t, []string{"portfolioitem", "project"}, m.ParentTypes())
	assert.Equal(t,
		[]ParentField{{TypePath: "hierarchicalrequirement", FieldName: "PortfolioItem"}},
		m.ParentFields("HierarchicalRequirement", "PortfolioItem"))
}

func TestLoadTable_MissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.cue"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read table")
}

func TestParseTable_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		field   string
		message string
	}{
		{
			name:    "missing relationships",
			src:     `other: {}`,
			field:   "relationships",
			message: "relationships is required",
		},
		{
			name:    "empty relationships",
			src:     `relationships: {}`,
			field:   "relationships",
			message: "at least one parent type",
		},
		{
			name:    "not a list",
			src:     `relationships: project: "nope"`,
			field:   "relationships.project",
			message: "must be a list",
		},
		{
			name:    "missing child",
			src:     `relationships: project: [{collection: "Children", parent_field: "Parent"}]`,
			field:   "relationships.project[0].child",
			message: "child is required",
		},
		{
			name:    "non-string collection",
			src:     `relationships: project: [{child: "project", collection: 3, parent_field: "Parent"}]`,
			field:   "relationships.project[0].collection",
			message: "must be a string",
		},
		{
			name:    "empty parent field",
			src:     `relationships: project: [{child: "project", collection: "Children", parent_field: ""}]`,
			field:   "relationships.project[0].parent_field",
			message: "must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTable("test.cue", []byte(tt.src))
			require.Error(t, err)

			var te *TableError
			require.True(t, errors.As(err, &te), "expected TableError, got %T", err)
			assert.Equal(t, tt.field, te.Field)
			assert.Contains(t, te.Message, tt.message)
		})
	}
}

func TestParseTable_SyntaxError(t *testing.T) {
	_, err := ParseTable("bad.cue", []byte(`relationships: {`))
	require.Error(t, err)
}

func TestParseTable_QuotedLabels(t *testing.T) {
	src := []byte(`relationships: {
	"PortfolioItem/Initiative": [
		{child: "PortfolioItem/Feature", collection: "Features", parent_field: "Parent"},
	]
}
`)
	table, err := ParseTable("quoted.cue", src)
	require.NoError(t, err)

	m := New(table)
	assert.Equal(t, []ParentField{{TypePath: "PortfolioItem/Feature", FieldName: "Parent"}},
		m.ParentFields("portfolioitem/feature", "portfolioitem/initiative"))
}

func TestTableError_Error(t *testing.T) {
	err := &TableError{Field: "relationships", Message: "relationships is required"}
	assert.Equal(t, "relationships: relationships is required", err.Error())

	_, parseErr := ParseTable("test.cue", []byte(`relationships: project: [{collection: "Children", parent_field: "Parent"}]`))
	require.Error(t, parseErr)
	assert.Regexp(t, `^test\.cue:1:\d+: relationships\.project\[0\]\.child: child is required$`, parseErr.Error())
}
