package mapper

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_Catalog(t *testing.T) {
	m := Default()

	tests := []struct {
		parent string
		want   []Rule
	}{
		{"project", []Rule{
			{"project", "Children", "Parent"},
		}},
		{"hierarchicalrequirement", []Rule{
			{"defect", "Defects", "Requirement"},
			{"task", "Tasks", "WorkProduct"},
			{"testcase", "TestCases", "WorkProduct"},
			{"hierarchicalrequirement", "Children", "Parent"},
		}},
		{"defect", []Rule{
			{"task", "Tasks", "WorkProduct"},
			{"testcase", "TestCases", "WorkProduct"},
		}},
		{"defectsuite", []Rule{
			{"defect", "Defects", "DefectSuites"},
			{"task", "Tasks", "WorkProduct"},
			{"testcase", "TestCases", "WorkProduct"},
		}},
		{"testset", []Rule{
			{"task", "Tasks", "WorkProduct"},
			{"testcase", "TestCases", "TestSets"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.parent, func(t *testing.T) {
			assert.Equal(t, tt.want, m.RulesForParentType(tt.parent))
		})
	}

	assert.Equal(t,
		[]string{"defect", "defectsuite", "hierarchicalrequirement", "project", "testset"},
		m.ParentTypes())
}

func TestRulesForParentType_CaseInsensitive(t *testing.T) {
	m := Default()
	assert.Equal(t,
		m.RulesForParentType("hierarchicalrequirement"),
		m.RulesForParentType("HierarchicalRequirement"))
	assert.Equal(t,
		m.RulesForParentType("testset"),
		m.RulesForParentType("TESTSET"))
}

func TestRulesForParentType_Unknown(t *testing.T) {
	m := Default()
	rules := m.RulesForParentType("portfolioitem")
	assert.NotNil(t, rules)
	assert.Empty(t, rules)
	assert.False(t, m.HasParentType("portfolioitem"))
	assert.True(t, m.HasParentType("Project"))
}

func TestRulesForParentType_ReturnsCopy(t *testing.T) {
	m := Default()
	rules := m.RulesForParentType("project")
	rules[0].ParentField = "Mutated"
	assert.Equal(t, "Parent", m.RulesForParentType("project")[0].ParentField)
}

func TestParentFields_ExactMatch(t *testing.T) {
	m := Default()
	got := m.ParentFields("task", "hierarchicalrequirement")
	require.Len(t, got, 1)
	assert.Equal(t, ParentField{TypePath: "task", FieldName: "WorkProduct"}, got[0])
}

func TestParentFields_Unknown(t *testing.T) {
	m := Default()
	assert.Empty(t, m.ParentFields("unknown", "project"))
	assert.Empty(t, m.ParentFields("task", "unknown"))
	assert.NotNil(t, m.ParentFields("unknown", "project"))
}

func TestParentFields_CaseInsensitiveChild(t *testing.T) {
	m := Default()
	got := m.ParentFields("TestCase", "TestSet")
	require.Len(t, got, 1)
	assert.Equal(t, "TestSets", got[0].FieldName)
	assert.Equal(t, "testcase", got[0].TypePath)
}

func TestParentFields_PerParentType(t *testing.T) {
	m := Default()

	assert.Equal(t, []ParentField{{"defect", "Requirement"}}, m.ParentFields("defect", "hierarchicalrequirement"))
	assert.Equal(t, []ParentField{{"defect", "DefectSuites"}}, m.ParentFields("defect", "defectsuite"))
	assert.Equal(t, []ParentField{{"task", "WorkProduct"}}, m.ParentFields("task", "defectsuite"))
}

func TestParentFields_MultipleMatches(t *testing.T) {
	m := New(Table{
		"hierarchicalrequirement": {
			{ChildType: "task", CollectionName: "Tasks", ParentField: "WorkProduct"},
			{ChildType: "defect", CollectionName: "Defects", ParentField: "Requirement"},
			{ChildType: "Task", CollectionName: "LinkedTasks", ParentField: "Linked Story"},
		},
	})

	got := m.ParentFields("task", "hierarchicalrequirement")
	assert.Equal(t, []ParentField{
		{TypePath: "task", FieldName: "WorkProduct"},
		{TypePath: "Task", FieldName: "Linked Story"},
	}, got)
	assert.Equal(t, []string{"task", "defect"}, m.ChildTypes("hierarchicalrequirement"))
}

func TestNew_CopiesTable(t *testing.T) {
	table := Table{"project": {{ChildType: "project", CollectionName: "Children", ParentField: "Parent"}}}
	m := New(table)

	table["project"][0].ParentField = "Changed"
	table["defect"] = []Rule{{ChildType: "task"}}

	assert.Equal(t, "Parent", m.RulesForParentType("project")[0].ParentField)
	assert.Empty(t, m.RulesForParentType("defect"))
}

func TestNew_MergesFoldedKeys(t *testing.T) {
	m := New(Table{
		"Project": {{ChildType: "project", CollectionName: "Children", ParentField: "Parent"}},
		"project": {{ChildType: "release", CollectionName: "Releases", ParentField: "Project"}},
	})
	rules := m.RulesForParentType("PROJECT")
	require.Len(t, rules, 2)
	assert.Equal(t, "project", rules[0].ChildType)
	assert.Equal(t, "release", rules[1].ChildType)
	assert.Equal(t, []string{"project"}, m.ParentTypes())
}

func TestDefaultTable_FreshCopy(t *testing.T) {
	a := DefaultTable()
	a["project"][0].ParentField = "Mutated"
	assert.Equal(t, "Parent", DefaultTable()["project"][0].ParentField)
}

func TestMapper_ConcurrentReads(t *testing.T) {
	m := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.Len(t, m.ParentFields("task", "Defect"), 1)
			}
		}()
	}
	wg.Wait()
}
