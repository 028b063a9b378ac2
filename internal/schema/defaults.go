package schema

// DefaultRegistry returns models for every type in the default mapper table.
// Each carries the relationship fields the table names plus the common
// identity fields.
func DefaultRegistry() *Registry {
	common := func(extra ...FieldDescriptor) []FieldDescriptor {
		return append([]FieldDescriptor{
			{Name: "Name", Kind: KindString},
			{Name: "FormattedID", Kind: KindString},
			{Name: "ObjectID", Kind: KindInteger},
		}, extra...)
	}

	return NewRegistry(
		NewModel("project", "Project",
			FieldDescriptor{Name: "Name", Kind: KindString},
			FieldDescriptor{Name: "ObjectID", Kind: KindInteger},
			FieldDescriptor{Name: "Parent", Kind: KindReference},
			FieldDescriptor{Name: "Children", Kind: KindCollection},
		),
		NewModel("hierarchicalrequirement", "User Story", common(
			FieldDescriptor{Name: "Parent", Kind: KindReference},
			FieldDescriptor{Name: "Children", Kind: KindCollection},
			FieldDescriptor{Name: "Defects", Kind: KindCollection},
			FieldDescriptor{Name: "Tasks", Kind: KindCollection},
			FieldDescriptor{Name: "TestCases", Kind: KindCollection},
		)...),
		NewModel("defect", "Defect", common(
			FieldDescriptor{Name: "Requirement", Kind: KindReference},
			FieldDescriptor{Name: "DefectSuites", Kind: KindCollection},
			FieldDescriptor{Name: "Tasks", Kind: KindCollection},
			FieldDescriptor{Name: "TestCases", Kind: KindCollection},
		)...),
		NewModel("defectsuite", "Defect Suite", common(
			FieldDescriptor{Name: "Defects", Kind: KindCollection},
			FieldDescriptor{Name: "Tasks", Kind: KindCollection},
			FieldDescriptor{Name: "TestCases", Kind: KindCollection},
		)...),
		NewModel("task", "Task", common(
			FieldDescriptor{Name: "WorkProduct", Kind: KindReference},
		)...),
		NewModel("testcase", "Test Case", common(
			FieldDescriptor{Name: "WorkProduct", Kind: KindReference},
			FieldDescriptor{Name: "TestSets", Kind: KindCollection},
		)...),
		NewModel("testset", "Test Set", common(
			FieldDescriptor{Name: "Tasks", Kind: KindCollection},
			FieldDescriptor{Name: "TestCases", Kind: KindCollection},
		)...),
	)
}
