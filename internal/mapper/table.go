package mapper

// DefaultTable returns a fresh copy of the built-in relationship catalog.
func DefaultTable() Table {
	return Table{
		"project": {
			{ChildType: "project", CollectionName: "Children", ParentField: "Parent"},
		},
		"hierarchicalrequirement": {
			{ChildType: "defect", CollectionName: "Defects", ParentField: "Requirement"},
			{ChildType: "task", CollectionName: "Tasks", ParentField: "WorkProduct"},
			{ChildType: "testcase", CollectionName: "TestCases", ParentField: "WorkProduct"},
			{ChildType: "hierarchicalrequirement", CollectionName: "Children", ParentField: "Parent"},
		},
		"defect": {
			{ChildType: "task", CollectionName: "Tasks", ParentField: "WorkProduct"},
			{ChildType: "testcase", CollectionName: "TestCases", ParentField: "WorkProduct"},
		},
		"defectsuite": {
			{ChildType: "defect", CollectionName: "Defects", ParentField: "DefectSuites"},
			{ChildType: "task", CollectionName: "Tasks", ParentField: "WorkProduct"},
			{ChildType: "testcase", CollectionName: "TestCases", ParentField: "WorkProduct"},
		},
		"testset": {
			{ChildType: "task", CollectionName: "Tasks", ParentField: "WorkProduct"},
			{ChildType: "testcase", CollectionName: "TestCases", ParentField: "TestSets"},
		},
	}
}
