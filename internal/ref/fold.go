package ref

import "golang.org/x/text/cases"

// FoldType case-folds a record type tag so "HierarchicalRequirement" and
// "hierarchicalrequirement" compare equal. Every package comparing type tags
// goes through here.
func FoldType(typeTag string) string {
	// A Caser is stateful, so one is made per call.
	return cases.Fold().String(typeTag)
}
