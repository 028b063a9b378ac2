// Package mapper answers how typed records attach to each other in a
// hierarchy.
//
// A Table maps a parent type tag to the ordered rules describing its child
// relationships: which child type, which collection on the parent holds the
// children, and which field on the child points back to the parent. The same
// child type may appear more than once under one parent when it is reachable
// through several fields.
//
// A Mapper is built once from a Table and never mutated, so one Mapper can be
// shared by any number of goroutines. Type tags are compared with Unicode case
// folding.
//
// The default table is compiled in. A replacement table can be loaded from a
// CUE file:
//
//	relationships: {
//		project: [
//			{child: "project", collection: "Children", parent_field: "Parent"},
//		]
//	}
package mapper
