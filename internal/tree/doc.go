// Package tree assembles a hierarchy from flat, typed records.
//
// Roots come from one query against the record source. Every node is then
// expanded level by level: the mapper names the child types of the node's
// type and, for each child type, the fields on the child that point back to
// a parent. Only fields the child's schema model actually has are used, and
// whitespace is stripped from field names before they are queried.
//
// A record already on the current ancestor path is not attached again, so
// self-referencing data terminates. Expansion also stops at the loader's
// maximum depth.
package tree
