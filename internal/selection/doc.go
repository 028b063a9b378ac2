// Package selection tracks which records a user has chosen across
// successive reloads of a possibly changing tree.
//
// A Cache holds refs in selection order (oldest first) and never holds the
// same ref twice. In single mode it holds at most one entry; selecting a new
// ref evicts the old one.
//
// # Reconciliation
//
// Reconcile answers "which of my selections are visible right now" against
// the refs of a freshly loaded tree. It never mutates the cache: a selection
// hidden by a search filter or a page boundary stays selected and is
// highlighted again once it reappears. Cached refs never expire on their own;
// only Deselect or Reset removes them.
//
// Cache is owned by a single session and is not safe for concurrent use.
package selection
