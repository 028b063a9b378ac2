// Package picker drives one selection session over a record tree.
//
// A Session owns a selection cache and the last loaded tree. Every load,
// search or selection change reconciles the cache against the tree:
// selected refs present in the tree are highlighted, and selected refs
// that are not loaded stay selected until they are deselected.
//
// A custom filter narrows the roots beyond the configuration and stays in
// effect across searches until cleared.
//
// Sessions end with Done, which reports a Choice, or Cancel.
package picker
