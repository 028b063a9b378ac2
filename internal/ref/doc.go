// Package ref provides the record identity types shared by every treepick
// package.
//
// This package contains identity types and the type-tag folding rule. All
// other internal packages import ref; ref imports nothing internal.
//
// Key design constraints:
//   - A Ref is opaque: never parsed, never normalized, compared byte for byte
//   - Records are narrow: callers see Reference and Field, nothing else
//   - Type tags compare case-insensitively, always through FoldType
package ref
