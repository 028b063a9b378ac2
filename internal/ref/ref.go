package ref

import "sort"

// Ref is an opaque, globally unique reference to one remote record.
// Format is owned by the record source (e.g. "/project/1234").
type Ref string

// String returns the reference as a plain string.
func (r Ref) String() string { return string(r) }

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool { return r == "" }

// Set is an unordered set of references.
type Set map[Ref]struct{}

// NewSet builds a set from the given references, skipping empty ones.
func NewSet(refs ...Ref) Set {
	s := make(Set, len(refs))
	for _, r := range refs {
		s.Add(r)
	}
	return s
}

// Add inserts r. Empty references are ignored.
func (s Set) Add(r Ref) {
	if r.IsZero() {
		return
	}
	s[r] = struct{}{}
}

// Has reports whether r is in the set. A nil set contains nothing.
func (s Set) Has(r Ref) bool {
	_, ok := s[r]
	return ok
}

// Len returns the number of references in the set.
func (s Set) Len() int { return len(s) }

// Sorted returns the set members in byte order.
// Used for deterministic output only; sets carry no order of their own.
func (s Set) Sorted() []Ref {
	out := make([]Ref, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings converts references to plain strings, preserving order.
func Strings(refs []Ref) []string {
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = string(r)
	}
	return out
}

// FromStrings converts plain strings to references, preserving order.
func FromStrings(values []string) []Ref {
	out := make([]Ref, len(values))
	for i, v := range values {
		out[i] = Ref(v)
	}
	return out
}
