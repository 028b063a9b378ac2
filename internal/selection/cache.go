package selection

import (
	"github.com/roach88/treepick/internal/ref"
)

// Mode controls how many entries a Cache may hold.
type Mode int

const (
	// Multiple allows any number of entries.
	Multiple Mode = iota
	// Single holds at most one entry; a new selection evicts the old one.
	Single
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Multiple:
		return "multiple"
	case Single:
		return "single"
	default:
		return "unknown"
	}
}

// ModeFor maps a "multiple" flag to a Mode.
func ModeFor(multiple bool) Mode {
	if multiple {
		return Multiple
	}
	return Single
}

// Entry is one selected record. Two entries are equal when their refs are
// equal; Record is carried along for callers that want the full record back.
type Entry struct {
	Ref    ref.Ref
	Record ref.Record
}

// Cache is an ordered, duplicate-free collection of selected refs.
type Cache struct {
	mode    Mode
	entries []Entry
}

// New creates a cache in the given mode seeded with initial refs.
//
// Initial refs are taken as already valid: no lookup happens here. Empty refs
// are skipped and duplicates keep their first position. In Single mode only
// the first initial ref is kept.
func New(mode Mode, initial ...ref.Ref) *Cache {
	c := &Cache{}
	c.Reset(mode, initial...)
	return c
}

// Reset discards every entry, sets the mode and seeds initial refs with the
// same rules as New.
func (c *Cache) Reset(mode Mode, initial ...ref.Ref) {
	c.mode = mode
	c.entries = make([]Entry, 0, len(initial))
	for _, r := range initial {
		if r.IsZero() || c.indexOf(r) != -1 {
			continue
		}
		c.entries = append(c.entries, Entry{Ref: r})
		if mode == Single {
			break
		}
	}
}

// Mode returns the cache's mode.
func (c *Cache) Mode() Mode { return c.mode }

// Select adds r to the cache.
//
// Returns false and leaves the cache unchanged when r is already present or
// empty. In Single mode the previous entry is evicted first. Callers should
// re-check IsEmpty afterwards to drive any "done" enablement.
func (c *Cache) Select(r ref.Ref) bool {
	return c.add(Entry{Ref: r})
}

// SelectRecord is Select for a full record; the record is kept with the entry.
func (c *Cache) SelectRecord(rec ref.Record) bool {
	if rec == nil {
		return false
	}
	return c.add(Entry{Ref: rec.Reference(), Record: rec})
}

func (c *Cache) add(e Entry) bool {
	if e.Ref.IsZero() || c.indexOf(e.Ref) != -1 {
		return false
	}
	if c.mode == Single {
		c.entries = c.entries[:0]
	}
	c.entries = append(c.entries, e)
	return true
}

// Deselect removes r. Returns false when r was not selected.
func (c *Cache) Deselect(r ref.Ref) bool {
	i := c.indexOf(r)
	if i == -1 {
		return false
	}
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
	return true
}

// All returns a snapshot of the selected refs, oldest first.
func (c *Cache) All() []ref.Ref {
	out := make([]ref.Ref, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Ref
	}
	return out
}

// Entries returns a snapshot of the entries, oldest first.
func (c *Cache) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Single returns the sole selected ref, or "" when nothing is selected.
// Returns an InvalidModeError when the cache is in Multiple mode.
func (c *Cache) Single() (ref.Ref, error) {
	if c.mode != Single {
		return "", &InvalidModeError{Op: "Single", Mode: c.mode}
	}
	if len(c.entries) == 0 {
		return "", nil
	}
	return c.entries[0].Ref, nil
}

// IsEmpty reports whether nothing is selected.
func (c *Cache) IsEmpty() bool { return len(c.entries) == 0 }

// Len returns the number of selected refs.
func (c *Cache) Len() int { return len(c.entries) }

// Contains reports whether r is selected.
func (c *Cache) Contains(r ref.Ref) bool { return c.indexOf(r) != -1 }

// Reconcile returns the selected refs present in available, in selection
// order. The cache itself is not modified.
func (c *Cache) Reconcile(available ref.Set) []ref.Ref {
	return c.ReconcileFunc(available.Has)
}

// ReconcileFunc is Reconcile with a membership predicate, for callers that
// can answer "is this ref loaded" without materializing a set.
func (c *Cache) ReconcileFunc(has func(ref.Ref) bool) []ref.Ref {
	out := make([]ref.Ref, 0, len(c.entries))
	for _, e := range c.entries {
		if has(e.Ref) {
			out = append(out, e.Ref)
		}
	}
	return out
}

func (c *Cache) indexOf(r ref.Ref) int {
	for i, e := range c.entries {
		if e.Ref == r {
			return i
		}
	}
	return -1
}
