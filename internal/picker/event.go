package picker

import "github.com/roach88/treepick/internal/ref"

// EventKind names a session event.
type EventKind string

const (
	EventLoaded     EventKind = "loaded"
	EventSearched   EventKind = "searched"
	EventFiltered   EventKind = "filtered"
	EventSelected   EventKind = "selected"
	EventDeselected EventKind = "deselected"
	EventChosen     EventKind = "chosen"
	EventCancelled  EventKind = "cancelled"
)

// Event is one entry of a session's log.
//
// Refs depends on Kind: the highlighted refs for loaded, the changed ref for
// selected and deselected, the chosen refs for chosen.
type Event struct {
	Seq   int64     `json:"seq"`
	Kind  EventKind `json:"kind"`
	Refs  []ref.Ref `json:"refs,omitempty"`
	Terms string    `json:"terms,omitempty"`
}

// Events returns a copy of the session's event log, oldest first.
func (s *Session) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Session) emit(kind EventKind, refs []ref.Ref, terms string) {
	var cp []ref.Ref
	if len(refs) > 0 {
		cp = append(cp, refs...)
	}
	s.events = append(s.events, Event{
		Seq:   s.clock.Next(),
		Kind:  kind,
		Refs:  cp,
		Terms: terms,
	})
}
