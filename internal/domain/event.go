package domain

import "time"

// EventKind enumerates the analytics record types.
type EventKind string

const (
	EventKindVisit  EventKind = "visit"
	EventKindClick  EventKind = "click"
	EventKindScroll EventKind = "scroll"
	EventKindPath   EventKind = "path"
)

// Valid reports whether k is a known record type.
func (k EventKind) Valid() bool {
	switch k {
	case EventKindVisit, EventKindClick, EventKindScroll, EventKindPath:
		return true
	}
	return false
}

// Event is a single analytics record tagged with the client that sent it.
// Kind specific values (coordinates, previous url) live in Attributes.
type Event struct {
	ID         string
	Kind       EventKind
	ClientID   string
	SessionID  string
	URL        string
	OccurredAt int64
	Attributes map[string]any
	CreatedAt  time.Time
}

// SessionActivity groups every record of one session.
type SessionActivity struct {
	SessionID string
	ClientID  string
	Visits    []Event
	Clicks    []Event
	Paths     []Event
	Scroll    []Event
}
