// Package telemetry provides garden health tracking, bookmarking, and run records.
package telemetry

import "fmt"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSow EventType = iota
	EventGerminate
	EventDeath
	EventBranch
	EventBookmark
)

var eventTypeNames = [...]string{"sow", "germinate", "death", "branch", "bookmark"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MarshalText writes the event name so JSON records stay readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType `json:"type"`
	Tick     int32     `json:"tick"`
	EntityID uint32    `json:"id,omitempty"`
	Kind     string    `json:"kind,omitempty"`

	// Optional fields depending on event type
	X      int     `json:"x,omitempty"`
	Row    int     `json:"row,omitempty"`
	Amount float64 `json:"amount,omitempty"` // tips spawned (branch) or hydration (germinate)
	Detail string  `json:"detail,omitempty"` // death reason or bookmark description
}

// NewSowEvent creates a sowing event.
func NewSowEvent(tick int32, id uint32, kind string, x, row int) Event {
	return Event{
		Type:     EventSow,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		X:        x,
		Row:      row,
	}
}

// NewGerminateEvent creates a germination event.
func NewGerminateEvent(tick int32, id uint32, kind string, hydration float64) Event {
	return Event{
		Type:     EventGerminate,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Amount:   hydration,
	}
}

// NewDeathEvent creates a death event.
func NewDeathEvent(tick int32, id uint32, kind, reason string) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Detail:   reason,
	}
}

// NewBranchEvent records lateral tips spawned by one specimen in a tick.
func NewBranchEvent(tick int32, id uint32, kind string, spawned int) Event {
	return Event{
		Type:     EventBranch,
		Tick:     tick,
		EntityID: id,
		Kind:     kind,
		Amount:   float64(spawned),
	}
}

// NewBookmarkEvent wraps a bookmark.
func NewBookmarkEvent(b Bookmark) Event {
	return Event{
		Type:   EventBookmark,
		Tick:   b.Tick,
		Kind:   string(b.Type),
		Detail: b.Description,
	}
}

// UnmarshalText parses an event name written by MarshalText.
func (t *EventType) UnmarshalText(b []byte) error {
	for i, name := range eventTypeNames {
		if name == string(b) {
			*t = EventType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event type %q", b)
}
