package telemetry

import (
	"path/filepath"
	"testing"
)

func TestEventLogRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l, err := NewEventLog(dir)
	if err != nil {
		t.Fatalf("NewEventLog: %v", err)
	}

	events := []Event{
		NewSowEvent(0, 1, "sunflower", 200, 2),
		NewGerminateEvent(120, 1, "sunflower", 1.52),
		NewBranchEvent(180, 1, "sunflower", 1),
		NewDeathEvent(900, 1, "sunflower", "Extreme heat (>50°C)"),
		NewBookmarkEvent(Bookmark{Type: BookmarkDieOff, Tick: 1000, Description: "1 of 1 plants died"}),
	}
	for _, e := range events {
		if err := l.Write(e); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Write(events[0]); err == nil {
		t.Error("write after close succeeded")
	}

	got, err := ReadEventLog(filepath.Join(dir, EventLogName))
	if err != nil {
		t.Fatalf("ReadEventLog: %v", err)
	}
	if len(got) != len(events) {
		t.Fatalf("read %d events, want %d", len(got), len(events))
	}
	for i := range events {
		if got[i] != events[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], events[i])
		}
	}
}

func TestEventLogDisabled(t *testing.T) {
	l, err := NewEventLog("")
	if err != nil || l != nil {
		t.Fatalf("NewEventLog(\"\") = %v, %v", l, err)
	}
	if err := l.Write(Event{}); err != nil {
		t.Error(err)
	}
	if err := l.Flush(); err != nil {
		t.Error(err)
	}
	if err := l.Close(); err != nil {
		t.Error(err)
	}
}

func TestEventTypeText(t *testing.T) {
	for i := range eventTypeNames {
		typ := EventType(i)
		b, _ := typ.MarshalText()
		var back EventType
		if err := back.UnmarshalText(b); err != nil || back != typ {
			t.Errorf("%v: round trip gave %v, %v", typ, back, err)
		}
	}
	var bad EventType
	if err := bad.UnmarshalText([]byte("bloom")); err == nil {
		t.Error("expected error for unknown name")
	}
}
