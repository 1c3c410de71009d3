package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventRoundTrip(t *testing.T) {
	ev := LedgerEvent{
		Event:     EventEntryCreated,
		CompanyID: 3,
		EntryID:   42,
		Period:    "2025-07",
		Timestamp: time.Date(2025, 7, 15, 10, 0, 0, 0, time.UTC),
	}

	body, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := LedgerEventFromJSON(body)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON() error = %v", err)
	}
	if got != ev {
		t.Errorf("round trip = %+v, want %+v", got, ev)
	}
}

func TestLedgerEventFromJSONInvalid(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestNewLedgerEventStampsTime(t *testing.T) {
	ev := NewLedgerEvent(EventEntryDeleted, 1, 9)
	if ev.Timestamp.IsZero() {
		t.Error("NewLedgerEvent() left Timestamp zero")
	}
	if ev.Event != EventEntryDeleted || ev.CompanyID != 1 || ev.EntryID != 9 {
		t.Errorf("NewLedgerEvent() = %+v", ev)
	}
}
