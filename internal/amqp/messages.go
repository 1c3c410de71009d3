package amqp

import (
	"encoding/json"
	"time"
)

// Ledger event names carried on the bus.
const (
	EventEntryCreated      = "entry.created"
	EventEntryUpdated      = "entry.updated"
	EventEntryDeleted      = "entry.deleted"
	EventEntryMaterialized = "entry.materialized"
)

// LedgerEvent is a lightweight change notification. Consumers fetch the full
// record from the database; the message only identifies what changed.
type LedgerEvent struct {
	Event      string    `json:"event"`
	CompanyID  int64     `json:"company_id"`
	EntryID    int64     `json:"entry_id,omitempty"`
	TemplateID int64     `json:"template_id,omitempty"`
	Period     string    `json:"period,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewLedgerEvent builds an event stamped with the current time.
func NewLedgerEvent(event string, companyID, entryID int64) LedgerEvent {
	return LedgerEvent{
		Event:     event,
		CompanyID: companyID,
		EntryID:   entryID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (m LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON parses an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var msg LedgerEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return LedgerEvent{}, err
	}
	return msg, nil
}
