package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	ActionCreated = "created"
	ActionDeleted = "deleted"
)

// EntryEvent announces a ledger mutation. It carries only the entry ID and
// the action; consumers fetch whatever state they need from the store.
type EntryEvent struct {
	Action    string    `json:"action"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntryEvent creates an event for the given action and entry ID.
func NewEntryEvent(action, id string) *EntryEvent {
	return &EntryEvent{
		Action:    action,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// EntryEventFromJSON creates an event from JSON bytes.
func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var evt EntryEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, err
	}
	if evt.Action != ActionCreated && evt.Action != ActionDeleted {
		return nil, fmt.Errorf("unknown entry event action %q", evt.Action)
	}
	return &evt, nil
}
