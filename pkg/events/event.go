package events

import "time"

// Event is anything the analytics bus can carry.
type Event interface {
	// EventType is the stable event code, e.g. "CHAT_TURN_COMPLETED".
	EventType() string

	// Payload holds the event data as published.
	Payload() map[string]interface{}

	// Timestamp is when the event occurred, not when it was delivered.
	Timestamp() time.Time
}

// BaseEvent is the plain value implementation every constructor in this
// package returns.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
