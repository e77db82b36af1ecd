// Package events records changes to the recipe book and baseline list, and
// shopping runs, as an append-only feed with subscriber notification.
package events

import (
	"time"
)

// Event is one recorded change. Version counts events within the same stream, from 1.
type Event interface {
	Type() string
	StreamID() string
	Data() any
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to appended events whose type it accepts.
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// Publisher is the write side of an EventStore.
type Publisher interface {
	AppendEvent(streamID string, event Event) error
}

// EventStore can be read back by stream or globally, and subscribed to.
type EventStore interface {
	Publisher
	ReadEvents(streamID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

type change struct {
	kind    string
	stream  string
	data    any
	at      time.Time
	version int
}

func (c change) Type() string         { return c.kind }
func (c change) StreamID() string     { return c.stream }
func (c change) Data() any            { return c.data }
func (c change) Timestamp() time.Time { return c.at }
func (c change) Version() int         { return c.version }

// NewEvent stamps an unversioned event with the current time. The store
// assigns the version when the event is appended.
func NewEvent(eventType, streamID string, data any) Event {
	return change{
		kind:   eventType,
		stream: streamID,
		data:   data,
		at:     time.Now(),
	}
}

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) AppendEvent(string, Event) error { return nil }
