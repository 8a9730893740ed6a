package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a published message. Events are immutable once created.
type Event struct {
	Topic    Topic
	Payload  any
	Metadata Metadata
}

// Metadata is attached to every event.
type Metadata struct {
	// ID is unique per event.
	ID string
	// Timestamp is when the event was created.
	Timestamp time.Time
	// Source names the publisher.
	Source string
}

// New creates an event for topic.
func New(topic Topic, payload any, source string) Event {
	return Event{
		Topic:   topic,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}
