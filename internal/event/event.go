package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/pagecraft/internal/event/topic"
)

// Event is a notification with a typed payload. Events are values and are
// never modified after NewEvent returns.
type Event[T any] struct {
	Type     topic.Topic
	Payload  T
	Metadata Metadata
}

// Metadata identifies one published notification.
type Metadata struct {
	ID     string
	Source string
	Time   time.Time
}

// NewEvent stamps payload with a fresh id, the current time and source.
func NewEvent[T any](t topic.Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    t,
		Payload: payload,
		Metadata: Metadata{
			ID:     uuid.NewString(),
			Source: source,
			Time:   time.Now(),
		},
	}
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() topic.Topic { return e.Type }

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata { return e.Metadata }

// TopicProvider is what the bus requires of a published value.
type TopicProvider interface {
	EventTopic() topic.Topic
}

// MetadataProvider lets type-erased handlers read an event's metadata.
type MetadataProvider interface {
	EventMetadata() Metadata
}

// SourceOf returns the source of ev, or "" when ev carries no metadata.
func SourceOf(ev any) string {
	if mp, ok := ev.(MetadataProvider); ok {
		return mp.EventMetadata().Source
	}
	return ""
}
