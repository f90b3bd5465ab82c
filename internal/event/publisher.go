package event

import (
	"context"

	"github.com/dshills/pagecraft/internal/event/topic"
)

// Publisher publishes events under a fixed source name such as "command"
// or "app".
type Publisher struct {
	bus    Bus
	source string
}

// NewPublisher creates a Publisher for source on bus.
func NewPublisher(bus Bus, source string) *Publisher {
	return &Publisher{bus: bus, source: source}
}

// PublishEvent wraps payload in an Event[T] and publishes it.
func PublishEvent[T any](ctx context.Context, p *Publisher, t topic.Topic, payload T) error {
	return p.bus.Publish(ctx, NewEvent(t, payload, p.source))
}
