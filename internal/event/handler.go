package event

import (
	"context"

	"github.com/dshills/pagecraft/internal/event/topic"
)

// Handler receives published events. The event is type-erased; use
// AsHandler or SubscribePayload to work with a payload type directly.
type Handler interface {
	Handle(ctx context.Context, ev any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, ev any) error

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ev any) error { return f(ctx, ev) }

// AsHandler wraps fn so that it only sees Event[T]. Other events are
// ignored.
func AsHandler[T any](fn func(ctx context.Context, ev Event[T]) error) Handler {
	return HandlerFunc(func(ctx context.Context, ev any) error {
		e, ok := ev.(Event[T])
		if !ok {
			return nil
		}
		return fn(ctx, e)
	})
}

// Priority orders the handlers of one event. Lower runs first.
type Priority int

// Handler priorities.
const (
	PriorityCritical Priority = 0
	PriorityHigh     Priority = 100
	PriorityNormal   Priority = 200
	PriorityLow      Priority = 300
)

// Subscription is the handle returned by Subscribe.
type Subscription interface {
	ID() string
	Topic() topic.Topic
	// Cancel stops delivery. Unsubscribe also releases the handle.
	Cancel()
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the handler priority. The default is PriorityNormal.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) { s.priority = p }
}

// WithFilter skips events for which keep returns false.
func WithFilter(keep func(ev any) bool) SubscriptionOption {
	return func(s *subscription) { s.filter = keep }
}

// WithOnce removes the subscription after its first successful delivery.
func WithOnce() SubscriptionOption {
	return func(s *subscription) { s.once = true }
}

// FromSource keeps only events published by source.
func FromSource(source string) func(ev any) bool {
	return func(ev any) bool { return SourceOf(ev) == source }
}
