package event

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/pagecraft/internal/event/topic"
)

// Subscriber groups the subscriptions of one consumer, such as the menu or
// the terminal view, so Close can drop them together.
type Subscriber struct {
	bus Bus

	mu     sync.Mutex
	subs   []Subscription
	closed bool
}

// NewSubscriber creates a Subscriber on bus.
func NewSubscriber(bus Bus) *Subscriber {
	return &Subscriber{bus: bus}
}

// Subscribe subscribes h and remembers the subscription.
func (s *Subscriber) Subscribe(pattern topic.Topic, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSubscriberClosed
	}
	sub, err := s.bus.Subscribe(pattern, h, opts...)
	if err != nil {
		return nil, err
	}
	s.subs = append(s.subs, sub)
	return sub, nil
}

// SubscribeFunc is Subscribe for a function.
func (s *Subscriber) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return s.Subscribe(pattern, fn, opts...)
}

// SubscribePayload subscribes fn to the payloads of Event[T] published on
// pattern.
func SubscribePayload[T any](s *Subscriber, pattern topic.Topic, fn func(ctx context.Context, payload T) error, opts ...SubscriptionOption) (Subscription, error) {
	return s.Subscribe(pattern, AsHandler(func(ctx context.Context, ev Event[T]) error {
		return fn(ctx, ev.Payload)
	}), opts...)
}

// Close unsubscribes everything. Later calls to Subscribe fail.
func (s *Subscriber) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for _, sub := range s.subs {
		// Once subscriptions may already be gone.
		if err := s.bus.Unsubscribe(sub); err != nil && !errors.Is(err, ErrUnknownSubscription) {
			errs = append(errs, err)
		}
	}
	s.subs = nil
	return errors.Join(errs...)
}
