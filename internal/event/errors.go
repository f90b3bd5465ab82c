package event

import (
	"errors"
	"fmt"

	"github.com/dshills/pagecraft/internal/event/topic"
)

var (
	// ErrInvalidEvent is returned by Publish for values without a topic.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrInvalidTopic is returned for empty or malformed patterns.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler is returned when subscribing a nil handler.
	ErrNilHandler = errors.New("handler cannot be nil")

	// ErrUnknownSubscription is returned by Unsubscribe for a handle the
	// bus does not hold.
	ErrUnknownSubscription = errors.New("unknown subscription")

	// ErrHandlerPanic is wrapped by the DeliveryError of a panicking handler.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrSubscriberClosed is returned when subscribing through a closed
	// Subscriber.
	ErrSubscriberClosed = errors.New("subscriber is closed")
)

// DeliveryError reports a handler that failed or panicked. It is passed to
// the bus's ErrorHandler and never returned to the publisher.
type DeliveryError struct {
	Topic        topic.Topic
	Subscription string
	Err          error

	// Recovered and Stack are set when the handler panicked. Err is then
	// ErrHandlerPanic.
	Recovered any
	Stack     []byte
}

func (e *DeliveryError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("%s: subscription %s: %v: %v", e.Topic, e.Subscription, e.Err, e.Recovered)
	}
	return fmt.Sprintf("%s: subscription %s: %v", e.Topic, e.Subscription, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// ErrorHandler receives every DeliveryError with the event that caused it.
type ErrorHandler func(ev any, err error)
