package event

import (
	"context"
	"runtime/debug"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/pagecraft/internal/event/topic"
)

// Bus delivers events synchronously: Publish returns after every matching
// handler ran, in priority order and then in subscription order.
type Bus interface {
	// Publish delivers ev. Handler failures go to the ErrorHandler. The
	// returned error only reports an invalid event or a done context.
	Publish(ctx context.Context, ev any) error

	Subscribe(pattern topic.Topic, h Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	Stats() Stats
}

// Stats counts deliveries since the bus was created.
type Stats struct {
	// Published counts events that matched at least one subscription.
	Published uint64
	Delivered uint64
	Failed    uint64
	Panicked  uint64

	// Subscriptions counts the subscriptions that are not cancelled.
	Subscriptions int
}

// BusOption configures NewBus.
type BusOption func(*syncBus)

// WithErrorHandler installs the receiver of handler failures.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *syncBus) { b.onError = h }
}

type subscription struct {
	id       string
	pattern  topic.Topic
	handler  Handler
	priority Priority
	filter   func(any) bool
	once     bool

	seq       uint64
	cancelled atomic.Bool
}

func (s *subscription) ID() string         { return s.id }
func (s *subscription) Topic() topic.Topic { return s.pattern }
func (s *subscription) Cancel()            { s.cancelled.Store(true) }

func (s *subscription) wants(t topic.Topic, ev any) bool {
	if s.cancelled.Load() || !t.Matches(s.pattern) {
		return false
	}
	return s.filter == nil || s.filter(ev)
}

type syncBus struct {
	mu      sync.RWMutex
	subs    []*subscription // ordered by priority, then seq
	seq     uint64
	onError ErrorHandler

	published, delivered, failed, panicked atomic.Uint64
}

// NewBus creates an empty synchronous bus.
func NewBus(opts ...BusOption) Bus {
	b := &syncBus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *syncBus) Subscribe(pattern topic.Topic, h Handler, opts ...SubscriptionOption) (Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	s := &subscription{id: uuid.NewString(), pattern: pattern, handler: h, priority: PriorityNormal}
	for _, opt := range opts {
		opt(s)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	s.seq = b.seq
	i := sort.Search(len(b.subs), func(i int) bool { return b.subs[i].priority > s.priority })
	b.subs = append(b.subs, nil)
	copy(b.subs[i+1:], b.subs[i:])
	b.subs[i] = s
	return s, nil
}

func (b *syncBus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

func (b *syncBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrUnknownSubscription
	}
	sub.Cancel()
	if !b.remove(sub.ID()) {
		return ErrUnknownSubscription
	}
	return nil
}

func (b *syncBus) remove(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// matching snapshots the subscriptions for ev so handlers may subscribe
// and unsubscribe while it is delivered.
func (b *syncBus) matching(t topic.Topic, ev any) []*subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*subscription
	for _, s := range b.subs {
		if s.wants(t, ev) {
			out = append(out, s)
		}
	}
	return out
}

func (b *syncBus) Publish(ctx context.Context, ev any) error {
	tp, ok := ev.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	// Events name one concrete topic; wildcards are for subscriptions.
	t := tp.EventTopic()
	if !t.IsValid() || t.IsPattern() {
		return ErrInvalidEvent
	}

	subs := b.matching(t, ev)
	if len(subs) == 0 {
		return nil
	}
	b.published.Add(1)

	for _, s := range subs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.once && !s.cancelled.CompareAndSwap(false, true) {
			continue
		}
		if err := b.deliver(ctx, t, ev, s); err != nil {
			if s.once {
				s.cancelled.Store(false)
			}
			b.fail(ev, err)
			continue
		}
		b.delivered.Add(1)
		if s.once {
			b.remove(s.id)
		}
	}
	return nil
}

func (b *syncBus) deliver(ctx context.Context, t topic.Topic, ev any, s *subscription) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &DeliveryError{Topic: t, Subscription: s.id, Err: ErrHandlerPanic, Recovered: r, Stack: debug.Stack()}
		}
	}()
	if herr := s.handler.Handle(ctx, ev); herr != nil {
		return &DeliveryError{Topic: t, Subscription: s.id, Err: herr}
	}
	return nil
}

func (b *syncBus) fail(ev any, err error) {
	if de, ok := err.(*DeliveryError); ok && de.Recovered != nil {
		b.panicked.Add(1)
	} else {
		b.failed.Add(1)
	}
	if b.onError != nil {
		b.onError(ev, err)
	}
}

func (b *syncBus) Stats() Stats {
	b.mu.RLock()
	n := 0
	for _, s := range b.subs {
		if !s.cancelled.Load() {
			n++
		}
	}
	b.mu.RUnlock()
	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		Failed:        b.failed.Load(),
		Panicked:      b.panicked.Load(),
		Subscriptions: n,
	}
}
