// Package event provides the notification bus of the page editor.
//
// Commands tell the rest of the application that the document changed by
// publishing typed events; the menu, the terminal view, the logger and
// scripts subscribe to the topics they care about. Publishers and
// subscribers never reference each other.
//
// # Topics
//
// Events use hierarchical topics with dot notation (see package topic):
//
//	page.sections.changed   - the section order or a section changed
//	page.config.changed     - a configuration patch was applied
//	config.changed          - the application configuration was reloaded
//
// Subscriptions may use "*" (one segment) and "**" (any number of segments).
//
// # Delivery
//
// Delivery is synchronous: Publish runs every matching handler in the
// caller's goroutine, ordered by Priority and then by subscription order,
// before returning. A handler that returns an error or panics does not stop
// delivery to the others, and the failure is reported to the bus's
// ErrorHandler instead of the publisher.
//
// # Usage
//
//	bus := event.NewBus(event.WithErrorHandler(logFailure))
//	sub := event.NewSubscriber(bus)
//	event.SubscribePayload(sub, events.TopicSectionsChanged,
//	    func(ctx context.Context, p events.SectionsChanged) error {
//	        return menu.Refresh(p.Sections)
//	    })
//
//	pub := event.NewPublisher(bus, "command")
//	event.PublishEvent(ctx, pub, events.TopicSectionsChanged, payload)
package event
