// Package events provides the in-process publish/subscribe primitives modules
// use to announce committed state changes, such as a participation becoming a
// lead, without importing each other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	// EventName identifies the event type; subscriptions key on it.
	EventName() string
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
}

// BaseEvent carries the fields shared by all events. Embed it and add the
// event's own payload.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps a base event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}

// Handler processes events of one event name.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function into a Handler.
type HandlerFunc func(ctx context.Context, event Event) error

// Handle calls the underlying function.
func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus publishes domain events to subscribed handlers.
type Bus interface {
	// Publish dispatches the event to every handler subscribed to its name.
	// Handlers run asynchronously; the publisher never blocks on them.
	Publish(ctx context.Context, event Event)

	// PublishSync dispatches the event and waits for every handler,
	// returning the first handler error.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe registers a handler for events matching eventName, which
	// must equal the value the event returns from EventName.
	Subscribe(eventName string, handler Handler)
}
