// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	CreatedEvent    EventType = "created"
	UpdatedEvent    EventType = "updated"
	DeletedEvent    EventType = "deleted"
	NormalizedEvent EventType = "normalized"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}

// Forward calls fn for every event from s until ctx is cancelled or the
// subscription closes. It blocks; run it in its own goroutine.
func Forward[T any](ctx context.Context, s Subscriber[T], fn func(Event[T])) {
	ch := s.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			fn(ev)
		}
	}
}
