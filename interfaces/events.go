package interfaces

import "context"

// EventListener interface defines what all listeners must implement
type EventListener interface {
	Handle(ctx context.Context, baseEvent any) error
	GetEventType() string
	GetQueueName() string
}

// EventsPublisher publishes engine events to the message broker.
type EventsPublisher interface {
	PublishUnreadCountsUpdated(ctx context.Context, snapshot UnreadSnapshot) error
}
