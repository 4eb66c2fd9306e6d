package kafka

import "context"

// Publisher sends events to a topic. *Producer is the Kafka implementation.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
}

// NoopPublisher drops every event. It stands in for Kafka when publishing is disabled.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, string, *Event) error { return nil }

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = NoopPublisher{}
)
