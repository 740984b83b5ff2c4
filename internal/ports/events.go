package ports

import "context"

// EventPublisher is the outbound notification publish port. The application
// never calls it directly; the outbox worker drains enqueued events through
// it so a slow or failing channel can never block generation or redemption.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload []byte) error
}
