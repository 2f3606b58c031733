package services

import "context"

// EventPublisher delivers domain events to an external notifier. Publishing
// happens strictly after the originating transaction commits; a delivery
// failure is logged and never rolls back a ledger mutation.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
