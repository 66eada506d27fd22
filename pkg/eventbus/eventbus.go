// Package eventbus defines the publishing contract for domain events.
//
// Publication happens after the financial transaction commits, so the
// contract is fire-and-forget, at-least-once: a publish failure is the
// publisher's problem to log or retry, never a reason to roll back the
// committed transition. Consumers must deduplicate.
package eventbus

import (
	"context"

	"github.com/fundflow/fundflow/pkg/domain/events"
)

// HandlerFunc is a subscriber callback for a single event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// EventBus defines the contract for publishing and subscribing to
// domain events.
type EventBus interface {
	Publish(ctx context.Context, event events.Event) error
	Subscribe(eventType string, handler HandlerFunc)
}
