// Package eventbus provides event bus implementations: an in-memory bus
// for tests and single-process deployments, and a Redis Streams bus for
// durable at-least-once delivery.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of the EventBus
// interface. It records every published event, which test code inspects
// to assert the one-event-per-transition contract.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *MemoryEventBus) Subscribe(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish dispatches the event to all registered handlers for its type.
// Handler errors are logged, not returned: delivery is fire-and-forget.
func (b *MemoryEventBus) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := b.handlers[event.Type()]
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("event handler failed",
				"event_type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns the list of published events, for tests.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]events.Event, len(b.published))
	copy(out, b.published)
	return out
}

// ClearPublished clears the list of published events, for tests.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = nil
}

var _ eventbus.EventBus = (*MemoryEventBus)(nil)
