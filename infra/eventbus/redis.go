package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fundflow/fundflow/pkg/domain/events"
	"github.com/fundflow/fundflow/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus implements the event bus on Redis Streams with a
// consumer group. Delivery is at-least-once: events that were published
// but not acknowledged are redelivered, and consumers must deduplicate
// (each event carries a unique EventID for that purpose). Events whose
// handler fails or whose type is unknown go to a DLQ stream.
type RedisEventBus struct {
	client        *redis.Client
	stream        string
	group         string
	typeFactories map[string]func() events.Event
	logger        *slog.Logger

	// ctx governs every consumer goroutine; Close cancels it and waits
	// for them to drain before closing the client.
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379")
// stream: name of the Redis stream to use
// group: consumer group name for event processing
func NewWithRedis(url, stream, group string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" || stream == "" || group == "" {
		return nil, fmt.Errorf("redis event bus: url, stream, and group are required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &RedisEventBus{
		client:        client,
		stream:        stream,
		group:         group,
		typeFactories: events.EventTypes,
		logger:        logger.With("component", "redis-event-bus"),
		ctx:           ctx,
		cancel:        cancel,
	}

	// Initialize stream and consumer group; exists-already errors are benign.
	_ = client.XGroupCreateMkStream(context.Background(), stream, group, "0")
	return bus, nil
}

// Publish appends an event to the Redis stream.
func (b *RedisEventBus) Publish(ctx context.Context, event events.Event) error {
	if b.client == nil {
		return fmt.Errorf("redis event bus: client not initialized")
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis event bus: marshal failed: %w", err)
	}
	envBytes, err := json.Marshal(envelope{Type: event.Type(), Payload: data})
	if err != nil {
		return fmt.Errorf("redis event bus: envelope marshal failed: %w", err)
	}

	if _, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		Values: map[string]any{"event": string(envBytes)},
	}).Result(); err != nil {
		return fmt.Errorf("redis event bus: publish failed: %w", err)
	}

	b.logger.Debug("event published", "type", event.Type())
	return nil
}

// Subscribe starts a consumer for the stream and group, calling handler
// for each event of the given type. The consumer runs until Close.
func (b *RedisEventBus) Subscribe(eventType string, handler eventbus.HandlerFunc) {
	consumer := fmt.Sprintf("consumer-%s-%d", eventType, time.Now().UnixNano())
	b.logger.Info("registering handler", "event_type", eventType, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			select {
			case <-b.ctx.Done():
				return
			default:
			}

			res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
				Group:    b.group,
				Consumer: consumer,
				Streams:  []string{b.stream, ">"},
				Count:    1,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				if !errors.Is(err, redis.Nil) {
					b.logger.Error("error reading from stream", "error", err, "consumer", consumer)
				}
				select {
				case <-b.ctx.Done():
					return
				case <-time.After(time.Second):
				}
				continue
			}

			for _, stream := range res {
				for _, msg := range stream.Messages {
					b.dispatch(b.ctx, eventType, handler, msg)
				}
			}
		}
	}()
}

// Close stops all consumer goroutines and closes the Redis client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func (b *RedisEventBus) dispatch(
	ctx context.Context,
	eventType string,
	handler eventbus.HandlerFunc,
	msg redis.XMessage,
) {
	raw, ok := msg.Values["event"].(string)
	if !ok {
		return
	}

	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		b.logger.Error("failed to unmarshal envelope", "error", err)
		return
	}
	if env.Type != eventType {
		return
	}

	constructor, ok := b.typeFactories[env.Type]
	if !ok {
		b.logger.Error("unknown event type", "event_type", env.Type)
		b.pushToDLQ(ctx, msg.Values)
		return
	}
	evt := constructor()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		b.logger.Error("failed to unmarshal payload", "error", err, "event_type", env.Type)
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("handler panic recovered", "panic", r, "event_type", env.Type)
				b.pushToDLQ(ctx, msg.Values)
			}
		}()
		if err := handler(ctx, evt); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", env.Type)
			b.pushToDLQ(ctx, msg.Values)
		}
	}()

	if err := b.client.XAck(ctx, b.stream, b.group, msg.ID).Err(); err != nil {
		b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
	}
}

// pushToDLQ pushes the raw event to a DLQ stream for inspection or
// reprocessing.
func (b *RedisEventBus) pushToDLQ(ctx context.Context, values map[string]any) {
	dlqStream := b.stream + "-DLQ"
	if _, err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: dlqStream,
		Values: values,
	}).Result(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
	} else {
		b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
	}
}

var _ eventbus.EventBus = (*RedisEventBus)(nil)
