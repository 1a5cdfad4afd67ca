package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"agency-cms/internal/shared/logger"
)

// EventBusInterface is what publishers and subscribers depend on
type EventBusInterface interface {
	Subscribe(eventType string, handler Handler)
	Publish(ctx context.Context, event Event) error
	PublishAndForget(ctx context.Context, event Event)
}

// EventBus delivers events to in-process subscribers
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	inflight sync.WaitGroup
	log      logger.Logger

	retries int
	backoff time.Duration
}

// Option tunes an EventBus
type Option func(*EventBus)

// WithRetries retries a failing handler n more times, waiting backoff between attempts
func WithRetries(n int, backoff time.Duration) Option {
	return func(b *EventBus) {
		b.retries = n
		b.backoff = backoff
	}
}

// NewEventBus creates a bus. Handlers are retried twice by default.
func NewEventBus(log logger.Logger, opts ...Option) *EventBus {
	if log == nil {
		log = logger.NewNop()
	}
	b := &EventBus{
		handlers: make(map[string][]Handler),
		log:      log.WithComponent("eventbus"),
		retries:  2,
		backoff:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe adds a handler for eventType
func (b *EventBus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

// SubscriberCount returns the number of handlers for eventType
func (b *EventBus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Publish runs every handler for the event in order. A failing handler does not stop the others;
// all failures are returned together.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type()]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range handlers {
		if err := b.deliver(ctx, event, h); err != nil {
			b.log.Errorf("handler %d for %s failed: %v", i, event.Type(), err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishAndForget publishes in the background; Wait blocks until those deliveries finish
func (b *EventBus) PublishAndForget(ctx context.Context, event Event) {
	b.inflight.Add(1)
	go func() {
		defer b.inflight.Done()
		_ = b.Publish(ctx, event)
	}()
}

// Wait blocks until every PublishAndForget delivery has finished
func (b *EventBus) Wait() {
	b.inflight.Wait()
}

func (b *EventBus) deliver(ctx context.Context, event Event, h Handler) error {
	var err error
	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
			case <-time.After(b.backoff):
			}
		}
		if err = call(ctx, event, h); err == nil {
			return nil
		}
	}
	return fmt.Errorf("gave up after %d attempts: %w", b.retries+1, err)
}

// call runs h, turning a panic into an error
func call(ctx context.Context, event Event, h Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s handler: %v", event.Type(), r)
		}
	}()
	return h(ctx, event)
}
