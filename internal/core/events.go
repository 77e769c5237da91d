package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"academycore/pkg/domain"
)

// EventType names a domain event published by the mutation API.
type EventType string

// Domain events.
const (
	EventPaymentCreated EventType = "payment.created"
	EventPaymentUpdated EventType = "payment.updated"
)

// Event is something that happened as the result of a mutation.
type Event interface {
	EventType() EventType
	OccurredAt() time.Time
	AggregateID() string
}

// BaseEvent carries the fields common to all events.
type BaseEvent struct {
	Type      EventType
	Timestamp time.Time
	Aggregate string
}

func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.Aggregate }

// PaymentCreated is published after a payment is appended.
type PaymentCreated struct {
	BaseEvent
	Payment domain.Payment
}

// PaymentUpdated is published after a payment is patched, with the stored
// value before and after the patch.
type PaymentUpdated struct {
	BaseEvent
	Before domain.Payment
	After  domain.Payment
}

// EventHandler reacts to a published event.
type EventHandler func(ctx context.Context, event Event) error

// ErrEventBusClosed is returned when publishing or subscribing after Close.
var ErrEventBusClosed = errors.New("event bus is closed")

// EventBus delivers events synchronously: Publish returns only after every
// handler has run, in subscription order, so effects of a mutation are in
// the store before the mutation returns.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[EventType][]EventHandler
	allHandlers []EventHandler
	logger      *slog.Logger
	closed      bool
}

// NewEventBus creates an empty bus.
func NewEventBus(logger *slog.Logger) *EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
		logger:   logger,
	}
}

// Subscribe registers a handler for one event type.
func (b *EventBus) Subscribe(eventType EventType, handler EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("subscribed handler", "event_type", eventType)
	return nil
}

// SubscribeAll registers a handler for every event.
func (b *EventBus) SubscribeAll(handler EventHandler) error {
	if handler == nil {
		return errors.New("handler cannot be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrEventBusClosed
	}
	b.allHandlers = append(b.allHandlers, handler)
	return nil
}

// Publish runs every matching handler. Handler failures are logged and
// returned joined; they never stop the remaining handlers.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrEventBusClosed
	}
	handlers := make([]EventHandler, 0, len(b.handlers[event.EventType()])+len(b.allHandlers))
	handlers = append(handlers, b.handlers[event.EventType()]...)
	handlers = append(handlers, b.allHandlers...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("handler error", "event_type", event.EventType(), "aggregate_id", event.AggregateID(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close stops the bus from accepting subscriptions and events.
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.handlers = make(map[EventType][]EventHandler)
	b.allHandlers = nil
}
