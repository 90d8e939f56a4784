// Package publisher emits registry events to a store and optional sinks.
// Synchronous by default; an async buffer can absorb bursts, draining fully
// on Close.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"namereg/internal/events"
)

// Publisher fans registry events out to a store and any configured sinks.
type Publisher struct {
	store  events.Store
	sinks  []events.Sink
	logger *slog.Logger

	inbox chan events.Event
	wg    sync.WaitGroup
	once  sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to asynchronous delivery with the
// given buffer size. When the buffer is full events are dropped rather than
// blocking the emitting operation.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan events.Event, size)
	}
}

// WithSink adds an external delivery sink.
func WithSink(sink events.Sink) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

// WithLogger sets the logger used for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// NewPublisher creates a publisher writing to store.
func NewPublisher(store events.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records an event. Missing IDs and timestamps are filled in; delivery
// failures are logged, never propagated to the emitting operation.
func (p *Publisher) Emit(ctx context.Context, event events.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if p.inbox == nil {
		p.deliver(ctx, event)
		return nil
	}

	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("event buffer full, dropping event", "type", event.Type)
	}
	return nil
}

// List reads back stored events, mainly for tests and admin inspection.
func (p *Publisher) List(ctx context.Context, eventType events.Type) ([]events.Event, error) {
	return p.store.List(ctx, eventType)
}

// Close drains any buffered events and closes the sinks.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
		for _, sink := range p.sinks {
			sink.Close()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event events.Event) {
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("event store append failed", "type", event.Type, "error", err)
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			p.logger.Error("event sink publish failed", "type", event.Type, "error", err)
		}
	}
}
