// Package events broadcasts change notifications (table/field/row lifecycle)
// to the configured sinks with retries and a dead-letter store.
package events

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event is a change notification payload.
type Event struct {
	Name string    `json:"name" bson:"name"`
	Time time.Time `json:"time" bson:"time"`
	Data any       `json:"data" bson:"data"`
	ID   string    `json:"id" bson:"id"`
}

// Emitter is what handlers depend on; a nil *Dispatcher is a valid no-op
// Emitter so tests and event-less deployments need no wiring.
type Emitter interface {
	Emit(ctx context.Context, e Event)
}

// Sink publishes events to one destination.
type Sink interface {
	Send(ctx context.Context, e Event) error
}

// DLQ stores events that exhausted their retries.
type DLQ interface {
	Store(ctx context.Context, e Event, attempts int, lastErr string) error
}

// Dispatcher fans events out to all sinks with exponential backoff.
type Dispatcher struct {
	sinks        []Sink
	maxAttempts  int
	initialDelay time.Duration
	dlq          DLQ
}

// RetryConfig bounds the per-sink retry loop.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// NewDispatcher creates a dispatcher from sinks and retry config.
func NewDispatcher(cfg Config, dlq DLQ, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{maxAttempts: 3, initialDelay: time.Second}
	if cfg.Retry.MaxAttempts > 0 {
		d.maxAttempts = cfg.Retry.MaxAttempts
	}
	if cfg.Retry.InitialDelay > 0 {
		d.initialDelay = cfg.Retry.InitialDelay
	}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	d.dlq = dlq
	return d
}

// Emit sends the event to all sinks asynchronously. Safe on a nil receiver.
// Delivery is detached from ctx cancellation so writing the response does not
// abort in-flight sends.
func (d *Dispatcher) Emit(ctx context.Context, e Event) {
	if d == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, s := range d.sinks {
		sink := s
		go d.retrySend(ctx, sink, e)
	}
}

func (d *Dispatcher) retrySend(ctx context.Context, s Sink, e Event) {
	delay := d.initialDelay
	var err error
	for i := 1; i <= d.maxAttempts; i++ {
		if err = s.Send(ctx, e); err == nil {
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
	if d.dlq != nil {
		_ = d.dlq.Store(ctx, e, d.maxAttempts, err.Error())
	}
}

// MongoDLQ stores failed events in the events_failed collection.
type MongoDLQ struct {
	C *mongo.Collection
}

// Store inserts the failed event.
func (q *MongoDLQ) Store(ctx context.Context, e Event, attempts int, lastErr string) error {
	if q == nil || q.C == nil {
		return nil
	}
	_, err := q.C.InsertOne(ctx, bson.M{
		"event":     e,
		"attempts":  attempts,
		"lastError": lastErr,
		"failedAt":  time.Now().UTC(),
	})
	return err
}
