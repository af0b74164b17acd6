// Package events fans out change notifications to in-process listeners and
// an optional external broker (Redis pub/sub or NATS).
package events

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// Publisher defines the interface for sending change events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(ctx context.Context, e Event) error

// Publish calls f
func (f PublisherFunc) Publish(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Subscriber receives events published by other processes. Subscribe blocks
// until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event)) error
}

// Nop discards every event
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout delivers each event to every sink, stamping sequence and timestamp
// first. All sinks are tried; their errors are joined.
type Fanout struct {
	sinks    []Publisher
	sequence atomic.Int64
	instance string
	now      func() time.Time
}

// NewFanout creates a fan-out over sinks, nil sinks are skipped
func NewFanout(sinks ...Publisher) *Fanout {
	f := &Fanout{now: time.Now}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// Add registers another sink
func (f *Fanout) Add(p Publisher) {
	if p != nil {
		f.sinks = append(f.sinks, p)
	}
}

// WithInstance makes the fan-out tag events with the id of this process so
// subscribers can skip their own events
func (f *Fanout) WithInstance(id string) *Fanout {
	f.instance = id
	return f
}

// Publish stamps the event and delivers it to all sinks
func (f *Fanout) Publish(ctx context.Context, e Event) error {
	e.SequenceID = f.sequence.Add(1)
	if e.Timestamp.IsZero() {
		e.Timestamp = f.now().UTC()
	}
	if e.Instance == "" {
		e.Instance = f.instance
	}

	var errs []error
	for _, s := range f.sinks {
		if err := s.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compile-time verification of the implementations
var (
	_ Publisher = Nop{}
	_ Publisher = (*Fanout)(nil)
	_ Publisher = PublisherFunc(nil)
)
