package logging

import (
	"context"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Clock supplies event timestamps
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function into a Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// Sink is an event destination
type Sink interface {
	Write(Event) error
	Close(context.Context) error
}

// NamedSink pairs a sink with the name used in config and lookups
type NamedSink struct {
	Name string
	Sink Sink
}

// Config controls router buffering and filtering
type Config struct {
	BufferSize      int
	MinimumSeverity Severity
	Fields          map[string]any
}

// DefaultConfig returns an info-level router config
func DefaultConfig() Config {
	return Config{
		BufferSize:      512,
		MinimumSeverity: SeverityInfo,
	}
}

// Router fans published events out to sinks on background goroutines
// Publish never blocks; events are dropped when the queue is full
type Router struct {
	queue       chan Event
	sinks       []*sinkWorker
	clock       Clock
	fallback    *log.Logger
	minSeverity Severity
	fields      map[string]any

	closed atomic.Bool
	stop   chan struct{}
	wg     sync.WaitGroup

	eventsTotal  atomic.Uint64
	droppedTotal atomic.Uint64
}

// RouterStats reports delivery counters
type RouterStats struct {
	EventsTotal  uint64
	DroppedTotal uint64
}

// NewRouter starts a router over the given sinks
func NewRouter(clock Clock, cfg Config, namedSinks []NamedSink) *Router {
	if clock == nil {
		clock = ClockFunc(time.Now)
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 512
	}
	r := &Router{
		queue:       make(chan Event, size),
		clock:       clock,
		fallback:    log.New(os.Stderr, "[logging] ", log.LstdFlags),
		minSeverity: cfg.MinimumSeverity,
		fields:      cloneMap(cfg.Fields),
		stop:        make(chan struct{}),
	}
	for _, named := range namedSinks {
		if named.Sink == nil {
			continue
		}
		r.sinks = append(r.sinks, &sinkWorker{
			name:     named.Name,
			sink:     named.Sink,
			events:   make(chan Event, size),
			fallback: r.fallback,
		})
	}

	r.wg.Add(1)
	go r.dispatch()
	for _, w := range r.sinks {
		r.wg.Add(1)
		go func(w *sinkWorker) {
			defer r.wg.Done()
			w.run()
		}(w)
	}
	return r
}

func (r *Router) dispatch() {
	defer func() {
		for _, w := range r.sinks {
			close(w.events)
		}
		r.wg.Done()
	}()
	for {
		select {
		case <-r.stop:
			// Drain what was queued before Close
			for {
				select {
				case event := <-r.queue:
					r.forward(event)
				default:
					return
				}
			}
		case event := <-r.queue:
			r.forward(event)
		}
	}
}

func (r *Router) forward(event Event) {
	if event.Severity < r.minSeverity {
		return
	}
	if event.Time.IsZero() {
		event.Time = r.clock.Now()
	}
	event = mergeFields(event, r.fields)
	r.eventsTotal.Add(1)
	for _, w := range r.sinks {
		w.enqueue(event)
	}
}

// Publish implements Publisher
func (r *Router) Publish(_ context.Context, event Event) {
	if event.Type == "" || r.closed.Load() {
		return
	}
	select {
	case r.queue <- event:
	default:
		r.droppedTotal.Add(1)
	}
}

// Close flushes queued events and closes every sink
func (r *Router) Close(ctx context.Context) error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(r.stop)

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	var firstErr error
	for _, w := range r.sinks {
		if err := w.sink.Close(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stats returns delivery counters
func (r *Router) Stats() RouterStats {
	return RouterStats{
		EventsTotal:  r.eventsTotal.Load(),
		DroppedTotal: r.droppedTotal.Load(),
	}
}

// Sink looks up a sink by name
func (r *Router) Sink(name string) Sink {
	for _, w := range r.sinks {
		if w.name == name {
			return w.sink
		}
	}
	return nil
}

type sinkWorker struct {
	name     string
	sink     Sink
	events   chan Event
	fallback *log.Logger
}

func (w *sinkWorker) enqueue(event Event) {
	select {
	case w.events <- event.Clone():
	default:
		w.fallback.Printf("sink %s backlog full, dropping %s", w.name, event.Type)
	}
}

func (w *sinkWorker) run() {
	for event := range w.events {
		if err := w.sink.Write(event); err != nil {
			w.fallback.Printf("sink %s failed: %v", w.name, err)
		}
	}
}
