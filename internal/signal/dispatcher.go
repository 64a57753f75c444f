package signal

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dshills/concealer/internal/logging"
)

// Dispatcher errors.
var (
	// ErrInvalidTopic indicates an empty or malformed topic.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrHandlerPanic indicates a handler panicked during delivery.
	ErrHandlerPanic = errors.New("handler panicked")

	// ErrNilHandler indicates a nil handler was subscribed.
	ErrNilHandler = errors.New("nil handler")
)

// Signal is a published topic with its payload.
type Signal struct {
	Topic   Topic
	Payload any
}

// HandlerFunc handles a signal.
type HandlerFunc func(ctx context.Context, sig Signal) error

// Subscription identifies a registered handler.
type Subscription uint64

type subscriber struct {
	id      Subscription
	pattern Topic
	fn      HandlerFunc
}

// Stats reports delivery counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Failed    uint64
	Panicked  uint64
}

// Dispatcher delivers signals synchronously to matching subscribers.
type Dispatcher struct {
	mu     sync.RWMutex
	subs   []subscriber
	nextID Subscription
	logger *logging.Logger

	published atomic.Uint64
	delivered atomic.Uint64
	failed    atomic.Uint64
	panicked  atomic.Uint64
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{logger: logger.WithComponent("signal")}
}

// Subscribe registers fn for topics matching pattern.
func (d *Dispatcher) Subscribe(pattern Topic, fn HandlerFunc) (Subscription, error) {
	if !pattern.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTopic, pattern)
	}
	if fn == nil {
		return 0, ErrNilHandler
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.subs = append(d.subs, subscriber{id: d.nextID, pattern: pattern, fn: fn})
	return d.nextID, nil
}

// Unsubscribe removes a handler. It reports whether the subscription existed.
func (d *Dispatcher) Unsubscribe(id Subscription) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish delivers payload to every handler subscribed to a matching
// pattern and returns the joined handler errors.
func (d *Dispatcher) Publish(ctx context.Context, t Topic, payload any) error {
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTopic, t)
	}
	d.published.Add(1)

	d.mu.RLock()
	targets := make([]subscriber, 0, len(d.subs))
	for _, s := range d.subs {
		if t.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	d.mu.RUnlock()

	sig := Signal{Topic: t, Payload: payload}
	var errs []error
	for _, s := range targets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := d.deliver(ctx, s, sig); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) deliver(ctx context.Context, s subscriber, sig Signal) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.panicked.Add(1)
			d.logger.Error("handler for %s panicked: %v\n%s", sig.Topic, r, debug.Stack())
			err = fmt.Errorf("%w: %s: %v", ErrHandlerPanic, sig.Topic, r)
		}
	}()

	if err := s.fn(ctx, sig); err != nil {
		d.failed.Add(1)
		return fmt.Errorf("handling %s: %w", sig.Topic, err)
	}
	d.delivered.Add(1)
	return nil
}

// Stats returns delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Published: d.published.Load(),
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Panicked:  d.panicked.Load(),
	}
}
