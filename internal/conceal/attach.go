package conceal

import (
	"context"

	"github.com/dshills/concealer/internal/signal"
)

// Attach subscribes e to the lifecycle topics of d for bufferID. Signals
// for other buffers are ignored; an empty bufferID accepts every buffer.
// Handlers never return errors: concealment failures are only logged.
func Attach(d *signal.Dispatcher, e *Engine, bufferID string) ([]signal.Subscription, error) {
	handlers := []struct {
		topic signal.Topic
		fn    signal.HandlerFunc
	}{
		{signal.TopicBufferEntered, func(_ context.Context, s signal.Signal) error {
			p, ok := s.Payload.(signal.BufferEntered)
			if ok && accepts(bufferID, p.BufferID) {
				e.logReport(e.BufferEntered(p.Matches))
			}
			return nil
		}},
		{signal.TopicTextChanged, func(_ context.Context, s signal.Signal) error {
			p, ok := s.Payload.(signal.TextChanged)
			if ok && accepts(bufferID, p.BufferID) {
				e.logReport(e.TextChanged())
			}
			return nil
		}},
		{signal.TopicCursorMoved, func(_ context.Context, s signal.Signal) error {
			p, ok := s.Payload.(signal.CursorMoved)
			if ok && accepts(bufferID, p.BufferID) {
				e.logReport(e.CursorMoved(p.Row))
			}
			return nil
		}},
	}

	subs := make([]signal.Subscription, 0, len(handlers))
	for _, h := range handlers {
		id, err := d.Subscribe(h.topic, h.fn)
		if err != nil {
			for _, s := range subs {
				d.Unsubscribe(s)
			}
			return nil, err
		}
		subs = append(subs, id)
	}
	return subs, nil
}

func accepts(want, got string) bool {
	return want == "" || want == got
}

func (e *Engine) logReport(r PassReport) {
	e.logger.Debug("%s pass: %d rules, %d matches, %d applied, %d suppressed, %d errors",
		r.Namespace, r.Rules, r.Matches, r.Applied, r.Suppressed, len(r.Errors))
}
