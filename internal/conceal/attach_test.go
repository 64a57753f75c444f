package conceal

import (
	"context"
	"testing"

	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/signal"
	"github.com/dshills/concealer/internal/syntax/syntaxtest"
)

func TestAttach(t *testing.T) {
	f := newFixture(t, "* a\n*b* c", rule.Defaults(rule.Options{}))
	f.querier.
		On("(heading1_prefix) @icon", "icon", syntaxtest.At("heading1_prefix", "* ", 0, 0)).
		On("(bold) @icon", "icon", syntaxtest.At("bold", "*b*", 1, 0))

	d := signal.NewDispatcher(nil)
	subs, err := Attach(d, f.engine, "buf-1")
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if len(subs) != 3 {
		t.Errorf("len(subs) = %d, want 3", len(subs))
	}
	ctx := context.Background()

	_ = d.Publish(ctx, signal.TopicBufferEntered, signal.BufferEntered{BufferID: "other", Matches: true})
	if f.layer.Count(overlay.Persistent) != 0 {
		t.Error("signal for another buffer was handled")
	}

	_ = d.Publish(ctx, signal.TopicBufferEntered, signal.BufferEntered{BufferID: "buf-1", Matches: true})
	if f.layer.Count(overlay.Persistent) != 1 {
		t.Errorf("Count(Persistent) = %d after buffer-entered, want 1", f.layer.Count(overlay.Persistent))
	}

	_ = d.Publish(ctx, signal.TopicCursorMoved, signal.CursorMoved{BufferID: "buf-1", Row: 0})
	if f.layer.Count(overlay.Volatile) != 1 {
		t.Errorf("Count(Volatile) = %d, want 1", f.layer.Count(overlay.Volatile))
	}

	_ = d.Publish(ctx, signal.TopicCursorMoved, signal.CursorMoved{BufferID: "buf-1", Mode: signal.ModeInsert, Row: 1})
	if f.layer.Count(overlay.Volatile) != 0 {
		t.Errorf("Count(Volatile) = %d with cursor on the markup row, want 0", f.layer.Count(overlay.Volatile))
	}

	f.querier.Results = nil
	_ = d.Publish(ctx, signal.TopicTextChanged, signal.TextChanged{BufferID: "buf-1"})
	if f.layer.Count(overlay.Persistent) != 0 {
		t.Error("text-changed did not rebuild the persistent namespace")
	}
}
