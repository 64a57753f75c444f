package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReportsTrackedFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.norg")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(target, []byte("* a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(20*time.Millisecond, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if err := w.Add(target); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events := make(chan Event, 16)
	go func() {
		_ = w.Run(ctx, func(ev Event) { events <- ev })
	}()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("* b\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Path != target {
			t.Errorf("event path = %s, want %s", ev.Path, target)
		}
		if !ev.Op.Has(OpWrite) && !ev.Op.Has(OpCreate) {
			t.Errorf("event op = %b, want a write", ev.Op)
		}
	case <-ctx.Done():
		t.Fatal("no event for the tracked file")
	}
}

func TestAddAfterClose(t *testing.T) {
	w, err := New(0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := w.Add("x"); err != ErrClosed {
		t.Errorf("Add() after Close error = %v, want ErrClosed", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOpHas(t *testing.T) {
	op := OpCreate | OpWrite
	if !op.Has(OpWrite) || op.Has(OpRemove) {
		t.Errorf("Has() mismatch for %b", op)
	}
}
