// Package watch reports changes to individual files using fsnotify.
//
// The parent directory of each file is watched rather than the file itself
// so editors that save through rename-and-replace keep being tracked.
// Bursts of events for one file are coalesced.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/concealer/internal/logging"
)

// DefaultDelay is the coalescing window for a burst of events.
const DefaultDelay = 50 * time.Millisecond

// ErrClosed is returned when using a closed watcher.
var ErrClosed = errors.New("watcher closed")

// Op is a set of file operations.
type Op uint32

// Operations.
const (
	OpCreate Op = 1 << iota
	OpWrite
	OpRemove
	OpRename
)

// Has reports whether op contains other.
func (op Op) Has(other Op) bool { return op&other != 0 }

// Event is a coalesced change to a watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher tracks a set of files.
type Watcher struct {
	fs     *fsnotify.Watcher
	delay  time.Duration
	logger *logging.Logger

	mu      sync.Mutex
	targets map[string]bool
	dirs    map[string]bool
	closed  bool
}

// New creates a watcher. A non-positive delay uses DefaultDelay.
func New(delay time.Duration, logger *logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Watcher{
		fs:      fsw,
		delay:   delay,
		logger:  logger.WithComponent("watch"),
		targets: make(map[string]bool),
		dirs:    make(map[string]bool),
	}, nil
}

// Add starts tracking path.
func (w *Watcher) Add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = true
	return nil
}

// Run delivers events to fn until ctx is done or the watcher is closed.
// fn runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, fn func(Event)) error {
	pending := make(map[string]Op)
	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return ErrClosed
			}
			op := convertOp(ev.Op)
			if op == 0 || !w.tracks(ev.Name) {
				continue
			}
			pending[filepath.Clean(ev.Name)] |= op
			timer.Reset(w.delay)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return ErrClosed
			}
			w.logger.Warn("watch error: %v", err)

		case <-timer.C:
			for path, op := range pending {
				fn(Event{Path: path, Op: op})
				delete(pending, path)
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fs.Close()
}

func (w *Watcher) tracks(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.targets[abs]
}

func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}
