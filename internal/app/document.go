// Package app wires the concealment engine to a document: a line buffer, a
// tree provider, an overlay layer and the lifecycle signals that drive
// refreshes.
package app

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/concealer/internal/buffer"
	"github.com/dshills/concealer/internal/conceal"
	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/config"
	"github.com/dshills/concealer/internal/logging"
	"github.com/dshills/concealer/internal/norg"
	"github.com/dshills/concealer/internal/norg/query"
	"github.com/dshills/concealer/internal/preview"
	"github.com/dshills/concealer/internal/script"
	"github.com/dshills/concealer/internal/signal"
	"github.com/dshills/concealer/internal/syntax"
	"github.com/dshills/concealer/internal/syntax/treesitter"
)

// DefaultExtensions are the file types the engine conceals.
var DefaultExtensions = []string{".norg"}

// Options configures a Document.
type Options struct {
	// Rules is the rule table. Nil uses the built-in table.
	Rules *rule.Group

	// Config overrides the rule table and carries the legacy toggles.
	Config *config.Config

	// Scripts evaluates extract and render chunks from Config.
	Scripts *script.State

	// Grammar selects a tree-sitter grammar instead of the built-in Norg
	// parser.
	Grammar *sitter.Language

	// Extensions lists the file types that count as matching documents.
	// Empty uses DefaultExtensions.
	Extensions []string

	// ReadOnly prevents the engine from padding code-region rows.
	ReadOnly bool

	// LegacySetup installs the pattern conceals with the configured
	// toggles. It runs from the task queue after the first buffer-entered.
	LegacySetup func(toggles map[string]bool)

	Logger *logging.Logger
}

// Document is one open file with its concealment engine.
type Document struct {
	Path string
	Name string

	mu         sync.Mutex
	buffer     *buffer.Buffer
	layer      *overlay.Layer
	engine     *conceal.Engine
	dispatcher *signal.Dispatcher
	queue      *signal.Queue
	subs       []signal.Subscription
	matches    bool
	entered    bool
	readOnly   bool
	cursor     int
	closers    []func()
	closed     bool
	logger     *logging.Logger
}

// Open reads path and creates a Document for it.
func Open(path string, opts Options) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewOperationError("open", path, err)
	}
	return NewDocument(path, content, opts)
}

// NewDocument creates a Document over content. The cursor starts on no row.
func NewDocument(path string, content []byte, opts Options) (*Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	name := filepath.Base(path)
	if path == "" {
		name = "Untitled"
	}
	logger = logger.WithField("document", name)

	var bufOpts []buffer.Option
	if opts.ReadOnly {
		bufOpts = append(bufOpts, buffer.WithReadOnly())
	}
	buf := buffer.NewFromString(string(content), bufOpts...)

	d := &Document{
		Path:       path,
		Name:       name,
		buffer:     buf,
		layer:      overlay.NewLayer(buf),
		dispatcher: signal.NewDispatcher(logger),
		queue:      signal.NewQueue(),
		matches:    matchesType(path, opts.Extensions),
		readOnly:   opts.ReadOnly,
		cursor:     -1,
		logger:     logger,
	}

	rules := opts.Rules
	if rules == nil {
		rules = rule.Defaults(opts.Config.RuleOptions())
	}
	if err := config.Apply(rules, opts.Config, opts.Scripts); err != nil {
		logger.Warn("config: %v", err)
	}

	var (
		parser  syntax.Parser
		querier syntax.Querier
	)
	if opts.Grammar != nil {
		p := treesitter.NewParser(opts.Grammar, buf, logger)
		q := treesitter.NewQuerier(opts.Grammar)
		d.closers = append(d.closers, p.Close, q.Close)
		parser, querier = p, q
	} else {
		parser, querier = norg.NewParser(buf), query.NewQuerier()
	}

	var legacy func()
	if opts.LegacySetup != nil {
		var toggles map[string]bool
		if opts.Config != nil {
			toggles = opts.Config.Legacy
		}
		legacy = func() { opts.LegacySetup(toggles) }
	}

	eng, err := conceal.New(conceal.Config{
		Rules:       rules,
		Parser:      parser,
		Querier:     querier,
		Buffer:      buf,
		Overlays:    d.layer,
		Scheduler:   d.queue,
		LegacySetup: legacy,
		Logger:      logger,
	})
	if err != nil {
		d.close()
		return nil, NewOperationError("create engine", name, err)
	}
	d.engine = eng

	subs, err := conceal.Attach(d.dispatcher, eng, name)
	if err != nil {
		d.close()
		return nil, NewOperationError("attach", name, err)
	}
	d.subs = subs
	return d, nil
}

func matchesType(path string, exts []string) bool {
	if path == "" {
		return true
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// Enter signals that the document was entered, runs the tasks that were
// deferred to the next tick and paints the volatile overlays. Documents of
// another type stay unconcealed: later edits and cursor moves are not
// signalled for them.
func (d *Document) Enter(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}

	err := d.dispatcher.Publish(ctx, signal.TopicBufferEntered,
		signal.BufferEntered{BufferID: d.Name, Matches: d.matches})
	if n := d.queue.Drain(); n > 0 {
		d.logger.Debug("ran %d deferred tasks", n)
	}
	if err != nil {
		return err
	}
	d.entered = d.matches
	return d.publishCursor(ctx)
}

// SetText replaces the content and signals the change.
func (d *Document) SetText(ctx context.Context, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	if err := d.buffer.SetText(text); err != nil {
		return NewOperationError("edit", d.Name, err)
	}
	return d.textChanged(ctx)
}

// Reload reads the file again. Reloads ignore the read-only flag.
func (d *Document) Reload(ctx context.Context) error {
	content, err := os.ReadFile(d.Path)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.buffer.SetReadOnly(false)
	err = d.buffer.SetText(string(content))
	d.buffer.SetReadOnly(d.readOnly)
	if err != nil {
		return NewOperationError("reload", d.Path, err)
	}
	return d.textChanged(ctx)
}

func (d *Document) textChanged(ctx context.Context) error {
	if d.cursor >= d.buffer.LineCount() {
		d.cursor = d.buffer.LineCount() - 1
	}
	if !d.entered {
		return nil
	}
	if err := d.dispatcher.Publish(ctx, signal.TopicTextChanged,
		signal.TextChanged{BufferID: d.Name, Mode: signal.ModeNormal}); err != nil {
		return err
	}
	return d.publishCursor(ctx)
}

// MoveCursor places the cursor on row, clamped to the document. A row of -1
// removes the cursor.
func (d *Document) MoveCursor(row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.cursor = max(-1, min(row, d.buffer.LineCount()-1))
	if err := d.publishCursor(context.Background()); err != nil {
		d.logger.Warn("cursor moved: %v", err)
	}
}

func (d *Document) publishCursor(ctx context.Context) error {
	if !d.entered {
		return nil
	}
	return d.dispatcher.Publish(ctx, signal.TopicCursorMoved,
		signal.CursorMoved{BufferID: d.Name, Mode: signal.ModeNormal, Row: d.cursor})
}

// Cursor returns the cursor row, or -1.
func (d *Document) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// Text returns the buffer content.
func (d *Document) Text() string { return d.buffer.Text() }

// Engine returns the concealment engine.
func (d *Document) Engine() *conceal.Engine { return d.engine }

// Dispatcher returns the signal dispatcher the engine listens on.
func (d *Document) Dispatcher() *signal.Dispatcher { return d.dispatcher }

// Overlays returns the active overlays of ns in position order.
func (d *Document) Overlays(ns overlay.Namespace) []overlay.Overlay {
	return d.layer.All(ns)
}

// Frame returns the lines, active overlays and cursor row.
func (d *Document) Frame() preview.Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return preview.Frame{
		Lines:    d.buffer.Lines(0, d.buffer.LineCount()),
		Overlays: append(d.layer.All(overlay.Persistent), d.layer.All(overlay.Volatile)...),
		Cursor:   d.cursor,
	}
}

// Render composes the document with its overlays as plain text.
func (d *Document) Render(width int) string {
	return preview.PlainText(preview.Compose(d.Frame(), nil, width))
}

// Close detaches the engine and releases the tree provider.
func (d *Document) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.close()
}

func (d *Document) close() {
	if d.closed {
		return
	}
	d.closed = true
	for _, s := range d.subs {
		d.dispatcher.Unsubscribe(s)
	}
	for _, fn := range d.closers {
		fn()
	}
}
