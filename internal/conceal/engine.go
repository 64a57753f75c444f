package conceal

import (
	"errors"
	"fmt"

	"github.com/dshills/concealer/internal/conceal/match"
	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/place"
	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/logging"
	"github.com/dshills/concealer/internal/signal"
	"github.com/dshills/concealer/internal/syntax"
)

// ErrBusy is recorded when a signal arrives while a pass is running.
var ErrBusy = errors.New("refresh already in progress")

// Config wires an Engine to its collaborators.
type Config struct {
	// Rules is the rule table. It is resolved once, in New.
	Rules *rule.Group

	Parser   syntax.Parser
	Querier  syntax.Querier
	Buffer   match.Buffer
	Overlays overlay.Primitive

	// Scheduler receives LegacySetup on the first matching buffer-entered
	// signal. When nil, LegacySetup runs inline.
	Scheduler   signal.Scheduler
	LegacySetup func()

	Logger       *logging.Logger
	OnTransition TransitionFunc
}

// Engine is the concealment context of one document: its resolved rules,
// its two overlay namespaces and the refresh controller driving them.
// It is not safe for concurrent use; hosts deliver signals serially.
type Engine struct {
	rules rule.Set

	parser  syntax.Parser
	buffer  match.Buffer
	matcher *match.Engine
	store   *overlay.Store

	scheduler    signal.Scheduler
	legacy       func()
	legacyPosted bool

	state        State
	onTransition TransitionFunc
	logger       *logging.Logger
}

// New resolves cfg.Rules and creates an Engine.
func New(cfg Config) (*Engine, error) {
	switch {
	case cfg.Parser == nil:
		return nil, fmt.Errorf("%w: parser", ErrMissingCollaborator)
	case cfg.Querier == nil:
		return nil, fmt.Errorf("%w: querier", ErrMissingCollaborator)
	case cfg.Buffer == nil:
		return nil, fmt.Errorf("%w: buffer", ErrMissingCollaborator)
	case cfg.Overlays == nil:
		return nil, fmt.Errorf("%w: overlays", ErrMissingCollaborator)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	logger = logger.WithComponent("conceal")

	rules := rule.ResolveSet(cfg.Rules)
	logger.Debug("resolved %d persistent and %d volatile rules", len(rules.Persistent), len(rules.Volatile))

	return &Engine{
		rules:        rules,
		parser:       cfg.Parser,
		buffer:       cfg.Buffer,
		matcher:      match.NewEngine(cfg.Querier, logger),
		store:        overlay.NewStore(cfg.Overlays, logger),
		scheduler:    cfg.Scheduler,
		legacy:       cfg.LegacySetup,
		onTransition: cfg.OnTransition,
		logger:       logger,
	}, nil
}

// Rules returns the resolved rule sets.
func (e *Engine) Rules() rule.Set {
	return e.rules
}

// State returns the controller state.
func (e *Engine) State() State {
	return e.state
}

// Store returns the overlay store.
func (e *Engine) Store() *overlay.Store {
	return e.store
}

func (e *Engine) transition(to State) {
	from := e.state
	e.state = to
	if e.onTransition != nil && from != to {
		e.onTransition(from, to)
	}
}

// BufferEntered handles the buffer-entered signal. Buffers of another
// document type are ignored. The legacy setup is posted once per Engine.
func (e *Engine) BufferEntered(matches bool) PassReport {
	if !matches {
		return PassReport{Namespace: overlay.Persistent}
	}
	if !e.legacyPosted && e.legacy != nil {
		e.legacyPosted = true
		if e.scheduler != nil {
			e.scheduler.Defer(e.legacy)
		} else {
			e.legacy()
		}
	}
	return e.RefreshPersistent()
}

// TextChanged handles the text-changed signal in either mode.
func (e *Engine) TextChanged() PassReport {
	return e.RefreshPersistent()
}

// CursorMoved handles the cursor-moved signal: it repaints the volatile
// namespace and then removes the volatile overlays on row.
func (e *Engine) CursorMoved(row int) PassReport {
	if e.state != StateIdle {
		return busyReport(overlay.Volatile)
	}
	e.transition(StateVolatileRefreshing)
	defer e.transition(StateIdle)
	report := e.run(overlay.Volatile, e.rules.Volatile, nil)
	e.transition(StateSuppressing)
	report.Suppressed = e.store.ClearNear(overlay.Volatile, row)
	return report
}

// RefreshPersistent rebuilds the persistent namespace from the current tree.
func (e *Engine) RefreshPersistent() PassReport {
	if e.state != StateIdle {
		return busyReport(overlay.Persistent)
	}
	e.transition(StateFullRefreshing)
	defer e.transition(StateIdle)
	return e.run(overlay.Persistent, e.rules.Persistent, nil)
}

// RefreshRows rebuilds only the persistent overlays intersecting rows
// [start, end]. Queries still run over the whole tree; overlays elsewhere
// are left in place. The result for those rows equals a full refresh.
func (e *Engine) RefreshRows(start, end int) PassReport {
	if e.state != StateIdle {
		return busyReport(overlay.Persistent)
	}
	e.transition(StateFullRefreshing)
	defer e.transition(StateIdle)
	return e.run(overlay.Persistent, e.rules.Persistent, &rowWindow{start: start, end: end})
}

// RefreshVolatile rebuilds the volatile namespace without suppression.
func (e *Engine) RefreshVolatile() PassReport {
	if e.state != StateIdle {
		return busyReport(overlay.Volatile)
	}
	e.transition(StateVolatileRefreshing)
	defer e.transition(StateIdle)
	return e.run(overlay.Volatile, e.rules.Volatile, nil)
}

type rowWindow struct {
	start, end int
}

func (w *rowWindow) covers(r syntax.Range) bool {
	return w.coversRows(r.StartRow, r.EndRow)
}

func (w *rowWindow) coversRows(start, end int) bool {
	return w == nil || (start <= w.end && end >= w.start)
}

// clamp limits r's rows to the window. Columns are kept.
func (w *rowWindow) clamp(r syntax.Range) syntax.Range {
	if w == nil {
		return r
	}
	r.StartRow = max(r.StartRow, w.start)
	r.EndRow = min(r.EndRow, w.end)
	return r
}

func (e *Engine) run(ns overlay.Namespace, rules []rule.Rule, window *rowWindow) PassReport {
	report := PassReport{Namespace: ns, Rules: len(rules)}

	tree, ok := e.parser.Parse()
	if !ok || tree == nil {
		report.NoTree = true
		e.logger.Debug("%s refresh skipped: %v", ns, ErrNoParsedTree)
		return report
	}

	if window == nil {
		e.store.Clear(ns)
	} else {
		e.store.Primitive().Clear(ns, window.start, window.end)
	}

	for _, r := range rules {
		res, err := e.matcher.Run(r, tree)
		if err != nil {
			e.logger.Warn("skipping rule %s: %v", r.Path, err)
			report.fail(r.Path, "query", err)
			continue
		}
		if res.Skipped > 0 {
			report.Skipped += res.Skipped
			report.fail(r.Path, "text", fmt.Errorf("%w: %d captures", ErrNodeTextUnavailable, res.Skipped))
		}
		for _, m := range res.Matches {
			if !window.covers(m.Range) {
				continue
			}
			report.Matches++
			e.apply(ns, m, window, &report)
		}
	}
	return report
}

func (e *Engine) apply(ns overlay.Namespace, m match.Match, window *rowWindow, report *PassReport) {
	if m.Rule.IsCodeRegion() {
		n, err := match.PadRegion(e.buffer, window.clamp(m.Range))
		if err != nil {
			e.logger.Warn("rule %s: padding %s: %v", m.Rule.Path, m.Range, err)
			report.fail(m.Rule.Path, "pad", err)
		}
		report.Padded += n
	}
	for _, spec := range place.Resolve(m, e.buffer) {
		if !window.coversRows(spec.Range.StartRow, spec.Range.EndRow) {
			continue
		}
		if _, err := e.store.Apply(ns, spec); err != nil {
			report.fail(m.Rule.Path, "place", err)
			continue
		}
		report.Applied++
	}
}

func busyReport(ns overlay.Namespace) PassReport {
	return PassReport{Namespace: ns, Errors: []error{ErrBusy}}
}
