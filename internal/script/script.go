// Package script evaluates user supplied Lua callbacks for custom
// concealment rules.
//
// Callbacks are Lua chunks that return a function. An extract chunk returns
// a function taking the matched text and returning a zero-based byte offset
// or nil:
//
//	return function(text) return text:find("[", 1, true) end
//
// A render chunk returns a function taking a rule table (icon, highlight,
// path) and the matched text, and returning a list of {text, highlight}
// pairs.
//
// gopher-lua states are not goroutine-safe; every call holds the State
// mutex.
package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/logging"
)

// DefaultTimeout bounds a single callback invocation.
const DefaultTimeout = 100 * time.Millisecond

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrNotFunction is returned when a chunk does not return a function.
	ErrNotFunction = errors.New("chunk did not return a function")
)

// Error wraps a failure of the named chunk.
type Error struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("script %s: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// State is a sandboxed Lua state.
type State struct {
	mu      sync.Mutex
	L       *lua.LState
	timeout time.Duration
	logger  *logging.Logger
	closed  bool
}

// Option configures a State.
type Option func(*State)

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *State) { s.timeout = d }
}

// WithLogger sets the logger callback failures are reported to.
func WithLogger(l *logging.Logger) Option {
	return func(s *State) { s.logger = l }
}

// NewState creates a state with only the base, table, string and math
// libraries. Loaders that reach the filesystem are removed.
func NewState(opts ...Option) *State {
	s := &State{timeout: DefaultTimeout, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent("script")

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	s.L = L
	return s
}

// Close releases the state.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.L.Close()
		s.closed = true
	}
}

// Compile runs chunk and returns the function it yields.
func (s *State) Compile(name, chunk string) (*lua.LFunction, error) {
	var fn *lua.LFunction
	err := s.call(func(L *lua.LState) error {
		loaded, err := L.LoadString(chunk)
		if err != nil {
			return err
		}
		L.Push(loaded)
		if err := L.PCall(0, 1, nil); err != nil {
			return err
		}
		ret := L.Get(-1)
		L.Pop(1)
		f, ok := ret.(*lua.LFunction)
		if !ok {
			return fmt.Errorf("%w (got %s)", ErrNotFunction, ret.Type())
		}
		fn = f
		return nil
	})
	if err != nil {
		return nil, &Error{Name: name, Err: err}
	}
	return fn, nil
}

// OffsetFunc compiles an extract chunk into a rule.OffsetFunc. Runtime
// failures are logged and treated as no offset.
func (s *State) OffsetFunc(name, chunk string) (rule.OffsetFunc, error) {
	fn, err := s.Compile(name, chunk)
	if err != nil {
		return nil, err
	}
	return func(text string) (int, bool) {
		var (
			off int
			ok  bool
		)
		err := s.call(func(L *lua.LState) error {
			ret, err := invoke(L, fn, lua.LString(text))
			if err != nil {
				return err
			}
			if n, isNum := ret.(lua.LNumber); isNum && n >= 0 {
				off, ok = int(n), true
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("extract %s: %v", name, err)
			return 0, false
		}
		return off, ok
	}, nil
}

// RenderFunc compiles a render chunk into a rule.RenderFunc. Runtime
// failures are logged and fall back to the rule's icon.
func (s *State) RenderFunc(name, chunk string) (rule.RenderFunc, error) {
	fn, err := s.Compile(name, chunk)
	if err != nil {
		return nil, err
	}
	return func(r rule.Rule, text string) []rule.Segment {
		var segs []rule.Segment
		err := s.call(func(L *lua.LState) error {
			tbl := L.NewTable()
			tbl.RawSetString("icon", lua.LString(r.Icon))
			tbl.RawSetString("highlight", lua.LString(r.Highlight))
			tbl.RawSetString("path", lua.LString(r.Path))
			ret, err := invoke(L, fn, tbl, lua.LString(text))
			if err != nil {
				return err
			}
			segs, err = segments(ret)
			return err
		})
		if err != nil {
			s.logger.Warn("render %s: %v", name, err)
			return []rule.Segment{{Text: r.Icon, Highlight: r.Highlight}}
		}
		return segs
	}, nil
}

func (s *State) call(fn func(L *lua.LState) error) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStateClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn(s.L)
}

func invoke(L *lua.LState, fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...)
	if err != nil {
		return lua.LNil, err
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// segments converts {{text, hl}, ...} or {{text = ..., highlight = ...}}.
func segments(v lua.LValue) ([]rule.Segment, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("render returned %s, want table", v.Type())
	}
	var segs []rule.Segment
	var bad error
	tbl.ForEach(func(_, item lua.LValue) {
		pair, ok := item.(*lua.LTable)
		if !ok {
			bad = fmt.Errorf("segment is %s, want table", item.Type())
			return
		}
		text := pair.RawGetString("text")
		if text == lua.LNil {
			text = pair.RawGetInt(1)
		}
		hl := pair.RawGetString("highlight")
		if hl == lua.LNil {
			hl = pair.RawGetInt(2)
		}
		segs = append(segs, rule.Segment{Text: lua.LVAsString(text), Highlight: lua.LVAsString(hl)})
	})
	return segs, bad
}
