// Package query compiles and runs tree-sitter style S-expression queries
// against documents produced by the norg parser.
//
// Supported syntax covers node patterns with nested children, the "_"
// wildcard, anonymous node strings, captures and the #eq?, #not-eq?,
// #match? and #not-match? predicates. Children match in order and need not
// be adjacent. Field names, negation, quantifiers and alternations are not
// supported and fail to compile.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/dshills/concealer/internal/norg"
	"github.com/dshills/concealer/internal/syntax"
)

// ErrForeignNode is returned when a query runs against a node that the
// norg parser did not produce.
var ErrForeignNode = errors.New("node is not a norg node")

// Query is a compiled query.
type Query struct {
	source   string
	patterns []*matcher
}

type matcher struct {
	kind     string
	captures []string
	children []*matcher
	preds    []predicate
}

type predicate struct {
	name    string
	capture string
	other   string
	literal string
	re      *regexp.Regexp
}

// Compile parses src. Failures are *syntax.CompileError values.
func Compile(src string) (q *Query, err error) {
	defer func() {
		if r := recover(); r != nil {
			q, err = nil, &syntax.CompileError{Query: src, Message: fmt.Sprint(r)}
		}
	}()

	ast, err := queryParser.ParseString("", src)
	if err != nil {
		return nil, &syntax.CompileError{Query: src, Message: err.Error()}
	}
	if len(ast.Patterns) == 0 {
		return nil, &syntax.CompileError{Query: src, Message: "no patterns"}
	}
	q = &Query{source: src}
	for _, p := range ast.Patterns {
		m, err := compilePattern(p)
		if err != nil {
			return nil, &syntax.CompileError{Query: src, Message: err.Error()}
		}
		q.patterns = append(q.patterns, m)
	}
	return q, nil
}

// String returns the query source.
func (q *Query) String() string { return q.source }

func compilePattern(p *patternAST) (*matcher, error) {
	captures := make([]string, len(p.Captures))
	for i, c := range p.Captures {
		captures[i] = strings.TrimPrefix(c, "@")
	}
	if p.Anon != nil {
		return &matcher{kind: *p.Anon, captures: captures}, nil
	}

	g := p.Group
	if g.Predicate != "" {
		return nil, fmt.Errorf("predicate %s outside of a pattern", g.Predicate)
	}

	m := &matcher{kind: g.Type}
	for _, c := range g.Children {
		if c.Group != nil && c.Group.Predicate != "" {
			pred, err := compilePredicate(c.Group)
			if err != nil {
				return nil, err
			}
			m.preds = append(m.preds, pred)
			continue
		}
		child, err := compilePattern(c)
		if err != nil {
			return nil, err
		}
		m.children = append(m.children, child)
	}

	if m.kind == "" {
		// A grouping: hoist its single pattern and attach the predicates.
		if len(m.children) != 1 {
			return nil, fmt.Errorf("grouping must hold exactly one pattern, got %d", len(m.children))
		}
		inner := m.children[0]
		inner.preds = append(inner.preds, m.preds...)
		inner.captures = append(inner.captures, captures...)
		return inner, nil
	}
	m.captures = captures
	return m, nil
}

func compilePredicate(g *groupAST) (predicate, error) {
	name := strings.TrimSuffix(strings.TrimPrefix(g.Predicate, "#"), "?")
	if len(g.Args) != 2 || g.Args[0].Capture == nil {
		return predicate{}, fmt.Errorf("%s expects a capture and one argument", g.Predicate)
	}
	p := predicate{name: name, capture: strings.TrimPrefix(*g.Args[0].Capture, "@")}
	arg := g.Args[1]

	switch name {
	case "eq", "not-eq":
		if arg.Capture != nil {
			p.other = strings.TrimPrefix(*arg.Capture, "@")
		} else {
			p.literal = *arg.String
		}
	case "match", "not-match":
		if arg.String == nil {
			return predicate{}, fmt.Errorf("%s expects a pattern string", g.Predicate)
		}
		re, err := regexp.Compile(*arg.String)
		if err != nil {
			return predicate{}, fmt.Errorf("%s: %w", g.Predicate, err)
		}
		p.re = re
	default:
		return predicate{}, fmt.Errorf("unknown predicate %s", g.Predicate)
	}
	return p, nil
}

// Captures runs the query over root and its descendants in document order.
func (q *Query) Captures(root *norg.Node) []syntax.Capture {
	var out []syntax.Capture
	root.Walk(func(n *norg.Node) bool {
		for _, m := range q.patterns {
			if caps, ok := m.match(n, nil); ok {
				out = append(out, caps...)
			}
		}
		return true
	})
	return out
}

func (m *matcher) match(n *norg.Node, caps []syntax.Capture) ([]syntax.Capture, bool) {
	if m.kind != "_" && m.kind != n.Type() {
		return caps, false
	}
	orig := caps
	for _, name := range m.captures {
		caps = append(caps, syntax.Capture{Name: name, Node: n})
	}

	kids := n.Children()
	i := 0
	for _, cm := range m.children {
		matched := false
		for ; i < len(kids); i++ {
			if next, ok := cm.match(kids[i], caps); ok {
				caps = next
				matched = true
				i++
				break
			}
		}
		if !matched {
			return orig, false
		}
	}

	for _, p := range m.preds {
		if !p.eval(caps) {
			return orig, false
		}
	}
	return caps, true
}

func (p predicate) eval(caps []syntax.Capture) bool {
	text, ok := captureText(caps, p.capture)
	if !ok {
		return false
	}
	switch p.name {
	case "eq", "not-eq":
		want := p.literal
		if p.other != "" {
			if want, ok = captureText(caps, p.other); !ok {
				return false
			}
		}
		return (text == want) == (p.name == "eq")
	default:
		return p.re.MatchString(text) == (p.name == "match")
	}
}

func captureText(caps []syntax.Capture, name string) (string, bool) {
	for i := len(caps) - 1; i >= 0; i-- {
		if caps[i].Name != name {
			continue
		}
		text, err := caps[i].Node.Text()
		return text, err == nil
	}
	return "", false
}

// Querier runs queries against norg trees and caches compiled queries by
// source.
type Querier struct {
	mu    sync.Mutex
	cache map[string]*Query
}

// NewQuerier creates a Querier with an empty cache.
func NewQuerier() *Querier {
	return &Querier{cache: make(map[string]*Query)}
}

// Compile returns the cached compiled form of src.
func (q *Querier) Compile(src string) (*Query, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if compiled, ok := q.cache[src]; ok {
		return compiled, nil
	}
	compiled, err := Compile(src)
	if err != nil {
		return nil, err
	}
	q.cache[src] = compiled
	return compiled, nil
}

// Run implements syntax.Querier.
func (q *Querier) Run(src string, root syntax.Node) ([]syntax.Capture, error) {
	compiled, err := q.Compile(src)
	if err != nil {
		return nil, err
	}
	n, ok := root.(*norg.Node)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, root)
	}
	return compiled.Captures(n), nil
}
