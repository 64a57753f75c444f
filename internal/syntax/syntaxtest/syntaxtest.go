// Package syntaxtest provides in-memory trees and query runners for tests.
package syntaxtest

import (
	"strings"

	"github.com/dshills/concealer/internal/syntax"
)

// Node is a fixed syntax node.
type Node struct {
	Kind    string
	Content string
	Span    syntax.Range
	// Unreadable makes Text fail.
	Unreadable bool
}

// Type returns the node kind.
func (n *Node) Type() string { return n.Kind }

// Text returns the content or syntax.ErrNodeText.
func (n *Node) Text() (string, error) {
	if n.Unreadable {
		return "", syntax.ErrNodeText
	}
	return n.Content, nil
}

// Range returns the span.
func (n *Node) Range() syntax.Range { return n.Span }

// At creates a single-row node.
func At(kind, content string, row, col int) *Node {
	return &Node{
		Kind:    kind,
		Content: content,
		Span:    syntax.Range{StartRow: row, StartCol: col, EndRow: row, EndCol: col + len(content)},
	}
}

// Tree is a tree with a fixed root.
type Tree struct {
	RootNode syntax.Node
}

// Root returns the root node.
func (t *Tree) Root() syntax.Node { return t.RootNode }

// Parser returns Current, or false when Current is nil.
type Parser struct {
	Current syntax.Tree
	Calls   int
}

// Parse implements syntax.Parser.
func (p *Parser) Parse() (syntax.Tree, bool) {
	p.Calls++
	if p.Current == nil {
		return nil, false
	}
	return p.Current, true
}

// Querier answers queries from a table keyed by query string. Queries
// containing "(((" fail to compile; unknown queries return no captures.
type Querier struct {
	Results map[string][]syntax.Capture
	Runs    []string

	// Panic makes Run panic for this query.
	Panic string
}

// NewQuerier creates an empty querier.
func NewQuerier() *Querier {
	return &Querier{Results: make(map[string][]syntax.Capture)}
}

// On registers nodes captured as name for query.
func (q *Querier) On(query, name string, nodes ...*Node) *Querier {
	for _, n := range nodes {
		q.Results[query] = append(q.Results[query], syntax.Capture{Name: name, Node: n})
	}
	return q
}

// Run implements syntax.Querier.
func (q *Querier) Run(query string, _ syntax.Node) ([]syntax.Capture, error) {
	q.Runs = append(q.Runs, query)
	if q.Panic != "" && query == q.Panic {
		panic("querier failure on " + query)
	}
	if strings.Contains(query, "(((") {
		return nil, &syntax.CompileError{Query: query, Message: "unbalanced"}
	}
	return q.Results[query], nil
}
