// Package treesitter adapts github.com/smacker/go-tree-sitter grammars to
// the syntax interfaces so concealment rules can run against any language
// with a tree-sitter grammar.
package treesitter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dshills/concealer/internal/logging"
	"github.com/dshills/concealer/internal/syntax"
)

// ErrForeignNode is returned when a query runs against a node this package
// did not produce.
var ErrForeignNode = errors.New("node is not a tree-sitter node")

// Source provides the text to parse and a revision that changes with it.
type Source interface {
	Bytes() []byte
	Revision() uint64
}

// Parser parses a Source with a tree-sitter grammar and reuses the tree
// until the source revision changes.
type Parser struct {
	mu       sync.Mutex
	parser   *sitter.Parser
	src      Source
	logger   *logging.Logger
	tree     *Tree
	revision uint64
}

// NewParser creates a parser for lang over src.
func NewParser(lang *sitter.Language, src Source, logger *logging.Logger) *Parser {
	if logger == nil {
		logger = logging.Nop()
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{
		parser: p,
		src:    src,
		logger: logger.WithComponent("treesitter"),
	}
}

// Parse implements syntax.Parser. A failed parse reports no tree.
func (p *Parser) Parse() (syntax.Tree, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.src == nil {
		return nil, false
	}
	rev := p.src.Revision()
	if p.tree != nil && rev == p.revision {
		return p.tree, true
	}

	content := p.src.Bytes()
	raw, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		p.logger.Warn("parse failed: %v", err)
		return nil, false
	}
	if p.tree != nil {
		p.tree.raw.Close()
	}
	p.tree = &Tree{raw: raw, src: content}
	p.revision = rev
	return p.tree, true
}

// Close releases the parser and its current tree.
func (p *Parser) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tree != nil {
		p.tree.raw.Close()
		p.tree = nil
	}
	p.parser.Close()
}

// Tree is a parsed document.
type Tree struct {
	raw *sitter.Tree
	src []byte
}

// Root implements syntax.Tree.
func (t *Tree) Root() syntax.Node {
	return Node{n: t.raw.RootNode(), src: t.src}
}

// Node wraps a tree-sitter node with the source it was parsed from.
type Node struct {
	n   *sitter.Node
	src []byte
}

// Type returns the grammar name of the node.
func (n Node) Type() string { return n.n.Type() }

// Text returns the node's source.
func (n Node) Text() (string, error) {
	if n.n == nil || n.n.IsNull() || int(n.n.EndByte()) > len(n.src) {
		return "", syntax.ErrNodeText
	}
	return n.n.Content(n.src), nil
}

// Range returns the node's extent in byte columns.
func (n Node) Range() syntax.Range {
	start, end := n.n.StartPoint(), n.n.EndPoint()
	return syntax.Range{
		StartRow: int(start.Row),
		StartCol: int(start.Column),
		EndRow:   int(end.Row),
		EndCol:   int(end.Column),
	}
}

// Querier compiles queries for one grammar and caches them by source.
type Querier struct {
	mu    sync.Mutex
	lang  *sitter.Language
	cache map[string]*sitter.Query
}

// NewQuerier creates a Querier for lang.
func NewQuerier(lang *sitter.Language) *Querier {
	return &Querier{lang: lang, cache: make(map[string]*sitter.Query)}
}

func (q *Querier) compile(src string) (*sitter.Query, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if compiled, ok := q.cache[src]; ok {
		return compiled, nil
	}
	compiled, err := sitter.NewQuery([]byte(src), q.lang)
	if err != nil {
		return nil, &syntax.CompileError{Query: src, Message: err.Error()}
	}
	q.cache[src] = compiled
	return compiled, nil
}

// Run implements syntax.Querier. Predicates such as #eq? are applied.
func (q *Querier) Run(src string, root syntax.Node) ([]syntax.Capture, error) {
	compiled, err := q.compile(src)
	if err != nil {
		return nil, err
	}
	node, ok := root.(Node)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrForeignNode, root)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(compiled, node.n)

	var out []syntax.Capture
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			break
		}
		m = cursor.FilterPredicates(m, node.src)
		for _, c := range m.Captures {
			out = append(out, syntax.Capture{
				Name: compiled.CaptureNameForId(c.Index),
				Node: Node{n: c.Node, src: node.src},
			})
		}
	}
	return out, nil
}

// Close releases every cached query.
func (q *Querier) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for src, compiled := range q.cache {
		compiled.Close()
		delete(q.cache, src)
	}
}
