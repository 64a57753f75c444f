package norg

import (
	"strings"
	"sync"

	"github.com/dshills/concealer/internal/syntax"
)

// Document is a parsed Norg document.
type Document struct {
	lines []string
	root  *Node
}

// Root returns the document node.
func (d *Document) Root() syntax.Node { return d.root }

// RootNode returns the document node with its concrete type.
func (d *Document) RootNode() *Node { return d.root }

// Lines returns the lines the document was parsed from.
func (d *Document) Lines() []string { return d.lines }

// Parse parses src.
func Parse(src []byte) *Document {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	d := &Document{lines: strings.Split(text, "\n")}

	last := len(d.lines) - 1
	d.root = d.newNode("document", 0, 0, last, len(d.lines[last]))

	for row := 0; row < len(d.lines); {
		if tag, next := d.rangedTag(row); tag != nil {
			d.root.add(tag)
			row = next
			continue
		}
		d.root.add(d.line(row))
		row++
	}
	return d
}

// Source provides the text to parse and a revision that changes with it.
type Source interface {
	Bytes() []byte
	Revision() uint64
}

// Parser parses a Source on demand and reuses the tree until the source's
// revision changes.
type Parser struct {
	mu       sync.Mutex
	src      Source
	doc      *Document
	revision uint64
}

// NewParser creates a parser over src.
func NewParser(src Source) *Parser {
	return &Parser{src: src}
}

// Parse returns the document tree. It reports false when there is no source.
func (p *Parser) Parse() (syntax.Tree, bool) {
	doc := p.Document()
	if doc == nil {
		return nil, false
	}
	return doc, true
}

// Document returns the parsed document with its concrete type.
func (p *Parser) Document() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.src == nil {
		return nil
	}
	rev := p.src.Revision()
	if p.doc == nil || rev != p.revision {
		p.doc = Parse(p.src.Bytes())
		p.revision = rev
	}
	return p.doc
}
