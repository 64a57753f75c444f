// Package norg parses Norg documents into a syntax tree whose node names
// follow the tree-sitter-norg grammar, so rule queries written for that
// grammar run unchanged against it.
package norg

import (
	"strings"

	"github.com/dshills/concealer/internal/syntax"
)

// Node is a node of a parsed document.
type Node struct {
	kind     string
	rng      syntax.Range
	children []*Node
	parent   *Node
	doc      *Document
}

func (d *Document) newNode(kind string, row, col, endRow, endCol int) *Node {
	return &Node{
		kind: kind,
		rng:  syntax.Range{StartRow: row, StartCol: col, EndRow: endRow, EndCol: endCol},
		doc:  d,
	}
}

func (n *Node) add(children ...*Node) *Node {
	for _, c := range children {
		if c == nil {
			continue
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// Type returns the grammar name of the node.
func (n *Node) Type() string { return n.kind }

// Range returns the node's extent.
func (n *Node) Range() syntax.Range { return n.rng }

// Children returns the node's children in source order.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Child returns the first child of the given kind.
func (n *Node) Child(kind string) *Node {
	for _, c := range n.children {
		if c.kind == kind {
			return c
		}
	}
	return nil
}

// Text returns the source the node spans. Rows past the end of the
// document report syntax.ErrNodeText.
func (n *Node) Text() (string, error) {
	lines := n.doc.lines
	r := n.rng
	if r.StartRow < 0 || r.EndRow >= len(lines) || r.StartCol > len(lines[r.StartRow]) || r.EndCol > len(lines[r.EndRow]) {
		return "", syntax.ErrNodeText
	}
	if r.StartRow == r.EndRow {
		return lines[r.StartRow][r.StartCol:r.EndCol], nil
	}
	var b strings.Builder
	b.WriteString(lines[r.StartRow][r.StartCol:])
	for row := r.StartRow + 1; row < r.EndRow; row++ {
		b.WriteByte('\n')
		b.WriteString(lines[row])
	}
	b.WriteByte('\n')
	b.WriteString(lines[r.EndRow][:r.EndCol])
	return b.String(), nil
}

// Walk visits n and its descendants in pre-order until fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// String renders the subtree as an S-expression of node kinds.
func (n *Node) String() string {
	var b strings.Builder
	n.sexp(&b)
	return b.String()
}

func (n *Node) sexp(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(n.kind)
	for _, c := range n.children {
		b.WriteByte(' ')
		c.sexp(b)
	}
	b.WriteByte(')')
}
