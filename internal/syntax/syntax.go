// Package syntax declares the tree provider contract the concealment engine
// consumes. Parsers and query runners live in sibling packages.
package syntax

import (
	"errors"
	"fmt"
)

// Errors reported by tree providers.
var (
	// ErrQueryCompile indicates a malformed query string.
	ErrQueryCompile = errors.New("query compile error")

	// ErrNodeText indicates the text of a node could not be read.
	ErrNodeText = errors.New("node text unavailable")
)

// Range is the extent of a node. Rows are zero-based and inclusive; columns
// are zero-based byte offsets and EndCol is exclusive.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// String formats the range as start-end positions.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
}

// Node is a syntax tree node.
type Node interface {
	// Type returns the grammar name of the node.
	Type() string

	// Text returns the source text the node spans.
	Text() (string, error)

	// Range returns the node's extent.
	Range() Range
}

// Tree is a parsed document.
type Tree interface {
	Root() Node
}

// Capture is a node bound to a capture name by a query.
type Capture struct {
	Name string
	Node Node
}

// Parser produces the current tree of a document. It returns false when no
// tree is available yet.
type Parser interface {
	Parse() (Tree, bool)
}

// Querier executes a query against a subtree. A malformed query returns an
// error wrapping ErrQueryCompile.
type Querier interface {
	Run(query string, root Node) ([]Capture, error)
}

// CompileError describes a query that failed to compile.
type CompileError struct {
	Query   string
	Message string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling %q: %s", e.Query, e.Message)
}

// Unwrap returns ErrQueryCompile so errors.Is matches every compile error.
func (e *CompileError) Unwrap() error {
	return ErrQueryCompile
}
