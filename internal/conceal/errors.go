package conceal

import (
	"errors"
	"fmt"

	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/syntax"
)

// Engine errors. They classify the failures recorded in a PassReport.
var (
	// ErrQueryCompile indicates a rule whose query is malformed.
	ErrQueryCompile = syntax.ErrQueryCompile

	// ErrNodeTextUnavailable indicates a capture whose text could not be read.
	ErrNodeTextUnavailable = syntax.ErrNodeText

	// ErrPlacementRejected indicates the overlay layer refused a placement.
	ErrPlacementRejected = overlay.ErrPlacementRejected

	// ErrNoParsedTree indicates the parser had no tree for the document.
	ErrNoParsedTree = errors.New("no parsed tree")

	// ErrMissingCollaborator indicates an Engine was configured without a
	// required collaborator.
	ErrMissingCollaborator = errors.New("missing collaborator")
)

// RuleError records a failure while processing one rule.
type RuleError struct {
	Rule string // Dotted rule path
	Op   string // "query", "place" or "pad"
	Err  error
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s: %s: %v", e.Rule, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RuleError) Unwrap() error {
	return e.Err
}
