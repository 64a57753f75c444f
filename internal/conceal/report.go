package conceal

import (
	"errors"

	"github.com/dshills/concealer/internal/conceal/overlay"
)

// PassReport summarizes one refresh pass.
type PassReport struct {
	Namespace overlay.Namespace

	Rules   int // Rules run
	Matches int // Matches placed or attempted
	Applied int // Overlays placed
	Skipped int // Captures with unreadable text
	Padded  int // Code-region rows padded

	// Suppressed counts volatile overlays removed from the cursor row.
	Suppressed int

	// NoTree is set when the pass did nothing because no tree was parsed.
	NoTree bool

	Errors []error
}

func (r *PassReport) fail(path, op string, err error) {
	r.Errors = append(r.Errors, &RuleError{Rule: path, Op: op, Err: err})
}

// Err joins the errors recorded during the pass.
func (r PassReport) Err() error {
	return errors.Join(r.Errors...)
}
