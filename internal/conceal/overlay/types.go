// Package overlay holds the projection layer of the concealment engine:
// the overlays currently drawn over a buffer, grouped by namespace.
package overlay

import (
	"fmt"

	"github.com/dshills/concealer/internal/conceal/rule"
)

// Namespace separates overlays that are refreshed on different cadences.
type Namespace uint8

const (
	// Persistent overlays are rebuilt when the text changes.
	Persistent Namespace = iota

	// Volatile overlays are rebuilt when the cursor moves and hidden on the
	// cursor's row.
	Volatile
)

// String returns the string representation of the namespace.
func (n Namespace) String() string {
	switch n {
	case Persistent:
		return "persistent"
	case Volatile:
		return "volatile"
	default:
		return "unknown"
	}
}

// Mode controls how an overlay stacks with the text and overlays beneath it.
type Mode uint8

const (
	// ModeReplace hides everything beneath the overlay.
	ModeReplace Mode = iota

	// ModeCombine draws the overlay's text with its highlight combined with
	// the underlying highlight.
	ModeCombine

	// ModeBlend blends the overlay's highlight into the underlying cells.
	ModeBlend
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeReplace:
		return "replace"
	case ModeCombine:
		return "combine"
	case ModeBlend:
		return "blend"
	default:
		return "unknown"
	}
}

// Range is a span of the buffer. Rows are inclusive at both ends; EndCol is
// exclusive.
type Range struct {
	StartRow int
	StartCol int
	EndRow   int
	EndCol   int
}

// ContainsRow returns true if the range covers the row.
func (r Range) ContainsRow(row int) bool {
	return row >= r.StartRow && row <= r.EndRow
}

// IntersectsRows returns true if the range shares a row with [start, end].
func (r Range) IntersectsRows(start, end int) bool {
	return r.StartRow <= end && r.EndRow >= start
}

// String formats the range as start-end positions.
func (r Range) String() string {
	return fmt.Sprintf("%d:%d-%d:%d", r.StartRow, r.StartCol, r.EndRow, r.EndCol)
}

// ID identifies an overlay within its namespace.
type ID string

// Spec describes an overlay to place.
type Spec struct {
	Range     Range
	Segments  []rule.Segment
	Highlight string
	Mode      Mode

	// WholeLine extends the highlight to the end of the window line.
	WholeLine bool
}

// Overlay is a placed Spec.
type Overlay struct {
	ID        ID
	Namespace Namespace
	Spec
}

// Text returns the concatenated segment text.
func (o Overlay) Text() string {
	var s string
	for _, seg := range o.Segments {
		s += seg.Text
	}
	return s
}
