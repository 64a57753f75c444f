package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/concealer/internal/syntax"
)

// ErrNotModifiable is returned when a code region needs padding but the
// buffer refuses edits.
var ErrNotModifiable = errors.New("buffer not modifiable")

// Buffer is the host's line store.
type Buffer interface {
	LineCount() int
	// Lines returns rows [start, end).
	Lines(start, end int) []string
	// SetLines replaces rows [start, end) with lines.
	SetLines(start, end int, lines []string) error
	IsModifiable() bool
}

// RegionRows returns the rows a code region covers, clamped to the buffer.
func RegionRows(r syntax.Range, lineCount int) (first, last int) {
	first, last = r.StartRow, r.EndRow
	if first < 0 {
		first = 0
	}
	if last >= lineCount {
		last = lineCount - 1
	}
	return first, last
}

// PadRegion pads every row of the region shorter than the region's start
// column with trailing spaces so a background drawn from that column has a
// cell to start on. It returns the number of rows changed. This is the only
// place the engine writes buffer text.
func PadRegion(buf Buffer, r syntax.Range) (int, error) {
	first, last := RegionRows(r, buf.LineCount())
	if first > last || r.StartCol == 0 {
		return 0, nil
	}

	lines := buf.Lines(first, last+1)
	changed := 0
	for i, line := range lines {
		if len(line) < r.StartCol {
			lines[i] = line + strings.Repeat(" ", r.StartCol-len(line))
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}
	if !buf.IsModifiable() {
		return 0, ErrNotModifiable
	}
	if err := buf.SetLines(first, last+1, lines); err != nil {
		return 0, fmt.Errorf("padding rows %d-%d: %w", first, last, err)
	}
	return changed, nil
}
