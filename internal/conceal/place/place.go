// Package place turns matches into concrete overlay placements: where the
// overlay starts and which segments it draws.
package place

import (
	"github.com/dshills/concealer/internal/conceal/match"
	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/rule"
)

// LineSource provides line text for whole-line placements.
type LineSource interface {
	LineCount() int
	Lines(start, end int) []string
}

// Icon places a match of an icon rule. The overlay starts at the match
// start shifted by the rule's column offset and ends where the match ends.
// Its segments come from the rule's render behavior.
func Icon(m match.Match) overlay.Spec {
	r := m.Rule
	start := m.Range.StartCol + r.ColumnOffset(m.Text)
	end := m.Range.EndCol
	if m.Range.EndRow == m.Range.StartRow && end < start {
		end = start
	}
	return overlay.Spec{
		Range: overlay.Range{
			StartRow: m.Range.StartRow,
			StartCol: start,
			EndRow:   m.Range.EndRow,
			EndCol:   end,
		},
		Segments:  r.Segments(m.Text),
		Highlight: r.Highlight,
		Mode:      overlay.ModeCombine,
	}
}

// Region places one whole-line background per row of a code region match.
// Each placement starts at the region's start column and covers the rest
// of its line.
func Region(m match.Match, lines LineSource) []overlay.Spec {
	first, last := match.RegionRows(m.Range, lines.LineCount())
	if first > last {
		return nil
	}
	text := lines.Lines(first, last+1)

	specs := make([]overlay.Spec, 0, len(text))
	for i, line := range text {
		end := len(line)
		if end < m.Range.StartCol {
			end = m.Range.StartCol
		}
		specs = append(specs, overlay.Spec{
			Range: overlay.Range{
				StartRow: first + i,
				StartCol: m.Range.StartCol,
				EndRow:   first + i,
				EndCol:   end,
			},
			Segments:  []rule.Segment{{Text: "", Highlight: m.Rule.Highlight}},
			Highlight: m.Rule.Highlight,
			Mode:      overlay.ModeBlend,
			WholeLine: true,
		})
	}
	return specs
}

// Resolve places any match, dispatching on the rule's behavior.
func Resolve(m match.Match, lines LineSource) []overlay.Spec {
	if m.Rule.IsCodeRegion() {
		return Region(m, lines)
	}
	return []overlay.Spec{Icon(m)}
}
