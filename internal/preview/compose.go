// Package preview draws a document with its active overlays onto a
// terminal screen.
package preview

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/concealer/internal/conceal/overlay"
)

// Cell is one screen cell of a composed row.
type Cell struct {
	Rune  rune
	Style tcell.Style

	// Hidden cells are concealed by a zero-width overlay and not drawn.
	Hidden bool
}

// Frame is a document snapshot to draw.
type Frame struct {
	Lines    []string
	Overlays []overlay.Overlay

	// Cursor is the row the cursor is on, or -1 for none.
	Cursor int
}

// Compose lays overlays over lines. Blend overlays color the background of
// their rows, out to width when they cover the whole line. Other overlays
// write their segments over the cells starting at their column; a
// zero-width rune conceals the cell it lands on.
func Compose(f Frame, theme Theme, width int) [][]Cell {
	rows := make([][]Cell, len(f.Lines))
	index := make([][]int, len(f.Lines))
	for i, line := range f.Lines {
		rows[i], index[i] = cells(line)
	}

	ordered := slices.Clone(f.Overlays)
	slices.SortStableFunc(ordered, func(a, b overlay.Overlay) int {
		return cmp.Compare(rank(a.Mode), rank(b.Mode))
	})

	for _, o := range ordered {
		if o.Range.StartRow < 0 || o.Range.StartRow >= len(rows) {
			continue
		}
		if o.Mode == overlay.ModeBlend {
			for row := o.Range.StartRow; row <= o.Range.EndRow && row < len(rows); row++ {
				rows[row] = blend(rows[row], theme.Style(o.Highlight), o.WholeLine, width)
			}
			continue
		}
		row := o.Range.StartRow
		rows[row] = paint(rows[row], index[row], o, theme)
	}
	return rows
}

func rank(m overlay.Mode) int {
	if m == overlay.ModeBlend {
		return 0
	}
	return 1
}

// cells splits line into runes and maps each byte offset to the cell of
// the rune containing it. Offset len(line) maps one past the last cell.
func cells(line string) ([]Cell, []int) {
	out := make([]Cell, 0, len(line))
	index := make([]int, len(line)+1)
	for i, r := range line {
		index[i] = len(out)
		out = append(out, Cell{Rune: r, Style: tcell.StyleDefault})
	}
	cell := 0
	for i := 0; i < len(line); i++ {
		if utf8.RuneStart(line[i]) {
			cell = index[i]
		} else {
			index[i] = cell
		}
	}
	index[len(line)] = len(out)
	return out, index
}

func blend(row []Cell, st tcell.Style, wholeLine bool, width int) []Cell {
	_, bg, _ := st.Decompose()
	for i := range row {
		row[i].Style = row[i].Style.Background(bg)
	}
	if wholeLine {
		for len(row) < width {
			row = append(row, Cell{Rune: ' ', Style: tcell.StyleDefault.Background(bg)})
		}
	}
	return row
}

func paint(row []Cell, index []int, o overlay.Overlay, theme Theme) []Cell {
	col := len(row)
	if o.Range.StartCol < len(index) {
		col = index[o.Range.StartCol]
	}
	for _, seg := range o.Segments {
		hl := seg.Highlight
		if hl == "" {
			hl = o.Highlight
		}
		st := theme.Style(hl)
		for _, r := range seg.Text {
			for col >= len(row) {
				row = append(row, Cell{Rune: ' ', Style: tcell.StyleDefault})
			}
			if r == '\u200d' {
				row[col].Hidden = true
				col++
				continue
			}
			if o.Mode == overlay.ModeCombine {
				_, bg, _ := row[col].Style.Decompose()
				if _, own, _ := st.Decompose(); own == tcell.ColorDefault {
					st = st.Background(bg)
				}
			}
			row[col] = Cell{Rune: r, Style: st}
			col++
		}
	}
	return row
}

// PlainText renders composed rows without styles.
func PlainText(rows [][]Cell) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if !c.Hidden {
				b.WriteRune(c.Rune)
			}
		}
	}
	return b.String()
}
