package preview

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/rule"
)

func icon(row, start, end int, text, hl string) overlay.Overlay {
	return overlay.Overlay{Spec: overlay.Spec{
		Range:     overlay.Range{StartRow: row, StartCol: start, EndRow: row, EndCol: end},
		Segments:  []rule.Segment{{Text: text, Highlight: hl}},
		Highlight: hl,
		Mode:      overlay.ModeCombine,
	}}
}

func TestComposeIcon(t *testing.T) {
	f := Frame{
		Lines:    []string{"- [ ] task"},
		Overlays: []overlay.Overlay{icon(0, 3, 5, "×", "NeorgTodoItemUndoneMark")},
		Cursor:   -1,
	}
	theme := DefaultTheme()
	rows := Compose(f, theme, 20)

	if got := PlainText(rows); got != "- [×] task" {
		t.Errorf("PlainText() = %q", got)
	}
	fg, _, _ := rows[0][3].Style.Decompose()
	want, _, _ := theme.Style("NeorgTodoItemUndoneMark").Decompose()
	if fg != want {
		t.Errorf("icon foreground = %v, want %v", fg, want)
	}
}

func TestComposeZeroWidthConceals(t *testing.T) {
	zwj := rule.ZeroWidthJoiner
	f := Frame{
		Lines:    []string{"*a* x"},
		Overlays: []overlay.Overlay{icon(0, 0, 3, zwj+"a"+zwj, "NeorgMarkupBold")},
	}
	if got := PlainText(Compose(f, DefaultTheme(), 10)); got != "a x" {
		t.Errorf("PlainText() = %q, want %q", got, "a x")
	}
}

func TestComposeMultibyteColumns(t *testing.T) {
	f := Frame{
		Lines:    []string{"é [ ]"},
		Overlays: []overlay.Overlay{icon(0, 4, 5, "×", "")},
	}
	if got := PlainText(Compose(f, nil, 10)); got != "é [×]" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestComposePastEndOfLine(t *testing.T) {
	f := Frame{
		Lines:    []string{"ab"},
		Overlays: []overlay.Overlay{icon(0, 2, 2, "<>", "")},
	}
	if got := PlainText(Compose(f, nil, 10)); got != "ab<>" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestComposeBlendWholeLine(t *testing.T) {
	theme := DefaultTheme()
	f := Frame{
		Lines: []string{"  x", ""},
		Overlays: []overlay.Overlay{
			icon(0, 2, 3, "!", "NeorgMarker"),
			{Spec: overlay.Spec{
				Range:     overlay.Range{StartRow: 0, StartCol: 0, EndRow: 1, EndCol: 3},
				Highlight: "NeorgCodeBlock",
				Mode:      overlay.ModeBlend,
				WholeLine: true,
			}},
		},
	}
	rows := Compose(f, theme, 6)
	_, codeBg, _ := theme.Style("NeorgCodeBlock").Decompose()

	for i, row := range rows {
		if len(row) != 6 {
			t.Errorf("row %d has %d cells, want 6", i, len(row))
		}
		for j, c := range row {
			if _, bg, _ := c.Style.Decompose(); bg != codeBg {
				t.Errorf("cell %d:%d background = %v, want %v", i, j, bg, codeBg)
			}
		}
	}
	if rows[0][2].Rune != '!' {
		t.Errorf("icon drawn under the background, got %q", rows[0][2].Rune)
	}
}

func TestComposeIgnoresRowsOutsideFrame(t *testing.T) {
	f := Frame{Lines: []string{"a"}, Overlays: []overlay.Overlay{icon(4, 0, 1, "x", "")}}
	if got := PlainText(Compose(f, nil, 4)); got != "a" {
		t.Errorf("PlainText() = %q", got)
	}
}

func TestThemeFallback(t *testing.T) {
	if got := Theme(nil).Style("Missing"); got != tcell.StyleDefault {
		t.Errorf("Style() = %v, want default", got)
	}
}
