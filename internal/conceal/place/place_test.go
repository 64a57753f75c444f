package place

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/concealer/internal/conceal/match"
	"github.com/dshills/concealer/internal/conceal/overlay"
	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/syntax"
)

type rows []string

func (r rows) LineCount() int                { return len(r) }
func (r rows) Lines(start, end int) []string { return r[start:end] }

func TestIconSimple(t *testing.T) {
	m := match.Match{
		Rule:  rule.New("◉", "NeorgHeading1", "(heading1_prefix) @icon"),
		Text:  "* ",
		Range: syntax.Range{StartRow: 3, StartCol: 0, EndRow: 3, EndCol: 2},
	}
	want := overlay.Spec{
		Range:     overlay.Range{StartRow: 3, StartCol: 0, EndRow: 3, EndCol: 2},
		Segments:  []rule.Segment{{Text: "◉", Highlight: "NeorgHeading1"}},
		Highlight: "NeorgHeading1",
		Mode:      overlay.ModeCombine,
	}
	if diff := cmp.Diff(want, Icon(m)); diff != "" {
		t.Errorf("Icon() mismatch (-want +got):\n%s", diff)
	}
}

func TestIconOffset(t *testing.T) {
	m := match.Match{
		Rule:  rule.New("×", "NeorgTodoItemUndoneMark", "(todo_item_undone) @icon").WithOffset(rule.BracketContent),
		Text:  "[x]",
		Range: syntax.Range{StartRow: 0, StartCol: 2, EndRow: 0, EndCol: 5},
	}
	got := Icon(m)
	if got.Range.StartCol != 3 {
		t.Errorf("StartCol = %d, want 3", got.Range.StartCol)
	}
	if got.Range.EndCol != 5 {
		t.Errorf("EndCol = %d, want 5", got.Range.EndCol)
	}
}

func TestIconOffsetPastEnd(t *testing.T) {
	m := match.Match{
		Rule:  rule.New("x", "X", "(x) @icon").WithOffset(func(string) (int, bool) { return 10, true }),
		Text:  "ab",
		Range: syntax.Range{StartRow: 0, StartCol: 0, EndRow: 0, EndCol: 2},
	}
	got := Icon(m)
	if got.Range.EndCol != got.Range.StartCol {
		t.Errorf("Range = %s, want end clamped to start", got.Range)
	}
}

func TestIconComposite(t *testing.T) {
	r := rule.ResolvePaths(rule.Defaults(rule.Options{}), false)["quote.level_2"]
	m := match.Match{Rule: r, Text: ">> ", Range: syntax.Range{EndCol: 3}}
	got := Icon(m)
	if len(got.Segments) != 2 {
		t.Fatalf("len(Segments) = %d, want 2", len(got.Segments))
	}
	if got.Segments[0].Highlight != "NeorgQuote1" || got.Segments[1].Highlight != "NeorgQuote2" {
		t.Errorf("Segments = %+v", got.Segments)
	}
}

func TestRegion(t *testing.T) {
	lines := rows{"text", "  @code", "", "  x := 1", "  @end"}
	r := rule.Rule{Enabled: true, Icon: " ", Highlight: "NeorgCodeBlock", Behavior: rule.CodeRegion{Tag: "code"}}
	m := match.Match{Rule: r, Range: syntax.Range{StartRow: 1, StartCol: 2, EndRow: 4, EndCol: 6}}

	specs := Resolve(m, lines)
	if len(specs) != 4 {
		t.Fatalf("len(specs) = %d, want 4", len(specs))
	}
	for i, s := range specs {
		if s.Range.StartRow != 1+i || s.Range.EndRow != 1+i {
			t.Errorf("spec %d rows = %s", i, s.Range)
		}
		if s.Mode != overlay.ModeBlend || !s.WholeLine {
			t.Errorf("spec %d mode = %s whole = %v", i, s.Mode, s.WholeLine)
		}
		if s.Range.StartCol != 2 {
			t.Errorf("spec %d StartCol = %d, want 2", i, s.Range.StartCol)
		}
	}
	if specs[1].Range.EndCol != 2 {
		t.Errorf("short row EndCol = %d, want 2", specs[1].Range.EndCol)
	}
	if specs[2].Range.EndCol != 8 {
		t.Errorf("row 3 EndCol = %d, want 8", specs[2].Range.EndCol)
	}
}

func TestResolveIcon(t *testing.T) {
	m := match.Match{Rule: rule.New("•", "L", "(l) @icon"), Text: "- ", Range: syntax.Range{EndCol: 2}}
	if got := Resolve(m, rows{"- a"}); len(got) != 1 || got[0].Mode != overlay.ModeCombine {
		t.Errorf("Resolve() = %+v", got)
	}
}
