package match

import (
	"errors"
	"testing"

	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/syntax"
	"github.com/dshills/concealer/internal/syntax/syntaxtest"
)

func tree() syntax.Tree {
	return &syntaxtest.Tree{RootNode: syntaxtest.At("document", "", 0, 0)}
}

func TestRunEmitsIconCaptures(t *testing.T) {
	q := syntaxtest.NewQuerier().
		On("(heading1_prefix) @icon", "icon",
			syntaxtest.At("heading1_prefix", "* ", 0, 0),
			syntaxtest.At("heading1_prefix", "* ", 4, 0)).
		On("(heading1_prefix) @icon", "other", syntaxtest.At("x", "x", 9, 0))

	r := rule.New("◉", "NeorgHeading1", "(heading1_prefix) @icon")
	res, err := NewEngine(q, nil).Run(r, tree())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("len(Matches) = %d, want 2", len(res.Matches))
	}
	m := res.Matches[1]
	if m.Text != "* " || m.Range.StartRow != 4 || m.Range.EndCol != 2 {
		t.Errorf("Matches[1] = %+v", m)
	}
	if m.Rule.Icon != "◉" {
		t.Errorf("match rule icon = %q", m.Rule.Icon)
	}
}

func TestRunCompileError(t *testing.T) {
	r := rule.New("x", "X", "(((broken")
	r.Path = "broken"
	res, err := NewEngine(syntaxtest.NewQuerier(), nil).Run(r, tree())
	if !errors.Is(err, syntax.ErrQueryCompile) {
		t.Errorf("Run() error = %v, want ErrQueryCompile", err)
	}
	if len(res.Matches) != 0 {
		t.Errorf("len(Matches) = %d, want 0", len(res.Matches))
	}
}

type plainErrQuerier struct{}

func (plainErrQuerier) Run(string, syntax.Node) ([]syntax.Capture, error) {
	return nil, errors.New("boom")
}

func TestRunWrapsQuerierErrors(t *testing.T) {
	_, err := NewEngine(plainErrQuerier{}, nil).Run(rule.New("x", "X", "(x) @icon"), tree())
	if !errors.Is(err, syntax.ErrQueryCompile) {
		t.Errorf("Run() error = %v, want ErrQueryCompile", err)
	}
}

func TestRunSkipsUnreadableNodes(t *testing.T) {
	bad := syntaxtest.At("todo_item_done", "[x]", 1, 2)
	bad.Unreadable = true
	q := syntaxtest.NewQuerier().On("(todo_item_done) @icon", "icon",
		bad, syntaxtest.At("todo_item_done", "[x]", 2, 2))

	res, err := NewEngine(q, nil).Run(rule.New("✓", "D", "(todo_item_done) @icon"), tree())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Skipped != 1 || len(res.Matches) != 1 {
		t.Errorf("Skipped = %d, Matches = %d; want 1, 1", res.Skipped, len(res.Matches))
	}
}

func TestRunNilTree(t *testing.T) {
	q := syntaxtest.NewQuerier()
	res, err := NewEngine(q, nil).Run(rule.New("x", "X", "(x) @icon"), nil)
	if err != nil || len(res.Matches) != 0 {
		t.Errorf("Run(nil tree) = %+v, %v", res, err)
	}
	if len(q.Runs) != 0 {
		t.Error("query ran without a tree")
	}
}

func TestRunCodeRegionFiltersTag(t *testing.T) {
	code := &syntaxtest.Node{Kind: "ranged_tag", Content: "@code go\nx\n@end",
		Span: syntax.Range{StartRow: 0, EndRow: 2, EndCol: 4}}
	other := &syntaxtest.Node{Kind: "ranged_tag", Content: "@codex\n@end",
		Span: syntax.Range{StartRow: 4, EndRow: 5, EndCol: 4}}
	q := syntaxtest.NewQuerier().On("(ranged_tag) @icon", "icon", code, other)

	r := rule.Rule{Enabled: true, Icon: " ", Query: "(ranged_tag) @icon", Behavior: rule.CodeRegion{Tag: "code"}}
	res, err := NewEngine(q, nil).Run(r, tree())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Matches) != 1 || res.Matches[0].Range.StartRow != 0 {
		t.Errorf("Matches = %+v, want only the @code region", res.Matches)
	}
}

func TestHasTag(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"@code", true},
		{"@code lua\n", true},
		{"  @code\n", true},
		{"@codeblock", false},
		{"@document.meta", false},
		{"code", false},
	}
	for _, tt := range tests {
		if got := HasTag(tt.text, "code"); got != tt.want {
			t.Errorf("HasTag(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
