package norg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/concealer/internal/syntax"
)

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"heading", "** Title", "(document (heading2 (heading2_prefix) (paragraph_segment)))"},
		{"deep heading", "******** x", "(document (heading6 (heading6_prefix) (paragraph_segment)))"},
		{"todo", "- [ ] task", "(document (unordered_list1 (unordered_list1_prefix) (todo_item_undone) (paragraph_segment)))"},
		{"todo done", "-- [x] task", "(document (unordered_list2 (unordered_list2_prefix) (todo_item_done) (paragraph_segment)))"},
		{"not a todo", "- [y] task", "(document (unordered_list1 (unordered_list1_prefix) (paragraph_segment)))"},
		{"quote", ">>> said", "(document (quote3 (quote3_prefix) (paragraph_segment)))"},
		{"ordered", "~ one", "(document (ordered_list1 (ordered_list1_prefix) (paragraph_segment)))"},
		{"marker", "| Here", "(document (marker (marker_prefix) (paragraph_segment)))"},
		{"definition", "$ Term", "(document (single_definition (single_definition_prefix) (paragraph_segment)))"},
		{"multi definition", "$$ Term\nbody\n$$", "(document (multi_definition (multi_definition_prefix) (paragraph_segment)) (paragraph_segment) (multi_definition_suffix))"},
		{"footnote", "^ Note", "(document (single_footnote (single_footnote_prefix) (paragraph_segment)))"},
		{"delimiters", "---\n===\n___", "(document (weak_paragraph_delimiter) (strong_paragraph_delimiter) (horizontal_line))"},
		{"bold without space", "*bold* text", "(document (paragraph_segment (bold)))"},
		{"nested markup", "*/both/*", "(document (paragraph_segment (bold (italic))))"},
		{"verbatim is opaque", "`*a*`", "(document (paragraph_segment (verbatim)))"},
		{"unclosed", "*open text", "(document (paragraph_segment))"},
		{"intraword", "a*b*c", "(document (paragraph_segment))"},
		{"code", "@code go\nx\n@end", "(document (ranged_tag (tag_name) (tag_parameters) (ranged_tag_content) (ranged_tag_end)))"},
		{"unterminated tag", "@code\nx", "(document (ranged_tag (tag_name) (ranged_tag_content)))"},
		{"blank lines", "\n\n", "(document)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse([]byte(tt.src)).RootNode().String()
			if got != tt.want {
				t.Errorf("Parse(%q)\n got %s\nwant %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestTodoRange(t *testing.T) {
	doc := Parse([]byte("- [ ] task"))
	todo := doc.RootNode().Children()[0].Child("todo_item_undone")
	if todo == nil {
		t.Fatal("todo_item_undone missing")
	}
	want := syntax.Range{StartRow: 0, StartCol: 2, EndRow: 0, EndCol: 5}
	if diff := cmp.Diff(want, todo.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	text, err := todo.Text()
	if err != nil || text != "[ ]" {
		t.Errorf("Text() = %q, %v", text, err)
	}
}

func TestPrefixIncludesWhitespace(t *testing.T) {
	doc := Parse([]byte("  **  Title"))
	prefix := doc.RootNode().Children()[0].Child("heading2_prefix")
	text, _ := prefix.Text()
	if text != "**  " {
		t.Errorf("prefix = %q", text)
	}
	if prefix.Range().StartCol != 2 {
		t.Errorf("StartCol = %d, want 2", prefix.Range().StartCol)
	}
}

func TestMarkupRanges(t *testing.T) {
	doc := Parse([]byte("a *b* and /c/."))
	seg := doc.RootNode().Children()[0]
	var got []string
	for _, c := range seg.Children() {
		text, _ := c.Text()
		got = append(got, c.Type()+"="+text)
	}
	want := []string{"bold=*b*", "italic=/c/"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("markup mismatch (-want +got):\n%s", diff)
	}
}

func TestRangedTagText(t *testing.T) {
	src := "text\n  @code lua\n  print(1)\n  @end\nafter"
	doc := Parse([]byte(src))
	tag := doc.RootNode().Children()[1]
	if tag.Type() != "ranged_tag" {
		t.Fatalf("Type() = %s", tag.Type())
	}
	want := syntax.Range{StartRow: 1, StartCol: 2, EndRow: 3, EndCol: 6}
	if diff := cmp.Diff(want, tag.Range()); diff != "" {
		t.Errorf("range mismatch (-want +got):\n%s", diff)
	}
	text, err := tag.Text()
	if err != nil {
		t.Fatal(err)
	}
	if text != "@code lua\n  print(1)\n  @end" {
		t.Errorf("Text() = %q", text)
	}
	name, _ := tag.Child("tag_name").Text()
	if name != "code" {
		t.Errorf("tag_name = %q", name)
	}
}

func TestTextOutOfRange(t *testing.T) {
	doc := Parse([]byte("x"))
	n := doc.newNode("bogus", 3, 0, 3, 1)
	if _, err := n.Text(); !errors.Is(err, syntax.ErrNodeText) {
		t.Errorf("Text() error = %v, want ErrNodeText", err)
	}
}

type source struct {
	text string
	rev  uint64
}

func (s *source) Bytes() []byte    { return []byte(s.text) }
func (s *source) Revision() uint64 { return s.rev }

func TestParserCachesByRevision(t *testing.T) {
	src := &source{text: "* a"}
	p := NewParser(src)

	first := p.Document()
	if p.Document() != first {
		t.Error("same revision should reuse the document")
	}

	src.text, src.rev = "- b", 1
	tree, ok := p.Parse()
	if !ok {
		t.Fatal("Parse() reported no tree")
	}
	if got := tree.Root().(*Node).Children()[0].Type(); got != "unordered_list1" {
		t.Errorf("reparsed root child = %s", got)
	}

	if _, ok := NewParser(nil).Parse(); ok {
		t.Error("nil source should report no tree")
	}
}
