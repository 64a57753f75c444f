package rule

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ZeroWidthJoiner replaces markup delimiters so the span keeps its text but
// the delimiters take no room.
const ZeroWidthJoiner = "\u200d"

// DefaultLineWidth is the width horizontal lines are drawn to when the host
// does not report one.
const DefaultLineWidth = 80

// Options tune the built-in table.
type Options struct {
	// LineWidth is the number of cells a horizontal line covers.
	LineWidth int
}

// Defaults returns the built-in Norg rule table.
func Defaults(opts Options) *Group {
	if opts.LineWidth <= 0 {
		opts.LineWidth = DefaultLineWidth
	}

	root := NewGroup()
	root.Set("todo", todoRules())
	root.Set("list", listRules())
	root.Set("ordered_list", orderedListRules())
	root.Set("quote", quoteRules())
	root.Set("heading", headingRules())
	root.Rule("marker", New("⚑", "NeorgMarker", "(marker_prefix) @icon"))
	root.Set("definition", prefixSuffixRules("definition", "≡", "⋙ ", "⋘ ", "NeorgDefinition"))
	root.Set("footnote", prefixSuffixRules("footnote", "⁎", "⁑ ", "⁑ ", "NeorgFootnote"))
	root.Set("delimiter", delimiterRules(opts.LineWidth))
	root.Set("markup", markupRules())
	// The icon is never drawn; code regions only paint a background.
	root.Rule("code_block", Rule{
		Enabled:   true,
		Icon:      " ",
		Highlight: "NeorgCodeBlock",
		Query:     "(ranged_tag) @icon",
		Behavior:  CodeRegion{Tag: "code"},
	})
	return root
}

func todoRules() *Group {
	g := NewGroup()
	states := []struct {
		name, node, icon, hl string
	}{
		{"done", "todo_item_done", "✓", "Done"},
		{"pending", "todo_item_pending", "-", "Pending"},
		{"undone", "todo_item_undone", "×", "Undone"},
		{"uncertain", "todo_item_uncertain", "?", "Uncertain"},
		{"on_hold", "todo_item_on_hold", "=", "OnHold"},
		{"cancelled", "todo_item_cancelled", "_", "Cancelled"},
		{"recurring", "todo_item_recurring", "↺", "Recurring"},
		{"urgent", "todo_item_urgent", "⚠", "Urgent"},
	}
	for _, s := range states {
		r := New(s.icon, "NeorgTodoItem"+s.hl+"Mark", "("+s.node+") @icon").
			WithOffset(BracketContent)
		g.Rule(s.name, r)
	}
	return g
}

// BracketContent locates the first character inside a "[x]" token.
func BracketContent(text string) (int, bool) {
	idx := strings.IndexByte(text, '[')
	if idx < 0 || idx+1 >= len(text) {
		return 0, false
	}
	return idx + 1, true
}

func listRules() *Group {
	g := NewGroup()
	for level := 1; level <= 6; level++ {
		icon := strings.Repeat(" ", level-1) + "•"
		g.Rule(fmt.Sprintf("level_%d", level), New(icon,
			fmt.Sprintf("NeorgUnorderedList%d", level),
			fmt.Sprintf("(unordered_list%d_prefix) @icon", level)))
	}
	return g
}

func orderedListRules() *Group {
	g := NewGroup()
	for level := 1; level <= 6; level++ {
		icon := strings.Repeat(" ", level-1) + "⒈"
		g.Rule(fmt.Sprintf("level_%d", level), New(icon,
			fmt.Sprintf("NeorgOrderedList%d", level),
			fmt.Sprintf("(ordered_list%d_prefix) @icon", level)))
	}
	return g
}

func quoteRules() *Group {
	g := NewGroup()
	for level := 1; level <= 6; level++ {
		r := New("│", fmt.Sprintf("NeorgQuote%d", level), fmt.Sprintf("(quote%d_prefix) @icon", level))
		if level > 1 {
			r = r.WithRender(QuoteBars(level))
		}
		g.Rule(fmt.Sprintf("level_%d", level), r)
	}
	return g
}

// QuoteBars draws one bar per nesting level. Outer levels use the
// NeorgQuote<n> highlight of their level; the last bar uses the rule's own.
func QuoteBars(level int) RenderFunc {
	return func(r Rule, _ string) []Segment {
		segs := make([]Segment, 0, level)
		for i := 1; i < level; i++ {
			segs = append(segs, Segment{Text: r.Icon, Highlight: fmt.Sprintf("NeorgQuote%d", i)})
		}
		return append(segs, Segment{Text: r.Icon, Highlight: r.Highlight})
	}
}

var headingIcons = []string{"◉", " ◎", "  ○", "   ✺", "    ▶", "     ⤷"}

func headingRules() *Group {
	g := NewGroup()
	for i, icon := range headingIcons {
		level := i + 1
		g.Rule(fmt.Sprintf("level_%d", level), New(icon,
			fmt.Sprintf("NeorgHeading%d", level),
			fmt.Sprintf("(heading%d_prefix) @icon", level)))
	}
	return g
}

func prefixSuffixRules(kind, single, prefix, suffix, hl string) *Group {
	g := NewGroup()
	g.Rule("single", New(single, hl, fmt.Sprintf("(single_%s_prefix) @icon", kind)))
	g.Rule("multi_prefix", New(prefix, hl, fmt.Sprintf("(multi_%s_prefix) @icon", kind)))
	g.Rule("multi_suffix", New(suffix, hl, fmt.Sprintf("(multi_%s_suffix) @icon", kind)))
	return g
}

func delimiterRules(width int) *Group {
	g := NewGroup()
	g.Rule("weak", New("⟨", "NeorgWeakParagraphDelimiter", "(weak_paragraph_delimiter) @icon").
		WithRender(FillMatch))
	g.Rule("strong", New("⟪", "NeorgStrongParagraphDelimiter", "(strong_paragraph_delimiter) @icon").
		WithRender(FillMatch))
	g.Rule("horizontal_line", New("─", "NeorgHorizontalLine", "(horizontal_line) @icon").
		WithRender(FillWidth(width)))
	return g
}

// FillMatch repeats the icon once per character of the matched text.
func FillMatch(r Rule, text string) []Segment {
	n := utf8.RuneCountInString(strings.TrimRight(text, "\n"))
	if n < 1 {
		n = 1
	}
	return []Segment{{Text: strings.Repeat(r.Icon, n), Highlight: r.Highlight}}
}

// FillWidth repeats the icon across width cells.
func FillWidth(width int) RenderFunc {
	return func(r Rule, _ string) []Segment {
		return []Segment{{Text: strings.Repeat(r.Icon, width), Highlight: r.Highlight}}
	}
}

func markupRules() *Group {
	g := NewGroup()
	kinds := []struct {
		name, hl string
		delim    rune
	}{
		{"bold", "Bold", '*'},
		{"italic", "Italic", '/'},
		{"underline", "Underline", '_'},
		{"strikethrough", "StrikeThrough", '-'},
		{"spoiler", "Spoiler", '!'},
		{"verbatim", "Verbatim", '`'},
		{"superscript", "Superscript", '^'},
		{"subscript", "Subscript", ','},
	}
	for _, k := range kinds {
		r := New(ZeroWidthJoiner, "NeorgMarkup"+k.hl, fmt.Sprintf("(%s) @icon", k.name)).
			WithRender(ReplaceDelimiters(k.delim)).
			AsVolatile()
		g.Rule(k.name, r)
	}
	return g
}

// ReplaceDelimiters keeps the inner text of a markup span and substitutes
// the rule's icon for the opening and closing delimiter.
func ReplaceDelimiters(delim rune) RenderFunc {
	return func(r Rule, text string) []Segment {
		inner := text
		opened, closed := false, false
		if first, size := utf8.DecodeRuneInString(inner); first == delim {
			inner = inner[size:]
			opened = true
		}
		if last, size := utf8.DecodeLastRuneInString(inner); last == delim && inner != "" {
			inner = inner[:len(inner)-size]
			closed = true
		}
		var b strings.Builder
		if opened {
			b.WriteString(r.Icon)
		}
		b.WriteString(inner)
		if closed {
			b.WriteString(r.Icon)
		}
		return []Segment{{Text: b.String(), Highlight: r.Highlight}}
	}
}
