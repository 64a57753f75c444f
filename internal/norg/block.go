package norg

import (
	"strconv"
	"strings"
)

// TodoStates maps the character inside a todo box to its state name.
var TodoStates = map[byte]string{
	' ': "undone",
	'x': "done",
	'-': "pending",
	'?': "uncertain",
	'=': "on_hold",
	'_': "cancelled",
	'+': "recurring",
	'!': "urgent",
}

const maxLevel = 6

// rangedTag parses an "@name ... @end" block starting at row. It returns nil
// when the row does not open one.
func (d *Document) rangedTag(row int) (*Node, int) {
	line := d.lines[row]
	indent := leading(line)
	rest := line[indent:]
	if !strings.HasPrefix(rest, "@") || len(rest) < 2 || !isWordByte(rest[1]) {
		return nil, row
	}
	nameEnd := 1
	for nameEnd < len(rest) && rest[nameEnd] != ' ' && rest[nameEnd] != '\t' {
		nameEnd++
	}
	name := rest[1:nameEnd]
	if name == "end" {
		return nil, row
	}

	end := len(d.lines) - 1
	for r := row + 1; r < len(d.lines); r++ {
		if strings.TrimSpace(d.lines[r]) == "@end" {
			end = r
			break
		}
	}

	tag := d.newNode("ranged_tag", row, indent, end, len(d.lines[end]))
	tag.add(d.newNode("tag_name", row, indent+1, row, indent+nameEnd))
	if params := strings.TrimSpace(rest[nameEnd:]); params != "" {
		start := indent + nameEnd + strings.Index(rest[nameEnd:], params)
		tag.add(d.newNode("tag_parameters", row, start, row, start+len(params)))
	}
	closed := strings.TrimSpace(d.lines[end]) == "@end" && end > row
	contentEnd := end
	if closed {
		contentEnd = end - 1
	}
	if contentEnd > row {
		tag.add(d.newNode("ranged_tag_content", row+1, 0, contentEnd, len(d.lines[contentEnd])))
	}
	if closed {
		col := leading(d.lines[end])
		tag.add(d.newNode("ranged_tag_end", end, col, end, col+len("@end")))
	}
	return tag, end + 1
}

// line parses a single non-tag row. Blank rows yield nil.
func (d *Document) line(row int) *Node {
	line := d.lines[row]
	indent := leading(line)
	rest := line[indent:]
	if strings.TrimSpace(rest) == "" {
		return nil
	}

	if kind := delimiterKind(strings.TrimRight(rest, " \t")); kind != "" {
		return d.newNode(kind, row, indent, row, indent+len(strings.TrimRight(rest, " \t")))
	}

	for _, p := range prefixes {
		n := run(rest, p.char)
		if n == 0 || n >= len(rest) || !isSpace(rest[n]) {
			continue
		}
		if p.leveled {
			level := min(n, maxLevel)
			return d.nested(p.name+strconv.Itoa(level), row, indent, n)
		}
		switch n {
		case 1:
			return d.nested(p.name, row, indent, n)
		case 2:
			if p.multi != "" {
				return d.nested(p.multi, row, indent, n)
			}
		}
	}

	switch strings.TrimRight(rest, " \t") {
	case "$$":
		return d.newNode("multi_definition_suffix", row, indent, row, indent+2)
	case "^^":
		return d.newNode("multi_footnote_suffix", row, indent, row, indent+2)
	}

	return d.segment(row, indent, len(line))
}

type prefix struct {
	char    byte
	name    string
	multi   string
	leveled bool
}

var prefixes = []prefix{
	{char: '*', name: "heading", leveled: true},
	{char: '>', name: "quote", leveled: true},
	{char: '-', name: "unordered_list", leveled: true},
	{char: '~', name: "ordered_list", leveled: true},
	{char: '|', name: "marker"},
	{char: '$', name: "single_definition", multi: "multi_definition"},
	{char: '^', name: "single_footnote", multi: "multi_footnote"},
}

// nested builds a prefixed item: the prefix node covers the characters and
// the whitespace that follows them, then an optional todo box and the title.
func (d *Document) nested(kind string, row, indent, width int) *Node {
	line := d.lines[row]
	item := d.newNode(kind, row, indent, row, len(line))

	end := indent + width
	for end < len(line) && isSpace(line[end]) {
		end++
	}
	item.add(d.newNode(kind+"_prefix", row, indent, row, end))

	if todo := d.todo(row, end); todo != nil {
		item.add(todo)
		end = todo.rng.EndCol
		for end < len(line) && isSpace(line[end]) {
			end++
		}
	}
	if end < len(line) {
		item.add(d.segment(row, end, len(line)))
	}
	return item
}

// todo parses a "[x]" box at col.
func (d *Document) todo(row, col int) *Node {
	line := d.lines[row]
	if col+3 > len(line) || line[col] != '[' || line[col+2] != ']' {
		return nil
	}
	if col+3 < len(line) && !isSpace(line[col+3]) {
		return nil
	}
	state, ok := TodoStates[line[col+1]]
	if !ok {
		return nil
	}
	return d.newNode("todo_item_"+state, row, col, row, col+3)
}

func delimiterKind(s string) string {
	if len(s) < 3 {
		return ""
	}
	var kind string
	switch s[0] {
	case '-':
		kind = "weak_paragraph_delimiter"
	case '=':
		kind = "strong_paragraph_delimiter"
	case '_':
		kind = "horizontal_line"
	default:
		return ""
	}
	if run(s, s[0]) != len(s) {
		return ""
	}
	return kind
}

// run counts the repetitions of c at the start of s.
func run(s string, c byte) int {
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n
}

func leading(s string) int {
	n := 0
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	return n
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

func isWordByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
