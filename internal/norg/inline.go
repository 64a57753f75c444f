package norg

// Markup maps each attached-modifier delimiter to its node kind.
var Markup = map[byte]string{
	'*': "bold",
	'/': "italic",
	'_': "underline",
	'-': "strikethrough",
	'!': "spoiler",
	'`': "verbatim",
	'^': "superscript",
	',': "subscript",
}

// segment builds a paragraph_segment over cols [start, end) of row with its
// inline markup as children.
func (d *Document) segment(row, start, end int) *Node {
	seg := d.newNode("paragraph_segment", row, start, row, end)
	d.markup(seg, row, start, end)
	return seg
}

// markup scans [start, end) for attached modifiers. A modifier opens after
// whitespace or punctuation when followed by a non-space byte, and closes on
// the same delimiter preceded by a non-space byte and followed by
// whitespace, punctuation or the end of the segment. Verbatim content is not
// scanned further.
func (d *Document) markup(parent *Node, row, start, end int) {
	line := d.lines[row]
	for i := start; i < end; i++ {
		kind, ok := Markup[line[i]]
		if !ok || !opens(line, i, start, end) {
			continue
		}
		j := closing(line, i, end)
		if j < 0 {
			continue
		}
		n := d.newNode(kind, row, i, row, j+1)
		if kind != "verbatim" {
			d.markup(n, row, i+1, j)
		}
		parent.add(n)
		i = j
	}
}

func opens(line string, i, start, end int) bool {
	if i+1 >= end || isSpace(line[i+1]) || line[i+1] == line[i] {
		return false
	}
	return i == start || isSpace(line[i-1]) || isPunct(line[i-1])
}

func closing(line string, open, end int) int {
	c := line[open]
	for j := open + 2; j < end; j++ {
		if line[j] != c || isSpace(line[j-1]) {
			continue
		}
		if j+1 == end || isSpace(line[j+1]) || isPunct(line[j+1]) {
			return j
		}
	}
	return -1
}

func isPunct(c byte) bool {
	if _, ok := Markup[c]; ok {
		return true
	}
	switch c {
	case '.', ',', ';', ':', '!', '?', '(', ')', '[', ']', '{', '}', '"', '\'':
		return true
	}
	return false
}
