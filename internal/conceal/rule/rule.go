// Package rule defines concealment rules, the nested rule table they live in,
// and the resolver that flattens the table into the active rule sets.
package rule

import "strings"

// PathSeparator joins table keys into a rule's dotted path.
const PathSeparator = "."

// Segment is one piece of text drawn by an overlay together with the
// highlight group it is drawn in.
type Segment struct {
	Text      string
	Highlight string
}

// OffsetFunc computes a column offset into a matched span from the matched
// text. Returning false is treated as an offset of zero.
type OffsetFunc func(text string) (int, bool)

// RenderFunc composes the segments drawn for a match from the rule and the
// matched text.
type RenderFunc func(r Rule, text string) []Segment

// Behavior selects how a rule turns a match into an overlay. It is one of
// Simple, Offset, Composite or CodeRegion.
type Behavior interface {
	behavior()
}

// Simple draws the rule's icon at the start of the match.
type Simple struct{}

// Offset draws the rule's icon at a column computed from the matched text.
type Offset struct {
	Fn OffsetFunc
}

// Composite draws the segments returned by Render. Anchor, when set,
// shifts the overlay like Offset does.
type Composite struct {
	Render RenderFunc
	Anchor OffsetFunc
}

// CodeRegion paints a whole-line background over every row of a ranged tag
// named Tag instead of drawing an icon.
type CodeRegion struct {
	Tag string
}

func (Simple) behavior()     {}
func (Offset) behavior()     {}
func (Composite) behavior()  {}
func (CodeRegion) behavior() {}

// Rule binds a tree query to the icon drawn over its matches.
// Rules are values and are not modified after the table is loaded.
type Rule struct {
	// Path is the dotted position of the rule in the table, e.g. "heading.level_2".
	// It is filled in by the resolver.
	Path string

	Enabled   bool
	Icon      string
	Highlight string
	Query     string
	Volatile  bool
	Behavior  Behavior
}

// New creates an enabled rule with Simple behavior.
func New(icon, highlight, query string) Rule {
	return Rule{
		Enabled:   true,
		Icon:      icon,
		Highlight: highlight,
		Query:     query,
		Behavior:  Simple{},
	}
}

// WithOffset returns a copy of r that anchors its icon using fn.
func (r Rule) WithOffset(fn OffsetFunc) Rule {
	if c, ok := r.Behavior.(Composite); ok {
		c.Anchor = fn
		r.Behavior = c
		return r
	}
	r.Behavior = Offset{Fn: fn}
	return r
}

// WithRender returns a copy of r that draws the segments produced by fn.
// An offset previously set with WithOffset is kept as the anchor.
func (r Rule) WithRender(fn RenderFunc) Rule {
	var anchor OffsetFunc
	if o, ok := r.Behavior.(Offset); ok {
		anchor = o.Fn
	}
	r.Behavior = Composite{Render: fn, Anchor: anchor}
	return r
}

// AsVolatile returns a copy of r marked volatile.
func (r Rule) AsVolatile() Rule {
	r.Volatile = true
	return r
}

// Disabled returns a copy of r with Enabled cleared.
func (r Rule) Disabled() Rule {
	r.Enabled = false
	return r
}

// IsCodeRegion reports whether r paints code-region backgrounds.
func (r Rule) IsCodeRegion() bool {
	_, ok := r.Behavior.(CodeRegion)
	return ok
}

// Name returns the last segment of the rule's path.
func (r Rule) Name() string {
	idx := strings.LastIndex(r.Path, PathSeparator)
	if idx < 0 {
		return r.Path
	}
	return r.Path[idx+1:]
}

// ColumnOffset resolves the offset behavior of r for the matched text.
// Rules without an offset function resolve to zero.
func (r Rule) ColumnOffset(text string) int {
	var fn OffsetFunc
	switch b := r.Behavior.(type) {
	case Offset:
		fn = b.Fn
	case Composite:
		fn = b.Anchor
	}
	if fn == nil {
		return 0
	}
	off, ok := fn(text)
	if !ok {
		return 0
	}
	return off
}

// Segments resolves the render behavior of r for the matched text.
// Rules without a render function draw the single segment (Icon, Highlight).
func (r Rule) Segments(text string) []Segment {
	if c, ok := r.Behavior.(Composite); ok && c.Render != nil {
		return c.Render(r, text)
	}
	return []Segment{{Text: r.Icon, Highlight: r.Highlight}}
}
