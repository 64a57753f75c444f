package rule

import (
	"errors"
	"fmt"
)

// ErrNotGroup is returned when a path descends through a rule.
var ErrNotGroup = errors.New("path descends through a rule")

// Node is an entry of the rule table: either a *Group or a Leaf.
type Node interface {
	node()
}

// Leaf wraps a single rule in the table.
type Leaf struct {
	Rule Rule
}

// Entry is a named child of a group.
type Entry struct {
	Name string
	Node Node
}

// Group is a named collection of rules and nested groups. Disabling a group
// hides every rule beneath it.
type Group struct {
	Enabled  bool
	Children []Entry
}

func (Leaf) node()   {}
func (*Group) node() {}

// NewGroup creates an enabled, empty group.
func NewGroup() *Group {
	return &Group{Enabled: true}
}

// Set adds or replaces the child called name. Replacement keeps the
// child's original position.
func (g *Group) Set(name string, n Node) *Group {
	for i := range g.Children {
		if g.Children[i].Name == name {
			g.Children[i].Node = n
			return g
		}
	}
	g.Children = append(g.Children, Entry{Name: name, Node: n})
	return g
}

// Rule adds or replaces a leaf child.
func (g *Group) Rule(name string, r Rule) *Group {
	return g.Set(name, Leaf{Rule: r})
}

// Child returns the child called name.
func (g *Group) Child(name string) (Node, bool) {
	for _, e := range g.Children {
		if e.Name == name {
			return e.Node, true
		}
	}
	return nil, false
}

// Lookup walks a dotted path from g.
func (g *Group) Lookup(path string) (Node, bool) {
	cur := g
	segs := splitPath(path)
	for i, seg := range segs {
		n, ok := cur.Child(seg)
		if !ok {
			return nil, false
		}
		if i == len(segs)-1 {
			return n, true
		}
		next, ok := n.(*Group)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// SetEnabled toggles the group or rule at path. It reports whether the path exists.
func (g *Group) SetEnabled(path string, enabled bool) bool {
	n, ok := g.Lookup(path)
	if !ok {
		return false
	}
	switch v := n.(type) {
	case *Group:
		v.Enabled = enabled
	case Leaf:
		v.Rule.Enabled = enabled
		parent, name := g.parentOf(path)
		parent.Set(name, v)
	}
	return true
}

// Put stores r at path, creating missing intermediate groups.
func (g *Group) Put(path string, r Rule) error {
	segs := splitPath(path)
	cur := g
	for _, seg := range segs[:len(segs)-1] {
		n, ok := cur.Child(seg)
		if !ok {
			next := NewGroup()
			cur.Set(seg, next)
			cur = next
			continue
		}
		next, ok := n.(*Group)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotGroup, path)
		}
		cur = next
	}
	cur.Rule(segs[len(segs)-1], r)
	return nil
}

// Clone returns a deep copy of the group tree. Rules are values and are copied.
func (g *Group) Clone() *Group {
	out := &Group{Enabled: g.Enabled, Children: make([]Entry, 0, len(g.Children))}
	for _, e := range g.Children {
		switch v := e.Node.(type) {
		case *Group:
			out.Children = append(out.Children, Entry{Name: e.Name, Node: v.Clone()})
		default:
			out.Children = append(out.Children, e)
		}
	}
	return out
}

func (g *Group) parentOf(path string) (*Group, string) {
	segs := splitPath(path)
	cur := g
	for _, seg := range segs[:len(segs)-1] {
		n, _ := cur.Child(seg)
		cur = n.(*Group)
	}
	return cur, segs[len(segs)-1]
}

func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == PathSeparator[0] {
			segs = append(segs, path[start:i])
			start = i + 1
		}
	}
	return append(segs, path[start:])
}
