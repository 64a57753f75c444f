package rule

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func paths(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Path
	}
	return out
}

func TestResolveFlattensDepthFirst(t *testing.T) {
	root := NewGroup()
	root.Set("heading", NewGroup().
		Rule("level_1", New("◉", "H1", "(heading1_prefix) @icon")).
		Rule("level_2", New("◎", "H2", "(heading2_prefix) @icon")))
	root.Rule("marker", New("⚑", "M", "(marker_prefix) @icon"))

	got := paths(Resolve(root, false))
	want := []string{"heading.level_1", "heading.level_2", "marker"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() paths mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveDisabledGroupPrunesSubtree(t *testing.T) {
	inner := NewGroup().Rule("deep", New("x", "X", "(x) @icon"))
	inner.Enabled = true

	group := NewGroup().
		Rule("a", New("a", "A", "(a) @icon")).
		Set("inner", inner)
	group.Enabled = false

	root := NewGroup().Set("group", group).Rule("other", New("o", "O", "(o) @icon"))

	got := ResolvePaths(root, false)
	for path := range got {
		if path != "other" {
			t.Errorf("Resolve() returned %q beneath a disabled group", path)
		}
	}
	if _, ok := got["other"]; !ok {
		t.Error("Resolve() dropped a sibling of the disabled group")
	}
}

func TestResolveFilters(t *testing.T) {
	root := NewGroup().
		Rule("no_icon", New("", "N", "(n) @icon")).
		Rule("disabled", New("d", "D", "(d) @icon").Disabled()).
		Rule("persistent", New("p", "P", "(p) @icon")).
		Rule("volatile", New("v", "V", "(v) @icon").AsVolatile())

	if got := paths(Resolve(root, false)); !cmp.Equal(got, []string{"persistent"}) {
		t.Errorf("Resolve(persistent) = %v, want [persistent]", got)
	}
	if got := paths(Resolve(root, true)); !cmp.Equal(got, []string{"volatile"}) {
		t.Errorf("Resolve(volatile) = %v, want [volatile]", got)
	}
}

func TestResolveNil(t *testing.T) {
	if got := Resolve(nil, false); got != nil {
		t.Errorf("Resolve(nil) = %v, want nil", got)
	}
}

func TestResolveSetDefaults(t *testing.T) {
	set := ResolveSet(Defaults(Options{}))
	if len(set.Persistent) == 0 {
		t.Fatal("default table resolved no persistent rules")
	}
	if len(set.Volatile) != 8 {
		t.Errorf("len(Volatile) = %d, want 8 markup rules", len(set.Volatile))
	}
	for _, r := range set.Volatile {
		if r.Path[:len("markup.")] != "markup." {
			t.Errorf("volatile rule %q outside markup group", r.Path)
		}
	}
	for _, r := range set.Persistent {
		if r.Icon == "" {
			t.Errorf("rule %q without icon was resolved", r.Path)
		}
	}
	if set.Len() != len(set.Persistent)+len(set.Volatile) {
		t.Error("Len() does not add up")
	}
}

func TestGroupSetEnabled(t *testing.T) {
	root := Defaults(Options{})

	if !root.SetEnabled("todo", false) {
		t.Fatal("SetEnabled(todo) reported missing path")
	}
	if !root.SetEnabled("todo.undone", true) {
		t.Fatal("SetEnabled(todo.undone) reported missing path")
	}
	for _, r := range Resolve(root, false) {
		if len(r.Path) >= 5 && r.Path[:5] == "todo." {
			t.Errorf("rule %q resolved beneath disabled todo group", r.Path)
		}
	}
	if root.SetEnabled("nope.nothing", true) {
		t.Error("SetEnabled on a missing path should report false")
	}

	root.SetEnabled("heading.level_1", false)
	if _, ok := ResolvePaths(root, false)["heading.level_1"]; ok {
		t.Error("disabled leaf was resolved")
	}
}

func TestGroupSetKeepsPosition(t *testing.T) {
	g := NewGroup().
		Rule("a", New("a", "", "(a) @icon")).
		Rule("b", New("b", "", "(b) @icon"))
	g.Rule("a", New("A", "", "(a) @icon"))

	if g.Children[0].Name != "a" {
		t.Fatalf("Children[0] = %q, want a", g.Children[0].Name)
	}
	leaf := g.Children[0].Node.(Leaf)
	if leaf.Rule.Icon != "A" {
		t.Errorf("replaced icon = %q, want A", leaf.Rule.Icon)
	}
}

func TestGroupCloneIsDeep(t *testing.T) {
	root := Defaults(Options{})
	clone := root.Clone()
	clone.SetEnabled("heading", false)

	n, _ := root.Lookup("heading")
	if !n.(*Group).Enabled {
		t.Error("disabling a clone's group changed the original")
	}
}

func TestGroupPut(t *testing.T) {
	root := NewGroup().Rule("leaf", New("l", "", "(l) @icon"))

	if err := root.Put("custom.deep.rule", New("c", "Custom", "(c) @icon")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	got := paths(Resolve(root, false))
	want := []string{"leaf", "custom.deep.rule"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	if err := root.Put("leaf.child", New("x", "", "(x) @icon")); !errors.Is(err, ErrNotGroup) {
		t.Errorf("Put() through a rule error = %v, want ErrNotGroup", err)
	}
}
