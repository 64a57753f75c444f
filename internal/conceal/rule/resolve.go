package rule

// Set holds the two resolved rule classes.
type Set struct {
	Persistent []Rule
	Volatile   []Rule
}

// Len returns the total number of active rules.
func (s Set) Len() int {
	return len(s.Persistent) + len(s.Volatile)
}

// ResolveSet flattens root into its persistent and volatile rule lists.
func ResolveSet(root *Group) Set {
	return Set{
		Persistent: Resolve(root, false),
		Volatile:   Resolve(root, true),
	}
}

// Resolve flattens the table depth-first into the enabled rules whose
// volatile flag equals volatile. A disabled group is skipped without
// visiting its children, so nothing beneath it is ever returned. Rules
// without an icon are dropped. The returned rules carry their dotted Path.
func Resolve(root *Group, volatile bool) []Rule {
	if root == nil {
		return nil
	}
	var out []Rule
	resolveInto(&out, root, "", volatile)
	return out
}

// ResolvePaths is Resolve keyed by dotted path.
func ResolvePaths(root *Group, volatile bool) map[string]Rule {
	rules := Resolve(root, volatile)
	m := make(map[string]Rule, len(rules))
	for _, r := range rules {
		m[r.Path] = r
	}
	return m
}

func resolveInto(out *[]Rule, g *Group, prefix string, volatile bool) {
	if !g.Enabled {
		return
	}
	for _, e := range g.Children {
		path := e.Name
		if prefix != "" {
			path = prefix + PathSeparator + e.Name
		}
		switch n := e.Node.(type) {
		case *Group:
			resolveInto(out, n, path, volatile)
		case Leaf:
			r := n.Rule
			if !r.Enabled || r.Icon == "" || r.Volatile != volatile {
				continue
			}
			r.Path = path
			*out = append(*out, r)
		}
	}
}
