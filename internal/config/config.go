// Package config reads user overrides of the concealment rule table.
//
// A configuration file holds an icons table mirroring the rule tree and a
// legacy table of boolean toggles:
//
//	line_width = 100
//
//	[icons.todo]
//	enabled = false
//
//	[icons.heading.level_1]
//	icon = "§"
//
//	[icons.custom.tag]
//	icon = "#"
//	highlight = "NeorgTag"
//	query = "(tag_name) @icon"
//	extract = "return function(text) return 0 end"
//
//	[legacy]
//	links = true
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Entry is one table of the icons tree. Unset fields are nil or empty.
type Entry struct {
	Path      string
	Enabled   *bool
	Icon      *string
	Highlight *string
	Query     *string
	Volatile  *bool
	Extract   string
	Render    string
}

// Defines reports whether e describes a rule rather than only a toggle.
func (e Entry) Defines() bool {
	return e.Icon != nil || e.Highlight != nil || e.Query != nil ||
		e.Volatile != nil || e.Extract != "" || e.Render != ""
}

// Config is a decoded configuration file.
type Config struct {
	// Source names where the configuration was read from.
	Source string

	// LineWidth is the width delimiter rules fill to. Zero keeps the default.
	LineWidth int

	// Entries lists icons tables depth-first, parents before children.
	Entries []Entry

	// Legacy holds the pattern conceal toggles. They are passed through
	// unchanged to the legacy setup callback.
	Legacy map[string]bool
}

var ruleKeys = map[string]bool{
	"enabled": true, "icon": true, "highlight": true, "query": true,
	"volatile": true, "extract": true, "render": true,
}

// decode builds a Config from a generic document.
func decode(source string, doc map[string]any) (*Config, error) {
	cfg := &Config{Source: source, Legacy: map[string]bool{}}
	for _, key := range sortedKeys(doc) {
		val := doc[key]
		switch key {
		case "line_width":
			n, ok := toInt(val)
			if !ok || n < 0 {
				return nil, fmt.Errorf("line_width: %w: %v", ErrInvalidValue, val)
			}
			cfg.LineWidth = n
		case "icons":
			tbl, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("icons: %w: want a table", ErrInvalidValue)
			}
			for _, name := range sortedKeys(tbl) {
				if err := cfg.walk(name, tbl[name]); err != nil {
					return nil, err
				}
			}
		case "legacy":
			tbl, ok := val.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("legacy: %w: want a table", ErrInvalidValue)
			}
			for name, v := range tbl {
				b, ok := v.(bool)
				if !ok {
					return nil, fmt.Errorf("legacy.%s: %w: want a boolean", name, ErrInvalidValue)
				}
				cfg.Legacy[name] = b
			}
		default:
			return nil, fmt.Errorf("%s: %w: unknown setting", key, ErrInvalidValue)
		}
	}
	return cfg, nil
}

func (c *Config) walk(path string, val any) error {
	tbl, ok := val.(map[string]any)
	if !ok {
		return &EntryError{Path: path, Err: fmt.Errorf("%w: want a table", ErrInvalidValue)}
	}

	idx := len(c.Entries)
	c.Entries = append(c.Entries, Entry{Path: path})

	var children []string
	for _, key := range sortedKeys(tbl) {
		if !ruleKeys[key] {
			children = append(children, key)
			continue
		}
		if err := c.Entries[idx].set(key, tbl[key]); err != nil {
			return &EntryError{Path: path, Err: err}
		}
	}
	if !c.Entries[idx].Defines() && c.Entries[idx].Enabled == nil {
		c.Entries = slices.Delete(c.Entries, idx, idx+1)
	}
	for _, key := range children {
		if err := c.walk(path+"."+key, tbl[key]); err != nil {
			return err
		}
	}
	return nil
}

func (e *Entry) set(key string, val any) error {
	switch key {
	case "enabled", "volatile":
		b, ok := val.(bool)
		if !ok {
			return fmt.Errorf("%s: %w: want a boolean", key, ErrInvalidValue)
		}
		if key == "enabled" {
			e.Enabled = &b
		} else {
			e.Volatile = &b
		}
		return nil
	}

	s, ok := val.(string)
	if !ok {
		return fmt.Errorf("%s: %w: want a string", key, ErrInvalidValue)
	}
	switch key {
	case "icon":
		e.Icon = &s
	case "highlight":
		e.Highlight = &s
	case "query":
		e.Query = &s
	case "extract":
		e.Extract = strings.TrimSpace(s)
	case "render":
		e.Render = strings.TrimSpace(s)
	}
	return nil
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
