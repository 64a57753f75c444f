package config

import (
	"errors"
	"fmt"

	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/script"
)

// ErrNoScripting is returned for extract or render chunks when no Lua state
// was supplied.
var ErrNoScripting = errors.New("scripted callbacks are unavailable")

// RuleOptions returns the options the default table is built with.
func (c *Config) RuleOptions() rule.Options {
	if c == nil {
		return rule.Options{}
	}
	return rule.Options{LineWidth: c.LineWidth}
}

// Apply overlays cfg on root in entry order. Toggle-only entries flip the
// enabled flag of an existing group or rule; other entries update the rule
// at their path or create it. Failing entries are skipped and reported
// together.
func Apply(root *rule.Group, cfg *Config, scripts *script.State) error {
	if cfg == nil {
		return nil
	}
	var errs []error
	for _, e := range cfg.Entries {
		if err := applyEntry(root, e, scripts); err != nil {
			errs = append(errs, &EntryError{Path: e.Path, Err: err})
		}
	}
	return errors.Join(errs...)
}

func applyEntry(root *rule.Group, e Entry, scripts *script.State) error {
	if !e.Defines() {
		if e.Enabled == nil {
			return fmt.Errorf("%w: entry sets nothing", ErrInvalidValue)
		}
		if !root.SetEnabled(e.Path, *e.Enabled) {
			return ErrUnknownPath
		}
		return nil
	}

	var r rule.Rule
	n, _ := root.Lookup(e.Path)
	switch v := n.(type) {
	case rule.Leaf:
		r = v.Rule
	case *rule.Group:
		return fmt.Errorf("%w: %s is a group", ErrInvalidValue, e.Path)
	default:
		if e.Icon == nil || e.Query == nil {
			return ErrIncompleteRule
		}
		r = rule.New("", "", "")
	}

	if e.Enabled != nil {
		r.Enabled = *e.Enabled
	}
	if e.Icon != nil {
		r.Icon = *e.Icon
	}
	if e.Highlight != nil {
		r.Highlight = *e.Highlight
	}
	if e.Query != nil {
		r.Query = *e.Query
	}
	if e.Volatile != nil {
		r.Volatile = *e.Volatile
	}

	if e.Extract != "" || e.Render != "" {
		if scripts == nil {
			return ErrNoScripting
		}
	}
	if e.Extract != "" {
		fn, err := scripts.OffsetFunc(e.Path+".extract", e.Extract)
		if err != nil {
			return err
		}
		r = r.WithOffset(fn)
	}
	if e.Render != "" {
		fn, err := scripts.RenderFunc(e.Path+".render", e.Render)
		if err != nil {
			return err
		}
		r = r.WithRender(fn)
	}
	return root.Put(e.Path, r)
}
