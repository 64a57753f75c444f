// Package match runs concealment rules against a syntax tree and reports
// the spans each rule applies to.
package match

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/concealer/internal/conceal/rule"
	"github.com/dshills/concealer/internal/logging"
	"github.com/dshills/concealer/internal/syntax"
)

// IconCapture is the capture name that marks the node an icon is drawn over.
const IconCapture = "icon"

// Match is a node selected by a rule.
type Match struct {
	Rule  rule.Rule
	Text  string
	Range syntax.Range
}

// Result is the outcome of running one rule.
type Result struct {
	Matches []Match

	// Skipped counts captures whose text could not be read.
	Skipped int
}

// Engine executes rule queries through a Querier.
type Engine struct {
	querier syntax.Querier
	logger  *logging.Logger
}

// NewEngine creates a match engine.
func NewEngine(q syntax.Querier, logger *logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{querier: q, logger: logger.WithComponent("match")}
}

// Run executes r against the whole tree. A query that fails to compile
// returns an error wrapping syntax.ErrQueryCompile and no matches. Captures
// other than IconCapture are ignored; unreadable captures are skipped.
func (e *Engine) Run(r rule.Rule, tree syntax.Tree) (Result, error) {
	var res Result
	if tree == nil {
		return res, nil
	}
	root := tree.Root()
	if root == nil {
		return res, nil
	}

	captures, err := e.query(r.Query, root)
	if err != nil {
		if !errors.Is(err, syntax.ErrQueryCompile) {
			err = fmt.Errorf("%w: %v", syntax.ErrQueryCompile, err)
		}
		return res, fmt.Errorf("rule %s: %w", r.Path, err)
	}

	region, isRegion := r.Behavior.(rule.CodeRegion)
	for _, c := range captures {
		if c.Name != IconCapture || c.Node == nil {
			continue
		}
		text, err := c.Node.Text()
		if err != nil {
			res.Skipped++
			e.logger.Debug("rule %s: skipping capture at %s: %v", r.Path, c.Node.Range(), err)
			continue
		}
		if isRegion && !HasTag(text, region.Tag) {
			continue
		}
		res.Matches = append(res.Matches, Match{Rule: r, Text: text, Range: c.Node.Range()})
	}
	return res, nil
}

// query runs the querier, reporting a panic as an error.
func (e *Engine) query(src string, root syntax.Node) (captures []syntax.Capture, err error) {
	defer func() {
		if p := recover(); p != nil {
			captures, err = nil, fmt.Errorf("querier panicked: %v", p)
		}
	}()
	return e.querier.Run(src, root)
}

// HasTag reports whether a ranged tag's text opens with @tag.
func HasTag(text, tag string) bool {
	text = strings.TrimLeft(text, " \t")
	prefix := "@" + tag
	if !strings.HasPrefix(text, prefix) {
		return false
	}
	rest := text[len(prefix):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r'
}
