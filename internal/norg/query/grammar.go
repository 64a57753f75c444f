package query

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// sourceAST is a query document: a sequence of top-level patterns.
type sourceAST struct {
	Patterns []*patternAST `@@*`
}

// patternAST is a parenthesized group or an anonymous node string, followed
// by its captures.
type patternAST struct {
	Group    *groupAST `(  "(" @@ ")"`
	Anon     *string   ` | @String )`
	Captures []string  `@Capture*`
}

// groupAST is either a predicate like (#eq? @name "code") or a node pattern.
// A node pattern without a type wraps a single pattern with predicates.
// Every branch consumes at least one token.
type groupAST struct {
	Predicate string        `(   @Predicate`
	Args      []*argAST     `    @@*`
	Type      string        `  | @Ident`
	Children  []*patternAST `    @@* | @@+ )`
}

type argAST struct {
	Capture *string `  @Capture`
	String  *string `| @String`
}

var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Capture", Pattern: `@[A-Za-z_][A-Za-z0-9_.\-]*`},
	{Name: "Predicate", Pattern: `#[A-Za-z_\-]+[?!]?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[()]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var queryParser = participle.MustBuild[sourceAST](
	participle.Lexer(queryLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)
