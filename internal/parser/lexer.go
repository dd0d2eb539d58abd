package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer maps the raw string tokens out for our AST definitions.
// Basic whitespace elision is enough for our grammar.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Keyword", Pattern: `(?i)\b(?:roll|keep|select|toggle|all|bank|advice|oracle|hint|scores|board|help|quit|exit|tournament)\b`},
	{Name: "Ident", Pattern: `[a-zA-Z_][\w'-]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[,]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// Build creates our parser based on the struct tags in `ast.go`
func Build() *participle.Parser[Command] {
	return participle.MustBuild[Command](
		participle.Lexer(Lexer),
		participle.Elide("Whitespace"),
		participle.CaseInsensitive("Keyword"),
	)
}

var shared = Build()

// Parse reads one typed command. Failures come back as usage guidance.
func Parse(input string) (*Command, error) {
	cmd, err := shared.ParseString("", strings.TrimSpace(input))
	if err != nil {
		return nil, MapError(input, err)
	}
	return cmd, nil
}
