package filter

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// filterAST is a whitespace-separated list of terms.
type filterAST struct {
	Pos   lexer.Position
	Terms []*termAST `parser:"@@*"`
}

// termAST is `[-][key(:|>|>=|<|<=)]value`. The lexer emits the key and its
// operator as a single Key token so no lookahead is needed.
type termAST struct {
	Pos     lexer.Position
	Negated bool   `parser:"@Minus?"`
	Key     string `parser:"@Key?"`
	Value   string `parser:"@(String | Date | Number | Word)"`
}

var filterLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "Key", Pattern: `[\p{L}_][\p{L}\p{M}\d_]*(?:>=|<=|:|>|<)`},
	{Name: "Date", Pattern: `\d{4}-\d{2}-\d{2}`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Minus", Pattern: `-`},
	{Name: "Word", Pattern: `[^\s"]+`},
})

var filterParser = participle.MustBuild[filterAST](
	participle.Lexer(filterLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)
