package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

var (
	// typeLexer splits type declarations into tokens. The trailing Other rule accepts any remaining
	// character so that discarded DDL clauses (DEFAULT now() + 1, CODEC(ZSTD(3)), ...) always lex;
	// the parser rejects Other tokens wherever a type is expected.
	typeLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "String", Pattern: `'(?:[^'\\]|\\.|'')*'`},
		{Name: "BacktickIdent", Pattern: "`(?:[^`\\\\]|\\\\.|``)*`"},
		{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.]*`},
		{Name: "Punct", Pattern: `[(),=\[\]{}]`},
		{Name: "Other", Pattern: `\S`},
	})

	symbols       = typeLexer.Symbols()
	tokWhitespace = symbols["Whitespace"]
	tokString     = symbols["String"]
	tokBacktick   = symbols["BacktickIdent"]
	tokNumber     = symbols["Number"]
	tokIdent      = symbols["Ident"]
	tokPunct      = symbols["Punct"]
)

// token is a lexed token with its byte range in the input.
type token struct {
	typ   lexer.TokenType
	value string
	start int
	end   int
}

func tokenize(input string) ([]token, error) {
	lex, err := typeLexer.LexString("", input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lex type declaration")
	}

	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "failed to lex type declaration")
	}

	tokens := make([]token, 0, len(raw))
	for _, t := range raw {
		if t.EOF() || t.Type == tokWhitespace {
			continue
		}

		tokens = append(tokens, token{
			typ:   t.Type,
			value: t.Value,
			start: t.Pos.Offset,
			end:   t.Pos.Offset + len(t.Value),
		})
	}

	return tokens, nil
}

func (t token) is(typ lexer.TokenType, value string) bool {
	return t.typ == typ && t.value == value
}

func (t token) isPunct(value string) bool {
	return t.is(tokPunct, value)
}

// opens reports whether t is an opening bracket of any kind.
func (t token) opens() bool {
	return t.isPunct("(") || t.isPunct("[") || t.isPunct("{")
}

// closes reports whether t is a closing bracket of any kind.
func (t token) closes() bool {
	return t.isPunct(")") || t.isPunct("]") || t.isPunct("}")
}

func (t token) isName() bool {
	return t.typ == tokIdent || t.typ == tokBacktick
}
