package exir

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var exirLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Comment", Pattern: `;[^\n]*`},

		{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
		{Name: "Atom", Pattern: `:[a-zA-Z_][a-zA-Z0-9_?!]*`},
		{Name: "Flag", Pattern: `\^[a-z_]+(=[a-zA-Z0-9_]+)?`},

		{Name: "Float", Pattern: `-?[0-9]+\.[0-9]+`},
		{Name: "Int", Pattern: `-?[0-9]+`},

		// Idents cover node heads, names, operators and dotted module paths.
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_?!.]*|<>|\|>|[-+*/<>=!]=?|and|or|not`},

		{Name: "Punct", Pattern: `[()\[\]]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	},
})
