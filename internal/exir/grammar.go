package exir

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// The textual form is a keyword-led s-expression per node, with metadata
// flags attached to the head: (cond ^from_return (var ok?) (block ...)).
// The grammar only recognizes the surface shape; node heads are resolved by
// the reader so an unknown head is a reader error with a position, not a
// grammar ambiguity.

type document struct {
	Expr *sexpr `parser:"@@"`
}

type sexpr struct {
	Pos lexer.Position

	List   *list   `parser:"  @@"`
	Vec    *vec    `parser:"| @@"`
	Atom   *string `parser:"| @Atom"`
	String *string `parser:"| @String"`
	Float  *string `parser:"| @Float"`
	Int    *string `parser:"| @Int"`
	Sym    *string `parser:"| @Ident"`
}

type list struct {
	Pos   lexer.Position
	Head  string   `parser:"'(' @Ident"`
	Flags []string `parser:"@Flag*"`
	Items []*sexpr `parser:"@@* ')'"`
}

// vec groups parameter and segment lists: (def name [(pvar a) (pvar b)] ...).
type vec struct {
	Pos   lexer.Position
	Items []*sexpr `parser:"'[' @@* ']'"`
}
