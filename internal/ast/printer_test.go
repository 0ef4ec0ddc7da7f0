package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiteralPrinting(t *testing.T) {
	t.Run("Atom", func(t *testing.T) {
		assert.Equal(t, ":ok", (&Literal{Kind: AtomLit, Value: "ok"}).String())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, `"hello"`, (&Literal{Kind: StringLit, Value: "hello"}).String())
	})

	t.Run("Nil", func(t *testing.T) {
		lit := &Literal{Kind: NilLit, Value: "nil"}
		assert.Equal(t, "nil", lit.String())
		assert.True(t, lit.IsNil())
	})

	t.Run("Numeric", func(t *testing.T) {
		assert.True(t, (&Literal{Kind: IntLit, Value: "42"}).IsNumeric())
		assert.True(t, (&Literal{Kind: FloatLit, Value: "1.5"}).IsNumeric())
		assert.False(t, (&Literal{Kind: StringLit, Value: "42"}).IsNumeric())
	})
}

func TestTuplePrinting(t *testing.T) {
	tuple := &Tuple{Elements: []Node{
		&Literal{Kind: AtomLit, Value: "ok"},
		&Var{Name: "todo"},
	}}
	assert.Equal(t, "{:ok, todo}", tuple.String())
}

func TestBindPrinting(t *testing.T) {
	bind := &Bind{
		Pattern: &PTuple{Elements: []Pattern{
			&PLiteral{Kind: AtomLit, Value: "ok"},
			&PVar{Name: "user"},
		}},
		Value: &CallLocal{Name: "fetch", Args: []Node{&Var{Name: "id"}}},
	}
	assert.Equal(t, "{:ok, user} = fetch(id)", bind.String())
}

func TestCondPrinting(t *testing.T) {
	cond := &Cond{
		Condition: &Var{Name: "done"},
		Then:      &Block{Stmts: []Node{&Literal{Kind: AtomLit, Value: "done"}}},
		Else:      &Block{Stmts: []Node{&Literal{Kind: AtomLit, Value: "active"}}},
	}
	assert.Equal(t, "if done do\n  :done\nelse\n  :active\nend", cond.String())
}

func TestCasePrinting(t *testing.T) {
	c := &Case{
		Subject: &Var{Name: "status"},
		Clauses: []*CaseClause{
			{
				Pattern: &PLiteral{Kind: AtomLit, Value: "done"},
				Body:    &Block{Stmts: []Node{&Literal{Kind: AtomLit, Value: "active"}}},
			},
			{
				Pattern: &PVar{Name: "other"},
				Body:    &Block{Stmts: []Node{&Literal{Kind: AtomLit, Value: "done"}}},
			},
		},
	}
	expected := "case status do\n  :done -> :active\n  other -> :done\nend"
	assert.Equal(t, expected, c.String())
}

func TestInterpPrinting(t *testing.T) {
	i := &Interp{Segments: []InterpSeg{
		{Text: "Hello "},
		{Expr: &Var{Name: "name"}},
		{Text: "!"},
	}}
	assert.Equal(t, `"Hello #{name}!"`, i.String())
}

func TestStructUpdatePrinting(t *testing.T) {
	u := &StructUpdate{
		Target: &Var{Name: "todo"},
		Entries: []*MapEntry{
			{Key: &Literal{Kind: AtomLit, Value: "done"}, Value: &Literal{Kind: BoolLit, Value: "true"}},
		},
	}
	assert.Equal(t, "%{todo | done: true}", u.String())
}

func TestPipePrinting(t *testing.T) {
	p := &Pipe{
		Left: &Var{Name: "todos"},
		Right: &CallRemote{Module: "Enum", Name: "filter", Args: []Node{
			&Var{Name: "pred"},
		}},
	}
	assert.Equal(t, "todos |> Enum.filter(pred)", p.String())
}

func TestPatternPrinting(t *testing.T) {
	t.Run("Pin", func(t *testing.T) {
		assert.Equal(t, "^filter", (&PPin{Name: "filter"}).String())
	})

	t.Run("Alias", func(t *testing.T) {
		p := &PAlias{
			Name: "todo",
			Pattern: &PStruct{Module: "Todo", Entries: []*PMapEntry{
				{Key: &Literal{Kind: AtomLit, Value: "done"}, Value: &PLiteral{Kind: BoolLit, Value: "true"}},
			}},
		}
		assert.Equal(t, "%Todo{done: true} = todo", p.String())
	})

	t.Run("Cons", func(t *testing.T) {
		p := &PCons{Head: &PVar{Name: "first"}, Tail: &PVar{Name: "rest"}}
		assert.Equal(t, "[first | rest]", p.String())
	})

	t.Run("Binary", func(t *testing.T) {
		p := &PBinary{Segments: []*PBitSeg{
			{Value: &PVar{Name: "len"}, Size: &Literal{Kind: IntLit, Value: "16"}},
			{Value: &PVar{Name: "rest"}, Type: "binary"},
		}}
		assert.Equal(t, "<<len::16, rest::binary>>", p.String())
	})
}

func TestDefPrinting(t *testing.T) {
	d := &Def{
		Name:   "toggle",
		Params: []Pattern{&PVar{Name: "todo"}},
		Body: &Block{Stmts: []Node{
			&FieldAccess{Target: &Var{Name: "todo"}, Field: "status"},
		}},
	}
	assert.Equal(t, "def toggle(todo) do\n  todo.status\nend", d.String())
}

func TestModulePrinting(t *testing.T) {
	m := &ModuleDef{
		Name: "TodoLive",
		Body: []Node{
			&Def{
				Name:   "mount",
				Params: []Pattern{&PVar{Name: "socket"}},
				Body:   &Block{Stmts: []Node{&Var{Name: "socket"}}},
			},
		},
	}
	expected := "defmodule TodoLive do\n  def mount(socket) do\n    socket\n  end\nend"
	assert.Equal(t, expected, m.String())
}
