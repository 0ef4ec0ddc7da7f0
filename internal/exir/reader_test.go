package exir

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exalt/internal/ast"
)

const moduleExample = `
(module Todo
  (def toggle [(pvar todo)]
    (block
      (bind (pvar status) (field (var todo) status))
      (case (var status)
        (clause (plit :done) (atom :active))
        (clause (pvar other) (atom :done))))))
`

func TestParseModule(t *testing.T) {
	n, err := Parse("toggle.exir", moduleExample)
	require.NoError(t, err)

	mod, ok := n.(*ast.ModuleDef)
	require.True(t, ok)
	assert.Equal(t, "Todo", mod.Name)
	require.Len(t, mod.Body, 1)

	def, ok := mod.Body[0].(*ast.Def)
	require.True(t, ok)
	assert.Equal(t, "toggle", def.Name)
	assert.False(t, def.Private)
	require.Len(t, def.Params, 1)
	assert.Equal(t, "todo", def.Params[0].(*ast.PVar).Name)

	require.Len(t, def.Body.Stmts, 2)
	bind, ok := def.Body.Stmts[0].(*ast.Bind)
	require.True(t, ok)
	assert.Equal(t, "todo.status", bind.Value.String())

	c, ok := def.Body.Stmts[1].(*ast.Case)
	require.True(t, ok)
	require.Len(t, c.Clauses, 2)
	lit, ok := c.Clauses[0].Pattern.(*ast.PLiteral)
	require.True(t, ok)
	assert.Equal(t, ast.AtomLit, lit.Kind)
	assert.Equal(t, "done", lit.Value)
	assert.Equal(t, "other", c.Clauses[1].Pattern.(*ast.PVar).Name)
}

func TestParseFlags(t *testing.T) {
	n, err := Parse("t", `(cond ^from_return (var ok?) (block (atom :halt)))`)
	require.NoError(t, err)
	cond := n.(*ast.Cond)
	assert.True(t, ast.IsFromEarlyReturn(cond))
	assert.Nil(t, cond.Else)

	n, err = Parse("t", `(cond ^from_loop ^loop_acc=count (var more?) (block (var count)))`)
	require.NoError(t, err)
	assert.True(t, ast.IsFromLoop(n))
	assert.Equal(t, "count", ast.HintOf(n, "loop_acc"))

	n, err = Parse("t", `(rcall ^mutates List delete (var todos) (var todo))`)
	require.NoError(t, err)
	assert.True(t, ast.MutatesArg(n))
}

// Bare names read as variables in expression position and binders in
// pattern position, matching the builder's shorthand output.
func TestParseShorthand(t *testing.T) {
	n, err := Parse("t", `(bind x (call fetch id))`)
	require.NoError(t, err)
	bind := n.(*ast.Bind)
	assert.Equal(t, "x", bind.Pattern.(*ast.PVar).Name)

	call := bind.Value.(*ast.CallLocal)
	assert.Equal(t, "fetch", call.Name)
	require.Len(t, call.Args, 1)
	assert.Equal(t, "id", call.Args[0].(*ast.Var).Name)

	n, err = Parse("t", `(list nil true 3 "all" :ok)`)
	require.NoError(t, err)
	elems := n.(*ast.ListLit).Elements
	require.Len(t, elems, 5)
	assert.Equal(t, ast.NilLit, elems[0].(*ast.Literal).Kind)
	assert.Equal(t, ast.BoolLit, elems[1].(*ast.Literal).Kind)
	assert.Equal(t, ast.IntLit, elems[2].(*ast.Literal).Kind)
	assert.Equal(t, ast.StringLit, elems[3].(*ast.Literal).Kind)
	assert.Equal(t, ast.AtomLit, elems[4].(*ast.Literal).Kind)
}

func TestParseGuardAndPatterns(t *testing.T) {
	src := `
(case (var m)
  (clause (ptuple (plit :ok) (pvar v)) (guard (binop > (var v) 0)) (var v))
  (clause (palias whole (pstruct Todo (pentry (atom :done) (plit true)))) (var whole))
  (clause (pcons first rest) (var first)))
`
	n, err := Parse("t", src)
	require.NoError(t, err)
	c := n.(*ast.Case)
	require.Len(t, c.Clauses, 3)

	tup := c.Clauses[0].Pattern.(*ast.PTuple)
	require.Len(t, tup.Elements, 2)
	require.NotNil(t, c.Clauses[0].Guard)
	assert.Equal(t, ">", c.Clauses[0].Guard.(*ast.BinOp).Op)

	alias := c.Clauses[1].Pattern.(*ast.PAlias)
	assert.Equal(t, "whole", alias.Name)
	st := alias.Pattern.(*ast.PStruct)
	assert.Equal(t, "Todo", st.Module)
	require.Len(t, st.Entries, 1)
	assert.Nil(t, c.Clauses[1].Guard)

	cons := c.Clauses[2].Pattern.(*ast.PCons)
	assert.Equal(t, "first", cons.Head.(*ast.PVar).Name)
	assert.Equal(t, "rest", cons.Tail.(*ast.PVar).Name)
}

func TestParseBinaryPattern(t *testing.T) {
	n, err := Parse("t", `(bind (pbinary (pseg len 16) (pseg rest _ binary)) (var data))`)
	require.NoError(t, err)
	bin := n.(*ast.Bind).Pattern.(*ast.PBinary)
	require.Len(t, bin.Segments, 2)

	assert.Equal(t, "len", bin.Segments[0].Value.(*ast.PVar).Name)
	require.NotNil(t, bin.Segments[0].Size)
	assert.Equal(t, "16", bin.Segments[0].Size.(*ast.Literal).Value)
	assert.Empty(t, bin.Segments[0].Type)

	assert.Nil(t, bin.Segments[1].Size)
	assert.Equal(t, "binary", bin.Segments[1].Type)
}

func TestParseWithReceiveTry(t *testing.T) {
	src := `
(with (wclause (ptuple (plit :ok) (pvar user)) (call fetch id))
      (wclause (ptuple (plit :ok) (pvar todo)) (call load user))
  (var todo)
  (welse (clause (ptuple (plit :error) (pvar reason)) (var reason))))
`
	n, err := Parse("t", src)
	require.NoError(t, err)
	w := n.(*ast.With)
	require.Len(t, w.Clauses, 2)
	require.Len(t, w.Else, 1)
	assert.Equal(t, "todo", w.Body.Terminal().(*ast.Var).Name)

	n, err = Parse("t", `(receive (clause (ptuple (plit :tick) (pvar n)) (var n)) (after 500 (atom :timeout)))`)
	require.NoError(t, err)
	r := n.(*ast.Receive)
	require.Len(t, r.Clauses, 1)
	require.NotNil(t, r.Timeout)
	assert.Equal(t, "500", r.Timeout.(*ast.Literal).Value)
	require.NotNil(t, r.OnTimeout)

	n, err = Parse("t", `(try (call risky) (rescue (pvar e) (atom :oops)) (after (call cleanup)))`)
	require.NoError(t, err)
	tr := n.(*ast.TryRescue)
	require.Len(t, tr.Rescues, 1)
	require.NotNil(t, tr.After)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("bad.exir", `(frobnicate 1)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown node head "frobnicate"`)
	assert.Contains(t, err.Error(), "bad.exir:1:1")

	_, err = Parse("bad.exir", `(cond ^bogus (var a) (var b))`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag ^bogus")

	_, err = Parse("bad.exir", `(block (var a)`)
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toggle.exir")
	require.NoError(t, os.WriteFile(path, []byte(moduleExample), 0o644))

	n, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Todo", n.(*ast.ModuleDef).Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.exir"))
	require.Error(t, err)
}
