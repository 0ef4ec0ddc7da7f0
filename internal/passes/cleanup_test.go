package passes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exalt/internal/ast"
	"exalt/internal/diag"
)

func TestSentinelSweepDropsPlaceholders(t *testing.T) {
	tree := block(
		intl("0"),
		bind("x", local("fetch")),
		nill(),
		v("x"),
	)

	out := applyPass(&SentinelSweep{}, tree)

	b := out.(*ast.Block)
	require.Len(t, b.Stmts, 2)
	assert.Equal(t, "x = fetch()", b.Stmts[0].String())
}

func TestSentinelSweepKeepsTerminalLiteral(t *testing.T) {
	tree := block(local("side_effect"), intl("0"))

	out := applyPass(&SentinelSweep{}, tree)

	b := out.(*ast.Block)
	require.Len(t, b.Stmts, 2)
	assert.Equal(t, "0", b.Stmts[1].String())
}

func TestConstCondTakesTrueBranch(t *testing.T) {
	c := cond(booll(true), block(atom("yes")), block(atom("no")))

	out := applyPass(&ConstCond{}, c)

	b, ok := out.(*ast.Block)
	require.True(t, ok)
	assert.Equal(t, ":yes", b.Stmts[0].String())
}

func TestConstCondFalseWithoutElseIsNil(t *testing.T) {
	c := cond(booll(false), block(atom("yes")), nil)

	out := applyPass(&ConstCond{}, c)

	lit, ok := out.(*ast.Literal)
	require.True(t, ok)
	assert.True(t, lit.IsNil())
}

func TestNilElse(t *testing.T) {
	c := cond(v("ok?"), block(atom("yes")), block(nill()))

	out := applyPass(&NilElse{}, c)

	assert.Nil(t, out.(*ast.Cond).Else)
}

func TestIsNil(t *testing.T) {
	eq := &ast.BinOp{Op: "==", Left: v("todo"), Right: nill()}
	ne := &ast.BinOp{Op: "!=", Left: nill(), Right: v("todo")}

	assert.Equal(t, "is_nil(todo)", applyPass(&IsNil{}, eq).String())
	assert.Equal(t, "(not is_nil(todo))", applyPass(&IsNil{}, ne).String())
}

func TestEmptyCheck(t *testing.T) {
	eq := &ast.BinOp{Op: "==", Left: local("length", v("todos")), Right: intl("0")}
	ne := &ast.BinOp{Op: "!=", Left: intl("0"), Right: remote("Enum", "count", v("todos"))}

	assert.Equal(t, "Enum.empty?(todos)", applyPass(&EmptyCheck{}, eq).String())
	assert.Equal(t, "(not Enum.empty?(todos))", applyPass(&EmptyCheck{}, ne).String())
}

func TestEmptyCheckIgnoresOtherComparisons(t *testing.T) {
	cmp := &ast.BinOp{Op: "==", Left: local("length", v("todos")), Right: intl("3")}

	out := applyPass(&EmptyCheck{}, cmp)

	_, still := out.(*ast.BinOp)
	assert.True(t, still)
}

func TestSelfRebindDropsNoop(t *testing.T) {
	tree := block(
		bind("x", local("fetch")),
		bind("x", v("x")),
		v("x"),
	)

	out := applyPass(&SelfRebind{}, tree)

	b := out.(*ast.Block)
	require.Len(t, b.Stmts, 2)
}

func TestSelfRebindKeepsTerminalValue(t *testing.T) {
	tree := block(bind("x", local("fetch")), bind("x", v("x")))

	out := applyPass(&SelfRebind{}, tree)

	b := out.(*ast.Block)
	require.Len(t, b.Stmts, 2)
	assert.Equal(t, "x", b.Stmts[1].String())
}

func TestUnderscoreUnused(t *testing.T) {
	ctx := newTestContext()
	tree := block(
		bind("unused", local("fetch")),
		bind("kept", local("fetch")),
		v("kept"),
	)

	out := (&UnderscoreUnused{}).Apply(tree, ctx)

	b := out.(*ast.Block)
	assert.Equal(t, "_unused = fetch()", b.Stmts[0].String())
	assert.Equal(t, "kept = fetch()", b.Stmts[1].String())
	ds := ctx.Reporter.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeUnusedBinding, ds[0].Code)
}

func TestUnderscoreUnusedSeesSiblingsAfterNestedBlock(t *testing.T) {
	// result is bound inside a nested statement block and consumed by a
	// sibling after it; it must stay named.
	tree := block(
		block(bind("result", local("compute"))),
		local("render", v("result")),
	)

	out := applyPass(&UnderscoreUnused{}, tree)

	inner := out.(*ast.Block).Stmts[0].(*ast.Block)
	assert.Equal(t, "result = compute()", inner.Stmts[0].String())
}

func TestUnderscoreUnusedBranchBodiesStartClean(t *testing.T) {
	// A binding inside a conditional branch does not escape; a later
	// sibling of the conditional cannot keep it alive.
	tree := block(
		cond(v("ok?"), block(bind("tmp", local("compute")), atom("done")), nil),
		local("render", v("tmp")),
	)

	out := applyPass(&UnderscoreUnused{}, tree)

	branch := out.(*ast.Block).Stmts[0].(*ast.Cond).Then
	assert.Equal(t, "_tmp = compute()", branch.Stmts[0].String())
}

func TestUnderscoreUnusedTerminalBindKeepsValue(t *testing.T) {
	tree := block(bind("x", local("fetch")))

	out := applyPass(&UnderscoreUnused{}, tree)

	b := out.(*ast.Block)
	assert.Equal(t, "_x = fetch()", b.Stmts[0].String(), "the value stays, only the binder changes")
}

func TestUnderscoreUnusedClauseBinderInStatementPosition(t *testing.T) {
	// A terminal case in a def body sits in statement position, not on a
	// bind's right side; its clause binders still get suppressed.
	d := def("f", []ast.Pattern{pv("x")}, block(
		caseOf(v("x"),
			clause(ptuple(patom("ok"), pv("v")), block(atom("ok"))),
		),
	))

	out := applyPass(&UnderscoreUnused{}, d)

	c := out.(*ast.Def).Body.Stmts[0].(*ast.Case)
	assert.Equal(t, "{:ok, _v}", c.Clauses[0].Pattern.String())
}

func TestUnderscoreParams(t *testing.T) {
	d := def("handle", []ast.Pattern{pv("event"), pv("params"), pv("socket")}, block(
		local("reply", v("socket")),
	))

	out := applyPass(&UnderscoreParams{}, d)

	nd := out.(*ast.Def)
	assert.Equal(t, "_event", nd.Params[0].(*ast.PVar).Name)
	assert.Equal(t, "_params", nd.Params[1].(*ast.PVar).Name)
	assert.Equal(t, "socket", nd.Params[2].(*ast.PVar).Name)
}

func TestUnderscoreParamsCountsGuardReads(t *testing.T) {
	d := &ast.Def{Name: "f", Params: []ast.Pattern{pv("n")},
		Guard: &ast.BinOp{Op: ">", Left: v("n"), Right: intl("0")},
		Body:  block(atom("positive"))}

	out := applyPass(&UnderscoreParams{}, d)

	assert.Equal(t, "n", out.(*ast.Def).Params[0].(*ast.PVar).Name)
}

func TestSingletonBlockCollapsesValuePosition(t *testing.T) {
	tree := bind("x", block(local("fetch")))

	out := applyPass(&SingletonBlock{}, tree)

	assert.Equal(t, "x = fetch()", out.String())
}

func TestSingletonBlockKeepsBranchBlocks(t *testing.T) {
	tree := cond(v("ok?"), block(atom("yes")), nil)

	out := applyPass(&SingletonBlock{}, tree)

	c, ok := out.(*ast.Cond)
	require.True(t, ok)
	assert.NotNil(t, c.Then)
	assert.Len(t, c.Then.Stmts, 1)
}

func TestReservedWordsRenamesBinderAndReferences(t *testing.T) {
	ctx := newTestContext()
	tree := block(
		bind("case", local("fetch")),
		bind("other", v("case")),
		v("other"),
	)

	out := (&ReservedWords{}).Apply(tree, ctx)

	b := out.(*ast.Block)
	assert.Equal(t, "case_ = fetch()", b.Stmts[0].String())
	assert.Equal(t, "other = case_", b.Stmts[1].String())
	assert.Equal(t, "other", b.Stmts[2].String(), "non-colliding names stay put")
	ds := ctx.Reporter.Diagnostics()
	require.Len(t, ds, 1)
	assert.Equal(t, diag.CodeReservedWord, ds[0].Code)
}

func TestReservedWordsInClausePatterns(t *testing.T) {
	c := caseOf(v("msg"),
		clause(ptuple(patom("set"), pv("if")), block(v("if"))),
	)

	out := applyPass(&ReservedWords{}, c)

	nc := out.(*ast.Case)
	assert.Equal(t, "{:set, if_}", nc.Clauses[0].Pattern.String())
	assert.Equal(t, "if_", nc.Clauses[0].Body.Stmts[0].String())
}

func TestReservedWordsReachesRawText(t *testing.T) {
	// A renamed binder can be read from inside opaque passthrough text;
	// those reads follow the rename so they keep resolving.
	tree := block(
		bind("case", local("fetch")),
		&ast.Raw{Text: "send(self(), {:val, case})"},
	)

	out := applyPass(&ReservedWords{}, tree)

	b := out.(*ast.Block)
	assert.Equal(t, "case_ = fetch()", b.Stmts[0].String())
	assert.Equal(t, "send(self(), {:val, case_})", b.Stmts[1].(*ast.Raw).Text)
}

func TestDoubleUnderscore(t *testing.T) {
	tree := block(bind("__x", local("fetch")), atom("ok"))

	out := applyPass(&DoubleUnderscore{}, tree)

	assert.Equal(t, "_x = fetch()", out.(*ast.Block).Stmts[0].String())
}
