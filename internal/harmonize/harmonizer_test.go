package harmonize

import (
	"fmt"
	"testing"

	"exalt/internal/ast"
	"exalt/internal/scope"

	"github.com/stretchr/testify/assert"
)

func body(stmts ...ast.Node) *ast.Block {
	return &ast.Block{Stmts: stmts}
}

func v(name string) *ast.Var { return &ast.Var{Name: name} }

func TestHarmonizeRenamesSoleUndefined(t *testing.T) {
	pat := &ast.PVar{Name: "_value"}
	b := body(&ast.CallLocal{Name: "track", Args: []ast.Node{v("todo")}})

	newPat, _, changed := Harmonize(pat, b, scope.NewNameSet())

	assert.True(t, changed)
	assert.Equal(t, "todo", newPat.(*ast.PVar).Name)
}

func TestHarmonizeRewritesOldReferences(t *testing.T) {
	// Binder x is read once, but the body also reads undefined y: the
	// binder becomes y and the stale x reads follow it.
	pat := &ast.PVar{Name: "x"}
	b := body(
		&ast.CallLocal{Name: "track", Args: []ast.Node{v("x")}},
		&ast.CallLocal{Name: "emit", Args: []ast.Node{v("y")}},
	)

	newPat, newBody, changed := Harmonize(pat, b, scope.NewNameSet())

	assert.True(t, changed)
	assert.Equal(t, "y", newPat.(*ast.PVar).Name)
	free := scope.ReferencedNames(newBody)
	assert.False(t, free.Has("x"))
	assert.True(t, free.Has("y"))
}

func TestHarmonizeNoUndefinedIsNoop(t *testing.T) {
	pat := &ast.PVar{Name: "todo"}
	b := body(&ast.FieldAccess{Target: v("todo"), Field: "done"})

	_, _, changed := Harmonize(pat, b, scope.NewNameSet())
	assert.False(t, changed)
}

func TestHarmonizeAmbiguityIsNoop(t *testing.T) {
	pat := &ast.PVar{Name: "_value"}
	b := body(
		&ast.CallLocal{Name: "track", Args: []ast.Node{v("todo")}},
		&ast.CallLocal{Name: "emit", Args: []ast.Node{v("user")}},
	)

	newPat, _, changed := Harmonize(pat, b, scope.NewNameSet())
	assert.False(t, changed, "two undefined names must never be guessed between")
	assert.Equal(t, "_value", newPat.(*ast.PVar).Name)
}

func TestHarmonizeZeroOneMany(t *testing.T) {
	// Property sweep over the number of undefined free names: only exactly
	// one triggers a repair.
	for _, count := range []int{0, 1, 2, 3, 5} {
		t.Run(fmt.Sprintf("undefined=%d", count), func(t *testing.T) {
			stmts := []ast.Node{&ast.CallLocal{Name: "use", Args: []ast.Node{v("bound")}}}
			for i := 0; i < count; i++ {
				stmts = append(stmts, &ast.CallLocal{Name: "use", Args: []ast.Node{v(fmt.Sprintf("free%d", i))}})
			}
			_, _, changed := Harmonize(&ast.PVar{Name: "bound"}, body(stmts...), scope.NewNameSet())
			assert.Equal(t, count == 1, changed)
		})
	}
}

func TestHarmonizeNeverCapturesEnclosingBinding(t *testing.T) {
	// "socket" is bound by an enclosing scope; the body legitimately closes
	// over it. The binder must stay untouched even though socket is free
	// relative to the body alone.
	pat := &ast.PVar{Name: "_ignored"}
	b := body(&ast.FieldAccess{Target: v("socket"), Field: "assigns"})

	_, _, changed := Harmonize(pat, b, scope.NewNameSet("socket"))
	assert.False(t, changed)
}

func TestHarmonizeShapeGuard(t *testing.T) {
	// The stale binder is used arithmetically (scalar) while the undefined
	// name is used as a struct (aggregate): renaming would type-confuse.
	pat := &ast.PVar{Name: "count"}
	b := body(
		&ast.BinOp{Op: "+", Left: v("count"), Right: &ast.Literal{Kind: ast.IntLit, Value: "1"}},
		&ast.FieldAccess{Target: v("todo"), Field: "done"},
	)

	_, _, changed := Harmonize(pat, b, scope.NewNameSet())
	assert.False(t, changed)
}

func TestHarmonizePriorityTieBreak(t *testing.T) {
	pat := &ast.PVar{Name: "_payload"}
	b := body(
		&ast.CallLocal{Name: "log", Args: []ast.Node{v("reason")}},
		&ast.CallLocal{Name: "log", Args: []ast.Node{v("extra")}},
	)

	t.Run("WithoutPriorityRefuses", func(t *testing.T) {
		_, _, changed := Harmonize(pat, b, scope.NewNameSet())
		assert.False(t, changed)
	})

	t.Run("PriorityPicksConventionalName", func(t *testing.T) {
		newPat, _, changed := HarmonizeWith(pat, b, scope.NewNameSet(), Options{Priority: DefaultPriority})
		assert.True(t, changed)
		assert.Equal(t, "reason", newPat.(*ast.PVar).Name)
	})

	t.Run("TwoPriorityHitsRefuse", func(t *testing.T) {
		both := body(
			&ast.CallLocal{Name: "log", Args: []ast.Node{v("reason")}},
			&ast.CallLocal{Name: "log", Args: []ast.Node{v("id")}},
		)
		_, _, changed := HarmonizeWith(pat, both, scope.NewNameSet(), Options{Priority: DefaultPriority})
		assert.False(t, changed)
	})
}

func TestHarmonizeTuplePayload(t *testing.T) {
	pat := &ast.PTuple{Elements: []ast.Pattern{
		&ast.PLiteral{Kind: ast.AtomLit, Value: "ok"},
		&ast.PVar{Name: "_value"},
	}}
	b := body(&ast.Tuple{Elements: []ast.Node{
		&ast.Literal{Kind: ast.AtomLit, Value: "noreply"},
		&ast.CallLocal{Name: "assign", Args: []ast.Node{v("socket"), v("todo")}},
	}})

	newPat, _, changed := Harmonize(pat, b, scope.NewNameSet("socket"))
	assert.True(t, changed)
	assert.Equal(t, "todo", newPat.(*ast.PTuple).Elements[1].(*ast.PVar).Name)
}

func TestRenameInStopsAtShadowingScopes(t *testing.T) {
	// The inner fn rebinds "todo"; its body must keep reading its own
	// parameter.
	tree := body(
		&ast.CallLocal{Name: "track", Args: []ast.Node{v("todo")}},
		&ast.Fn{Clauses: []*ast.FnClause{{
			Params: []ast.Pattern{&ast.PVar{Name: "todo"}},
			Body:   body(&ast.FieldAccess{Target: v("todo"), Field: "done"}),
		}}},
	)

	out := RenameIn(tree, "todo", "item").(*ast.Block)

	call := out.Stmts[0].(*ast.CallLocal)
	assert.Equal(t, "item", call.Args[0].(*ast.Var).Name)

	fn := out.Stmts[1].(*ast.Fn)
	inner := fn.Clauses[0].Body.Stmts[0].(*ast.FieldAccess)
	assert.Equal(t, "todo", inner.Target.(*ast.Var).Name)
}

func TestRenameInStopsAtRebind(t *testing.T) {
	tree := body(
		&ast.CallLocal{Name: "a", Args: []ast.Node{v("x")}},
		&ast.Bind{Pattern: &ast.PVar{Name: "x"}, Value: &ast.CallLocal{Name: "next", Args: []ast.Node{v("x")}}},
		&ast.CallLocal{Name: "b", Args: []ast.Node{v("x")}},
	)

	out := RenameIn(tree, "x", "y").(*ast.Block)

	assert.Equal(t, "y", out.Stmts[0].(*ast.CallLocal).Args[0].(*ast.Var).Name)
	// The rebind's value still reads the old binding.
	rebind := out.Stmts[1].(*ast.Bind)
	assert.Equal(t, "y", rebind.Value.(*ast.CallLocal).Args[0].(*ast.Var).Name)
	// Past the rebind, x is a different binding and stays.
	assert.Equal(t, "x", out.Stmts[2].(*ast.CallLocal).Args[0].(*ast.Var).Name)
}

func TestRenameInRawText(t *testing.T) {
	tree := &ast.Raw{Text: "query <> search_query <> :query"}
	out := RenameIn(tree, "query", "filter").(*ast.Raw)
	assert.Equal(t, "filter <> search_query <> :query", out.Text)
}

func TestClassifyShape(t *testing.T) {
	t.Run("FieldAccessIsAggregate", func(t *testing.T) {
		b := body(&ast.FieldAccess{Target: v("todo"), Field: "done"})
		assert.Equal(t, ShapeAggregate, ClassifyShape("todo", b))
	})

	t.Run("ArithmeticIsScalar", func(t *testing.T) {
		b := body(&ast.BinOp{Op: "+", Left: v("n"), Right: &ast.Literal{Kind: ast.IntLit, Value: "1"}})
		assert.Equal(t, ShapeScalar, ClassifyShape("n", b))
	})

	t.Run("EnumReceiverIsAggregate", func(t *testing.T) {
		b := body(&ast.CallRemote{Module: "Enum", Name: "count", Args: []ast.Node{v("todos")}})
		assert.Equal(t, ShapeAggregate, ClassifyShape("todos", b))
	})

	t.Run("ConflictIsUnknown", func(t *testing.T) {
		b := body(
			&ast.FieldAccess{Target: v("x"), Field: "f"},
			&ast.BinOp{Op: "+", Left: v("x"), Right: v("x")},
		)
		assert.Equal(t, ShapeUnknown, ClassifyShape("x", b))
	})

	t.Run("NoEvidenceIsUnknown", func(t *testing.T) {
		assert.Equal(t, ShapeUnknown, ClassifyShape("x", body(v("x"))))
	})
}
