package scope

import (
	"fmt"
	"testing"

	"exalt/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestUsageIndexQueries(t *testing.T) {
	stmts := []ast.Node{
		&ast.Bind{Pattern: &ast.PVar{Name: "a"}, Value: &ast.Literal{Kind: ast.IntLit, Value: "1"}},
		&ast.Bind{Pattern: &ast.PVar{Name: "b"}, Value: &ast.Var{Name: "a"}},
		&ast.CallLocal{Name: "emit", Args: []ast.Node{&ast.Var{Name: "b"}}},
	}

	idx := NewUsageIndex(stmts)

	assert.True(t, idx.UsedLater(1, "a"), "a is read by statement 1")
	assert.False(t, idx.UsedLater(2, "a"))
	assert.True(t, idx.UsedLater(2, "b"))
	assert.False(t, idx.UsedLater(3, "b"), "past-the-end set is empty")
	assert.Equal(t, 3, idx.Len())
}

func TestUsageIndexLooksInsideInterpolation(t *testing.T) {
	stmts := []ast.Node{
		&ast.Bind{Pattern: &ast.PVar{Name: "name"}, Value: &ast.Literal{Kind: ast.StringLit, Value: "x"}},
		&ast.Interp{Segments: []ast.InterpSeg{{Text: "hi "}, {Expr: &ast.Var{Name: "name"}}}},
	}
	idx := NewUsageIndex(stmts)
	assert.True(t, idx.UsedLater(1, "name"))
}

func TestUsageIndexLooksInsideRawText(t *testing.T) {
	stmts := []ast.Node{
		&ast.Bind{Pattern: &ast.PVar{Name: "query"}, Value: &ast.Literal{Kind: ast.StringLit, Value: ""}},
		&ast.Bind{Pattern: &ast.PVar{Name: "search_query"}, Value: &ast.Literal{Kind: ast.StringLit, Value: ""}},
		&ast.Raw{Text: "filter(search_query)"},
	}
	idx := NewUsageIndex(stmts)
	assert.False(t, idx.UsedLater(1, "query"), "identifier boundaries: query must not match inside search_query")
	assert.True(t, idx.UsedLater(2, "search_query"))
}

func TestUsageIndexScopedReadsAreNotFree(t *testing.T) {
	// The fn binds its own "t"; a "t" bound earlier in the list is not read
	// later.
	stmts := []ast.Node{
		&ast.Bind{Pattern: &ast.PVar{Name: "t"}, Value: &ast.Literal{Kind: ast.IntLit, Value: "1"}},
		&ast.Fn{Clauses: []*ast.FnClause{{
			Params: []ast.Pattern{&ast.PVar{Name: "t"}},
			Body:   &ast.Block{Stmts: []ast.Node{&ast.Var{Name: "t"}}},
		}}},
	}
	idx := NewUsageIndex(stmts)
	assert.False(t, idx.UsedLater(1, "t"))
}

func TestUsageIndexLinearConstruction(t *testing.T) {
	// n statements of bounded size: total node visits must grow linearly,
	// not quadratically, with n.
	const n = 5000
	stmts := make([]ast.Node, n)
	for i := range stmts {
		stmts[i] = &ast.Bind{
			Pattern: &ast.PVar{Name: fmt.Sprintf("v%d", i)},
			Value: &ast.BinOp{
				Op:    "+",
				Left:  &ast.Var{Name: fmt.Sprintf("v%d", i/2)},
				Right: &ast.Literal{Kind: ast.IntLit, Value: "1"},
			},
		}
	}

	idx := NewUsageIndex(stmts)

	perStmt := 8 // generous bound on nodes per synthetic statement
	assert.Less(t, idx.NodeVisits, n*perStmt,
		"construction revisited statements; backward-scan linearity is broken")
}
