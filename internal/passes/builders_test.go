package passes

import (
	"exalt/internal/ast"
	"exalt/internal/diag"
)

// Small constructors shared by the pass tests. Positions are zero values;
// nothing under test depends on them.

func v(name string) *ast.Var { return &ast.Var{Name: name} }

func atom(name string) *ast.Literal {
	return &ast.Literal{Kind: ast.AtomLit, Value: name}
}

func str(s string) *ast.Literal {
	return &ast.Literal{Kind: ast.StringLit, Value: s}
}

func intl(s string) *ast.Literal {
	return &ast.Literal{Kind: ast.IntLit, Value: s}
}

func nill() *ast.Literal {
	return &ast.Literal{Kind: ast.NilLit, Value: "nil"}
}

func booll(b bool) *ast.Literal {
	if b {
		return &ast.Literal{Kind: ast.BoolLit, Value: "true"}
	}
	return &ast.Literal{Kind: ast.BoolLit, Value: "false"}
}

func block(stmts ...ast.Node) *ast.Block { return &ast.Block{Stmts: stmts} }

func bind(name string, value ast.Node) *ast.Bind {
	return &ast.Bind{Pattern: pv(name), Value: value}
}

func pv(name string) *ast.PVar { return &ast.PVar{Name: name} }

func ptuple(elems ...ast.Pattern) *ast.PTuple { return &ast.PTuple{Elements: elems} }

func patom(name string) *ast.PLiteral {
	return &ast.PLiteral{Kind: ast.AtomLit, Value: name}
}

func cond(c ast.Node, then *ast.Block, els *ast.Block) *ast.Cond {
	return &ast.Cond{Condition: c, Then: then, Else: els}
}

func clause(p ast.Pattern, body *ast.Block) *ast.CaseClause {
	return &ast.CaseClause{Pattern: p, Body: body}
}

func caseOf(subject ast.Node, clauses ...*ast.CaseClause) *ast.Case {
	return &ast.Case{Subject: subject, Clauses: clauses}
}

func remote(module, name string, args ...ast.Node) *ast.CallRemote {
	return &ast.CallRemote{Module: module, Name: name, Args: args}
}

func local(name string, args ...ast.Node) *ast.CallLocal {
	return &ast.CallLocal{Name: name, Args: args}
}

func def(name string, params []ast.Pattern, body *ast.Block) *ast.Def {
	return &ast.Def{Name: name, Params: params, Body: body}
}

func flagEarlyReturn(n ast.Node) ast.Node {
	n.SetMeta(&ast.Meta{FromEarlyReturn: true})
	return n
}

func flagPipe(n ast.Node) ast.Node {
	n.SetMeta(&ast.Meta{PipeCandidate: true})
	return n
}

func flagMutates(n ast.Node) ast.Node {
	n.SetMeta(&ast.Meta{MutatesArg: true})
	return n
}

func flagCompare(p ast.Pattern) ast.Pattern {
	p.SetMeta(&ast.Meta{FromCompare: true})
	return p
}

func flagLoop(n ast.Node, acc string) ast.Node {
	m := &ast.Meta{FromLoop: true}
	m.SetHint("loop_acc", acc)
	n.SetMeta(m)
	return n
}

func applyPass(p Pass, n ast.Node) ast.Node {
	return p.Apply(n, &Context{})
}

func newTestContext() *Context {
	return &Context{Reporter: diag.NewReporter()}
}
