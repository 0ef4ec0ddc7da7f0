package passes

import (
	"exalt/internal/ast"
	"exalt/internal/scope"
)

// scopedHook is called on every expression node, top-down, with the set of
// names bound by enclosing scopes at that point and the enclosing function
// record. The returned node replaces n and is descended into.
type scopedHook func(n ast.Node, env scope.NameSet, fn *FnInfo) ast.Node

// scopedRewrite walks n top-down threading binding environments the way the
// target language scopes them: block binds flow forward, clause and fn
// binders scope their bodies, def bodies start from their parameters and
// capture nothing else.
func scopedRewrite(n ast.Node, hook scopedHook) ast.Node {
	return scopedNode(n, scope.NewNameSet(), nil, hook)
}

func scopedNode(n ast.Node, env scope.NameSet, fn *FnInfo, hook scopedHook) ast.Node {
	if n == nil {
		return nil
	}
	n = hook(n, env, fn)

	switch t := n.(type) {
	case *ast.Block:
		return scopedBlock(t, env.Clone(), fn, hook)
	case *ast.Case:
		c := *t
		c.Subject = scopedNode(t.Subject, env, fn, hook)
		c.Clauses = scopedClauses(t.Clauses, env, fn, hook)
		return &c
	case *ast.Receive:
		c := *t
		c.Clauses = scopedClauses(t.Clauses, env, fn, hook)
		if t.Timeout != nil {
			c.Timeout = scopedNode(t.Timeout, env, fn, hook)
		}
		if t.OnTimeout != nil {
			c.OnTimeout = scopedBlock(t.OnTimeout, env.Clone(), fn, hook)
		}
		return &c
	case *ast.With:
		c := *t
		inner := env.Clone()
		c.Clauses = make([]*ast.WithClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			wc := *cl
			wc.Value = scopedNode(cl.Value, inner, fn, hook)
			c.Clauses[i] = &wc
			inner.AddAll(scope.BoundNames(cl.Pattern))
		}
		c.Body = scopedBlock(t.Body, inner.Clone(), fn, hook)
		if t.Else != nil {
			c.Else = scopedClauses(t.Else, env, fn, hook)
		}
		return &c
	case *ast.Fn:
		c := *t
		c.Clauses = make([]*ast.FnClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			fc := *cl
			clenv := env.Clone()
			for _, p := range cl.Params {
				clenv.AddAll(scope.BoundNames(p))
			}
			if cl.Guard != nil {
				fc.Guard = scopedNode(cl.Guard, clenv, fn, hook)
			}
			fc.Body = scopedBlock(cl.Body, clenv, fn, hook)
			c.Clauses[i] = &fc
		}
		return &c
	case *ast.Def:
		c := *t
		defEnv := scope.NewNameSet()
		var params []string
		for _, p := range t.Params {
			names := scope.BoundNames(p)
			defEnv.AddAll(names)
			for name := range names {
				params = append(params, name)
			}
		}
		defFn := &FnInfo{Name: t.Name, Params: params}
		if t.Guard != nil {
			c.Guard = scopedNode(t.Guard, defEnv, defFn, hook)
		}
		c.Body = scopedBlock(t.Body, defEnv.Clone(), defFn, hook)
		return &c
	case *ast.TryRescue:
		c := *t
		c.Body = scopedBlock(t.Body, env.Clone(), fn, hook)
		c.Rescues = make([]*ast.RescueClause, len(t.Rescues))
		for i, r := range t.Rescues {
			rc := *r
			renv := env.Clone()
			renv.AddAll(scope.BoundNames(r.Pattern))
			rc.Body = scopedBlock(r.Body, renv, fn, hook)
			c.Rescues[i] = &rc
		}
		if t.After != nil {
			c.After = scopedBlock(t.After, env.Clone(), fn, hook)
		}
		return &c
	default:
		return ast.MapChildren(n, func(child ast.Node) ast.Node {
			return scopedNode(child, env, fn, hook)
		})
	}
}

// scopedBlock threads bind targets forward across statements. env is owned
// by the caller's clone; mutating it here is what makes siblings see earlier
// binders.
func scopedBlock(b *ast.Block, env scope.NameSet, fn *FnInfo, hook scopedHook) *ast.Block {
	if b == nil {
		return nil
	}
	out := *b
	out.Stmts = make([]ast.Node, len(b.Stmts))
	for i, s := range b.Stmts {
		ns := scopedNode(s, env, fn, hook)
		out.Stmts[i] = ns
		if bind, ok := ns.(*ast.Bind); ok {
			env.AddAll(scope.BoundNames(bind.Pattern))
		}
	}
	return &out
}

func scopedClauses(cs []*ast.CaseClause, env scope.NameSet, fn *FnInfo, hook scopedHook) []*ast.CaseClause {
	out := make([]*ast.CaseClause, len(cs))
	for i, cl := range cs {
		c := *cl
		clenv := env.Clone()
		clenv.AddAll(scope.BoundNames(cl.Pattern))
		if cl.Guard != nil {
			c.Guard = scopedNode(cl.Guard, clenv, fn, hook)
		}
		c.Body = scopedBlock(cl.Body, clenv, fn, hook)
		out[i] = &c
	}
	return out
}
