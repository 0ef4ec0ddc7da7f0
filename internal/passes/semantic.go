package passes

import (
	"strings"

	"exalt/internal/ast"
	"exalt/internal/diag"
	"exalt/internal/harmonize"
	"exalt/internal/scope"
)

// FnParamAlign reconciles anonymous-function parameters with the names
// their bodies read. The lowering stage invents parameter names from host
// positions; when a body reads exactly one name nothing binds, the stale
// parameter is renamed to it.
type FnParamAlign struct{}

func (p *FnParamAlign) Name() string { return "fn-param-align" }
func (p *FnParamAlign) Tier() Tier   { return Semantic }

func (p *FnParamAlign) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		f, ok := n.(*ast.Fn)
		if !ok {
			return n
		}
		c := *f
		c.Clauses = make([]*ast.FnClause, len(f.Clauses))
		for i, cl := range f.Clauses {
			params, guard, body, ok := alignParams(cl.Params, cl.Guard, cl.Body, env)
			if !ok {
				c.Clauses[i] = cl
				continue
			}
			nc := *cl
			nc.Params, nc.Guard, nc.Body = params, guard, body
			c.Clauses[i] = &nc
		}
		return &c
	})
}

// DefParamAlign is FnParamAlign for named functions. Their bodies capture
// nothing, so the environment is empty and any free name is a candidate.
type DefParamAlign struct{}

func (p *DefParamAlign) Name() string { return "def-param-align" }
func (p *DefParamAlign) Tier() Tier   { return Semantic }

func (p *DefParamAlign) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		d, ok := n.(*ast.Def)
		if !ok {
			return n
		}
		params, guard, body, ok := alignParams(d.Params, d.Guard, d.Body, scope.NewNameSet())
		if !ok {
			return n
		}
		c := *d
		c.Params, c.Guard, c.Body = params, guard, body
		return &c
	})
}

// alignParams harmonizes a parameter list against the guard and body. The
// parameters are probed as one tuple so binder selection sees them all, and
// the guard rides along in a synthetic block so its reads count as uses.
func alignParams(params []ast.Pattern, guard ast.Node, body *ast.Block, env scope.NameSet) ([]ast.Pattern, ast.Node, *ast.Block, bool) {
	if len(params) == 0 || body == nil {
		return nil, nil, nil, false
	}
	pt := &ast.PTuple{Pos: body.Pos, Elements: params}
	probe := &ast.Block{Pos: body.Pos}
	if guard != nil {
		probe.Stmts = append(probe.Stmts, guard)
	}
	probe.Stmts = append(probe.Stmts, body)

	np, nb, ok := harmonize.Harmonize(pt, probe, env)
	if !ok {
		return nil, nil, nil, false
	}
	stmts := nb.(*ast.Block).Stmts
	newGuard := guard
	if guard != nil {
		newGuard = stmts[0]
	}
	return np.(*ast.PTuple).Elements, newGuard, stmts[len(stmts)-1].(*ast.Block), true
}

// CasePayload harmonizes tagged-tuple payload binders in case clauses. This
// is the one place ambiguity may be broken by policy: when several undefined
// names compete, the priority list decides, and a tie inside the list is
// refused and reported.
type CasePayload struct {
	// Priority overrides the payload tie-break order. Nil means the
	// conventional default.
	Priority []string
}

func (p *CasePayload) Name() string { return "case-payload" }
func (p *CasePayload) Tier() Tier   { return Semantic }

func (p *CasePayload) priority() []string {
	if p.Priority != nil {
		return p.Priority
	}
	return harmonize.DefaultPriority
}

func (p *CasePayload) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		c, ok := n.(*ast.Case)
		if !ok {
			return n
		}
		cc := *c
		cc.Clauses = alignTaggedClauses(c.Clauses, env, p.priority(), ctx, p.Name(), fi)
		return &cc
	})
}

// ReceiveClauseAlign applies the payload harmonization to receive clauses,
// where lowered message handlers leave the same stale binders behind.
type ReceiveClauseAlign struct {
	Priority []string
}

func (p *ReceiveClauseAlign) Name() string { return "receive-clause-align" }
func (p *ReceiveClauseAlign) Tier() Tier   { return Semantic }

func (p *ReceiveClauseAlign) Apply(n ast.Node, ctx *Context) ast.Node {
	priority := p.Priority
	if priority == nil {
		priority = harmonize.DefaultPriority
	}
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		r, ok := n.(*ast.Receive)
		if !ok {
			return n
		}
		rc := *r
		rc.Clauses = alignTaggedClauses(r.Clauses, env, priority, ctx, p.Name(), fi)
		return &rc
	})
}

func alignTaggedClauses(clauses []*ast.CaseClause, env scope.NameSet, priority []string, ctx *Context, passName string, fi *FnInfo) []*ast.CaseClause {
	out := make([]*ast.CaseClause, len(clauses))
	for i, cl := range clauses {
		out[i] = cl
		if !isTaggedTuple(cl.Pattern) {
			continue
		}
		probe := clauseProbe(cl)
		np, nb, ok := harmonize.HarmonizeWith(cl.Pattern, probe, env, harmonize.Options{Priority: priority})
		if !ok {
			if und := harmonize.Undefined(cl.Pattern, probe, env); len(und) > 1 {
				ctx.warnf(passName, diag.CodeAmbiguousRepair, cl.Pos,
					"clause%s reads %d names nothing binds, refusing to guess a payload binder",
					inFn(fi), len(und))
			}
			continue
		}
		nc := *cl
		nc.Pattern = np
		stmts := nb.(*ast.Block).Stmts
		if cl.Guard != nil {
			nc.Guard = stmts[0]
		}
		nc.Body = stmts[len(stmts)-1].(*ast.Block)
		out[i] = &nc
	}
	return out
}

func clauseProbe(cl *ast.CaseClause) *ast.Block {
	probe := &ast.Block{Pos: cl.Pos}
	if cl.Guard != nil {
		probe.Stmts = append(probe.Stmts, cl.Guard)
	}
	probe.Stmts = append(probe.Stmts, cl.Body)
	return probe
}

func inFn(fi *FnInfo) string {
	if fi == nil {
		return ""
	}
	return " in " + fi.Name
}

func isTaggedTuple(p ast.Pattern) bool {
	t, ok := p.(*ast.PTuple)
	if !ok || len(t.Elements) < 2 {
		return false
	}
	lit, ok := t.Elements[0].(*ast.PLiteral)
	return ok && lit.Kind == ast.AtomLit
}

// WithClauseAlign harmonizes each with clause against everything downstream
// of it: later clause values and the body. A clause binder is only stale
// relative to the code that was supposed to read it.
type WithClauseAlign struct{}

func (p *WithClauseAlign) Name() string { return "with-clause-align" }
func (p *WithClauseAlign) Tier() Tier   { return Semantic }

func (p *WithClauseAlign) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		w, ok := n.(*ast.With)
		if !ok {
			return n
		}
		clauses := append([]*ast.WithClause{}, w.Clauses...)
		body := w.Body
		inner := env.Clone()
		changed := false
		for i, cl := range clauses {
			probe := &ast.With{Pos: w.Pos, Clauses: clauses[i+1:], Body: body}
			np, nb, ok := harmonize.Harmonize(cl.Pattern, probe, inner)
			if ok {
				nw := nb.(*ast.With)
				nc := *cl
				nc.Pattern = np
				clauses[i] = &nc
				copy(clauses[i+1:], nw.Clauses)
				body = nw.Body
				changed = true
			}
			inner.AddAll(scope.BoundNames(clauses[i].Pattern))
		}
		if !changed {
			return n
		}
		c := *w
		c.Clauses = clauses
		c.Body = body
		return &c
	})
}

// UnderscorePromote revives suppressed binders the lowering was wrong
// about: a binder written _name whose bare name is read later in the same
// scope drops its underscore.
type UnderscorePromote struct{}

func (p *UnderscorePromote) Name() string { return "underscore-promote" }
func (p *UnderscorePromote) Tier() Tier   { return Semantic }

func (p *UnderscorePromote) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		idx := scope.NewUsageIndex(b.Stmts)
		c := *b
		c.Stmts = copyNodes(b.Stmts)
		changed := false
		for i, s := range c.Stmts {
			bind, ok := s.(*ast.Bind)
			if !ok {
				continue
			}
			np := ast.RewritePattern(bind.Pattern, func(pt ast.Pattern) ast.Pattern {
				pv, ok := pt.(*ast.PVar)
				if !ok || !pv.Suppressed() {
					return pt
				}
				bare := strings.TrimPrefix(pv.Name, "_")
				if !idx.UsedLater(i+1, bare) || env.Has(bare) {
					return pt
				}
				return &ast.PVar{Pos: pv.Pos, Name: bare}
			})
			if np != bind.Pattern {
				nb := *bind
				nb.Pattern = np
				c.Stmts[i] = &nb
				changed = true
			}
		}
		if !changed {
			return n
		}
		return &c
	})
}

// AliasAlign harmonizes clause patterns that carry an alias binder. The
// generic single-candidate rule applies; aliases get no priority policy.
type AliasAlign struct{}

func (p *AliasAlign) Name() string { return "alias-align" }
func (p *AliasAlign) Tier() Tier   { return Semantic }

func (p *AliasAlign) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		c, ok := n.(*ast.Case)
		if !ok {
			return n
		}
		cc := *c
		cc.Clauses = make([]*ast.CaseClause, len(c.Clauses))
		for i, cl := range c.Clauses {
			cc.Clauses[i] = cl
			if !containsAlias(cl.Pattern) {
				continue
			}
			probe := clauseProbe(cl)
			np, nb, ok := harmonize.Harmonize(cl.Pattern, probe, env)
			if !ok {
				continue
			}
			nc := *cl
			nc.Pattern = np
			stmts := nb.(*ast.Block).Stmts
			if cl.Guard != nil {
				nc.Guard = stmts[0]
			}
			nc.Body = stmts[len(stmts)-1].(*ast.Block)
			cc.Clauses[i] = &nc
		}
		return &cc
	})
}

func containsAlias(p ast.Pattern) bool {
	found := false
	ast.Walk(p, func(n ast.Node) bool {
		if _, ok := n.(*ast.PAlias); ok {
			found = true
		}
		return !found
	})
	return found
}

// PinOuter replaces clause binders the lowering derived from host equality
// comparisons with pins when the name is already bound outside the clause.
// Without the pin the pattern would rebind instead of compare.
type PinOuter struct{}

func (p *PinOuter) Name() string { return "pin-outer" }
func (p *PinOuter) Tier() Tier   { return Semantic }

func (p *PinOuter) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		pin := func(pt ast.Pattern) ast.Pattern {
			pv, ok := pt.(*ast.PVar)
			if !ok || !ast.IsFromCompare(pv) || !env.Has(pv.Name) {
				return pt
			}
			return &ast.PPin{Pos: pv.Pos, Name: pv.Name}
		}
		switch t := n.(type) {
		case *ast.Case:
			c := *t
			c.Clauses = pinClauses(t.Clauses, pin)
			return &c
		case *ast.Receive:
			c := *t
			c.Clauses = pinClauses(t.Clauses, pin)
			return &c
		}
		return n
	})
}

func pinClauses(clauses []*ast.CaseClause, pin func(ast.Pattern) ast.Pattern) []*ast.CaseClause {
	out := make([]*ast.CaseClause, len(clauses))
	for i, cl := range clauses {
		c := *cl
		c.Pattern = ast.RewritePattern(cl.Pattern, pin)
		out[i] = &c
	}
	return out
}

// RebindCarry rebinds a mutating call in statement position to its own
// first argument when later statements still read that name. The host
// mutated in place; the target carries the new value forward explicitly.
type RebindCarry struct{}

func (p *RebindCarry) Name() string { return "rebind-carry" }
func (p *RebindCarry) Tier() Tier   { return Semantic }

func (p *RebindCarry) Apply(n ast.Node, ctx *Context) ast.Node {
	return scopedRewrite(n, func(n ast.Node, env scope.NameSet, fi *FnInfo) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		idx := scope.NewUsageIndex(b.Stmts)
		c := *b
		c.Stmts = copyNodes(b.Stmts)
		changed := false
		for i, s := range c.Stmts {
			_, isUpdate := s.(*ast.StructUpdate)
			if i == len(c.Stmts)-1 || (!ast.MutatesArg(s) && !isUpdate) {
				continue
			}
			arg := firstArgVar(s)
			if arg == "" || !idx.UsedLater(i+1, arg) {
				continue
			}
			c.Stmts[i] = &ast.Bind{
				Pos:     s.NodePos(),
				Pattern: &ast.PVar{Pos: s.NodePos(), Name: arg},
				Value:   s,
			}
			changed = true
		}
		if !changed {
			return n
		}
		return &c
	})
}

func firstArgVar(n ast.Node) string {
	var args []ast.Node
	switch t := n.(type) {
	case *ast.CallLocal:
		args = t.Args
	case *ast.CallRemote:
		args = t.Args
	case *ast.StructUpdate:
		if v, ok := t.Target.(*ast.Var); ok {
			return v.Name
		}
		return ""
	default:
		return ""
	}
	if len(args) == 0 {
		return ""
	}
	if v, ok := args[0].(*ast.Var); ok {
		return v.Name
	}
	return ""
}
