package passes

import (
	"strings"

	"exalt/internal/ast"
	"exalt/internal/diag"
	"exalt/internal/harmonize"
	"exalt/internal/scope"
)

// SentinelSweep drops bare numeric and nil literal statements. The lowering
// emits them as placeholders for host statements with no value; in terminal
// position the literal is the block's value and stays.
type SentinelSweep struct{}

func (p *SentinelSweep) Name() string { return "sentinel-sweep" }
func (p *SentinelSweep) Tier() Tier   { return Cleanup }

func (p *SentinelSweep) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		out := b.Stmts[:0:0]
		for i, s := range b.Stmts {
			if i < len(b.Stmts)-1 && isSentinel(s) {
				continue
			}
			out = append(out, s)
		}
		if len(out) == len(b.Stmts) {
			return b
		}
		c := *b
		c.Stmts = out
		return &c
	})
}

func isSentinel(n ast.Node) bool {
	lit, ok := n.(*ast.Literal)
	return ok && (lit.IsNil() || lit.IsNumeric())
}

// ConstCond folds conditionals over boolean literals into the taken branch.
type ConstCond struct{}

func (p *ConstCond) Name() string { return "const-cond" }
func (p *ConstCond) Tier() Tier   { return Cleanup }

func (p *ConstCond) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		c, ok := n.(*ast.Cond)
		if !ok {
			return n
		}
		lit, ok := c.Condition.(*ast.Literal)
		if !ok || lit.Kind != ast.BoolLit {
			return n
		}
		taken := c.Then
		if lit.Value == "false" {
			taken = c.Else
		}
		if taken == nil {
			return &ast.Literal{Pos: c.Pos, Kind: ast.NilLit, Value: "nil"}
		}
		return taken
	})
}

// NilElse removes else branches whose only statement is nil; an absent else
// already yields nil.
type NilElse struct{}

func (p *NilElse) Name() string { return "nil-else" }
func (p *NilElse) Tier() Tier   { return Cleanup }

func (p *NilElse) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		c, ok := n.(*ast.Cond)
		if !ok || c.Else == nil {
			return n
		}
		switch len(c.Else.Stmts) {
		case 0:
		case 1:
			lit, ok := c.Else.Stmts[0].(*ast.Literal)
			if !ok || !lit.IsNil() {
				return n
			}
		default:
			return n
		}
		cc := *c
		cc.Else = nil
		return &cc
	})
}

// IsNil rewrites comparisons against nil into is_nil checks.
type IsNil struct{}

func (p *IsNil) Name() string { return "is-nil" }
func (p *IsNil) Tier() Tier   { return Cleanup }

func (p *IsNil) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.BinOp)
		if !ok || (b.Op != "==" && b.Op != "!=") {
			return n
		}
		other, ok := nonNilSide(b)
		if !ok {
			return n
		}
		check := ast.Node(&ast.CallLocal{Pos: b.Pos, Name: "is_nil", Args: []ast.Node{other}})
		if b.Op == "!=" {
			check = &ast.UnOp{Pos: b.Pos, Op: "not", Value: check}
		}
		return check
	})
}

func nonNilSide(b *ast.BinOp) (ast.Node, bool) {
	if lit, ok := b.Left.(*ast.Literal); ok && lit.IsNil() {
		return b.Right, true
	}
	if lit, ok := b.Right.(*ast.Literal); ok && lit.IsNil() {
		return b.Left, true
	}
	return nil, false
}

// EmptyCheck rewrites length-against-zero comparisons into Enum.empty?.
type EmptyCheck struct{}

func (p *EmptyCheck) Name() string { return "empty-check" }
func (p *EmptyCheck) Tier() Tier   { return Cleanup }

func (p *EmptyCheck) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.BinOp)
		if !ok || (b.Op != "==" && b.Op != "!=") {
			return n
		}
		subject, ok := lengthAgainstZero(b)
		if !ok {
			return n
		}
		check := ast.Node(&ast.CallRemote{Pos: b.Pos, Module: "Enum", Name: "empty?", Args: []ast.Node{subject}})
		if b.Op == "!=" {
			check = &ast.UnOp{Pos: b.Pos, Op: "not", Value: check}
		}
		return check
	})
}

// lengthAgainstZero matches length(x) or Enum.count(x) compared to the
// literal zero, on either side.
func lengthAgainstZero(b *ast.BinOp) (ast.Node, bool) {
	try := func(call, zero ast.Node) (ast.Node, bool) {
		lit, ok := zero.(*ast.Literal)
		if !ok || lit.Kind != ast.IntLit || lit.Value != "0" {
			return nil, false
		}
		switch t := call.(type) {
		case *ast.CallLocal:
			if t.Name == "length" && len(t.Args) == 1 {
				return t.Args[0], true
			}
		case *ast.CallRemote:
			if t.Module == "Enum" && t.Name == "count" && len(t.Args) == 1 {
				return t.Args[0], true
			}
		}
		return nil, false
	}
	if subject, ok := try(b.Left, b.Right); ok {
		return subject, true
	}
	return try(b.Right, b.Left)
}

// SelfRebind drops x = x statements; in terminal position the value is kept
// as a bare reference.
type SelfRebind struct{}

func (p *SelfRebind) Name() string { return "self-rebind" }
func (p *SelfRebind) Tier() Tier   { return Cleanup }

func (p *SelfRebind) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		out := b.Stmts[:0:0]
		changed := false
		for i, s := range b.Stmts {
			name, ok := selfRebindName(s)
			if !ok {
				out = append(out, s)
				continue
			}
			changed = true
			if i == len(b.Stmts)-1 {
				out = append(out, &ast.Var{Pos: s.NodePos(), Name: name})
			}
		}
		if !changed {
			return b
		}
		c := *b
		c.Stmts = out
		return &c
	})
}

func selfRebindName(n ast.Node) (string, bool) {
	bind, ok := n.(*ast.Bind)
	if !ok {
		return "", false
	}
	pv, ok := bind.Pattern.(*ast.PVar)
	if !ok {
		return "", false
	}
	v, ok := bind.Value.(*ast.Var)
	if !ok || v.Name != pv.Name {
		return "", false
	}
	return v.Name, true
}

// UnderscoreUnused prefixes binders nobody reads with an underscore. Used
// later means used anywhere in the remainder of the enclosing scope: a
// nested statement block sees the names its siblings still need, while
// branch bodies do not leak bindings and start clean.
type UnderscoreUnused struct{}

func (p *UnderscoreUnused) Name() string { return "underscore-unused" }
func (p *UnderscoreUnused) Tier() Tier   { return Cleanup }

func (p *UnderscoreUnused) Apply(n ast.Node, ctx *Context) ast.Node {
	return underscoreNode(n, scope.NewNameSet(), ctx)
}

func underscoreNode(n ast.Node, after scope.NameSet, ctx *Context) ast.Node {
	if n == nil {
		return nil
	}
	if b, ok := n.(*ast.Block); ok {
		return underscoreBlock(b, after, ctx)
	}
	n = ast.MapChildren(n, func(c ast.Node) ast.Node {
		return underscoreNode(c, scope.NewNameSet(), ctx)
	})
	switch t := n.(type) {
	case *ast.Case:
		c := *t
		c.Clauses = underscoreClauses(t.Clauses, ctx)
		return &c
	case *ast.Receive:
		c := *t
		c.Clauses = underscoreClauses(t.Clauses, ctx)
		return &c
	}
	return n
}

// underscoreClauses suppresses clause binders the clause itself never
// reads; clause bindings are invisible past the clause, so the clause is
// the whole scope.
func underscoreClauses(clauses []*ast.CaseClause, ctx *Context) []*ast.CaseClause {
	out := make([]*ast.CaseClause, len(clauses))
	for i, cl := range clauses {
		used := scope.ReferencedNames(clauseProbe(cl))
		c := *cl
		c.Pattern = underscorePattern(cl.Pattern, used.Has, ctx, cl.Pos)
		out[i] = &c
	}
	return out
}

func underscoreBlock(b *ast.Block, after scope.NameSet, ctx *Context) *ast.Block {
	idx := scope.NewUsageIndex(b.Stmts)
	out := *b
	out.Stmts = make([]ast.Node, len(b.Stmts))
	for i, s := range b.Stmts {
		var ns ast.Node
		if inner, ok := s.(*ast.Block); ok {
			innerAfter := idx.UsedFrom(i + 1).Clone()
			innerAfter.AddAll(after)
			ns = underscoreBlock(inner, innerAfter, ctx)
		} else {
			// Through underscoreNode, not bare MapChildren, so a
			// statement-position Case/Receive still gets its clause
			// binders suppressed.
			ns = underscoreNode(s, scope.NewNameSet(), ctx)
		}
		if bind, ok := ns.(*ast.Bind); ok {
			np := underscorePattern(bind.Pattern, func(name string) bool {
				return idx.UsedLater(i+1, name) || after.Has(name)
			}, ctx, bind.Pos)
			if np != bind.Pattern {
				nb := *bind
				nb.Pattern = np
				ns = &nb
			}
		}
		out.Stmts[i] = ns
	}
	return &out
}

func underscorePattern(p ast.Pattern, usedLater func(string) bool, ctx *Context, pos ast.Position) ast.Pattern {
	return ast.RewritePattern(p, func(pt ast.Pattern) ast.Pattern {
		pv, ok := pt.(*ast.PVar)
		if !ok || pv.Wildcard() || pv.Suppressed() || usedLater(pv.Name) {
			return pt
		}
		ctx.warnf("underscore-unused", diag.CodeUnusedBinding, pos,
			"%s is bound but never used", pv.Name)
		return &ast.PVar{Pos: pv.Pos, Name: "_" + pv.Name}
	})
}

// UnderscoreParams underscores parameters whose clause never reads them.
type UnderscoreParams struct{}

func (p *UnderscoreParams) Name() string { return "underscore-params" }
func (p *UnderscoreParams) Tier() Tier   { return Cleanup }

func (p *UnderscoreParams) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		switch t := n.(type) {
		case *ast.Fn:
			c := *t
			c.Clauses = make([]*ast.FnClause, len(t.Clauses))
			for i, cl := range t.Clauses {
				nc := *cl
				nc.Params = underscoreParams(cl.Params, cl.Guard, cl.Body)
				c.Clauses[i] = &nc
			}
			return &c
		case *ast.Def:
			c := *t
			c.Params = underscoreParams(t.Params, t.Guard, t.Body)
			return &c
		}
		return n
	})
}

func underscoreParams(params []ast.Pattern, guard ast.Node, body *ast.Block) []ast.Pattern {
	probe := &ast.Block{Stmts: []ast.Node{}}
	if guard != nil {
		probe.Stmts = append(probe.Stmts, guard)
	}
	if body != nil {
		probe.Stmts = append(probe.Stmts, body)
	}
	used := scope.ReferencedNames(probe)
	out := make([]ast.Pattern, len(params))
	for i, param := range params {
		out[i] = ast.RewritePattern(param, func(pt ast.Pattern) ast.Pattern {
			pv, ok := pt.(*ast.PVar)
			if !ok || pv.Wildcard() || pv.Suppressed() || used.Has(pv.Name) {
				return pt
			}
			return &ast.PVar{Pos: pv.Pos, Name: "_" + pv.Name}
		})
	}
	return out
}

// SingletonBlock collapses one-statement blocks in value position and
// splices nested statement blocks left behind by earlier cleanup. Branch
// positions are rebuilt as blocks by the traversal, so they are unaffected.
type SingletonBlock struct{}

func (p *SingletonBlock) Name() string { return "singleton-block" }
func (p *SingletonBlock) Tier() Tier   { return Cleanup }

func (p *SingletonBlock) Apply(n ast.Node, ctx *Context) ast.Node {
	flatten := &FlattenBlocks{}
	return ast.Rewrite(flatten.Apply(n, ctx), func(n ast.Node) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok || len(b.Stmts) != 1 || b.Meta() != nil {
			return n
		}
		return b.Stmts[0]
	})
}

// reservedWords are the target-language words that cannot serve as variable
// names, plus the keyword-like macro heads that would make the printed code
// unreadable even where technically legal.
var reservedWords = scope.NewNameSet(
	"true", "false", "nil", "when", "and", "or", "not", "in",
	"fn", "do", "end", "catch", "rescue", "after", "else",
	"case", "cond", "if", "unless", "for", "with", "receive", "try",
	"def", "defp", "defmodule", "import", "require", "use",
	"quote", "unquote", "super",
)

// ReservedWords appends an underscore to binders and references that
// collide with the reserved list, uniformly across the tree so every
// reference keeps resolving to its binder.
type ReservedWords struct{}

func (p *ReservedWords) Name() string { return "reserved-words" }
func (p *ReservedWords) Tier() Tier   { return Cleanup }

func (p *ReservedWords) Apply(n ast.Node, ctx *Context) ast.Node {
	// Names that are actually bound somewhere also need their reads inside
	// raw text rewritten; collect them up front so a Raw visited before its
	// binder is not skipped.
	bound := scope.NewNameSet()
	ast.Walk(n, func(c ast.Node) bool {
		switch t := c.(type) {
		case *ast.PVar:
			if reservedWords.Has(t.Name) {
				bound.Add(t.Name)
			}
		case *ast.PAlias:
			if reservedWords.Has(t.Name) {
				bound.Add(t.Name)
			}
		}
		return true
	})
	renameP := func(pt ast.Pattern) ast.Pattern {
		switch t := pt.(type) {
		case *ast.PVar:
			if reservedWords.Has(t.Name) {
				ctx.warnf(p.Name(), diag.CodeReservedWord, t.Pos,
					"%s is a reserved word, renaming to %s_", t.Name, t.Name)
				return &ast.PVar{Pos: t.Pos, Name: t.Name + "_"}
			}
		case *ast.PAlias:
			if reservedWords.Has(t.Name) {
				c := *t
				c.Name = t.Name + "_"
				return &c
			}
		case *ast.PPin:
			if reservedWords.Has(t.Name) {
				return &ast.PPin{Pos: t.Pos, Name: t.Name + "_"}
			}
		}
		return pt
	}
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		switch v := n.(type) {
		case *ast.Var:
			if reservedWords.Has(v.Name) {
				return &ast.Var{Pos: v.Pos, Name: v.Name + "_"}
			}
			return v
		case *ast.Raw:
			out := ast.Node(v)
			for name := range bound {
				out = harmonize.RenameIn(out, name, name+"_")
			}
			return out
		}
		return rewritePatternsIn(n, renameP)
	})
}

// DoubleUnderscore collapses binders that picked up a second suppression
// prefix into a single one.
type DoubleUnderscore struct{}

func (p *DoubleUnderscore) Name() string { return "double-underscore" }
func (p *DoubleUnderscore) Tier() Tier   { return Cleanup }

func (p *DoubleUnderscore) Apply(n ast.Node, ctx *Context) ast.Node {
	trim := func(pt ast.Pattern) ast.Pattern {
		pv, ok := pt.(*ast.PVar)
		if !ok || !strings.HasPrefix(pv.Name, "__") {
			return pt
		}
		name := pv.Name
		for strings.HasPrefix(name, "__") {
			name = name[1:]
		}
		return &ast.PVar{Pos: pv.Pos, Name: name}
	}
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		return rewritePatternsIn(n, trim)
	})
}

// rewritePatternsIn returns a copy of n with f applied to every pattern n
// directly holds. Expression traversal skips patterns, so passes that
// rewrite binders go through here from the owning node.
func rewritePatternsIn(n ast.Node, f func(ast.Pattern) ast.Pattern) ast.Node {
	mapClauses := func(cs []*ast.CaseClause) []*ast.CaseClause {
		out := make([]*ast.CaseClause, len(cs))
		for i, cl := range cs {
			c := *cl
			c.Pattern = ast.RewritePattern(cl.Pattern, f)
			out[i] = &c
		}
		return out
	}
	mapParams := func(ps []ast.Pattern) []ast.Pattern {
		out := make([]ast.Pattern, len(ps))
		for i, p := range ps {
			out[i] = ast.RewritePattern(p, f)
		}
		return out
	}

	switch t := n.(type) {
	case *ast.Bind:
		c := *t
		c.Pattern = ast.RewritePattern(t.Pattern, f)
		return &c
	case *ast.Case:
		c := *t
		c.Clauses = mapClauses(t.Clauses)
		return &c
	case *ast.Receive:
		c := *t
		c.Clauses = mapClauses(t.Clauses)
		return &c
	case *ast.Fn:
		c := *t
		c.Clauses = make([]*ast.FnClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			fc := *cl
			fc.Params = mapParams(cl.Params)
			c.Clauses[i] = &fc
		}
		return &c
	case *ast.Def:
		c := *t
		c.Params = mapParams(t.Params)
		return &c
	case *ast.With:
		c := *t
		c.Clauses = make([]*ast.WithClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			wc := *cl
			wc.Pattern = ast.RewritePattern(cl.Pattern, f)
			c.Clauses[i] = &wc
		}
		if t.Else != nil {
			c.Else = mapClauses(t.Else)
		}
		return &c
	case *ast.TryRescue:
		c := *t
		c.Rescues = make([]*ast.RescueClause, len(t.Rescues))
		for i, r := range t.Rescues {
			rc := *r
			rc.Pattern = ast.RewritePattern(r.Pattern, f)
			c.Rescues[i] = &rc
		}
		return &c
	}
	return n
}
