package passes

import (
	"exalt/internal/ast"
	"exalt/internal/diag"
)

// FlattenBlocks splices nested statement-position blocks into their parent.
// The lowering stage wraps every host compound statement in a block of its
// own; after splicing, a block's statement list is the real statement
// sequence of its scope, which every later pass depends on. Blocks carrying
// metadata are left intact.
type FlattenBlocks struct{}

func (p *FlattenBlocks) Name() string { return "flatten-blocks" }
func (p *FlattenBlocks) Tier() Tier   { return Structural }

func (p *FlattenBlocks) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		splice := false
		for _, s := range b.Stmts {
			if inner, ok := s.(*ast.Block); ok && inner.Meta() == nil {
				splice = true
				break
			}
		}
		if !splice {
			return b
		}
		out := *b
		out.Stmts = nil
		for _, s := range b.Stmts {
			if inner, ok := s.(*ast.Block); ok && inner.Meta() == nil {
				out.Stmts = append(out.Stmts, inner.Stmts...)
				continue
			}
			out.Stmts = append(out.Stmts, s)
		}
		return &out
	})
}

// EarlyReturn rebuilds lowered host returns into expression-shaped
// conditionals. A conditional flagged as a lowered return has no else branch
// and is followed by the statements the host would only reach when the
// condition fails; those statements become the else branch. When the return
// sits deeper inside the then branch, the trailing statements are appended
// to the then branch as its fallthrough continuation and duplicated into the
// else branch, which is the only shape that preserves both paths.
type EarlyReturn struct{}

func (p *EarlyReturn) Name() string { return "early-return" }
func (p *EarlyReturn) Tier() Tier   { return Structural }

func (p *EarlyReturn) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.RewriteTopDown(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.Block)
		if !ok {
			return n
		}
		return rebuildEarlyReturns(b)
	})
}

// rebuildEarlyReturns restructures the first qualifying conditional of the
// block. Anything pushed into a new branch is revisited by the traversal, so
// chained returns resolve one level per visit.
func rebuildEarlyReturns(b *ast.Block) ast.Node {
	for i, s := range b.Stmts {
		c, ok := s.(*ast.Cond)
		if !ok || c.Else != nil || i == len(b.Stmts)-1 {
			continue
		}
		rest := copyNodes(b.Stmts[i+1:])

		if ast.IsFromEarlyReturn(c) {
			nc := *c
			nc.Else = &ast.Block{Pos: rest[0].NodePos(), Stmts: rest}
			nb := *b
			nb.Stmts = append(copyNodes(b.Stmts[:i]), &nc)
			return &nb
		}
		if containsEarlyReturn(c.Then) {
			nc := *c
			nc.Then = &ast.Block{
				Pos:   c.Then.Pos,
				Stmts: append(copyNodes(c.Then.Stmts), rest...),
			}
			nc.Else = &ast.Block{Pos: rest[0].NodePos(), Stmts: copyNodes(rest)}
			nb := *b
			nb.Stmts = append(copyNodes(b.Stmts[:i]), &nc)
			return &nb
		}
	}
	return b
}

// containsEarlyReturn reports whether n still holds an unresolved lowered
// return. Anonymous functions are boundaries: a return inside one exits the
// closure, not the enclosing function.
func containsEarlyReturn(n ast.Node) bool {
	found := false
	ast.Walk(n, func(c ast.Node) bool {
		switch t := c.(type) {
		case *ast.Fn, *ast.Def:
			return false
		case *ast.Cond:
			if ast.IsFromEarlyReturn(t) && t.Else == nil {
				found = true
			}
		}
		return !found
	})
	return found
}

func copyNodes(ns []ast.Node) []ast.Node {
	out := make([]ast.Node, len(ns))
	copy(out, ns)
	return out
}

// LoopReduce turns a lowered host while-loop into a reduce_while over an
// infinite source. The lowering flags the loop conditional and records the
// accumulator name as a hint; the loop body rebinds the accumulator, so the
// fn threads it and the conditional decides between continuing with the new
// value and halting with the old one.
type LoopReduce struct{}

func (p *LoopReduce) Name() string { return "loop-reduce" }
func (p *LoopReduce) Tier() Tier   { return Structural }

func (p *LoopReduce) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		c, ok := n.(*ast.Cond)
		if !ok || !ast.IsFromLoop(c) {
			return n
		}
		acc := ast.HintOf(c, "loop_acc")
		if acc == "" {
			ctx.warnf("loop-reduce", diag.CodeAmbiguousRepair, c.Pos,
				"loop conditional has no accumulator hint, leaving it as a conditional")
			return n
		}

		accVar := func() *ast.Var { return &ast.Var{Pos: c.Pos, Name: acc} }
		cont := &ast.Tuple{Pos: c.Pos, Elements: []ast.Node{
			&ast.Literal{Pos: c.Pos, Kind: ast.AtomLit, Value: "cont"}, accVar(),
		}}
		halt := &ast.Tuple{Pos: c.Pos, Elements: []ast.Node{
			&ast.Literal{Pos: c.Pos, Kind: ast.AtomLit, Value: "halt"}, accVar(),
		}}

		step := &ast.Cond{
			Pos:       c.Pos,
			Condition: c.Condition,
			Then:      &ast.Block{Pos: c.Then.Pos, Stmts: append(copyNodes(c.Then.Stmts), cont)},
			Else:      &ast.Block{Pos: c.Pos, Stmts: []ast.Node{halt}},
		}
		body := &ast.Fn{Pos: c.Pos, Clauses: []*ast.FnClause{{
			Pos:    c.Pos,
			Params: []ast.Pattern{&ast.PVar{Pos: c.Pos, Name: "_"}, &ast.PVar{Pos: c.Pos, Name: acc}},
			Body:   &ast.Block{Pos: c.Pos, Stmts: []ast.Node{step}},
		}}}

		source := &ast.CallRemote{Pos: c.Pos, Module: "Stream", Name: "cycle", Args: []ast.Node{
			&ast.ListLit{Pos: c.Pos, Elements: []ast.Node{
				&ast.Literal{Pos: c.Pos, Kind: ast.AtomLit, Value: "ok"},
			}},
		}}
		return &ast.Bind{
			Pos:     c.Pos,
			Pattern: &ast.PVar{Pos: c.Pos, Name: acc},
			Value: &ast.CallRemote{Pos: c.Pos, Module: "Enum", Name: "reduce_while",
				Args: []ast.Node{source, accVar(), body}},
		}
	})
}

// ResultWith rewrites a ladder of nested two-clause tagged-tuple cases into
// a single with expression. Each rung must match a tagged tuple in one
// clause and hold the next rung as the sole statement of that clause's body;
// the remaining clauses of every rung become the else section, deduplicated
// by rendering.
type ResultWith struct{}

func (p *ResultWith) Name() string { return "result-with" }
func (p *ResultWith) Tier() Tier   { return Structural }

func (p *ResultWith) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.RewriteTopDown(n, func(n ast.Node) ast.Node {
		c, ok := n.(*ast.Case)
		if !ok {
			return n
		}
		clauses, body, elses := collectResultChain(c, nil, nil)
		if len(clauses) < 2 {
			return n
		}
		return &ast.With{Pos: c.Pos, Clauses: clauses, Body: body, Else: elses}
	})
}

func collectResultChain(c *ast.Case, clauses []*ast.WithClause, elses []*ast.CaseClause) ([]*ast.WithClause, *ast.Block, []*ast.CaseClause) {
	okClause, rest := splitResultCase(c)
	if okClause == nil {
		return clauses, nil, nil
	}
	clauses = append(clauses, &ast.WithClause{
		Pos:     okClause.Pos,
		Pattern: okClause.Pattern,
		Value:   c.Subject,
	})
	elses = appendElseClauses(elses, rest)

	if next, ok := soleStmtCase(okClause.Body); ok {
		if inner, body, innerElses := collectResultChain(next, clauses, elses); body != nil {
			return inner, body, innerElses
		}
	}
	return clauses, okClause.Body, elses
}

// splitResultCase returns the tagged success clause of a two-clause case, or
// nil when the case does not have the result shape. The success clause is
// the one matching a tuple whose first element is the :ok atom; it must not
// carry a guard, because a guard would not survive as a with clause.
func splitResultCase(c *ast.Case) (*ast.CaseClause, []*ast.CaseClause) {
	if len(c.Clauses) != 2 {
		return nil, nil
	}
	for i, cl := range c.Clauses {
		if cl.Guard != nil || !isTaggedPattern(cl.Pattern, "ok") {
			continue
		}
		return cl, append([]*ast.CaseClause{}, c.Clauses[1-i])
	}
	return nil, nil
}

func isTaggedPattern(p ast.Pattern, tag string) bool {
	t, ok := p.(*ast.PTuple)
	if !ok || len(t.Elements) == 0 {
		return false
	}
	lit, ok := t.Elements[0].(*ast.PLiteral)
	return ok && lit.Kind == ast.AtomLit && lit.Value == tag
}

func soleStmtCase(b *ast.Block) (*ast.Case, bool) {
	if b == nil || len(b.Stmts) != 1 {
		return nil, false
	}
	c, ok := b.Stmts[0].(*ast.Case)
	return c, ok
}

func appendElseClauses(elses, more []*ast.CaseClause) []*ast.CaseClause {
	seen := make(map[string]bool, len(elses))
	for _, e := range elses {
		seen[e.String()] = true
	}
	for _, e := range more {
		if !seen[e.String()] {
			seen[e.String()] = true
			elses = append(elses, e)
		}
	}
	return elses
}

// PipeChains converts calls the lowering flagged as pipeline heads into pipe
// expressions. Conversion is bottom-up, so a flagged call whose receiver was
// itself flagged ends up as a left-associated chain.
type PipeChains struct{}

func (p *PipeChains) Name() string { return "pipe-chains" }
func (p *PipeChains) Tier() Tier   { return Structural }

func (p *PipeChains) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		if !ast.IsPipeCandidate(n) {
			return n
		}
		switch t := n.(type) {
		case *ast.CallLocal:
			if len(t.Args) == 0 {
				return n
			}
			c := *t
			c.Args = copyNodes(t.Args[1:])
			c.SetMeta(withoutPipeFlag(t.Meta()))
			return &ast.Pipe{Pos: t.Pos, Left: t.Args[0], Right: &c}
		case *ast.CallRemote:
			if len(t.Args) == 0 {
				return n
			}
			c := *t
			c.Args = copyNodes(t.Args[1:])
			c.SetMeta(withoutPipeFlag(t.Meta()))
			return &ast.Pipe{Pos: t.Pos, Left: t.Args[0], Right: &c}
		}
		return n
	})
}

func withoutPipeFlag(m *ast.Meta) *ast.Meta {
	if m == nil {
		return nil
	}
	c := *m
	c.PipeCandidate = false
	if !c.FromEarlyReturn && !c.FromLoop && !c.FromCompare && !c.MutatesArg && len(c.Hints) == 0 {
		return nil
	}
	return &c
}

// InterpConcat folds string concatenation into interpolation. A
// concatenation qualifies once either side is a string literal or an
// existing interpolation; a concatenation of two opaque expressions is left
// alone since interpolating it gains nothing.
type InterpConcat struct{}

func (p *InterpConcat) Name() string { return "interp-concat" }
func (p *InterpConcat) Tier() Tier   { return Structural }

func (p *InterpConcat) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		b, ok := n.(*ast.BinOp)
		if !ok || b.Op != "<>" || !(isTextLeaf(b.Left) || isTextLeaf(b.Right)) {
			return n
		}
		segs := append(interpSegs(b.Left), interpSegs(b.Right)...)
		return &ast.Interp{Pos: b.Pos, Segments: mergeTextSegs(segs)}
	})
}

func isTextLeaf(n ast.Node) bool {
	switch t := n.(type) {
	case *ast.Literal:
		return t.Kind == ast.StringLit
	case *ast.Interp:
		return true
	}
	return false
}

func interpSegs(n ast.Node) []ast.InterpSeg {
	switch t := n.(type) {
	case *ast.Literal:
		if t.Kind == ast.StringLit {
			return []ast.InterpSeg{{Text: t.Value}}
		}
	case *ast.Interp:
		return t.Segments
	}
	return []ast.InterpSeg{{Expr: n}}
}

func mergeTextSegs(segs []ast.InterpSeg) []ast.InterpSeg {
	out := segs[:0:0]
	for _, s := range segs {
		if n := len(out); n > 0 && s.Expr == nil && out[n-1].Expr == nil {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// StructUpdateShape rewrites field stores the lowering expressed as Map.put
// into update syntax, and collapses a chain of updates on the same target
// into one update with the later entry winning.
type StructUpdateShape struct{}

func (p *StructUpdateShape) Name() string { return "struct-update" }
func (p *StructUpdateShape) Tier() Tier   { return Structural }

func (p *StructUpdateShape) Apply(n ast.Node, ctx *Context) ast.Node {
	return ast.Rewrite(n, func(n ast.Node) ast.Node {
		call, ok := n.(*ast.CallRemote)
		if ok && call.Module == "Map" && ast.MutatesArg(call) {
			if u := mapCallToUpdate(call); u != nil {
				n = u
			}
		}
		u, ok := n.(*ast.StructUpdate)
		if !ok {
			return n
		}
		inner, ok := u.Target.(*ast.StructUpdate)
		if !ok {
			return u
		}
		c := *u
		c.Target = inner.Target
		c.Entries = mergeUpdateEntries(inner.Entries, u.Entries)
		return &c
	})
}

func mapCallToUpdate(call *ast.CallRemote) *ast.StructUpdate {
	switch call.Name {
	case "put":
		if len(call.Args) != 3 {
			return nil
		}
		key, ok := call.Args[1].(*ast.Literal)
		if !ok || key.Kind != ast.AtomLit {
			return nil
		}
		return &ast.StructUpdate{Pos: call.Pos, Target: call.Args[0],
			Entries: []*ast.MapEntry{{Pos: call.Pos, Key: key, Value: call.Args[2]}}}
	case "merge":
		if len(call.Args) != 2 {
			return nil
		}
		m, ok := call.Args[1].(*ast.MapLit)
		if !ok {
			return nil
		}
		return &ast.StructUpdate{Pos: call.Pos, Target: call.Args[0], Entries: m.Entries}
	}
	return nil
}

func mergeUpdateEntries(first, second []*ast.MapEntry) []*ast.MapEntry {
	out := make([]*ast.MapEntry, 0, len(first)+len(second))
	for _, e := range first {
		if !entryKeyIn(second, e) {
			out = append(out, e)
		}
	}
	return append(out, second...)
}

func entryKeyIn(es []*ast.MapEntry, e *ast.MapEntry) bool {
	for _, other := range es {
		if other.Key.String() == e.Key.String() {
			return true
		}
	}
	return false
}
