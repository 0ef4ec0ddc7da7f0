package scope

import (
	"exalt/internal/ast"
)

// BoundNames returns every binder name a pattern introduces. Alias names are
// included; pins are excluded because a pin consumes an existing binding
// rather than introducing one. The bare wildcard "_" binds nothing, but
// suppressed binders ("_todo") are real bindings and are returned as-is.
func BoundNames(p ast.Pattern) NameSet {
	out := make(NameSet)
	collectBound(p, out)
	return out
}

func collectBound(p ast.Pattern, out NameSet) {
	switch t := p.(type) {
	case *ast.PVar:
		if !t.Wildcard() {
			out.Add(t.Name)
		}
	case *ast.PTuple:
		for _, e := range t.Elements {
			collectBound(e, out)
		}
	case *ast.PList:
		for _, e := range t.Elements {
			collectBound(e, out)
		}
	case *ast.PCons:
		collectBound(t.Head, out)
		collectBound(t.Tail, out)
	case *ast.PMap:
		for _, e := range t.Entries {
			collectBound(e.Value, out)
		}
	case *ast.PStruct:
		for _, e := range t.Entries {
			collectBound(e.Value, out)
		}
	case *ast.PAlias:
		out.Add(t.Name)
		collectBound(t.Pattern, out)
	case *ast.PBinary:
		for _, s := range t.Segments {
			collectBound(s.Value, out)
		}
	}
	// PLiteral and PPin introduce nothing.
}

// DeclaredNames returns every name declared by a pattern anywhere in the
// subtree: binds, case/with/receive/rescue clause heads, and function
// parameters. Names used only as call arguments are not declarations.
func DeclaredNames(n ast.Node) NameSet {
	out := make(NameSet)
	ast.Walk(n, func(c ast.Node) bool {
		switch t := c.(type) {
		case *ast.Bind:
			collectBound(t.Pattern, out)
		case *ast.CaseClause:
			collectBound(t.Pattern, out)
		case *ast.WithClause:
			collectBound(t.Pattern, out)
		case *ast.RescueClause:
			collectBound(t.Pattern, out)
		case *ast.FnClause:
			for _, p := range t.Params {
				collectBound(p, out)
			}
		case *ast.Def:
			for _, p := range t.Params {
				collectBound(p, out)
			}
		}
		return true
	})
	return out
}

// ReferencedNames returns the free variable reads of a subtree: names read
// somewhere inside it that no enclosing pattern within the subtree binds.
// Reads inside interpolation segments and raw-text nodes count; pinned
// pattern names count, since a pin reads the bound value.
func ReferencedNames(n ast.Node) NameSet {
	c := &refCollector{free: make(NameSet)}
	c.node(n, make(NameSet))
	return c.free
}

// refCollector threads the set of names bound by enclosing patterns through
// the traversal. visits counts every node touched so the usage index can
// assert linear construction cost.
type refCollector struct {
	free   NameSet
	visits int
}

func (c *refCollector) node(n ast.Node, bound NameSet) {
	if n == nil {
		return
	}
	c.visits++

	switch t := n.(type) {
	case *ast.Var:
		if !bound.Has(t.Name) {
			c.free.Add(t.Name)
		}
	case *ast.Literal:
		// No reads.
	case *ast.Interp:
		for _, seg := range t.Segments {
			if seg.Expr != nil {
				c.node(seg.Expr, bound)
			}
		}
	case *ast.Raw:
		for _, name := range ScanIdents(t.Text) {
			if !bound.Has(name) {
				c.free.Add(name)
			}
		}
	case *ast.Block:
		c.block(t, bound)
	case *ast.Bind:
		c.node(t.Value, bound)
		c.patternReads(t.Pattern, bound)
	case *ast.Cond:
		c.node(t.Condition, bound)
		c.blockScoped(t.Then, bound)
		c.blockScoped(t.Else, bound)
	case *ast.Case:
		c.node(t.Subject, bound)
		for _, cl := range t.Clauses {
			c.clause(cl, bound)
		}
	case *ast.CaseClause:
		c.clause(t, bound)
	case *ast.Fn:
		for _, cl := range t.Clauses {
			c.fnClause(cl.Params, cl.Guard, cl.Body, bound)
		}
	case *ast.FnClause:
		c.fnClause(t.Params, t.Guard, t.Body, bound)
	case *ast.Def:
		// A def body sees only its parameters; module scope holds
		// functions, not variables.
		c.fnClause(t.Params, t.Guard, t.Body, make(NameSet))
	case *ast.CallLocal:
		for _, a := range t.Args {
			c.node(a, bound)
		}
	case *ast.CallRemote:
		for _, a := range t.Args {
			c.node(a, bound)
		}
	case *ast.FieldAccess:
		c.node(t.Target, bound)
	case *ast.IndexAccess:
		c.node(t.Target, bound)
		c.node(t.Index, bound)
	case *ast.Tuple:
		for _, e := range t.Elements {
			c.node(e, bound)
		}
	case *ast.ListLit:
		for _, e := range t.Elements {
			c.node(e, bound)
		}
	case *ast.MapLit:
		c.entries(t.Entries, bound)
	case *ast.MapEntry:
		c.node(t.Key, bound)
		c.node(t.Value, bound)
	case *ast.StructLit:
		c.entries(t.Entries, bound)
	case *ast.StructUpdate:
		c.node(t.Target, bound)
		c.entries(t.Entries, bound)
	case *ast.Pipe:
		c.node(t.Left, bound)
		c.node(t.Right, bound)
	case *ast.BinOp:
		c.node(t.Left, bound)
		c.node(t.Right, bound)
	case *ast.UnOp:
		c.node(t.Value, bound)
	case *ast.With:
		inner := bound.Clone()
		for _, cl := range t.Clauses {
			c.node(cl.Value, inner)
			c.patternReads(cl.Pattern, inner)
			inner.AddAll(BoundNames(cl.Pattern))
		}
		c.blockScoped(t.Body, inner)
		for _, cl := range t.Else {
			c.clause(cl, bound)
		}
	case *ast.TryRescue:
		c.blockScoped(t.Body, bound)
		for _, r := range t.Rescues {
			inner := bound.Clone()
			c.patternReads(r.Pattern, inner)
			inner.AddAll(BoundNames(r.Pattern))
			c.blockScoped(r.Body, inner)
		}
		c.blockScoped(t.After, bound)
	case *ast.Receive:
		for _, cl := range t.Clauses {
			c.clause(cl, bound)
		}
		c.node(t.Timeout, bound)
		c.blockScoped(t.OnTimeout, bound)
	case *ast.ModuleDef:
		for _, d := range t.Body {
			c.node(d, bound)
		}
	}
}

// block threads bindings forward through a statement sequence: a Bind's
// value is read under the scope before the pattern binds.
func (c *refCollector) block(b *ast.Block, bound NameSet) {
	inner := bound.Clone()
	for _, stmt := range b.Stmts {
		c.node(stmt, inner)
		if bind, ok := stmt.(*ast.Bind); ok {
			inner.AddAll(BoundNames(bind.Pattern))
		}
	}
}

// blockScoped visits a branch body whose bindings do not escape.
func (c *refCollector) blockScoped(b *ast.Block, bound NameSet) {
	if b == nil {
		return
	}
	c.visits++
	c.block(b, bound)
}

func (c *refCollector) clause(cl *ast.CaseClause, bound NameSet) {
	inner := bound.Clone()
	c.patternReads(cl.Pattern, inner)
	inner.AddAll(BoundNames(cl.Pattern))
	if cl.Guard != nil {
		c.node(cl.Guard, inner)
	}
	c.blockScoped(cl.Body, inner)
}

func (c *refCollector) fnClause(params []ast.Pattern, guard ast.Node, body *ast.Block, bound NameSet) {
	inner := bound.Clone()
	for _, p := range params {
		c.patternReads(p, inner)
		inner.AddAll(BoundNames(p))
	}
	if guard != nil {
		c.node(guard, inner)
	}
	c.blockScoped(body, inner)
}

func (c *refCollector) entries(es []*ast.MapEntry, bound NameSet) {
	for _, e := range es {
		c.node(e.Key, bound)
		c.node(e.Value, bound)
	}
}

// patternReads collects the value reads hiding inside a pattern: pinned
// names, map keys, and bit-segment sizes.
func (c *refCollector) patternReads(p ast.Pattern, bound NameSet) {
	switch t := p.(type) {
	case *ast.PPin:
		c.visits++
		if !bound.Has(t.Name) {
			c.free.Add(t.Name)
		}
	case *ast.PTuple:
		for _, e := range t.Elements {
			c.patternReads(e, bound)
		}
	case *ast.PList:
		for _, e := range t.Elements {
			c.patternReads(e, bound)
		}
	case *ast.PCons:
		c.patternReads(t.Head, bound)
		c.patternReads(t.Tail, bound)
	case *ast.PMap:
		for _, e := range t.Entries {
			c.node(e.Key, bound)
			c.patternReads(e.Value, bound)
		}
	case *ast.PStruct:
		for _, e := range t.Entries {
			c.node(e.Key, bound)
			c.patternReads(e.Value, bound)
		}
	case *ast.PAlias:
		c.patternReads(t.Pattern, bound)
	case *ast.PBinary:
		for _, s := range t.Segments {
			c.patternReads(s.Value, bound)
			c.node(s.Size, bound)
		}
	}
}
