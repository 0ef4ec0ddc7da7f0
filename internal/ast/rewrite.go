package ast

// Functional tree rewriting. Passes never mutate a node they received: a
// rewrite allocates a fresh spine for everything it changes and reuses
// untouched subtrees. MapChildren and Rewrite only traverse expression
// positions; patterns are rewritten separately through RewritePattern so a
// reference rewrite can never accidentally rename a binder.

// EnsureBlock wraps a node into a single-statement block unless it already
// is one. Branch positions (Cond, clause bodies) are always blocks.
func EnsureBlock(n Node) *Block {
	if n == nil {
		return nil
	}
	if b, ok := n.(*Block); ok {
		return b
	}
	return &Block{Pos: n.NodePos(), Stmts: []Node{n}}
}

// MapChildren returns a copy of n with every immediate child expression
// replaced by f(child). Patterns and nil children are left alone. Nodes
// without children are returned unchanged.
func MapChildren(n Node, f func(Node) Node) Node {
	mapf := func(c Node) Node {
		if c == nil {
			return nil
		}
		return f(c)
	}
	mapBlock := func(b *Block) *Block {
		if b == nil {
			return nil
		}
		return EnsureBlock(mapf(b))
	}
	mapNodes := func(ns []Node) []Node {
		out := make([]Node, len(ns))
		for i, c := range ns {
			out[i] = mapf(c)
		}
		return out
	}
	mapEntries := func(es []*MapEntry) []*MapEntry {
		out := make([]*MapEntry, len(es))
		for i, e := range es {
			c := *e
			c.Key = mapf(e.Key)
			c.Value = mapf(e.Value)
			out[i] = &c
		}
		return out
	}
	mapCaseClauses := func(cs []*CaseClause) []*CaseClause {
		out := make([]*CaseClause, len(cs))
		for i, cl := range cs {
			c := *cl
			c.Guard = mapf(cl.Guard)
			c.Body = mapBlock(cl.Body)
			out[i] = &c
		}
		return out
	}

	switch t := n.(type) {
	case *Interp:
		c := *t
		c.Segments = make([]InterpSeg, len(t.Segments))
		for i, seg := range t.Segments {
			c.Segments[i] = InterpSeg{Text: seg.Text, Expr: mapf(seg.Expr)}
		}
		return &c
	case *Block:
		c := *t
		c.Stmts = mapNodes(t.Stmts)
		return &c
	case *Bind:
		c := *t
		c.Value = mapf(t.Value)
		return &c
	case *Cond:
		c := *t
		c.Condition = mapf(t.Condition)
		c.Then = mapBlock(t.Then)
		c.Else = mapBlock(t.Else)
		return &c
	case *Case:
		c := *t
		c.Subject = mapf(t.Subject)
		c.Clauses = mapCaseClauses(t.Clauses)
		return &c
	case *CaseClause:
		c := *t
		c.Guard = mapf(t.Guard)
		c.Body = mapBlock(t.Body)
		return &c
	case *Fn:
		c := *t
		c.Clauses = make([]*FnClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			fc := *cl
			fc.Guard = mapf(cl.Guard)
			fc.Body = mapBlock(cl.Body)
			c.Clauses[i] = &fc
		}
		return &c
	case *FnClause:
		c := *t
		c.Guard = mapf(t.Guard)
		c.Body = mapBlock(t.Body)
		return &c
	case *Def:
		c := *t
		c.Guard = mapf(t.Guard)
		c.Body = mapBlock(t.Body)
		return &c
	case *CallLocal:
		c := *t
		c.Args = mapNodes(t.Args)
		return &c
	case *CallRemote:
		c := *t
		c.Args = mapNodes(t.Args)
		return &c
	case *FieldAccess:
		c := *t
		c.Target = mapf(t.Target)
		return &c
	case *IndexAccess:
		c := *t
		c.Target = mapf(t.Target)
		c.Index = mapf(t.Index)
		return &c
	case *Tuple:
		c := *t
		c.Elements = mapNodes(t.Elements)
		return &c
	case *ListLit:
		c := *t
		c.Elements = mapNodes(t.Elements)
		return &c
	case *MapLit:
		c := *t
		c.Entries = mapEntries(t.Entries)
		return &c
	case *MapEntry:
		c := *t
		c.Key = mapf(t.Key)
		c.Value = mapf(t.Value)
		return &c
	case *StructLit:
		c := *t
		c.Entries = mapEntries(t.Entries)
		return &c
	case *StructUpdate:
		c := *t
		c.Target = mapf(t.Target)
		c.Entries = mapEntries(t.Entries)
		return &c
	case *Pipe:
		c := *t
		c.Left = mapf(t.Left)
		c.Right = mapf(t.Right)
		return &c
	case *BinOp:
		c := *t
		c.Left = mapf(t.Left)
		c.Right = mapf(t.Right)
		return &c
	case *UnOp:
		c := *t
		c.Value = mapf(t.Value)
		return &c
	case *With:
		c := *t
		c.Clauses = make([]*WithClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			wc := *cl
			wc.Value = mapf(cl.Value)
			c.Clauses[i] = &wc
		}
		c.Body = mapBlock(t.Body)
		if t.Else != nil {
			c.Else = mapCaseClauses(t.Else)
		}
		return &c
	case *WithClause:
		c := *t
		c.Value = mapf(t.Value)
		return &c
	case *TryRescue:
		c := *t
		c.Body = mapBlock(t.Body)
		c.Rescues = make([]*RescueClause, len(t.Rescues))
		for i, r := range t.Rescues {
			rc := *r
			rc.Body = mapBlock(r.Body)
			c.Rescues[i] = &rc
		}
		c.After = mapBlock(t.After)
		return &c
	case *RescueClause:
		c := *t
		c.Body = mapBlock(t.Body)
		return &c
	case *Receive:
		c := *t
		c.Clauses = mapCaseClauses(t.Clauses)
		c.Timeout = mapf(t.Timeout)
		c.OnTimeout = mapBlock(t.OnTimeout)
		return &c
	case *ModuleDef:
		c := *t
		c.Body = mapNodes(t.Body)
		return &c
	default:
		// Var, Literal, Raw, and patterns have no expression children.
		return n
	}
}

// Rewrite applies f to every expression node children-first: children are
// rewritten, then f sees the rebuilt parent.
func Rewrite(n Node, f func(Node) Node) Node {
	if n == nil {
		return nil
	}
	return f(MapChildren(n, func(c Node) Node { return Rewrite(c, f) }))
}

// RewriteTopDown applies f to the node first, then recurses into whatever f
// returned. f must not return a node that contains the input unchanged at an
// inner position, or the rewrite recurses forever.
func RewriteTopDown(n Node, f func(Node) Node) Node {
	if n == nil {
		return nil
	}
	return MapChildren(f(n), func(c Node) Node { return RewriteTopDown(c, f) })
}

// RewritePattern applies f to every pattern node children-first.
func RewritePattern(p Pattern, f func(Pattern) Pattern) Pattern {
	if p == nil {
		return nil
	}
	switch t := p.(type) {
	case *PTuple:
		c := *t
		c.Elements = make([]Pattern, len(t.Elements))
		for i, e := range t.Elements {
			c.Elements[i] = RewritePattern(e, f)
		}
		return f(&c)
	case *PList:
		c := *t
		c.Elements = make([]Pattern, len(t.Elements))
		for i, e := range t.Elements {
			c.Elements[i] = RewritePattern(e, f)
		}
		return f(&c)
	case *PCons:
		c := *t
		c.Head = RewritePattern(t.Head, f)
		c.Tail = RewritePattern(t.Tail, f)
		return f(&c)
	case *PMap:
		c := *t
		c.Entries = rewritePatternEntries(t.Entries, f)
		return f(&c)
	case *PStruct:
		c := *t
		c.Entries = rewritePatternEntries(t.Entries, f)
		return f(&c)
	case *PAlias:
		c := *t
		c.Pattern = RewritePattern(t.Pattern, f)
		return f(&c)
	case *PBinary:
		c := *t
		c.Segments = make([]*PBitSeg, len(t.Segments))
		for i, s := range t.Segments {
			sc := *s
			sc.Value = RewritePattern(s.Value, f)
			c.Segments[i] = &sc
		}
		return f(&c)
	default:
		// PVar, PLiteral, PPin have no sub-patterns.
		return f(p)
	}
}

func rewritePatternEntries(es []*PMapEntry, f func(Pattern) Pattern) []*PMapEntry {
	out := make([]*PMapEntry, len(es))
	for i, e := range es {
		c := *e
		c.Value = RewritePattern(e.Value, f)
		out[i] = &c
	}
	return out
}

// Walk visits n and every node below it, patterns included. visit returning
// false prunes the subtree.
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	walkP := func(p Pattern) {
		if p != nil {
			Walk(p, visit)
		}
	}
	walkB := func(b *Block) {
		if b != nil {
			Walk(b, visit)
		}
	}
	walkEntries := func(es []*MapEntry) {
		for _, e := range es {
			Walk(e, visit)
		}
	}
	walkCaseClauses := func(cs []*CaseClause) {
		for _, c := range cs {
			Walk(c, visit)
		}
	}

	switch t := n.(type) {
	case *Interp:
		for _, seg := range t.Segments {
			if seg.Expr != nil {
				Walk(seg.Expr, visit)
			}
		}
	case *Block:
		for _, s := range t.Stmts {
			Walk(s, visit)
		}
	case *Bind:
		walkP(t.Pattern)
		Walk(t.Value, visit)
	case *Cond:
		Walk(t.Condition, visit)
		walkB(t.Then)
		walkB(t.Else)
	case *Case:
		Walk(t.Subject, visit)
		walkCaseClauses(t.Clauses)
	case *CaseClause:
		walkP(t.Pattern)
		if t.Guard != nil {
			Walk(t.Guard, visit)
		}
		walkB(t.Body)
	case *Fn:
		for _, c := range t.Clauses {
			Walk(c, visit)
		}
	case *FnClause:
		for _, p := range t.Params {
			walkP(p)
		}
		if t.Guard != nil {
			Walk(t.Guard, visit)
		}
		walkB(t.Body)
	case *Def:
		for _, p := range t.Params {
			walkP(p)
		}
		if t.Guard != nil {
			Walk(t.Guard, visit)
		}
		walkB(t.Body)
	case *CallLocal:
		for _, a := range t.Args {
			Walk(a, visit)
		}
	case *CallRemote:
		for _, a := range t.Args {
			Walk(a, visit)
		}
	case *FieldAccess:
		Walk(t.Target, visit)
	case *IndexAccess:
		Walk(t.Target, visit)
		Walk(t.Index, visit)
	case *Tuple:
		for _, e := range t.Elements {
			Walk(e, visit)
		}
	case *ListLit:
		for _, e := range t.Elements {
			Walk(e, visit)
		}
	case *MapLit:
		walkEntries(t.Entries)
	case *MapEntry:
		Walk(t.Key, visit)
		Walk(t.Value, visit)
	case *StructLit:
		walkEntries(t.Entries)
	case *StructUpdate:
		Walk(t.Target, visit)
		walkEntries(t.Entries)
	case *Pipe:
		Walk(t.Left, visit)
		Walk(t.Right, visit)
	case *BinOp:
		Walk(t.Left, visit)
		Walk(t.Right, visit)
	case *UnOp:
		Walk(t.Value, visit)
	case *With:
		for _, c := range t.Clauses {
			Walk(c, visit)
		}
		walkB(t.Body)
		walkCaseClauses(t.Else)
	case *WithClause:
		walkP(t.Pattern)
		Walk(t.Value, visit)
	case *TryRescue:
		walkB(t.Body)
		for _, r := range t.Rescues {
			Walk(r, visit)
		}
		walkB(t.After)
	case *RescueClause:
		walkP(t.Pattern)
		walkB(t.Body)
	case *Receive:
		walkCaseClauses(t.Clauses)
		if t.Timeout != nil {
			Walk(t.Timeout, visit)
		}
		walkB(t.OnTimeout)
	case *ModuleDef:
		for _, d := range t.Body {
			Walk(d, visit)
		}
	case *PTuple:
		for _, e := range t.Elements {
			walkP(e)
		}
	case *PList:
		for _, e := range t.Elements {
			walkP(e)
		}
	case *PCons:
		walkP(t.Head)
		walkP(t.Tail)
	case *PMap:
		for _, e := range t.Entries {
			Walk(e, visit)
		}
	case *PMapEntry:
		Walk(t.Key, visit)
		walkP(t.Value)
	case *PStruct:
		for _, e := range t.Entries {
			Walk(e, visit)
		}
	case *PAlias:
		walkP(t.Pattern)
	case *PBinary:
		for _, s := range t.Segments {
			Walk(s, visit)
		}
	case *PBitSeg:
		walkP(t.Value)
		if t.Size != nil {
			Walk(t.Size, visit)
		}
	}
}
