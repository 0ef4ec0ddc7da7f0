package harmonize

import (
	"strings"

	"exalt/internal/ast"
)

// RenameIn rewrites every reference to old inside n to read new instead,
// without descending into scopes that rebind old (a nested clause that binds
// the same name shadows it, so its references already resolve elsewhere).
// References hiding in interpolation and raw text are rewritten through the
// same identifier-boundary rules the scanner uses.
func RenameIn(n ast.Node, old, new string) ast.Node {
	if n == nil || old == new {
		return n
	}
	switch t := n.(type) {
	case *ast.Var:
		if t.Name == old {
			return &ast.Var{Pos: t.Pos, Name: new}
		}
		return t
	case *ast.Raw:
		replaced := replaceIdent(t.Text, old, new)
		if replaced == t.Text {
			return t
		}
		c := *t
		c.Text = replaced
		return &c
	case *ast.Case:
		c := *t
		c.Subject = RenameIn(t.Subject, old, new)
		c.Clauses = renameCaseClauses(t.Clauses, old, new)
		return &c
	case *ast.Receive:
		c := *t
		c.Clauses = renameCaseClauses(t.Clauses, old, new)
		c.Timeout = RenameIn(t.Timeout, old, new)
		if t.OnTimeout != nil {
			c.OnTimeout = ast.EnsureBlock(RenameIn(t.OnTimeout, old, new))
		}
		return &c
	case *ast.Fn:
		c := *t
		c.Clauses = make([]*ast.FnClause, len(t.Clauses))
		for i, cl := range t.Clauses {
			c.Clauses[i] = renameFnClause(cl, old, new)
		}
		return &c
	case *ast.Def:
		if paramsBind(t.Params, old) {
			return t
		}
		c := *t
		c.Guard = RenameIn(t.Guard, old, new)
		c.Body = ast.EnsureBlock(RenameIn(t.Body, old, new))
		return &c
	case *ast.Block:
		// A rebind of old partway through the block shadows it for the rest
		// of the statements; those still read the same value here because
		// rebinding is how the lowering models mutation, so renaming past a
		// rebind would split one host variable into two. Stop at the rebind.
		c := *t
		c.Stmts = make([]ast.Node, len(t.Stmts))
		renaming := true
		for i, s := range t.Stmts {
			if renaming {
				c.Stmts[i] = RenameIn(s, old, new)
			} else {
				c.Stmts[i] = s
			}
			if bind, ok := s.(*ast.Bind); ok && renaming {
				if bindsName(bind.Pattern, old) {
					renaming = false
				}
			}
		}
		return &c
	case *ast.With:
		c := *t
		c.Clauses = make([]*ast.WithClause, len(t.Clauses))
		shadowed := false
		for i, cl := range t.Clauses {
			wc := *cl
			if !shadowed {
				wc.Value = RenameIn(cl.Value, old, new)
			}
			if bindsName(cl.Pattern, old) {
				shadowed = true
			}
			c.Clauses[i] = &wc
		}
		if !shadowed {
			c.Body = ast.EnsureBlock(RenameIn(t.Body, old, new))
		}
		c.Else = renameCaseClauses(t.Else, old, new)
		return &c
	case *ast.TryRescue:
		c := *t
		c.Body = ast.EnsureBlock(RenameIn(t.Body, old, new))
		c.Rescues = make([]*ast.RescueClause, len(t.Rescues))
		for i, r := range t.Rescues {
			rc := *r
			if !bindsName(r.Pattern, old) {
				rc.Body = ast.EnsureBlock(RenameIn(r.Body, old, new))
			}
			c.Rescues[i] = &rc
		}
		if t.After != nil {
			c.After = ast.EnsureBlock(RenameIn(t.After, old, new))
		}
		return &c
	default:
		return ast.MapChildren(n, func(child ast.Node) ast.Node {
			return RenameIn(child, old, new)
		})
	}
}

func renameCaseClauses(cs []*ast.CaseClause, old, new string) []*ast.CaseClause {
	out := make([]*ast.CaseClause, len(cs))
	for i, cl := range cs {
		if bindsName(cl.Pattern, old) {
			out[i] = cl
			continue
		}
		c := *cl
		c.Guard = RenameIn(cl.Guard, old, new)
		c.Body = ast.EnsureBlock(RenameIn(cl.Body, old, new))
		out[i] = &c
	}
	return out
}

func renameFnClause(cl *ast.FnClause, old, new string) *ast.FnClause {
	if paramsBind(cl.Params, old) {
		return cl
	}
	c := *cl
	c.Guard = RenameIn(cl.Guard, old, new)
	c.Body = ast.EnsureBlock(RenameIn(cl.Body, old, new))
	return &c
}

func paramsBind(params []ast.Pattern, name string) bool {
	for _, p := range params {
		if bindsName(p, name) {
			return true
		}
	}
	return false
}

func bindsName(p ast.Pattern, name string) bool {
	found := false
	ast.Walk(p, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.PVar:
			if t.Name == name {
				found = true
			}
		case *ast.PAlias:
			if t.Name == name {
				found = true
			}
		}
		return !found
	})
	return found
}

// RenameBinder rewrites pattern binders named old to new, pins included
// (reserved-word sanitization renames binding and reference positions
// uniformly, and a pin is a reference).
func RenameBinder(p ast.Pattern, old, new string) ast.Pattern {
	return ast.RewritePattern(p, func(sub ast.Pattern) ast.Pattern {
		switch t := sub.(type) {
		case *ast.PVar:
			if t.Name == old {
				return &ast.PVar{Pos: t.Pos, Name: new}
			}
		case *ast.PAlias:
			if t.Name == old {
				c := *t
				c.Name = new
				return &c
			}
		case *ast.PPin:
			if t.Name == old {
				return &ast.PPin{Pos: t.Pos, Name: new}
			}
		}
		return sub
	})
}

// replaceIdent substitutes whole-identifier occurrences of old in opaque
// text, leaving longer identifiers that merely contain old untouched.
func replaceIdent(text, old, new string) string {
	var b strings.Builder
	n := len(text)
	for i := 0; i < n; {
		if !strings.HasPrefix(text[i:], old) {
			b.WriteByte(text[i])
			i++
			continue
		}
		// A leading ':' or '.' means an atom or a field, not a variable.
		beforeOK := i == 0 || (!identPart(text[i-1]) && text[i-1] != ':' && text[i-1] != '.')
		afterOK := i+len(old) >= n || !identPart(text[i+len(old)])
		if beforeOK && afterOK {
			b.WriteString(new)
		} else {
			b.WriteString(old)
		}
		i += len(old)
	}
	return b.String()
}

func identPart(c byte) bool {
	return c == '_' || c == '?' || c == '!' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
