package ast

import (
	"fmt"
	"strings"
)

// Print renders a tree as indented Elixir-like text. This is a debugging and
// testing surface; the real serializer lives downstream of the pipeline.
func Print(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func (v *Var) String() string {
	return v.Name
}

func (l *Literal) String() string {
	switch l.Kind {
	case StringLit:
		return fmt.Sprintf("%q", l.Value)
	case AtomLit:
		return ":" + l.Value
	default:
		return l.Value
	}
}

func (i *Interp) String() string {
	var b strings.Builder
	b.WriteByte('"')
	for _, seg := range i.Segments {
		if seg.Expr != nil {
			b.WriteString("#{")
			b.WriteString(seg.Expr.String())
			b.WriteString("}")
		} else {
			b.WriteString(seg.Text)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func (b *Block) String() string {
	return b.StringIndented("")
}

// StringIndented renders each statement on its own line at the given indent.
func (b *Block) StringIndented(indent string) string {
	var out strings.Builder
	for i, s := range b.Stmts {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString(indent)
		out.WriteString(indentTail(s.String(), indent))
	}
	return out.String()
}

// indentTail re-indents the continuation lines of a nested rendering.
func indentTail(s, indent string) string {
	if indent == "" {
		return s
	}
	return strings.ReplaceAll(s, "\n", "\n"+indent)
}

func (b *Bind) String() string {
	return fmt.Sprintf("%s = %s", b.Pattern.String(), b.Value.String())
}

func (c *Cond) String() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("if %s do\n", c.Condition.String()))
	out.WriteString(c.Then.StringIndented("  "))
	if c.Else != nil {
		out.WriteString("\nelse\n")
		out.WriteString(c.Else.StringIndented("  "))
	}
	out.WriteString("\nend")
	return out.String()
}

func (c *Case) String() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("case %s do\n", c.Subject.String()))
	for _, cl := range c.Clauses {
		out.WriteString("  ")
		out.WriteString(indentTail(cl.String(), "  "))
		out.WriteByte('\n')
	}
	out.WriteString("end")
	return out.String()
}

func (c *CaseClause) String() string {
	head := c.Pattern.String()
	if c.Guard != nil {
		head += " when " + c.Guard.String()
	}
	body := c.Body.StringIndented("  ")
	if len(c.Body.Stmts) == 1 && !strings.Contains(body, "\n") {
		return fmt.Sprintf("%s -> %s", head, strings.TrimLeft(body, " "))
	}
	return fmt.Sprintf("%s ->\n%s", head, body)
}

func (f *Fn) String() string {
	if len(f.Clauses) == 1 {
		cl := f.Clauses[0]
		body := cl.Body.StringIndented("")
		if !strings.Contains(body, "\n") {
			return fmt.Sprintf("fn %s -> %s end", clauseHead(cl.Params, cl.Guard), body)
		}
	}
	var out strings.Builder
	out.WriteString("fn\n")
	for _, cl := range f.Clauses {
		out.WriteString(fmt.Sprintf("  %s ->\n", clauseHead(cl.Params, cl.Guard)))
		out.WriteString(cl.Body.StringIndented("    "))
		out.WriteByte('\n')
	}
	out.WriteString("end")
	return out.String()
}

func (f *FnClause) String() string {
	return fmt.Sprintf("%s ->\n%s", clauseHead(f.Params, f.Guard), f.Body.StringIndented("  "))
}

func clauseHead(params []Pattern, guard Node) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	head := strings.Join(parts, ", ")
	if guard != nil {
		head += " when " + guard.String()
	}
	return head
}

func (d *Def) String() string {
	kw := "def"
	if d.Private {
		kw = "defp"
	}
	var out strings.Builder
	out.WriteString(fmt.Sprintf("%s %s(%s)", kw, d.Name, clauseHead(d.Params, nil)))
	if d.Guard != nil {
		out.WriteString(" when " + d.Guard.String())
	}
	out.WriteString(" do\n")
	out.WriteString(d.Body.StringIndented("  "))
	out.WriteString("\nend")
	return out.String()
}

func (c *CallLocal) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, joinNodes(c.Args))
}

func (c *CallRemote) String() string {
	return fmt.Sprintf("%s.%s(%s)", c.Module, c.Name, joinNodes(c.Args))
}

func joinNodes(ns []Node) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = n.String()
	}
	return strings.Join(parts, ", ")
}

func (f *FieldAccess) String() string {
	return fmt.Sprintf("%s.%s", f.Target.String(), f.Field)
}

func (i *IndexAccess) String() string {
	return fmt.Sprintf("%s[%s]", i.Target.String(), i.Index.String())
}

func (t *Tuple) String() string {
	return fmt.Sprintf("{%s}", joinNodes(t.Elements))
}

func (l *ListLit) String() string {
	return fmt.Sprintf("[%s]", joinNodes(l.Elements))
}

func (m *MapLit) String() string {
	return fmt.Sprintf("%%{%s}", joinEntries(m.Entries))
}

func (e *MapEntry) String() string {
	if key, ok := e.Key.(*Literal); ok && key.Kind == AtomLit {
		return fmt.Sprintf("%s: %s", key.Value, e.Value.String())
	}
	return fmt.Sprintf("%s => %s", e.Key.String(), e.Value.String())
}

func joinEntries(es []*MapEntry) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (s *StructLit) String() string {
	return fmt.Sprintf("%%%s{%s}", s.Module, joinEntries(s.Entries))
}

func (s *StructUpdate) String() string {
	return fmt.Sprintf("%%{%s | %s}", s.Target.String(), joinEntries(s.Entries))
}

func (p *Pipe) String() string {
	return fmt.Sprintf("%s |> %s", p.Left.String(), p.Right.String())
}

func (b *BinOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Op, b.Right.String())
}

func (u *UnOp) String() string {
	if isWordOp(u.Op) {
		return fmt.Sprintf("(%s %s)", u.Op, u.Value.String())
	}
	return fmt.Sprintf("(%s%s)", u.Op, u.Value.String())
}

func isWordOp(op string) bool {
	return op == "not" || op == "and" || op == "or"
}

func (w *With) String() string {
	var out strings.Builder
	out.WriteString("with ")
	for i, cl := range w.Clauses {
		if i > 0 {
			out.WriteString(",\n     ")
		}
		out.WriteString(cl.String())
	}
	out.WriteString(" do\n")
	out.WriteString(w.Body.StringIndented("  "))
	if len(w.Else) > 0 {
		out.WriteString("\nelse\n")
		for _, cl := range w.Else {
			out.WriteString("  ")
			out.WriteString(indentTail(cl.String(), "  "))
			out.WriteByte('\n')
		}
		out.WriteString("end")
		return out.String()
	}
	out.WriteString("\nend")
	return out.String()
}

func (w *WithClause) String() string {
	return fmt.Sprintf("%s <- %s", w.Pattern.String(), w.Value.String())
}

func (t *TryRescue) String() string {
	var out strings.Builder
	out.WriteString("try do\n")
	out.WriteString(t.Body.StringIndented("  "))
	out.WriteString("\nrescue\n")
	for _, r := range t.Rescues {
		out.WriteString("  ")
		out.WriteString(indentTail(r.String(), "  "))
		out.WriteByte('\n')
	}
	if t.After != nil {
		out.WriteString("after\n")
		out.WriteString(t.After.StringIndented("  "))
		out.WriteByte('\n')
	}
	out.WriteString("end")
	return out.String()
}

func (r *RescueClause) String() string {
	return fmt.Sprintf("%s ->\n%s", r.Pattern.String(), r.Body.StringIndented("  "))
}

func (r *Receive) String() string {
	var out strings.Builder
	out.WriteString("receive do\n")
	for _, cl := range r.Clauses {
		out.WriteString("  ")
		out.WriteString(indentTail(cl.String(), "  "))
		out.WriteByte('\n')
	}
	if r.Timeout != nil {
		out.WriteString("after\n")
		out.WriteString(fmt.Sprintf("  %s ->\n", r.Timeout.String()))
		if r.OnTimeout != nil {
			out.WriteString(r.OnTimeout.StringIndented("    "))
			out.WriteByte('\n')
		}
	}
	out.WriteString("end")
	return out.String()
}

func (m *ModuleDef) String() string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("defmodule %s do\n", m.Name))
	for i, d := range m.Body {
		if i > 0 {
			out.WriteByte('\n')
		}
		out.WriteString("  ")
		out.WriteString(indentTail(d.String(), "  "))
		out.WriteByte('\n')
	}
	out.WriteString("end")
	return out.String()
}

func (r *Raw) String() string {
	return r.Text
}

func (p *PVar) String() string {
	return p.Name
}

func (p *PLiteral) String() string {
	switch p.Kind {
	case StringLit:
		return fmt.Sprintf("%q", p.Value)
	case AtomLit:
		return ":" + p.Value
	default:
		return p.Value
	}
}

func (p *PTuple) String() string {
	return fmt.Sprintf("{%s}", joinPatterns(p.Elements))
}

func (p *PList) String() string {
	return fmt.Sprintf("[%s]", joinPatterns(p.Elements))
}

func (p *PCons) String() string {
	return fmt.Sprintf("[%s | %s]", p.Head.String(), p.Tail.String())
}

func joinPatterns(ps []Pattern) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.String()
	}
	return strings.Join(parts, ", ")
}

func (p *PMap) String() string {
	return fmt.Sprintf("%%{%s}", joinPatternEntries(p.Entries))
}

func (e *PMapEntry) String() string {
	if key, ok := e.Key.(*Literal); ok && key.Kind == AtomLit {
		return fmt.Sprintf("%s: %s", key.Value, e.Value.String())
	}
	return fmt.Sprintf("%s => %s", e.Key.String(), e.Value.String())
}

func joinPatternEntries(es []*PMapEntry) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func (p *PStruct) String() string {
	return fmt.Sprintf("%%%s{%s}", p.Module, joinPatternEntries(p.Entries))
}

func (p *PPin) String() string {
	return "^" + p.Name
}

func (p *PAlias) String() string {
	return fmt.Sprintf("%s = %s", p.Pattern.String(), p.Name)
}

func (p *PBinary) String() string {
	parts := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		parts[i] = s.String()
	}
	return fmt.Sprintf("<<%s>>", strings.Join(parts, ", "))
}

func (s *PBitSeg) String() string {
	out := s.Value.String()
	switch {
	case s.Size != nil && s.Type != "":
		out += fmt.Sprintf("::%s-size(%s)", s.Type, s.Size.String())
	case s.Size != nil:
		out += "::" + s.Size.String()
	case s.Type != "":
		out += "::" + s.Type
	}
	return out
}
