// Package exir reads the textual form of the IR. The upstream builder hands
// the pipeline trees directly; this reader exists so the CLI and golden
// tests can feed the pipeline from files instead.
package exir

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fatih/color"

	"exalt/internal/ast"
)

var parser = participle.MustBuild[document](
	participle.Lexer(exirLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// Parse reads one IR tree from source. filename only labels positions.
func Parse(filename, source string) (ast.Node, error) {
	doc, err := parser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return readNode(doc.Expr)
}

// ParseFile reads one IR tree from a file.
func ParseFile(path string) (ast.Node, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	node, err := Parse(path, string(source))
	if err != nil {
		return nil, err
	}
	return node, nil
}

// ReportParseError prints a caret-style parse error message.
func ReportParseError(src string, err error) {
	pe, ok := err.(participle.Error)
	if !ok {
		color.Red("error: %s", err)
		return
	}

	pos := pe.Position()
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(lines[pos.Line-1])
	color.HiRed(strings.Repeat(" ", pos.Column-1) + "^")
	fmt.Printf("  %s\n", pe.Message())
}

func errorAt(pos lexer.Position, format string, args ...interface{}) error {
	return fmt.Errorf("%s:%d:%d: %s", pos.Filename, pos.Line, pos.Column,
		fmt.Sprintf(format, args...))
}

func astPos(pos lexer.Position) ast.Position {
	return ast.Position{Filename: pos.Filename, Offset: pos.Offset, Line: pos.Line, Column: pos.Column}
}

func readNode(e *sexpr) (ast.Node, error) {
	switch {
	case e == nil:
		return nil, fmt.Errorf("empty expression")
	case e.List != nil:
		return readList(e.List)
	case e.Atom != nil:
		return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.AtomLit, Value: strings.TrimPrefix(*e.Atom, ":")}, nil
	case e.String != nil:
		return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.StringLit, Value: unquote(*e.String)}, nil
	case e.Float != nil:
		return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.FloatLit, Value: *e.Float}, nil
	case e.Int != nil:
		return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.IntLit, Value: *e.Int}, nil
	case e.Sym != nil:
		switch *e.Sym {
		case "true", "false":
			return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.BoolLit, Value: *e.Sym}, nil
		case "nil":
			return &ast.Literal{Pos: astPos(e.Pos), Kind: ast.NilLit, Value: "nil"}, nil
		}
		// A bare name is shorthand for (var name).
		return &ast.Var{Pos: astPos(e.Pos), Name: *e.Sym}, nil
	}
	return nil, errorAt(e.Pos, "vector only allowed as a parameter or segment list")
}

func readList(l *list) (ast.Node, error) {
	n, err := readHead(l)
	if err != nil {
		return nil, err
	}
	if len(l.Flags) > 0 {
		meta, err := readFlags(l)
		if err != nil {
			return nil, err
		}
		n.SetMeta(meta)
	}
	return n, nil
}

func readFlags(l *list) (*ast.Meta, error) {
	meta := &ast.Meta{}
	for _, f := range l.Flags {
		name := strings.TrimPrefix(f, "^")
		if key, value, ok := strings.Cut(name, "="); ok {
			meta.SetHint(key, value)
			continue
		}
		switch name {
		case "from_return":
			meta.FromEarlyReturn = true
		case "from_loop":
			meta.FromLoop = true
		case "from_compare":
			meta.FromCompare = true
		case "pipe":
			meta.PipeCandidate = true
		case "mutates":
			meta.MutatesArg = true
		default:
			return nil, errorAt(l.Pos, "unknown flag ^%s", name)
		}
	}
	return meta, nil
}

func readHead(l *list) (ast.Node, error) {
	pos := astPos(l.Pos)
	switch l.Head {
	case "module":
		name, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		body, err := readNodes(rest)
		if err != nil {
			return nil, err
		}
		return &ast.ModuleDef{Pos: pos, Name: name, Body: body}, nil

	case "def", "defp":
		name, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		if len(rest) < 2 || rest[0].Vec == nil {
			return nil, errorAt(l.Pos, "%s needs a name, a [params] vector and a body", l.Head)
		}
		params, err := readPatterns(rest[0].Vec.Items)
		if err != nil {
			return nil, err
		}
		guard, body, err := readGuardedBody(rest[1:])
		if err != nil {
			return nil, err
		}
		return &ast.Def{Pos: pos, Name: name, Private: l.Head == "defp",
			Params: params, Guard: guard, Body: body}, nil

	case "block":
		stmts, err := readNodes(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Pos: pos, Stmts: stmts}, nil

	case "bind":
		if len(l.Items) != 2 {
			return nil, errorAt(l.Pos, "bind needs a pattern and a value")
		}
		pat, err := readPattern(l.Items[0])
		if err != nil {
			return nil, err
		}
		value, err := readNode(l.Items[1])
		if err != nil {
			return nil, err
		}
		return &ast.Bind{Pos: pos, Pattern: pat, Value: value}, nil

	case "cond":
		if len(l.Items) < 2 || len(l.Items) > 3 {
			return nil, errorAt(l.Pos, "cond needs a condition, a then and an optional else")
		}
		condition, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		then, err := readBlockArg(l.Items[1])
		if err != nil {
			return nil, err
		}
		var els *ast.Block
		if len(l.Items) == 3 {
			if els, err = readBlockArg(l.Items[2]); err != nil {
				return nil, err
			}
		}
		return &ast.Cond{Pos: pos, Condition: condition, Then: then, Else: els}, nil

	case "case":
		if len(l.Items) < 2 {
			return nil, errorAt(l.Pos, "case needs a subject and clauses")
		}
		subject, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		clauses, err := readClauses(l.Items[1:])
		if err != nil {
			return nil, err
		}
		return &ast.Case{Pos: pos, Subject: subject, Clauses: clauses}, nil

	case "fn":
		clauses := make([]*ast.FnClause, 0, len(l.Items))
		for _, item := range l.Items {
			cl, err := readFnClause(item)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, cl)
		}
		if len(clauses) == 0 {
			return nil, errorAt(l.Pos, "fn needs at least one fnclause")
		}
		return &ast.Fn{Pos: pos, Clauses: clauses}, nil

	case "call":
		name, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		args, err := readNodes(rest)
		if err != nil {
			return nil, err
		}
		return &ast.CallLocal{Pos: pos, Name: name, Args: args}, nil

	case "rcall":
		module, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 || rest[0].Sym == nil {
			return nil, errorAt(l.Pos, "rcall needs a module and a function name")
		}
		args, err := readNodes(rest[1:])
		if err != nil {
			return nil, err
		}
		return &ast.CallRemote{Pos: pos, Module: module, Name: *rest[0].Sym, Args: args}, nil

	case "field":
		if len(l.Items) != 2 || l.Items[1].Sym == nil {
			return nil, errorAt(l.Pos, "field needs a target and a field name")
		}
		target, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		return &ast.FieldAccess{Pos: pos, Target: target, Field: *l.Items[1].Sym}, nil

	case "index":
		if len(l.Items) != 2 {
			return nil, errorAt(l.Pos, "index needs a target and an index")
		}
		target, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		idx, err := readNode(l.Items[1])
		if err != nil {
			return nil, err
		}
		return &ast.IndexAccess{Pos: pos, Target: target, Index: idx}, nil

	case "tuple":
		elems, err := readNodes(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.Tuple{Pos: pos, Elements: elems}, nil

	case "list":
		elems, err := readNodes(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.ListLit{Pos: pos, Elements: elems}, nil

	case "map":
		entries, err := readEntries(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.MapLit{Pos: pos, Entries: entries}, nil

	case "struct":
		module, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		entries, err := readEntries(rest)
		if err != nil {
			return nil, err
		}
		return &ast.StructLit{Pos: pos, Module: module, Entries: entries}, nil

	case "update":
		if len(l.Items) < 1 {
			return nil, errorAt(l.Pos, "update needs a target")
		}
		target, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		entries, err := readEntries(l.Items[1:])
		if err != nil {
			return nil, err
		}
		return &ast.StructUpdate{Pos: pos, Target: target, Entries: entries}, nil

	case "pipe":
		if len(l.Items) != 2 {
			return nil, errorAt(l.Pos, "pipe needs a left and a right side")
		}
		left, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		right, err := readNode(l.Items[1])
		if err != nil {
			return nil, err
		}
		return &ast.Pipe{Pos: pos, Left: left, Right: right}, nil

	case "binop":
		op, rest, err := symThen(l)
		if err != nil || len(rest) != 2 {
			return nil, errorAt(l.Pos, "binop needs an operator and two operands")
		}
		left, err := readNode(rest[0])
		if err != nil {
			return nil, err
		}
		right, err := readNode(rest[1])
		if err != nil {
			return nil, err
		}
		return &ast.BinOp{Pos: pos, Op: op, Left: left, Right: right}, nil

	case "unop":
		op, rest, err := symThen(l)
		if err != nil || len(rest) != 1 {
			return nil, errorAt(l.Pos, "unop needs an operator and one operand")
		}
		value, err := readNode(rest[0])
		if err != nil {
			return nil, err
		}
		return &ast.UnOp{Pos: pos, Op: op, Value: value}, nil

	case "with":
		return readWith(l, pos)

	case "try":
		return readTry(l, pos)

	case "receive":
		return readReceive(l, pos)

	case "interp":
		segs := make([]ast.InterpSeg, 0, len(l.Items))
		for _, item := range l.Items {
			if item.String != nil {
				segs = append(segs, ast.InterpSeg{Text: unquote(*item.String)})
				continue
			}
			expr, err := readNode(item)
			if err != nil {
				return nil, err
			}
			segs = append(segs, ast.InterpSeg{Expr: expr})
		}
		return &ast.Interp{Pos: pos, Segments: segs}, nil

	case "raw":
		if len(l.Items) != 1 || l.Items[0].String == nil {
			return nil, errorAt(l.Pos, "raw needs one string")
		}
		return &ast.Raw{Pos: pos, Text: unquote(*l.Items[0].String)}, nil

	case "var":
		name, _, err := symThen(l)
		if err != nil {
			return nil, err
		}
		return &ast.Var{Pos: pos, Name: name}, nil

	case "atom":
		if len(l.Items) != 1 || l.Items[0].Atom == nil {
			return nil, errorAt(l.Pos, "atom needs one :name")
		}
		return &ast.Literal{Pos: pos, Kind: ast.AtomLit, Value: strings.TrimPrefix(*l.Items[0].Atom, ":")}, nil

	case "pvar", "plit", "ptuple", "plist", "pcons", "pmap", "pstruct", "ppin", "palias", "pbinary":
		return readPatternList(l)
	}
	return nil, errorAt(l.Pos, "unknown node head %q", l.Head)
}

func readWith(l *list, pos ast.Position) (ast.Node, error) {
	w := &ast.With{Pos: pos}
	i := 0
	for ; i < len(l.Items); i++ {
		item := l.Items[i]
		if item.List == nil || item.List.Head != "wclause" {
			break
		}
		cl := item.List
		if len(cl.Items) != 2 {
			return nil, errorAt(cl.Pos, "wclause needs a pattern and a value")
		}
		pat, err := readPattern(cl.Items[0])
		if err != nil {
			return nil, err
		}
		value, err := readNode(cl.Items[1])
		if err != nil {
			return nil, err
		}
		w.Clauses = append(w.Clauses, &ast.WithClause{Pos: astPos(cl.Pos), Pattern: pat, Value: value})
	}
	if i >= len(l.Items) {
		return nil, errorAt(l.Pos, "with needs a body after its clauses")
	}
	body, err := readBlockArg(l.Items[i])
	if err != nil {
		return nil, err
	}
	w.Body = body
	i++
	if i < len(l.Items) {
		el := l.Items[i]
		if el.List == nil || el.List.Head != "welse" {
			return nil, errorAt(l.Pos, "with allows only a trailing (welse ...) after the body")
		}
		if w.Else, err = readClauses(el.List.Items); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func readTry(l *list, pos ast.Position) (ast.Node, error) {
	if len(l.Items) == 0 {
		return nil, errorAt(l.Pos, "try needs a body")
	}
	body, err := readBlockArg(l.Items[0])
	if err != nil {
		return nil, err
	}
	t := &ast.TryRescue{Pos: pos, Body: body}
	for _, item := range l.Items[1:] {
		if item.List == nil {
			return nil, errorAt(l.Pos, "try allows only (rescue ...) and (after ...) sections")
		}
		sec := item.List
		switch sec.Head {
		case "rescue":
			if len(sec.Items) != 2 {
				return nil, errorAt(sec.Pos, "rescue needs a pattern and a body")
			}
			pat, err := readPattern(sec.Items[0])
			if err != nil {
				return nil, err
			}
			rbody, err := readBlockArg(sec.Items[1])
			if err != nil {
				return nil, err
			}
			t.Rescues = append(t.Rescues, &ast.RescueClause{Pos: astPos(sec.Pos), Pattern: pat, Body: rbody})
		case "after":
			if len(sec.Items) != 1 {
				return nil, errorAt(sec.Pos, "after needs one body")
			}
			if t.After, err = readBlockArg(sec.Items[0]); err != nil {
				return nil, err
			}
		default:
			return nil, errorAt(sec.Pos, "unexpected %q inside try", sec.Head)
		}
	}
	return t, nil
}

func readReceive(l *list, pos ast.Position) (ast.Node, error) {
	r := &ast.Receive{Pos: pos}
	for _, item := range l.Items {
		if item.List != nil && item.List.Head == "after" {
			sec := item.List
			if len(sec.Items) != 2 {
				return nil, errorAt(sec.Pos, "receive after needs a timeout and a body")
			}
			timeout, err := readNode(sec.Items[0])
			if err != nil {
				return nil, err
			}
			body, err := readBlockArg(sec.Items[1])
			if err != nil {
				return nil, err
			}
			r.Timeout, r.OnTimeout = timeout, body
			continue
		}
		cl, err := readClause(item)
		if err != nil {
			return nil, err
		}
		r.Clauses = append(r.Clauses, cl)
	}
	return r, nil
}

func readClauses(items []*sexpr) ([]*ast.CaseClause, error) {
	clauses := make([]*ast.CaseClause, 0, len(items))
	for _, item := range items {
		cl, err := readClause(item)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cl)
	}
	return clauses, nil
}

func readClause(e *sexpr) (*ast.CaseClause, error) {
	if e.List == nil || e.List.Head != "clause" {
		return nil, errorAt(e.Pos, "expected a (clause ...) form")
	}
	l := e.List
	if len(l.Items) < 2 {
		return nil, errorAt(l.Pos, "clause needs a pattern and a body")
	}
	pat, err := readPattern(l.Items[0])
	if err != nil {
		return nil, err
	}
	guard, body, err := readGuardedBody(l.Items[1:])
	if err != nil {
		return nil, err
	}
	return &ast.CaseClause{Pos: astPos(l.Pos), Pattern: pat, Guard: guard, Body: body}, nil
}

func readFnClause(e *sexpr) (*ast.FnClause, error) {
	if e.List == nil || e.List.Head != "fnclause" {
		return nil, errorAt(e.Pos, "expected an (fnclause ...) form")
	}
	l := e.List
	if len(l.Items) < 2 || l.Items[0].Vec == nil {
		return nil, errorAt(l.Pos, "fnclause needs a [params] vector and a body")
	}
	params, err := readPatterns(l.Items[0].Vec.Items)
	if err != nil {
		return nil, err
	}
	guard, body, err := readGuardedBody(l.Items[1:])
	if err != nil {
		return nil, err
	}
	return &ast.FnClause{Pos: astPos(l.Pos), Params: params, Guard: guard, Body: body}, nil
}

// readGuardedBody reads an optional (guard expr) followed by exactly one
// body expression.
func readGuardedBody(items []*sexpr) (ast.Node, *ast.Block, error) {
	var guard ast.Node
	if len(items) > 1 && items[0].List != nil && items[0].List.Head == "guard" {
		g := items[0].List
		if len(g.Items) != 1 {
			return nil, nil, errorAt(g.Pos, "guard needs one expression")
		}
		var err error
		if guard, err = readNode(g.Items[0]); err != nil {
			return nil, nil, err
		}
		items = items[1:]
	}
	if len(items) != 1 {
		return nil, nil, fmt.Errorf("expected exactly one body expression")
	}
	body, err := readBlockArg(items[0])
	if err != nil {
		return nil, nil, err
	}
	return guard, body, nil
}

func readBlockArg(e *sexpr) (*ast.Block, error) {
	n, err := readNode(e)
	if err != nil {
		return nil, err
	}
	return ast.EnsureBlock(n), nil
}

func readNodes(items []*sexpr) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(items))
	for _, item := range items {
		n, err := readNode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func readEntries(items []*sexpr) ([]*ast.MapEntry, error) {
	out := make([]*ast.MapEntry, 0, len(items))
	for _, item := range items {
		if item.List == nil || item.List.Head != "entry" || len(item.List.Items) != 2 {
			return nil, errorAt(item.Pos, "expected an (entry key value) form")
		}
		key, err := readNode(item.List.Items[0])
		if err != nil {
			return nil, err
		}
		value, err := readNode(item.List.Items[1])
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.MapEntry{Pos: astPos(item.List.Pos), Key: key, Value: value})
	}
	return out, nil
}

func symThen(l *list) (string, []*sexpr, error) {
	if len(l.Items) == 0 || l.Items[0].Sym == nil {
		return "", nil, errorAt(l.Pos, "%s needs a name", l.Head)
	}
	return *l.Items[0].Sym, l.Items[1:], nil
}

func unquote(s string) string {
	out, err := strconv.Unquote(s)
	if err != nil {
		return strings.Trim(s, `"`)
	}
	return out
}
