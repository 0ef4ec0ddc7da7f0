package exir

import (
	"fmt"
	"strings"

	"exalt/internal/ast"
)

func readPatterns(items []*sexpr) ([]ast.Pattern, error) {
	out := make([]ast.Pattern, 0, len(items))
	for _, item := range items {
		p, err := readPattern(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func readPattern(e *sexpr) (ast.Pattern, error) {
	switch {
	case e == nil:
		return nil, fmt.Errorf("empty pattern")
	case e.List != nil:
		n, err := readList(e.List)
		if err != nil {
			return nil, err
		}
		p, ok := n.(ast.Pattern)
		if !ok {
			return nil, errorAt(e.Pos, "%q is not a pattern head", e.List.Head)
		}
		return p, nil
	case e.Sym != nil:
		// A bare name is shorthand for (pvar name).
		switch *e.Sym {
		case "true", "false":
			return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.BoolLit, Value: *e.Sym}, nil
		case "nil":
			return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.NilLit, Value: "nil"}, nil
		}
		return &ast.PVar{Pos: astPos(e.Pos), Name: *e.Sym}, nil
	case e.Atom != nil:
		return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.AtomLit, Value: strings.TrimPrefix(*e.Atom, ":")}, nil
	case e.String != nil:
		return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.StringLit, Value: unquote(*e.String)}, nil
	case e.Float != nil:
		return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.FloatLit, Value: *e.Float}, nil
	case e.Int != nil:
		return &ast.PLiteral{Pos: astPos(e.Pos), Kind: ast.IntLit, Value: *e.Int}, nil
	}
	return nil, errorAt(e.Pos, "vector only allowed as a parameter or segment list")
}

func readPatternList(l *list) (ast.Node, error) {
	pos := astPos(l.Pos)
	switch l.Head {
	case "pvar":
		name, _, err := symThen(l)
		if err != nil {
			return nil, err
		}
		return &ast.PVar{Pos: pos, Name: name}, nil

	case "plit":
		if len(l.Items) != 1 {
			return nil, errorAt(l.Pos, "plit needs one literal")
		}
		n, err := readNode(l.Items[0])
		if err != nil {
			return nil, err
		}
		lit, ok := n.(*ast.Literal)
		if !ok {
			return nil, errorAt(l.Items[0].Pos, "plit needs a literal value")
		}
		return &ast.PLiteral{Pos: pos, Kind: lit.Kind, Value: lit.Value}, nil

	case "ptuple":
		elems, err := readPatterns(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.PTuple{Pos: pos, Elements: elems}, nil

	case "plist":
		elems, err := readPatterns(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.PList{Pos: pos, Elements: elems}, nil

	case "pcons":
		if len(l.Items) != 2 {
			return nil, errorAt(l.Pos, "pcons needs a head and a tail")
		}
		head, err := readPattern(l.Items[0])
		if err != nil {
			return nil, err
		}
		tail, err := readPattern(l.Items[1])
		if err != nil {
			return nil, err
		}
		return &ast.PCons{Pos: pos, Head: head, Tail: tail}, nil

	case "pmap":
		entries, err := readPatternEntries(l.Items)
		if err != nil {
			return nil, err
		}
		return &ast.PMap{Pos: pos, Entries: entries}, nil

	case "pstruct":
		module, rest, err := symThen(l)
		if err != nil {
			return nil, err
		}
		entries, err := readPatternEntries(rest)
		if err != nil {
			return nil, err
		}
		return &ast.PStruct{Pos: pos, Module: module, Entries: entries}, nil

	case "ppin":
		name, _, err := symThen(l)
		if err != nil {
			return nil, err
		}
		return &ast.PPin{Pos: pos, Name: name}, nil

	case "palias":
		if len(l.Items) != 2 {
			return nil, errorAt(l.Pos, "palias needs a name and a pattern")
		}
		if l.Items[0].Sym == nil {
			return nil, errorAt(l.Items[0].Pos, "palias name must be a plain name")
		}
		sub, err := readPattern(l.Items[1])
		if err != nil {
			return nil, err
		}
		return &ast.PAlias{Pos: pos, Name: *l.Items[0].Sym, Pattern: sub}, nil

	case "pbinary":
		segs := make([]*ast.PBitSeg, 0, len(l.Items))
		for _, item := range l.Items {
			seg, err := readBitSeg(item)
			if err != nil {
				return nil, err
			}
			segs = append(segs, seg)
		}
		return &ast.PBinary{Pos: pos, Segments: segs}, nil
	}
	return nil, errorAt(l.Pos, "unknown pattern head %q", l.Head)
}

func readPatternEntries(items []*sexpr) ([]*ast.PMapEntry, error) {
	out := make([]*ast.PMapEntry, 0, len(items))
	for _, item := range items {
		if item.List == nil || item.List.Head != "pentry" || len(item.List.Items) != 2 {
			return nil, errorAt(item.Pos, "expected a (pentry key pattern) form")
		}
		key, err := readNode(item.List.Items[0])
		if err != nil {
			return nil, err
		}
		value, err := readPattern(item.List.Items[1])
		if err != nil {
			return nil, err
		}
		out = append(out, &ast.PMapEntry{Pos: astPos(item.List.Pos), Key: key, Value: value})
	}
	return out, nil
}

// readBitSeg reads (pseg pattern), (pseg pattern size) or
// (pseg pattern size type). A "_" in the size slot stands for unsized, so a
// typed but unsized segment reads (pseg rest _ binary).
func readBitSeg(e *sexpr) (*ast.PBitSeg, error) {
	if e.List == nil || e.List.Head != "pseg" {
		return nil, errorAt(e.Pos, "expected a (pseg ...) form")
	}
	l := e.List
	if len(l.Items) < 1 || len(l.Items) > 3 {
		return nil, errorAt(l.Pos, "pseg needs a pattern, an optional size and an optional type")
	}
	value, err := readPattern(l.Items[0])
	if err != nil {
		return nil, err
	}
	seg := &ast.PBitSeg{Pos: astPos(l.Pos), Value: value}
	if len(l.Items) >= 2 && !(l.Items[1].Sym != nil && *l.Items[1].Sym == "_") {
		if seg.Size, err = readNode(l.Items[1]); err != nil {
			return nil, err
		}
	}
	if len(l.Items) == 3 {
		if l.Items[2].Sym == nil {
			return nil, errorAt(l.Items[2].Pos, "pseg type must be a plain name")
		}
		seg.Type = *l.Items[2].Sym
	}
	return seg, nil
}
