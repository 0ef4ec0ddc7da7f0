package harmonize

import (
	"exalt/internal/ast"
)

// Shape is a coarse classification of what kind of value a name holds,
// judged from how the surrounding code uses it.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeScalar        // arithmetic, comparison, interpolation
	ShapeAggregate     // field access, struct update, collection receiver
)

func (s Shape) String() string {
	switch s {
	case ShapeScalar:
		return "scalar"
	case ShapeAggregate:
		return "aggregate"
	default:
		return "unknown"
	}
}

// collectionModules are remote-call receivers whose first argument is a
// collection.
var collectionModules = map[string]bool{
	"Enum": true, "Map": true, "List": true, "Keyword": true, "Stream": true,
}

var scalarOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"<>": true, "rem": true, "div": true,
}

// ClassifyShape inspects every use of name inside body and reports whether
// the uses pin it down as a scalar or an aggregate. Conflicting evidence
// yields ShapeUnknown, as does no evidence at all.
func ClassifyShape(name string, body ast.Node) Shape {
	var scalar, aggregate bool

	ast.Walk(body, func(n ast.Node) bool {
		switch t := n.(type) {
		case *ast.FieldAccess:
			if isVar(t.Target, name) {
				aggregate = true
			}
		case *ast.StructUpdate:
			if isVar(t.Target, name) {
				aggregate = true
			}
		case *ast.IndexAccess:
			if isVar(t.Target, name) {
				aggregate = true
			}
		case *ast.CallRemote:
			if collectionModules[t.Module] && len(t.Args) > 0 && isVar(t.Args[0], name) {
				aggregate = true
			}
		case *ast.Pipe:
			if isVar(t.Left, name) {
				if call, ok := t.Right.(*ast.CallRemote); ok && collectionModules[call.Module] {
					aggregate = true
				}
			}
		case *ast.BinOp:
			if scalarOps[t.Op] && (isVar(t.Left, name) || isVar(t.Right, name)) {
				scalar = true
			}
		case *ast.UnOp:
			if t.Op == "-" && isVar(t.Value, name) {
				scalar = true
			}
		case *ast.Interp:
			for _, seg := range t.Segments {
				if seg.Expr != nil && isVar(seg.Expr, name) {
					scalar = true
				}
			}
		}
		return true
	})

	switch {
	case scalar && aggregate:
		return ShapeUnknown
	case scalar:
		return ShapeScalar
	case aggregate:
		return ShapeAggregate
	default:
		return ShapeUnknown
	}
}

// compatible reports whether renaming between two observed shapes is safe.
// Only a known-scalar/known-aggregate swap is rejected.
func compatible(a, b Shape) bool {
	if a == ShapeUnknown || b == ShapeUnknown {
		return true
	}
	return a == b
}

func isVar(n ast.Node, name string) bool {
	v, ok := n.(*ast.Var)
	return ok && v.Name == name
}
