// Package harmonize reconciles binder names with the names their scope
// actually reads. It is the one decision procedure shared by every pass that
// touches binders: compute the undefined free names of the governing scope,
// and only when the repair is uniquely determined, rename.
package harmonize

import (
	"exalt/internal/ast"
	"exalt/internal/scope"
)

// DefaultPriority orders the conventional payload names used to break ties
// for tagged-tuple payload binders. It is policy, not inference: callers may
// supply their own list, and an empty list means never guess.
var DefaultPriority = []string{"id", "value", "result", "reason"}

// Options tunes a harmonization.
type Options struct {
	// Priority breaks ties when several undefined names compete for a
	// tagged-payload binder. Leave nil to refuse ambiguous repairs, which is
	// the default everywhere outside payload positions.
	Priority []string
}

// Harmonize reconciles the binders of pat with the free names of body. env
// holds the names bound by enclosing scopes: a free name that resolves there
// is a legitimate capture, never a rename target, because renaming it would
// silently shadow the outer binding.
//
// The repair runs only when it is uniquely determined: exactly one undefined
// name, exactly one candidate binder, and no scalar/aggregate conflict
// between the two. Everything else returns the inputs unchanged.
func Harmonize(pat ast.Pattern, body ast.Node, env scope.NameSet) (ast.Pattern, ast.Node, bool) {
	return HarmonizeWith(pat, body, env, Options{})
}

// HarmonizeWith is Harmonize with explicit options.
func HarmonizeWith(pat ast.Pattern, body ast.Node, env scope.NameSet, opts Options) (ast.Pattern, ast.Node, bool) {
	if pat == nil || body == nil {
		return pat, body, false
	}

	bound := scope.BoundNames(pat)
	used := scope.ReferencedNames(body)
	undefined := used.Minus(bound, scope.DeclaredNames(body), env)

	target, ok := pickTarget(undefined, opts.Priority)
	if !ok {
		return pat, body, false
	}

	binder, ok := pickBinder(bound, used)
	if !ok {
		return pat, body, false
	}

	if !compatible(ClassifyShape(binder, body), ClassifyShape(target, body)) {
		return pat, body, false
	}

	newPat := RenameBinder(pat, binder, target)
	newBody := RenameIn(body, binder, target)
	return newPat, newBody, true
}

// pickTarget selects the intended binder name among the undefined free
// names. One name is unambiguous; several fall back to the priority list,
// taking the first priority name present only when exactly one of them is.
func pickTarget(undefined scope.NameSet, priority []string) (string, bool) {
	switch len(undefined) {
	case 0:
		return "", false
	case 1:
		for name := range undefined {
			return name, true
		}
	}
	var hit string
	for _, p := range priority {
		if undefined.Has(p) {
			if hit != "" {
				return "", false
			}
			hit = p
		}
	}
	return hit, hit != ""
}

// pickBinder selects which existing binder to rename: prefer the single
// binder the body never reads (the stale one left by the lowering stage);
// with no stale binder, a pattern with exactly one binder is still
// unambiguous. Multiple stale binders mean the repair is not unique.
func pickBinder(bound, used scope.NameSet) (string, bool) {
	var stale []string
	for name := range bound {
		if !used.Has(name) {
			stale = append(stale, name)
		}
	}
	if len(stale) == 1 {
		return stale[0], true
	}
	if len(stale) == 0 && len(bound) == 1 {
		for name := range bound {
			return name, true
		}
	}
	return "", false
}

// Undefined exposes the harmonizer's core set computation for passes that
// need to inspect ambiguity without repairing (diagnostics).
func Undefined(pat ast.Pattern, body ast.Node, env scope.NameSet) scope.NameSet {
	bound := make(scope.NameSet)
	if pat != nil {
		bound = scope.BoundNames(pat)
	}
	return scope.ReferencedNames(body).Minus(bound, scope.DeclaredNames(body), env)
}
