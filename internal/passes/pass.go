// Package passes holds the structural rewrite passes and the tiered
// pipeline that runs them. Each pass is a total IR -> IR function restricted
// to one class of defect left by the upstream lowering stage; a pass that
// cannot determine a unique, safe rewrite leaves the subtree alone.
package passes

import (
	"fmt"

	"exalt/internal/ast"
	"exalt/internal/diag"
)

// Tier groups passes by the invariants they rely on. Structural passes
// repair control flow and placeholder shapes; semantic passes reconcile
// binder names, which only works once control flow is in its final shape;
// cleanup passes remove what is then provably dead. Reordering passes is
// safe within a tier and a configuration error across tiers.
type Tier int

const (
	Structural Tier = iota
	Semantic
	Cleanup
)

func (t Tier) String() string {
	switch t {
	case Structural:
		return "structural"
	case Semantic:
		return "semantic"
	case Cleanup:
		return "cleanup"
	}
	return "unknown"
}

// FnInfo is the immutable enclosing-function record threaded through
// scoped traversals, replacing any notion of a global "current function".
type FnInfo struct {
	Name   string
	Params []string
}

// Context carries per-run collaborators into a pass. Passes own no state of
// their own; everything they need is recomputed from the tree or read here.
type Context struct {
	Reporter *diag.Reporter
}

func (c *Context) warnf(pass, code string, pos ast.Position, format string, args ...interface{}) {
	if c == nil || c.Reporter == nil {
		return
	}
	c.Reporter.Report(diag.Diagnostic{
		Severity: diag.Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
		Pass:     pass,
	})
}

// Pass is a single normalization transformation.
type Pass interface {
	Name() string
	Tier() Tier
	Apply(n ast.Node, ctx *Context) ast.Node
}

// Pipeline runs passes in registration order. Construction validates that
// tiers never regress, so an ordering bug is a startup error instead of a
// silent miscompilation.
type Pipeline struct {
	passes   []Pass
	reporter *diag.Reporter
}

// NewPipeline returns the default pipeline with every pass registered in
// its required order.
func NewPipeline(reporter *diag.Reporter) *Pipeline {
	p := &Pipeline{reporter: reporter}
	for _, pass := range DefaultPasses() {
		if err := p.AddPass(pass); err != nil {
			// The default list is validated by tests; a bad entry is a
			// programming error, not an input condition.
			panic(err)
		}
	}
	return p
}

// NewEmptyPipeline returns a pipeline with no passes, for callers that
// assemble their own list.
func NewEmptyPipeline(reporter *diag.Reporter) *Pipeline {
	return &Pipeline{reporter: reporter}
}

// AddPass appends a pass, rejecting any tier regression.
func (p *Pipeline) AddPass(pass Pass) error {
	if n := len(p.passes); n > 0 {
		if last := p.passes[n-1]; pass.Tier() < last.Tier() {
			return fmt.Errorf("pass %q (%s) cannot run after %q (%s)",
				pass.Name(), pass.Tier(), last.Name(), last.Tier())
		}
	}
	p.passes = append(p.passes, pass)
	return nil
}

// Passes returns the registered passes in execution order.
func (p *Pipeline) Passes() []Pass {
	out := make([]Pass, len(p.passes))
	copy(out, p.passes)
	return out
}

// Run applies every pass in order and returns the final tree. Passes share
// nothing: each receives only the previous pass's output.
func (p *Pipeline) Run(n ast.Node) ast.Node {
	ctx := &Context{Reporter: p.reporter}
	for _, pass := range p.passes {
		n = pass.Apply(n, ctx)
	}
	return n
}

// DefaultPasses returns the canonical pass list in execution order.
func DefaultPasses() []Pass {
	return []Pass{
		// Structural: control flow and placeholder shapes first.
		&FlattenBlocks{},
		&EarlyReturn{},
		&LoopReduce{},
		&ResultWith{},
		&PipeChains{},
		&InterpConcat{},
		&StructUpdateShape{},

		// Semantic: binder/reference reconciliation.
		&FnParamAlign{},
		&DefParamAlign{},
		&CasePayload{Priority: nil},
		&WithClauseAlign{},
		&ReceiveClauseAlign{},
		&UnderscorePromote{},
		&AliasAlign{},
		&PinOuter{},
		&RebindCarry{},

		// Cleanup: fold what is now provably dead, then sanitize names.
		&SentinelSweep{},
		&ConstCond{},
		&NilElse{},
		&IsNil{},
		&EmptyCheck{},
		&SelfRebind{},
		&UnderscoreUnused{},
		&UnderscoreParams{},
		&SingletonBlock{},
		&ReservedWords{},
		&DoubleUnderscore{},
	}
}
