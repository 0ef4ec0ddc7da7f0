package passes

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exalt/internal/ast"
	"exalt/internal/diag"
	"exalt/internal/scope"
)

func TestDefaultPipelineTiersNeverRegress(t *testing.T) {
	p := NewPipeline(diag.NewReporter())

	last := Structural
	for _, pass := range p.Passes() {
		assert.GreaterOrEqual(t, int(pass.Tier()), int(last),
			"pass %s regresses from tier %s", pass.Name(), last)
		last = pass.Tier()
	}
}

func TestAddPassRejectsTierRegression(t *testing.T) {
	p := NewEmptyPipeline(diag.NewReporter())
	require.NoError(t, p.AddPass(&SentinelSweep{}))

	err := p.AddPass(&EarlyReturn{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "early-return")
	assert.Contains(t, err.Error(), "cleanup")
}

// loweredModule builds a tree with one of each defect class the upstream
// stage leaves behind.
func loweredModule() ast.Node {
	toggle := def("toggle", []ast.Pattern{pv("arg1")}, block(
		bind("status", &ast.FieldAccess{Target: v("todo"), Field: "status"}),
		caseOf(v("status"),
			clause(patom("done"), block(atom("active"))),
			clause(pv("other"), block(atom("done"))),
		),
	))

	render := def("render", []ast.Pattern{pv("todo")}, block(
		intl("0"),
		&ast.BinOp{Op: "<>", Left: str("title: "),
			Right: &ast.FieldAccess{Target: v("todo"), Field: "title"}},
	))

	finish := def("finish", []ast.Pattern{pv("todo"), pv("socket")}, block(
		flagEarlyReturn(cond(
			&ast.BinOp{Op: "==", Left: &ast.FieldAccess{Target: v("todo"), Field: "status"}, Right: nill()},
			block(v("socket")), nil)),
		bind("todo", flagMutates(remote("Map", "put", v("todo"), atom("status"), atom("done")))),
		local("assign", v("socket"), v("todo")),
	))

	return &ast.ModuleDef{Name: "Todos", Body: []ast.Node{toggle, render, finish}}
}

func TestPipelineIdempotence(t *testing.T) {
	p := NewPipeline(diag.NewReporter())

	once := p.Run(loweredModule())
	twice := p.Run(once)

	if diff := cmp.Diff(once.String(), twice.String()); diff != "" {
		t.Errorf("second run found new work (-once +twice):\n%s", diff)
	}
}

func TestPipelineNoUnboundReferences(t *testing.T) {
	p := NewPipeline(diag.NewReporter())

	out := p.Run(loweredModule())

	free := scope.ReferencedNames(out)
	assert.Empty(t, free, "pipeline output references unbound names: %v", free)
}

func TestPipelineTerminalPreservation(t *testing.T) {
	p := NewPipeline(diag.NewReporter())
	d := def("answer", []ast.Pattern{pv("_x")}, block(
		local("side_effect"),
		intl("42"),
	))

	out := p.Run(d)

	body := out.(*ast.Def).Body
	require.NotEmpty(t, body.Stmts)
	assert.Equal(t, "42", body.Stmts[len(body.Stmts)-1].String())
}

func TestPipelineEarlyReturnExample(t *testing.T) {
	p := NewPipeline(diag.NewReporter())
	d := def("run", []ast.Pattern{pv("flag")}, block(
		flagEarlyReturn(cond(v("flag"), block(atom("a")), nil)),
		local("log"),
		atom("done"),
	))

	out := p.Run(d)

	body := out.(*ast.Def).Body
	require.Len(t, body.Stmts, 1, "nothing may remain after the rebuilt conditional")
	c := body.Stmts[0].(*ast.Cond)
	require.NotNil(t, c.Else)
	assert.Equal(t, ":a", c.Then.Stmts[0].String())
	assert.Equal(t, "log()", c.Else.Stmts[0].String())
	assert.Equal(t, ":done", c.Else.Stmts[1].String())
}

func TestPipelineReservedWordExample(t *testing.T) {
	p := NewPipeline(diag.NewReporter())
	d := def("pick", []ast.Pattern{pv("pair")}, block(
		bind("case", local("head", v("pair"))),
		bind("rest", local("tail", v("pair"))),
		&ast.Tuple{Elements: []ast.Node{v("case"), v("rest")}},
	))

	out := p.Run(d)

	rendered := out.String()
	assert.Contains(t, rendered, "case_ = head(pair)")
	assert.Contains(t, rendered, "{case_, rest}")
	assert.NotContains(t, rendered, "rest_", "non-colliding names are untouched")
}

func TestPipelineRepairsStaleDefParam(t *testing.T) {
	p := NewPipeline(diag.NewReporter())

	out := p.Run(loweredModule())

	rendered := out.String()
	assert.Contains(t, rendered, "def toggle(todo)")
	assert.NotContains(t, rendered, "arg1")
}

func TestPipelineKeepsMarkedBlocksIntact(t *testing.T) {
	// A block carrying builder metadata is left alone by every splice and
	// collapse, and the metadata itself survives the full run.
	marked := block(local("emit", v("x")), atom("ok"))
	m := &ast.Meta{}
	m.SetHint("region", "guarded")
	marked.SetMeta(m)
	d := def("f", []ast.Pattern{pv("x")}, block(marked, atom("done")))

	p := NewPipeline(diag.NewReporter())
	out := p.Run(d)

	body := out.(*ast.Def).Body
	require.Len(t, body.Stmts, 2)
	inner, ok := body.Stmts[0].(*ast.Block)
	require.True(t, ok, "marked block was spliced into its parent")
	require.NotNil(t, inner.Meta())
	assert.Equal(t, "guarded", inner.Meta().Hint("region"))
}

func TestPipelineReportsThroughReporter(t *testing.T) {
	reporter := diag.NewReporter()
	p := NewPipeline(reporter)
	d := def("f", []ast.Pattern{pv("x")}, block(
		bind("dead", local("compute", v("x"))),
		atom("ok"),
	))

	p.Run(d)

	require.NotEmpty(t, reporter.Diagnostics())
	assert.Equal(t, diag.CodeUnusedBinding, reporter.Diagnostics()[0].Code)
	assert.False(t, reporter.HasErrors())
}
