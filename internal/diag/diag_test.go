package diag

import (
	"testing"

	"exalt/internal/ast"

	"github.com/stretchr/testify/assert"
)

func TestReporterCollectsAndSorts(t *testing.T) {
	r := NewReporter()
	r.Warnf(CodeUnusedBinding, ast.Position{Line: 5, Column: 2}, "binding %q is never read", "count")
	r.Warnf(CodeAmbiguousRepair, ast.Position{Line: 2, Column: 1}, "two candidates for payload binder")

	diags := r.Diagnostics()
	assert.Len(t, diags, 2)
	assert.Equal(t, 2, diags[0].Position.Line, "diagnostics are position ordered")
	assert.False(t, r.HasErrors())
}

func TestReporterHasErrors(t *testing.T) {
	r := NewReporter()
	r.Errorf(CodeMalformedInput, ast.Position{Line: 1, Column: 1}, "unexpected token")
	assert.True(t, r.HasErrors())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{Severity: Warning, Code: CodeReservedWord, Message: "binder named `case`"}
	assert.Equal(t, "warning[W0003]: binder named `case`", d.String())

	d = Diagnostic{Severity: Note, Message: "skipped"}
	assert.Equal(t, "note: skipped", d.String())
}

func TestFormatIncludesLocationAndPass(t *testing.T) {
	d := Diagnostic{
		Severity: Warning,
		Code:     CodeUnusedBinding,
		Message:  "binding is never read",
		Position: ast.Position{Filename: "todo.exir", Line: 3, Column: 7},
		Pass:     "underscore-unused",
	}
	out := Format(d)
	assert.Contains(t, out, "todo.exir:3:7")
	assert.Contains(t, out, "underscore-unused")
}
