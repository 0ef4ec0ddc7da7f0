// Package diag is the side-channel reporting interface passes use for
// non-fatal findings. Passes never raise hard errors for recoverable shape
// mismatches; they skip the subtree and, at most, leave a warning here for
// the build-log collector.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"exalt/internal/ast"
)

// Severity ranks a diagnostic.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
	Note    Severity = "note"
)

// Diagnostic codes. Warnings (W—) come from passes; errors (E—) are
// reserved for input that cannot produce valid output at all.
const (
	// W0001: a repair was skipped because more than one rename target fit
	CodeAmbiguousRepair = "W0001"

	// W0002: a binder is never read and was suppressed
	CodeUnusedBinding = "W0002"

	// W0003: a reserved word collided with a binder name
	CodeReservedWord = "W0003"

	// E0001: the textual IR could not be parsed
	CodeMalformedInput = "E0001"
)

// Diagnostic is one position-tagged finding.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Position ast.Position
	Pass     string // name of the pass that reported it, "" outside passes
}

func (d Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Reporter collects diagnostics across a pipeline run.
type Reporter struct {
	diags []Diagnostic
}

func NewReporter() *Reporter {
	return &Reporter{}
}

// Report records a diagnostic.
func (r *Reporter) Report(d Diagnostic) {
	r.diags = append(r.diags, d)
}

// Warnf records a warning at the given position.
func (r *Reporter) Warnf(code string, pos ast.Position, format string, args ...interface{}) {
	r.Report(Diagnostic{
		Severity: Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

// Errorf records a hard error.
func (r *Reporter) Errorf(code string, pos ast.Position, format string, args ...interface{}) {
	r.Report(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

// Diagnostics returns everything reported so far, in position order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(r.diags))
	copy(out, r.diags)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

// HasErrors reports whether any hard error was recorded.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Format renders one diagnostic with colored severity, location, and the
// reporting pass.
func Format(d Diagnostic) string {
	var b strings.Builder

	levelColor := severityColor(d.Severity)
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		b.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(d.Severity)), d.Code, d.Message))
	} else {
		b.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(d.Severity)), d.Message))
	}

	if d.Position.Line > 0 {
		b.WriteString(fmt.Sprintf("  %s %s:%d:%d\n",
			dim("-->"), d.Position.Filename, d.Position.Line, d.Position.Column))
	}
	if d.Pass != "" {
		b.WriteString(fmt.Sprintf("  %s reported by pass %q\n", dim("="), d.Pass))
	}
	return b.String()
}

func severityColor(s Severity) func(a ...interface{}) string {
	switch s {
	case Error:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}
