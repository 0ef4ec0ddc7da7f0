package scope

import (
	"exalt/internal/ast"
)

// UsageIndex answers "is this name still read at or after statement i" for
// one statement sequence. It is built with a single backward scan and an
// incremental union, so whole-pipeline cost stays linear in program size;
// re-scanning the statement tail per query is the O(n²) defect this type
// exists to avoid. Indexes are built inside one pass invocation and
// discarded with it; none survive across passes.
type UsageIndex struct {
	after []NameSet // after[i] = free names read anywhere in stmts[i..n)

	// NodeVisits counts tree nodes touched during construction, exposed so
	// tests can assert each statement is visited a bounded number of times.
	NodeVisits int
}

// NewUsageIndex indexes the given statement sequence. after[n] exists and is
// empty, so callers may query one past the last statement.
func NewUsageIndex(stmts []ast.Node) *UsageIndex {
	n := len(stmts)
	idx := &UsageIndex{after: make([]NameSet, n+1)}
	idx.after[n] = make(NameSet)

	for i := n - 1; i >= 0; i-- {
		c := &refCollector{free: idx.after[i+1].Clone()}
		c.node(stmts[i], make(NameSet))
		idx.after[i] = c.free
		idx.NodeVisits += c.visits
	}
	return idx
}

// UsedLater reports whether name is read as a free variable anywhere in
// stmts[i..n).
func (u *UsageIndex) UsedLater(i int, name string) bool {
	if i < 0 || i >= len(u.after) {
		return false
	}
	return u.after[i].Has(name)
}

// UsedFrom returns the free names read anywhere in stmts[i..n). The set is
// shared with the index; callers must not mutate it.
func (u *UsageIndex) UsedFrom(i int) NameSet {
	if i < 0 || i >= len(u.after) {
		return make(NameSet)
	}
	return u.after[i]
}

// Len returns the number of indexed statements.
func (u *UsageIndex) Len() int { return len(u.after) - 1 }
