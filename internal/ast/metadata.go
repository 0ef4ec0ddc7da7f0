package ast

// Meta carries builder hints and side-channel flags through the pipeline.
// The upstream lowering stage sets flags where it knows it produced an
// approximation; passes consult them and never invent them. Nodes created by
// passes usually carry nil metadata.
type Meta struct {
	// FromEarlyReturn marks a Cond lowered from a mid-function return
	// statement in the host language.
	FromEarlyReturn bool

	// FromLoop marks a Cond lowered from an imperative loop body; the
	// loop-reduce pass rebuilds it into a reduce_while.
	FromLoop bool

	// FromCompare marks a clause pattern variable the host program used in a
	// comparison rather than a fresh binding (pin candidate).
	FromCompare bool

	// PipeCandidate marks a nested call chain the builder recognized as a
	// pipeline shape.
	PipeCandidate bool

	// MutatesArg marks a call the host program used to mutate its first
	// argument in place.
	MutatesArg bool

	// Hints is a free-form side channel for builder annotations that do not
	// warrant a dedicated flag ("loop_acc", "loop_cond", ...).
	Hints map[string]string
}

// Hint returns a builder annotation, or "" when absent.
func (m *Meta) Hint(key string) string {
	if m == nil || m.Hints == nil {
		return ""
	}
	return m.Hints[key]
}

// SetHint records a builder annotation, allocating the map on first use.
func (m *Meta) SetHint(key, value string) {
	if m.Hints == nil {
		m.Hints = make(map[string]string)
	}
	m.Hints[key] = value
}

// The query helpers below are nil-safe so passes can ask about any node
// without checking whether metadata was attached.

func IsFromEarlyReturn(n Node) bool {
	m := n.Meta()
	return m != nil && m.FromEarlyReturn
}

func IsFromLoop(n Node) bool {
	m := n.Meta()
	return m != nil && m.FromLoop
}

func IsFromCompare(n Node) bool {
	m := n.Meta()
	return m != nil && m.FromCompare
}

func IsPipeCandidate(n Node) bool {
	m := n.Meta()
	return m != nil && m.PipeCandidate
}

func MutatesArg(n Node) bool {
	m := n.Meta()
	return m != nil && m.MutatesArg
}

// HintOf reads a builder annotation off any node, nil-safe.
func HintOf(n Node, key string) string {
	return n.Meta().Hint(key)
}
