package ast

import "strings"

// Patterns appear in binding positions: the left side of a Bind, clause
// heads, function parameters, and with-clause steps. They introduce binders
// rather than evaluate.

// PVar binds a name, or matches anything when the name is "_".
// Example: "todo", "_", "_unused"
type PVar struct {
	Pos  Position
	Name string
	meta *Meta
}

// Wildcard reports whether the pattern is the bare "_" that binds nothing.
func (p *PVar) Wildcard() bool { return p.Name == "_" }

// Suppressed reports whether the binder carries the unused-value prefix.
func (p *PVar) Suppressed() bool { return p.Name != "_" && strings.HasPrefix(p.Name, "_") }

// PLiteral matches a scalar constant.
// Example: ":done", "0", "\"all\""
type PLiteral struct {
	Pos   Position
	Kind  LiteralKind
	Value string
	meta  *Meta
}

// PTuple matches a fixed-size tuple.
// Example: "{:ok, todo}", "{:error, reason}"
type PTuple struct {
	Pos      Position
	Elements []Pattern
	meta     *Meta
}

// PList matches a fixed-length list.
type PList struct {
	Pos      Position
	Elements []Pattern
	meta     *Meta
}

// PCons matches a non-empty list as head and tail.
// Example: "[first | rest]"
type PCons struct {
	Pos  Position
	Head Pattern
	Tail Pattern
	meta *Meta
}

// PMapEntry is one key/sub-pattern pair of a map or struct pattern. Keys are
// values (atoms or strings), not patterns.
type PMapEntry struct {
	Pos   Position
	Key   Node
	Value Pattern
	meta  *Meta
}

// PMap matches a map containing (at least) the given entries.
// Example: "%{"title" => title}"
type PMap struct {
	Pos     Position
	Entries []*PMapEntry
	meta    *Meta
}

// PStruct matches a tagged struct.
// Example: "%Todo{done: done}"
type PStruct struct {
	Pos     Position
	Module  string
	Entries []*PMapEntry
	meta    *Meta
}

// PPin matches against the current value of an already-bound name instead of
// rebinding it. Pins consume a binding, they never introduce one.
// Example: "^current_filter"
type PPin struct {
	Pos  Position
	Name string
	meta *Meta
}

// PAlias binds a name to the whole value while also matching the
// sub-pattern.
// Example: "%Todo{done: true} = todo"
type PAlias struct {
	Pos     Position
	Name    string
	Pattern Pattern
	meta    *Meta
}

// PBitSeg is one segment of a binary pattern.
// Example: "len::16", "rest::binary"
type PBitSeg struct {
	Pos   Position
	Value Pattern
	Size  Node   // nil when unsized
	Type  string // "", "binary", "integer", ...
	meta  *Meta
}

// PBinary matches a binary layout segment by segment.
// Example: "<<len::16, rest::binary>>"
type PBinary struct {
	Pos      Position
	Segments []*PBitSeg
	meta     *Meta
}
