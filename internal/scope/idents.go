// Package scope answers name questions about IR subtrees: which names a
// pattern binds, which names a subtree declares, which free names it reads,
// and whether a binding is still needed later in a statement list.
package scope

// NameSet is a set of variable names.
type NameSet map[string]struct{}

func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s NameSet) Add(name string)    { s[name] = struct{}{} }
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// AddAll copies every name of other into s.
func (s NameSet) AddAll(other NameSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}

// Minus returns the names of s that are not in any of the given sets.
func (s NameSet) Minus(others ...NameSet) NameSet {
	out := make(NameSet)
	for n := range s {
		excluded := false
		for _, o := range others {
			if o.Has(n) {
				excluded = true
				break
			}
		}
		if !excluded {
			out.Add(n)
		}
	}
	return out
}

// Clone returns an independent copy of s.
func (s NameSet) Clone() NameSet {
	out := make(NameSet, len(s))
	out.AddAll(s)
	return out
}

// rawKeywords are target-language keywords that the raw-text scanner must
// not report as variable references.
var rawKeywords = NewNameSet(
	"do", "end", "fn", "when", "case", "cond", "if", "unless", "else", "for",
	"with", "receive", "try", "rescue", "catch", "after", "raise",
	"def", "defp", "defmodule", "and", "or", "not", "in",
	"true", "false", "nil",
	"import", "require", "alias", "use",
)

// ScanIdents extracts candidate variable names from opaque text using
// identifier-boundary matching: "query" never matches inside
// "search_query", and module names, atoms, and keywords are skipped. This
// is the single token scanner shared by the usage index and the walker;
// passes must not re-implement boundary detection.
func ScanIdents(text string) []string {
	var names []string
	n := len(text)
	for i := 0; i < n; {
		c := text[i]
		if !isIdentStart(c) {
			// An atom or a field access: skip the following identifier.
			if c == ':' || c == '.' {
				i++
				for i < n && isIdentPart(text[i]) {
					i++
				}
				continue
			}
			i++
			continue
		}
		j := i
		for j < n && isIdentPart(text[j]) {
			j++
		}
		word := text[i:j]
		i = j
		if isUpper(word[0]) {
			// Module name; a following .call was handled above.
			continue
		}
		// A call, not a variable read.
		if j < n && text[j] == '(' {
			continue
		}
		if !rawKeywords.Has(word) {
			names = append(names, word)
		}
	}
	return names
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '?' || c == '!'
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
