package ast

type NodeType int

const (
	// Special / error
	ILLEGAL NodeType = iota

	// Expressions
	VAR
	LITERAL
	INTERP
	BLOCK
	BIND
	COND
	CASE
	CASE_CLAUSE
	FN
	FN_CLAUSE
	DEF
	LOCAL_CALL
	REMOTE_CALL
	FIELD_ACCESS
	INDEX_ACCESS
	TUPLE
	LIST
	MAP_LIT
	MAP_ENTRY
	STRUCT_LIT
	STRUCT_UPDATE
	PIPE
	BINARY_OP
	UNARY_OP
	WITH
	WITH_CLAUSE
	TRY_RESCUE
	RESCUE_CLAUSE
	RECEIVE
	MODULE_DEF
	RAW

	// Patterns
	PAT_VAR
	PAT_LITERAL
	PAT_TUPLE
	PAT_LIST
	PAT_CONS
	PAT_MAP
	PAT_MAP_ENTRY
	PAT_STRUCT
	PAT_PIN
	PAT_ALIAS
	PAT_BINARY
	PAT_BIT_SEGMENT
)

// LiteralKind distinguishes literal payloads without re-parsing their text
type LiteralKind int

const (
	IntLit LiteralKind = iota
	FloatLit
	StringLit
	AtomLit
	BoolLit
	NilLit
)

func (k LiteralKind) String() string {
	switch k {
	case IntLit:
		return "int"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case AtomLit:
		return "atom"
	case BoolLit:
		return "bool"
	case NilLit:
		return "nil"
	default:
		return "unknown"
	}
}
