package ast

// The IR mirrors the target language's expression grammar: everything is an
// expression, blocks evaluate to their last statement, and binding happens
// through patterns. The upstream builder produces these nodes from the host
// language's typed syntax tree; the normalization passes rewrite them; the
// serializer prints them.

// Position tracks location information for diagnostics and tooling.
// It is carried through rewrites untouched.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// Var references a bound name.
// Example: "todo", "status", "socket"
type Var struct {
	Pos  Position
	Name string
	meta *Meta
}

// Literal is a scalar constant.
// Example: 42, 3.14, "hello", :ok, true, nil
type Literal struct {
	Pos   Position
	Kind  LiteralKind
	Value string // raw text: "42", "hello", "ok" (atom without the colon)
	meta  *Meta
}

// IsNil reports whether the literal is the nil constant.
func (l *Literal) IsNil() bool { return l.Kind == NilLit }

// IsNumeric reports whether the literal is an int or float.
func (l *Literal) IsNumeric() bool { return l.Kind == IntLit || l.Kind == FloatLit }

// InterpSeg is one segment of an interpolated string: either literal text
// (Expr == nil) or an embedded expression.
type InterpSeg struct {
	Text string
	Expr Node
}

// Interp is an interpolated string.
// Example: "Hello #{name}, you have #{count} items"
type Interp struct {
	Pos      Position
	Segments []InterpSeg
	meta     *Meta
}

// Block is an ordered statement sequence; its value is the last statement.
type Block struct {
	Pos   Position
	Stmts []Node
	meta  *Meta
}

// Terminal returns the block's value-producing trailing statement, or nil
// for an empty block.
func (b *Block) Terminal() Node {
	if len(b.Stmts) == 0 {
		return nil
	}
	return b.Stmts[len(b.Stmts)-1]
}

// Bind matches a value against a pattern, introducing binders.
// Example: "status = todo.status", "{:ok, user} = fetch(id)"
type Bind struct {
	Pos     Position
	Pattern Pattern
	Value   Node
	meta    *Meta
}

// Cond is a two-way conditional. Else may be nil; the builder leaves it nil
// for lowered early returns, which the early-return pass repairs.
type Cond struct {
	Pos       Position
	Condition Node
	Then      *Block
	Else      *Block // nil when absent
	meta      *Meta
}

// CaseClause is one clause of a Case, Receive, or With-else.
type CaseClause struct {
	Pos     Position
	Pattern Pattern
	Guard   Node // nil when absent
	Body    *Block
	meta    *Meta
}

// Case is a multi-clause pattern match on a subject value.
// Example: "case status do :done -> ... other -> ... end"
type Case struct {
	Pos     Position
	Subject Node
	Clauses []*CaseClause
	meta    *Meta
}

// FnClause is one clause of an anonymous function.
type FnClause struct {
	Pos    Position
	Params []Pattern
	Guard  Node // nil when absent
	Body   *Block
	meta   *Meta
}

// Fn is a multi-clause anonymous function.
// Example: "fn todo -> todo.done end"
type Fn struct {
	Pos     Position
	Clauses []*FnClause
	meta    *Meta
}

// Def is a named function definition.
// Example: "def handle_event(event, params, socket) do ... end"
type Def struct {
	Pos     Position
	Name    string
	Private bool
	Params  []Pattern
	Guard   Node // nil when absent
	Body    *Block
	meta    *Meta
}

// CallLocal calls a function visible in the current module.
// Example: "assign(socket, :todos, todos)"
type CallLocal struct {
	Pos  Position
	Name string
	Args []Node
	meta *Meta
}

// CallRemote calls a function in another module.
// Example: "Enum.filter(todos, pred)", "Map.get(params, "title")"
type CallRemote struct {
	Pos    Position
	Module string
	Name   string
	Args   []Node
	meta   *Meta
}

// FieldAccess reads a field of a struct or map value.
// Example: "todo.status", "socket.assigns"
type FieldAccess struct {
	Pos    Position
	Target Node
	Field  string
	meta   *Meta
}

// IndexAccess reads an indexed element.
// Example: "params["title"]", "row[0]"
type IndexAccess struct {
	Pos    Position
	Target Node
	Index  Node
	meta   *Meta
}

// Tuple is a fixed-size tuple literal.
// Example: "{:ok, socket}", "{:noreply, socket}"
type Tuple struct {
	Pos      Position
	Elements []Node
	meta     *Meta
}

// ListLit is a list literal.
type ListLit struct {
	Pos      Position
	Elements []Node
	meta     *Meta
}

// MapEntry is a key/value pair in a map or struct literal.
type MapEntry struct {
	Pos   Position
	Key   Node
	Value Node
	meta  *Meta
}

// MapLit is a map literal.
// Example: "%{title: title, done: false}"
type MapLit struct {
	Pos     Position
	Entries []*MapEntry
	meta    *Meta
}

// StructLit is a tagged struct literal.
// Example: "%Todo{title: title, done: false}"
type StructLit struct {
	Pos     Position
	Module  string
	Entries []*MapEntry
	meta    *Meta
}

// StructUpdate rebuilds a struct/map value with some fields replaced.
// Example: "%{todo | done: true}"
type StructUpdate struct {
	Pos     Position
	Target  Node
	Entries []*MapEntry
	meta    *Meta
}

// Pipe threads Left as the first argument of Right.
// Example: "todos |> Enum.filter(pred) |> Enum.count()"
type Pipe struct {
	Pos   Position
	Left  Node
	Right Node
	meta  *Meta
}

// BinOp is a binary operator application.
// Example: "count + 1", "status == :done", "a <> b"
type BinOp struct {
	Pos   Position
	Op    string
	Left  Node
	Right Node
	meta  *Meta
}

// UnOp is a unary operator application.
// Example: "not done", "-offset"
type UnOp struct {
	Pos   Position
	Op    string
	Value Node
	meta  *Meta
}

// WithClause is one "pattern <- expr" step of a With expression.
type WithClause struct {
	Pos     Position
	Pattern Pattern
	Value   Node
	meta    *Meta
}

// With is a sequential-match expression: each clause must match for the body
// to run; a failed match falls through to the else clauses.
// Example: "with {:ok, user} <- fetch(id), {:ok, todo} <- load(user) do ... end"
type With struct {
	Pos     Position
	Clauses []*WithClause
	Body    *Block
	Else    []*CaseClause // nil when absent
	meta    *Meta
}

// RescueClause is one rescue arm of a TryRescue.
type RescueClause struct {
	Pos     Position
	Pattern Pattern
	Body    *Block
	meta    *Meta
}

// TryRescue is an exception-handling expression.
type TryRescue struct {
	Pos     Position
	Body    *Block
	Rescues []*RescueClause
	After   *Block // nil when absent
	meta    *Meta
}

// Receive is a message-receive expression with an optional timeout clause.
type Receive struct {
	Pos       Position
	Clauses   []*CaseClause
	Timeout   Node   // nil when no timeout
	OnTimeout *Block // body run when the timeout fires
	meta      *Meta
}

// ModuleDef is a module/container definition holding an ordered body of
// definitions and module-level forms.
type ModuleDef struct {
	Pos  Position
	Name string
	Body []Node
	meta *Meta
}

// Raw is the escape hatch for constructs the structured model does not
// cover: opaque target text passed through verbatim. Identifier scanning
// still looks inside it (see scope.ScanIdents).
type Raw struct {
	Pos  Position
	Text string
	meta *Meta
}
