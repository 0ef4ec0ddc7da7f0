package ast

type Node interface {
	NodePos() Position
	NodeType() NodeType
	String() string

	// Metadata support for builder hints and compilation tracking
	Meta() *Meta
	SetMeta(*Meta)

	isNode()
}

// Pattern is the second sum type, used only in binding positions.
type Pattern interface {
	Node
	isPattern()
}

func (v *Var) NodePos() Position { return v.Pos }
func (*Var) NodeType() NodeType  { return VAR }
func (v *Var) Meta() *Meta       { return v.meta }
func (v *Var) SetMeta(m *Meta)   { v.meta = m }

func (l *Literal) NodePos() Position { return l.Pos }
func (*Literal) NodeType() NodeType  { return LITERAL }
func (l *Literal) Meta() *Meta       { return l.meta }
func (l *Literal) SetMeta(m *Meta)   { l.meta = m }

func (i *Interp) NodePos() Position { return i.Pos }
func (*Interp) NodeType() NodeType  { return INTERP }
func (i *Interp) Meta() *Meta       { return i.meta }
func (i *Interp) SetMeta(m *Meta)   { i.meta = m }

func (b *Block) NodePos() Position { return b.Pos }
func (*Block) NodeType() NodeType  { return BLOCK }
func (b *Block) Meta() *Meta       { return b.meta }
func (b *Block) SetMeta(m *Meta)   { b.meta = m }

func (b *Bind) NodePos() Position { return b.Pos }
func (*Bind) NodeType() NodeType  { return BIND }
func (b *Bind) Meta() *Meta       { return b.meta }
func (b *Bind) SetMeta(m *Meta)   { b.meta = m }

func (c *Cond) NodePos() Position { return c.Pos }
func (*Cond) NodeType() NodeType  { return COND }
func (c *Cond) Meta() *Meta       { return c.meta }
func (c *Cond) SetMeta(m *Meta)   { c.meta = m }

func (c *Case) NodePos() Position { return c.Pos }
func (*Case) NodeType() NodeType  { return CASE }
func (c *Case) Meta() *Meta       { return c.meta }
func (c *Case) SetMeta(m *Meta)   { c.meta = m }

func (c *CaseClause) NodePos() Position { return c.Pos }
func (*CaseClause) NodeType() NodeType  { return CASE_CLAUSE }
func (c *CaseClause) Meta() *Meta       { return c.meta }
func (c *CaseClause) SetMeta(m *Meta)   { c.meta = m }

func (f *Fn) NodePos() Position { return f.Pos }
func (*Fn) NodeType() NodeType  { return FN }
func (f *Fn) Meta() *Meta       { return f.meta }
func (f *Fn) SetMeta(m *Meta)   { f.meta = m }

func (f *FnClause) NodePos() Position { return f.Pos }
func (*FnClause) NodeType() NodeType  { return FN_CLAUSE }
func (f *FnClause) Meta() *Meta       { return f.meta }
func (f *FnClause) SetMeta(m *Meta)   { f.meta = m }

func (d *Def) NodePos() Position { return d.Pos }
func (*Def) NodeType() NodeType  { return DEF }
func (d *Def) Meta() *Meta       { return d.meta }
func (d *Def) SetMeta(m *Meta)   { d.meta = m }

func (c *CallLocal) NodePos() Position { return c.Pos }
func (*CallLocal) NodeType() NodeType  { return LOCAL_CALL }
func (c *CallLocal) Meta() *Meta       { return c.meta }
func (c *CallLocal) SetMeta(m *Meta)   { c.meta = m }

func (c *CallRemote) NodePos() Position { return c.Pos }
func (*CallRemote) NodeType() NodeType  { return REMOTE_CALL }
func (c *CallRemote) Meta() *Meta       { return c.meta }
func (c *CallRemote) SetMeta(m *Meta)   { c.meta = m }

func (f *FieldAccess) NodePos() Position { return f.Pos }
func (*FieldAccess) NodeType() NodeType  { return FIELD_ACCESS }
func (f *FieldAccess) Meta() *Meta       { return f.meta }
func (f *FieldAccess) SetMeta(m *Meta)   { f.meta = m }

func (i *IndexAccess) NodePos() Position { return i.Pos }
func (*IndexAccess) NodeType() NodeType  { return INDEX_ACCESS }
func (i *IndexAccess) Meta() *Meta       { return i.meta }
func (i *IndexAccess) SetMeta(m *Meta)   { i.meta = m }

func (t *Tuple) NodePos() Position { return t.Pos }
func (*Tuple) NodeType() NodeType  { return TUPLE }
func (t *Tuple) Meta() *Meta       { return t.meta }
func (t *Tuple) SetMeta(m *Meta)   { t.meta = m }

func (l *ListLit) NodePos() Position { return l.Pos }
func (*ListLit) NodeType() NodeType  { return LIST }
func (l *ListLit) Meta() *Meta       { return l.meta }
func (l *ListLit) SetMeta(m *Meta)   { l.meta = m }

func (m *MapLit) NodePos() Position  { return m.Pos }
func (*MapLit) NodeType() NodeType   { return MAP_LIT }
func (m *MapLit) Meta() *Meta        { return m.meta }
func (m *MapLit) SetMeta(meta *Meta) { m.meta = meta }

func (e *MapEntry) NodePos() Position { return e.Pos }
func (*MapEntry) NodeType() NodeType  { return MAP_ENTRY }
func (e *MapEntry) Meta() *Meta       { return e.meta }
func (e *MapEntry) SetMeta(m *Meta)   { e.meta = m }

func (s *StructLit) NodePos() Position { return s.Pos }
func (*StructLit) NodeType() NodeType  { return STRUCT_LIT }
func (s *StructLit) Meta() *Meta       { return s.meta }
func (s *StructLit) SetMeta(m *Meta)   { s.meta = m }

func (s *StructUpdate) NodePos() Position { return s.Pos }
func (*StructUpdate) NodeType() NodeType  { return STRUCT_UPDATE }
func (s *StructUpdate) Meta() *Meta       { return s.meta }
func (s *StructUpdate) SetMeta(m *Meta)   { s.meta = m }

func (p *Pipe) NodePos() Position { return p.Pos }
func (*Pipe) NodeType() NodeType  { return PIPE }
func (p *Pipe) Meta() *Meta       { return p.meta }
func (p *Pipe) SetMeta(m *Meta)   { p.meta = m }

func (b *BinOp) NodePos() Position { return b.Pos }
func (*BinOp) NodeType() NodeType  { return BINARY_OP }
func (b *BinOp) Meta() *Meta       { return b.meta }
func (b *BinOp) SetMeta(m *Meta)   { b.meta = m }

func (u *UnOp) NodePos() Position { return u.Pos }
func (*UnOp) NodeType() NodeType  { return UNARY_OP }
func (u *UnOp) Meta() *Meta       { return u.meta }
func (u *UnOp) SetMeta(m *Meta)   { u.meta = m }

func (w *With) NodePos() Position { return w.Pos }
func (*With) NodeType() NodeType  { return WITH }
func (w *With) Meta() *Meta       { return w.meta }
func (w *With) SetMeta(m *Meta)   { w.meta = m }

func (w *WithClause) NodePos() Position { return w.Pos }
func (*WithClause) NodeType() NodeType  { return WITH_CLAUSE }
func (w *WithClause) Meta() *Meta       { return w.meta }
func (w *WithClause) SetMeta(m *Meta)   { w.meta = m }

func (t *TryRescue) NodePos() Position { return t.Pos }
func (*TryRescue) NodeType() NodeType  { return TRY_RESCUE }
func (t *TryRescue) Meta() *Meta       { return t.meta }
func (t *TryRescue) SetMeta(m *Meta)   { t.meta = m }

func (r *RescueClause) NodePos() Position { return r.Pos }
func (*RescueClause) NodeType() NodeType  { return RESCUE_CLAUSE }
func (r *RescueClause) Meta() *Meta       { return r.meta }
func (r *RescueClause) SetMeta(m *Meta)   { r.meta = m }

func (r *Receive) NodePos() Position { return r.Pos }
func (*Receive) NodeType() NodeType  { return RECEIVE }
func (r *Receive) Meta() *Meta       { return r.meta }
func (r *Receive) SetMeta(m *Meta)   { r.meta = m }

func (m *ModuleDef) NodePos() Position  { return m.Pos }
func (*ModuleDef) NodeType() NodeType   { return MODULE_DEF }
func (m *ModuleDef) Meta() *Meta        { return m.meta }
func (m *ModuleDef) SetMeta(meta *Meta) { m.meta = meta }

func (r *Raw) NodePos() Position { return r.Pos }
func (*Raw) NodeType() NodeType  { return RAW }
func (r *Raw) Meta() *Meta       { return r.meta }
func (r *Raw) SetMeta(m *Meta)   { r.meta = m }

func (p *PVar) NodePos() Position { return p.Pos }
func (*PVar) NodeType() NodeType  { return PAT_VAR }
func (p *PVar) Meta() *Meta       { return p.meta }
func (p *PVar) SetMeta(m *Meta)   { p.meta = m }

func (p *PLiteral) NodePos() Position { return p.Pos }
func (*PLiteral) NodeType() NodeType  { return PAT_LITERAL }
func (p *PLiteral) Meta() *Meta       { return p.meta }
func (p *PLiteral) SetMeta(m *Meta)   { p.meta = m }

func (p *PTuple) NodePos() Position { return p.Pos }
func (*PTuple) NodeType() NodeType  { return PAT_TUPLE }
func (p *PTuple) Meta() *Meta       { return p.meta }
func (p *PTuple) SetMeta(m *Meta)   { p.meta = m }

func (p *PList) NodePos() Position { return p.Pos }
func (*PList) NodeType() NodeType  { return PAT_LIST }
func (p *PList) Meta() *Meta       { return p.meta }
func (p *PList) SetMeta(m *Meta)   { p.meta = m }

func (p *PCons) NodePos() Position { return p.Pos }
func (*PCons) NodeType() NodeType  { return PAT_CONS }
func (p *PCons) Meta() *Meta       { return p.meta }
func (p *PCons) SetMeta(m *Meta)   { p.meta = m }

func (p *PMap) NodePos() Position { return p.Pos }
func (*PMap) NodeType() NodeType  { return PAT_MAP }
func (p *PMap) Meta() *Meta       { return p.meta }
func (p *PMap) SetMeta(m *Meta)   { p.meta = m }

func (e *PMapEntry) NodePos() Position { return e.Pos }
func (*PMapEntry) NodeType() NodeType  { return PAT_MAP_ENTRY }
func (e *PMapEntry) Meta() *Meta       { return e.meta }
func (e *PMapEntry) SetMeta(m *Meta)   { e.meta = m }

func (p *PStruct) NodePos() Position { return p.Pos }
func (*PStruct) NodeType() NodeType  { return PAT_STRUCT }
func (p *PStruct) Meta() *Meta       { return p.meta }
func (p *PStruct) SetMeta(m *Meta)   { p.meta = m }

func (p *PPin) NodePos() Position { return p.Pos }
func (*PPin) NodeType() NodeType  { return PAT_PIN }
func (p *PPin) Meta() *Meta       { return p.meta }
func (p *PPin) SetMeta(m *Meta)   { p.meta = m }

func (p *PAlias) NodePos() Position { return p.Pos }
func (*PAlias) NodeType() NodeType  { return PAT_ALIAS }
func (p *PAlias) Meta() *Meta       { return p.meta }
func (p *PAlias) SetMeta(m *Meta)   { p.meta = m }

func (p *PBinary) NodePos() Position { return p.Pos }
func (*PBinary) NodeType() NodeType  { return PAT_BINARY }
func (p *PBinary) Meta() *Meta       { return p.meta }
func (p *PBinary) SetMeta(m *Meta)   { p.meta = m }

func (s *PBitSeg) NodePos() Position { return s.Pos }
func (*PBitSeg) NodeType() NodeType  { return PAT_BIT_SEGMENT }
func (s *PBitSeg) Meta() *Meta       { return s.meta }
func (s *PBitSeg) SetMeta(m *Meta)   { s.meta = m }
