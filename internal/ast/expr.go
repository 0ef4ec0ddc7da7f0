package ast

func (*Var) isNode() {}

func (*Literal) isNode() {}

func (*Interp) isNode() {}

func (*Block) isNode() {}

func (*Bind) isNode() {}

func (*Cond) isNode() {}

func (*Case) isNode() {}

func (*CaseClause) isNode() {}

func (*Fn) isNode() {}

func (*FnClause) isNode() {}

func (*Def) isNode() {}

func (*CallLocal) isNode() {}

func (*CallRemote) isNode() {}

func (*FieldAccess) isNode() {}

func (*IndexAccess) isNode() {}

func (*Tuple) isNode() {}

func (*ListLit) isNode() {}

func (*MapLit) isNode() {}

func (*MapEntry) isNode() {}

func (*StructLit) isNode() {}

func (*StructUpdate) isNode() {}

func (*Pipe) isNode() {}

func (*BinOp) isNode() {}

func (*UnOp) isNode() {}

func (*With) isNode() {}

func (*WithClause) isNode() {}

func (*TryRescue) isNode() {}

func (*RescueClause) isNode() {}

func (*Receive) isNode() {}

func (*ModuleDef) isNode() {}

func (*Raw) isNode() {}

func (*PVar) isNode() {}

func (*PLiteral) isNode() {}

func (*PTuple) isNode() {}

func (*PList) isNode() {}

func (*PCons) isNode() {}

func (*PMap) isNode() {}

func (*PMapEntry) isNode() {}

func (*PStruct) isNode() {}

func (*PPin) isNode() {}

func (*PAlias) isNode() {}

func (*PBinary) isNode() {}

func (*PBitSeg) isNode() {}

func (*PVar) isPattern() {}

func (*PLiteral) isPattern() {}

func (*PTuple) isPattern() {}

func (*PList) isPattern() {}

func (*PCons) isPattern() {}

func (*PMap) isPattern() {}

func (*PMapEntry) isPattern() {}

func (*PStruct) isPattern() {}

func (*PPin) isPattern() {}

func (*PAlias) isPattern() {}

func (*PBinary) isPattern() {}

func (*PBitSeg) isPattern() {}
