package ast

import (
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/types"
)

// Node is the base interface for all AST nodes. Every node carries a byte
// span into the original source text for diagnostic rendering.
type Node interface {
	Span() source.Span
}

// Item is a top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression. After type checking every reachable expression
// carries its resolved type; Type returns nil until then.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// NodeBase provides span storage for all nodes.
type NodeBase struct {
	Loc source.Span
}

func (b NodeBase) Span() source.Span { return b.Loc }

// ExprBase adds the resolved-type slot every expression carries. Resolved is
// filled in by the checker or the inference solver.
type ExprBase struct {
	NodeBase
	Resolved types.Type
}

func (e *ExprBase) exprNode()            {}
func (e *ExprBase) Type() types.Type     { return e.Resolved }
func (e *ExprBase) SetType(t types.Type) { e.Resolved = t }

// At is a convenience constructor for node bases.
func At(span source.Span) NodeBase { return NodeBase{Loc: span} }

// ExprAt is a convenience constructor for expression bases.
func ExprAt(span source.Span) ExprBase { return ExprBase{NodeBase: NodeBase{Loc: span}} }

// Program is the root node: an ordered list of top-level items, as produced
// by the parser.
type Program struct {
	Items []Item
}

func (p *Program) Span() source.Span {
	if len(p.Items) == 0 {
		return source.Span{}
	}
	return p.Items[0].Span().Merge(p.Items[len(p.Items)-1].Span())
}

// SafetyLevel marks whether code may perform unsafe operations.
type SafetyLevel int

const (
	SafetySafe SafetyLevel = iota
	SafetyUnsafe
)

// Param is a function parameter with an explicit type annotation.
type Param struct {
	Name string
	Ty   types.Type
	Loc  source.Span
}

// Function is a top-level fn item.
type Function struct {
	NodeBase
	Name       string
	Params     []Param
	ReturnType types.Type // nil means unit
	Body       *Block
	Unsafe     bool
	Realtime   bool
}

func (f *Function) itemNode() {}

// FieldDef is a struct field declaration.
type FieldDef struct {
	Name string
	Ty   types.Type
	Loc  source.Span
}

// StructDecl is a top-level struct definition.
type StructDecl struct {
	NodeBase
	Name   string
	Fields []FieldDef
}

func (s *StructDecl) itemNode() {}

// VariantDef is a single enum variant, optionally carrying payload types.
type VariantDef struct {
	Name    string
	Payload []types.Type
	Loc     source.Span
}

// EnumDecl is a top-level enum definition.
type EnumDecl struct {
	NodeBase
	Name     string
	Variants []VariantDef
}

func (e *EnumDecl) itemNode() {}

// ConstDecl is a top-level const with a mandatory annotation.
type ConstDecl struct {
	NodeBase
	Name  string
	Ty    types.Type
	Value Expr
}

func (c *ConstDecl) itemNode() {}

// StaticDecl is a top-level static with a mandatory annotation.
type StaticDecl struct {
	NodeBase
	Name    string
	Ty      types.Type
	Mutable bool
	Value   Expr
}

func (s *StaticDecl) itemNode() {}

// TypeAliasDecl binds a name to an existing type.
type TypeAliasDecl struct {
	NodeBase
	Name string
	Ty   types.Type
}

func (t *TypeAliasDecl) itemNode() {}

// UseDecl imports a path. The semantic core records it but resolution of
// foreign modules happens upstream.
type UseDecl struct {
	NodeBase
	Path string
}

func (u *UseDecl) itemNode() {}
