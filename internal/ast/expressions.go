package ast

import "github.com/cinderlang/cinder/internal/source"

// IntLit is an integer literal. Inference gives it a fresh type variable so
// it can unify with any integer primitive; the direct checker defaults it.
type IntLit struct {
	ExprBase
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	ExprBase
	Value float64
}

// BoolLit is true or false.
type BoolLit struct {
	ExprBase
	Value bool
}

// StringLit is a string literal.
type StringLit struct {
	ExprBase
	Value string
}

// CharLit is a character literal.
type CharLit struct {
	ExprBase
	Value rune
}

// UnitLit is the () expression.
type UnitLit struct {
	ExprBase
}

// Ident references a variable, const, static or function by name.
type Ident struct {
	ExprBase
	Name string
}

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpRem
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpRem:
		return "%"
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

// IsArithmetic reports whether op computes a numeric result.
func (op BinaryOp) IsArithmetic() bool { return op >= OpAdd && op <= OpRem }

// IsComparison reports whether op compares operands, yielding bool.
func (op BinaryOp) IsComparison() bool { return op >= OpEq && op <= OpGe }

// IsLogical reports whether op is && or ||.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// Binary applies a binary operator.
type Binary struct {
	ExprBase
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNeg UnaryOp = iota // -x
	OpNot                // !x
	OpDeref              // *x
	OpRef                // &x
	OpRefMut             // &mut x
)

// Unary applies a unary operator.
type Unary struct {
	ExprBase
	Op      UnaryOp
	Operand Expr
}

// Call invokes a callee with arguments.
type Call struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// If is a conditional expression. Else may be nil, in which case the whole
// expression has unit type.
type If struct {
	ExprBase
	Cond Expr
	Then *Block
	Else *Block
}

// MatchArm is one arm of a match expression. A nil Pattern is the wildcard.
type MatchArm struct {
	Pattern Expr
	Body    Expr
	Loc     source.Span
}

// Match scrutinizes a subject against arms; all arm bodies must share a
// common type.
type Match struct {
	ExprBase
	Subject Expr
	Arms    []MatchArm
}

// FieldInit is a single field in a struct literal.
type FieldInit struct {
	Name  string
	Value Expr
	Loc   source.Span
}

// StructLit constructs a struct value.
type StructLit struct {
	ExprBase
	Name   string
	Fields []FieldInit
}

// FieldAccess reads a struct field.
type FieldAccess struct {
	ExprBase
	Object Expr
	Field  string
}

// Index indexes into an array or slice.
type Index struct {
	ExprBase
	Object Expr
	Pos    Expr
}

// ArrayLit constructs a fixed-size array from element expressions.
type ArrayLit struct {
	ExprBase
	Elems []Expr
}

// TupleLit constructs a tuple.
type TupleLit struct {
	ExprBase
	Elems []Expr
}

// Path references an enum variant, e.g. Color::Red.
type Path struct {
	ExprBase
	EnumName string
	Variant  string
}

// BlockExpr is a block in expression position; its value is the Tail
// expression, or unit when Tail is nil.
type BlockExpr struct {
	ExprBase
	Body *Block
	Tail Expr
}
