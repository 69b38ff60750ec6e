package ast

import "github.com/cinderlang/cinder/internal/types"

// Block is a brace-delimited statement list. A block marked Unsafe raises
// the local safety level for everything it contains.
type Block struct {
	NodeBase
	Stmts  []Stmt
	Unsafe bool
}

func (b *Block) stmtNode() {}

// LetStmt is a local binding. Value may be nil: `let x;` declares an
// uninitialized variable the safety analyzer tracks.
type LetStmt struct {
	NodeBase
	Name    string
	Mutable bool
	Ty      types.Type // optional annotation, nil to infer
	Value   Expr
}

func (l *LetStmt) stmtNode() {}

// AssignStmt re-assigns an already-declared variable.
type AssignStmt struct {
	NodeBase
	Target *Ident
	Value  Expr
}

func (a *AssignStmt) stmtNode() {}

// ExprStmt evaluates an expression for its effects.
type ExprStmt struct {
	NodeBase
	Value Expr
}

func (e *ExprStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function. Value may be nil.
type ReturnStmt struct {
	NodeBase
	Value Expr
}

func (r *ReturnStmt) stmtNode() {}

// WhileStmt loops while the condition holds.
type WhileStmt struct {
	NodeBase
	Cond Expr
	Body *Block
}

func (w *WhileStmt) stmtNode() {}

// NewBlock builds a block spanning its statements.
func NewBlock(stmts ...Stmt) *Block {
	b := &Block{Stmts: stmts}
	if len(stmts) > 0 {
		b.Loc = stmts[0].Span().Merge(stmts[len(stmts)-1].Span())
	}
	return b
}
