package ast

// Walk visits n and its children in pre-order. The visit function returns
// false to skip a node's children. Results are accumulated by the caller
// through its closure; Walk never fabricates values for "no result".
func Walk(n Node, visit func(Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	switch node := n.(type) {
	case *Program:
		for _, item := range node.Items {
			Walk(item, visit)
		}
	case *Function:
		walkBlock(node.Body, visit)
	case *ConstDecl:
		Walk(node.Value, visit)
	case *StaticDecl:
		Walk(node.Value, visit)
	case *StructDecl, *EnumDecl, *TypeAliasDecl, *UseDecl:
		// Leaf items: type payloads are not AST nodes.
	case *Block:
		for _, s := range node.Stmts {
			Walk(s, visit)
		}
	case *LetStmt:
		if node.Value != nil {
			Walk(node.Value, visit)
		}
	case *AssignStmt:
		Walk(node.Target, visit)
		Walk(node.Value, visit)
	case *ExprStmt:
		Walk(node.Value, visit)
	case *ReturnStmt:
		if node.Value != nil {
			Walk(node.Value, visit)
		}
	case *WhileStmt:
		Walk(node.Cond, visit)
		walkBlock(node.Body, visit)
	case *Binary:
		Walk(node.Left, visit)
		Walk(node.Right, visit)
	case *Unary:
		Walk(node.Operand, visit)
	case *Call:
		Walk(node.Callee, visit)
		for _, a := range node.Args {
			Walk(a, visit)
		}
	case *If:
		Walk(node.Cond, visit)
		walkBlock(node.Then, visit)
		walkBlock(node.Else, visit)
	case *Match:
		Walk(node.Subject, visit)
		for _, arm := range node.Arms {
			if arm.Pattern != nil {
				Walk(arm.Pattern, visit)
			}
			Walk(arm.Body, visit)
		}
	case *StructLit:
		for _, f := range node.Fields {
			Walk(f.Value, visit)
		}
	case *FieldAccess:
		Walk(node.Object, visit)
	case *Index:
		Walk(node.Object, visit)
		Walk(node.Pos, visit)
	case *ArrayLit:
		for _, e := range node.Elems {
			Walk(e, visit)
		}
	case *TupleLit:
		for _, e := range node.Elems {
			Walk(e, visit)
		}
	case *BlockExpr:
		walkBlock(node.Body, visit)
		if node.Tail != nil {
			Walk(node.Tail, visit)
		}
	}
}

func walkBlock(b *Block, visit func(Node) bool) {
	if b != nil {
		Walk(b, visit)
	}
}

// Exprs collects every expression under n into the caller-supplied sink.
func Exprs(n Node, sink *[]Expr) {
	Walk(n, func(child Node) bool {
		if e, ok := child.(Expr); ok {
			*sink = append(*sink, e)
		}
		return true
	})
}
