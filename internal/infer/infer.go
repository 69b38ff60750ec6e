package infer

import (
	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/symbols"
	"github.com/cinderlang/cinder/internal/types"
)

var unit = types.Primitive{Kind: types.Unit}
var boolType = types.Primitive{Kind: types.Bool}

// InferProgram runs constraint-based inference over a whole program:
// signature collection (functions without a return annotation get a fresh
// return variable), constraint generation over every body, solving, and a
// final annotation pass that writes resolved types back onto every
// expression node.
func (ctx *Context) InferProgram(program *ast.Program) []*diagnostics.Diagnostic {
	var diags []*diagnostics.Diagnostic

	for _, item := range program.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		params := make([]types.Type, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = p.Ty
		}
		ret := fn.ReturnType
		if ret == nil {
			ret = ctx.FreshVar()
		}
		safety := ast.SafetySafe
		if fn.Unsafe {
			safety = ast.SafetyUnsafe
		}
		err := ctx.table.DefineFunction(symbols.FunctionSignature{
			Name: fn.Name, Params: params, Return: ret, Safety: safety,
			Realtime: fn.Realtime, Span: fn.Span(),
		})
		if err != nil {
			diags = append(diags, diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC001, fn.Span(), "%s", err))
		}
	}

	for _, item := range program.Items {
		if fn, ok := item.(*ast.Function); ok {
			if d := ctx.inferFunction(fn); d != nil {
				diags = append(diags, d)
			}
		}
	}

	diags = append(diags, ctx.Solve()...)
	diags = append(diags, ctx.annotate(program)...)
	return diags
}

func (ctx *Context) inferFunction(fn *ast.Function) *diagnostics.Diagnostic {
	sig, ok := ctx.table.LookupFunction(fn.Name)
	if !ok {
		return diagnostics.Internal(fn.Span(), "signature for %s missing after collection pass", fn.Name)
	}

	ctx.table.PushScope(symbols.ScopeFunction)
	defer ctx.table.PopScope()

	for i, p := range fn.Params {
		ctx.table.Define(symbols.Symbol{
			Name: p.Name, Type: sig.Params[i], Kind: symbols.VariableSymbol, Span: p.Loc,
		})
	}

	prev := ctx.currentReturn
	ctx.currentReturn = sig.Return
	defer func() { ctx.currentReturn = prev }()

	bodyType, d := ctx.inferBlock(fn.Body)
	if d != nil {
		return d
	}
	// A body whose trailing expression produces a value constrains the
	// return slot; bodies ending in statements contribute through their
	// return statements instead.
	if fn.Body != nil && !types.Equal(bodyType, unit) {
		ctx.AddConstraint(ctx.currentReturn, bodyType, fn.Body.Span(), "function body result")
	}
	return nil
}

// inferBlock infers every statement in a child scope and returns the type
// of a trailing expression statement, unit otherwise.
func (ctx *Context) inferBlock(block *ast.Block) (types.Type, *diagnostics.Diagnostic) {
	if block == nil {
		return unit, nil
	}
	ctx.table.PushScope(symbols.ScopeBlock)
	defer ctx.table.PopScope()

	result := types.Type(unit)
	for i, stmt := range block.Stmts {
		t, d := ctx.inferStmt(stmt)
		if d != nil {
			return nil, d
		}
		if i == len(block.Stmts)-1 {
			result = t
		}
	}
	return result, nil
}

func (ctx *Context) inferStmt(stmt ast.Stmt) (types.Type, *diagnostics.Diagnostic) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		var bound types.Type
		if s.Value != nil {
			vt, d := ctx.InferExpr(s.Value)
			if d != nil {
				return nil, d
			}
			bound = vt
			if s.Ty != nil {
				ctx.AddConstraint(s.Ty, vt, s.Value.Span(), "let annotation")
				bound = s.Ty
			}
		} else if s.Ty != nil {
			bound = s.Ty
		} else {
			bound = ctx.FreshVar()
		}
		ctx.table.Define(symbols.Symbol{
			Name: s.Name, Type: bound, Kind: symbols.VariableSymbol, Mutable: s.Mutable, Span: s.Span(),
		})
		return unit, nil

	case *ast.AssignStmt:
		sym, ok := ctx.table.Lookup(s.Target.Name)
		if !ok {
			return nil, diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC002, s.Target.Span(),
				"cannot assign to undeclared variable %s", s.Target.Name)
		}
		vt, d := ctx.InferExpr(s.Value)
		if d != nil {
			return nil, d
		}
		s.Target.SetType(sym.Type)
		ctx.AddConstraint(sym.Type, vt, s.Value.Span(), "assignment")
		return unit, nil

	case *ast.ExprStmt:
		return ctx.InferExpr(s.Value)

	case *ast.ReturnStmt:
		if s.Value == nil {
			ctx.AddConstraint(ctx.currentReturn, unit, s.Span(), "empty return")
			return unit, nil
		}
		vt, d := ctx.InferExpr(s.Value)
		if d != nil {
			return nil, d
		}
		ctx.AddConstraint(ctx.currentReturn, vt, s.Value.Span(), "return value")
		return unit, nil

	case *ast.WhileStmt:
		ct, d := ctx.InferExpr(s.Cond)
		if d != nil {
			return nil, d
		}
		ctx.AddConstraint(ct, boolType, s.Cond.Span(), "while condition")
		if _, d := ctx.inferBlock(s.Body); d != nil {
			return nil, d
		}
		return unit, nil

	case *ast.Block:
		return ctx.inferBlock(s)
	}

	return nil, diagnostics.Internal(stmt.Span(), "unhandled statement %T", stmt)
}

// InferExpr walks an expression, allocating variables and recording
// constraints, and writes the (possibly still unresolved) type onto the
// node. Integer and float literals receive fresh variables so `5` can later
// unify with any numeric primitive; all other literals are concrete
// immediately.
func (ctx *Context) InferExpr(expr ast.Expr) (types.Type, *diagnostics.Diagnostic) {
	t, d := ctx.inferExprInner(expr)
	if d != nil {
		return nil, d
	}
	expr.SetType(t)
	return t, nil
}

func (ctx *Context) inferExprInner(expr ast.Expr) (types.Type, *diagnostics.Diagnostic) {
	switch e := expr.(type) {
	case *ast.IntLit:
		return ctx.freshLiteralVar(types.Primitive{Kind: types.I32}), nil
	case *ast.FloatLit:
		return ctx.freshLiteralVar(types.Primitive{Kind: types.F64}), nil
	case *ast.BoolLit:
		return boolType, nil
	case *ast.StringLit:
		return types.Primitive{Kind: types.Str}, nil
	case *ast.CharLit:
		return types.Primitive{Kind: types.Char}, nil
	case *ast.UnitLit:
		return unit, nil

	case *ast.Ident:
		if sym, ok := ctx.table.Lookup(e.Name); ok {
			return sym.Type, nil
		}
		if sig, ok := ctx.table.LookupFunction(e.Name); ok {
			return types.Function{Params: sig.Params, Return: sig.Return}, nil
		}
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT003, e.Span(),
			"undefined variable %s", e.Name)

	case *ast.Binary:
		left, d := ctx.InferExpr(e.Left)
		if d != nil {
			return nil, d
		}
		right, d := ctx.InferExpr(e.Right)
		if d != nil {
			return nil, d
		}
		if e.Op.IsLogical() {
			ctx.AddConstraint(left, boolType, e.Left.Span(), "logical operand")
			ctx.AddConstraint(right, boolType, e.Right.Span(), "logical operand")
			return boolType, nil
		}
		// Arithmetic and comparison constrain both operands to the same
		// type; comparisons then produce bool.
		ctx.AddConstraint(left, right, e.Span(), "binary operands")
		if e.Op.IsComparison() {
			return boolType, nil
		}
		return left, nil

	case *ast.Unary:
		operand, d := ctx.InferExpr(e.Operand)
		if d != nil {
			return nil, d
		}
		switch e.Op {
		case ast.OpNeg:
			return operand, nil
		case ast.OpNot:
			ctx.AddConstraint(operand, boolType, e.Operand.Span(), "negation operand")
			return boolType, nil
		case ast.OpDeref:
			target := ctx.FreshVar()
			ctx.AddConstraint(operand, types.Reference{Target: target}, e.Operand.Span(), "dereference")
			return target, nil
		case ast.OpRef:
			return types.Reference{Target: operand, Mutable: false}, nil
		case ast.OpRefMut:
			return types.Reference{Target: operand, Mutable: true}, nil
		}
		return nil, diagnostics.Internal(e.Span(), "unhandled unary operator %d", e.Op)

	case *ast.Call:
		calleeType, d := ctx.InferExpr(e.Callee)
		if d != nil {
			return nil, d
		}
		argTypes := make([]types.Type, len(e.Args))
		for i, arg := range e.Args {
			at, d := ctx.InferExpr(arg)
			if d != nil {
				return nil, d
			}
			argTypes[i] = at
		}
		// Arity mismatches must surface as argument-count errors, not as
		// shape mismatches from unification.
		if fn, ok := calleeType.(types.Function); ok && len(fn.Params) != len(e.Args) {
			name := "function"
			if ident, isIdent := e.Callee.(*ast.Ident); isIdent {
				name = "function " + ident.Name
			}
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT002, e.Span(),
				"%s expects %d arguments, got %d", name, len(fn.Params), len(e.Args))
		}
		ret := ctx.FreshVar()
		ctx.AddConstraint(calleeType, types.Function{Params: argTypes, Return: ret}, e.Span(), "call")
		return ret, nil

	case *ast.If:
		ct, d := ctx.InferExpr(e.Cond)
		if d != nil {
			return nil, d
		}
		ctx.AddConstraint(ct, boolType, e.Cond.Span(), "if condition")
		thenType, d := ctx.inferBlock(e.Then)
		if d != nil {
			return nil, d
		}
		if e.Else == nil {
			return unit, nil
		}
		elseType, d := ctx.inferBlock(e.Else)
		if d != nil {
			return nil, d
		}
		ctx.AddConstraint(thenType, elseType, e.Span(), "if branches")
		return thenType, nil

	case *ast.Match:
		subject, d := ctx.InferExpr(e.Subject)
		if d != nil {
			return nil, d
		}
		result := types.Type(nil)
		for _, arm := range e.Arms {
			if arm.Pattern != nil {
				pt, d := ctx.InferExpr(arm.Pattern)
				if d != nil {
					return nil, d
				}
				ctx.AddConstraint(subject, pt, arm.Pattern.Span(), "match pattern")
			}
			bt, d := ctx.InferExpr(arm.Body)
			if d != nil {
				return nil, d
			}
			if result == nil {
				result = bt
			} else {
				// All arms must agree with each other.
				ctx.AddConstraint(result, bt, arm.Loc, "match arms")
			}
		}
		if result == nil {
			return unit, nil
		}
		return result, nil

	case *ast.TupleLit:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, d := ctx.InferExpr(el)
			if d != nil {
				return nil, d
			}
			elems[i] = t
		}
		return types.Tuple{Elems: elems}, nil

	case *ast.ArrayLit:
		elem := types.Type(ctx.FreshVar())
		for _, el := range e.Elems {
			t, d := ctx.InferExpr(el)
			if d != nil {
				return nil, d
			}
			ctx.AddConstraint(elem, t, el.Span(), "array element")
		}
		return types.Array{Elem: elem, Size: len(e.Elems)}, nil

	case *ast.Index:
		objType, d := ctx.InferExpr(e.Object)
		if d != nil {
			return nil, d
		}
		if _, d := ctx.InferExpr(e.Pos); d != nil {
			return nil, d
		}
		elem := ctx.FreshVar()
		ctx.AddConstraint(objType, types.Slice{Elem: elem}, e.Object.Span(), "index target")
		return elem, nil

	case *ast.BlockExpr:
		if _, d := ctx.inferBlock(e.Body); d != nil {
			return nil, d
		}
		if e.Tail == nil {
			return unit, nil
		}
		return ctx.InferExpr(e.Tail)
	}

	return nil, diagnostics.Internal(expr.Span(), "expression %T requires the direct checker", expr)
}

// annotate applies the final substitution to every expression node and
// verifies the solved-program invariant: no Unknown type survives.
func (ctx *Context) annotate(program *ast.Program) []*diagnostics.Diagnostic {
	var diags []*diagnostics.Diagnostic
	ast.Walk(program, func(n ast.Node) bool {
		e, ok := n.(ast.Expr)
		if !ok {
			return true
		}
		t := e.Type()
		if t == nil {
			return true
		}
		resolved := ctx.Resolve(t)
		e.SetType(resolved)
		if types.ContainsUnknown(resolved) {
			diags = append(diags, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, e.Span(),
				"cannot infer type: %s is unresolved", resolved))
			return true
		}
		return true
	})
	return diags
}
