package checker

import (
	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/types"
)

// checkExpr dispatches on the expression kind and returns its concrete type,
// annotating the node. A failure anywhere in the subtree is returned
// immediately; there is no silent recovery inside a single expression walk.
func (c *TypeChecker) checkExpr(expr ast.Expr) (types.Type, *diagnostics.Diagnostic) {
	t, d := c.checkExprInner(expr)
	if d != nil {
		return nil, d
	}
	expr.SetType(t)
	return t, nil
}

func (c *TypeChecker) checkExprInner(expr ast.Expr) (types.Type, *diagnostics.Diagnostic) {
	switch e := expr.(type) {
	case *ast.IntLit:
		// The direct mode has no deferred variables: integer literals
		// default to i32, the way already-concrete code reads them.
		return types.Primitive{Kind: types.I32}, nil
	case *ast.FloatLit:
		return types.Primitive{Kind: types.F64}, nil
	case *ast.BoolLit:
		return types.Primitive{Kind: types.Bool}, nil
	case *ast.StringLit:
		return types.Primitive{Kind: types.Str}, nil
	case *ast.CharLit:
		return types.Primitive{Kind: types.Char}, nil
	case *ast.UnitLit:
		return unit, nil

	case *ast.Ident:
		if sym, ok := c.table.Lookup(e.Name); ok {
			return sym.Type, nil
		}
		if sig, ok := c.table.LookupFunction(e.Name); ok {
			return types.Function{Params: sig.Params, Return: sig.Return}, nil
		}
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT003, e.Span(),
			"undefined variable %s", e.Name)

	case *ast.Binary:
		return c.checkBinary(e)

	case *ast.Unary:
		return c.checkUnary(e)

	case *ast.Call:
		return c.checkCall(e)

	case *ast.If:
		return c.checkIf(e)

	case *ast.Match:
		return c.checkMatch(e)

	case *ast.StructLit:
		return c.checkStructLit(e)

	case *ast.FieldAccess:
		objType, d := c.checkExpr(e.Object)
		if d != nil {
			return nil, d
		}
		st, ok := objType.(types.Struct)
		if !ok {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, e.Span(),
				"cannot access field %s on non-struct type %s", e.Field, objType)
		}
		ft, err := c.table.FieldType(st.Name, e.Field)
		if err != nil {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, e.Span(), "%s", err)
		}
		return ft, nil

	case *ast.Index:
		return c.checkIndex(e)

	case *ast.ArrayLit:
		if len(e.Elems) == 0 {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, e.Span(),
				"cannot determine element type of an empty array literal")
		}
		elemTypes := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, d := c.checkExpr(el)
			if d != nil {
				return nil, d
			}
			elemTypes[i] = t
		}
		elem, err := types.FindCommonType(elemTypes, e.Span())
		if err != nil {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT007, e.Span(),
				"array elements have no common type: %s", err)
		}
		return types.Array{Elem: elem, Size: len(e.Elems)}, nil

	case *ast.TupleLit:
		elems := make([]types.Type, len(e.Elems))
		for i, el := range e.Elems {
			t, d := c.checkExpr(el)
			if d != nil {
				return nil, d
			}
			elems[i] = t
		}
		return types.Tuple{Elems: elems}, nil

	case *ast.Path:
		payload, err := c.table.VariantPayload(e.EnumName, e.Variant)
		if err != nil {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, e.Span(), "%s", err)
		}
		if len(payload) == 0 {
			return types.Enum{Name: e.EnumName}, nil
		}
		// A payload-carrying variant in value position is its constructor.
		return types.Function{Params: payload, Return: types.Enum{Name: e.EnumName}}, nil

	case *ast.BlockExpr:
		c.checkBlock(e.Body)
		if e.Tail == nil {
			return unit, nil
		}
		return c.checkExpr(e.Tail)
	}

	return nil, diagnostics.Internal(expr.Span(), "unhandled expression %T", expr)
}

// checkBinary enforces the direct mode's operand policy: arithmetic and
// comparison need numeric operands, logical operators need bool, and both
// operands must be structurally compatible. Widening never happens here.
func (c *TypeChecker) checkBinary(e *ast.Binary) (types.Type, *diagnostics.Diagnostic) {
	left, d := c.checkExpr(e.Left)
	if d != nil {
		return nil, d
	}
	right, d := c.checkExpr(e.Right)
	if d != nil {
		return nil, d
	}

	boolType := types.Primitive{Kind: types.Bool}

	if e.Op.IsLogical() {
		if !types.Equal(left, boolType) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Left.Span(),
				"operator %s requires bool operands, got %s", e.Op, left)
		}
		if !types.Equal(right, boolType) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Right.Span(),
				"operator %s requires bool operands, got %s", e.Op, right)
		}
		return boolType, nil
	}

	if !isNumeric(left) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Left.Span(),
			"operator %s requires numeric operands, got %s", e.Op, left)
	}
	if !isNumeric(right) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Right.Span(),
			"operator %s requires numeric operands, got %s", e.Op, right)
	}
	if !types.Equal(left, right) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, e.Span(),
			"mismatched operands for %s: %s vs %s", e.Op, left, right)
	}
	if e.Op.IsComparison() {
		return boolType, nil
	}
	return left, nil
}

func (c *TypeChecker) checkUnary(e *ast.Unary) (types.Type, *diagnostics.Diagnostic) {
	operand, d := c.checkExpr(e.Operand)
	if d != nil {
		return nil, d
	}

	switch e.Op {
	case ast.OpNeg:
		if !isNumeric(operand) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Span(),
				"cannot negate non-numeric type %s", operand)
		}
		return operand, nil
	case ast.OpNot:
		if !types.Equal(operand, types.Primitive{Kind: types.Bool}) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Span(),
				"operator ! requires bool, got %s", operand)
		}
		return operand, nil
	case ast.OpDeref:
		switch t := operand.(type) {
		case types.Reference:
			return t.Target, nil
		case types.Pointer:
			return t.Target, nil
		}
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Span(),
			"cannot dereference non-pointer type %s", operand)
	case ast.OpRef:
		return types.Reference{Target: operand, Mutable: false}, nil
	case ast.OpRefMut:
		return types.Reference{Target: operand, Mutable: true}, nil
	}

	return nil, diagnostics.Internal(e.Span(), "unhandled unary operator %d", e.Op)
}

// checkCall validates arity exactly and each argument's compatibility, where
// compatibility is structural equality or an explicit coercion at the
// argument-binding site.
func (c *TypeChecker) checkCall(e *ast.Call) (types.Type, *diagnostics.Diagnostic) {
	var params []types.Type
	var ret types.Type
	var name string

	if ident, ok := e.Callee.(*ast.Ident); ok {
		if sig, found := c.table.LookupFunction(ident.Name); found {
			params, ret, name = sig.Params, sig.Return, ident.Name
			ident.SetType(types.Function{Params: params, Return: ret})
		} else if sym, found := c.table.Lookup(ident.Name); found {
			fn, isFn := sym.Type.(types.Function)
			if !isFn {
				return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Callee.Span(),
					"%s is not callable: %s", ident.Name, sym.Type)
			}
			params, ret, name = fn.Params, fn.Return, ident.Name
			ident.SetType(fn)
		} else {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT004, e.Callee.Span(),
				"undefined function %s", ident.Name)
		}
	} else {
		calleeType, d := c.checkExpr(e.Callee)
		if d != nil {
			return nil, d
		}
		fn, isFn := calleeType.(types.Function)
		if !isFn {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Callee.Span(),
				"expression of type %s is not callable", calleeType)
		}
		params, ret, name = fn.Params, fn.Return, "function value"
	}

	if len(e.Args) != len(params) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT002, e.Span(),
			"function %s expects %d arguments, got %d", name, len(params), len(e.Args))
	}

	for i, arg := range e.Args {
		got, d := c.checkExpr(arg)
		if d != nil {
			return nil, d
		}
		if types.Equal(params[i], got) {
			continue
		}
		if _, err := types.TryCoerce(got, params[i], arg.Span()); err != nil {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, arg.Span(),
				"argument %d of %s: expected %s, got %s", i+1, name, params[i], got)
		}
	}

	return ret, nil
}

// checkIf: without an else the expression is unit; with both branches their
// types must share a common type, which becomes the result.
func (c *TypeChecker) checkIf(e *ast.If) (types.Type, *diagnostics.Diagnostic) {
	cond, d := c.checkExpr(e.Cond)
	if d != nil {
		return nil, d
	}
	if !types.Equal(cond, types.Primitive{Kind: types.Bool}) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Cond.Span(),
			"if condition must be bool, got %s", cond)
	}

	thenType := c.checkBlock(e.Then)
	if e.Else == nil {
		return unit, nil
	}
	elseType := c.checkBlock(e.Else)

	common, err := types.FindCommonType([]types.Type{thenType, elseType}, e.Span())
	if err != nil {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT007, e.Span(),
			"if and else branches are incompatible: %s vs %s", thenType, elseType)
	}
	return common, nil
}

func (c *TypeChecker) checkMatch(e *ast.Match) (types.Type, *diagnostics.Diagnostic) {
	subject, d := c.checkExpr(e.Subject)
	if d != nil {
		return nil, d
	}

	armTypes := make([]types.Type, 0, len(e.Arms))
	for _, arm := range e.Arms {
		if arm.Pattern != nil {
			pt, d := c.checkExpr(arm.Pattern)
			if d != nil {
				return nil, d
			}
			if !c.compatible(subject, pt) {
				return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, arm.Pattern.Span(),
					"pattern type %s does not match subject type %s", pt, subject)
			}
		}
		bt, d := c.checkExpr(arm.Body)
		if d != nil {
			return nil, d
		}
		armTypes = append(armTypes, bt)
	}

	if len(armTypes) == 0 {
		return unit, nil
	}
	common, err := types.FindCommonType(armTypes, e.Span())
	if err != nil {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT007, e.Span(),
			"match arms have no common type: %s", err)
	}
	return common, nil
}

func (c *TypeChecker) checkStructLit(e *ast.StructLit) (types.Type, *diagnostics.Diagnostic) {
	def, ok := c.table.LookupStruct(e.Name)
	if !ok {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, e.Span(),
			"unknown struct %s", e.Name)
	}

	seen := make(map[string]bool, len(e.Fields))
	for _, f := range e.Fields {
		want, exists := def.Fields[f.Name]
		if !exists {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, f.Loc,
				"struct %s has no field %s", e.Name, f.Name)
		}
		got, d := c.checkExpr(f.Value)
		if d != nil {
			return nil, d
		}
		if !c.compatible(want, got) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, f.Value.Span(),
				"field %s of %s: expected %s, got %s", f.Name, e.Name, want, got)
		}
		seen[f.Name] = true
	}
	for _, name := range def.Order {
		if !seen[name] {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT005, e.Span(),
				"missing field %s in struct literal %s", name, e.Name)
		}
	}
	return types.Struct{Name: e.Name}, nil
}

func (c *TypeChecker) checkIndex(e *ast.Index) (types.Type, *diagnostics.Diagnostic) {
	objType, d := c.checkExpr(e.Object)
	if d != nil {
		return nil, d
	}
	idxType, d := c.checkExpr(e.Pos)
	if d != nil {
		return nil, d
	}
	if !isInteger(idxType) {
		return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Pos.Span(),
			"index must be an integer, got %s", idxType)
	}
	switch t := objType.(type) {
	case types.Array:
		return t.Elem, nil
	case types.Slice:
		return t.Elem, nil
	}
	return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, e.Span(),
		"cannot index non-array type %s", objType)
}

func isNumeric(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Kind.IsNumeric()
}

func isInteger(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Kind.IsInteger()
}
