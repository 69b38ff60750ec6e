package checker

import (
	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/symbols"
	"github.com/cinderlang/cinder/internal/types"
)

var unit = types.Primitive{Kind: types.Unit}

// checkBlock checks every statement in its own scope frame and returns the
// block's value type: the value of a trailing expression statement, unit
// otherwise. Statement-level failures are recorded and checking continues
// with the next statement, so one bad line does not hide the rest.
func (c *TypeChecker) checkBlock(block *ast.Block) types.Type {
	if block == nil {
		return unit
	}
	c.table.PushScope(symbols.ScopeBlock)
	defer c.table.PopScope()

	result := types.Type(unit)
	for i, stmt := range block.Stmts {
		t, d := c.checkStmt(stmt)
		if d != nil {
			c.report(d)
			continue
		}
		if i == len(block.Stmts)-1 {
			result = t
		}
	}
	return result
}

// checkStmt returns the statement's value type (unit for everything except
// a trailing expression statement) or the first failure in its walk.
func (c *TypeChecker) checkStmt(stmt ast.Stmt) (types.Type, *diagnostics.Diagnostic) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		return unit, c.checkLet(s)

	case *ast.AssignStmt:
		return unit, c.checkAssign(s)

	case *ast.ExprStmt:
		t, d := c.checkExpr(s.Value)
		if d != nil {
			return nil, d
		}
		return t, nil

	case *ast.ReturnStmt:
		want := c.currentReturn
		if s.Value == nil {
			if !types.Equal(want, unit) {
				return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, s.Span(),
					"return without a value in a function returning %s", want)
			}
			return unit, nil
		}
		got, d := c.checkExpr(s.Value)
		if d != nil {
			return nil, d
		}
		if !c.compatible(want, got) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, s.Value.Span(),
				"cannot return %s from a function returning %s", got, want)
		}
		return unit, nil

	case *ast.WhileStmt:
		cond, d := c.checkExpr(s.Cond)
		if d != nil {
			return nil, d
		}
		if !types.Equal(cond, types.Primitive{Kind: types.Bool}) {
			return nil, diagnostics.New(diagnostics.KindType, diagnostics.ErrT008, s.Cond.Span(),
				"while condition must be bool, got %s", cond)
		}
		c.checkBlock(s.Body)
		return unit, nil

	case *ast.Block:
		c.checkBlock(s)
		return unit, nil
	}

	return nil, diagnostics.Internal(stmt.Span(), "unhandled statement %T", stmt)
}

func (c *TypeChecker) checkLet(s *ast.LetStmt) *diagnostics.Diagnostic {
	declared := c.resolveAlias(s.Ty)

	var valueType types.Type
	if s.Value != nil {
		t, d := c.checkExpr(s.Value)
		if d != nil {
			return d
		}
		valueType = t
	}

	bound := declared
	switch {
	case declared != nil && valueType != nil:
		if !c.compatible(declared, valueType) {
			return diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, s.Value.Span(),
				"cannot initialize %s: %s with a value of type %s", s.Name, declared, valueType)
		}
	case declared == nil && valueType != nil:
		bound = valueType
	case declared == nil && valueType == nil:
		return diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, s.Span(),
			"cannot determine type of %s without an initializer or annotation", s.Name)
	}

	c.table.Define(symbols.Symbol{
		Name: s.Name, Type: bound, Kind: symbols.VariableSymbol, Mutable: s.Mutable, Span: s.Span(),
	})
	return nil
}

// checkAssign requires a declared, in-scope, mutable target and a compatible
// value. Assignment is always well-typed as unit.
func (c *TypeChecker) checkAssign(s *ast.AssignStmt) *diagnostics.Diagnostic {
	sym, ok := c.table.Lookup(s.Target.Name)
	if !ok {
		return diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC002, s.Target.Span(),
			"cannot assign to undeclared variable %s", s.Target.Name)
	}
	if sym.Kind == symbols.ConstSymbol {
		return diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC002, s.Target.Span(),
			"cannot assign to constant %s", s.Target.Name)
	}
	if !sym.Mutable {
		return diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC002, s.Target.Span(),
			"cannot assign to immutable variable %s", s.Target.Name)
	}
	got, d := c.checkExpr(s.Value)
	if d != nil {
		return d
	}
	if !c.compatible(sym.Type, got) {
		return diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, s.Value.Span(),
			"cannot assign %s to %s: %s", got, s.Target.Name, sym.Type)
	}
	s.Target.SetType(sym.Type)
	return nil
}
