package checker

import (
	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/config"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/symbols"
	"github.com/cinderlang/cinder/internal/types"
)

// TypeChecker is the direct, non-deferred checking mode: it assigns concrete
// types top-down/bottom-up without inference variables. Code that needs
// deferred resolution goes through the infer package instead; both share the
// type model and the coercion engine.
type TypeChecker struct {
	table *symbols.Table
	opts  *config.Options
	diags []*diagnostics.Diagnostic

	// currentReturn is the declared return type of the function body being
	// checked, unit when the function declares none.
	currentReturn types.Type
}

// New builds a checker over a fresh symbol table.
func New(opts *config.Options) *TypeChecker {
	return &TypeChecker{table: symbols.NewTable(), opts: opts}
}

// NewWithTable builds a checker sharing an existing table, used when the
// caller has already collected signatures.
func NewWithTable(table *symbols.Table, opts *config.Options) *TypeChecker {
	return &TypeChecker{table: table, opts: opts}
}

// Table exposes the populated symbol table for downstream phases.
func (c *TypeChecker) Table() *symbols.Table { return c.table }

// CheckProgram checks a whole program in two passes: signature collection
// first, so forward references and mutual recursion resolve, then body
// checking, which only reads the collected tables. It returns every
// diagnostic found; an empty slice means the program is well-typed.
func (c *TypeChecker) CheckProgram(program *ast.Program) []*diagnostics.Diagnostic {
	c.diags = nil
	c.collectSignatures(program)
	c.checkBodies(program)
	return c.diags
}

func (c *TypeChecker) report(d *diagnostics.Diagnostic) {
	c.diags = append(c.diags, d)
}

// collectSignatures registers every top-level function signature, struct
// field map and enum variant map before any body is checked.
func (c *TypeChecker) collectSignatures(program *ast.Program) {
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			params := make([]types.Type, len(it.Params))
			for i, p := range it.Params {
				params[i] = c.resolveAlias(p.Ty)
			}
			ret := c.resolveAlias(it.ReturnType)
			if ret == nil {
				ret = types.Primitive{Kind: types.Unit}
			}
			safety := ast.SafetySafe
			if it.Unsafe {
				safety = ast.SafetyUnsafe
			}
			sig := symbols.FunctionSignature{
				Name:     it.Name,
				Params:   params,
				Return:   ret,
				Safety:   safety,
				Realtime: it.Realtime,
				Span:     it.Span(),
			}
			if err := c.table.DefineFunction(sig); err != nil {
				c.report(diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC001, it.Span(), "%s", err))
			}
		case *ast.StructDecl:
			def := symbols.StructDef{
				Name:   it.Name,
				Fields: make(map[string]types.Type, len(it.Fields)),
				Span:   it.Span(),
			}
			for _, f := range it.Fields {
				def.Fields[f.Name] = c.resolveAlias(f.Ty)
				def.Order = append(def.Order, f.Name)
			}
			if err := c.table.DefineStruct(def); err != nil {
				c.report(diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC001, it.Span(), "%s", err))
			}
		case *ast.EnumDecl:
			def := symbols.EnumDef{
				Name:     it.Name,
				Variants: make(map[string][]types.Type, len(it.Variants)),
				Span:     it.Span(),
			}
			for _, v := range it.Variants {
				def.Variants[v.Name] = v.Payload
			}
			if err := c.table.DefineEnum(def); err != nil {
				c.report(diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC001, it.Span(), "%s", err))
			}
		case *ast.TypeAliasDecl:
			if err := c.table.DefineAlias(it.Name, it.Ty); err != nil {
				c.report(diagnostics.New(diagnostics.KindSemantic, diagnostics.ErrC001, it.Span(), "%s", err))
			}
		case *ast.ConstDecl:
			c.table.Define(symbols.Symbol{
				Name: it.Name, Type: c.resolveAlias(it.Ty), Kind: symbols.ConstSymbol, Span: it.Span(),
			})
		case *ast.StaticDecl:
			c.table.Define(symbols.Symbol{
				Name: it.Name, Type: c.resolveAlias(it.Ty), Kind: symbols.StaticSymbol,
				Mutable: it.Mutable, Span: it.Span(),
			})
		case *ast.UseDecl:
			// Module resolution happens upstream; nothing to collect.
		}
	}
}

// checkBodies is the second pass. It only reads the signature tables, never
// redefines them.
func (c *TypeChecker) checkBodies(program *ast.Program) {
	for _, item := range program.Items {
		switch it := item.(type) {
		case *ast.Function:
			c.checkFunction(it)
		case *ast.ConstDecl:
			c.checkInitializer(it.Ty, it.Value, "const "+it.Name)
		case *ast.StaticDecl:
			c.checkInitializer(it.Ty, it.Value, "static "+it.Name)
		}
	}
}

func (c *TypeChecker) checkFunction(fn *ast.Function) {
	sig, ok := c.table.LookupFunction(fn.Name)
	if !ok {
		c.report(diagnostics.Internal(fn.Span(), "signature for %s missing after collection pass", fn.Name))
		return
	}

	c.table.PushScope(symbols.ScopeFunction)
	defer c.table.PopScope()

	for i, p := range fn.Params {
		c.table.Define(symbols.Symbol{
			Name: p.Name, Type: sig.Params[i], Kind: symbols.VariableSymbol, Mutable: false, Span: p.Loc,
		})
	}

	prevReturn := c.currentReturn
	c.currentReturn = sig.Return
	c.checkBlock(fn.Body)
	c.currentReturn = prevReturn
}

func (c *TypeChecker) checkInitializer(declared types.Type, value ast.Expr, what string) {
	if value == nil {
		return
	}
	got, d := c.checkExpr(value)
	if d != nil {
		c.report(d)
		return
	}
	if !c.compatible(declared, got) {
		c.report(diagnostics.New(diagnostics.KindType, diagnostics.ErrT001, value.Span(),
			"%s declared as %s but initialized with %s", what, declared, got))
	}
}

func (c *TypeChecker) resolveAlias(t types.Type) types.Type {
	switch tt := t.(type) {
	case types.Struct:
		if target, ok := c.table.ResolveAlias(tt.Name); ok {
			return target
		}
	case types.Enum:
		if target, ok := c.table.ResolveAlias(tt.Name); ok {
			return target
		}
	}
	return t
}

// compatible is the call-site compatibility rule: structural equality, or an
// explicit widening through the coercion engine.
func (c *TypeChecker) compatible(want, got types.Type) bool {
	if want == nil {
		return true
	}
	return types.Equal(want, got) || types.CanCoerce(got, want)
}
