package infer

import (
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/symbols"
	"github.com/cinderlang/cinder/internal/types"
)

// Constraint is a required equality between two types, generated while
// walking expressions and discharged by the solver. Span and Reason feed
// diagnostic rendering when the solver cannot discharge it.
type Constraint struct {
	Left   types.Type
	Right  types.Type
	Span   source.Span
	Reason string
}

// Context holds the state for one inference pass: the variable allocator,
// the accumulated constraints and the global substitution. Using a context
// value instead of global state keeps variable ids predictable in tests and
// lets independent units infer in parallel.
type Context struct {
	counter     types.VarID
	constraints []Constraint
	subst       types.Subst
	table       *symbols.Table

	// defaults maps literal-origin variables to the type they take when
	// nothing else constrains them: i32 for integer literals, f64 for
	// float literals.
	defaults map[types.VarID]types.Type

	// currentReturn is the (possibly still unknown) return type of the
	// function body being inferred.
	currentReturn types.Type
}

// NewContext builds an inference context over a symbol table.
func NewContext(table *symbols.Table) *Context {
	return &Context{
		subst:    make(types.Subst),
		table:    table,
		defaults: make(map[types.VarID]types.Type),
	}
}

// FreshVar allocates a new inference variable. Ids are monotonic and never
// reused.
func (ctx *Context) FreshVar() types.Unknown {
	ctx.counter++
	return types.Unknown{ID: ctx.counter}
}

// freshLiteralVar allocates a variable that defaults to def when the solver
// leaves it unconstrained.
func (ctx *Context) freshLiteralVar(def types.Type) types.Unknown {
	v := ctx.FreshVar()
	ctx.defaults[v.ID] = def
	return v
}

// AddConstraint records a required equality for the solver.
func (ctx *Context) AddConstraint(left, right types.Type, span source.Span, reason string) {
	ctx.constraints = append(ctx.constraints, Constraint{Left: left, Right: right, Span: span, Reason: reason})
}

// Resolve applies the accumulated substitution to t.
func (ctx *Context) Resolve(t types.Type) types.Type {
	if t == nil {
		return nil
	}
	return t.Apply(ctx.subst)
}

// Constraints exposes the recorded constraints, for tests.
func (ctx *Context) Constraints() []Constraint { return ctx.constraints }
