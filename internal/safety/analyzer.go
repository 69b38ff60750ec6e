package safety

import (
	"fmt"

	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/config"
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/types"
)

// AllocationID identifies a heap allocation site. Ids are opaque counters;
// the matching between allocation and release calls is deliberately
// name-based and approximate: a release closes some pending allocation, not
// a specific one.
type AllocationID int

// ResourceID identifies an external resource acquisition.
type ResourceID int

// VarState is the per-binding safety state machine:
// Uninitialized -> Initialized -> optionally Moved -> Initialized again on
// re-assignment.
type VarState struct {
	Initialized bool
	Moved       bool
	Borrowed    bool
	DeclSpan    source.Span
}

type pendingAlloc struct {
	id   AllocationID
	span source.Span
	name string
}

type pendingResource struct {
	id   ResourceID
	span source.Span
	name string
}

// Analyzer performs a single left-to-right pre-order walk over the AST per
// function, independent of and after type checking. It tracks per-variable
// initialization, move and borrow state, pending allocations and resources,
// and call-stack depth, collecting violations without ever aborting the
// walk: a useful safety report enumerates everything it can find.
type Analyzer struct {
	opts  *config.Options
	funcs map[string]*ast.Function

	violations []Violation

	// scopes is the per-function stack of binding frames, innermost last.
	scopes []map[string]*VarState

	callStack []string

	nextAlloc        AllocationID
	nextResource     ResourceID
	pendingAllocs    []pendingAlloc
	pendingResources []pendingResource

	unsafeDepth int
	realtime    bool
}

// New builds an analyzer with the given options.
func New(opts *config.Options) *Analyzer {
	if opts == nil {
		opts = config.Default()
	}
	return &Analyzer{opts: opts, funcs: make(map[string]*ast.Function)}
}

// Analyze walks every function in the program and returns the collected
// violations. Still-pending allocations and resources become leak
// violations at program end.
func (a *Analyzer) Analyze(program *ast.Program) []Violation {
	for _, item := range program.Items {
		if fn, ok := item.(*ast.Function); ok {
			a.funcs[fn.Name] = fn
		}
	}

	for _, item := range program.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		a.analyzeFunction(fn)
	}

	for _, p := range a.pendingAllocs {
		a.record(Violation{
			Kind: MemoryLeak, Span: p.span, Subject: p.name,
			Detail: fmt.Sprintf("allocation #%d from %s is never freed", p.id, p.name),
		})
	}
	for _, p := range a.pendingResources {
		a.record(Violation{
			Kind: ResourceLeak, Span: p.span, Subject: p.name,
			Detail: fmt.Sprintf("resource #%d from %s is never released", p.id, p.name),
		})
	}

	return a.violations
}

// Violations returns what has been collected so far.
func (a *Analyzer) Violations() []Violation { return a.violations }

func (a *Analyzer) record(v Violation) {
	a.violations = append(a.violations, v)
}

// analyzeFunction analyzes one body in a fresh per-function context: the
// binding frames and the call stack are local and discarded at body end.
// Pending allocations survive across functions for the program-end check.
func (a *Analyzer) analyzeFunction(fn *ast.Function) {
	savedScopes, savedStack := a.scopes, a.callStack
	savedUnsafe, savedRealtime := a.unsafeDepth, a.realtime
	defer func() {
		a.scopes, a.callStack = savedScopes, savedStack
		a.unsafeDepth, a.realtime = savedUnsafe, savedRealtime
	}()

	a.scopes = []map[string]*VarState{make(map[string]*VarState)}
	a.callStack = []string{fn.Name}
	a.realtime = fn.Realtime
	a.unsafeDepth = 0
	if fn.Unsafe {
		a.unsafeDepth = 1
	}

	for _, p := range fn.Params {
		a.scopes[0][p.Name] = &VarState{Initialized: true, DeclSpan: p.Loc}
	}

	a.analyzeBody(fn.Body)
}

// analyzeBody runs the statements of an already-entered function body.
func (a *Analyzer) analyzeBody(body *ast.Block) {
	if body == nil {
		return
	}
	if body.Unsafe {
		a.unsafeDepth++
		defer func() { a.unsafeDepth-- }()
	}
	for _, stmt := range body.Stmts {
		a.analyzeStmt(stmt)
	}
}

// enterBlock snapshots the current frames. Exiting restores the snapshot and
// merges back only the borrow flag: initialization and move state inside a
// child scope never leak into the parent.
func (a *Analyzer) enterBlock() []map[string]*VarState {
	snapshot := make([]map[string]*VarState, len(a.scopes))
	for i, frame := range a.scopes {
		copied := make(map[string]*VarState, len(frame))
		for name, st := range frame {
			dup := *st
			copied[name] = &dup
		}
		snapshot[i] = copied
	}
	a.scopes = append(a.scopes, make(map[string]*VarState))
	return snapshot
}

func (a *Analyzer) exitBlock(snapshot []map[string]*VarState) {
	for i, frame := range snapshot {
		for name, st := range frame {
			if cur, ok := a.scopes[i][name]; ok {
				st.Borrowed = cur.Borrowed
			}
		}
	}
	a.scopes = snapshot
}

func (a *Analyzer) lookup(name string) (*VarState, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if st, ok := a.scopes[i][name]; ok {
			return st, true
		}
	}
	return nil, false
}

func (a *Analyzer) define(name string, st *VarState) {
	a.scopes[len(a.scopes)-1][name] = st
}

func (a *Analyzer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if s.Value != nil {
			a.analyzeExpr(s.Value, true)
		}
		a.define(s.Name, &VarState{Initialized: s.Value != nil, DeclSpan: s.Span()})

	case *ast.AssignStmt:
		a.analyzeExpr(s.Value, true)
		if st, ok := a.lookup(s.Target.Name); ok {
			// Re-assignment re-initializes and clears a prior move.
			st.Initialized = true
			st.Moved = false
		}

	case *ast.ExprStmt:
		a.analyzeExpr(s.Value, false)

	case *ast.ReturnStmt:
		if s.Value != nil {
			a.analyzeExpr(s.Value, true)
		}

	case *ast.WhileStmt:
		a.analyzeExpr(s.Cond, false)
		a.analyzeBlock(s.Body)

	case *ast.Block:
		a.analyzeBlock(s)
	}
}

func (a *Analyzer) analyzeBlock(block *ast.Block) {
	if block == nil {
		return
	}
	if block.Unsafe {
		a.unsafeDepth++
		defer func() { a.unsafeDepth-- }()
	}
	snapshot := a.enterBlock()
	for _, stmt := range block.Stmts {
		a.analyzeStmt(stmt)
	}
	a.exitBlock(snapshot)
}

// analyzeExpr walks an expression left to right. moveContext marks positions
// with move semantics: binding initializers, assignment sources, return
// values and call arguments.
func (a *Analyzer) analyzeExpr(expr ast.Expr, moveContext bool) {
	switch e := expr.(type) {
	case *ast.Ident:
		a.readVariable(e, moveContext)

	case *ast.Binary:
		a.analyzeExpr(e.Left, false)
		a.analyzeExpr(e.Right, false)

	case *ast.Unary:
		a.analyzeUnary(e)

	case *ast.Call:
		a.analyzeCall(e)

	case *ast.If:
		a.analyzeExpr(e.Cond, false)
		a.analyzeBlock(e.Then)
		a.analyzeBlock(e.Else)

	case *ast.Match:
		a.analyzeExpr(e.Subject, false)
		for _, arm := range e.Arms {
			a.analyzeExpr(arm.Body, moveContext)
		}

	case *ast.StructLit:
		for _, f := range e.Fields {
			a.analyzeExpr(f.Value, true)
		}

	case *ast.FieldAccess:
		a.analyzeExpr(e.Object, false)

	case *ast.Index:
		a.analyzeIndex(e)

	case *ast.ArrayLit:
		for _, el := range e.Elems {
			a.analyzeExpr(el, true)
		}

	case *ast.TupleLit:
		for _, el := range e.Elems {
			a.analyzeExpr(el, true)
		}

	case *ast.BlockExpr:
		a.analyzeBlock(e.Body)
		if e.Tail != nil {
			a.analyzeExpr(e.Tail, moveContext)
		}
	}
}

// readVariable checks the state machine on every read. Reading while
// uninitialized or moved is a violation, but the variable is left in place
// and the walk continues.
func (a *Analyzer) readVariable(e *ast.Ident, moveContext bool) {
	st, ok := a.lookup(e.Name)
	if !ok {
		// Globals, consts and function references are not tracked.
		return
	}
	switch {
	case !st.Initialized:
		a.record(Violation{
			Kind: UninitializedVariable, Span: e.Span(), Subject: e.Name,
			Detail: fmt.Sprintf("%s is read before initialization", e.Name),
		})
	case st.Moved:
		a.record(Violation{
			Kind: UseAfterMove, Span: e.Span(), Subject: e.Name,
			Detail: fmt.Sprintf("%s is used after being moved", e.Name),
		})
	default:
		if moveContext && isMoveType(e.Type()) {
			st.Moved = true
		}
	}
}

// isMoveType reports whether a value of type t has move semantics. Copy
// types (primitives and references) never move. An untyped expression is
// treated as copy: the analyzer stays conservative when it runs without
// type information.
func isMoveType(t types.Type) bool {
	switch t.(type) {
	case types.Struct, types.Enum, types.Tuple, types.Array, types.Slice:
		return true
	}
	return false
}

func (a *Analyzer) analyzeUnary(e *ast.Unary) {
	switch e.Op {
	case ast.OpRef, ast.OpRefMut:
		if ident, ok := e.Operand.(*ast.Ident); ok {
			if st, found := a.lookup(ident.Name); found {
				if st.Borrowed {
					// Shared and exclusive borrows are not distinguished
					// yet; overlapping borrows report a potential race.
					a.record(Violation{
						Kind: DataRace, Span: e.Span(), Subject: ident.Name,
						Detail: fmt.Sprintf("%s is borrowed while already borrowed", ident.Name),
					})
				}
				st.Borrowed = true
			}
			return
		}
		a.analyzeExpr(e.Operand, false)

	case ast.OpDeref:
		a.analyzeExpr(e.Operand, false)
		if _, isPtr := e.Operand.Type().(types.Pointer); isPtr && a.unsafeDepth == 0 {
			a.record(Violation{
				Kind: NullPointerDereference, Span: e.Span(),
				Detail: "raw pointer dereferenced outside an unsafe block",
			})
		}

	default:
		a.analyzeExpr(e.Operand, false)
	}
}

func (a *Analyzer) analyzeIndex(e *ast.Index) {
	a.analyzeExpr(e.Object, false)
	a.analyzeExpr(e.Pos, false)

	arr, isArray := e.Object.Type().(types.Array)
	lit, isConst := e.Pos.(*ast.IntLit)
	if isArray && isConst && (lit.Value < 0 || lit.Value >= int64(arr.Size)) {
		a.record(Violation{
			Kind: BufferOverflow, Span: e.Span(),
			Detail: fmt.Sprintf("index %d out of bounds for array of length %d", lit.Value, arr.Size),
		})
	}
}
