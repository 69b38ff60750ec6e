package safety

import (
	"fmt"

	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/config"
)

// analyzeCall handles the call-shaped parts of the analysis: the
// allocation, release, resource, unsafe and blocking vocabularies, and
// call-depth tracking into known function bodies.
func (a *Analyzer) analyzeCall(e *ast.Call) {
	for _, arg := range e.Args {
		a.analyzeExpr(arg, true)
	}

	ident, ok := e.Callee.(*ast.Ident)
	if !ok {
		a.analyzeExpr(e.Callee, false)
		return
	}
	name := ident.Name

	switch {
	case config.Contains(config.AllocationFuncs, name):
		a.nextAlloc++
		a.pendingAllocs = append(a.pendingAllocs, pendingAlloc{id: a.nextAlloc, span: e.Span(), name: name})
		return

	case config.Contains(config.ReleaseFuncs, name):
		// Conservative matching: close out the earliest pending
		// allocation rather than correlating provenance.
		if len(a.pendingAllocs) > 0 {
			a.pendingAllocs = a.pendingAllocs[1:]
		}
		return

	case config.Contains(config.AcquireFuncs, name):
		a.nextResource++
		a.pendingResources = append(a.pendingResources, pendingResource{id: a.nextResource, span: e.Span(), name: name})
		return

	case config.Contains(config.DisposeFuncs, name):
		if len(a.pendingResources) > 0 {
			a.pendingResources = a.pendingResources[1:]
		}
		return

	case config.Contains(config.UnsafeFuncs, name):
		if a.unsafeDepth == 0 {
			a.record(Violation{
				Kind: UnsafeOperation, Span: e.Span(), Subject: name,
				Detail: fmt.Sprintf("%s requires an unsafe block", name),
			})
		}
		return
	}

	if a.realtime && config.Contains(config.BlockingFuncs, name) {
		a.record(Violation{
			Kind: RealtimeViolation, Span: e.Span(), Subject: name,
			Detail: fmt.Sprintf("%s may block inside a realtime function", name),
		})
		return
	}

	if callee, known := a.funcs[name]; known {
		a.descendInto(callee, e)
	}
}

// descendInto follows a call edge into a known function body, tracking call
// depth. Reaching the configured ceiling reports StackOverflow for the
// callee and does not recurse further: a fail-safe against unbounded and
// literally-recursive definitions, not a soundness guarantee.
func (a *Analyzer) descendInto(callee *ast.Function, site *ast.Call) {
	if len(a.callStack) >= a.opts.MaxCallDepth {
		a.record(Violation{
			Kind: StackOverflow, Span: site.Span(), Subject: callee.Name,
			Detail: fmt.Sprintf("call depth reached %d analyzing %s", a.opts.MaxCallDepth, callee.Name),
		})
		return
	}

	a.callStack = append(a.callStack, callee.Name)

	savedScopes := a.scopes
	savedUnsafe, savedRealtime := a.unsafeDepth, a.realtime

	a.scopes = []map[string]*VarState{make(map[string]*VarState)}
	for _, p := range callee.Params {
		a.scopes[0][p.Name] = &VarState{Initialized: true, DeclSpan: p.Loc}
	}
	a.realtime = callee.Realtime
	a.unsafeDepth = 0
	if callee.Unsafe {
		a.unsafeDepth = 1
	}

	a.analyzeBody(callee.Body)

	a.scopes = savedScopes
	a.unsafeDepth, a.realtime = savedUnsafe, savedRealtime
	a.callStack = a.callStack[:len(a.callStack)-1]
}
