package pipeline

import (
	"testing"

	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/config"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/safety"
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/types"
)

func i32() types.Type { return types.Primitive{Kind: types.I32} }

// addProgram is fn add(a: i32, b: i32) -> i32 { return a + b; }
func addProgram() *ast.Program {
	return &ast.Program{Items: []ast.Item{
		&ast.Function{
			Name: "add",
			Params: []ast.Param{
				{Name: "a", Ty: i32()},
				{Name: "b", Ty: i32()},
			},
			ReturnType: i32(),
			Body: ast.NewBlock(&ast.ReturnStmt{
				Value: &ast.Binary{Op: ast.OpAdd, Left: &ast.Ident{Name: "a"}, Right: &ast.Ident{Name: "b"}},
			}),
		},
	}}
}

// brokenProgram reads an undefined variable and leaks an allocation, giving
// both the checker and the analyzer something to report.
func brokenProgram() *ast.Program {
	return &ast.Program{Items: []ast.Item{
		&ast.Function{
			Name: "main",
			Body: ast.NewBlock(
				&ast.ExprStmt{Value: &ast.Ident{Name: "ghost"}},
				&ast.ExprStmt{Value: &ast.Call{Callee: &ast.Ident{Name: "malloc"}, Args: []ast.Expr{&ast.IntLit{Value: 8}}}},
			),
		},
	}}
}

func TestPipelineEndToEnd(t *testing.T) {
	file := source.NewFile("add.cn", "fn add(a: i32, b: i32) -> i32 { return a + b; }\n")
	ctx := NewContext(file, addProgram(), nil)
	ctx = Default().Run(ctx)

	if !ctx.Succeeded() {
		t.Fatalf("expected success, got %v", ctx.Collector.Diagnostics())
	}
	if ctx.Table == nil {
		t.Fatal("pipeline should publish the symbol table")
	}
	if _, ok := ctx.Table.LookupFunction("add"); !ok {
		t.Fatal("add signature missing from the published table")
	}
	if len(ctx.Violations) != 0 {
		t.Fatalf("expected no violations, got %v", ctx.Violations)
	}
}

func TestPipelineCollectsAllPhases(t *testing.T) {
	ctx := NewContext(nil, brokenProgram(), nil)
	ctx = Default().Run(ctx)

	if ctx.Succeeded() {
		t.Fatal("expected failure")
	}
	var sawType, sawSafety bool
	for _, d := range ctx.Collector.Diagnostics() {
		switch d.Kind {
		case diagnostics.KindType:
			sawType = true
		case diagnostics.KindSafety:
			sawSafety = true
		}
	}
	if !sawType || !sawSafety {
		t.Fatalf("expected both phases to report, got %v", ctx.Collector.Diagnostics())
	}
	if len(ctx.Violations) != 1 || ctx.Violations[0].Kind != safety.MemoryLeak {
		t.Fatalf("expected one memory leak in the safety report, got %v", ctx.Violations)
	}
}

func TestStrictModeAbortsAtPhaseBoundary(t *testing.T) {
	opts := config.Default()
	opts.StrictMode = true
	ctx := NewContext(nil, brokenProgram(), opts)
	ctx = Default().Run(ctx)

	if ctx.Succeeded() {
		t.Fatal("expected failure")
	}
	// The checker error stops the pipeline before the safety phase.
	if len(ctx.Violations) != 0 {
		t.Fatalf("strict mode must skip the safety phase, got %v", ctx.Violations)
	}
	for _, d := range ctx.Collector.Diagnostics() {
		if d.Kind == diagnostics.KindSafety {
			t.Fatalf("no safety diagnostics expected, got %v", d)
		}
	}
}

func TestSafetyAnalysisCanBeDisabled(t *testing.T) {
	opts := config.Default()
	opts.SafetyAnalysis = false
	ctx := NewContext(nil, brokenProgram(), opts)
	ctx = Default().Run(ctx)

	if len(ctx.Violations) != 0 {
		t.Fatalf("disabled analyzer must not report, got %v", ctx.Violations)
	}
}

func TestInferProcessorReplacesChecker(t *testing.T) {
	ctx := NewContext(nil, addProgram(), nil)
	ctx = New(&InferProcessor{}, &SafetyProcessor{}).Run(ctx)

	if !ctx.Succeeded() {
		t.Fatalf("expected success, got %v", ctx.Collector.Diagnostics())
	}
	if _, ok := ctx.Table.LookupFunction("add"); !ok {
		t.Fatal("add signature missing from the published table")
	}
}

func TestCompilationIDsAreDistinct(t *testing.T) {
	a := NewContext(nil, addProgram(), nil)
	b := NewContext(nil, addProgram(), nil)
	if a.CompilationID == b.CompilationID {
		t.Fatal("each compilation unit must get its own id")
	}
}

func TestNilProgramIsANoOp(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	ctx = Default().Run(ctx)
	if !ctx.Succeeded() {
		t.Fatalf("nil program should pass through, got %v", ctx.Collector.Diagnostics())
	}
}
