package pipeline

import (
	"github.com/cinderlang/cinder/internal/checker"
	"github.com/cinderlang/cinder/internal/infer"
	"github.com/cinderlang/cinder/internal/safety"
	"github.com/cinderlang/cinder/internal/symbols"
)

// CheckProcessor runs the direct type checker: signature collection, then
// body checking against the collected tables.
type CheckProcessor struct{}

func (cp *CheckProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil {
		return ctx
	}
	tc := checker.New(ctx.Options)
	ctx.Collector.AddAll(tc.CheckProgram(ctx.Program))
	ctx.Table = tc.Table()
	return ctx
}

// InferProcessor runs constraint-based inference instead of the direct
// checker, for programs whose expressions need deferred resolution.
type InferProcessor struct{}

func (ip *InferProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil {
		return ctx
	}
	table := symbols.NewTable()
	ictx := infer.NewContext(table)
	ctx.Collector.AddAll(ictx.InferProgram(ctx.Program))
	ctx.Table = table
	return ctx
}

// SafetyProcessor runs the safety analyzer after type checking. Violations
// are kept as their own report and mirrored into the diagnostics collector.
type SafetyProcessor struct{}

func (sp *SafetyProcessor) Process(ctx *Context) *Context {
	if ctx.Program == nil || !ctx.Options.SafetyAnalysis {
		return ctx
	}
	analyzer := safety.New(ctx.Options)
	ctx.Violations = analyzer.Analyze(ctx.Program)
	for _, v := range ctx.Violations {
		ctx.Collector.Add(v.Diagnostic())
	}
	return ctx
}

// Default wires the fixed phase order: type checking, then safety analysis.
func Default() *Pipeline {
	return New(&CheckProcessor{}, &SafetyProcessor{})
}
