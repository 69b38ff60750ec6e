package pipeline

import (
	"github.com/google/uuid"

	"github.com/cinderlang/cinder/internal/ast"
	"github.com/cinderlang/cinder/internal/config"
	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/safety"
	"github.com/cinderlang/cinder/internal/source"
	"github.com/cinderlang/cinder/internal/symbols"
)

// Context carries one compilation unit through the semantic phases: the
// parsed program, the original source text for diagnostic rendering, the
// symbol tables, the collected diagnostics and the safety report.
type Context struct {
	// CompilationID tags this unit so internal-error reports from
	// concurrent compilations can be told apart.
	CompilationID uuid.UUID

	File    *source.File
	Program *ast.Program
	Options *config.Options

	Table      *symbols.Table
	Collector  *diagnostics.Collector
	Violations []safety.Violation
}

// NewContext builds a context for one parsed unit.
func NewContext(file *source.File, program *ast.Program, opts *config.Options) *Context {
	if opts == nil {
		opts = config.Default()
	}
	return &Context{
		CompilationID: uuid.New(),
		File:          file,
		Program:       program,
		Options:       opts,
		Collector:     diagnostics.NewCollector(opts.MaxErrors, opts.StrictMode),
	}
}

// Succeeded reports whether the pipeline produced no blocking errors.
func (ctx *Context) Succeeded() bool { return !ctx.Collector.HasErrors() }

// Processor is one semantic phase.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs processors in a fixed order. Strict mode aborts the
// remaining phases at a phase boundary once any error is recorded; the
// boundary is checked between processors, never mid-walk.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline over the context.
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, proc := range p.processors {
		if ctx.Options.StrictMode && ctx.Collector.HasErrors() {
			break
		}
		ctx = proc.Process(ctx)
	}
	return ctx
}
