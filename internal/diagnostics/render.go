package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/cinderlang/cinder/internal/source"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorBlue   = "\x1b[34m"
	colorBold   = "\x1b[1m"
)

// Renderer formats diagnostics against the original source text.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer builds a renderer for the given writer. Color is enabled only
// when fd refers to a real terminal and TERM is not dumb.
func NewRenderer(out io.Writer, fd uintptr) *Renderer {
	color := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	if os.Getenv("TERM") == "dumb" {
		color = false
	}
	return &Renderer{out: out, color: color}
}

// NewPlainRenderer builds a renderer with color forced off, for tests and
// non-terminal sinks.
func NewPlainRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes a single diagnostic as a caret-annotated excerpt:
//
//	main.cn:3:9: type error [T002]: function f expects 2 arguments, got 1
//	    let x = f(1);
//	            ^^^^
func (r *Renderer) Render(d *Diagnostic, file *source.File) {
	pos := file.PositionFor(d.Span.Start)
	line := file.LineAt(d.Span.Start)

	sev := d.Severity.String()
	head := fmt.Sprintf("%s:%d:%d: %s %s [%s]: %s",
		file.Path, pos.Line, pos.Column, d.Kind, sev, d.Code, d.Message)
	if r.color {
		head = fmt.Sprintf("%s%s:%d:%d:%s %s%s %s [%s]:%s %s",
			colorBold, file.Path, pos.Line, pos.Column, colorReset,
			severityColor(d.Severity), d.Kind, sev, d.Code, colorReset, d.Message)
	}
	fmt.Fprintln(r.out, head)
	if line != "" {
		fmt.Fprintf(r.out, "    %s\n", line)
		width := d.Span.End - d.Span.Start
		if width < 1 {
			width = 1
		}
		if width > len(line)-(pos.Column-1) {
			width = len(line) - (pos.Column - 1)
			if width < 1 {
				width = 1
			}
		}
		caret := strings.Repeat(" ", pos.Column-1) + strings.Repeat("^", width)
		if r.color {
			caret = strings.Repeat(" ", pos.Column-1) + severityColor(d.Severity) + strings.Repeat("^", width) + colorReset
		}
		fmt.Fprintf(r.out, "    %s\n", caret)
	}
	if d.Site != "" {
		fmt.Fprintf(r.out, "    note: detected at %s (please report this bug)\n", d.Site)
	}
}

// RenderAll renders every diagnostic and a trailing note when the collector
// dropped diagnostics at its cap.
func (r *Renderer) RenderAll(c *Collector, file *source.File) {
	for _, d := range c.Diagnostics() {
		r.Render(d, file)
	}
	if c.LimitReached() {
		fmt.Fprintln(r.out, "note: too many errors, remaining diagnostics suppressed")
	}
}

func severityColor(s Severity) string {
	switch s {
	case SeverityInfo:
		return colorBlue
	case SeverityWarning:
		return colorYellow
	default:
		return colorRed
	}
}
