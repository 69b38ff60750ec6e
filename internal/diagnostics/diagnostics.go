package diagnostics

import (
	"fmt"
	"runtime"

	"github.com/cinderlang/cinder/internal/source"
)

// Kind partitions diagnostics by the phase that produced them. The taxonomy
// is shared across the whole pipeline so the CLI and LSP layers render every
// phase's errors identically.
type Kind int

const (
	KindLexer Kind = iota
	KindParser
	KindSemantic
	KindType
	KindSafety
	KindInternal
	KindRuntime
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindLexer:
		return "lexer"
	case KindParser:
		return "parser"
	case KindSemantic:
		return "semantic"
	case KindType:
		return "type"
	case KindSafety:
		return "safety"
	case KindInternal:
		return "internal"
	case KindRuntime:
		return "runtime"
	case KindIO:
		return "io"
	}
	return "unknown"
}

// Severity orders diagnostics from informational to critical.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

// Error codes. T-codes are type errors, S-codes safety, C-codes semantic,
// I-codes internal.
const (
	ErrT001 = "T001" // type mismatch
	ErrT002 = "T002" // wrong argument count
	ErrT003 = "T003" // undefined variable
	ErrT004 = "T004" // undefined function
	ErrT005 = "T005" // unknown field or variant
	ErrT006 = "T006" // infinite type (occurs check)
	ErrT007 = "T007" // no common type
	ErrT008 = "T008" // invalid operand
	ErrC001 = "C001" // duplicate definition
	ErrC002 = "C002" // assignment to immutable or undeclared target
	ErrS001 = "S001" // safety violation
	ErrI001 = "I001" // internal compiler error
)

// Diagnostic is the tagged error value every fallible phase returns. It is a
// value, never panicked; rendering needs only the diagnostic and the file.
type Diagnostic struct {
	Kind     Kind
	Code     string
	Severity Severity
	Span     source.Span
	Message  string
	// Site is only set for internal errors: the Go call site that detected
	// the compiler bug, for bug reports.
	Site string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s error [%s]: %s", d.Kind, d.Code, d.Message)
}

// New builds a diagnostic with SeverityError, the common case.
func New(kind Kind, code string, span source.Span, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Code:     code,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewWithSeverity builds a diagnostic with an explicit severity.
func NewWithSeverity(kind Kind, code string, sev Severity, span source.Span, format string, args ...interface{}) *Diagnostic {
	d := New(kind, code, span, format, args...)
	d.Severity = sev
	return d
}

// Internal reports a compiler bug, capturing the triggering Go call site so
// bug reports carry the origin rather than a generic message.
func Internal(span source.Span, format string, args ...interface{}) *Diagnostic {
	d := New(KindInternal, ErrI001, span, format, args...)
	d.Severity = SeverityCritical
	if _, file, line, ok := runtime.Caller(1); ok {
		d.Site = fmt.Sprintf("%s:%d", file, line)
	}
	return d
}
