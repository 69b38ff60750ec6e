package safety

import (
	"fmt"

	"github.com/cinderlang/cinder/internal/diagnostics"
	"github.com/cinderlang/cinder/internal/source"
)

// ViolationKind is the closed set of conditions the analyzer reports.
type ViolationKind int

const (
	UninitializedVariable ViolationKind = iota
	UseAfterMove
	MemoryLeak
	ResourceLeak
	NullPointerDereference
	BufferOverflow
	StackOverflow
	UnsafeOperation
	DataRace
	RealtimeViolation
)

func (k ViolationKind) String() string {
	switch k {
	case UninitializedVariable:
		return "uninitialized variable"
	case UseAfterMove:
		return "use after move"
	case MemoryLeak:
		return "memory leak"
	case ResourceLeak:
		return "resource leak"
	case NullPointerDereference:
		return "null pointer dereference"
	case BufferOverflow:
		return "buffer overflow"
	case StackOverflow:
		return "stack overflow"
	case UnsafeOperation:
		return "unsafe operation"
	case DataRace:
		return "data race"
	case RealtimeViolation:
		return "realtime violation"
	}
	return "unknown violation"
}

// severities is a fixed lookup: each kind always maps to the same severity.
var severities = map[ViolationKind]diagnostics.Severity{
	UninitializedVariable:  diagnostics.SeverityError,
	UseAfterMove:           diagnostics.SeverityError,
	MemoryLeak:             diagnostics.SeverityWarning,
	ResourceLeak:           diagnostics.SeverityWarning,
	NullPointerDereference: diagnostics.SeverityCritical,
	BufferOverflow:         diagnostics.SeverityCritical,
	StackOverflow:          diagnostics.SeverityCritical,
	UnsafeOperation:        diagnostics.SeverityError,
	DataRace:               diagnostics.SeverityCritical,
	RealtimeViolation:      diagnostics.SeverityError,
}

// Violation is one flagged condition. Violations are created during a single
// analysis pass, collected into a list and never mutated afterward.
type Violation struct {
	Kind    ViolationKind
	Span    source.Span
	Subject string // the variable or function involved
	Detail  string
}

// Severity returns the fixed severity for the violation's kind.
func (v Violation) Severity() diagnostics.Severity {
	return severities[v.Kind]
}

// Description renders a human-readable message.
func (v Violation) Description() string {
	if v.Detail != "" {
		return fmt.Sprintf("%s: %s", v.Kind, v.Detail)
	}
	if v.Subject != "" {
		return fmt.Sprintf("%s: %s", v.Kind, v.Subject)
	}
	return v.Kind.String()
}

// Diagnostic converts the violation into the shared diagnostics taxonomy.
func (v Violation) Diagnostic() *diagnostics.Diagnostic {
	return diagnostics.NewWithSeverity(
		diagnostics.KindSafety, diagnostics.ErrS001, v.Severity(), v.Span, "%s", v.Description())
}
