package diagnostics

import (
	"strings"
	"testing"

	"github.com/cinderlang/cinder/internal/source"
)

func errorAt(code string, msg string) *Diagnostic {
	return New(KindType, code, source.Span{}, "%s", msg)
}

func TestCollectorKeepsArrivalOrder(t *testing.T) {
	c := NewCollector(0, false)
	c.Add(errorAt(ErrT001, "first"))
	c.Add(errorAt(ErrT002, "second"))
	got := c.Diagnostics()
	if len(got) != 2 || got[0].Message != "first" || got[1].Message != "second" {
		t.Fatalf("unexpected order: %v", got)
	}
	if c.LimitReached() {
		t.Fatal("unbounded collector should never report truncation")
	}
}

func TestCollectorCap(t *testing.T) {
	c := NewCollector(2, false)
	if !c.Add(errorAt(ErrT001, "one")) || !c.Add(errorAt(ErrT001, "two")) {
		t.Fatal("adds under the cap must be kept")
	}
	if c.Add(errorAt(ErrT001, "three")) {
		t.Fatal("add past the cap must be dropped")
	}
	if len(c.Diagnostics()) != 2 {
		t.Fatalf("expected 2 kept diagnostics, got %d", len(c.Diagnostics()))
	}
	if !c.LimitReached() {
		t.Fatal("dropping a diagnostic must set the truncation flag")
	}
}

func TestHasErrorsSeverityThreshold(t *testing.T) {
	c := NewCollector(0, false)
	c.Add(NewWithSeverity(KindSafety, ErrS001, SeverityWarning, source.Span{}, "leak"))
	if c.HasErrors() {
		t.Fatal("a lone warning is not an error outside strict mode")
	}
	c.Add(errorAt(ErrT001, "mismatch"))
	if !c.HasErrors() {
		t.Fatal("an error-severity diagnostic must count")
	}
}

func TestStrictModePromotesWarnings(t *testing.T) {
	c := NewCollector(0, true)
	if !c.Strict() {
		t.Fatal("collector should report strict mode")
	}
	c.Add(NewWithSeverity(KindSafety, ErrS001, SeverityWarning, source.Span{}, "leak"))
	if !c.HasErrors() {
		t.Fatal("strict mode must treat warnings as errors")
	}
}

func TestInfoNeverBlocks(t *testing.T) {
	c := NewCollector(0, true)
	c.Add(NewWithSeverity(KindSemantic, ErrC001, SeverityInfo, source.Span{}, "note"))
	if c.HasErrors() {
		t.Fatal("info diagnostics must not block, even in strict mode")
	}
}

func TestDiagnosticErrorString(t *testing.T) {
	d := New(KindType, ErrT003, source.Span{}, "undefined variable %s", "x")
	want := "type error [T003]: undefined variable x"
	if d.Error() != want {
		t.Fatalf("expected %q, got %q", want, d.Error())
	}
}

func TestInternalCapturesSite(t *testing.T) {
	d := Internal(source.Span{}, "unreachable state")
	if d.Severity != SeverityCritical || d.Code != ErrI001 {
		t.Fatalf("internal errors are critical I001, got %+v", d)
	}
	if !strings.Contains(d.Site, "collector_test.go") {
		t.Fatalf("site should point at the caller, got %q", d.Site)
	}
}
