package diagnostics

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/cinderlang/cinder/internal/source"
)

func fixture(t *testing.T, archive *txtar.Archive, name string) string {
	t.Helper()
	for _, f := range archive.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("fixture file %s missing from archive", name)
	return ""
}

func TestRenderCaretExcerpt(t *testing.T) {
	archive, err := txtar.ParseFile("testdata/render.txtar")
	if err != nil {
		t.Fatal(err)
	}
	src := fixture(t, archive, "main.cn")
	expected := fixture(t, archive, "expected")

	file := source.NewFile("main.cn", src)
	// f(1) sits at bytes 24..28, line 2 column 13.
	d := New(KindType, ErrT002, source.Span{Start: 24, End: 28},
		"function f expects 2 arguments, got 1")

	var buf bytes.Buffer
	NewPlainRenderer(&buf).Render(d, file)
	if buf.String() != expected {
		t.Fatalf("render mismatch:\n--- got ---\n%s--- want ---\n%s", buf.String(), expected)
	}
}

func TestRenderClampsCaretToLine(t *testing.T) {
	file := source.NewFile("a.cn", "let x = y\n")
	d := New(KindType, ErrT003, source.Span{Start: 8, End: 40}, "undefined variable y")

	var buf bytes.Buffer
	NewPlainRenderer(&buf).Render(d, file)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected head, excerpt and caret lines, got %q", buf.String())
	}
	caret := lines[2]
	if strings.Count(caret, "^") != 1 {
		t.Fatalf("caret width must clamp to the remaining line, got %q", caret)
	}
}

func TestRenderAllEmitsTruncationNote(t *testing.T) {
	file := source.NewFile("a.cn", "let x = y\n")
	c := NewCollector(1, false)
	c.Add(New(KindType, ErrT003, source.Span{Start: 8, End: 9}, "undefined variable y"))
	c.Add(New(KindType, ErrT003, source.Span{Start: 8, End: 9}, "dropped"))

	var buf bytes.Buffer
	NewPlainRenderer(&buf).RenderAll(c, file)
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Fatal("dropped diagnostics must not render")
	}
	if !strings.Contains(out, "note: too many errors, remaining diagnostics suppressed") {
		t.Fatalf("expected a truncation note, got %q", out)
	}
}

func TestRenderInternalSiteNote(t *testing.T) {
	file := source.NewFile("a.cn", "fn main() {}\n")
	d := Internal(source.Span{Start: 0, End: 2}, "unreachable state")

	var buf bytes.Buffer
	NewPlainRenderer(&buf).Render(d, file)
	if !strings.Contains(buf.String(), "please report this bug") {
		t.Fatalf("internal diagnostics should ask for a bug report, got %q", buf.String())
	}
}

func TestDumbTerminalDisablesColor(t *testing.T) {
	t.Setenv("TERM", "dumb")
	r := NewRenderer(os.Stdout, os.Stdout.Fd())
	if r.color {
		t.Fatal("TERM=dumb must force color off")
	}
}

func TestPipeDisablesColor(t *testing.T) {
	var buf bytes.Buffer
	d := New(KindType, ErrT001, source.Span{Start: 0, End: 2}, "mismatch")
	NewPlainRenderer(&buf).Render(d, source.NewFile("a.cn", "fn main() {}\n"))
	if strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("plain renderer must not emit escape codes, got %q", buf.String())
	}
}
