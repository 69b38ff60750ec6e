package source

import "fmt"

// Span is a half-open byte range [Start, End) into the original source text.
type Span struct {
	Start int
	End   int
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line/column pair resolved against a File.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// File pairs a path with the raw source text. Diagnostics keep the text
// verbatim so spans can be rendered without re-reading anything from disk.
type File struct {
	Path    string
	Content string
}

func NewFile(path, content string) *File {
	return &File{Path: path, Content: content}
}

// PositionFor resolves a byte offset to a line/column position.
// Offsets past the end of the file clamp to the last position.
func (f *File) PositionFor(offset int) Position {
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if f.Content[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// LineAt returns the full text of the line containing the given byte offset,
// without its trailing newline. Used for caret rendering in diagnostics.
func (f *File) LineAt(offset int) string {
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	start := offset
	for start > 0 && f.Content[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(f.Content) && f.Content[end] != '\n' {
		end++
	}
	return f.Content[start:end]
}
