// Package token defines source offsets attached to quill syntax tree nodes
// and the map used to resolve them to human-readable positions.
package token

import (
	"fmt"
	"sort"
	"strings"
)

// Pos is a byte offset into the source unit a tree was built from. Offsets
// are carried solely for diagnostics; no evaluation decision may depend on
// them.
type Pos int

// NoPos is the invalid/unset offset.
const NoPos Pos = -1

// IsValid returns true if this offset has been set.
func (p Pos) IsValid() bool { return p >= 0 }

// Position is a resolved location within an input string.
type Position struct {
	Offset int    // byte offset within the file
	Line   int    // 0-indexed line number
	Column int    // 0-indexed column number
	File   string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// String returns the position in a file:line:column form suitable for
// diagnostics.
func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.LineNumber(), p.ColumnNumber())
	}
	return fmt.Sprintf("%d:%d", p.LineNumber(), p.ColumnNumber())
}

// SourceMap resolves byte offsets back to line and column information for a
// single source unit. A map is built once by whatever pass holds the source
// text and is read-only afterwards, so concurrent resolution is safe.
type SourceMap struct {
	file       string
	size       int
	lineStarts []int // byte offset of the first character of each line
}

// NewSourceMap builds a SourceMap for the given source text. The file name
// may be empty for anonymous inputs such as test snippets.
func NewSourceMap(file, src string) *SourceMap {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceMap{file: file, size: len(src), lineStarts: starts}
}

// File returns the file name this map was built for.
func (m *SourceMap) File() string { return m.file }

// Size returns the length in bytes of the mapped source.
func (m *SourceMap) Size() int { return m.size }

// Resolve translates a byte offset into a Position. Offsets past the end of
// the source clamp to the final position; invalid offsets resolve to the
// zero Position with only the file name set.
func (m *SourceMap) Resolve(p Pos) Position {
	if !p.IsValid() {
		return Position{File: m.file}
	}
	off := int(p)
	if off > m.size {
		off = m.size
	}
	line := sort.SearchInts(m.lineStarts, off+1) - 1
	return Position{
		Offset: int(p),
		Line:   line,
		Column: off - m.lineStarts[line],
		File:   m.file,
	}
}

// Snippet returns the full source line containing the offset. The same
// source text the map was built from must be supplied; otherwise the empty
// string is returned. Used when rendering diagnostics with source context.
func (m *SourceMap) Snippet(src string, p Pos) string {
	if !p.IsValid() || len(src) != m.size {
		return ""
	}
	pos := m.Resolve(p)
	start := m.lineStarts[pos.Line]
	end := strings.IndexByte(src[start:], '\n')
	if end < 0 {
		return src[start:]
	}
	return src[start : start+end]
}
