package token

import "testing"

func TestPosIsValid(t *testing.T) {
	if NoPos.IsValid() {
		t.Error("NoPos should not be valid")
	}
	if !Pos(0).IsValid() {
		t.Error("offset 0 should be valid")
	}
	if !Pos(17).IsValid() {
		t.Error("offset 17 should be valid")
	}
}

func TestPositionNumbering(t *testing.T) {
	pos := Position{Line: 2, Column: 0}
	// Switches to 1-indexed
	if pos.LineNumber() != 3 {
		t.Errorf("LineNumber() = %d, want 3", pos.LineNumber())
	}
	if pos.ColumnNumber() != 1 {
		t.Errorf("ColumnNumber() = %d, want 1", pos.ColumnNumber())
	}
}

func TestSourceMapResolve(t *testing.T) {
	src := "local x = 1;\nx + 2\n"
	m := NewSourceMap("main.qll", src)

	tests := []struct {
		offset Pos
		line   int
		column int
	}{
		{0, 0, 0},   // "l" of local
		{6, 0, 6},   // "x"
		{11, 0, 11}, // ";"
		{13, 1, 0},  // "x" on second line
		{15, 1, 2},  // "+"
	}
	for _, tt := range tests {
		got := m.Resolve(tt.offset)
		if got.Line != tt.line || got.Column != tt.column {
			t.Errorf("Resolve(%d) = %d:%d, want %d:%d",
				tt.offset, got.Line, got.Column, tt.line, tt.column)
		}
		if got.File != "main.qll" {
			t.Errorf("Resolve(%d).File = %q", tt.offset, got.File)
		}
	}
}

func TestSourceMapResolveClamps(t *testing.T) {
	m := NewSourceMap("", "abc")
	got := m.Resolve(100)
	if got.Line != 0 || got.Column != 3 {
		t.Errorf("Resolve past end = %d:%d, want 0:3", got.Line, got.Column)
	}
}

func TestSourceMapResolveInvalid(t *testing.T) {
	m := NewSourceMap("f.qll", "abc")
	got := m.Resolve(NoPos)
	if got.Line != 0 || got.Column != 0 || got.Offset != 0 {
		t.Errorf("Resolve(NoPos) = %+v, want zero position", got)
	}
	if got.File != "f.qll" {
		t.Errorf("Resolve(NoPos).File = %q", got.File)
	}
}

func TestSourceMapSnippet(t *testing.T) {
	src := "a\nbcd\ne"
	m := NewSourceMap("", src)
	if got := m.Snippet(src, 3); got != "bcd" {
		t.Errorf("Snippet(3) = %q, want %q", got, "bcd")
	}
	if got := m.Snippet(src, 6); got != "e" {
		t.Errorf("Snippet(6) = %q, want %q", got, "e")
	}
	// Mismatched source yields nothing rather than a wrong line.
	if got := m.Snippet("other", 3); got != "" {
		t.Errorf("Snippet with wrong source = %q, want empty", got)
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Line: 1, Column: 4, File: "t.qll"}
	if p.String() != "t.qll:2:5" {
		t.Errorf("String() = %q", p.String())
	}
	p.File = ""
	if p.String() != "2:5" {
		t.Errorf("String() = %q", p.String())
	}
}
