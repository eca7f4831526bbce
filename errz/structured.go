// Package errz defines the structured errors raised while constructing
// quill syntax trees. Every error is fatal to building the offending node:
// no partial tree is ever returned alongside a non-nil error.
package errz

import (
	"errors"
	"fmt"

	"github.com/cloudcmds/quill/internal/token"
)

// Kind represents the category of a construction-time error.
type Kind int

const (
	// DuplicateParam indicates two formal parameters share a name.
	DuplicateParam Kind = iota
	// DuplicateField indicates two fixed field names collide within one
	// object member list.
	DuplicateField
	// UnresolvedVariable indicates a free variable with no enclosing
	// binding and no recognized global. Raised by the external resolver,
	// reported through this boundary.
	UnresolvedVariable
	// BadDump indicates malformed input to the debug dump reader.
	BadDump
)

// String returns the string representation of the error kind.
func (k Kind) String() string {
	switch k {
	case DuplicateParam:
		return "duplicate parameter name"
	case DuplicateField:
		return "duplicate field name"
	case UnresolvedVariable:
		return "unresolved variable"
	case BadDump:
		return "malformed dump"
	default:
		return "error"
	}
}

// Error is a construction-time error with a category, the offending name
// when one exists, and a byte offset into the source unit.
type Error struct {
	Kind    Kind
	Name    string    // offending identifier or field name, if any
	Pos     token.Pos // offset into the source unit (or dump text for BadDump)
	Message string    // extra detail; optional
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Name)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Pos.IsValid() {
		msg = fmt.Sprintf("%s (offset %d)", msg, e.Pos)
	}
	return msg
}

// NewDuplicateParam reports a parameter name declared twice in one list.
func NewDuplicateParam(name string, pos token.Pos) *Error {
	return &Error{Kind: DuplicateParam, Name: name, Pos: pos}
}

// NewDuplicateField reports a fixed field name declared twice in one object
// member list.
func NewDuplicateField(name string, pos token.Pos) *Error {
	return &Error{Kind: DuplicateField, Name: name, Pos: pos}
}

// NewUnresolvedVariable reports a free variable that no enclosing binding or
// recognized global accounts for. The list of recognized globals is owned by
// the resolver, not by this package.
func NewUnresolvedVariable(name string, pos token.Pos) *Error {
	return &Error{Kind: UnresolvedVariable, Name: name, Pos: pos}
}

// NewBadDump reports a syntax error in the debug dump format. The offset
// points into the dump text, not into program source.
func NewBadDump(pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: BadDump, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is, or wraps (including via a multierror), a
// construction error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = errors.Unwrap(err)
			continue
		}
		return false
	}
	return false
}
