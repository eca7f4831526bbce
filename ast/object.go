package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/quill/errz"
	"github.com/cloudcmds/quill/internal/token"
)

// Visibility controls whether an object field is included when the object
// is enumerated or serialized. Hidden fields stay reachable by direct
// access; Unhide restores visibility of a field a base object hid.
type Visibility uint8

const (
	Normal Visibility = iota + 1
	Hidden
	Unhide
)

// String returns the source marker for the visibility: ":", "::" or ":::".
func (v Visibility) String() string {
	switch v {
	case Normal:
		return ":"
	case Hidden:
		return "::"
	case Unhide:
		return ":::"
	default:
		return ""
	}
}

// FieldName is the key of an object field: either a compile-time literal or
// an expression computed at evaluation time.
type FieldName interface {
	fieldName()
	String() string
}

// FixedName is a field key known at construction time.
type FixedName struct {
	Value string
}

func (n *FixedName) fieldName() {}

func (n *FixedName) String() string {
	if isIdentifier(n.Value) {
		return n.Value
	}
	return fmt.Sprintf("%q", n.Value)
}

// DynName is a field key computed at evaluation time.
type DynName struct {
	Expr Expr
}

func (n *DynName) fieldName() {}

func (n *DynName) String() string { return "[" + n.Expr.String() + "]" }

// Member is one entry of a static object body. The hierarchy is closed:
// Field, BindStmt and AssertStmt are the only implementations.
type Member interface {
	Node
	memberNode()
}

// Field is an object field. Plus marks inherit-merge semantics when the
// enclosing object extends a base; Method is non-nil when the field is a
// function of the given parameters.
type Field struct {
	FieldPos   token.Pos // position of the field name
	Name       FieldName
	Plus       bool
	Method     *Params // nil for plain value fields
	Visibility Visibility
	Value      Expr
}

func (m *Field) memberNode() {}

func (m *Field) Pos() token.Pos { return m.FieldPos }

func (m *Field) String() string {
	var out bytes.Buffer
	out.WriteString(m.Name.String())
	if m.Method != nil {
		out.WriteString(m.Method.String())
	}
	if m.Plus {
		out.WriteString("+")
	}
	out.WriteString(m.Visibility.String())
	out.WriteString(" ")
	out.WriteString(m.Value.String())
	return out.String()
}

// BindStmt is an object-local binding, visible to the other members of the
// same body but never a field of the object.
type BindStmt struct {
	Bind Bind
}

func (m *BindStmt) memberNode() {}

func (m *BindStmt) Pos() token.Pos { return m.Bind.NamePos }
func (m *BindStmt) String() string { return "local " + m.Bind.String() }

// AssertStmt is an object-level assertion checked when the object is
// evaluated. Message is nil when none was written.
type AssertStmt struct {
	AssertPos token.Pos // position of "assert"
	Cond      Expr
	Message   Expr // nil if none
}

func (m *AssertStmt) memberNode() {}

func (m *AssertStmt) Pos() token.Pos { return m.AssertPos }

func (m *AssertStmt) String() string {
	if m.Message != nil {
		return "assert " + m.Cond.String() + " : " + m.Message.String()
	}
	return "assert " + m.Cond.String()
}

// ObjBody is the body of an object literal: either a static member list or
// a comprehension generating fields. The hierarchy is closed.
type ObjBody interface {
	objBodyNode()
	String() string
}

// MemberList is a static object body. Construct with NewMemberList to get
// the duplicate-field check; a MemberList assembled directly is assumed to
// have distinct fixed field names.
type MemberList struct {
	Members []Member
}

func (b *MemberList) objBodyNode() {}

func (b *MemberList) String() string {
	if len(b.Members) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(b.Members))
	for _, m := range b.Members {
		parts = append(parts, m.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// NewMemberList builds a static object body, rejecting duplicate fixed
// field names eagerly. Every colliding declaration is reported, each with
// its own offset. Collisions between dynamic keys, or between a dynamic and
// a fixed key, can only be detected at evaluation time and are not checked
// here.
func NewMemberList(members ...Member) (*MemberList, error) {
	seen := make(map[string]bool)
	var errs *multierror.Error
	for _, m := range members {
		f, ok := m.(*Field)
		if !ok {
			continue
		}
		name, ok := f.Name.(*FixedName)
		if !ok {
			continue
		}
		if seen[name.Value] {
			errs = multierror.Append(errs, errz.NewDuplicateField(name.Value, f.FieldPos))
			continue
		}
		seen[name.Value] = true
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &MemberList{Members: members}, nil
}

// VisibleFields returns the fixed names of the fields an enumeration of the
// object would include, in declaration order: Normal and Unhide fields, with
// Hidden fields excluded. Dynamic-keyed fields are not represented; their
// visibility can only be projected after evaluation.
func (b *MemberList) VisibleFields() []string {
	var out []string
	for _, m := range b.Members {
		f, ok := m.(*Field)
		if !ok {
			continue
		}
		name, ok := f.Name.(*FixedName)
		if !ok {
			continue
		}
		if f.Visibility == Hidden {
			continue
		}
		out = append(out, name.Value)
	}
	return out
}

// ObjComp is an object body generated by a comprehension. For each binding
// tuple surviving the generator chain, the evaluator runs PreLocals, then
// Key and Value in the scope they extend, then PostLocals, producing one
// field. Duplicate keys across iterations are an evaluation-time error.
type ObjComp struct {
	PreLocals  []*BindStmt
	Key        Expr
	Value      Expr
	PostLocals []*BindStmt
	First      *ForSpec
	Rest       []CompSpec
}

func (b *ObjComp) objBodyNode() {}

func (b *ObjComp) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	for _, l := range b.PreLocals {
		out.WriteString(l.String())
		out.WriteString(", ")
	}
	out.WriteString("[")
	out.WriteString(b.Key.String())
	out.WriteString("]: ")
	out.WriteString(b.Value.String())
	for _, l := range b.PostLocals {
		out.WriteString(", ")
		out.WriteString(l.String())
	}
	out.WriteString(" ")
	out.WriteString(b.First.String())
	for _, spec := range b.Rest {
		out.WriteString(" ")
		out.WriteString(spec.String())
	}
	out.WriteString("}")
	return out.String()
}

// Obj is an expression node that constructs an object from a body.
type Obj struct {
	Lbrace token.Pos // position of "{"
	Body   ObjBody
}

func (x *Obj) exprNode() {}

func (x *Obj) Pos() token.Pos { return x.Lbrace }
func (x *Obj) String() string { return x.Body.String() }

// isIdentifier reports whether s can appear unquoted in field position.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
