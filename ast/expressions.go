package ast

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcmds/quill/internal/token"
	"github.com/cloudcmds/quill/op"
)

// Parened is an expression node for explicit source parentheses. Grouping is
// already encoded in tree shape; the node exists so offsets and any
// round-trip printer can reproduce the original text.
type Parened struct {
	Lparen token.Pos // position of "("
	Inner  Expr
}

func (x *Parened) exprNode() {}

func (x *Parened) Pos() token.Pos { return x.Lparen }
func (x *Parened) String() string { return "(" + x.Inner.String() + ")" }

// UnaryOp is an operator expression where the operator precedes the operand.
type UnaryOp struct {
	OpPos token.Pos // position of the operator
	Op    op.UnaryOpType
	X     Expr // operand
}

func (x *UnaryOp) exprNode() {}

func (x *UnaryOp) Pos() token.Pos { return x.OpPos }
func (x *UnaryOp) String() string { return x.Op.String() + x.X.String() }

// BinaryOp is an operator expression with two operands. Precedence and
// associativity were resolved into nesting shape by the parser; none is
// encoded here.
type BinaryOp struct {
	OpPos token.Pos // position of the operator
	X     Expr      // left operand
	Op    op.BinaryOpType
	Y     Expr // right operand
}

func (x *BinaryOp) exprNode() {}

func (x *BinaryOp) Pos() token.Pos { return x.OpPos }

func (x *BinaryOp) String() string {
	var out bytes.Buffer
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op.String() + " ")
	out.WriteString(x.Y.String())
	return out.String()
}

// AssertExpr is an expression node that checks an assertion before yielding
// the value of the trailing expression. Message is nil when the assertion
// carries no custom message.
type AssertExpr struct {
	AssertPos token.Pos // position of "assert"
	Cond      Expr
	Message   Expr // nil if none
	Value     Expr // the expression the assert guards
}

func (x *AssertExpr) exprNode() {}

func (x *AssertExpr) Pos() token.Pos { return x.AssertPos }

func (x *AssertExpr) String() string {
	var out bytes.Buffer
	out.WriteString("assert ")
	out.WriteString(x.Cond.String())
	if x.Message != nil {
		out.WriteString(" : ")
		out.WriteString(x.Message.String())
	}
	out.WriteString("; ")
	out.WriteString(x.Value.String())
	return out.String()
}

// Bind introduces one local binding at the given slot. When Params is
// non-nil the binding defines a function with those formal parameters,
// otherwise a plain value.
type Bind struct {
	NamePos token.Pos // position of the bound name
	Slot    int       // slot assigned by the resolver
	Params  *Params   // nil for plain value bindings
	Value   Expr      // right-hand side
}

// String renders the binding with its slot standing in for the name.
func (b Bind) String() string {
	var out bytes.Buffer
	out.WriteString("x" + strconv.Itoa(b.Slot))
	if b.Params != nil {
		out.WriteString(b.Params.String())
	}
	out.WriteString(" = ")
	out.WriteString(b.Value.String())
	return out.String()
}

// LocalExpr is an expression node that introduces local bindings scoped to
// the trailing expression.
type LocalExpr struct {
	LocalPos token.Pos // position of "local"
	Binds    []Bind
	Value    Expr // the expression the bindings are visible in
}

func (x *LocalExpr) exprNode() {}

func (x *LocalExpr) Pos() token.Pos { return x.LocalPos }

func (x *LocalExpr) String() string {
	var out bytes.Buffer
	binds := make([]string, 0, len(x.Binds))
	for _, b := range x.Binds {
		binds = append(binds, b.String())
	}
	out.WriteString("local ")
	out.WriteString(strings.Join(binds, ", "))
	out.WriteString("; ")
	out.WriteString(x.Value.String())
	return out.String()
}

// Import is an expression node that imports another document as a value.
// Path resolution and file loading belong to the host, not to the tree.
type Import struct {
	ImportPos token.Pos // position of "import"
	Path      string
}

func (x *Import) exprNode() {}

func (x *Import) Pos() token.Pos { return x.ImportPos }
func (x *Import) String() string { return fmt.Sprintf("import %q", x.Path) }

// ImportStr is an expression node that imports a file verbatim as a string.
type ImportStr struct {
	ImportPos token.Pos // position of "importstr"
	Path      string
}

func (x *ImportStr) exprNode() {}

func (x *ImportStr) Pos() token.Pos { return x.ImportPos }
func (x *ImportStr) String() string { return fmt.Sprintf("importstr %q", x.Path) }

// Error is an expression node that aborts evaluation with a message.
type Error struct {
	ErrorPos token.Pos // position of "error"
	Value    Expr      // the message expression
}

func (x *Error) exprNode() {}

func (x *Error) Pos() token.Pos { return x.ErrorPos }
func (x *Error) String() string { return "error " + x.Value.String() }

// Apply is an expression node that describes the invocation of a function
// with positional and named arguments.
type Apply struct {
	Lparen token.Pos // position of "("
	Target Expr      // function expression
	Args   Args
}

func (x *Apply) exprNode() {}

func (x *Apply) Pos() token.Pos { return x.Lparen }

func (x *Apply) String() string {
	return x.Target.String() + x.Args.String()
}

// Select is an expression node that accesses a field of an object by a
// compile-time name.
type Select struct {
	SelPos token.Pos // position of "."
	Target Expr
	Field  string
}

func (x *Select) exprNode() {}

func (x *Select) Pos() token.Pos { return x.SelPos }
func (x *Select) String() string { return x.Target.String() + "." + x.Field }

// Lookup is an expression node that indexes an object or array with a
// computed key.
type Lookup struct {
	Lbrack token.Pos // position of "["
	Target Expr
	Index  Expr
}

func (x *Lookup) exprNode() {}

func (x *Lookup) Pos() token.Pos { return x.Lbrack }

func (x *Lookup) String() string {
	return x.Target.String() + "[" + x.Index.String() + "]"
}

// Slice is an expression node that slices an array or string. Each of
// Start, End and Stride may be nil when omitted in source.
type Slice struct {
	Lbrack token.Pos // position of "["
	Target Expr
	Start  Expr // nil if omitted
	End    Expr // nil if omitted
	Stride Expr // nil if omitted
}

func (x *Slice) exprNode() {}

func (x *Slice) Pos() token.Pos { return x.Lbrack }

func (x *Slice) String() string {
	var out bytes.Buffer
	out.WriteString(x.Target.String())
	out.WriteString("[")
	if x.Start != nil {
		out.WriteString(x.Start.String())
	}
	out.WriteString(":")
	if x.End != nil {
		out.WriteString(x.End.String())
	}
	if x.Stride != nil {
		out.WriteString(":")
		out.WriteString(x.Stride.String())
	}
	out.WriteString("]")
	return out.String()
}

// IfElse is an expression node that evaluates to one of two branches. Else
// is nil when omitted; the evaluator supplies the implicit null.
type IfElse struct {
	IfPos token.Pos // position of "if"
	Cond  Expr
	Then  Expr
	Else  Expr // nil if omitted
}

func (x *IfElse) exprNode() {}

func (x *IfElse) Pos() token.Pos { return x.IfPos }

func (x *IfElse) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(x.Cond.String())
	out.WriteString(" then ")
	out.WriteString(x.Then.String())
	if x.Else != nil {
		out.WriteString(" else ")
		out.WriteString(x.Else.String())
	}
	return out.String()
}

// IfSpec filters the current binding tuple of a comprehension chain,
// short-circuiting before deeper links when the condition is false.
type IfSpec struct {
	IfPos token.Pos // position of "if"
	Cond  Expr
}

func (x *IfSpec) exprNode()     {}
func (x *IfSpec) compSpecNode() {}

func (x *IfSpec) Pos() token.Pos { return x.IfPos }
func (x *IfSpec) String() string { return "if " + x.Cond.String() }

// ForSpec binds a slot to each successive element of an iterable and
// recurses into the remaining links of a comprehension chain.
type ForSpec struct {
	ForPos token.Pos // position of "for"
	Slot   int       // loop variable slot, assigned by the resolver
	Iter   Expr      // the iterable
}

func (x *ForSpec) exprNode()     {}
func (x *ForSpec) compSpecNode() {}

func (x *ForSpec) Pos() token.Pos { return x.ForPos }

func (x *ForSpec) String() string {
	return "for x" + strconv.Itoa(x.Slot) + " in " + x.Iter.String()
}

// Comp is an expression node for an array comprehension. The generator
// chain is First followed by Rest, iterated left to right.
type Comp struct {
	Lbrack token.Pos // position of "["
	Value  Expr      // element expression
	First  *ForSpec
	Rest   []CompSpec
}

func (x *Comp) exprNode() {}

func (x *Comp) Pos() token.Pos { return x.Lbrack }

func (x *Comp) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	out.WriteString(x.Value.String())
	out.WriteString(" ")
	out.WriteString(x.First.String())
	for _, spec := range x.Rest {
		out.WriteString(" ")
		out.WriteString(spec.String())
	}
	out.WriteString("]")
	return out.String()
}

// ObjExtend is an expression node that extends a base object with an object
// body. Merge precedence for overlapping fields is evaluator logic; the
// tree carries the plus and visibility flags it needs.
type ObjExtend struct {
	Lbrace token.Pos // position of the extension's "{"
	Base   Expr
	Ext    ObjBody
}

func (x *ObjExtend) exprNode() {}

func (x *ObjExtend) Pos() token.Pos { return x.Lbrace }
func (x *ObjExtend) String() string { return x.Base.String() + " " + x.Ext.String() }
